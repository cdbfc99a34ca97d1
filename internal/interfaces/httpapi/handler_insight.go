package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	"github.com/riskibarqy/dota-match-insight/internal/usecase"
)

func (h *Handler) GetPlayerMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerMatches")
	defer span.End()

	req, err := h.playerMatchesRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.insightService.Run(ctx, req.PlayerName, req.MinPatch)
	if err != nil {
		h.logger.WarnContext(ctx, "run player matches failed", "player_name", req.PlayerName, "min_patch", req.MinPatch, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerMatchesDTO{
		runMetaDTO: toRunMetaDTO(result),
		Columns:    match.CleanColumns,
		Rows:       emptyIfNil(result.Rows),
	})
}

func (h *Handler) GetPlayerMatchSample(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerMatchSample")
	defer span.End()

	req, err := h.playerMatchesRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.insightService.Run(ctx, req.PlayerName, req.MinPatch)
	if err != nil {
		h.logger.WarnContext(ctx, "run player sample failed", "player_name", req.PlayerName, "min_patch", req.MinPatch, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := playerSampleDTO{runMetaDTO: toRunMetaDTO(result)}
	if row, ok := h.sample(result); ok {
		out.Row = &row
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) InvalidatePlayerMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InvalidatePlayerMatches")
	defer span.End()

	req, err := h.playerMatchesRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.insightService.Invalidate(ctx, req.PlayerName, req.MinPatch); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"player_name": req.PlayerName,
		"min_patch":   req.MinPatch,
		"invalidated": true,
	})
}

func (h *Handler) FlushCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FlushCache")
	defer span.End()

	removed := h.insightService.InvalidateAll(ctx)
	h.logger.InfoContext(ctx, "insight cache flushed", "removed", removed)

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"removed": removed})
}

func (h *Handler) ListPatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPatches")
	defer span.End()

	patches, current, err := h.insightService.Patches(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list patches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, patchListDTO{
		CurrentPatch: current,
		Patches:      toPatchDTOs(patches),
	})
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRuns")
	defer span.End()

	req := listRunsRequest{}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		req.Limit = limit
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err))
		return
	}

	runs, err := h.insightService.ListRuns(ctx, req.Limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]runSummaryDTO, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunSummaryDTO(run))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRun")
	defer span.End()

	run, rows, err := h.insightService.GetRun(ctx, r.PathValue("runID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runDetailDTO{
		runSummaryDTO: toRunSummaryDTO(run),
		Rows:          emptyIfNil(rows),
	})
}

func (h *Handler) playerMatchesRequest(r *http.Request) (playerMatchesRequest, error) {
	req := playerMatchesRequest{
		PlayerName: strings.TrimSpace(r.PathValue("name")),
		MinPatch:   strings.TrimSpace(r.URL.Query().Get("min_patch")),
	}
	if err := h.validator.StructCtx(r.Context(), req); err != nil {
		return playerMatchesRequest{}, fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return req, nil
}
