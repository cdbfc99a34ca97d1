package httpapi

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	"github.com/valyala/bytebufferpool"
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templatesFS, "templates/dashboard.html"))

type dashboardView struct {
	PlayerName   string
	MinPatch     string
	CurrentPatch string
	Patches      []string
	Warning      string
	Info         string
	Summary      *runMetaDTO
	Row          []dashboardField
}

type dashboardField struct {
	Column string
	Value  string
	Null   bool
}

// Dashboard renders the player form and, when a name is given, one random
// row of that player's clean table. Failures are shown inline.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Dashboard")
	defer span.End()

	view := dashboardView{
		PlayerName: strings.TrimSpace(r.URL.Query().Get("name")),
		MinPatch:   strings.TrimSpace(r.URL.Query().Get("min_patch")),
	}

	patches, current, err := h.insightService.Patches(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "dashboard patch list unavailable", "error", err)
	} else {
		view.CurrentPatch = current
		for i := len(patches) - 1; i >= 0; i-- {
			view.Patches = append(view.Patches, patches[i].Name)
		}
	}

	if view.PlayerName != "" {
		h.fillDashboardRun(ctx, &view)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := dashboardTemplate.Execute(buf, view); err != nil {
		h.logger.ErrorContext(ctx, "render dashboard failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.B)
}

func (h *Handler) fillDashboardRun(ctx context.Context, view *dashboardView) {
	result, err := h.insightService.Run(ctx, view.PlayerName, view.MinPatch)
	if err != nil {
		h.logger.WarnContext(ctx, "dashboard run failed", "player_name", view.PlayerName, "min_patch", view.MinPatch, "error", err)
		view.Warning = dashboardWarning(ctx, err)
		return
	}

	meta := toRunMetaDTO(result)
	view.Summary = &meta

	row, ok := h.sample(result)
	if !ok {
		view.Info = "No matches with complete data were found for this player and patch range."
		return
	}
	view.Row = dashboardFields(row)
}

func dashboardFields(row match.CleanRow) []dashboardField {
	values := row.Values()
	out := make([]dashboardField, 0, len(match.CleanColumns))
	for i, column := range match.CleanColumns {
		out = append(out, dashboardField{
			Column: column,
			Value:  values[i],
			Null:   values[i] == "",
		})
	}
	return out
}

func dashboardWarning(ctx context.Context, err error) string {
	switch mapError(ctx, err).Reason {
	case "notFound":
		return "No professional player matches that name."
	case "invalidInput":
		return "Check the player name and patch: " + err.Error()
	case "rateLimited":
		return "The match data provider is rate limiting requests. Try again in a minute."
	case "dependencyUnavailable", "deadlineExceeded":
		return "The match data provider is unavailable right now. Try again later."
	default:
		return "Something went wrong while building the match table."
	}
}
