package httpapi

import (
	"time"

	"github.com/riskibarqy/dota-match-insight/internal/domain/insightrun"
	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	"github.com/riskibarqy/dota-match-insight/internal/platform/cache"
	"github.com/riskibarqy/dota-match-insight/internal/usecase"
)

type playerMatchesRequest struct {
	PlayerName string `validate:"required,max=64"`
	MinPatch   string `validate:"omitempty,max=16"`
}

type healthDTO struct {
	Status string        `json:"status"`
	Cache  cacheStatsDTO `json:"cache"`
}

type cacheStatsDTO struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

type listRunsRequest struct {
	Limit int `validate:"omitempty,min=1,max=200"`
}

type runMetaDTO struct {
	RunID       string    `json:"run_id"`
	PlayerName  string    `json:"player_name"`
	PlayerID    int64     `json:"player_id"`
	MinPatch    string    `json:"min_patch"`
	MatchCount  int       `json:"match_count"`
	RowCount    int       `json:"row_count"`
	Dropped     int       `json:"dropped"`
	Empty       bool      `json:"empty"`
	Cached      bool      `json:"cached"`
	GeneratedAt time.Time `json:"generated_at"`
}

type playerMatchesDTO struct {
	runMetaDTO
	Columns []string         `json:"columns"`
	Rows    []match.CleanRow `json:"rows"`
}

type playerSampleDTO struct {
	runMetaDTO
	Row *match.CleanRow `json:"row"`
}

type patchDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Date string `json:"date,omitempty"`
}

type patchListDTO struct {
	CurrentPatch string     `json:"current_patch"`
	Patches      []patchDTO `json:"patches"`
}

type runSummaryDTO struct {
	RunID      string    `json:"run_id"`
	PlayerName string    `json:"player_name"`
	PlayerID   int64     `json:"player_id"`
	MinPatch   string    `json:"min_patch"`
	MatchCount int       `json:"match_count"`
	RowCount   int       `json:"row_count"`
	Dropped    int       `json:"dropped"`
	CreatedAt  time.Time `json:"created_at"`
}

type runDetailDTO struct {
	runSummaryDTO
	Rows []match.CleanRow `json:"rows"`
}

func toRunMetaDTO(result usecase.RunResult) runMetaDTO {
	return runMetaDTO{
		RunID:       result.RunID,
		PlayerName:  result.PlayerName,
		PlayerID:    result.PlayerID,
		MinPatch:    result.MinPatch,
		MatchCount:  result.MatchCount,
		RowCount:    len(result.Rows),
		Dropped:     result.Dropped,
		Empty:       result.Empty,
		Cached:      result.Cached,
		GeneratedAt: result.GeneratedAt,
	}
}

func toCacheStatsDTO(stats cache.Stats) cacheStatsDTO {
	return cacheStatsDTO{Entries: stats.Entries, Hits: stats.Hits, Misses: stats.Misses}
}

func toRunSummaryDTO(run insightrun.Run) runSummaryDTO {
	return runSummaryDTO{
		RunID:      run.ID,
		PlayerName: run.PlayerName,
		PlayerID:   run.PlayerID,
		MinPatch:   run.MinPatch,
		MatchCount: run.MatchCount,
		RowCount:   run.RowCount,
		Dropped:    run.Dropped,
		CreatedAt:  run.CreatedAt,
	}
}

func toPatchDTOs(patches []match.Patch) []patchDTO {
	out := make([]patchDTO, 0, len(patches))
	for _, p := range patches {
		out = append(out, patchDTO{ID: p.ID, Name: p.Name, Date: p.Date})
	}
	return out
}

func emptyIfNil(rows []match.CleanRow) []match.CleanRow {
	if rows == nil {
		return []match.CleanRow{}
	}
	return rows
}
