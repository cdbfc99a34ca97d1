package insightrun

import (
	"context"

	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
)

type Repository interface {
	Save(ctx context.Context, run Run, rows []match.CleanRow) error
	List(ctx context.Context, limit int) ([]Run, error)
	Get(ctx context.Context, runID string) (Run, []match.CleanRow, error)
}
