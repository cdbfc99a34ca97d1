package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/dota-match-insight/internal/domain/insightrun"
	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	qb "github.com/riskibarqy/dota-match-insight/internal/platform/querybuilder"
)

const (
	rowInsertChunkSize = 200
	// fixed width so created_at sorts lexically
	createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

type RunRepository struct {
	db *sqlx.DB
}

var _ insightrun.Repository = (*RunRepository)(nil)

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save stores a run and its clean rows. Saving an existing run id replaces
// the previous rows.
func (r *RunRepository) Save(ctx context.Context, run insightrun.Run, rows []match.CleanRow) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save run tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query, args, err := qb.InsertModels(qb.ReplaceInto("insight_runs").Dialect(qb.Question), []runTableModel{{
		ID:         run.ID,
		PlayerName: run.PlayerName,
		PlayerID:   run.PlayerID,
		MinPatch:   run.MinPatch,
		MatchCount: run.MatchCount,
		RowCount:   run.RowCount,
		Dropped:    run.Dropped,
		CreatedAt:  run.CreatedAt.UTC().Format(createdAtLayout),
	}})
	if err != nil {
		return fmt.Errorf("build insert run query: %w", err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM insight_run_rows WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("clear run rows: %w", err)
	}

	for start := 0; start < len(rows); start += rowInsertChunkSize {
		end := min(start+rowInsertChunkSize, len(rows))

		models := make([]runRowTableModel, 0, end-start)
		for i := start; i < end; i++ {
			payload, encErr := sonic.MarshalString(rows[i])
			if encErr != nil {
				return fmt.Errorf("encode run row %d: %w", i, encErr)
			}
			models = append(models, runRowTableModel{
				RunID:    run.ID,
				Position: i,
				MatchID:  rows[i].MatchID,
				Payload:  payload,
			})
		}

		query, args, err = qb.InsertModels(qb.InsertInto("insight_run_rows").Dialect(qb.Question), models)
		if err != nil {
			return fmt.Errorf("build insert run rows query: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert run rows: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save run tx: %w", err)
	}
	return nil
}

func (r *RunRepository) List(ctx context.Context, limit int) ([]insightrun.Run, error) {
	query, args, err := qb.Select("*").From("insight_runs").
		Dialect(qb.Question).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select runs query: %w", err)
	}

	var rows []runTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}

	out := make([]insightrun.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, runFromModel(row))
	}
	return out, nil
}

func (r *RunRepository) Get(ctx context.Context, runID string) (insightrun.Run, []match.CleanRow, error) {
	query, args, err := qb.Select("*").From("insight_runs").
		Dialect(qb.Question).
		Where(qb.Eq("id", runID)).
		ToSQL()
	if err != nil {
		return insightrun.Run{}, nil, fmt.Errorf("build get run query: %w", err)
	}

	var row runTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return insightrun.Run{}, nil, fmt.Errorf("%w: id=%s", insightrun.ErrRunNotFound, runID)
		}
		return insightrun.Run{}, nil, fmt.Errorf("get run: %w", err)
	}

	query, args, err = qb.Select("run_id", "position", "match_id", "payload").From("insight_run_rows").
		Dialect(qb.Question).
		Where(qb.Eq("run_id", runID)).
		OrderBy("position").
		ToSQL()
	if err != nil {
		return insightrun.Run{}, nil, fmt.Errorf("build select run rows query: %w", err)
	}

	var models []runRowTableModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return insightrun.Run{}, nil, fmt.Errorf("select run rows: %w", err)
	}

	cleanRows := make([]match.CleanRow, 0, len(models))
	for _, m := range models {
		var clean match.CleanRow
		if err := sonic.UnmarshalString(m.Payload, &clean); err != nil {
			return insightrun.Run{}, nil, fmt.Errorf("decode run row %d: %w", m.Position, err)
		}
		cleanRows = append(cleanRows, clean)
	}
	return runFromModel(row), cleanRows, nil
}

func runFromModel(row runTableModel) insightrun.Run {
	createdAt, _ := time.Parse(createdAtLayout, row.CreatedAt)
	return insightrun.Run{
		ID:         row.ID,
		PlayerName: row.PlayerName,
		PlayerID:   row.PlayerID,
		MinPatch:   row.MinPatch,
		MatchCount: row.MatchCount,
		RowCount:   row.RowCount,
		Dropped:    row.Dropped,
		CreatedAt:  createdAt,
	}
}
