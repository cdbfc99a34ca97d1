package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/dota-match-insight/internal/domain/insightrun"
	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	"github.com/riskibarqy/dota-match-insight/internal/platform/cache"
	"github.com/riskibarqy/dota-match-insight/internal/platform/id"
	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
)

const (
	runCachePrefix      = "run:"
	defaultRunListLimit = 20
)

var patchPattern = regexp.MustCompile(`^\d+\.\d+[a-z]?$`)

// RunResult is the clean table produced for one PlayerQuery. Cached is true
// when the result was served from the memo without touching the gateway.
type RunResult struct {
	RunID       string            `json:"run_id"`
	Query       match.PlayerQuery `json:"-"`
	PlayerName  string            `json:"player_name"`
	MinPatch    string            `json:"min_patch"`
	PlayerID    int64             `json:"player_id"`
	MatchCount  int               `json:"match_count"`
	Rows        []match.CleanRow  `json:"rows"`
	Dropped     int               `json:"dropped"`
	Empty       bool              `json:"empty"`
	Cached      bool              `json:"cached"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// Sample picks one row uniformly at random. A nil rng uses the global source.
func (r RunResult) Sample(rng *rand.Rand) (match.CleanRow, bool) {
	if len(r.Rows) == 0 {
		return match.CleanRow{}, false
	}
	var idx int
	if rng == nil {
		idx = rand.IntN(len(r.Rows))
	} else {
		idx = rng.IntN(len(r.Rows))
	}
	return r.Rows[idx], true
}

type InsightService struct {
	acquisition *AcquisitionService
	catalog     *ReferenceCatalog
	memo        *cache.Store
	archive     insightrun.Repository
	ids         id.Generator
	validator   *validator.Validate
	logger      *logging.Logger
	runTimeout  time.Duration
	now         func() time.Time
}

func NewInsightService(
	acquisition *AcquisitionService,
	catalog *ReferenceCatalog,
	memo *cache.Store,
	ids id.Generator,
	logger *logging.Logger,
	runTimeout time.Duration,
) *InsightService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	queryValidator, err := newQueryValidator()
	if err != nil {
		panic(err)
	}
	return &InsightService{
		acquisition: acquisition,
		catalog:     catalog,
		memo:        memo,
		ids:         ids,
		validator:   queryValidator,
		logger:      logger,
		runTimeout:  runTimeout,
		now:         time.Now,
	}
}

// WithArchive stores every fresh run in repo. Archive failures are logged
// and never fail the run.
func (s *InsightService) WithArchive(repo insightrun.Repository) *InsightService {
	s.archive = repo
	return s
}

func newQueryValidator() (*validator.Validate, error) {
	v := validator.New()
	err := v.RegisterValidation("patch", func(fl validator.FieldLevel) bool {
		return patchPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		return nil, fmt.Errorf("register patch validation: %w", err)
	}
	return v, nil
}

// Run executes the pipeline for one player. Identical inputs are served from
// the memo; concurrent identical calls share one execution.
func (s *InsightService) Run(ctx context.Context, playerName, minPatch string) (RunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InsightService.Run")
	defer span.End()

	query, err := s.query(ctx, playerName, minPatch)
	if err != nil {
		return RunResult{}, err
	}

	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	result, hit, err := cache.Load(ctx, s.memo, runCacheKey(query), func(ctx context.Context) (RunResult, error) {
		return s.execute(ctx, query)
	})
	if err != nil {
		return RunResult{}, err
	}
	result.Cached = hit
	return result, nil
}

// Invalidate drops the memoized result for the given inputs.
func (s *InsightService) Invalidate(ctx context.Context, playerName, minPatch string) error {
	query, err := s.query(ctx, playerName, minPatch)
	if err != nil {
		return err
	}
	s.memo.Delete(ctx, runCacheKey(query))
	return nil
}

// InvalidateAll drops every memoized run and the reference tables.
func (s *InsightService) InvalidateAll(ctx context.Context) int {
	removed := s.memo.DeletePrefix(ctx, runCachePrefix)
	s.catalog.Invalidate(ctx)
	return removed
}

// CacheStats reports the run memo's size and hit counters.
func (s *InsightService) CacheStats() cache.Stats {
	return s.memo.Stats()
}

func (s *InsightService) Patches(ctx context.Context) ([]match.Patch, string, error) {
	tables, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load reference tables: %w", err)
	}
	return tables.PatchList, tables.CurrentPatch, nil
}

func (s *InsightService) ListRuns(ctx context.Context, limit int) ([]insightrun.Run, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("%w: run archive is disabled", ErrDependencyUnavailable)
	}
	if limit <= 0 {
		limit = defaultRunListLimit
	}

	runs, err := s.archive.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *InsightService) GetRun(ctx context.Context, runID string) (insightrun.Run, []match.CleanRow, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return insightrun.Run{}, nil, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}
	if s.archive == nil {
		return insightrun.Run{}, nil, fmt.Errorf("%w: run archive is disabled", ErrDependencyUnavailable)
	}

	run, rows, err := s.archive.Get(ctx, runID)
	if err != nil {
		if errors.Is(err, insightrun.ErrRunNotFound) {
			return insightrun.Run{}, nil, fmt.Errorf("%w: run=%s", ErrNotFound, runID)
		}
		return insightrun.Run{}, nil, fmt.Errorf("get run: %w", err)
	}
	return run, rows, nil
}

func (s *InsightService) query(ctx context.Context, playerName, minPatch string) (match.PlayerQuery, error) {
	query := match.PlayerQuery{
		PlayerName: strings.TrimSpace(playerName),
		MinPatch:   strings.TrimSpace(minPatch),
	}
	if err := s.validator.StructCtx(ctx, query); err != nil {
		return match.PlayerQuery{}, fmt.Errorf("%w: validation failed: %v", ErrInvalidInput, err)
	}
	return query, nil
}

func (s *InsightService) execute(ctx context.Context, query match.PlayerQuery) (RunResult, error) {
	refs, err := s.catalog.Load(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("load reference tables: %w", err)
	}
	if query.MinPatch == "" {
		query.MinPatch = refs.CurrentPatch
	}

	acquired, err := s.acquisition.Acquire(ctx, query)
	if err != nil {
		return RunResult{}, err
	}

	normalized := Normalize(acquired.Rows, refs)
	for _, failure := range normalized.Failures {
		s.logger.WarnContext(ctx, "skip malformed row",
			"match_id", failure.MatchID,
			"field", failure.Field,
			"error", failure.Err,
		)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return RunResult{}, err
	}

	result := RunResult{
		RunID:       runID,
		Query:       query,
		PlayerName:  query.PlayerName,
		MinPatch:    query.MinPatch,
		PlayerID:    acquired.PlayerID,
		MatchCount:  len(acquired.MatchIDs),
		Rows:        normalized.Rows,
		Dropped:     acquired.Dropped + normalized.Dropped,
		Empty:       len(normalized.Rows) == 0,
		GeneratedAt: s.now().UTC(),
	}
	s.archiveRun(ctx, result)
	return result, nil
}

func (s *InsightService) archiveRun(ctx context.Context, result RunResult) {
	if s.archive == nil {
		return
	}

	run := insightrun.Run{
		ID:         result.RunID,
		PlayerName: result.PlayerName,
		PlayerID:   result.PlayerID,
		MinPatch:   result.MinPatch,
		MatchCount: result.MatchCount,
		RowCount:   len(result.Rows),
		Dropped:    result.Dropped,
		CreatedAt:  result.GeneratedAt,
	}
	if err := s.archive.Save(ctx, run, result.Rows); err != nil {
		s.logger.WarnContext(ctx, "archive run failed", "run_id", run.ID, "error", err)
	}
}

func runCacheKey(query match.PlayerQuery) string {
	return runCachePrefix + query.Key()
}
