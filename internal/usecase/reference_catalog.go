package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	"github.com/riskibarqy/dota-match-insight/internal/platform/cache"
	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const referenceCacheKey = "reference:tables"

// ReferenceCatalog serves the patch and hero lookups. Tables are loaded once
// per cache TTL and shared by every run.
type ReferenceCatalog struct {
	gateway match.Gateway
	cache   *cache.Store
	logger  *logging.Logger
}

func NewReferenceCatalog(gateway match.Gateway, store *cache.Store, logger *logging.Logger) *ReferenceCatalog {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReferenceCatalog{
		gateway: gateway,
		cache:   store,
		logger:  logger,
	}
}

func (c *ReferenceCatalog) Load(ctx context.Context) (match.ReferenceTables, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReferenceCatalog.Load")
	defer span.End()

	tables, _, err := cache.Load(ctx, c.cache, referenceCacheKey, c.fetch)
	if err != nil {
		return match.ReferenceTables{}, err
	}
	return tables, nil
}

func (c *ReferenceCatalog) Invalidate(ctx context.Context) {
	c.cache.Delete(ctx, referenceCacheKey)
}

func (c *ReferenceCatalog) fetch(ctx context.Context) (match.ReferenceTables, error) {
	var (
		patches []match.Patch
		heroes  []match.Hero
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		out, err := c.gateway.ListPatches(ctx)
		if err != nil {
			return fmt.Errorf("list patches: %w", err)
		}
		patches = out
		return nil
	})
	p.Go(func(ctx context.Context) error {
		out, err := c.gateway.ListHeroes(ctx)
		if err != nil {
			return fmt.Errorf("list heroes: %w", err)
		}
		heroes = out
		return nil
	})
	if err := p.Wait(); err != nil {
		return match.ReferenceTables{}, err
	}

	if len(patches) == 0 {
		return match.ReferenceTables{}, fmt.Errorf("%w: patch list is empty", ErrDependencyUnavailable)
	}

	tables := match.NewReferenceTables(patches, heroes)
	c.logger.DebugContext(ctx, "reference tables loaded",
		"patches", len(tables.Patches),
		"heroes", len(tables.Heroes),
		"current_patch", tables.CurrentPatch,
	)
	return tables, nil
}
