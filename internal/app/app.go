package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/riskibarqy/dota-match-insight/external/opendota"
	"github.com/riskibarqy/dota-match-insight/internal/config"
	"github.com/riskibarqy/dota-match-insight/internal/infrastructure/repository/sqlite"
	"github.com/riskibarqy/dota-match-insight/internal/interfaces/httpapi"
	"github.com/riskibarqy/dota-match-insight/internal/platform/cache"
	idgen "github.com/riskibarqy/dota-match-insight/internal/platform/id"
	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
	"github.com/riskibarqy/dota-match-insight/internal/platform/resilience"
	"github.com/riskibarqy/dota-match-insight/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Services is the wired insight stack shared by the HTTP server and the CLI.
type Services struct {
	Insight *usecase.InsightService

	closers []func() error
}

// Close releases the archive database, if one was opened.
func (s *Services) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewServices builds the OpenDota gateway, caches and services. archive
// forces the run archive on even when ARCHIVE_ENABLED is false.
func NewServices(cfg config.Config, logger *logging.Logger, archive bool) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	gateway := opendota.NewClient(opendota.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.OpenDotaTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:      cfg.OpenDotaBaseURL,
		APIKey:       cfg.OpenDotaAPIKey,
		Timeout:      cfg.OpenDotaTimeout,
		MaxRetries:   cfg.OpenDotaMaxRetries,
		RateInterval: cfg.OpenDotaRateInterval,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.OpenDotaCircuitEnabled,
			FailureThreshold: cfg.OpenDotaCircuitFailureCount,
			OpenTimeout:      cfg.OpenDotaCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.OpenDotaCircuitHalfOpenMaxReq,
		},
	})

	catalog := usecase.NewReferenceCatalog(gateway, cache.NewStore(cfg.ReferenceCacheTTL), logger)
	insight := usecase.NewInsightService(
		usecase.NewAcquisitionService(gateway, cfg.OpenDotaFetchWorkers, logger),
		catalog,
		cache.NewStore(cfg.CacheTTL),
		idgen.NewUUIDGenerator(),
		logger,
		cfg.RunTimeout,
	)

	services := &Services{Insight: insight}
	if !cfg.ArchiveEnabled && !archive {
		return services, nil
	}

	if dir := filepath.Dir(cfg.ArchivePath); dir != "." && cfg.ArchivePath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}
	db, err := sqlite.Open(cfg.ArchivePath,
		otelsql.WithDBName(archiveDBName(cfg.ArchivePath)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}
	services.closers = append(services.closers, db.Close)
	insight.WithArchive(sqlite.NewRunRepository(db))

	logger.Info("run archive enabled", "path", cfg.ArchivePath)
	return services, nil
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if services == nil || services.Insight == nil {
		return nil, fmt.Errorf("insight service is required")
	}

	handler := httpapi.NewHandler(services.Insight, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
