package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/dota-match-insight/internal/config"
	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
	"github.com/riskibarqy/dota-match-insight/internal/usecase"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	t.Setenv("APP_ENV", config.EnvDev)
	t.Setenv("OPENDOTA_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("OPENDOTA_MAX_RETRIES", "0")
	t.Setenv("OPENDOTA_RATE_INTERVAL", "0s")
	t.Setenv("ARCHIVE_PATH", filepath.Join(t.TempDir(), "nested", "insight.db"))

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNewServices_WithoutArchive(t *testing.T) {
	cfg := testConfig(t)

	services, err := NewServices(cfg, logging.NewNop(), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = services.Close() })

	_, err = services.Insight.ListRuns(context.Background(), 5)
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
}

func TestNewServices_ArchiveCreatesDatabase(t *testing.T) {
	cfg := testConfig(t)

	services, err := NewServices(cfg, logging.NewNop(), true)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, services.Close()) })

	require.FileExists(t, cfg.ArchivePath)

	runs, err := services.Insight.ListRuns(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestNewHTTPServer_ServesHealthz(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReadTimeout = 2 * time.Second

	services, err := NewServices(cfg, logging.NewNop(), false)
	require.NoError(t, err)

	srv, err := NewHTTPServer(cfg, services, logging.NewNop())
	require.NoError(t, err)
	require.Equal(t, ":8080", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestNewHTTPServer_RequiresServices(t *testing.T) {
	_, err := NewHTTPServer(config.Config{HTTPAddr: ":8080"}, nil, nil)
	require.Error(t, err)
}
