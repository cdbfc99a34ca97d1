package opendota

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	"github.com/riskibarqy/dota-match-insight/internal/platform/cache"
	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
	"github.com/riskibarqy/dota-match-insight/internal/platform/resilience"
	"github.com/riskibarqy/dota-match-insight/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, retries int) (*Client, *[]time.Duration) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "secret-key",
		Timeout:    2 * time.Second,
		MaxRetries: retries,
		Logger:     logging.NewNop(),
	})

	var (
		mu     sync.Mutex
		sleeps []time.Duration
	)
	client.sleep = func(_ context.Context, d time.Duration) error {
		mu.Lock()
		sleeps = append(sleeps, d)
		mu.Unlock()
		return nil
	}
	return client, &sleeps
}

func TestClient_ListMatchIDs_SendsExplorerQuery(t *testing.T) {
	t.Parallel()

	var gotSQL, gotKey string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/explorer" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotSQL = r.URL.Query().Get("sql")
		gotKey = r.URL.Query().Get("api_key")
		_, _ = w.Write([]byte(`{"rows":[{"match_id":7001},{"match_id":null},{"match_id":7003}],"err":null}`))
	}), 0)

	ids, err := client.ListMatchIDs(context.Background(), 123, "7.35")
	if err != nil {
		t.Fatalf("list match ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != 7001 || ids[1] != 7003 {
		t.Fatalf("unexpected ids: %v", ids)
	}
	if !strings.Contains(gotSQL, "match_patch.patch >= cast(7.35 as varchar)") {
		t.Fatalf("patch filter missing from sql: %s", gotSQL)
	}
	if !strings.Contains(gotSQL, "player_matches.account_id = 123") {
		t.Fatalf("account filter missing from sql: %s", gotSQL)
	}
	if !strings.Contains(gotSQL, "ORDER BY matches.match_id NULLS LAST") {
		t.Fatalf("ordering missing from sql: %s", gotSQL)
	}
	if gotKey != "secret-key" {
		t.Fatalf("expected api key query param, got %q", gotKey)
	}
}

func TestClient_ListMatchIDs_ExplorerError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rows":[],"err":"syntax error at or near"}`))
	}), 0)

	if _, err := client.ListMatchIDs(context.Background(), 1, "7.35"); err == nil {
		t.Fatalf("expected explorer error")
	}
}

func TestClient_ListMatchIDs_RejectsBadPatch(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.NotFoundHandler(), 0)
	_, err := client.ListMatchIDs(context.Background(), 1, "7.35; DROP TABLE matches")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_ListHeroesAndPatches(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/constants/heroes":
			_, _ = w.Write([]byte(`{"74":{"id":74,"localized_name":"Invoker"},"1":{"id":1,"localized_name":"Anti-Mage"}}`))
		case "/constants/patch":
			_, _ = w.Write([]byte(`[{"name":"7.34","date":"2023-08-08T00:00:00Z","id":53},{"name":"7.35","date":"2023-12-14T00:00:00Z","id":54}]`))
		default:
			http.NotFound(w, r)
		}
	}), 0)

	heroes, err := client.ListHeroes(context.Background())
	if err != nil {
		t.Fatalf("list heroes: %v", err)
	}
	if len(heroes) != 2 || heroes[0].ID != 1 || heroes[1].LocalizedName != "Invoker" {
		t.Fatalf("unexpected heroes: %+v", heroes)
	}

	patches, err := client.ListPatches(context.Background())
	if err != nil {
		t.Fatalf("list patches: %v", err)
	}
	tables := match.NewReferenceTables(patches, heroes)
	if tables.CurrentPatch != "7.35" {
		t.Fatalf("unexpected current patch: %s", tables.CurrentPatch)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, sleeps := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"account_id":1,"name":"Yatoro"}]`))
	}), 3)

	players, err := client.ListProPlayers(context.Background())
	if err != nil {
		t.Fatalf("list pro players: %v", err)
	}
	if len(players) != 1 || players[0].Name != "Yatoro" {
		t.Fatalf("unexpected players: %+v", players)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if len(*sleeps) != 2 || (*sleeps)[0] != time.Second || (*sleeps)[1] != 2*time.Second {
		t.Fatalf("unexpected backoff: %v", *sleeps)
	}
}

func TestClient_RateLimitedHonorsRetryAfter(t *testing.T) {
	t.Parallel()

	client, sleeps := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
	}), 1)

	_, err := client.ListProPlayers(context.Background())
	if !errors.Is(err, usecase.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != 3*time.Second {
		t.Fatalf("expected one 3s wait, got %v", *sleeps)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("api key leaked into error: %v", err)
	}
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}), 3)

	_, err := client.GetMatch(context.Background(), 99)
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("api key leaked into error: %v", err)
	}
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Hour,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.ListPatches(context.Background()); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if _, err := client.ListPatches(context.Background()); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected breaker rejection, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("open breaker should not reach the server, calls=%d", calls.Load())
	}
}

func TestClient_EndToEndPipeline(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /proPlayers", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"account_id":1001,"name":"Yatoro"},{"account_id":2002,"name":"Collapse"}]`))
	})
	mux.HandleFunc("GET /constants/patch", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"7.35","date":"2023-12-14T00:00:00Z","id":54}]`))
	})
	mux.HandleFunc("GET /constants/heroes", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"8":{"id":8,"localized_name":"Juggernaut"}}`))
	})
	mux.HandleFunc("GET /explorer", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rows":[{"match_id":555}]}`))
	})
	mux.HandleFunc("GET /matches/555", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{
			"match_id": 555,
			"duration": 1800,
			"radiant_score": 31,
			"dire_score": 12,
			"radiant_gold_adv": null,
			"radiant_xp_adv": null,
			"radiant_team": {"name": "Team Spirit"},
			"dire_team": null,
			"league": {"name": "DreamLeague"},
			"patch": 54,
			"start_time": 1700000000,
			"players": [
				{"match_id": 555, "account_id": 1001, "player_slot": 1, "win": 1, "hero_id": 8,
				 "kills": 10, "assists": 5, "deaths": 2, "denies": 7, "last_hits": 300,
				 "gold_per_min": 640, "xp_per_min": 720, "total_gold": 19200, "pings": 3, "kda": 7.5,
				 "kill_streaks": {"3": 1}, "neutral_kills": 55, "lane_kills": 190, "lane": 1, "is_roaming": false},
				{"match_id": 555, "account_id": 2002, "player_slot": 129, "win": 0, "hero_id": 8,
				 "kills": 1, "assists": 1, "deaths": 8, "pings": 0, "neutral_kills": 1, "lane_kills": 1}
			]
		}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	logger := logging.NewNop()
	client := NewClient(ClientConfig{BaseURL: server.URL, Logger: logger})
	service := usecase.NewInsightService(
		usecase.NewAcquisitionService(client, 1, logger),
		usecase.NewReferenceCatalog(client, cache.NewStore(time.Hour), logger),
		cache.NewStore(time.Hour),
		nil,
		logger,
		time.Minute,
	)

	result, err := service.Run(context.Background(), "yatoro", "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(result.Rows))
	}

	row := result.Rows[0]
	if row.Side != match.SideRadiant || row.Duration != "30:00" || row.KDA != 7.5 {
		t.Fatalf("unexpected row: side=%s duration=%s kda=%v", row.Side, row.Duration, row.KDA)
	}
	if row.Hero == nil || *row.Hero != "Juggernaut" || row.Patch == nil || *row.Patch != "7.35" {
		t.Fatalf("unexpected names: hero=%v patch=%v", row.Hero, row.Patch)
	}
	if row.DireTeam != nil || row.GoldDiff10 != nil {
		t.Fatalf("missing inputs should stay null: dire_team=%v gold_diff_10=%v", row.DireTeam, row.GoldDiff10)
	}
	if row.HighestKS == nil || *row.HighestKS != 3 {
		t.Fatalf("unexpected highest streak: %v", row.HighestKS)
	}
}
