package opendota

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
	"github.com/riskibarqy/dota-match-insight/internal/usecase"
	"github.com/stretchr/testify/require"
)

func matchJSON(matchID int64, radiantTeam string) string {
	return fmt.Sprintf(`{
		"match_id": %d, "duration": 1800, "radiant_score": 31, "dire_score": 12,
		"radiant_team": %s, "patch": 54, "start_time": 1700000000,
		"players": [
			{"match_id": %d, "account_id": 1001, "player_slot": 1, "win": 1, "hero_id": 8,
			 "kills": 10, "assists": 5, "deaths": 2, "pings": 3, "neutral_kills": 55, "lane_kills": 190}
		]
	}`, matchID, radiantTeam, matchID)
}

func TestAcquire_DropsUnreadableMatches(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		match2 http.HandlerFunc
	}{
		{
			name:   "missing match",
			match2: http.NotFound,
		},
		{
			name: "unexpected shape",
			match2: func(w http.ResponseWriter, r *http.Request) {
				_, _ = fmt.Fprint(w, matchJSON(2, `"Team Spirit"`))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mux := http.NewServeMux()
			mux.HandleFunc("GET /proPlayers", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[{"account_id":1001,"name":"Yatoro"}]`))
			})
			mux.HandleFunc("GET /explorer", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"rows":[{"match_id":1},{"match_id":2},{"match_id":3}]}`))
			})
			mux.HandleFunc("GET /matches/1", func(w http.ResponseWriter, r *http.Request) {
				_, _ = fmt.Fprint(w, matchJSON(1, `{"name":"Team Spirit"}`))
			})
			mux.HandleFunc("GET /matches/2", tc.match2)
			mux.HandleFunc("GET /matches/3", func(w http.ResponseWriter, r *http.Request) {
				_, _ = fmt.Fprint(w, matchJSON(3, `null`))
			})

			server := httptest.NewServer(mux)
			t.Cleanup(server.Close)

			logger := logging.NewNop()
			client := NewClient(ClientConfig{BaseURL: server.URL, Logger: logger})
			service := usecase.NewAcquisitionService(client, 2, logger)

			got, err := service.Acquire(context.Background(), match.PlayerQuery{PlayerName: "yatoro", MinPatch: "7.35"})
			require.NoError(t, err)
			require.Len(t, got.Rows, 2)
			require.Equal(t, 1, got.Dropped)
			require.Equal(t, int64(1), got.Rows[0].Match.MatchID)
			require.Equal(t, int64(3), got.Rows[1].Match.MatchID)
		})
	}
}

func TestClient_GetMatch_ShapeMismatchIsMalformed(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, matchJSON(9, `"Team Spirit"`))
	}), 0)

	_, err := client.GetMatch(context.Background(), 9)
	require.ErrorIs(t, err, usecase.ErrMalformedRecord)
	require.NotErrorIs(t, err, usecase.ErrDependencyUnavailable)
}

func TestFetchMatchDetails_SharedThrottleAcrossWorkers(t *testing.T) {
	t.Parallel()

	const (
		interval  = 50 * time.Millisecond
		tolerance = 10 * time.Millisecond
		matches   = 5
	)

	var (
		mu   sync.Mutex
		seen []time.Time
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, time.Now())
		mu.Unlock()

		var id int64
		_, _ = fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/matches/"), "%d", &id)
		_, _ = fmt.Fprint(w, matchJSON(id, `null`))
	}))
	t.Cleanup(server.Close)

	logger := logging.NewNop()
	client := NewClient(ClientConfig{BaseURL: server.URL, RateInterval: interval, Logger: logger})
	service := usecase.NewAcquisitionService(client, 4, logger)

	ids := make([]int64, matches)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	records, dropped, err := service.FetchMatchDetails(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, records, matches)
	require.Zero(t, dropped)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, matches)
	sort.Slice(seen, func(i, j int) bool { return seen[i].Before(seen[j]) })
	for i := 1; i < len(seen); i++ {
		gap := seen[i].Sub(seen[i-1])
		require.GreaterOrEqual(t, gap, interval-tolerance, "requests %d and %d were %s apart", i-1, i, gap)
	}
	require.GreaterOrEqual(t, seen[len(seen)-1].Sub(seen[0]), time.Duration(matches-1)*interval-tolerance)
}
