package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/riskibarqy/dota-match-insight/internal/domain/insightrun"
	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	"github.com/riskibarqy/dota-match-insight/internal/platform/cache"
	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
	insightrunmock "github.com/riskibarqy/dota-match-insight/internal/mocks/domain/insightrun"
	matchmock "github.com/riskibarqy/dota-match-insight/internal/mocks/domain/match"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sequenceIDs struct {
	next int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("run-%d", g.next), nil
}

func newTestInsightService(gateway match.Gateway) *InsightService {
	logger := logging.NewNop()
	return NewInsightService(
		NewAcquisitionService(gateway, 1, logger),
		NewReferenceCatalog(gateway, cache.NewStore(time.Hour), logger),
		cache.NewStore(time.Hour),
		&sequenceIDs{},
		logger,
		time.Minute,
	)
}

func expectReferenceTables(gateway *matchmock.Gateway) {
	gateway.
		On("ListPatches", mock.Anything).
		Return([]match.Patch{{ID: 52, Name: "7.34"}, {ID: 53, Name: "7.35"}}, nil).
		Once()
	gateway.
		On("ListHeroes", mock.Anything).
		Return([]match.Hero{{ID: 74, LocalizedName: "Invoker"}}, nil).
		Once()
}

func TestInsightService_Run_EndToEnd(t *testing.T) {
	t.Parallel()

	gateway := matchmock.NewGateway(t)
	service := newTestInsightService(gateway)

	expectReferenceTables(gateway)
	gateway.On("ListProPlayers", mock.Anything).Return([]match.ProPlayer{{AccountID: 1001, Name: "Yatoro"}}, nil).Once()
	gateway.On("ListMatchIDs", mock.Anything, int64(1001), "7.34").Return([]int64{42}, nil).Once()
	gateway.On("GetMatch", mock.Anything, int64(42)).Return(testMatch(42, 1001, 1), nil).Once()

	result, err := service.Run(context.Background(), "Yatoro", "7.34")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.False(t, result.Cached)
	require.False(t, result.Empty)

	row := result.Rows[0]
	require.Equal(t, match.SideRadiant, row.Side)
	require.Equal(t, "30:00", row.Duration)
	require.Equal(t, 7.5, row.KDA)
	require.Equal(t, "Win", row.Win)
	require.Equal(t, int64(1001), result.PlayerID)
	require.Equal(t, 1, result.MatchCount)
}

func TestInsightService_Run_MemoizesIdenticalInputs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gateway := matchmock.NewGateway(t)
	service := newTestInsightService(gateway)

	expectReferenceTables(gateway)
	gateway.On("ListProPlayers", mock.Anything).Return([]match.ProPlayer{{AccountID: 1001, Name: "Yatoro"}}, nil).Once()
	gateway.On("ListMatchIDs", mock.Anything, int64(1001), "7.35").Return([]int64{42}, nil).Once()
	gateway.On("GetMatch", mock.Anything, int64(42)).Return(testMatch(42, 1001, 1), nil).Once()

	first, err := service.Run(ctx, "Yatoro", "")
	require.NoError(t, err)
	require.Equal(t, "7.35", first.MinPatch, "empty min patch should resolve to the current patch")

	second, err := service.Run(ctx, "yatoro ", "")
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.RunID, second.RunID)
	require.Equal(t, first.Rows, second.Rows)
}

func TestInsightService_Invalidate_RefetchesRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gateway := matchmock.NewGateway(t)
	service := newTestInsightService(gateway)

	expectReferenceTables(gateway)
	gateway.On("ListProPlayers", mock.Anything).Return([]match.ProPlayer{{AccountID: 1001, Name: "Yatoro"}}, nil).Times(2)
	gateway.On("ListMatchIDs", mock.Anything, int64(1001), "7.35").Return([]int64{}, nil).Times(2)

	first, err := service.Run(ctx, "Yatoro", "7.35")
	require.NoError(t, err)
	require.True(t, first.Empty)

	require.NoError(t, service.Invalidate(ctx, "YATORO", "7.35"))

	second, err := service.Run(ctx, "Yatoro", "7.35")
	require.NoError(t, err)
	require.False(t, second.Cached)
	require.NotEqual(t, first.RunID, second.RunID)
}

func TestInsightService_Run_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	service := newTestInsightService(matchmock.NewGateway(t))

	cases := []struct {
		name     string
		player   string
		minPatch string
	}{
		{name: "empty player", player: "  ", minPatch: "7.35"},
		{name: "bad patch", player: "Yatoro", minPatch: "latest"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Run(context.Background(), tc.player, tc.minPatch)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestInsightService_Run_UnknownPlayer(t *testing.T) {
	t.Parallel()

	gateway := matchmock.NewGateway(t)
	service := newTestInsightService(gateway)

	expectReferenceTables(gateway)
	gateway.On("ListProPlayers", mock.Anything).Return([]match.ProPlayer{}, nil).Once()

	_, err := service.Run(context.Background(), "Ghost", "7.35")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInsightService_Run_ArchivesFreshRuns(t *testing.T) {
	t.Parallel()

	gateway := matchmock.NewGateway(t)
	archive := insightrunmock.NewRepository(t)
	service := newTestInsightService(gateway).WithArchive(archive)

	expectReferenceTables(gateway)
	gateway.On("ListProPlayers", mock.Anything).Return([]match.ProPlayer{{AccountID: 1001, Name: "Yatoro"}}, nil).Once()
	gateway.On("ListMatchIDs", mock.Anything, int64(1001), "7.35").Return([]int64{42}, nil).Once()
	gateway.On("GetMatch", mock.Anything, int64(42)).Return(testMatch(42, 1001, 130), nil).Once()

	archive.
		On("Save",
			mock.Anything,
			mock.MatchedBy(func(run insightrun.Run) bool {
				return run.PlayerID == 1001 && run.RowCount == 1 && run.MinPatch == "7.35"
			}),
			mock.MatchedBy(func(rows []match.CleanRow) bool { return len(rows) == 1 }),
		).
		Return(errors.New("disk full")).
		Once()

	result, err := service.Run(context.Background(), "Yatoro", "7.35")
	require.NoError(t, err, "archive failures must not fail the run")
	require.Len(t, result.Rows, 1)
	require.Equal(t, match.SideDire, result.Rows[0].Side)
}

func TestInsightService_GetRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	archive := insightrunmock.NewRepository(t)
	service := newTestInsightService(matchmock.NewGateway(t)).WithArchive(archive)

	archive.On("Get", mock.Anything, "missing").Return(insightrun.Run{}, nil, insightrun.ErrRunNotFound).Once()
	archive.On("Get", mock.Anything, "run-1").Return(insightrun.Run{ID: "run-1", RowCount: 1}, []match.CleanRow{{MatchID: 1}}, nil).Once()

	_, _, err := service.GetRun(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	run, rows, err := service.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, "run-1", run.ID)
	require.Len(t, rows, 1)
}

func TestInsightService_ListRuns_WithoutArchive(t *testing.T) {
	t.Parallel()

	service := newTestInsightService(matchmock.NewGateway(t))

	_, err := service.ListRuns(context.Background(), 10)
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestRunResult_Sample(t *testing.T) {
	t.Parallel()

	empty := RunResult{}
	if _, ok := empty.Sample(nil); ok {
		t.Fatalf("empty result should not produce a sample")
	}

	result := RunResult{Rows: []match.CleanRow{{MatchID: 1}, {MatchID: 2}, {MatchID: 3}}}
	rng := rand.New(rand.NewPCG(1, 2))
	seen := make(map[int64]bool)
	for range 200 {
		row, ok := result.Sample(rng)
		if !ok {
			t.Fatalf("expected a sample")
		}
		seen[row.MatchID] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected every row to be sampled eventually, saw %v", seen)
	}
}

func TestNewQueryValidator_PatchTag(t *testing.T) {
	t.Parallel()

	v, err := newQueryValidator()
	require.NoError(t, err)

	for _, patch := range []string{"", "7.35", "7.33c"} {
		require.NoError(t, v.Struct(match.PlayerQuery{PlayerName: "Ame", MinPatch: patch}), "patch %q", patch)
	}
	for _, patch := range []string{"7", "latest", "7.35; DROP"} {
		require.Error(t, v.Struct(match.PlayerQuery{PlayerName: "Ame", MinPatch: patch}), "patch %q", patch)
	}
}
