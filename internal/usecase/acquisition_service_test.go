package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
	matchmock "github.com/riskibarqy/dota-match-insight/internal/mocks/domain/match"
	"github.com/stretchr/testify/mock"
)

func TestAcquisitionService_Acquire_JoinsPlayerRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gateway := matchmock.NewGateway(t)
	service := NewAcquisitionService(gateway, 2, logging.NewNop())

	gateway.
		On("ListProPlayers", mock.Anything).
		Return([]match.ProPlayer{{AccountID: 55, Name: "Other"}, {AccountID: 1001, Name: "Yatoro"}}, nil).
		Once()
	gateway.
		On("ListMatchIDs", mock.Anything, int64(1001), "7.35").
		Return([]int64{10, 11, 12}, nil).
		Once()
	gateway.On("GetMatch", mock.Anything, int64(10)).Return(testMatch(10, 1001, 1), nil).Once()
	gateway.On("GetMatch", mock.Anything, int64(11)).Return(testMatch(11, 4242, 1), nil).Once()
	gateway.On("GetMatch", mock.Anything, int64(12)).Return(testMatch(12, 1001, 131), nil).Once()

	got, err := service.Acquire(ctx, match.PlayerQuery{PlayerName: "yatoro", MinPatch: "7.35"})
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if got.PlayerID != 1001 {
		t.Fatalf("unexpected player id: %d", got.PlayerID)
	}
	if len(got.MatchIDs) != 3 {
		t.Fatalf("unexpected match id count: %d", len(got.MatchIDs))
	}
	if len(got.Rows) != 2 || got.Dropped != 1 {
		t.Fatalf("unexpected rows=%d dropped=%d", len(got.Rows), got.Dropped)
	}
	if got.Rows[0].Match.MatchID != 10 || got.Rows[1].Match.MatchID != 12 {
		t.Fatalf("rows out of match id order: %d, %d", got.Rows[0].Match.MatchID, got.Rows[1].Match.MatchID)
	}
	if got.Rows[0].Match.Roster != nil {
		t.Fatalf("joined row should not carry the roster")
	}
}

func TestAcquisitionService_Acquire_EmptyMatchList(t *testing.T) {
	t.Parallel()

	gateway := matchmock.NewGateway(t)
	service := NewAcquisitionService(gateway, 1, logging.NewNop())

	gateway.On("ListProPlayers", mock.Anything).Return([]match.ProPlayer{{AccountID: 7, Name: "Miracle-"}}, nil).Once()
	gateway.On("ListMatchIDs", mock.Anything, int64(7), "7.36").Return([]int64{}, nil).Once()

	got, err := service.Acquire(context.Background(), match.PlayerQuery{PlayerName: "Miracle-", MinPatch: "7.36"})
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if got.PlayerID != 7 || len(got.Rows) != 0 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestAcquisitionService_ResolvePlayerID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gateway := matchmock.NewGateway(t)
	service := NewAcquisitionService(gateway, 1, logging.NewNop())

	players := []match.ProPlayer{
		{AccountID: 1, Name: "Ame"},
		{AccountID: 2, Name: "AME"},
		{AccountID: 3, Name: "Collapse"},
	}
	gateway.On("ListProPlayers", mock.Anything).Return(players, nil).Times(2)

	id, err := service.ResolvePlayerID(ctx, "ame")
	if err != nil {
		t.Fatalf("resolve ambiguous name: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected first candidate, got %d", id)
	}

	if _, err := service.ResolvePlayerID(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAcquisitionService_FetchMatchDetails_AbortsOnGatewayError(t *testing.T) {
	t.Parallel()

	gateway := matchmock.NewGateway(t)
	service := NewAcquisitionService(gateway, 1, logging.NewNop())

	gateway.On("GetMatch", mock.Anything, int64(1)).Return(testMatch(1, 1001, 0), nil).Once()
	gateway.On("GetMatch", mock.Anything, int64(2)).Return(match.MatchRecord{}, ErrDependencyUnavailable).Once()

	_, _, err := service.FetchMatchDetails(context.Background(), []int64{1, 2, 3})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestAcquisitionService_FetchMatchDetails_DropsEmptyMatches(t *testing.T) {
	t.Parallel()

	gateway := matchmock.NewGateway(t)
	service := NewAcquisitionService(gateway, 3, logging.NewNop())

	gateway.On("GetMatch", mock.Anything, int64(1)).Return(testMatch(1, 1001, 0), nil).Once()
	gateway.On("GetMatch", mock.Anything, int64(2)).Return(match.MatchRecord{MatchID: 2}, nil).Once()
	gateway.On("GetMatch", mock.Anything, int64(3)).Return(testMatch(3, 1001, 0), nil).Once()

	matches, dropped, err := service.FetchMatchDetails(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(matches) != 2 || dropped != 1 {
		t.Fatalf("unexpected matches=%d dropped=%d", len(matches), dropped)
	}
	if matches[0].MatchID != 1 || matches[1].MatchID != 3 {
		t.Fatalf("unexpected order: %d, %d", matches[0].MatchID, matches[1].MatchID)
	}
}

func TestAcquisitionService_FetchMatchDetails_DropsUnreadableMatches(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
	}{
		{name: "missing match", err: fmt.Errorf("fetch match id=2: %w: provider status=404", ErrNotFound)},
		{name: "unexpected shape", err: fmt.Errorf("fetch match id=2: %w: decode provider payload", ErrMalformedRecord)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gateway := matchmock.NewGateway(t)
			service := NewAcquisitionService(gateway, 2, logging.NewNop())

			gateway.On("ListProPlayers", mock.Anything).Return([]match.ProPlayer{{AccountID: 1001, Name: "Yatoro"}}, nil).Once()
			gateway.On("ListMatchIDs", mock.Anything, int64(1001), "7.35").Return([]int64{1, 2, 3}, nil).Once()
			gateway.On("GetMatch", mock.Anything, int64(1)).Return(testMatch(1, 1001, 0), nil).Once()
			gateway.On("GetMatch", mock.Anything, int64(2)).Return(match.MatchRecord{}, tc.err).Once()
			gateway.On("GetMatch", mock.Anything, int64(3)).Return(testMatch(3, 1001, 0), nil).Once()

			got, err := service.Acquire(context.Background(), match.PlayerQuery{PlayerName: "Yatoro", MinPatch: "7.35"})
			if err != nil {
				t.Fatalf("acquire: %v", err)
			}
			if len(got.Rows) != 2 || got.Dropped != 1 {
				t.Fatalf("unexpected rows=%d dropped=%d", len(got.Rows), got.Dropped)
			}
			if got.Rows[0].Match.MatchID != 1 || got.Rows[1].Match.MatchID != 3 {
				t.Fatalf("unexpected order: %d, %d", got.Rows[0].Match.MatchID, got.Rows[1].Match.MatchID)
			}
		})
	}
}

func TestExtractAndJoin_DropsRowsMissingRequiredFields(t *testing.T) {
	t.Parallel()

	complete := testMatch(1, 1001, 0)
	noDuration := testMatch(2, 1001, 0)
	noDuration.Duration = nil
	noHero := testMatch(3, 1001, 0)
	noHero.Roster[1].HeroID = nil
	noSeries := testMatch(4, 1001, 0)
	noSeries.RadiantGoldAdv = nil
	noSeries.Roster[1].GoldT = nil
	noSeries.DireTeam = nil

	rows, dropped := ExtractAndJoin(1001, []match.MatchRecord{complete, noDuration, noHero, noSeries})
	if len(rows) != 2 || dropped != 2 {
		t.Fatalf("unexpected rows=%d dropped=%d", len(rows), dropped)
	}
	if rows[1].Match.MatchID != 4 {
		t.Fatalf("row with missing optional fields should survive, got match %d", rows[1].Match.MatchID)
	}
}
