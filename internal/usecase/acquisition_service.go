package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
)

const defaultFetchWorkers = 1

// AcquisitionResult is the joined table for one player plus bookkeeping.
type AcquisitionResult struct {
	PlayerID int64
	MatchIDs []int64
	Rows     []match.JoinedRow
	Dropped  int
}

type AcquisitionService struct {
	gateway      match.Gateway
	fetchWorkers int
	logger       *logging.Logger
}

func NewAcquisitionService(gateway match.Gateway, fetchWorkers int, logger *logging.Logger) *AcquisitionService {
	if fetchWorkers <= 0 {
		fetchWorkers = defaultFetchWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AcquisitionService{
		gateway:      gateway,
		fetchWorkers: fetchWorkers,
		logger:       logger,
	}
}

// Acquire resolves the player, lists their matches since query.MinPatch,
// fetches every match and joins the player's roster line onto it. Missing or
// unreadable matches are dropped; any other gateway failure aborts the run.
func (s *AcquisitionService) Acquire(ctx context.Context, query match.PlayerQuery) (AcquisitionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AcquisitionService.Acquire")
	defer span.End()

	playerID, err := s.ResolvePlayerID(ctx, query.PlayerName)
	if err != nil {
		return AcquisitionResult{}, err
	}

	matchIDs, err := s.ListMatchIDs(ctx, playerID, query.MinPatch)
	if err != nil {
		return AcquisitionResult{}, err
	}
	result := AcquisitionResult{PlayerID: playerID, MatchIDs: matchIDs}
	if len(matchIDs) == 0 {
		s.logger.InfoContext(ctx, "no matches for player", "player", query.PlayerName, "min_patch", query.MinPatch)
		return result, nil
	}

	matches, droppedMatches, err := s.FetchMatchDetails(ctx, matchIDs)
	if err != nil {
		return AcquisitionResult{}, err
	}

	rows, droppedRows := ExtractAndJoin(playerID, matches)
	result.Rows = rows
	result.Dropped = droppedMatches + droppedRows

	s.logger.InfoContext(ctx, "acquisition finished",
		"player", query.PlayerName,
		"player_id", playerID,
		"matches", len(matchIDs),
		"rows", len(rows),
		"dropped", result.Dropped,
	)
	return result, nil
}

// ResolvePlayerID finds the pro player whose name equals name ignoring case.
// When several players share the name the first one listed wins.
func (s *AcquisitionService) ResolvePlayerID(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	players, err := s.gateway.ListProPlayers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pro players: %w", err)
	}

	var (
		found      match.ProPlayer
		candidates int
	)
	for _, p := range players {
		if !strings.EqualFold(strings.TrimSpace(p.Name), name) {
			continue
		}
		if candidates == 0 {
			found = p
		}
		candidates++
	}

	switch {
	case candidates == 0:
		return 0, fmt.Errorf("%w: player=%s", ErrNotFound, name)
	case candidates > 1:
		s.logger.WarnContext(ctx, "player name is ambiguous, using first match",
			"player", name,
			"candidates", candidates,
			"account_id", found.AccountID,
		)
	}
	return found.AccountID, nil
}

func (s *AcquisitionService) ListMatchIDs(ctx context.Context, playerID int64, minPatch string) ([]int64, error) {
	ids, err := s.gateway.ListMatchIDs(ctx, playerID, minPatch)
	if err != nil {
		return nil, fmt.Errorf("list match ids player=%d: %w", playerID, err)
	}
	return ids, nil
}

// FetchMatchDetails loads every match on the worker pool. Results keep the
// order of ids. Matches the gateway cannot find or decode, and matches
// without an id or roster, are dropped and counted.
func (s *AcquisitionService) FetchMatchDetails(ctx context.Context, ids []int64) ([]match.MatchRecord, int, error) {
	if len(ids) == 0 {
		return nil, 0, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerCount := s.fetchWorkers
	if workerCount > len(ids) {
		workerCount = len(ids)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	fetched := make([]match.MatchRecord, len(ids))
	skipped := make([]bool, len(ids))
	var (
		firstErr error
		errOnce  sync.Once
		workers  sync.WaitGroup
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i, matchID := range ids {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if ctx.Err() != nil {
				return
			}

			record, err := s.gateway.GetMatch(ctx, matchID)
			switch {
			case err == nil:
				fetched[i] = record
			case errors.Is(err, ErrNotFound), errors.Is(err, ErrMalformedRecord):
				s.logger.WarnContext(ctx, "drop unreadable match", "match_id", matchID, "error", err)
				skipped[i] = true
			default:
				fail(fmt.Errorf("get match id=%d: %w", matchID, err))
			}
		}); err != nil {
			workers.Done()
			fail(fmt.Errorf("submit task to worker pool: %w", err))
			break
		}
	}

	workers.Wait()
	if firstErr != nil {
		return nil, 0, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	out := make([]match.MatchRecord, 0, len(fetched))
	dropped := 0
	for i, record := range fetched {
		if skipped[i] {
			dropped++
			continue
		}
		if record.MatchID == 0 || len(record.Roster) == 0 {
			s.logger.WarnContext(ctx, "drop match without id or roster", "match_id", ids[i])
			dropped++
			continue
		}
		out = append(out, record)
	}
	return out, dropped, nil
}

// ExtractAndJoin picks the player's roster line from every match and joins
// it with the match-level fields. Matches without the player, and joined
// rows missing a required field, are dropped and counted.
func ExtractAndJoin(playerID int64, matches []match.MatchRecord) ([]match.JoinedRow, int) {
	rows := make([]match.JoinedRow, 0, len(matches))
	dropped := 0
	for _, m := range matches {
		player, ok := findRosterEntry(m.Roster, playerID)
		if !ok {
			dropped++
			continue
		}
		if player.MatchID == 0 {
			player.MatchID = m.MatchID
		}

		header := m
		header.Roster = nil
		row := match.JoinedRow{Player: player, Match: header}
		if !hasRequiredFields(row) {
			dropped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, dropped
}

func findRosterEntry(roster []match.PlayerMatchStats, playerID int64) (match.PlayerMatchStats, bool) {
	for _, entry := range roster {
		if entry.AccountID != nil && *entry.AccountID == playerID {
			return entry, true
		}
	}
	return match.PlayerMatchStats{}, false
}

func hasRequiredFields(row match.JoinedRow) bool {
	p, m := row.Player, row.Match
	if p.MatchID == 0 || m.StartTime == nil {
		return false
	}
	for _, v := range []*int{
		p.PlayerSlot, p.Win, p.HeroID, p.Kills, p.Assists, p.Deaths,
		m.Duration, m.RadiantScore, m.DireScore, m.Patch,
	} {
		if v == nil {
			return false
		}
	}
	return true
}
