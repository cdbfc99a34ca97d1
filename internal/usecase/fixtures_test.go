package usecase

import (
	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
)

func ptr[T any](v T) *T {
	return &v
}

func series(n int, f func(i int) int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

func testReferenceTables() match.ReferenceTables {
	return match.NewReferenceTables(
		[]match.Patch{{ID: 52, Name: "7.34"}, {ID: 53, Name: "7.35"}},
		[]match.Hero{{ID: 1, LocalizedName: "Anti-Mage"}, {ID: 74, LocalizedName: "Invoker"}},
	)
}

// testMatch builds a complete match where accountID played in slot with a
// 10/5/2 score line.
func testMatch(matchID, accountID int64, slot int) match.MatchRecord {
	return match.MatchRecord{
		MatchID:        matchID,
		Duration:       ptr(1800),
		RadiantScore:   ptr(30),
		DireScore:      ptr(20),
		RadiantGoldAdv: series(35, func(i int) int { return i * 100 }),
		RadiantXPAdv:   series(35, func(i int) int { return i * 50 }),
		RadiantTeam:    &match.TeamRef{Name: "Team Spirit"},
		DireTeam:       &match.TeamRef{Name: "Gaimin Gladiators"},
		League:         &match.LeagueRef{Name: "The International"},
		Patch:          ptr(53),
		StartTime:      ptr(int64(1700000000)),
		Roster: []match.PlayerMatchStats{
			{
				AccountID:    ptr(int64(999)),
				PlayerSlot:   ptr(129),
				Win:          ptr(0),
				HeroID:       ptr(1),
				Kills:        ptr(1),
				Assists:      ptr(1),
				Deaths:       ptr(9),
				Pings:        ptr(0),
				NeutralKills: ptr(0),
				LaneKills:    ptr(0),
			},
			{
				MatchID:      matchID,
				AccountID:    ptr(accountID),
				PlayerSlot:   ptr(slot),
				Win:          ptr(1),
				HeroID:       ptr(74),
				Kills:        ptr(10),
				Assists:      ptr(5),
				Deaths:       ptr(2),
				Denies:       ptr(12),
				LastHits:     ptr(320),
				GoldPerMin:   ptr(650),
				XPPerMin:     ptr(700),
				TotalGold:    ptr(19500),
				Pings:        ptr(4),
				NeutralKills: ptr(40),
				LaneKills:    ptr(210),
				Lane:         ptr(2),
				IsRoaming:    ptr(false),
				DeniesT:      series(35, func(i int) int { return i }),
				LastHitsT:    series(35, func(i int) int { return i * 10 }),
				GoldT:        series(35, func(i int) int { return i * 600 }),
				XPT:          series(35, func(i int) int { return i * 700 }),
				KillStreaks:  map[string]int{"3": 2, "5": 1},
			},
		},
	}
}

func joinedRow(matchID int64, slot int) match.JoinedRow {
	rows, _ := ExtractAndJoin(1001, []match.MatchRecord{testMatch(matchID, 1001, slot)})
	return rows[0]
}
