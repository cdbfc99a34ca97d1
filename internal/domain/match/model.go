package match

import "strings"

type Side string

const (
	SideRadiant Side = "Radiant"
	SideDire    Side = "Dire"
)

// PlayerQuery is the input of one pipeline run.
type PlayerQuery struct {
	PlayerName string `validate:"required,max=64"`
	MinPatch   string `validate:"omitempty,patch"`
}

// Key identifies the query for memoization: names compare case-insensitively.
func (q PlayerQuery) Key() string {
	return strings.ToLower(strings.TrimSpace(q.PlayerName)) + "|" + strings.TrimSpace(q.MinPatch)
}

type ProPlayer struct {
	AccountID int64
	Name      string
}

type TeamRef struct {
	Name string
}

type LeagueRef struct {
	Name string
}

type MatchRecord struct {
	MatchID        int64
	Duration       *int
	RadiantScore   *int
	DireScore      *int
	RadiantGoldAdv []int
	RadiantXPAdv   []int
	RadiantTeam    *TeamRef
	DireTeam       *TeamRef
	League         *LeagueRef
	Patch          *int
	StartTime      *int64
	Roster         []PlayerMatchStats
}

// PlayerMatchStats is one roster entry. Time series are indexed by minute.
type PlayerMatchStats struct {
	MatchID      int64
	AccountID    *int64
	PlayerSlot   *int
	Win          *int
	HeroID       *int
	Kills        *int
	Assists      *int
	Deaths       *int
	Denies       *int
	LastHits     *int
	GoldPerMin   *int
	XPPerMin     *int
	TotalGold    *int
	Pings        *int
	KDA          *float64
	DeniesT      []int
	LastHitsT    []int
	GoldT        []int
	XPT          []int
	KillStreaks  map[string]int
	NeutralKills *int
	LaneKills    *int
	Lane         *int
	IsRoaming    *bool
}

// JoinedRow is one player's line in one match, with match-level fields.
// The roster itself is not carried over.
type JoinedRow struct {
	Player PlayerMatchStats
	Match  MatchRecord
}

type CleanRow struct {
	MatchID       int64   `json:"match_id"`
	Side          Side    `json:"side"`
	Win           string  `json:"win"`
	Hero          *string `json:"hero"`
	Kills         int     `json:"kills"`
	Assists       int     `json:"assists"`
	Deaths        int     `json:"deaths"`
	Denies        *int    `json:"denies"`
	LastHits      *int    `json:"last_hits"`
	GoldPerMin    *int    `json:"gold_per_min"`
	XPPerMin      *int    `json:"xp_per_min"`
	TotalGold     *int    `json:"total_gold"`
	KDA           float64 `json:"kda"`
	HighestKS     *int    `json:"highest_ks"`
	Pings         int     `json:"pings"`
	NeutralCreeps int     `json:"neutral_creeps"`
	LaneCreeps    int     `json:"lane_creeps"`
	Lane          *string `json:"lane"`
	IsRoaming     *string `json:"is_roaming"`
	Duration      string  `json:"duration"`
	RadiantScore  int     `json:"radiant_score"`
	DireScore     int     `json:"dire_score"`
	RadiantTeam   *string `json:"radiant_team"`
	DireTeam      *string `json:"dire_team"`
	League        *string `json:"league"`
	Patch         *string `json:"patch"`
	StartTime     string  `json:"start_time"`
	DN10          *int    `json:"dn_10"`
	DN20          *int    `json:"dn_20"`
	DN30          *int    `json:"dn_30"`
	LH10          *int    `json:"lh_10"`
	LH20          *int    `json:"lh_20"`
	LH30          *int    `json:"lh_30"`
	NW10          *int    `json:"nw_10"`
	NW20          *int    `json:"nw_20"`
	NW30          *int    `json:"nw_30"`
	XP10          *int    `json:"xp_10"`
	XP20          *int    `json:"xp_20"`
	XP30          *int    `json:"xp_30"`
	GoldDiff10    *int    `json:"gold_diff_10"`
	GoldDiff20    *int    `json:"gold_diff_20"`
	GoldDiff30    *int    `json:"gold_diff_30"`
	XPDiff10      *int    `json:"xp_diff_10"`
	XPDiff20      *int    `json:"xp_diff_20"`
	XPDiff30      *int    `json:"xp_diff_30"`
}
