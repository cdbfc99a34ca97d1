package opendota

import (
	"bytes"
	"math"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
)

// optInt accepts a JSON number (integral or not), a numeric string or null.
type optInt struct {
	Value int64
	Set   bool
}

func (o *optInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = optInt{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if s == "" {
			*o = optInt{}
			return nil
		}
		trimmed = []byte(s)
	}

	f, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return err
	}
	*o = optInt{Value: int64(math.Round(f)), Set: true}
	return nil
}

func (o optInt) intPtr() *int {
	if !o.Set {
		return nil
	}
	v := int(o.Value)
	return &v
}

func (o optInt) int64Ptr() *int64 {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

type proPlayerDTO struct {
	AccountID optInt `json:"account_id"`
	Name      string `json:"name"`
}

type explorerEnvelope struct {
	Rows []struct {
		MatchID optInt `json:"match_id"`
	} `json:"rows"`
	Err *string `json:"err"`
}

type patchDTO struct {
	ID   optInt `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

type heroDTO struct {
	ID            optInt `json:"id"`
	LocalizedName string `json:"localized_name"`
}

type namedDTO struct {
	Name string `json:"name"`
}

type matchDTO struct {
	MatchID        optInt           `json:"match_id"`
	Duration       optInt           `json:"duration"`
	RadiantScore   optInt           `json:"radiant_score"`
	DireScore      optInt           `json:"dire_score"`
	RadiantGoldAdv []int            `json:"radiant_gold_adv"`
	RadiantXPAdv   []int            `json:"radiant_xp_adv"`
	RadiantTeam    *namedDTO        `json:"radiant_team"`
	DireTeam       *namedDTO        `json:"dire_team"`
	League         *namedDTO        `json:"league"`
	Patch          optInt           `json:"patch"`
	StartTime      optInt           `json:"start_time"`
	Players        []matchPlayerDTO `json:"players"`
}

type matchPlayerDTO struct {
	MatchID      optInt         `json:"match_id"`
	AccountID    optInt         `json:"account_id"`
	PlayerSlot   optInt         `json:"player_slot"`
	Win          optInt         `json:"win"`
	HeroID       optInt         `json:"hero_id"`
	Kills        optInt         `json:"kills"`
	Assists      optInt         `json:"assists"`
	Deaths       optInt         `json:"deaths"`
	Denies       optInt         `json:"denies"`
	LastHits     optInt         `json:"last_hits"`
	GoldPerMin   optInt         `json:"gold_per_min"`
	XPPerMin     optInt         `json:"xp_per_min"`
	TotalGold    optInt         `json:"total_gold"`
	Pings        optInt         `json:"pings"`
	KDA          *float64       `json:"kda"`
	DNT          []int          `json:"dn_t"`
	LHT          []int          `json:"lh_t"`
	GoldT        []int          `json:"gold_t"`
	XPT          []int          `json:"xp_t"`
	KillStreaks  map[string]int `json:"kill_streaks"`
	NeutralKills optInt         `json:"neutral_kills"`
	LaneKills    optInt         `json:"lane_kills"`
	Lane         optInt         `json:"lane"`
	IsRoaming    *bool          `json:"is_roaming"`
}

func (d matchDTO) toDomain() match.MatchRecord {
	out := match.MatchRecord{
		MatchID:        d.MatchID.Value,
		Duration:       d.Duration.intPtr(),
		RadiantScore:   d.RadiantScore.intPtr(),
		DireScore:      d.DireScore.intPtr(),
		RadiantGoldAdv: d.RadiantGoldAdv,
		RadiantXPAdv:   d.RadiantXPAdv,
		RadiantTeam:    teamRef(d.RadiantTeam),
		DireTeam:       teamRef(d.DireTeam),
		Patch:          d.Patch.intPtr(),
		StartTime:      d.StartTime.int64Ptr(),
	}
	if d.League != nil {
		out.League = &match.LeagueRef{Name: d.League.Name}
	}
	if len(d.Players) > 0 {
		out.Roster = make([]match.PlayerMatchStats, 0, len(d.Players))
		for _, p := range d.Players {
			out.Roster = append(out.Roster, p.toDomain(out.MatchID))
		}
	}
	return out
}

func (p matchPlayerDTO) toDomain(matchID int64) match.PlayerMatchStats {
	if p.MatchID.Set {
		matchID = p.MatchID.Value
	}
	return match.PlayerMatchStats{
		MatchID:      matchID,
		AccountID:    p.AccountID.int64Ptr(),
		PlayerSlot:   p.PlayerSlot.intPtr(),
		Win:          p.Win.intPtr(),
		HeroID:       p.HeroID.intPtr(),
		Kills:        p.Kills.intPtr(),
		Assists:      p.Assists.intPtr(),
		Deaths:       p.Deaths.intPtr(),
		Denies:       p.Denies.intPtr(),
		LastHits:     p.LastHits.intPtr(),
		GoldPerMin:   p.GoldPerMin.intPtr(),
		XPPerMin:     p.XPPerMin.intPtr(),
		TotalGold:    p.TotalGold.intPtr(),
		Pings:        p.Pings.intPtr(),
		KDA:          p.KDA,
		DeniesT:      p.DNT,
		LastHitsT:    p.LHT,
		GoldT:        p.GoldT,
		XPT:          p.XPT,
		KillStreaks:  p.KillStreaks,
		NeutralKills: p.NeutralKills.intPtr(),
		LaneKills:    p.LaneKills.intPtr(),
		Lane:         p.Lane.intPtr(),
		IsRoaming:    p.IsRoaming,
	}
}

func teamRef(src *namedDTO) *match.TeamRef {
	if src == nil {
		return nil
	}
	return &match.TeamRef{Name: src.Name}
}
