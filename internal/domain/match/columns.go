package match

import "strconv"

// CleanColumns is the column order used by tabular exports of CleanRow.
var CleanColumns = []string{
	"match_id", "side", "win", "hero", "kills", "assists", "deaths",
	"denies", "last_hits", "gold_per_min", "xp_per_min", "total_gold",
	"kda", "highest_ks", "pings", "neutral_creeps", "lane_creeps", "lane", "is_roaming",
	"duration", "radiant_score", "dire_score", "radiant_team", "dire_team", "league", "patch", "start_time",
	"dn_10", "dn_20", "dn_30", "lh_10", "lh_20", "lh_30",
	"nw_10", "nw_20", "nw_30", "xp_10", "xp_20", "xp_30",
	"gold_diff_10", "gold_diff_20", "gold_diff_30",
	"xp_diff_10", "xp_diff_20", "xp_diff_30",
}

// Values renders the row in CleanColumns order. Nulls become empty strings.
func (r CleanRow) Values() []string {
	return []string{
		strconv.FormatInt(r.MatchID, 10), string(r.Side), r.Win, str(r.Hero),
		strconv.Itoa(r.Kills), strconv.Itoa(r.Assists), strconv.Itoa(r.Deaths),
		num(r.Denies), num(r.LastHits), num(r.GoldPerMin), num(r.XPPerMin), num(r.TotalGold),
		strconv.FormatFloat(r.KDA, 'f', -1, 64), num(r.HighestKS),
		strconv.Itoa(r.Pings), strconv.Itoa(r.NeutralCreeps), strconv.Itoa(r.LaneCreeps),
		str(r.Lane), str(r.IsRoaming),
		r.Duration, strconv.Itoa(r.RadiantScore), strconv.Itoa(r.DireScore),
		str(r.RadiantTeam), str(r.DireTeam), str(r.League), str(r.Patch), r.StartTime,
		num(r.DN10), num(r.DN20), num(r.DN30), num(r.LH10), num(r.LH20), num(r.LH30),
		num(r.NW10), num(r.NW20), num(r.NW30), num(r.XP10), num(r.XP20), num(r.XP30),
		num(r.GoldDiff10), num(r.GoldDiff20), num(r.GoldDiff30),
		num(r.XPDiff10), num(r.XPDiff20), num(r.XPDiff30),
	}
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func num(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
