package usecase

import (
	"errors"

	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
)

// NormalizeResult holds the clean table. Failures lists the rows that were
// skipped, in input order.
type NormalizeResult struct {
	Rows     []match.CleanRow
	Dropped  int
	Failures []*MalformedRecordError
}

type normalizeState struct {
	in   match.JoinedRow
	refs *match.ReferenceTables
	side match.Side
	out  match.CleanRow
}

type rowTransform struct {
	name  string
	apply func(*normalizeState) error
}

// Side must be resolved before the advantage series are flipped.
var rowTransforms = []rowTransform{
	{name: "side", apply: resolveSideStep},
	{name: "patch", apply: resolvePatchStep},
	{name: "teams", apply: extractNamesStep},
	{name: "outcome", apply: outcomeStep},
	{name: "hero", apply: resolveHeroStep},
	{name: "dates", apply: formatTimesStep},
	{name: "kda", apply: kdaStep},
	{name: "roaming", apply: roamingStep},
	{name: "lane", apply: laneStep},
	{name: "advantage", apply: advantageStep},
	{name: "series", apply: seriesStep},
	{name: "counts", apply: countsStep},
	{name: "highest_ks", apply: highestStreakStep},
}

// Normalize turns joined rows into clean rows. It never adds rows: a row
// failing any transform is skipped and reported in Failures.
func Normalize(rows []match.JoinedRow, refs match.ReferenceTables) NormalizeResult {
	result := NormalizeResult{Rows: make([]match.CleanRow, 0, len(rows))}
	for _, row := range rows {
		clean, err := normalizeRow(row, &refs)
		if err != nil {
			var malformed *MalformedRecordError
			if !errors.As(err, &malformed) {
				malformed = &MalformedRecordError{MatchID: row.Player.MatchID, Err: err}
			}
			result.Failures = append(result.Failures, malformed)
			result.Dropped++
			continue
		}
		result.Rows = append(result.Rows, clean)
	}
	return result
}

func normalizeRow(row match.JoinedRow, refs *match.ReferenceTables) (match.CleanRow, error) {
	state := &normalizeState{
		in:   row,
		refs: refs,
		out:  match.CleanRow{MatchID: row.Player.MatchID},
	}
	for _, step := range rowTransforms {
		if err := step.apply(state); err != nil {
			return match.CleanRow{}, err
		}
	}
	return state.out, nil
}

func malformed(state *normalizeState, field string, err error) error {
	return &MalformedRecordError{MatchID: state.in.Player.MatchID, Field: field, Err: err}
}

func requireInt(state *normalizeState, field string, v *int) (int, error) {
	if v == nil {
		return 0, malformed(state, field, errors.New("value is missing"))
	}
	return *v, nil
}

func resolveSideStep(s *normalizeState) error {
	slot, err := requireInt(s, "player_slot", s.in.Player.PlayerSlot)
	if err != nil {
		return err
	}
	side, err := match.ResolveSide(slot)
	if err != nil {
		return malformed(s, "player_slot", err)
	}
	s.side = side
	s.out.Side = side
	return nil
}

func resolvePatchStep(s *normalizeState) error {
	if s.in.Match.Patch != nil {
		s.out.Patch = s.refs.PatchName(*s.in.Match.Patch)
	}
	return nil
}

func extractNamesStep(s *normalizeState) error {
	if t := s.in.Match.RadiantTeam; t != nil {
		s.out.RadiantTeam = nonEmpty(t.Name)
	}
	if t := s.in.Match.DireTeam; t != nil {
		s.out.DireTeam = nonEmpty(t.Name)
	}
	if l := s.in.Match.League; l != nil {
		s.out.League = nonEmpty(l.Name)
	}
	return nil
}

func outcomeStep(s *normalizeState) error {
	win, err := requireInt(s, "win", s.in.Player.Win)
	if err != nil {
		return err
	}
	label, err := match.OutcomeLabel(win)
	if err != nil {
		return malformed(s, "win", err)
	}
	s.out.Win = label
	return nil
}

func resolveHeroStep(s *normalizeState) error {
	if s.in.Player.HeroID != nil {
		s.out.Hero = s.refs.HeroName(*s.in.Player.HeroID)
	}
	return nil
}

func formatTimesStep(s *normalizeState) error {
	if s.in.Match.StartTime == nil {
		return malformed(s, "start_time", errors.New("value is missing"))
	}
	s.out.StartTime = match.FormatStartDate(*s.in.Match.StartTime)

	duration, err := requireInt(s, "duration", s.in.Match.Duration)
	if err != nil {
		return err
	}
	s.out.Duration = match.FormatDuration(duration)
	return nil
}

func kdaStep(s *normalizeState) error {
	kills, err := requireInt(s, "kills", s.in.Player.Kills)
	if err != nil {
		return err
	}
	assists, err := requireInt(s, "assists", s.in.Player.Assists)
	if err != nil {
		return err
	}
	deaths, err := requireInt(s, "deaths", s.in.Player.Deaths)
	if err != nil {
		return err
	}
	s.out.Kills, s.out.Assists, s.out.Deaths = kills, assists, deaths
	s.out.KDA = match.KDA(kills, assists, deaths)
	return nil
}

func roamingStep(s *normalizeState) error {
	if s.in.Player.IsRoaming != nil {
		label := match.RoamingLabel(*s.in.Player.IsRoaming)
		s.out.IsRoaming = &label
	}
	return nil
}

func laneStep(s *normalizeState) error {
	if s.in.Player.Lane != nil {
		s.out.Lane = match.LaneLabel(*s.in.Player.Lane)
	}
	return nil
}

func advantageStep(s *normalizeState) error {
	gold := match.Snapshot(match.AdvantageForSide(s.in.Match.RadiantGoldAdv, s.side))
	s.out.GoldDiff10, s.out.GoldDiff20, s.out.GoldDiff30 = gold[0], gold[1], gold[2]

	xp := match.Snapshot(match.AdvantageForSide(s.in.Match.RadiantXPAdv, s.side))
	s.out.XPDiff10, s.out.XPDiff20, s.out.XPDiff30 = xp[0], xp[1], xp[2]
	return nil
}

func seriesStep(s *normalizeState) error {
	p := s.in.Player

	dn := match.Snapshot(p.DeniesT)
	s.out.DN10, s.out.DN20, s.out.DN30 = dn[0], dn[1], dn[2]

	lh := match.Snapshot(p.LastHitsT)
	s.out.LH10, s.out.LH20, s.out.LH30 = lh[0], lh[1], lh[2]

	nw := match.Snapshot(p.GoldT)
	s.out.NW10, s.out.NW20, s.out.NW30 = nw[0], nw[1], nw[2]

	xp := match.Snapshot(p.XPT)
	s.out.XP10, s.out.XP20, s.out.XP30 = xp[0], xp[1], xp[2]
	return nil
}

// countsStep coerces the integer columns. Pings and creep counts are
// non-nullable in the clean table.
func countsStep(s *normalizeState) error {
	p, m := s.in.Player, s.in.Match

	var err error
	if s.out.Pings, err = requireInt(s, "pings", p.Pings); err != nil {
		return err
	}
	if s.out.NeutralCreeps, err = requireInt(s, "neutral_kills", p.NeutralKills); err != nil {
		return err
	}
	if s.out.LaneCreeps, err = requireInt(s, "lane_kills", p.LaneKills); err != nil {
		return err
	}
	if s.out.RadiantScore, err = requireInt(s, "radiant_score", m.RadiantScore); err != nil {
		return err
	}
	if s.out.DireScore, err = requireInt(s, "dire_score", m.DireScore); err != nil {
		return err
	}

	s.out.Denies = p.Denies
	s.out.LastHits = p.LastHits
	s.out.GoldPerMin = p.GoldPerMin
	s.out.XPPerMin = p.XPPerMin
	s.out.TotalGold = p.TotalGold
	return nil
}

func highestStreakStep(s *normalizeState) error {
	s.out.HighestKS = match.HighestKillStreak(s.in.Player.KillStreaks)
	return nil
}

func nonEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
