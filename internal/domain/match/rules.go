package match

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

var (
	ErrUnknownSlot    = errors.New("unknown player slot")
	ErrUnknownOutcome = errors.New("unknown outcome flag")
)

// SnapshotMinutes are the 0-based series indices sampled for the 10/20/30
// minute columns.
var SnapshotMinutes = [3]int{9, 19, 29}

const minHighlightedStreak = 3

// ResolveSide maps a player slot to its team. Slots 0-4 are Radiant and
// 128-132 are Dire; anything else is rejected.
func ResolveSide(slot int) (Side, error) {
	switch {
	case slot >= 0 && slot <= 4:
		return SideRadiant, nil
	case slot >= 128 && slot <= 132:
		return SideDire, nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownSlot, slot)
	}
}

func OutcomeLabel(win int) (string, error) {
	switch win {
	case 1:
		return "Win", nil
	case 0:
		return "Lose", nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownOutcome, win)
	}
}

func LaneLabel(lane int) *string {
	var label string
	switch lane {
	case 1:
		label = "bot"
	case 2:
		label = "mid"
	case 3:
		label = "top"
	default:
		return nil
	}
	return &label
}

func RoamingLabel(roaming bool) string {
	if roaming {
		return "Yes"
	}
	return "No"
}

// KDA is (kills+assists)/deaths rounded to two decimals. A deathless game
// divides by one.
func KDA(kills, assists, deaths int) float64 {
	divisor := deaths
	if divisor <= 0 {
		divisor = 1
	}
	return math.Round(float64(kills+assists)/float64(divisor)*100) / 100
}

// FormatDuration renders seconds as MM:SS. Minutes are not wrapped at the
// hour, so a 65 minute game reads 65:00.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func FormatStartDate(epochSeconds int64) string {
	return time.Unix(epochSeconds, 0).UTC().Format(time.DateOnly)
}

// Snapshot samples series at SnapshotMinutes. Indices past the end of the
// series (the match ended earlier) are nil.
func Snapshot(series []int) [3]*int {
	var out [3]*int
	for i, idx := range SnapshotMinutes {
		if idx < len(series) {
			v := series[idx]
			out[i] = &v
		}
	}
	return out
}

// AdvantageForSide turns a Radiant-perspective advantage series into the
// given side's perspective. The input is never modified.
func AdvantageForSide(radiantAdv []int, side Side) []int {
	if radiantAdv == nil {
		return nil
	}
	out := make([]int, len(radiantAdv))
	for i, v := range radiantAdv {
		if side == SideDire {
			v = -v
		}
		out[i] = v
	}
	return out
}

// HighestKillStreak returns the longest streak length in the histogram, or
// nil when no streak of at least three kills was reached.
func HighestKillStreak(streaks map[string]int) *int {
	highest := 0
	for key, count := range streaks {
		if count <= 0 {
			continue
		}
		length, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if length > highest {
			highest = length
		}
	}
	if highest < minHighlightedStreak {
		return nil
	}
	return &highest
}
