package progress

import (
	"time"

	"github.com/at-ishikawa/pmacademy/internal/clock"
)

// StreakDecision is the outcome of comparing the last activity with today.
type StreakDecision struct {
	DaysSinceActive int
	ShouldIncrement bool
	// Reset is set when at least one calendar day was missed.
	Reset bool
}

// EvaluateStreak decides how the streak changes when the user shows up today.
//   - same day (or a last activity in the future): nothing changes
//   - yesterday: the streak grows by one
//   - two or more days ago: the streak is broken and resets to zero
func EvaluateStreak(lastActive, today time.Time) StreakDecision {
	days := clock.DaysBetween(lastActive, today)
	switch {
	case days <= 0:
		return StreakDecision{DaysSinceActive: max(days, 0)}
	case days == 1:
		return StreakDecision{DaysSinceActive: days, ShouldIncrement: true}
	default:
		return StreakDecision{DaysSinceActive: days, Reset: true}
	}
}

// ApplyStreak returns p with the decision applied. An increment also marks
// the user active at now.
func ApplyStreak(p UserProgress, decision StreakDecision, now time.Time) UserProgress {
	switch {
	case decision.ShouldIncrement:
		p.CurrentStreak++
		p.LongestStreak = max(p.LongestStreak, p.CurrentStreak)
		p.LastActiveDate = now
	case decision.Reset:
		p.CurrentStreak = 0
	}
	return p
}
