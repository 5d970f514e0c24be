package services

import (
	"time"

	"finsight/internal/core"
)

// CalculateGoalProgress computes the progress view of one goal. The
// optional override replaces the goal's stored current amount (used by the
// update-progress flow to preview a contribution before committing it).
// RemainingAmount keeps its raw sign; a negative value means the goal is
// exceeded. Pure function.
func CalculateGoalProgress(g core.Goal, override *core.Money, now time.Time) (core.GoalProgress, error) {
	if g.TargetAmount.Cents <= 0 {
		return core.GoalProgress{}, core.NewValidationError("goal.targetAmount", core.ErrInvalidAmount)
	}

	current := g.CurrentAmount
	if override != nil {
		current = *override
	}

	return core.GoalProgress{
		GoalID:             g.ID,
		CurrentAmount:      current,
		RemainingAmount:    core.Money{Cents: g.TargetAmount.Cents - current.Cents},
		PercentageAchieved: percentOf(current.Cents, g.TargetAmount.Cents),
		DaysUntilDeadline:  daysBetween(now, g.TargetDate),
	}, nil
}

// daysBetween returns the whole-day difference between from and to,
// negative when to is in the past. Both sides are truncated to UTC dates
// so partial days never shift the count.
func daysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay) / (24 * time.Hour))
}
