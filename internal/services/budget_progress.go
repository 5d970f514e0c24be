package services

import (
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/core"
)

// Budget status labels used in budget_performance insight payloads.
const (
	StatusOverBudget   = "Over budget"
	StatusWithinBudget = "Within budget"
)

// CalculateBudgetProgress computes the spent/remaining view of one budget
// from the user's transactions. Only expense transactions in the budget's
// category and inside its effective window count toward spending. Pure
// function: no I/O, no clock reads beyond the supplied now.
func CalculateBudgetProgress(b core.Budget, txs []core.Transaction, now time.Time) (core.BudgetProgress, error) {
	if b.Amount.Cents <= 0 {
		return core.BudgetProgress{}, core.NewValidationError("budget.amount", core.ErrInvalidAmount)
	}

	start, end := budgetWindow(b, now)
	var spent int64
	for _, tx := range txs {
		if tx.Type != core.Expense || tx.CategoryKey() != b.CategoryID {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		spent += tx.ExpenseCents()
	}

	return core.BudgetProgress{
		BudgetID:           b.ID,
		TotalBudget:        b.Amount,
		SpentAmount:        core.Money{Cents: spent},
		RemainingAmount:    core.Money{Cents: b.Amount.Cents - spent},
		ProgressPercentage: percentOf(spent, b.Amount.Cents),
	}, nil
}

// budgetWindow returns the date range a budget is evaluated over: the
// current period window containing now (calendar day, Monday-start week,
// calendar month, or calendar year), clipped to the budget's own range.
// When now falls outside the budget's range the raw range applies.
func budgetWindow(b core.Budget, now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var start, end time.Time
	switch b.Period {
	case core.Daily:
		start = day
		end = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	case core.Weekly:
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		start = day.AddDate(0, 0, -offset)
		end = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	case core.Yearly:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	default: // monthly
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	}

	// Clip to the budget's own range.
	if start.Before(b.StartDate) {
		start = b.StartDate
	}
	if !b.EndDate.IsZero() && end.After(b.EndDate) {
		end = b.EndDate
	}
	if end.Before(start) {
		return b.StartDate, b.EndDate
	}
	return start, end
}

// percentOf returns part/total*100 rounded to 2 decimal places.
func percentOf(part, total int64) float64 {
	pct, _ := decimal.NewFromInt(part).
		Div(decimal.NewFromInt(total)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return pct
}
