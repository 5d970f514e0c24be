package services

import (
	"sort"
	"time"

	"finsight/internal/core"
)

// Defaults for the spending pattern analysis.
const (
	DefaultTrailingMonths = 3
	DefaultTopCategories  = 5
)

// AnalyzeSpending ranks a user's expense categories over a trailing window
// ending at now. Output is sorted by total spend descending, ties broken by
// category name ascending so results are deterministic, and truncated to
// topN entries. Income transactions and expenses outside the window are
// ignored; transactions without a category count under "Uncategorized".
func AnalyzeSpending(txs []core.Transaction, now time.Time, trailingMonths, topN int) []core.CategorySpend {
	if trailingMonths <= 0 {
		trailingMonths = DefaultTrailingMonths
	}
	if topN <= 0 {
		topN = DefaultTopCategories
	}
	windowStart := now.AddDate(0, -trailingMonths, 0)

	totals := make(map[string]int64)
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		if tx.Date.Before(windowStart) || tx.Date.After(now) {
			continue
		}
		totals[tx.CategoryKey()] += tx.ExpenseCents()
	}

	ranked := make([]core.CategorySpend, 0, len(totals))
	for category, cents := range totals {
		ranked = append(ranked, core.CategorySpend{
			Category: category,
			Amount:   core.Money{Cents: cents},
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Amount.Cents != ranked[j].Amount.Cents {
			return ranked[i].Amount.Cents > ranked[j].Amount.Cents
		}
		return ranked[i].Category < ranked[j].Category
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
