package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"finsight/internal/core"
)

func TestAnalyzeSpending_Scenario(t *testing.T) {
	now := day(2025, time.April, 1)
	txs := []core.Transaction{
		expense("Food", 10000, now.AddDate(0, 0, -10)),
		expense("Food", 5000, now.AddDate(0, -1, 0)),
		expense("Transport", 8000, now.AddDate(0, -2, 0)),
	}

	got := AnalyzeSpending(txs, now, 3, 5)

	assert.Equal(t, []core.CategorySpend{
		{Category: "Food", Amount: core.Money{Cents: 15000}},
		{Category: "Transport", Amount: core.Money{Cents: 8000}},
	}, got)
}

func TestAnalyzeSpending_TieBreakByName(t *testing.T) {
	now := day(2025, time.April, 1)
	txs := []core.Transaction{
		expense("Zoo", 5000, now.AddDate(0, 0, -1)),
		expense("Aquarium", 5000, now.AddDate(0, 0, -2)),
		expense("Museum", 5000, now.AddDate(0, 0, -3)),
	}

	got := AnalyzeSpending(txs, now, 3, 5)

	assert.Equal(t, "Aquarium", got[0].Category)
	assert.Equal(t, "Museum", got[1].Category)
	assert.Equal(t, "Zoo", got[2].Category)
}

func TestAnalyzeSpending_TopNTruncation(t *testing.T) {
	now := day(2025, time.April, 1)
	var txs []core.Transaction
	for i, cat := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		txs = append(txs, expense(cat, int64((i+1)*1000), now.AddDate(0, 0, -1)))
	}

	got := AnalyzeSpending(txs, now, 3, 5)

	assert.Len(t, got, 5)
	assert.Equal(t, "G", got[0].Category) // largest spend first
}

func TestAnalyzeSpending_WindowAndTypeFilters(t *testing.T) {
	now := day(2025, time.April, 1)
	txs := []core.Transaction{
		expense("Food", 1000, now.AddDate(0, -4, 0)), // before window
		expense("Food", 2000, now.AddDate(0, 0, 5)),  // after now
		{UserID: "u1", Date: now.AddDate(0, 0, -1), Amount: core.Money{Cents: 9000}, Type: core.Income, Category: "Food"},
		expense("Food", 3000, now.AddDate(0, 0, -1)),
	}

	got := AnalyzeSpending(txs, now, 3, 5)

	assert.Equal(t, []core.CategorySpend{
		{Category: "Food", Amount: core.Money{Cents: 3000}},
	}, got)
}

func TestAnalyzeSpending_UncategorizedBucket(t *testing.T) {
	now := day(2025, time.April, 1)
	txs := []core.Transaction{
		expense("", 1000, now.AddDate(0, 0, -1)),
		expense("  ", 2000, now.AddDate(0, 0, -2)),
	}

	got := AnalyzeSpending(txs, now, 3, 5)

	assert.Equal(t, []core.CategorySpend{
		{Category: core.Uncategorized, Amount: core.Money{Cents: 3000}},
	}, got)
}

func TestAnalyzeSpending_Empty(t *testing.T) {
	got := AnalyzeSpending(nil, day(2025, time.April, 1), 3, 5)
	assert.Empty(t, got)
}

func TestAnalyzeSpending_DefaultsApplied(t *testing.T) {
	now := day(2025, time.April, 1)
	txs := []core.Transaction{expense("Food", 1000, now.AddDate(0, -2, 0))}

	got := AnalyzeSpending(txs, now, 0, 0)
	assert.Len(t, got, 1)
}
