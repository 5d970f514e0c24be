package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		UserID:   "u1",
		Date:     date(2025, time.March, 10),
		Amount:   Money{Cents: -1250},
		Type:     Expense,
		Category: "groceries",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{UserID: "", Date: date(2025, 3, 10), Amount: Money{Cents: -1}, Type: Expense},
		{UserID: "u1", Amount: Money{Cents: -1}, Type: Expense}, // zero date
		{UserID: "u1", Date: date(2025, 3, 10), Amount: Money{Cents: -1}, Type: "transfer"},
		{UserID: "u1", Date: date(2025, 3, 10), Amount: Money{Cents: 0}, Type: Expense},
		{UserID: "u1", Date: date(2025, 3, 10), Amount: Money{Cents: 100}, Type: Expense},  // wrong sign
		{UserID: "u1", Date: date(2025, 3, 10), Amount: Money{Cents: -100}, Type: Income}, // wrong sign
	}
	for i, tr := range bads {
		if err := tr.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionExpenseCents(t *testing.T) {
	cases := []struct {
		tr   Transaction
		want int64
	}{
		{Transaction{Amount: Money{Cents: -500}, Type: Expense}, 500},
		{Transaction{Amount: Money{Cents: 500}, Type: Expense}, 500},
		{Transaction{Amount: Money{Cents: 500}, Type: Income}, 0},
	}
	for i, tc := range cases {
		if got := tc.tr.ExpenseCents(); got != tc.want {
			t.Fatalf("case %d: expected %d, got %d", i, tc.want, got)
		}
	}
}

func TestTransactionCategoryKey(t *testing.T) {
	if got := (Transaction{Category: "Food"}).CategoryKey(); got != "Food" {
		t.Fatalf("expected Food, got %q", got)
	}
	if got := (Transaction{Category: "  "}).CategoryKey(); got != Uncategorized {
		t.Fatalf("expected %q, got %q", Uncategorized, got)
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{
		UserID:     "u1",
		CategoryID: "groceries",
		Amount:     Money{Cents: 40000},
		Period:     Monthly,
		StartDate:  date(2025, time.March, 1),
		EndDate:    date(2025, time.March, 31),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Budget{
		{UserID: "", CategoryID: "c", Amount: Money{Cents: 1}, Period: Monthly, StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 31)},
		{UserID: "u1", CategoryID: "", Amount: Money{Cents: 1}, Period: Monthly, StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 31)},
		{UserID: "u1", CategoryID: "c", Amount: Money{Cents: 0}, Period: Monthly, StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 31)},
		{UserID: "u1", CategoryID: "c", Amount: Money{Cents: 1}, Period: "fortnightly", StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 31)},
		{UserID: "u1", CategoryID: "c", Amount: Money{Cents: 1}, Period: Monthly, StartDate: date(2025, 4, 1), EndDate: date(2025, 3, 31)}, // inverted range
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{
		UserID:        "u1",
		Name:          "Emergency fund",
		TargetAmount:  Money{Cents: 100000},
		CurrentAmount: Money{Cents: 25000},
		TargetDate:    date(2026, time.January, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Over-saved is legal.
	good.CurrentAmount = Money{Cents: 150000}
	if err := good.Validate(); err != nil {
		t.Fatalf("over-saved goal should validate, got %v", err)
	}

	bads := []Goal{
		{UserID: "", Name: "n", TargetAmount: Money{Cents: 1}},
		{UserID: "u1", Name: "", TargetAmount: Money{Cents: 1}},
		{UserID: "u1", Name: "n", TargetAmount: Money{Cents: 0}},
		{UserID: "u1", Name: "n", TargetAmount: Money{Cents: 1}, CurrentAmount: Money{Cents: -1}},
	}
	for i, g := range bads {
		if err := g.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestInsightTypeValid(t *testing.T) {
	for _, typ := range []InsightType{
		InsightSpendingPattern, InsightBudgetPerformance, InsightGoalProgress,
		InsightSavingsRecommendation, InsightInvestmentOpportunity,
	} {
		if !typ.Valid() {
			t.Fatalf("%q should be valid", typ)
		}
	}
	if InsightType("credit_score").Valid() {
		t.Fatal("unknown type should be invalid")
	}
}
