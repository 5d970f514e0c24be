package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	InsightSpendingPattern       InsightType = "spending_pattern"
	InsightBudgetPerformance     InsightType = "budget_performance"
	InsightGoalProgress          InsightType = "goal_progress"
	InsightSavingsRecommendation InsightType = "savings_recommendation"
	InsightInvestmentOpportunity InsightType = "investment_opportunity"
)

type (
	InsightType string

	// Insight is a derived, persisted record summarizing a pattern or
	// status computed from a user's financial data. It is a tagged union:
	// the shape of Data is determined by Type. Insights are append-only;
	// later generation runs supersede earlier batches without rewriting
	// them.
	Insight struct {
		ID          string          `json:"id"`
		UserID      string          `json:"userId"`
		Type        InsightType     `json:"type"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Data        json.RawMessage `json:"data,omitempty"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	// BudgetProgress is the computed view for one budget. Never persisted.
	BudgetProgress struct {
		BudgetID           string  `json:"budgetId"`
		TotalBudget        Money   `json:"-"`
		SpentAmount        Money   `json:"-"`
		RemainingAmount    Money   `json:"-"`
		ProgressPercentage float64 `json:"progressPercentage"`
	}

	// GoalProgress is the computed view for one goal. Never persisted.
	// RemainingAmount keeps its raw (possibly negative) value so callers
	// can tell an exceeded goal apart from a completed one; clamping for
	// display is a rendering concern.
	GoalProgress struct {
		GoalID             string  `json:"goalId"`
		CurrentAmount      Money   `json:"-"`
		RemainingAmount    Money   `json:"-"`
		PercentageAchieved float64 `json:"percentageAchieved"`
		DaysUntilDeadline  int     `json:"daysUntilDeadline"`
	}

	// CategorySpend is one ranked entry of a spending pattern.
	CategorySpend struct {
		Category string `json:"category"`
		Amount   Money  `json:"amount"`
	}
)

var ErrInvalidInsightType = errors.New("invalid insight type")

// Valid reports whether t is one of the known insight types.
func (t InsightType) Valid() bool {
	switch t {
	case InsightSpendingPattern, InsightBudgetPerformance, InsightGoalProgress,
		InsightSavingsRecommendation, InsightInvestmentOpportunity:
		return true
	}
	return false
}

// Exceeded reports whether the goal's current amount is past its target.
func (p GoalProgress) Exceeded() bool {
	return p.RemainingAmount.Cents < 0
}

// OverBudget reports whether spending has passed the budget amount.
func (p BudgetProgress) OverBudget() bool {
	return p.ProgressPercentage > 100
}

// MarshalJSON flattens Money fields to decimal strings so the persisted
// payloads stay readable without exposing the cents representation.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts the decimal-string form produced by MarshalJSON.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if stripped := strings.Trim(strings.ReplaceAll(s, ",", "."), "0."); stripped == "" && s != "" {
		m.Cents = 0
		return nil
	}
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return err
	}
	if neg {
		cents = -cents
	}
	m.Cents = cents
	return nil
}
