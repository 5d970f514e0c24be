package services

import (
	"encoding/json"

	"finsight/internal/core"
)

// RecommendationData is the payload of the stubbed recommendation insights.
type RecommendationData struct {
	Placeholder bool     `json:"placeholder"`
	Suggestions []string `json:"suggestions"`
}

// savingsRecommendation returns the static savings_recommendation insight.
// This is an extension point: a real recommendation engine would replace
// the fixed suggestions with something computed from the user's data.
func savingsRecommendation(userID string) core.Insight {
	data, _ := json.Marshal(RecommendationData{
		Placeholder: true,
		Suggestions: []string{
			"Review your top spending categories for recurring charges you no longer use.",
			"Set aside a fixed amount at the start of each month before discretionary spending.",
		},
	})
	return core.Insight{
		UserID:      userID,
		Type:        core.InsightSavingsRecommendation,
		Title:       "Savings Recommendation",
		Description: "General savings suggestions based on common practice.",
		Data:        data,
	}
}

// investmentOpportunity returns the static investment_opportunity insight.
// Same extension point as savingsRecommendation.
func investmentOpportunity(userID string) core.Insight {
	data, _ := json.Marshal(RecommendationData{
		Placeholder: true,
		Suggestions: []string{
			"Consider low-cost index funds for long-term goals.",
			"Keep an emergency fund before committing money to investments.",
		},
	})
	return core.Insight{
		UserID:      userID,
		Type:        core.InsightInvestmentOpportunity,
		Title:       "Investment Opportunity",
		Description: "General investment pointers; not financial advice.",
		Data:        data,
	}
}
