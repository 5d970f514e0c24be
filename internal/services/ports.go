// Package services implements the insight pipeline: pure progress
// calculators, the spending pattern analyzer, and the aggregator that
// assembles and persists insight batches.
package services

import (
	"context"
	"time"

	"finsight/internal/core"
)

// TransactionFilter narrows a transaction read. Zero values mean "no bound".
type TransactionFilter struct {
	Category  string
	StartDate time.Time
	EndDate   time.Time
}

// TransactionReader fetches a user's transactions.
type TransactionReader interface {
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]core.Transaction, error)
}

// BudgetReader fetches a user's budgets.
type BudgetReader interface {
	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
}

// GoalReader fetches a user's goals.
type GoalReader interface {
	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
}

// InsightStore persists and retrieves insight records. AppendInsights is
// all-or-nothing: either the whole batch is stored (with assigned IDs and
// creation timestamps) or none of it is.
type InsightStore interface {
	AppendInsights(ctx context.Context, userID string, insights []core.Insight) ([]core.Insight, error)
	ListInsights(ctx context.Context, userID string) ([]core.Insight, error)
	GetInsight(ctx context.Context, id string) (core.Insight, error)
}
