package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"finsight/internal/core"
)

// InsightServiceConfig tunes the aggregation run.
type InsightServiceConfig struct {
	// FetchTimeout bounds each accessor read; an expired read surfaces as
	// a DependencyError.
	FetchTimeout time.Duration
	// TrailingMonths is the spending pattern lookback window.
	TrailingMonths int
	// TopCategories caps the spending pattern ranking.
	TopCategories int
}

// DefaultInsightServiceConfig returns the standard aggregation settings.
func DefaultInsightServiceConfig() InsightServiceConfig {
	return InsightServiceConfig{
		FetchTimeout:   5 * time.Second,
		TrailingMonths: DefaultTrailingMonths,
		TopCategories:  DefaultTopCategories,
	}
}

// InsightService orchestrates insight generation: it fetches a user's
// transactions, budgets, and goals, runs the calculators, and persists the
// resulting insight batch through the store port.
type InsightService struct {
	transactions TransactionReader
	budgets      BudgetReader
	goals        GoalReader
	store        InsightStore
	config       InsightServiceConfig

	now func() time.Time // injectable clock for tests
}

func NewInsightService(tr TransactionReader, br BudgetReader, gr GoalReader, store InsightStore, config InsightServiceConfig) *InsightService {
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = 5 * time.Second
	}
	if config.TrailingMonths <= 0 {
		config.TrailingMonths = DefaultTrailingMonths
	}
	if config.TopCategories <= 0 {
		config.TopCategories = DefaultTopCategories
	}
	return &InsightService{
		transactions: tr,
		budgets:      br,
		goals:        gr,
		store:        store,
		config:       config,
		now:          time.Now,
	}
}

// SpendingPatternData is the payload of a spending_pattern insight.
type SpendingPatternData struct {
	WindowStart   time.Time            `json:"windowStart"`
	WindowEnd     time.Time            `json:"windowEnd"`
	TopCategories []core.CategorySpend `json:"topCategories"`
}

// BudgetPerformanceEntry is one budget's summary inside a
// budget_performance insight.
type BudgetPerformanceEntry struct {
	BudgetID           string  `json:"budgetId"`
	CategoryID         string  `json:"categoryId"`
	TotalBudget        string  `json:"totalBudget"`
	SpentAmount        string  `json:"spentAmount"`
	RemainingAmount    string  `json:"remainingAmount"`
	ProgressPercentage float64 `json:"progressPercentage"`
	Status             string  `json:"status"`
}

// BudgetPerformanceData is the payload of a budget_performance insight.
type BudgetPerformanceData struct {
	Budgets []BudgetPerformanceEntry `json:"budgets"`
}

// GoalProgressEntry is one goal's summary inside a goal_progress insight.
type GoalProgressEntry struct {
	GoalID             string  `json:"goalId"`
	Name               string  `json:"name"`
	CurrentAmount      string  `json:"currentAmount"`
	RemainingAmount    string  `json:"remainingAmount"`
	PercentageAchieved float64 `json:"percentageAchieved"`
	DaysUntilDeadline  int     `json:"daysUntilDeadline"`
	Exceeded           bool    `json:"exceeded"`
}

// GoalProgressData is the payload of a goal_progress insight.
type GoalProgressData struct {
	Goals []GoalProgressEntry `json:"goals"`
}

// GenerateInsights produces and persists the full insight batch for a user
// in one pass. The three reads run concurrently; any failure aborts the
// whole run with a DependencyError and nothing is persisted. Each run
// appends a fresh batch, it never rewrites earlier ones.
func (s *InsightService) GenerateInsights(ctx context.Context, userID string) ([]core.Insight, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, core.NewValidationError("userId", core.ErrEmptyUserID)
	}

	var (
		txs     []core.Transaction
		budgets []core.Budget
		goals   []core.Goal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fctx, cancel := context.WithTimeout(gctx, s.config.FetchTimeout)
		defer cancel()
		var err error
		if txs, err = s.transactions.ListTransactions(fctx, userID, TransactionFilter{}); err != nil {
			return core.NewDependencyError("list transactions", err)
		}
		return nil
	})
	g.Go(func() error {
		fctx, cancel := context.WithTimeout(gctx, s.config.FetchTimeout)
		defer cancel()
		var err error
		if budgets, err = s.budgets.ListBudgets(fctx, userID); err != nil {
			return core.NewDependencyError("list budgets", err)
		}
		return nil
	})
	g.Go(func() error {
		fctx, cancel := context.WithTimeout(gctx, s.config.FetchTimeout)
		defer cancel()
		var err error
		if goals, err = s.goals.ListGoals(fctx, userID); err != nil {
			return core.NewDependencyError("list goals", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	batch := make([]core.Insight, 0, 5)

	spending, err := s.spendingPatternInsight(userID, txs, now)
	if err != nil {
		return nil, err
	}
	batch = append(batch, spending)

	budgetPerf, err := s.budgetPerformanceInsight(userID, budgets, txs, now)
	if err != nil {
		return nil, err
	}
	batch = append(batch, budgetPerf)

	goalProg, err := s.goalProgressInsight(userID, goals, now)
	if err != nil {
		return nil, err
	}
	batch = append(batch, goalProg)

	batch = append(batch, savingsRecommendation(userID), investmentOpportunity(userID))

	stored, err := s.store.AppendInsights(ctx, userID, batch)
	if err != nil {
		return nil, core.NewDependencyError("append insights", err)
	}

	slog.InfoContext(ctx, "Generated insight batch",
		"user_id", userID,
		"count", len(stored),
		"transactions", len(txs),
		"budgets", len(budgets),
		"goals", len(goals))

	return stored, nil
}

// GetInsightsForUser returns all persisted insights, most recent first.
func (s *InsightService) GetInsightsForUser(ctx context.Context, userID string) ([]core.Insight, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, core.NewValidationError("userId", core.ErrEmptyUserID)
	}
	insights, err := s.store.ListInsights(ctx, userID)
	if err != nil {
		return nil, core.NewDependencyError("list insights", err)
	}
	return insights, nil
}

// GetInsightByID returns one insight. Ownership is enforced here: an
// insight belonging to another user yields ErrForbidden, never the record.
func (s *InsightService) GetInsightByID(ctx context.Context, id, userID string) (core.Insight, error) {
	if strings.TrimSpace(userID) == "" {
		return core.Insight{}, core.NewValidationError("userId", core.ErrEmptyUserID)
	}
	insight, err := s.store.GetInsight(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Insight{}, core.ErrNotFound
		}
		return core.Insight{}, core.NewDependencyError("get insight", err)
	}
	if insight.UserID != userID {
		return core.Insight{}, core.ErrForbidden
	}
	return insight, nil
}

func (s *InsightService) spendingPatternInsight(userID string, txs []core.Transaction, now time.Time) (core.Insight, error) {
	ranked := AnalyzeSpending(txs, now, s.config.TrailingMonths, s.config.TopCategories)
	data, err := json.Marshal(SpendingPatternData{
		WindowStart:   now.AddDate(0, -s.config.TrailingMonths, 0),
		WindowEnd:     now,
		TopCategories: ranked,
	})
	if err != nil {
		return core.Insight{}, fmt.Errorf("marshal spending pattern: %w", err)
	}
	return core.Insight{
		UserID:      userID,
		Type:        core.InsightSpendingPattern,
		Title:       "Top Spending Categories",
		Description: fmt.Sprintf("Your top spending categories over the last %d months.", s.config.TrailingMonths),
		Data:        data,
	}, nil
}

func (s *InsightService) budgetPerformanceInsight(userID string, budgets []core.Budget, txs []core.Transaction, now time.Time) (core.Insight, error) {
	entries := make([]BudgetPerformanceEntry, 0, len(budgets))
	overCount := 0
	for _, b := range budgets {
		progress, err := CalculateBudgetProgress(b, txs, now)
		if err != nil {
			return core.Insight{}, fmt.Errorf("budget %s: %w", b.ID, err)
		}
		status := StatusWithinBudget
		if progress.OverBudget() {
			status = StatusOverBudget
			overCount++
		}
		entries = append(entries, BudgetPerformanceEntry{
			BudgetID:           b.ID,
			CategoryID:         b.CategoryID,
			TotalBudget:        progress.TotalBudget.String(),
			SpentAmount:        progress.SpentAmount.String(),
			RemainingAmount:    progress.RemainingAmount.String(),
			ProgressPercentage: progress.ProgressPercentage,
			Status:             status,
		})
	}
	data, err := json.Marshal(BudgetPerformanceData{Budgets: entries})
	if err != nil {
		return core.Insight{}, fmt.Errorf("marshal budget performance: %w", err)
	}
	return core.Insight{
		UserID:      userID,
		Type:        core.InsightBudgetPerformance,
		Title:       "Budget Performance",
		Description: fmt.Sprintf("%d of %d budgets are over their limit.", overCount, len(budgets)),
		Data:        data,
	}, nil
}

func (s *InsightService) goalProgressInsight(userID string, goals []core.Goal, now time.Time) (core.Insight, error) {
	entries := make([]GoalProgressEntry, 0, len(goals))
	for _, goal := range goals {
		progress, err := CalculateGoalProgress(goal, nil, now)
		if err != nil {
			return core.Insight{}, fmt.Errorf("goal %s: %w", goal.ID, err)
		}
		entries = append(entries, GoalProgressEntry{
			GoalID:             goal.ID,
			Name:               goal.Name,
			CurrentAmount:      progress.CurrentAmount.String(),
			RemainingAmount:    progress.RemainingAmount.String(),
			PercentageAchieved: progress.PercentageAchieved,
			DaysUntilDeadline:  progress.DaysUntilDeadline,
			Exceeded:           progress.Exceeded(),
		})
	}
	data, err := json.Marshal(GoalProgressData{Goals: entries})
	if err != nil {
		return core.Insight{}, fmt.Errorf("marshal goal progress: %w", err)
	}
	return core.Insight{
		UserID:      userID,
		Type:        core.InsightGoalProgress,
		Title:       "Goal Progress",
		Description: fmt.Sprintf("Progress across your %d savings goals.", len(goals)),
		Data:        data,
	}, nil
}
