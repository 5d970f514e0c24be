package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"finsight/internal/core"
	"finsight/internal/services"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction stores a validated transaction and returns it with its
// assigned id.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, date, amount_cents, type, category, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Date, t.Amount.Cents, string(t.Type), t.Category, t.Description)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"user_id", t.UserID,
		"amount_cents", t.Amount.Cents,
		"category", t.Category)

	return t, nil
}

// ListTransactions implements services.TransactionReader.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, filter services.TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT id, user_id, date, amount_cents, type, category, description
	          FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if !filter.StartDate.IsZero() {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}
	query += " ORDER BY date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			t        core.Transaction
			cents    int64
			typeName string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Date, &cents, &typeName, &t.Category, &t.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Amount = core.Money{Cents: cents}
		t.Type = core.TransactionType(typeName)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return txs, nil
}

// CreateBudget stores a validated budget and returns it with its assigned id.
func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, category_id, amount_cents, period, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.CategoryID, b.Amount.Cents, string(b.Period), b.StartDate, b.EndDate)
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"id", b.ID,
		"user_id", b.UserID,
		"category", b.CategoryID,
		"amount_cents", b.Amount.Cents)

	return b, nil
}

// ListBudgets implements services.BudgetReader.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, amount_cents, period, start_date, end_date
		 FROM budgets WHERE user_id = ? ORDER BY start_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var (
			b      core.Budget
			cents  int64
			period string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &cents, &period, &b.StartDate, &b.EndDate); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Amount = core.Money{Cents: cents}
		b.Period = core.BudgetPeriod(period)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}

	return budgets, nil
}

// CreateGoal stores a validated goal and returns it with its assigned id.
func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	g.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, name, target_amount_cents, current_amount_cents, target_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.TargetDate)
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved",
		"id", g.ID,
		"user_id", g.UserID,
		"name", g.Name,
		"target_cents", g.TargetAmount.Cents)

	return g, nil
}

// ListGoals implements services.GoalReader.
func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_amount_cents, current_amount_cents, target_date
		 FROM goals WHERE user_id = ? ORDER BY target_date ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var (
			g             core.Goal
			target, saved int64
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &target, &saved, &g.TargetDate); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.TargetAmount = core.Money{Cents: target}
		g.CurrentAmount = core.Money{Cents: saved}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}

	return goals, nil
}

// AppendInsights writes a batch in a single transaction: either every
// insight lands or none do. Ids and timestamps are assigned here.
func (r *SQLiteRepository) AppendInsights(ctx context.Context, userID string, insights []core.Insight) ([]core.Insight, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insight batch: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	stored := make([]core.Insight, len(insights))
	for i, ins := range insights {
		ins.ID = uuid.NewString()
		ins.UserID = userID
		ins.CreatedAt = now

		data := string(ins.Data)
		if data == "" {
			data = "{}"
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO insights (id, user_id, type, title, description, data, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ins.ID, ins.UserID, string(ins.Type), ins.Title, ins.Description, data, ins.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert insight %s: %w", ins.Type, err)
		}
		stored[i] = ins
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insight batch: %w", err)
	}

	slog.InfoContext(ctx, "Insight batch persisted",
		"user_id", userID,
		"count", len(stored))

	return stored, nil
}

// ListInsights implements services.InsightStore, most recent batch first.
func (r *SQLiteRepository) ListInsights(ctx context.Context, userID string) ([]core.Insight, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, title, description, data, created_at
		 FROM insights WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query insights: %w", err)
	}
	defer rows.Close()

	var insights []core.Insight
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		insights = append(insights, ins)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate insights: %w", err)
	}

	return insights, nil
}

// GetInsight fetches one insight by id regardless of owner; ownership is the
// caller's concern.
func (r *SQLiteRepository) GetInsight(ctx context.Context, id string) (core.Insight, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, title, description, data, created_at
		 FROM insights WHERE id = ?`, id)

	ins, err := scanInsight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Insight{}, core.ErrNotFound
		}
		return core.Insight{}, err
	}
	return ins, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInsight(row rowScanner) (core.Insight, error) {
	var (
		ins      core.Insight
		typeName string
		data     string
	)
	if err := row.Scan(&ins.ID, &ins.UserID, &typeName, &ins.Title, &ins.Description, &data, &ins.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Insight{}, err
		}
		return core.Insight{}, fmt.Errorf("scan insight: %w", err)
	}
	ins.Type = core.InsightType(typeName)
	ins.Data = []byte(data)
	return ins, nil
}
