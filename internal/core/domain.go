package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
	Weekly  BudgetPeriod = "weekly"
	Daily   BudgetPeriod = "daily"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

// Uncategorized is the bucket for transactions without a category.
const Uncategorized = "Uncategorized"

type (
	BudgetPeriod    string
	TransactionType string

	// Transaction is a single account movement. Amounts are signed cents
	// (expenses negative, incomes positive) and additionally carry an
	// explicit type flag so the two conventions can never disagree.
	Transaction struct {
		ID          string          `json:"id"`
		AccountID   string          `json:"accountId,omitempty"`
		UserID      string          `json:"userId"`
		Date        time.Time       `json:"date"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Description string          `json:"description,omitempty"`
	}

	// Budget is a spending limit for one category over a period.
	Budget struct {
		ID         string       `json:"id"`
		UserID     string       `json:"userId"`
		CategoryID string       `json:"categoryId"`
		Amount     Money        `json:"amount"`
		Period     BudgetPeriod `json:"period"`
		StartDate  time.Time    `json:"startDate"`
		EndDate    time.Time    `json:"endDate"`
	}

	// Goal is a savings target. CurrentAmount may exceed TargetAmount
	// (over-saved); TargetDate is advisory and never enforced.
	Goal struct {
		ID            string    `json:"id"`
		UserID        string    `json:"userId"`
		Name          string    `json:"name"`
		TargetAmount  Money     `json:"targetAmount"`
		CurrentAmount Money     `json:"currentAmount"`
		TargetDate    time.Time `json:"targetDate"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidPeriod    = errors.New("invalid budget period")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyUserID      = errors.New("empty user id")
)

// ExpenseCents returns the positive expense magnitude of the transaction,
// or 0 when the transaction is not an expense.
func (t Transaction) ExpenseCents() int64 {
	if t.Type != Expense {
		return 0
	}
	if t.Amount.Cents < 0 {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}

// CategoryKey returns the grouping key for pattern analysis. Transactions
// without a category fall into the Uncategorized bucket.
func (t Transaction) CategoryKey() string {
	if strings.TrimSpace(t.Category) == "" {
		return Uncategorized
	}
	return t.Category
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyUserID
	}
	if t.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	switch t.Type {
	case Expense, Income:
	default:
		return ErrInvalidType
	}
	if t.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	// Sign and type flag must agree.
	if t.Type == Expense && t.Amount.Cents > 0 {
		return errors.New("expense amount must be negative")
	}
	if t.Type == Income && t.Amount.Cents < 0 {
		return errors.New("income amount must be positive")
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(b.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if b.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	switch b.Period {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return ErrInvalidPeriod
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return errors.New("start and end date are required")
	}
	if b.StartDate.After(b.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if len(g.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.Cents < 0 {
		return errors.New("current amount cannot be negative")
	}
	return nil
}
