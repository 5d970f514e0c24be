package http

import (
	"encoding/json"
	"net/http"

	"finsight/internal/core"
	"finsight/internal/services"
)

type createTransactionRequest struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	// Amounts arrive unsigned; the type decides the sign.
	txType := core.TransactionType(req.Type)
	if txType == core.Expense {
		cents = -cents
	}

	t := core.Transaction{
		UserID:      userIDFrom(r),
		Date:        date,
		Amount:      core.Money{Cents: cents},
		Type:        txType,
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
	}
	if err := t.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.resources.CreateTransaction(r.Context(), t)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := services.TransactionFilter{
		Category: sanitizeInput(r.URL.Query().Get("category")),
	}
	if v := r.URL.Query().Get("from"); v != "" {
		from, err := parseDate(v)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "from must be YYYY-MM-DD")
			return
		}
		filter.StartDate = from
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err := parseDate(v)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "to must be YYYY-MM-DD")
			return
		}
		filter.EndDate = to
	}

	txs, err := s.resources.ListTransactions(r.Context(), userIDFrom(r), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}

	respondJSON(w, http.StatusOK, map[string][]core.Transaction{"transactions": txs})
}

type createBudgetRequest struct {
	CategoryID string `json:"categoryId"`
	Amount     string `json:"amount"`
	Period     string `json:"period"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "startDate must be YYYY-MM-DD")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "endDate must be YYYY-MM-DD")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	b := core.Budget{
		UserID:     userIDFrom(r),
		CategoryID: sanitizeInput(req.CategoryID),
		Amount:     core.Money{Cents: cents},
		Period:     core.BudgetPeriod(req.Period),
		StartDate:  start,
		EndDate:    end,
	}
	if err := b.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.resources.CreateBudget(r.Context(), b)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.resources.ListBudgets(r.Context(), userIDFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if budgets == nil {
		budgets = []core.Budget{}
	}

	respondJSON(w, http.StatusOK, map[string][]core.Budget{"budgets": budgets})
}

type createGoalRequest struct {
	Name          string `json:"name"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount"`
	TargetDate    string `json:"targetDate"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "targetDate must be YYYY-MM-DD")
		return
	}

	target, err := core.ParseDecimalToCents(req.TargetAmount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid targetAmount")
		return
	}

	// A goal may start with nothing saved.
	var current int64
	if req.CurrentAmount != "" && req.CurrentAmount != "0" {
		current, err = core.ParseDecimalToCents(req.CurrentAmount)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "invalid currentAmount")
			return
		}
	}

	g := core.Goal{
		UserID:        userIDFrom(r),
		Name:          sanitizeInput(req.Name),
		TargetAmount:  core.Money{Cents: target},
		CurrentAmount: core.Money{Cents: current},
		TargetDate:    targetDate,
	}
	if err := g.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.resources.CreateGoal(r.Context(), g)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.resources.ListGoals(r.Context(), userIDFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if goals == nil {
		goals = []core.Goal{}
	}

	respondJSON(w, http.StatusOK, map[string][]core.Goal{"goals": goals})
}
