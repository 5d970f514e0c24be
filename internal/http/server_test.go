package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/core"
	"finsight/internal/services"
)

type fakeInsightAPI struct {
	listCalls int
	insights  []core.Insight
	byID      map[string]core.Insight
	genErr    error
	listErr   error
}

func (f *fakeInsightAPI) GenerateInsights(ctx context.Context, userID string) ([]core.Insight, error) {
	if f.genErr != nil {
		return nil, f.genErr
	}
	return f.insights, nil
}

func (f *fakeInsightAPI) GetInsightsForUser(ctx context.Context, userID string) ([]core.Insight, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.insights, nil
}

func (f *fakeInsightAPI) GetInsightByID(ctx context.Context, id, userID string) (core.Insight, error) {
	ins, ok := f.byID[id]
	if !ok {
		return core.Insight{}, core.ErrNotFound
	}
	if ins.UserID != userID {
		return core.Insight{}, core.ErrForbidden
	}
	return ins, nil
}

type fakeResources struct {
	txs     []core.Transaction
	budgets []core.Budget
	goals   []core.Goal
}

func (f *fakeResources) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = "tx-1"
	f.txs = append(f.txs, t)
	return t, nil
}

func (f *fakeResources) ListTransactions(ctx context.Context, userID string, _ services.TransactionFilter) ([]core.Transaction, error) {
	return f.txs, nil
}

func (f *fakeResources) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.ID = "b-1"
	f.budgets = append(f.budgets, b)
	return b, nil
}

func (f *fakeResources) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	return f.budgets, nil
}

func (f *fakeResources) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	g.ID = "g-1"
	f.goals = append(f.goals, g)
	return g, nil
}

func (f *fakeResources) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	return f.goals, nil
}

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) PublishInsightGenerate(ctx context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, userID)
	return nil
}

func doRequest(srv *Server, method, path, userID, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func newTestServer(api *fakeInsightAPI, pub GeneratePublisher) (*Server, *fakeResources) {
	resources := &fakeResources{}
	srv := NewServer(":0", api, resources, pub, time.Minute)
	return srv, resources
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(&fakeInsightAPI{}, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doRequest(srv, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
}

func TestMissingUserIDHeader(t *testing.T) {
	srv, _ := newTestServer(&fakeInsightAPI{}, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	rr := doRequest(srv, http.MethodGet, "/insights", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListInsights_CachesPerUser(t *testing.T) {
	api := &fakeInsightAPI{insights: []core.Insight{
		{ID: "ins-1", UserID: "u1", Type: core.InsightSpendingPattern, Title: "Top Spending Categories"},
	}}
	srv, _ := newTestServer(api, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	rr := doRequest(srv, http.MethodGet, "/insights", "u1", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp insightListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Insights, 1)
	assert.Equal(t, "ins-1", resp.Insights[0].ID)

	// Second hit must be served from cache.
	rr = doRequest(srv, http.MethodGet, "/insights", "u1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, api.listCalls)
}

func TestGetInsight_StatusMapping(t *testing.T) {
	api := &fakeInsightAPI{byID: map[string]core.Insight{
		"ins-1": {ID: "ins-1", UserID: "owner", Type: core.InsightGoalProgress},
	}}
	srv, _ := newTestServer(api, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	rr := doRequest(srv, http.MethodGet, "/insights/ins-1", "owner", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(srv, http.MethodGet, "/insights/ins-1", "intruder", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(srv, http.MethodGet, "/insights/missing", "owner", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGenerateInsights_Queued(t *testing.T) {
	pub := &fakePublisher{}
	srv, _ := newTestServer(&fakeInsightAPI{}, pub)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	rr := doRequest(srv, http.MethodPost, "/insights/generate", "u1", "")
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, []string{"u1"}, pub.published)
	assert.Contains(t, rr.Body.String(), "queued")
}

func TestGenerateInsights_Inline(t *testing.T) {
	api := &fakeInsightAPI{insights: []core.Insight{
		{ID: "ins-1", UserID: "u1", Type: core.InsightSpendingPattern},
	}}
	srv, _ := newTestServer(api, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	rr := doRequest(srv, http.MethodPost, "/insights/generate", "u1", "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp insightListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Insights, 1)
}

func TestGenerateInsights_InvalidatesListCache(t *testing.T) {
	api := &fakeInsightAPI{}
	srv, _ := newTestServer(api, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	doRequest(srv, http.MethodGet, "/insights", "u1", "")
	require.Equal(t, 1, api.listCalls)

	doRequest(srv, http.MethodPost, "/insights/generate", "u1", "")

	doRequest(srv, http.MethodGet, "/insights", "u1", "")
	assert.Equal(t, 2, api.listCalls, "generation must invalidate the cached list")
}

func TestGenerateInsights_DependencyFailure(t *testing.T) {
	api := &fakeInsightAPI{genErr: core.NewDependencyError("list goals", errors.New("down"))}
	srv, _ := newTestServer(api, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	rr := doRequest(srv, http.MethodPost, "/insights/generate", "u1", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCreateTransaction(t *testing.T) {
	srv, resources := newTestServer(&fakeInsightAPI{}, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	body := `{"date":"2025-03-10","amount":"50.00","type":"expense","category":"groceries"}`
	rr := doRequest(srv, http.MethodPost, "/transactions", "u1", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	require.Len(t, resources.txs, 1)
	assert.Equal(t, int64(-5000), resources.txs[0].Amount.Cents, "expense amounts are stored negative")
	assert.Equal(t, core.Expense, resources.txs[0].Type)
}

func TestCreateTransaction_InvalidAmount(t *testing.T) {
	srv, _ := newTestServer(&fakeInsightAPI{}, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	body := `{"date":"2025-03-10","amount":"abc","type":"expense","category":"groceries"}`
	rr := doRequest(srv, http.MethodPost, "/transactions", "u1", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCreateBudget_InvalidPeriod(t *testing.T) {
	srv, _ := newTestServer(&fakeInsightAPI{}, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	body := `{"categoryId":"groceries","amount":"400.00","period":"fortnightly","startDate":"2025-03-01","endDate":"2025-03-31"}`
	rr := doRequest(srv, http.MethodPost, "/budgets", "u1", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCreateGoal(t *testing.T) {
	srv, resources := newTestServer(&fakeInsightAPI{}, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	body := `{"name":"Vacation","targetAmount":"1000.00","targetDate":"2025-12-31"}`
	rr := doRequest(srv, http.MethodPost, "/goals", "u1", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	require.Len(t, resources.goals, 1)
	assert.Equal(t, int64(100000), resources.goals[0].TargetAmount.Cents)
	assert.Equal(t, int64(0), resources.goals[0].CurrentAmount.Cents)
}
