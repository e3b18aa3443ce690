package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/financeflow/backend/src/logger"
	"github.com/username/financeflow/backend/src/models"
	"github.com/username/financeflow/backend/src/processors"
	"github.com/username/financeflow/backend/src/services"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// stubFinanceService returns canned values and records cache invalidations.
type stubFinanceService struct {
	snapshot    *models.Snapshot
	report      *services.DashboardReport
	netWorth    *processors.NetWorthSummary
	trend       []processors.TrendPoint
	budgets     []processors.BudgetStatus
	goals       []processors.GoalStatus
	metrics     *processors.FinancialMetrics
	breakdown   []processors.BreakdownEntry
	invalidated []int64

	lastPeriod  processors.Period
	lastTxnType string
	lastMonths  int
}

func (s *stubFinanceService) LoadSnapshot(ctx context.Context, userID int64) (*models.Snapshot, error) {
	return s.snapshot, nil
}

func (s *stubFinanceService) DashboardStats(ctx context.Context, userID int64, period processors.Period) (*services.DashboardReport, error) {
	s.lastPeriod = period
	return s.report, nil
}

func (s *stubFinanceService) NetWorth(ctx context.Context, userID int64) (*processors.NetWorthSummary, error) {
	return s.netWorth, nil
}

func (s *stubFinanceService) HistoricalTrend(ctx context.Context, userID int64, months int) ([]processors.TrendPoint, error) {
	s.lastMonths = months
	return s.trend, nil
}

func (s *stubFinanceService) BudgetStatuses(ctx context.Context, userID int64, period processors.Period) ([]processors.BudgetStatus, error) {
	s.lastPeriod = period
	return s.budgets, nil
}

func (s *stubFinanceService) GoalStatuses(ctx context.Context, userID int64) ([]processors.GoalStatus, error) {
	return s.goals, nil
}

func (s *stubFinanceService) FinancialMetrics(ctx context.Context, userID int64, period processors.Period) (*processors.FinancialMetrics, error) {
	s.lastPeriod = period
	return s.metrics, nil
}

func (s *stubFinanceService) CategoryBreakdown(ctx context.Context, userID int64, period processors.Period, txnType string) ([]processors.BreakdownEntry, error) {
	s.lastPeriod = period
	s.lastTxnType = txnType
	return s.breakdown, nil
}

func (s *stubFinanceService) InvalidateUserCache(userID int64) {
	s.invalidated = append(s.invalidated, userID)
}

func authedRequest(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(r.Context(), userIDContextKey, int64(1))
	return r.WithContext(ctx)
}

func TestPeriodFromQuery(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	r := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)
	period, err := periodFromQuery(r, now)
	require.NoError(t, err)
	assert.Equal(t, processors.Period{Year: 2024, Month: 3}, period)

	r = httptest.NewRequest(http.MethodGet, "/api/dashboard/summary?month=11&year=2023", nil)
	period, err = periodFromQuery(r, now)
	require.NoError(t, err)
	assert.Equal(t, processors.Period{Year: 2023, Month: 11}, period)

	for _, target := range []string{
		"/api/dashboard/summary?month=13&year=2024",
		"/api/dashboard/summary?month=0&year=2024",
		"/api/dashboard/summary?month=abc&year=2024",
		"/api/dashboard/summary?month=3", // mês sem ano
	} {
		_, err = periodFromQuery(httptest.NewRequest(http.MethodGet, target, nil), now)
		assert.Error(t, err, target)
	}
}

func TestSummaryHandler(t *testing.T) {
	stub := &stubFinanceService{
		report: &services.DashboardReport{
			Stats:  processors.DashboardStats{BRL: processors.AccountTotals{TotalBalance: 1500}},
			Rate:   6.1,
			Period: "2024-03",
		},
	}
	h := NewDashboardHandler(stub)

	w := httptest.NewRecorder()
	h.SummaryHandler(w, authedRequest(http.MethodGet, "/api/dashboard/summary?month=3&year=2024"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, processors.Period{Year: 2024, Month: 3}, stub.lastPeriod)

	var got services.DashboardReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.InDelta(t, 1500.0, got.Stats.BRL.TotalBalance, 0.001)
	assert.InDelta(t, 6.1, got.Rate, 0.001)
}

func TestSummaryHandlerRequiresAuth(t *testing.T) {
	h := NewDashboardHandler(&stubFinanceService{})

	w := httptest.NewRecorder()
	h.SummaryHandler(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSummaryHandlerRejectsBadPeriod(t *testing.T) {
	h := NewDashboardHandler(&stubFinanceService{})

	w := httptest.NewRecorder()
	h.SummaryHandler(w, authedRequest(http.MethodGet, "/api/dashboard/summary?month=14&year=2024"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrendHandlerMonthsParameter(t *testing.T) {
	stub := &stubFinanceService{trend: []processors.TrendPoint{}}
	h := NewDashboardHandler(stub)

	w := httptest.NewRecorder()
	h.TrendHandler(w, authedRequest(http.MethodGet, "/api/networth/trend"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultTrendMonths, stub.lastMonths)

	w = httptest.NewRecorder()
	h.TrendHandler(w, authedRequest(http.MethodGet, "/api/networth/trend?months=12"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12, stub.lastMonths)

	w = httptest.NewRecorder()
	h.TrendHandler(w, authedRequest(http.MethodGet, "/api/networth/trend?months=0"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryBreakdownHandlerTypeParameter(t *testing.T) {
	stub := &stubFinanceService{breakdown: []processors.BreakdownEntry{}}
	h := NewDashboardHandler(stub)

	w := httptest.NewRecorder()
	h.CategoryBreakdownHandler(w, authedRequest(http.MethodGet, "/api/reports/category-breakdown"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "expense", stub.lastTxnType)

	w = httptest.NewRecorder()
	h.CategoryBreakdownHandler(w, authedRequest(http.MethodGet, "/api/reports/category-breakdown?type=income"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "income", stub.lastTxnType)

	w = httptest.NewRecorder()
	h.CategoryBreakdownHandler(w, authedRequest(http.MethodGet, "/api/reports/category-breakdown?type=transfer"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNetWorthHandler(t *testing.T) {
	stub := &stubFinanceService{netWorth: &processors.NetWorthSummary{NetBRL: 100, Approximate: true}}
	h := NewDashboardHandler(stub)

	w := httptest.NewRecorder()
	h.NetWorthHandler(w, authedRequest(http.MethodGet, "/api/networth"))

	require.Equal(t, http.StatusOK, w.Code)
	var got processors.NetWorthSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.InDelta(t, 100.0, got.NetBRL, 0.001)
	assert.True(t, got.Approximate)
}

func TestSnapshotHandler(t *testing.T) {
	stub := &stubFinanceService{snapshot: &models.Snapshot{
		Accounts: []models.Account{{ID: "acc", Currency: "BRL"}},
		Degraded: true,
	}}
	h := NewDashboardHandler(stub)

	w := httptest.NewRecorder()
	h.SnapshotHandler(w, authedRequest(http.MethodGet, "/api/snapshot"))

	require.Equal(t, http.StatusOK, w.Code)
	var got models.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Accounts, 1)
	assert.True(t, got.Degraded)
}
