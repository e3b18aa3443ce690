// backend/src/handlers/dashboard_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/username/financeflow/backend/src/logger"
	"github.com/username/financeflow/backend/src/processors"
	"github.com/username/financeflow/backend/src/services"
)

const defaultTrendMonths = 6

// DashboardHandler serves the read-only aggregation endpoints. Everything here
// is derived from the user's snapshot; nothing is persisted.
type DashboardHandler struct {
	financeService services.FinanceService
}

func NewDashboardHandler(financeService services.FinanceService) *DashboardHandler {
	return &DashboardHandler{financeService: financeService}
}

// periodFromQuery reads optional month/year query parameters, defaulting to
// the current month. Both must be provided together.
func periodFromQuery(r *http.Request, now time.Time) (processors.Period, error) {
	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")
	if monthStr == "" && yearStr == "" {
		return processors.CurrentPeriod(now), nil
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return processors.Period{}, errors.New("invalid month parameter")
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1900 || year > 9999 {
		return processors.Period{}, errors.New("invalid year parameter")
	}
	return processors.Period{Year: year, Month: month}, nil
}

func (h *DashboardHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	period, err := periodFromQuery(r, time.Now())
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.financeService.DashboardStats(r.Context(), userID, period)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to build dashboard summary", "error", err)
		sendJSONError(w, "Failed to build dashboard summary", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *DashboardHandler) NetWorthHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	summary, err := h.financeService.NetWorth(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to compute net worth", "error", err)
		sendJSONError(w, "Failed to compute net worth", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *DashboardHandler) TrendHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	months := defaultTrendMonths
	if monthsStr := r.URL.Query().Get("months"); monthsStr != "" {
		parsed, err := strconv.Atoi(monthsStr)
		if err != nil || parsed < 1 || parsed > 60 {
			sendJSONError(w, "invalid months parameter", http.StatusBadRequest)
			return
		}
		months = parsed
	}

	trend, err := h.financeService.HistoricalTrend(r.Context(), userID, months)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to compute historical trend", "error", err)
		sendJSONError(w, "Failed to compute historical trend", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

func (h *DashboardHandler) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	period, err := periodFromQuery(r, time.Now())
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	metrics, err := h.financeService.FinancialMetrics(r.Context(), userID, period)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to compute financial metrics", "error", err)
		sendJSONError(w, "Failed to compute financial metrics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (h *DashboardHandler) CategoryBreakdownHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	period, err := periodFromQuery(r, time.Now())
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	txnType := r.URL.Query().Get("type")
	if txnType == "" {
		txnType = "expense"
	}
	if txnType != "expense" && txnType != "income" {
		sendJSONError(w, "invalid type parameter", http.StatusBadRequest)
		return
	}

	entries, err := h.financeService.CategoryBreakdown(r.Context(), userID, period, txnType)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to build category breakdown", "error", err)
		sendJSONError(w, "Failed to build category breakdown", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// SnapshotHandler returns the user's full data snapshot in one round trip, the
// way the web client bootstraps.
func (h *DashboardHandler) SnapshotHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	snap, err := h.financeService.LoadSnapshot(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to load snapshot", "error", err)
		sendJSONError(w, "Failed to load snapshot", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
