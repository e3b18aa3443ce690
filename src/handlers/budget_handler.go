// backend/src/handlers/budget_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/username/financeflow/backend/src/database"
	"github.com/username/financeflow/backend/src/logger"
	"github.com/username/financeflow/backend/src/models"
	"github.com/username/financeflow/backend/src/security/validation"
	"github.com/username/financeflow/backend/src/services"
	"github.com/username/financeflow/backend/src/utils"
)

type BudgetHandler struct {
	financeService services.FinanceService
}

func NewBudgetHandler(financeService services.FinanceService) *BudgetHandler {
	return &BudgetHandler{financeService: financeService}
}

type budgetPayload struct {
	EntityID   string          `json:"entityId"`
	EntityType string          `json:"entityType"`
	Amount     utils.FlexFloat `json:"amount"`
	Currency   string          `json:"currency"`
	Period     string          `json:"period"`
}

func (p *budgetPayload) validate() error {
	if err := validation.ValidateStringNotEmpty(p.EntityID, "EntityID"); err != nil {
		return err
	}
	if err := validation.ValidateBudgetEntityType(p.EntityType); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative(p.Amount.Float64(), "Amount"); err != nil {
		return err
	}
	if err := validation.ValidateCurrency(p.Currency); err != nil {
		return err
	}
	if p.Period == "" {
		p.Period = "monthly"
	}
	return nil
}

func (h *BudgetHandler) ListBudgetsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	budgets, err := models.ListBudgets(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list budgets", "error", err)
		sendJSONError(w, "Failed to list budgets", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (h *BudgetHandler) CreateBudgetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var payload budgetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.validate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	budget := &models.Budget{
		ID:         uuid.New().String(),
		UserID:     userID,
		EntityID:   payload.EntityID,
		EntityType: payload.EntityType,
		Amount:     payload.Amount.Float64(),
		Currency:   payload.Currency,
		Period:     payload.Period,
	}
	if err := budget.Create(database.DB); err != nil {
		logger.FromContext(r.Context()).Error("Failed to create budget", "error", err)
		sendJSONError(w, "Failed to create budget", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusCreated, budget)
}

func (h *BudgetHandler) UpdateBudgetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	budgetID := chi.URLParam(r, "budgetID")

	var payload budgetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.validate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	budget := &models.Budget{
		ID:         budgetID,
		UserID:     userID,
		EntityID:   payload.EntityID,
		EntityType: payload.EntityType,
		Amount:     payload.Amount.Float64(),
		Currency:   payload.Currency,
		Period:     payload.Period,
	}
	if err := budget.Update(database.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Budget not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to update budget", "budgetID", budgetID, "error", err)
		sendJSONError(w, "Failed to update budget", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusOK, budget)
}

func (h *BudgetHandler) DeleteBudgetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	budgetID := chi.URLParam(r, "budgetID")

	if err := models.DeleteBudget(database.DB, userID, budgetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Budget not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to delete budget", "budgetID", budgetID, "error", err)
		sendJSONError(w, "Failed to delete budget", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}

// BudgetStatusHandler returns every budget with its progress for the requested
// month (defaults to the current one).
func (h *BudgetHandler) BudgetStatusHandler(w http.ResponseWriter, r *http.Request) {
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

	statuses, err := h.financeService.BudgetStatuses(r.Context(), userID, period)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to compute budget statuses", "error", err)
		sendJSONError(w, "Failed to compute budget statuses", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}
