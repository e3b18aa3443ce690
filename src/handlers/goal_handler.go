// backend/src/handlers/goal_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/username/financeflow/backend/src/database"
	"github.com/username/financeflow/backend/src/logger"
	"github.com/username/financeflow/backend/src/models"
	"github.com/username/financeflow/backend/src/security/validation"
	"github.com/username/financeflow/backend/src/services"
	"github.com/username/financeflow/backend/src/utils"
)

type GoalHandler struct {
	financeService services.FinanceService
}

func NewGoalHandler(financeService services.FinanceService) *GoalHandler {
	return &GoalHandler{financeService: financeService}
}

type goalPayload struct {
	Name         string          `json:"name"`
	TargetAmount utils.FlexFloat `json:"targetAmount"`
	Deadline     string          `json:"deadline"`
	AccountID    string          `json:"accountId"`
	Category     string          `json:"category"`
	Status       string          `json:"status"`
}

func (p *goalPayload) sanitizeAndValidate() error {
	p.Name = validation.SanitizeText(strings.TrimSpace(p.Name))

	if err := validation.ValidateStringNotEmpty(p.Name, "Name"); err != nil {
		return err
	}
	if err := validation.ValidateStringMaxLength(p.Name, validation.MaxNameLength, "Name"); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative(p.TargetAmount.Float64(), "TargetAmount"); err != nil {
		return err
	}
	if err := validation.ValidateStringNotEmpty(p.AccountID, "AccountID"); err != nil {
		return err
	}
	if err := validation.ValidateGoalCategory(p.Category); err != nil {
		return err
	}
	if p.Deadline != "" {
		if err := validation.ValidateISODateString(p.Deadline, "Deadline"); err != nil {
			return err
		}
	}
	if p.Status == "" {
		p.Status = "in_progress"
	}
	return nil
}

func (h *GoalHandler) ListGoalsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	goals, err := models.ListGoals(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list goals", "error", err)
		sendJSONError(w, "Failed to list goals", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) CreateGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var payload goalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	goal := &models.Goal{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         payload.Name,
		TargetAmount: payload.TargetAmount.Float64(),
		Deadline:     payload.Deadline,
		AccountID:    payload.AccountID,
		Category:     payload.Category,
		Status:       payload.Status,
	}
	if err := goal.Create(database.DB); err != nil {
		logger.FromContext(r.Context()).Error("Failed to create goal", "error", err)
		sendJSONError(w, "Failed to create goal", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) UpdateGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	goalID := chi.URLParam(r, "goalID")

	var payload goalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	goal := &models.Goal{
		ID:           goalID,
		UserID:       userID,
		Name:         payload.Name,
		TargetAmount: payload.TargetAmount.Float64(),
		Deadline:     payload.Deadline,
		AccountID:    payload.AccountID,
		Category:     payload.Category,
		Status:       payload.Status,
	}
	if err := goal.Update(database.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Goal not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to update goal", "goalID", goalID, "error", err)
		sendJSONError(w, "Failed to update goal", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) DeleteGoalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	goalID := chi.URLParam(r, "goalID")

	if err := models.DeleteGoal(database.DB, userID, goalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Goal not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to delete goal", "goalID", goalID, "error", err)
		sendJSONError(w, "Failed to delete goal", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}

// GoalStatusHandler returns every goal decorated with its derived progress and
// savings plan.
func (h *GoalHandler) GoalStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	statuses, err := h.financeService.GoalStatuses(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to compute goal statuses", "error", err)
		sendJSONError(w, "Failed to compute goal statuses", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}
