// backend/src/handlers/account_handler.go
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

type AccountHandler struct {
	financeService services.FinanceService
}

func NewAccountHandler(financeService services.FinanceService) *AccountHandler {
	return &AccountHandler{financeService: financeService}
}

type accountPayload struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Currency    string          `json:"currency"`
	Balance     utils.FlexFloat `json:"balance"`
	Institution string          `json:"institution"`
	Purpose     string          `json:"purpose"`
}

func (p *accountPayload) sanitizeAndValidate() error {
	p.Name = validation.SanitizeText(strings.TrimSpace(p.Name))
	p.Institution = validation.SanitizeText(strings.TrimSpace(p.Institution))
	p.Purpose = validation.SanitizeText(strings.TrimSpace(p.Purpose))

	if err := validation.ValidateStringNotEmpty(p.Name, "Name"); err != nil {
		return err
	}
	if err := validation.ValidateStringMaxLength(p.Name, validation.MaxNameLength, "Name"); err != nil {
		return err
	}
	if err := validation.ValidateAccountType(p.Type); err != nil {
		return err
	}
	return validation.ValidateCurrency(p.Currency)
}

func (h *AccountHandler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	accounts, err := models.ListAccounts(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list accounts", "error", err)
		sendJSONError(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var payload accountPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	account := &models.Account{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        payload.Name,
		Type:        payload.Type,
		Currency:    payload.Currency,
		Balance:     payload.Balance.Float64(),
		Institution: payload.Institution,
		Purpose:     payload.Purpose,
	}
	if err := account.Create(database.DB); err != nil {
		logger.FromContext(r.Context()).Error("Failed to create account", "error", err)
		sendJSONError(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) UpdateAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	accountID := chi.URLParam(r, "accountID")

	var payload accountPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	account := &models.Account{
		ID:          accountID,
		UserID:      userID,
		Name:        payload.Name,
		Type:        payload.Type,
		Currency:    payload.Currency,
		Balance:     payload.Balance.Float64(),
		Institution: payload.Institution,
		Purpose:     payload.Purpose,
	}
	if err := account.Update(database.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Account not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to update account", "accountID", accountID, "error", err)
		sendJSONError(w, "Failed to update account", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	accountID := chi.URLParam(r, "accountID")

	if err := models.DeleteAccount(database.DB, userID, accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Account not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to delete account", "accountID", accountID, "error", err)
		sendJSONError(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}
