// backend/src/handlers/transaction_handler.go
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

// TransactionHandler serves the transaction CRUD endpoints. Every write runs
// inside a single database transaction so the row and the account balance it
// affects never go out of sync.
type TransactionHandler struct {
	financeService services.FinanceService
}

func NewTransactionHandler(financeService services.FinanceService) *TransactionHandler {
	return &TransactionHandler{financeService: financeService}
}

type transactionPayload struct {
	AccountID   string          `json:"accountId"`
	Type        string          `json:"type"`
	Amount      utils.FlexFloat `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	CategoryID  string          `json:"categoryId"`
	SourceID    string          `json:"sourceId"`
	IsFixed     bool            `json:"isFixed"`
}

func (p *transactionPayload) sanitizeAndValidate() error {
	p.Description = validation.StripUnprintable(validation.SanitizeText(strings.TrimSpace(p.Description)))

	if err := validation.ValidateStringNotEmpty(p.AccountID, "AccountID"); err != nil {
		return err
	}
	if err := validation.ValidateTransactionType(p.Type); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative(p.Amount.Float64(), "Amount"); err != nil {
		return err
	}
	if err := validation.ValidateISODateString(p.Date, "Date"); err != nil {
		return err
	}
	return validation.ValidateStringMaxLength(p.Description, validation.MaxDescriptionLength, "Description")
}

func (h *TransactionHandler) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	txns, err := models.ListTransactions(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list transactions", "error", err)
		sendJSONError(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (h *TransactionHandler) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	txn := &models.Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		AccountID:   payload.AccountID,
		Type:        payload.Type,
		Amount:      payload.Amount.Float64(),
		Description: payload.Description,
		Date:        payload.Date,
		CategoryID:  payload.CategoryID,
		SourceID:    payload.SourceID,
		IsFixed:     payload.IsFixed,
	}

	tx, err := database.DB.Begin()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to begin transaction", "error", err)
		sendJSONError(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := txn.Insert(tx); err != nil {
		logger.FromContext(r.Context()).Error("Failed to insert transaction", "error", err)
		sendJSONError(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}
	if err := models.AdjustAccountBalance(tx, userID, txn.AccountID, txn.Signed()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Account not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to adjust account balance", "accountID", txn.AccountID, "error", err)
		sendJSONError(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(); err != nil {
		logger.FromContext(r.Context()).Error("Failed to commit transaction", "error", err)
		sendJSONError(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}
	committed = true

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusCreated, txn)
}

func (h *TransactionHandler) UpdateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	txnID := chi.URLParam(r, "transactionID")

	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	existing, err := models.GetTransactionByID(database.DB, userID, txnID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to load transaction", "transactionID", txnID, "error", err)
		sendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}

	updated := &models.Transaction{
		ID:          txnID,
		UserID:      userID,
		AccountID:   payload.AccountID,
		Type:        payload.Type,
		Amount:      payload.Amount.Float64(),
		Description: payload.Description,
		Date:        payload.Date,
		CategoryID:  payload.CategoryID,
		SourceID:    payload.SourceID,
		IsFixed:     payload.IsFixed,
	}

	tx, err := database.DB.Begin()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to begin transaction", "error", err)
		sendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	// Reverte o efeito antigo antes de aplicar o novo, em contas possivelmente diferentes.
	if err := models.AdjustAccountBalance(tx, userID, existing.AccountID, -existing.Signed()); err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.FromContext(r.Context()).Error("Failed to reverse old balance effect", "accountID", existing.AccountID, "error", err)
		sendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}
	if err := updated.Update(tx); err != nil {
		logger.FromContext(r.Context()).Error("Failed to update transaction", "transactionID", txnID, "error", err)
		sendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}
	if err := models.AdjustAccountBalance(tx, userID, updated.AccountID, updated.Signed()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Account not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to adjust account balance", "accountID", updated.AccountID, "error", err)
		sendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(); err != nil {
		logger.FromContext(r.Context()).Error("Failed to commit transaction", "error", err)
		sendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}
	committed = true

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusOK, updated)
}

func (h *TransactionHandler) DeleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	txnID := chi.URLParam(r, "transactionID")

	existing, err := models.GetTransactionByID(database.DB, userID, txnID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to load transaction", "transactionID", txnID, "error", err)
		sendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}

	tx, err := database.DB.Begin()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to begin transaction", "error", err)
		sendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := models.DeleteTransaction(tx, userID, txnID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to delete transaction", "transactionID", txnID, "error", err)
		sendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}
	// A conta pode entretanto ter sido apagada; nesse caso não há saldo a repor.
	if err := models.AdjustAccountBalance(tx, userID, existing.AccountID, -existing.Signed()); err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.FromContext(r.Context()).Error("Failed to reverse balance effect", "accountID", existing.AccountID, "error", err)
		sendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(); err != nil {
		logger.FromContext(r.Context()).Error("Failed to commit transaction", "error", err)
		sendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}
	committed = true

	h.financeService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}
