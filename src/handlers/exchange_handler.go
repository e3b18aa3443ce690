// backend/src/handlers/exchange_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/username/financeflow/backend/src/database"
	"github.com/username/financeflow/backend/src/logger"
	"github.com/username/financeflow/backend/src/models"
	"github.com/username/financeflow/backend/src/security/validation"
	"github.com/username/financeflow/backend/src/services"
	"github.com/username/financeflow/backend/src/utils"
)

// ExchangeHandler records currency exchanges between two accounts. An exchange
// is immutable once recorded: it can be listed or deleted, never edited.
type ExchangeHandler struct {
	financeService services.FinanceService
}

func NewExchangeHandler(financeService services.FinanceService) *ExchangeHandler {
	return &ExchangeHandler{financeService: financeService}
}

type exchangePayload struct {
	Date                 string          `json:"date"`
	SourceAccountID      string          `json:"sourceAccountId"`
	DestinationAccountID string          `json:"destinationAccountId"`
	SourceAmount         utils.FlexFloat `json:"sourceAmount"`
	DestinationAmount    utils.FlexFloat `json:"destinationAmount"`
	Fee                  utils.FlexFloat `json:"fee"`
}

func (p *exchangePayload) validate() error {
	if err := validation.ValidateISODateString(p.Date, "Date"); err != nil {
		return err
	}
	if err := validation.ValidateStringNotEmpty(p.SourceAccountID, "SourceAccountID"); err != nil {
		return err
	}
	if err := validation.ValidateStringNotEmpty(p.DestinationAccountID, "DestinationAccountID"); err != nil {
		return err
	}
	if p.SourceAccountID == p.DestinationAccountID {
		return validation.ErrValidationFailed
	}
	if err := validation.ValidateNonNegative(p.SourceAmount.Float64(), "SourceAmount"); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative(p.DestinationAmount.Float64(), "DestinationAmount"); err != nil {
		return err
	}
	return validation.ValidateNonNegative(p.Fee.Float64(), "Fee")
}

type exchangeResponse struct {
	models.ExchangeOperation
	RealizedRate float64 `json:"realizedRate"`
}

func (h *ExchangeHandler) ListExchangesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	ops, err := models.ListExchangeOperations(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list exchange operations", "error", err)
		sendJSONError(w, "Failed to list exchange operations", http.StatusInternalServerError)
		return
	}

	out := make([]exchangeResponse, 0, len(ops))
	for i := range ops {
		out = append(out, exchangeResponse{ExchangeOperation: ops[i], RealizedRate: ops[i].RealizedRate()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ExchangeHandler) CreateExchangeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var payload exchangePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.validate(); err != nil {
		sendJSONError(w, "Invalid exchange operation", http.StatusBadRequest)
		return
	}

	op := &models.ExchangeOperation{
		ID:                   uuid.New().String(),
		UserID:               userID,
		Date:                 payload.Date,
		SourceAccountID:      payload.SourceAccountID,
		DestinationAccountID: payload.DestinationAccountID,
		SourceAmount:         payload.SourceAmount.Float64(),
		DestinationAmount:    payload.DestinationAmount.Float64(),
		Fee:                  payload.Fee.Float64(),
	}

	tx, err := database.DB.Begin()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to begin transaction", "error", err)
		sendJSONError(w, "Failed to create exchange operation", http.StatusInternalServerError)
		return
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := op.Insert(tx); err != nil {
		logger.FromContext(r.Context()).Error("Failed to insert exchange operation", "error", err)
		sendJSONError(w, "Failed to create exchange operation", http.StatusInternalServerError)
		return
	}
	// A taxa sai da conta de origem, na moeda de origem.
	if err := models.AdjustAccountBalance(tx, userID, op.SourceAccountID, -(op.SourceAmount + op.Fee)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Source account not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to debit source account", "accountID", op.SourceAccountID, "error", err)
		sendJSONError(w, "Failed to create exchange operation", http.StatusInternalServerError)
		return
	}
	if err := models.AdjustAccountBalance(tx, userID, op.DestinationAccountID, op.DestinationAmount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Destination account not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to credit destination account", "accountID", op.DestinationAccountID, "error", err)
		sendJSONError(w, "Failed to create exchange operation", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(); err != nil {
		logger.FromContext(r.Context()).Error("Failed to commit transaction", "error", err)
		sendJSONError(w, "Failed to create exchange operation", http.StatusInternalServerError)
		return
	}
	committed = true

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusCreated, exchangeResponse{ExchangeOperation: *op, RealizedRate: op.RealizedRate()})
}

func (h *ExchangeHandler) DeleteExchangeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	exchangeID := chi.URLParam(r, "exchangeID")

	existing, err := models.GetExchangeOperationByID(database.DB, userID, exchangeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Exchange operation not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to load exchange operation", "exchangeID", exchangeID, "error", err)
		sendJSONError(w, "Failed to delete exchange operation", http.StatusInternalServerError)
		return
	}

	tx, err := database.DB.Begin()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to begin transaction", "error", err)
		sendJSONError(w, "Failed to delete exchange operation", http.StatusInternalServerError)
		return
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := models.DeleteExchangeOperation(tx, userID, exchangeID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to delete exchange operation", "exchangeID", exchangeID, "error", err)
		sendJSONError(w, "Failed to delete exchange operation", http.StatusInternalServerError)
		return
	}
	// As contas podem já não existir; nesse caso não há saldo a repor.
	if err := models.AdjustAccountBalance(tx, userID, existing.SourceAccountID, existing.SourceAmount+existing.Fee); err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.FromContext(r.Context()).Error("Failed to restore source account balance", "accountID", existing.SourceAccountID, "error", err)
		sendJSONError(w, "Failed to delete exchange operation", http.StatusInternalServerError)
		return
	}
	if err := models.AdjustAccountBalance(tx, userID, existing.DestinationAccountID, -existing.DestinationAmount); err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.FromContext(r.Context()).Error("Failed to restore destination account balance", "accountID", existing.DestinationAccountID, "error", err)
		sendJSONError(w, "Failed to delete exchange operation", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(); err != nil {
		logger.FromContext(r.Context()).Error("Failed to commit transaction", "error", err)
		sendJSONError(w, "Failed to delete exchange operation", http.StatusInternalServerError)
		return
	}
	committed = true

	h.financeService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}
