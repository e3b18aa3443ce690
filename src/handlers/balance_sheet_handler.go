// backend/src/handlers/balance_sheet_handler.go
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

// BalanceSheetHandler covers the two net-worth collections outside the cash
// accounts: assets and liabilities.
type BalanceSheetHandler struct {
	financeService services.FinanceService
}

func NewBalanceSheetHandler(financeService services.FinanceService) *BalanceSheetHandler {
	return &BalanceSheetHandler{financeService: financeService}
}

type assetPayload struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Value    utils.FlexFloat `json:"value"`
	Currency string          `json:"currency"`
}

func (p *assetPayload) sanitizeAndValidate() error {
	p.Name = validation.SanitizeText(strings.TrimSpace(p.Name))
	p.Type = validation.SanitizeText(strings.TrimSpace(p.Type))

	if err := validation.ValidateStringNotEmpty(p.Name, "Name"); err != nil {
		return err
	}
	if err := validation.ValidateStringMaxLength(p.Name, validation.MaxNameLength, "Name"); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative(p.Value.Float64(), "Value"); err != nil {
		return err
	}
	return validation.ValidateCurrency(p.Currency)
}

func (h *BalanceSheetHandler) ListAssetsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	assets, err := models.ListAssets(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list assets", "error", err)
		sendJSONError(w, "Failed to list assets", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

func (h *BalanceSheetHandler) CreateAssetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var payload assetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset := &models.Asset{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     payload.Name,
		Type:     payload.Type,
		Value:    payload.Value.Float64(),
		Currency: payload.Currency,
	}
	if err := asset.Create(database.DB); err != nil {
		logger.FromContext(r.Context()).Error("Failed to create asset", "error", err)
		sendJSONError(w, "Failed to create asset", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusCreated, asset)
}

func (h *BalanceSheetHandler) UpdateAssetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	assetID := chi.URLParam(r, "assetID")

	var payload assetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset := &models.Asset{
		ID:       assetID,
		UserID:   userID,
		Name:     payload.Name,
		Type:     payload.Type,
		Value:    payload.Value.Float64(),
		Currency: payload.Currency,
	}
	if err := asset.Update(database.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Asset not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to update asset", "assetID", assetID, "error", err)
		sendJSONError(w, "Failed to update asset", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusOK, asset)
}

func (h *BalanceSheetHandler) DeleteAssetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	assetID := chi.URLParam(r, "assetID")

	if err := models.DeleteAsset(database.DB, userID, assetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Asset not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to delete asset", "assetID", assetID, "error", err)
		sendJSONError(w, "Failed to delete asset", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}

type liabilityPayload struct {
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	Amount       utils.FlexFloat  `json:"amount"`
	Currency     string           `json:"currency"`
	InterestRate *utils.FlexFloat `json:"interestRate"`
}

func (p *liabilityPayload) sanitizeAndValidate() error {
	p.Name = validation.SanitizeText(strings.TrimSpace(p.Name))
	p.Type = validation.SanitizeText(strings.TrimSpace(p.Type))

	if err := validation.ValidateStringNotEmpty(p.Name, "Name"); err != nil {
		return err
	}
	if err := validation.ValidateStringMaxLength(p.Name, validation.MaxNameLength, "Name"); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative(p.Amount.Float64(), "Amount"); err != nil {
		return err
	}
	return validation.ValidateCurrency(p.Currency)
}

func (p *liabilityPayload) interestRate() *float64 {
	if p.InterestRate == nil {
		return nil
	}
	v := p.InterestRate.Float64()
	return &v
}

func (h *BalanceSheetHandler) ListLiabilitiesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	liabilities, err := models.ListLiabilities(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list liabilities", "error", err)
		sendJSONError(w, "Failed to list liabilities", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, liabilities)
}

func (h *BalanceSheetHandler) CreateLiabilityHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var payload liabilityPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	liability := &models.Liability{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         payload.Name,
		Type:         payload.Type,
		Amount:       payload.Amount.Float64(),
		Currency:     payload.Currency,
		InterestRate: payload.interestRate(),
	}
	if err := liability.Create(database.DB); err != nil {
		logger.FromContext(r.Context()).Error("Failed to create liability", "error", err)
		sendJSONError(w, "Failed to create liability", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusCreated, liability)
}

func (h *BalanceSheetHandler) UpdateLiabilityHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	liabilityID := chi.URLParam(r, "liabilityID")

	var payload liabilityPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	liability := &models.Liability{
		ID:           liabilityID,
		UserID:       userID,
		Name:         payload.Name,
		Type:         payload.Type,
		Amount:       payload.Amount.Float64(),
		Currency:     payload.Currency,
		InterestRate: payload.interestRate(),
	}
	if err := liability.Update(database.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Liability not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to update liability", "liabilityID", liabilityID, "error", err)
		sendJSONError(w, "Failed to update liability", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusOK, liability)
}

func (h *BalanceSheetHandler) DeleteLiabilityHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	liabilityID := chi.URLParam(r, "liabilityID")

	if err := models.DeleteLiability(database.DB, userID, liabilityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Liability not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to delete liability", "liabilityID", liabilityID, "error", err)
		sendJSONError(w, "Failed to delete liability", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}
