// backend/src/handlers/catalog_handler.go
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
)

// CatalogHandler serves the small lookup collections: transaction categories
// and income sources.
type CatalogHandler struct {
	financeService services.FinanceService
}

func NewCatalogHandler(financeService services.FinanceService) *CatalogHandler {
	return &CatalogHandler{financeService: financeService}
}

type categoryPayload struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (p *categoryPayload) sanitizeAndValidate() error {
	p.Name = validation.SanitizeText(strings.TrimSpace(p.Name))
	if err := validation.ValidateStringNotEmpty(p.Name, "Name"); err != nil {
		return err
	}
	if err := validation.ValidateStringMaxLength(p.Name, validation.MaxNameLength, "Name"); err != nil {
		return err
	}
	return validation.ValidateTransactionType(p.Type)
}

func (h *CatalogHandler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	categories, err := models.ListCategories(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list categories", "error", err)
		sendJSONError(w, "Failed to list categories", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	category := &models.Category{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   payload.Name,
		Type:   payload.Type,
	}
	if err := category.Create(database.DB); err != nil {
		logger.FromContext(r.Context()).Error("Failed to create category", "error", err)
		sendJSONError(w, "Failed to create category", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	categoryID := chi.URLParam(r, "categoryID")

	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	category := &models.Category{ID: categoryID, UserID: userID, Name: payload.Name, Type: payload.Type}
	if err := category.Update(database.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Category not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to update category", "categoryID", categoryID, "error", err)
		sendJSONError(w, "Failed to update category", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	categoryID := chi.URLParam(r, "categoryID")

	if err := models.DeleteCategory(database.DB, userID, categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Category not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to delete category", "categoryID", categoryID, "error", err)
		sendJSONError(w, "Failed to delete category", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}

type incomeSourcePayload struct {
	Name string `json:"name"`
}

func (p *incomeSourcePayload) sanitizeAndValidate() error {
	p.Name = validation.SanitizeText(strings.TrimSpace(p.Name))
	if err := validation.ValidateStringNotEmpty(p.Name, "Name"); err != nil {
		return err
	}
	return validation.ValidateStringMaxLength(p.Name, validation.MaxNameLength, "Name")
}

func (h *CatalogHandler) ListIncomeSourcesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	sources, err := models.ListIncomeSources(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list income sources", "error", err)
		sendJSONError(w, "Failed to list income sources", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sources)
}

func (h *CatalogHandler) CreateIncomeSourceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var payload incomeSourcePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	source := &models.IncomeSource{ID: uuid.New().String(), UserID: userID, Name: payload.Name}
	if err := source.Create(database.DB); err != nil {
		logger.FromContext(r.Context()).Error("Failed to create income source", "error", err)
		sendJSONError(w, "Failed to create income source", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusCreated, source)
}

func (h *CatalogHandler) UpdateIncomeSourceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	sourceID := chi.URLParam(r, "sourceID")

	var payload incomeSourcePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := payload.sanitizeAndValidate(); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	source := &models.IncomeSource{ID: sourceID, UserID: userID, Name: payload.Name}
	if err := source.Update(database.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Income source not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to update income source", "sourceID", sourceID, "error", err)
		sendJSONError(w, "Failed to update income source", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	writeJSON(w, http.StatusOK, source)
}

func (h *CatalogHandler) DeleteIncomeSourceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	sourceID := chi.URLParam(r, "sourceID")

	if err := models.DeleteIncomeSource(database.DB, userID, sourceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sendJSONError(w, "Income source not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to delete income source", "sourceID", sourceID, "error", err)
		sendJSONError(w, "Failed to delete income source", http.StatusInternalServerError)
		return
	}

	h.financeService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}
