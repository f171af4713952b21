package handler

import (
	"net/http"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SupplierHandler struct {
	supplierService *service.SupplierService
	logger          *zap.Logger
}

func NewSupplierHandler(supplierService *service.SupplierService, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService, logger: logger}
}

// List returns all suppliers
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.supplierService.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

// Get returns one supplier
func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.supplierService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

// Create adds a supplier
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.SupplierRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	supplier, err := h.supplierService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, supplier)
}

// Update replaces a supplier
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.SupplierRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	supplier, err := h.supplierService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}
