package handler

import (
	"net/http"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type QuotationHandler struct {
	quotationService *service.QuotationService
	orderService     *service.OrderService
	logger           *zap.Logger
}

func NewQuotationHandler(quotationService *service.QuotationService, orderService *service.OrderService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		orderService:     orderService,
		logger:           logger,
	}
}

// List returns all quotations
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	quotations, err := h.quotationService.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quotations)
}

// ListForPortal returns pending quotations for the authenticated supplier
func (h *QuotationHandler) ListForPortal(w http.ResponseWriter, r *http.Request) {
	quotations, err := h.quotationService.ListForPortal(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quotations)
}

// Get returns one quotation including its history
func (h *QuotationHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.quotationService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// Create opens a new quotation in draft
func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuotationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	q, err := h.quotationService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, q)
}

// Update edits a quotation that has not been closed
func (h *QuotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateQuotationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	q, err := h.quotationService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// Delete removes a quotation
func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.quotationService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Send moves a draft quotation to pending and notifies invited suppliers
func (h *QuotationHandler) Send(w http.ResponseWriter, r *http.Request) {
	q, err := h.quotationService.Send(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// SubmitPrices replaces one supplier's whole price map
func (h *QuotationHandler) SubmitPrices(w http.ResponseWriter, r *http.Request) {
	var req domain.SubmitPricesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	q, err := h.quotationService.SubmitPrices(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// SetPrice sets a single item price on a supplier's behalf
func (h *QuotationHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	var req domain.ManualPriceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	q, err := h.quotationService.SetPrice(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "supplierId"), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// BestPrices returns the lowest positive submitted price per item
func (h *QuotationHandler) BestPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.quotationService.BestPrices(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prices)
}

// CreateOrder converts a completed quotation into a purchase order
func (h *QuotationHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	po, err := h.orderService.CreateFromQuotation(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, po)
}
