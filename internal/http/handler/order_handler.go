package handler

import (
	"net/http"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, logger: logger}
}

// List returns all purchase orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// Get returns one purchase order
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	po, err := h.orderService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, po)
}

// Approve moves a pending order to approved
func (h *OrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	po, err := h.orderService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, po)
}

// Cancel cancels a non-terminal order
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	po, err := h.orderService.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, po)
}

// RecordDelivery records the delivery outcome of an approved order
func (h *OrderHandler) RecordDelivery(w http.ResponseWriter, r *http.Request) {
	var req domain.DeliveryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	po, err := h.orderService.RecordDelivery(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, po)
}

// RecordEvaluation stores a supplier rating on the order
func (h *OrderHandler) RecordEvaluation(w http.ResponseWriter, r *http.Request) {
	var req domain.EvaluationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	po, err := h.orderService.RecordEvaluation(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, po)
}
