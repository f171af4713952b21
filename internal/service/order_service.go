package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/engine"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/store"
	"go.uber.org/zap"
)

// OrderService manages the purchase order lifecycle
type OrderService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewOrderService(st *store.Store, logger *zap.Logger) *OrderService {
	return &OrderService{store: st, logger: logger}
}

// List returns all purchase orders
func (s *OrderService) List(ctx context.Context) ([]domain.PurchaseOrder, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	return s.store.Snapshot().PurchaseOrders, nil
}

// GetByID returns one purchase order
func (s *OrderService) GetByID(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	po, ok := s.store.Snapshot().OrderByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &po, nil
}

// CreateFromQuotation converts a completed quotation into a purchase order
// for one of its invited suppliers. The quotation is closed in the same step.
func (s *OrderService) CreateFromQuotation(ctx context.Context, quotationID string, req *domain.CreateOrderRequest) (*domain.PurchaseOrder, error) {
	userCtx, err := requireCapability(ctx, domain.CapCreateOrders)
	if err != nil {
		return nil, err
	}

	// The completed-status precondition is checked by the engine under the
	// store's dispatch lock; conversion is single-shot under concurrency.
	id := engine.NewID("po")
	next, err := s.store.Dispatch(engine.CreatePurchaseOrder{
		ID:          id,
		QuotationID: quotationID,
		SupplierID:  req.SupplierID,
		ActorID:     userCtx.SubjectID,
	})
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrQuotationNotFound):
			return nil, ErrNotFound
		case errors.Is(err, engine.ErrQuotationNotCompleted):
			return nil, ErrNotCompleted
		case errors.Is(err, engine.ErrSupplierNotInvited):
			return nil, fmt.Errorf("%w: supplier is not invited to this quotation", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("purchase order created",
		zap.String("order_id", id),
		zap.String("quotation_id", quotationID),
		zap.String("supplier_id", req.SupplierID),
		zap.String("created_by", userCtx.SubjectID))

	po, _ := next.OrderByID(id)
	return &po, nil
}

// Approve moves a pending order to approved
func (s *OrderService) Approve(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	userCtx, err := requireCapability(ctx, domain.CapApproveOrders)
	if err != nil {
		return nil, err
	}

	snap := s.store.Snapshot()
	po, ok := snap.OrderByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	if po.Status != domain.OrderStatusPendingApproval {
		return nil, ErrOrderNotPending
	}

	next, err := s.store.Dispatch(engine.UpdatePurchaseOrderStatus{
		ID:     id,
		Status: domain.OrderStatusApproved,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to approve order: %w", err)
	}

	s.logger.Info("purchase order approved",
		zap.String("order_id", id),
		zap.String("approved_by", userCtx.SubjectID))

	approved, _ := next.OrderByID(id)
	return &approved, nil
}

// Cancel cancels an order that has not reached a terminal state
func (s *OrderService) Cancel(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	userCtx, err := requireCapability(ctx, domain.CapCancelOrders)
	if err != nil {
		return nil, err
	}

	snap := s.store.Snapshot()
	po, ok := snap.OrderByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	if po.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: order is already %s", ErrConflict, po.Status)
	}

	next, err := s.store.Dispatch(engine.UpdatePurchaseOrderStatus{
		ID:     id,
		Status: domain.OrderStatusCanceled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	s.logger.Info("purchase order canceled",
		zap.String("order_id", id),
		zap.String("canceled_by", userCtx.SubjectID))

	canceled, _ := next.OrderByID(id)
	return &canceled, nil
}

// RecordDelivery records the delivery outcome of an approved order. A
// confirmed delivery moves the order to delivered; a refused one to rejected.
func (s *OrderService) RecordDelivery(ctx context.Context, id string, req *domain.DeliveryRequest) (*domain.PurchaseOrder, error) {
	userCtx, err := requireCapability(ctx, domain.CapConfirmDelivery)
	if err != nil {
		return nil, err
	}

	snap := s.store.Snapshot()
	po, ok := snap.OrderByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	if po.Status != domain.OrderStatusApproved {
		return nil, ErrOrderNotApproved
	}

	next, err := s.store.Dispatch(engine.RecordDelivery{
		OrderID:     id,
		Confirmed:   *req.Confirmed,
		Observation: req.Observation,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record delivery: %w", err)
	}

	s.logger.Info("delivery recorded",
		zap.String("order_id", id),
		zap.Bool("confirmed", *req.Confirmed),
		zap.String("recorded_by", userCtx.SubjectID))

	delivered, _ := next.OrderByID(id)
	return &delivered, nil
}

// RecordEvaluation stores a supplier rating on the order, overwriting any
// previous one
func (s *OrderService) RecordEvaluation(ctx context.Context, id string, req *domain.EvaluationRequest) (*domain.PurchaseOrder, error) {
	userCtx, err := requireCapability(ctx, domain.CapEvaluateSupplier)
	if err != nil {
		return nil, err
	}

	next, err := s.store.Dispatch(engine.RecordEvaluation{
		OrderID: id,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrOrderNotFound):
			return nil, ErrNotFound
		case errors.Is(err, engine.ErrInvalidRating):
			return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to record evaluation: %w", err)
	}

	s.logger.Info("evaluation recorded",
		zap.String("order_id", id),
		zap.Int("rating", req.Rating),
		zap.String("recorded_by", userCtx.SubjectID))

	po, _ := next.OrderByID(id)
	return &po, nil
}
