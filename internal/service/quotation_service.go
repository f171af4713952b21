package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/auth"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/engine"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/notify"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/store"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/views"
	"go.uber.org/zap"
)

// QuotationService manages the quotation workflow from draft to closure
type QuotationService struct {
	store  *store.Store
	mailer notify.Mailer
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewQuotationService(st *store.Store, mailer notify.Mailer, tokens *auth.TokenManager, logger *zap.Logger) *QuotationService {
	return &QuotationService{
		store:  st,
		mailer: mailer,
		tokens: tokens,
		logger: logger,
	}
}

// List returns all quotations
func (s *QuotationService) List(ctx context.Context) ([]domain.Quotation, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	return s.store.Snapshot().Quotations, nil
}

// ListForPortal returns the pending quotations the authenticated supplier is
// invited to and has not yet answered
func (s *QuotationService) ListForPortal(ctx context.Context) ([]domain.Quotation, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.IsSupplier() {
		return nil, ErrPermissionDenied
	}

	snap := s.store.Snapshot()
	out := []domain.Quotation{}
	for _, q := range snap.Quotations {
		if q.Status != domain.QuotationStatusPending {
			continue
		}
		if quote, invited := q.Quote(userCtx.SubjectID); invited && !quote.Submitted {
			out = append(out, q)
		}
	}
	return out, nil
}

// GetByID returns one quotation including its history
func (s *QuotationService) GetByID(ctx context.Context, id string) (*domain.Quotation, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	q, ok := s.store.Snapshot().QuotationByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &q, nil
}

// Create opens a new quotation in draft
func (s *QuotationService) Create(ctx context.Context, req *domain.CreateQuotationRequest) (*domain.Quotation, error) {
	userCtx, err := requireCapability(ctx, domain.CapCreateQuotations)
	if err != nil {
		return nil, err
	}

	snap := s.store.Snapshot()
	if err := s.checkReferences(snap, req.SectorID, req.SupplierIDs); err != nil {
		return nil, err
	}

	id := engine.NewID("qt")
	next, err := s.store.Dispatch(engine.CreateQuotation{
		ID:          id,
		Title:       req.Title,
		CreatedBy:   userCtx.SubjectID,
		SectorID:    req.SectorID,
		Items:       toItems(req.Items),
		SupplierIDs: req.SupplierIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.logger.Info("quotation created",
		zap.String("quotation_id", id),
		zap.String("created_by", userCtx.SubjectID))

	q, _ := next.QuotationByID(id)
	return &q, nil
}

// Update edits a quotation that has not been closed yet
func (s *QuotationService) Update(ctx context.Context, id string, req *domain.UpdateQuotationRequest) (*domain.Quotation, error) {
	userCtx, err := requireCapability(ctx, domain.CapEditQuotations)
	if err != nil {
		return nil, err
	}

	snap := s.store.Snapshot()
	existing, ok := snap.QuotationByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	if existing.Status == domain.QuotationStatusClosed {
		return nil, fmt.Errorf("%w: closed quotations cannot be edited", ErrConflict)
	}
	if err := s.checkReferences(snap, req.SectorID, req.SupplierIDs); err != nil {
		return nil, err
	}

	next, err := s.store.Dispatch(engine.UpdateQuotation{
		ID:          id,
		Title:       req.Title,
		SectorID:    req.SectorID,
		Items:       toItems(req.Items),
		SupplierIDs: req.SupplierIDs,
		ActorID:     userCtx.SubjectID,
	})
	if err != nil {
		if errors.Is(err, engine.ErrQuotationNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}

	q, _ := next.QuotationByID(id)
	return &q, nil
}

// Delete removes a quotation unless a purchase order references it
func (s *QuotationService) Delete(ctx context.Context, id string) error {
	userCtx, err := requireCapability(ctx, domain.CapDeleteQuotations)
	if err != nil {
		return err
	}

	if _, err := s.store.Dispatch(engine.DeleteQuotation{ID: id}); err != nil {
		switch {
		case errors.Is(err, engine.ErrQuotationNotFound):
			return ErrNotFound
		case errors.Is(err, engine.ErrQuotationReferenced):
			return fmt.Errorf("%w: a purchase order references this quotation", ErrConflict)
		}
		return fmt.Errorf("failed to delete quotation: %w", err)
	}

	s.logger.Info("quotation deleted",
		zap.String("quotation_id", id),
		zap.String("deleted_by", userCtx.SubjectID))
	return nil
}

// Send moves a draft quotation to pending and mails every invited supplier an
// invitation carrying their portal token
func (s *QuotationService) Send(ctx context.Context, id string) (*domain.Quotation, error) {
	userCtx, err := requireCapability(ctx, domain.CapEditQuotations)
	if err != nil {
		return nil, err
	}

	snap := s.store.Snapshot()
	existing, ok := snap.QuotationByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	if existing.Status != domain.QuotationStatusDraft {
		return nil, ErrNotSendable
	}

	next, err := s.store.Dispatch(engine.AdvanceQuotationStatus{
		ID:      id,
		Status:  domain.QuotationStatusPending,
		ActorID: userCtx.SubjectID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send quotation: %w", err)
	}

	q, _ := next.QuotationByID(id)
	s.inviteSuppliers(next, q)

	s.logger.Info("quotation sent",
		zap.String("quotation_id", id),
		zap.Int("suppliers_invited", len(q.Suppliers)))
	return &q, nil
}

// SubmitPrices replaces one supplier's whole price map. Supplier portal
// sessions may only submit for themselves; staff sessions submit manually on a
// supplier's behalf and must name the supplier.
func (s *QuotationService) SubmitPrices(ctx context.Context, quotationID string, req *domain.SubmitPricesRequest) (*domain.Quotation, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	var cmd engine.SubmitSupplierPrices
	switch {
	case userCtx.IsSupplier():
		if req.SupplierID != "" && req.SupplierID != userCtx.SubjectID {
			return nil, ErrSupplierMismatch
		}
		cmd = engine.SubmitSupplierPrices{
			QuotationID: quotationID,
			SupplierID:  userCtx.SubjectID,
			Prices:      req.Prices,
			Via:         domain.SubmissionPortal,
			ActorID:     userCtx.SubjectID,
		}
	default:
		if _, err := requireCapability(ctx, domain.CapEditQuotations); err != nil {
			return nil, err
		}
		if req.SupplierID == "" {
			return nil, fmt.Errorf("%w: supplierId is required for manual submission", ErrInvalidInput)
		}
		cmd = engine.SubmitSupplierPrices{
			QuotationID: quotationID,
			SupplierID:  req.SupplierID,
			Prices:      req.Prices,
			Via:         domain.SubmissionManual,
			ActorID:     userCtx.SubjectID,
		}
	}

	next, err := s.store.Dispatch(cmd)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrQuotationNotFound):
			return nil, ErrNotFound
		case errors.Is(err, engine.ErrSupplierNotInvited):
			return nil, fmt.Errorf("%w: supplier is not invited to this quotation", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to submit prices: %w", err)
	}

	s.logger.Info("prices submitted",
		zap.String("quotation_id", quotationID),
		zap.String("supplier_id", cmd.SupplierID),
		zap.String("via", string(cmd.Via)))

	q, _ := next.QuotationByID(quotationID)
	return &q, nil
}

// SetPrice sets a single item price on a supplier's behalf
func (s *QuotationService) SetPrice(ctx context.Context, quotationID, supplierID string, req *domain.ManualPriceRequest) (*domain.Quotation, error) {
	userCtx, err := requireCapability(ctx, domain.CapEditQuotations)
	if err != nil {
		return nil, err
	}

	next, err := s.store.Dispatch(engine.SetSupplierPrice{
		QuotationID: quotationID,
		SupplierID:  supplierID,
		ItemName:    req.ItemName,
		Price:       req.Price,
		ActorID:     userCtx.SubjectID,
	})
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrQuotationNotFound):
			return nil, ErrNotFound
		case errors.Is(err, engine.ErrSupplierNotInvited):
			return nil, fmt.Errorf("%w: supplier is not invited to this quotation", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to set price: %w", err)
	}

	q, _ := next.QuotationByID(quotationID)
	return &q, nil
}

// BestPrices returns the lowest positive submitted price per item
func (s *QuotationService) BestPrices(ctx context.Context, quotationID string) ([]domain.BestPrice, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}

	snap := s.store.Snapshot()
	q, ok := snap.QuotationByID(quotationID)
	if !ok {
		return nil, ErrNotFound
	}
	return views.BestPrices(snap, q), nil
}

func (s *QuotationService) inviteSuppliers(snap domain.Snapshot, q domain.Quotation) {
	for _, sq := range q.Suppliers {
		supplier, ok := snap.SupplierByID(sq.SupplierID)
		if !ok {
			s.logger.Warn("skipping invite for unknown supplier",
				zap.String("quotation_id", q.ID),
				zap.String("supplier_id", sq.SupplierID))
			continue
		}
		token, err := s.tokens.IssuePortal(supplier)
		if err != nil {
			s.logger.Error("failed to issue portal token",
				zap.String("supplier_id", supplier.ID),
				zap.Error(err))
			continue
		}
		s.mailer.SendQuotationInvite(snap.Settings, supplier, q, token)
	}
}

func (s *QuotationService) checkReferences(snap domain.Snapshot, sectorID string, supplierIDs []string) error {
	if _, ok := snap.SectorByID(sectorID); !ok {
		return fmt.Errorf("%w: unknown sector %s", ErrInvalidInput, sectorID)
	}
	for _, supplierID := range supplierIDs {
		if _, ok := snap.SupplierByID(supplierID); !ok {
			return fmt.Errorf("%w: unknown supplier %s", ErrInvalidInput, supplierID)
		}
	}
	return nil
}

func toItems(reqs []domain.QuotationItemRequest) []domain.QuotationItem {
	items := make([]domain.QuotationItem, len(reqs))
	for i, r := range reqs {
		items[i] = domain.QuotationItem{Name: r.Name, Quantity: r.Quantity}
	}
	return items
}
