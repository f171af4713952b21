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

// SupplierService manages the supplier registry
type SupplierService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewSupplierService(st *store.Store, logger *zap.Logger) *SupplierService {
	return &SupplierService{store: st, logger: logger}
}

// List returns all suppliers
func (s *SupplierService) List(ctx context.Context) ([]domain.Supplier, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	return s.store.Snapshot().Suppliers, nil
}

// GetByID returns one supplier
func (s *SupplierService) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	supplier, ok := s.store.Snapshot().SupplierByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &supplier, nil
}

// Create adds a supplier
func (s *SupplierService) Create(ctx context.Context, req *domain.SupplierRequest) (*domain.Supplier, error) {
	userCtx, err := requireCapability(ctx, domain.CapManageSuppliers)
	if err != nil {
		return nil, err
	}

	snap := s.store.Snapshot()
	if _, exists := snap.SupplierByEmail(req.Email); exists {
		return nil, fmt.Errorf("%w: supplier email already in use", ErrConflict)
	}

	supplier := domain.Supplier{
		ID:            engine.NewID("sup"),
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
	}

	if _, err := s.store.Dispatch(engine.AddSupplier{Supplier: supplier}); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	s.logger.Info("supplier created",
		zap.String("supplier_id", supplier.ID),
		zap.String("created_by", userCtx.SubjectID))
	return &supplier, nil
}

// Update replaces a supplier
func (s *SupplierService) Update(ctx context.Context, id string, req *domain.SupplierRequest) (*domain.Supplier, error) {
	userCtx, err := requireCapability(ctx, domain.CapManageSuppliers)
	if err != nil {
		return nil, err
	}

	supplier := domain.Supplier{
		ID:            id,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
	}

	if _, err := s.store.Dispatch(engine.UpdateSupplier{Supplier: supplier}); err != nil {
		if errors.Is(err, engine.ErrSupplierNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	s.logger.Info("supplier updated",
		zap.String("supplier_id", id),
		zap.String("updated_by", userCtx.SubjectID))
	return &supplier, nil
}
