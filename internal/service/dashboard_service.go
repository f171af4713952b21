package service

import (
	"context"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/store"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/views"
	"go.uber.org/zap"
)

// DashboardService exposes the derived read models. Everything is recomputed
// from the current snapshot on each call.
type DashboardService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewDashboardService(st *store.Store, logger *zap.Logger) *DashboardService {
	return &DashboardService{store: st, logger: logger}
}

// Metrics returns the dashboard headline numbers
func (s *DashboardService) Metrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	metrics := views.Metrics(s.store.Snapshot())
	return &metrics, nil
}

// CashFlow returns the outflow ledger, newest order first
func (s *DashboardService) CashFlow(ctx context.Context) ([]domain.CashFlowEntry, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	return views.CashFlow(s.store.Snapshot()), nil
}
