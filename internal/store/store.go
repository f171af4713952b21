// Package store owns the single mutable snapshot. All writes pass through
// Dispatch, which serializes command application so no command ever observes
// a partially updated snapshot; readers receive deep copies.
package store

import (
	"sync"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/engine"
	"go.uber.org/zap"
)

// Store is the single-owner state container
type Store struct {
	mu     sync.Mutex
	engine *engine.Engine
	snap   domain.Snapshot
	logger *zap.Logger
}

// New creates a store seeded with the given initial snapshot
func New(eng *engine.Engine, initial domain.Snapshot, logger *zap.Logger) *Store {
	return &Store{
		engine: eng,
		snap:   initial.Clone(),
		logger: logger,
	}
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Dispatch applies one command atomically and returns a copy of the
// resulting snapshot. On refusal the held snapshot is left unchanged and the
// engine's typed error is returned.
func (s *Store) Dispatch(cmd engine.Command) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.engine.Apply(s.snap, cmd)
	if err != nil {
		s.logger.Debug("command refused",
			zap.String("command", commandName(cmd)),
			zap.Error(err),
		)
		return s.snap.Clone(), err
	}

	s.snap = next
	s.logger.Debug("command applied", zap.String("command", commandName(cmd)))
	return next.Clone(), nil
}

func commandName(cmd engine.Command) string {
	switch cmd.(type) {
	case engine.SetCurrentUser:
		return "SetCurrentUser"
	case engine.AddUser:
		return "AddUser"
	case engine.UpdateUser:
		return "UpdateUser"
	case engine.AddSupplier:
		return "AddSupplier"
	case engine.UpdateSupplier:
		return "UpdateSupplier"
	case engine.AddSector:
		return "AddSector"
	case engine.UpdateSector:
		return "UpdateSector"
	case engine.DeleteSector:
		return "DeleteSector"
	case engine.AddRole:
		return "AddRole"
	case engine.UpdateRole:
		return "UpdateRole"
	case engine.DeleteRole:
		return "DeleteRole"
	case engine.UpdateSettings:
		return "UpdateSettings"
	case engine.CreateQuotation:
		return "CreateQuotation"
	case engine.UpdateQuotation:
		return "UpdateQuotation"
	case engine.DeleteQuotation:
		return "DeleteQuotation"
	case engine.AdvanceQuotationStatus:
		return "AdvanceQuotationStatus"
	case engine.SubmitSupplierPrices:
		return "SubmitSupplierPrices"
	case engine.SetSupplierPrice:
		return "SetSupplierPrice"
	case engine.CreatePurchaseOrder:
		return "CreatePurchaseOrder"
	case engine.UpdatePurchaseOrderStatus:
		return "UpdatePurchaseOrderStatus"
	case engine.RecordDelivery:
		return "RecordDelivery"
	case engine.RecordEvaluation:
		return "RecordEvaluation"
	default:
		return "unknown"
	}
}
