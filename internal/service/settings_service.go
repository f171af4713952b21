package service

import (
	"context"
	"fmt"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/engine"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/store"
	"go.uber.org/zap"
)

// SettingsService manages the company notification identity
type SettingsService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewSettingsService(st *store.Store, logger *zap.Logger) *SettingsService {
	return &SettingsService{store: st, logger: logger}
}

// Get returns the current settings
func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	settings := s.store.Snapshot().Settings
	return &settings, nil
}

// Update replaces the settings. Any staff user may edit them; there is no
// dedicated capability for settings.
func (s *SettingsService) Update(ctx context.Context, req *domain.SettingsRequest) (*domain.Settings, error) {
	userCtx, err := requireStaff(ctx)
	if err != nil {
		return nil, err
	}

	settings := domain.Settings{
		CompanyName:  req.CompanyName,
		CompanyEmail: req.CompanyEmail,
	}
	if _, err := s.store.Dispatch(engine.UpdateSettings{Settings: settings}); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.logger.Info("settings updated", zap.String("updated_by", userCtx.SubjectID))
	return &settings, nil
}
