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

// DirectoryService manages the sector and role reference data
type DirectoryService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewDirectoryService(st *store.Store, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{store: st, logger: logger}
}

// ListSectors returns all sectors
func (s *DirectoryService) ListSectors(ctx context.Context) ([]domain.Sector, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	return s.store.Snapshot().Sectors, nil
}

// CreateSector adds a sector
func (s *DirectoryService) CreateSector(ctx context.Context, req *domain.NameRequest) (*domain.Sector, error) {
	if _, err := requireCapability(ctx, domain.CapManageSectors); err != nil {
		return nil, err
	}

	sector := domain.Sector{ID: engine.NewID("sec"), Name: req.Name}
	if _, err := s.store.Dispatch(engine.AddSector{Sector: sector}); err != nil {
		return nil, fmt.Errorf("failed to create sector: %w", err)
	}

	s.logger.Info("sector created", zap.String("sector_id", sector.ID))
	return &sector, nil
}

// UpdateSector renames a sector
func (s *DirectoryService) UpdateSector(ctx context.Context, id string, req *domain.NameRequest) (*domain.Sector, error) {
	if _, err := requireCapability(ctx, domain.CapManageSectors); err != nil {
		return nil, err
	}

	sector := domain.Sector{ID: id, Name: req.Name}
	if _, err := s.store.Dispatch(engine.UpdateSector{Sector: sector}); err != nil {
		if errors.Is(err, engine.ErrSectorNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update sector: %w", err)
	}
	return &sector, nil
}

// DeleteSector removes a sector. Users and quotations keep their sector id;
// dangling references render as unknown on the reading side and are counted
// in the log line so operators can see the gap.
func (s *DirectoryService) DeleteSector(ctx context.Context, id string) error {
	if _, err := requireCapability(ctx, domain.CapManageSectors); err != nil {
		return err
	}

	snap := s.store.Snapshot()
	danglingUsers := 0
	for _, u := range snap.Users {
		if u.SectorID == id {
			danglingUsers++
		}
	}

	if _, err := s.store.Dispatch(engine.DeleteSector{ID: id}); err != nil {
		if errors.Is(err, engine.ErrSectorNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete sector: %w", err)
	}

	s.logger.Info("sector deleted",
		zap.String("sector_id", id),
		zap.Int("dangling_user_refs", danglingUsers))
	return nil
}

// ListRoles returns all roles
func (s *DirectoryService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	return s.store.Snapshot().Roles, nil
}

// CreateRole adds a role
func (s *DirectoryService) CreateRole(ctx context.Context, req *domain.NameRequest) (*domain.Role, error) {
	if _, err := requireCapability(ctx, domain.CapManageRoles); err != nil {
		return nil, err
	}

	role := domain.Role{ID: engine.NewID("role"), Name: req.Name}
	if _, err := s.store.Dispatch(engine.AddRole{Role: role}); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	s.logger.Info("role created", zap.String("role_id", role.ID))
	return &role, nil
}

// UpdateRole renames a role
func (s *DirectoryService) UpdateRole(ctx context.Context, id string, req *domain.NameRequest) (*domain.Role, error) {
	if _, err := requireCapability(ctx, domain.CapManageRoles); err != nil {
		return nil, err
	}

	role := domain.Role{ID: id, Name: req.Name}
	if _, err := s.store.Dispatch(engine.UpdateRole{Role: role}); err != nil {
		if errors.Is(err, engine.ErrRoleNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return &role, nil
}

// DeleteRole removes a role without touching users that reference it; the
// count of users left pointing at the deleted role is logged
func (s *DirectoryService) DeleteRole(ctx context.Context, id string) error {
	if _, err := requireCapability(ctx, domain.CapManageRoles); err != nil {
		return err
	}

	snap := s.store.Snapshot()
	danglingUsers := 0
	for _, u := range snap.Users {
		if u.RoleID == id {
			danglingUsers++
		}
	}

	if _, err := s.store.Dispatch(engine.DeleteRole{ID: id}); err != nil {
		if errors.Is(err, engine.ErrRoleNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.logger.Info("role deleted",
		zap.String("role_id", id),
		zap.Int("dangling_user_refs", danglingUsers))
	return nil
}
