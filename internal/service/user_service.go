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

// UserService manages staff users
type UserService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewUserService(st *store.Store, logger *zap.Logger) *UserService {
	return &UserService{store: st, logger: logger}
}

// List returns all staff users
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	return s.store.Snapshot().Users, nil
}

// GetByID returns one staff user
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := requireStaff(ctx); err != nil {
		return nil, err
	}
	user, ok := s.store.Snapshot().UserByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// Create adds a staff user
func (s *UserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	userCtx, err := requireCapability(ctx, domain.CapManageUsers)
	if err != nil {
		return nil, err
	}

	snap := s.store.Snapshot()
	if _, exists := snap.UserByEmail(req.Email); exists {
		return nil, fmt.Errorf("%w: email already in use", ErrConflict)
	}

	user := domain.User{
		ID:           engine.NewID("user"),
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		RoleID:       req.RoleID,
		SectorID:     req.SectorID,
		Capabilities: req.Capabilities.Clone(),
	}

	if _, err := s.store.Dispatch(engine.AddUser{User: user}); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID),
		zap.String("created_by", userCtx.SubjectID))
	return &user, nil
}

// Update replaces a staff user. An empty password keeps the current one.
func (s *UserService) Update(ctx context.Context, id string, req *domain.UpdateUserRequest) (*domain.User, error) {
	userCtx, err := requireCapability(ctx, domain.CapManageUsers)
	if err != nil {
		return nil, err
	}

	snap := s.store.Snapshot()
	existing, ok := snap.UserByID(id)
	if !ok {
		return nil, ErrNotFound
	}

	password := req.Password
	if password == "" {
		password = existing.Password
	}

	user := domain.User{
		ID:           id,
		Name:         req.Name,
		Email:        req.Email,
		Password:     password,
		RoleID:       req.RoleID,
		SectorID:     req.SectorID,
		Capabilities: req.Capabilities.Clone(),
	}

	if _, err := s.store.Dispatch(engine.UpdateUser{User: user}); err != nil {
		if errors.Is(err, engine.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user updated",
		zap.String("user_id", id),
		zap.String("updated_by", userCtx.SubjectID))
	return &user, nil
}
