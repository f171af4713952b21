package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/auth"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/engine"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/store"
	"go.uber.org/zap"
)

// AuthService handles staff login and the supplier self-service portal login
type AuthService struct {
	store  *store.Store
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewAuthService(st *store.Store, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:  st,
		tokens: tokens,
		logger: logger,
	}
}

// Login authenticates a staff user by email and password and issues a bearer
// token. The matched user becomes the snapshot's current user.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	snap := s.store.Snapshot()

	user, ok := snap.UserByEmail(req.Email)
	if !ok {
		s.logger.Warn("login failed: unknown email", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	// Constant-time comparison; credentials are plaintext in this design
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(req.Password)) != 1 {
		s.logger.Warn("login failed: wrong password", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueStaff(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	u := user.Clone()
	if _, err := s.store.Dispatch(engine.SetCurrentUser{User: &u}); err != nil {
		return nil, fmt.Errorf("failed to set current user: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))

	return &domain.LoginResponse{Token: token, User: user}, nil
}

// Logout clears the snapshot's current user. The bearer token stays valid
// until expiry; logout is a state change, not a revocation.
func (s *AuthService) Logout(ctx context.Context) error {
	if _, err := s.store.Dispatch(engine.SetCurrentUser{User: nil}); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	return nil
}

// Me returns the staff user behind the authenticated session
func (s *AuthService) Me(ctx context.Context) (*domain.User, error) {
	userCtx, err := requireStaff(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := s.store.Snapshot().UserByID(userCtx.SubjectID)
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// PortalLogin identifies a supplier by contact email and issues a portal
// token limited to price submission
func (s *AuthService) PortalLogin(ctx context.Context, req *domain.PortalLoginRequest) (*domain.PortalLoginResponse, error) {
	snap := s.store.Snapshot()

	supplier, ok := snap.SupplierByEmail(req.Email)
	if !ok {
		s.logger.Warn("portal login failed: unknown email", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssuePortal(supplier)
	if err != nil {
		return nil, fmt.Errorf("failed to issue portal token: %w", err)
	}

	s.logger.Info("supplier logged in to portal",
		zap.String("supplier_id", supplier.ID),
		zap.String("email", supplier.Email))

	return &domain.PortalLoginResponse{Token: token, Supplier: supplier}, nil
}
