package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/auth"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/config"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/engine"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/service"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSeededStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(engine.New(), store.Seed(time.Now()), zap.NewNop())
}

func newTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(
		&config.AuthConfig{JWTSecret: "test-secret", TokenTTL: 60, PortalTokenTTL: 30},
		&config.AppConfig{Name: "Procurement API Test"},
	)
}

func TestLogin(t *testing.T) {
	st := newSeededStore(t)
	svc := service.NewAuthService(st, newTokenManager(), zap.NewNop())

	t.Run("valid credentials issue a token and set the current user", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &domain.LoginRequest{
			Email: "alice@clinic.com", Password: "123",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "user-1", resp.User.ID)

		snap := st.Snapshot()
		require.NotNil(t, snap.CurrentUser)
		assert.Equal(t, "user-1", snap.CurrentUser.ID)
	})

	t.Run("wrong password is refused", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &domain.LoginRequest{
			Email: "alice@clinic.com", Password: "wrong",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email is refused", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &domain.LoginRequest{
			Email: "nobody@clinic.com", Password: "123",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("logout clears the current user", func(t *testing.T) {
		require.NoError(t, svc.Logout(context.Background()))
		assert.Nil(t, st.Snapshot().CurrentUser)
	})
}

func TestPortalLogin(t *testing.T) {
	st := newSeededStore(t)
	tokens := newTokenManager()
	svc := service.NewAuthService(st, tokens, zap.NewNop())

	t.Run("known supplier email gets a portal token", func(t *testing.T) {
		resp, err := svc.PortalLogin(context.Background(), &domain.PortalLoginRequest{
			Email: "john.silva@medsupplies.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "sup-1", resp.Supplier.ID)

		claims, err := tokens.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, auth.KindSupplier, claims.Kind)
		assert.Equal(t, "sup-1", claims.Subject)
	})

	t.Run("unknown email is refused", func(t *testing.T) {
		_, err := svc.PortalLogin(context.Background(), &domain.PortalLoginRequest{
			Email: "nobody@vendor.com",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}
