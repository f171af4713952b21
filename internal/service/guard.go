package service

import (
	"context"
	"fmt"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/auth"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
)

// requireStaff extracts the authenticated staff user from the context.
// Supplier portal sessions are rejected.
func requireStaff(ctx context.Context) (*auth.UserContext, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return userCtx, nil
}

// requireCapability extracts the staff user and checks one capability. The
// route middleware performs the same check; services re-check so a service
// call can never bypass authorization.
func requireCapability(ctx context.Context, cap domain.Capability) (*auth.UserContext, error) {
	userCtx, err := requireStaff(ctx)
	if err != nil {
		return nil, err
	}
	if !userCtx.HasCapability(cap) {
		return nil, fmt.Errorf("%w: missing capability %s", ErrPermissionDenied, cap)
	}
	return userCtx, nil
}
