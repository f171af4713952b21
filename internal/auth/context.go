package auth

import (
	"context"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
)

// UserContext holds the authenticated subject for the current request. For
// staff tokens Capabilities is resolved from the user record at request time,
// so edits to a user's role take effect without re-login.
type UserContext struct {
	SubjectID    string
	Kind         SubjectKind
	DisplayName  string
	Email        string
	Capabilities domain.CapabilitySet
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// IsStaff reports whether the subject is an internal user
func (u *UserContext) IsStaff() bool {
	return u.Kind == KindStaff
}

// IsSupplier reports whether the subject is a supplier portal session
func (u *UserContext) IsSupplier() bool {
	return u.Kind == KindSupplier
}

// HasCapability checks whether the subject holds a capability. Supplier
// sessions never hold staff capabilities.
func (u *UserContext) HasCapability(cap domain.Capability) bool {
	if !u.IsStaff() {
		return false
	}
	return u.Capabilities.Has(cap)
}

// CapabilitiesAsStrings returns the capability set as strings for logging
func (u *UserContext) CapabilitiesAsStrings() []string {
	result := make([]string, len(u.Capabilities))
	for i, c := range u.Capabilities {
		result[i] = string(c)
	}
	return result
}
