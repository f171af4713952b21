package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/store"
	"go.uber.org/zap"
)

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenManager
	store  *store.Store
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenManager, st *store.Store, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		store:  st,
		logger: logger,
	}
}

// Authenticate is the main authentication middleware. It resolves the token
// subject against the current snapshot so deleted users and suppliers lose
// access immediately even with a live token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		userCtx, ok := m.resolveSubject(claims)
		if !ok {
			m.logger.Warn("token subject no longer exists",
				zap.String("path", r.URL.Path),
				zap.String("subject_id", claims.Subject),
				zap.String("kind", string(claims.Kind)),
			)
			http.Error(w, "Unauthorized: unknown subject", http.StatusUnauthorized)
			return
		}

		m.logger.Info("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("auth_type", string(userCtx.Kind)),
			zap.String("subject_id", userCtx.SubjectID),
			zap.String("subject_email", userCtx.Email),
			zap.Duration("auth_duration", time.Since(start)),
		)

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff middleware ensures the subject is an internal user, not a
// supplier portal session
func (m *Middleware) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			http.Error(w, "Forbidden: no user context", http.StatusForbidden)
			return
		}
		if !userCtx.IsStaff() {
			http.Error(w, "Forbidden: staff access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCapability middleware ensures the subject holds a capability
func (m *Middleware) RequireCapability(cap domain.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok {
				http.Error(w, "Forbidden: no user context", http.StatusForbidden)
				return
			}
			if !userCtx.HasCapability(cap) {
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) resolveSubject(claims *Claims) (*UserContext, bool) {
	snap := m.store.Snapshot()

	switch claims.Kind {
	case KindStaff:
		user, ok := snap.UserByID(claims.Subject)
		if !ok {
			return nil, false
		}
		return &UserContext{
			SubjectID:    user.ID,
			Kind:         KindStaff,
			DisplayName:  user.Name,
			Email:        user.Email,
			Capabilities: user.Capabilities.Clone(),
		}, true
	case KindSupplier:
		sup, ok := snap.SupplierByID(claims.Subject)
		if !ok {
			return nil, false
		}
		return &UserContext{
			SubjectID:   sup.ID,
			Kind:        KindSupplier,
			DisplayName: sup.Name,
			Email:       sup.Email,
		}, true
	default:
		return nil, false
	}
}
