package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/config"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// SubjectKind distinguishes staff tokens from supplier portal tokens
type SubjectKind string

const (
	KindStaff    SubjectKind = "staff"
	KindSupplier SubjectKind = "supplier"
)

// Claims is the token payload for both staff and supplier tokens
type Claims struct {
	Kind  SubjectKind `json:"kind"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256 bearer tokens
type TokenManager struct {
	secret    []byte
	ttl       time.Duration
	portalTTL time.Duration
	issuer    string
}

// NewTokenManager creates a new token manager
func NewTokenManager(cfg *config.AuthConfig, appCfg *config.AppConfig) *TokenManager {
	return &TokenManager{
		secret:    []byte(cfg.JWTSecret),
		ttl:       cfg.TokenTTLDuration(),
		portalTTL: cfg.PortalTokenTTLDuration(),
		issuer:    appCfg.Name,
	}
}

// IssueStaff creates a token for an internal user
func (m *TokenManager) IssueStaff(user domain.User) (string, error) {
	return m.sign(Claims{
		Kind:  KindStaff,
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
	})
}

// IssuePortal creates a token for a supplier's price submission portal
func (m *TokenManager) IssuePortal(supplier domain.Supplier) (string, error) {
	return m.sign(Claims{
		Kind:  KindSupplier,
		Name:  supplier.Name,
		Email: supplier.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   supplier.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.portalTTL)),
		},
	})
}

func (m *TokenManager) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a bearer token and returns its claims
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Kind != KindStaff && claims.Kind != KindSupplier {
		return nil, fmt.Errorf("%w: unknown subject kind %q", ErrInvalidToken, claims.Kind)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims, nil
}
