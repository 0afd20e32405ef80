package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// Token validation failures. The gate collapses all three into an
// unauthenticated outcome; callers never see parse detail.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

// TokenManager issues and validates signed JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
}

// NewTokenManager builds a new manager. leewaySeconds widens expiry checks
// by the given grace window; zero keeps expiry strict.
func NewTokenManager(secret string, ttlMinutes, leewaySeconds int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		leeway: time.Duration(leewaySeconds) * time.Second,
	}
}

// TokenClaims describes the JWT payload. Tokens may carry a singular role
// claim, a plural roles claim, or both.
type TokenClaims struct {
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// RoleSet merges the singular and plural role claims into one set.
// Unknown role labels are dropped; no role claim at all yields an empty set.
func (c *TokenClaims) RoleSet() domain.RoleSet {
	set := domain.NewRoleSet()
	for _, raw := range c.Roles {
		if role, ok := domain.ParseRole(raw); ok {
			set[role] = struct{}{}
		}
	}
	if c.Role != "" {
		if role, ok := domain.ParseRole(c.Role); ok {
			set[role] = struct{}{}
		}
	}
	return set
}

// Issue builds and signs a JWT carrying the subject and role set.
func (tm *TokenManager) Issue(subject string, roles domain.RoleSet) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)

	roleClaims := make([]string, 0, len(roles))
	for _, role := range roles.Values() {
		roleClaims = append(roleClaims, string(role))
	}

	claims := &TokenClaims{
		Roles: roleClaims,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Validate checks signature and expiry and returns the decoded claims.
func (tm *TokenManager) Validate(tokenStr string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenSignatureInvalid
		}
		return tm.secret, nil
	}, jwt.WithLeeway(tm.leeway))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
