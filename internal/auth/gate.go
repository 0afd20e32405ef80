package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

const identityKey = "auth_identity"

// Gate is the per-request authorization decision point. It is stateless:
// token validation and policy evaluation only, never persistence.
type Gate struct {
	tokens *TokenManager
	policy *Policy
}

// NewGate constructs the gate.
func NewGate(tokens *TokenManager, policy *Policy) *Gate {
	return &Gate{tokens: tokens, policy: policy}
}

// Handle classifies the request, validates credentials where required, and
// either rejects (401/403) or admits with an identity attached.
//
// Identity attachment and enforcement are orthogonal: a valid token on a
// public path still populates the identity for identity-sensitive handlers,
// it just is not required there.
func (g *Gate) Handle(c *fiber.Ctx) error {
	identity := g.identityFromHeader(c.Get("Authorization"))

	if ClassifyRequest(c.Method(), c.Path()) == RequestPublic {
		if identity != nil {
			c.Locals(identityKey, identity)
		}
		return c.Next()
	}

	if identity == nil {
		return apperrors.NewUnauthorized("missing or invalid bearer token")
	}

	req := g.policy.RequiredRoles(c.Method(), c.Path())
	switch req.Kind {
	case RequirementPublic, RequirementAuthenticated:
		// a resolved identity suffices
	case RequirementRoles:
		if !identity.Roles.Intersects(req.Roles) {
			return apperrors.NewForbidden("insufficient role")
		}
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// identityFromHeader resolves an identity from a bearer header, or nil when
// the header is absent or the token fails validation. Parse detail is
// absorbed here; the caller only ever sees the binary outcome.
func (g *Gate) identityFromHeader(header string) *domain.Identity {
	if header == "" {
		return nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}
	claims, err := g.tokens.Validate(parts[1])
	if err != nil {
		return nil
	}
	if claims.Subject == "" {
		return nil
	}
	return &domain.Identity{Subject: claims.Subject, Roles: claims.RoleSet()}
}

// IdentityFromContext retrieves the identity attached by the gate.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
