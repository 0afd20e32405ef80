package auth

import (
	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// AuthorizeMutation allows a mutation of an owned resource when the acting
// user is the owner or holds one of the elevated roles. The denial is a
// resource-instance level forbidden, not the policy's endpoint-level one.
func AuthorizeMutation(actorID, ownerID string, identity *domain.Identity, elevated domain.RoleSet) error {
	if identity == nil {
		return apperrors.NewUnauthorized("identity required")
	}
	if actorID != "" && actorID == ownerID {
		return nil
	}
	if identity.Roles.Intersects(elevated) {
		return nil
	}
	return apperrors.NewOwnershipDenied("not the owner of this resource")
}
