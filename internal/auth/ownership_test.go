package auth_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

func TestAuthorizeMutation(t *testing.T) {
	elevated := domain.NewRoleSet(domain.RoleAdmin)

	seller := &domain.Identity{Subject: "bob@example.com", Roles: domain.NewRoleSet(domain.RoleSeller)}
	admin := &domain.Identity{Subject: "root@example.com", Roles: domain.NewRoleSet(domain.RoleAdmin)}

	t.Run("owner may mutate", func(t *testing.T) {
		assert.NoError(t, auth.AuthorizeMutation("seller-1", "seller-1", seller, elevated))
	})

	t.Run("non-owner without elevated role is denied", func(t *testing.T) {
		err := auth.AuthorizeMutation("seller-2", "seller-1", seller, elevated)
		require.Error(t, err)

		var de *apperrors.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "OWNERSHIP_DENIED", de.Code)
	})

	t.Run("elevated role bypasses ownership", func(t *testing.T) {
		assert.NoError(t, auth.AuthorizeMutation("admin-1", "seller-1", admin, elevated))
	})

	t.Run("nil identity is unauthenticated", func(t *testing.T) {
		err := auth.AuthorizeMutation("", "seller-1", nil, elevated)
		require.Error(t, err)

		var de *apperrors.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "UNAUTHORIZED", de.Code)
	})
}
