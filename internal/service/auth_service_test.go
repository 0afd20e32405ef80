package service_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/service"
)

func newAuthService(users *fakeUserRepo) *service.AuthService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			// low cost keeps the hashing fast in tests
			BcryptCost: 4,
		},
	}
	return service.NewAuthService(cfg, users)
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	user, token, exp, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cret", domain.RoleUser)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	claims, err := svc.TokenManager().Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.True(t, claims.RoleSet().Has(domain.RoleUser))

	loggedIn, token, _, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, _, _, err := svc.Register(context.Background(), "Eve", "eve@example.com", "s3cret", domain.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, _, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cret", domain.RoleUser)
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "Impostor", "alice@example.com", "other", domain.RoleUser)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", domainCode(t, err))
}

// blindUserRepo never sees existing accounts on lookup, so the register-time
// duplicate pre-check passes and the insert itself reports the collision.
type blindUserRepo struct {
	repository.UserRepository
}

func (r *blindUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func TestRegisterLosesCreationRace(t *testing.T) {
	users := newFakeUserRepo()
	svc := service.NewAuthService(config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4},
	}, &blindUserRepo{UserRepository: users})

	require.NoError(t, users.Create(context.Background(), &domain.User{
		Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser,
	}))

	_, _, _, err := svc.Register(context.Background(), "Impostor", "alice@example.com", "s3cret", domain.RoleUser)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", domainCode(t, err))
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, _, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cret", domain.RoleUser)
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login(context.Background(), "alice@example.com", "wrong")
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
	})
}

func TestSellerTokenCarriesSellerRole(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, token, _, err := svc.Register(context.Background(), "Bob", "bob@example.com", "s3cret", domain.RoleSeller)
	require.NoError(t, err)

	claims, err := svc.TokenManager().Validate(token)
	require.NoError(t, err)
	roles := claims.RoleSet()
	assert.True(t, roles.Has(domain.RoleSeller))
	assert.False(t, roles.Has(domain.RoleAdmin))
}
