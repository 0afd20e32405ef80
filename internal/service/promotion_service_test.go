package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
)

type promotionFixture struct {
	users      *fakeUserRepo
	promotions *fakePromotionRepo
	svc        *service.PromotionService
}

func newPromotionFixture() *promotionFixture {
	users := newFakeUserRepo()
	promotions := newFakePromotionRepo(users)
	return &promotionFixture{
		users:      users,
		promotions: promotions,
		svc:        service.NewPromotionService(promotions, users, nil, nil, zap.NewNop()),
	}
}

func TestPromotionRequestAccess(t *testing.T) {
	f := newPromotionFixture()
	user, identity := seedUser(t, f.users, "Alice", "alice@example.com", domain.RoleUser)

	req, err := f.svc.RequestAccess(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, user.ID, req.UserID)
	assert.Equal(t, domain.PromotionStatusPending, req.Status)

	t.Run("duplicate pending request conflicts", func(t *testing.T) {
		_, err := f.svc.RequestAccess(context.Background(), identity)
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", domainCode(t, err))
	})

	t.Run("unknown identity is unauthorized", func(t *testing.T) {
		ghost := &domain.Identity{Subject: "ghost@example.com", Roles: domain.NewRoleSet(domain.RoleUser)}
		_, err := f.svc.RequestAccess(context.Background(), ghost)
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
	})
}

func TestPromotionApprove(t *testing.T) {
	f := newPromotionFixture()
	user, identity := seedUser(t, f.users, "Alice", "alice@example.com", domain.RoleUser)
	_, admin := seedUser(t, f.users, "Root", "root@example.com", domain.RoleAdmin)

	req, err := f.svc.RequestAccess(context.Background(), identity)
	require.NoError(t, err)

	require.NoError(t, f.svc.Approve(context.Background(), admin, req.ID))

	elevated, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, elevated.Role)

	t.Run("second decision hits the terminal state", func(t *testing.T) {
		err := f.svc.Approve(context.Background(), admin, req.ID)
		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE", domainCode(t, err))
	})

	t.Run("reject after approve also fails", func(t *testing.T) {
		err := f.svc.Reject(context.Background(), admin, req.ID)
		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE", domainCode(t, err))
	})

	t.Run("unknown request is not found", func(t *testing.T) {
		err := f.svc.Approve(context.Background(), admin, "promo-999")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", domainCode(t, err))
	})
}

func TestPromotionReject(t *testing.T) {
	f := newPromotionFixture()
	user, identity := seedUser(t, f.users, "Alice", "alice@example.com", domain.RoleUser)
	_, admin := seedUser(t, f.users, "Root", "root@example.com", domain.RoleAdmin)

	req, err := f.svc.RequestAccess(context.Background(), identity)
	require.NoError(t, err)

	require.NoError(t, f.svc.Reject(context.Background(), admin, req.ID))

	unchanged, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, unchanged.Role)

	// a rejected user may file again
	again, err := f.svc.RequestAccess(context.Background(), identity)
	require.NoError(t, err)
	assert.NotEqual(t, req.ID, again.ID)
}

func TestPromotionListPending(t *testing.T) {
	f := newPromotionFixture()
	user, identity := seedUser(t, f.users, "Alice", "alice@example.com", domain.RoleUser)

	pending, err := f.svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.svc.RequestAccess(context.Background(), identity)
	require.NoError(t, err)

	pending, err = f.svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, user.ID, pending[0].UserID)
	assert.Equal(t, "alice@example.com", pending[0].UserEmail)
}

func TestPromotionHasPending(t *testing.T) {
	f := newPromotionFixture()
	_, identity := seedUser(t, f.users, "Alice", "alice@example.com", domain.RoleUser)
	_, admin := seedUser(t, f.users, "Root", "root@example.com", domain.RoleAdmin)

	pending, err := f.svc.HasPending(context.Background())
	require.NoError(t, err)
	assert.False(t, pending)

	req, err := f.svc.RequestAccess(context.Background(), identity)
	require.NoError(t, err)

	pending, err = f.svc.HasPending(context.Background())
	require.NoError(t, err)
	assert.True(t, pending)

	require.NoError(t, f.svc.Reject(context.Background(), admin, req.ID))

	pending, err = f.svc.HasPending(context.Background())
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestPromotionConcurrentRequests(t *testing.T) {
	f := newPromotionFixture()
	_, identity := seedUser(t, f.users, "Alice", "alice@example.com", domain.RoleUser)

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RequestAccess(context.Background(), identity)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, "CONFLICT", domainCode(t, err))
		conflicted++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicted)
}
