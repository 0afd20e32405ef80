package service

import (
	"context"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// AdminService serves admin-only views over accounts.
type AdminService struct {
	users repository.UserRepository
}

// NewAdminService builds the service.
func NewAdminService(users repository.UserRepository) *AdminService {
	return &AdminService{users: users}
}

// ListUsers pages through all accounts.
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.users.List(ctx, limit, offset)
}

// ListSellers returns seller accounts with their listing counts.
func (s *AdminService) ListSellers(ctx context.Context) ([]repository.SellerOverview, error) {
	return s.users.ListSellers(ctx)
}
