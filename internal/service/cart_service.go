package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// CartService coordinates cart workflows for end-users.
type CartService struct {
	carts      repository.CartRepository
	products   repository.ProductRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewCartService builds the service.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, users repository.UserRepository, dispatcher events.Dispatcher) *CartService {
	return &CartService{carts: carts, products: products, users: users, dispatcher: dispatcher}
}

// CartSummary aggregates a user's cart with eco totals.
type CartSummary struct {
	Lines             []repository.CartLine
	TotalPrice        float64
	TotalCarbonImpact float64
	EcoItemCount      int
}

// AddItem puts a product into the caller's cart. The owner is always the
// acting identity, regardless of payload.
func (s *CartService) AddItem(ctx context.Context, identity *domain.Identity, productID string, quantity int) (*domain.CartItem, error) {
	actor, err := s.resolveActor(ctx, identity)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		quantity = 1
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", map[string]any{"id": productID})
		}
		return nil, err
	}

	item := &domain.CartItem{
		UserID:    actor.ID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.carts.Create(ctx, item); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCartItemAdded,
			Subject:   identity.Subject,
			Timestamp: time.Now(),
			Payload: events.CartItemAddedPayload{
				CartItemID: item.ID,
				ProductID:  productID,
				Quantity:   quantity,
			},
		})
	}
	return item, nil
}

// Summary returns the caller's cart lines with price and carbon totals.
func (s *CartService) Summary(ctx context.Context, identity *domain.Identity) (*CartSummary, error) {
	actor, err := s.resolveActor(ctx, identity)
	if err != nil {
		return nil, err
	}
	lines, err := s.carts.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{Lines: lines}
	for _, line := range lines {
		qty := float64(line.Item.Quantity)
		summary.TotalPrice += line.Product.Price * qty
		summary.TotalCarbonImpact += line.Product.CarbonImpact * qty
		if line.Product.EcoCertified {
			summary.EcoItemCount++
		}
	}
	return summary, nil
}

// RemoveItem deletes a cart item after an ownership check.
func (s *CartService) RemoveItem(ctx context.Context, identity *domain.Identity, itemID string) error {
	_, item, err := s.ownedItem(ctx, identity, itemID)
	if err != nil {
		return err
	}
	return s.carts.Delete(ctx, item.ID)
}

// SwapToEco replaces an owned cart item's product with an eco-certified
// alternative.
func (s *CartService) SwapToEco(ctx context.Context, identity *domain.Identity, itemID, newProductID string) error {
	_, item, err := s.ownedItem(ctx, identity, itemID)
	if err != nil {
		return err
	}

	replacement, err := s.products.GetByID(ctx, newProductID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", map[string]any{"id": newProductID})
		}
		return err
	}
	if !replacement.EcoCertified {
		return apperrors.NewValidationError("replacement product is not eco-certified", nil)
	}

	return s.carts.ReplaceProduct(ctx, item.ID, replacement.ID)
}

func (s *CartService) ownedItem(ctx context.Context, identity *domain.Identity, itemID string) (*domain.User, *domain.CartItem, error) {
	actor, err := s.resolveActor(ctx, identity)
	if err != nil {
		return nil, nil, err
	}
	item, err := s.carts.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("cart item", map[string]any{"id": itemID})
		}
		return nil, nil, err
	}
	if err := auth.AuthorizeMutation(actor.ID, item.UserID, identity, domain.NewRoleSet(domain.RoleAdmin)); err != nil {
		return nil, nil, err
	}
	return actor, item, nil
}

func (s *CartService) resolveActor(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthorized("identity required")
	}
	actor, err := s.users.GetByEmail(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("unknown account")
		}
		return nil, err
	}
	return actor, nil
}
