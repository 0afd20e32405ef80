package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

const maxEcoSuggestions = 4

// ProductService coordinates product workflows.
type ProductService struct {
	products   repository.ProductRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewProductService builds the service.
func NewProductService(products repository.ProductRepository, users repository.UserRepository, dispatcher events.Dispatcher) *ProductService {
	return &ProductService{products: products, users: users, dispatcher: dispatcher}
}

// ProductInput describes create/update payloads.
type ProductInput struct {
	Name         string
	Details      string
	Price        float64
	CarbonImpact float64
	ImageURL     string
	EcoRequested bool
}

// List returns the public catalogue.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// GetByID returns a single product.
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return nil, err
	}
	return product, nil
}

// ListForSeller returns the acting seller's own listings.
func (s *ProductService) ListForSeller(ctx context.Context, identity *domain.Identity) ([]domain.Product, error) {
	actor, err := s.resolveActor(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.products.ListBySeller(ctx, actor.ID)
}

// Create adds a listing with the seller forced to the acting identity.
func (s *ProductService) Create(ctx context.Context, identity *domain.Identity, input ProductInput) (*domain.Product, error) {
	actor, err := s.resolveActor(ctx, identity)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("product name required", nil)
	}

	product := &domain.Product{
		Name:         input.Name,
		Details:      input.Details,
		Price:        input.Price,
		CarbonImpact: input.CarbonImpact,
		ImageURL:     input.ImageURL,
		EcoRequested: input.EcoRequested,
		SellerID:     actor.ID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publishProductEvent(ctx, events.EventProductCreated, identity.Subject, product)
	return product, nil
}

// Update mutates a listing after an ownership check: the owning seller or an
// admin. Seller and certification status are not writable here.
func (s *ProductService) Update(ctx context.Context, identity *domain.Identity, id string, input ProductInput) (*domain.Product, error) {
	actor, err := s.resolveActor(ctx, identity)
	if err != nil {
		return nil, err
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeMutation(actor.ID, existing.SellerID, identity, domain.NewRoleSet(domain.RoleAdmin)); err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Details = input.Details
	existing.Price = input.Price
	existing.CarbonImpact = input.CarbonImpact
	existing.ImageURL = input.ImageURL
	existing.EcoRequested = input.EcoRequested

	if err := s.products.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.publishProductEvent(ctx, events.EventProductUpdated, identity.Subject, existing)
	return existing, nil
}

// Delete removes a listing, guarded the same way as Update.
func (s *ProductService) Delete(ctx context.Context, identity *domain.Identity, id string) error {
	actor, err := s.resolveActor(ctx, identity)
	if err != nil {
		return err
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeMutation(actor.ID, existing.SellerID, identity, domain.NewRoleSet(domain.RoleAdmin)); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.publishProductEvent(ctx, events.EventProductDeleted, identity.Subject, existing)
	return nil
}

// EcoSuggestions returns certified alternatives sharing the product's last
// name keyword, excluding the product itself. A certified product gets none.
func (s *ProductService) EcoSuggestions(ctx context.Context, productID string) ([]domain.Product, error) {
	current, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if current.EcoCertified {
		return []domain.Product{}, nil
	}

	keyword := extractKeyword(current.Name)
	if keyword == "" {
		return []domain.Product{}, nil
	}

	candidates, err := s.products.SearchEcoCertified(ctx, keyword)
	if err != nil {
		return nil, err
	}

	suggestions := make([]domain.Product, 0, maxEcoSuggestions)
	for _, candidate := range candidates {
		if candidate.ID == productID {
			continue
		}
		suggestions = append(suggestions, candidate)
		if len(suggestions) == maxEcoSuggestions {
			break
		}
	}
	return suggestions, nil
}

// ApproveEcoCertification grants a requested certification. Admin access is
// enforced by the policy table upstream.
func (s *ProductService) ApproveEcoCertification(ctx context.Context, id string) error {
	if err := s.products.SetEcoCertified(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

func (s *ProductService) resolveActor(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
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

func (s *ProductService) publishProductEvent(ctx context.Context, eventType events.EventType, subject string, product *domain.Product) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload: events.ProductPayload{
			ProductID:    product.ID,
			Name:         product.Name,
			SellerID:     product.SellerID,
			EcoRequested: product.EcoRequested,
			CarbonImpact: product.CarbonImpact,
		},
	})
}

// extractKeyword picks the last word of a product name, lowercased and
// stripped to letters, as the suggestion search term.
func extractKeyword(name string) string {
	words := strings.Fields(strings.ToLower(name))
	if len(words) == 0 {
		return ""
	}
	last := words[len(words)-1]
	var b strings.Builder
	for _, r := range last {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
