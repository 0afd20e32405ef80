package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// In-memory repository fakes. They guard state with a mutex so concurrency
// tests exercise the same single-writer semantics the SQL statements give.

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, _, _ int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		result = append(result, *user)
	}
	return result, nil
}

func (r *fakeUserRepo) ListSellers(_ context.Context) ([]repository.SellerOverview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []repository.SellerOverview
	for _, user := range r.users {
		if user.Role == domain.RoleSeller {
			result = append(result, repository.SellerOverview{ID: user.ID, Name: user.Name, Email: user.Email})
		}
	}
	return result, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	seq      int
	products map[string]*domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*domain.Product{}}
}

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	product.ID = fmt.Sprintf("%d", r.seq)
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[product.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	clone := *product
	clone.SellerID = existing.SellerID
	r.products[product.ID] = &clone
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *product
	return &clone, nil
}

func (r *fakeProductRepo) List(_ context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Product
	for _, product := range r.products {
		result = append(result, *product)
	}
	return result, nil
}

func (r *fakeProductRepo) ListBySeller(_ context.Context, sellerID string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Product
	for _, product := range r.products {
		if product.SellerID == sellerID {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (r *fakeProductRepo) SearchEcoCertified(_ context.Context, keyword string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Product
	for _, product := range r.products {
		if product.EcoCertified && strings.Contains(strings.ToLower(product.Name), strings.ToLower(keyword)) {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (r *fakeProductRepo) SetEcoCertified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return pgx.ErrNoRows
	}
	product.EcoCertified = true
	product.EcoRequested = false
	return nil
}

type fakeCartRepo struct {
	mu       sync.Mutex
	seq      int
	items    map[string]*domain.CartItem
	products *fakeProductRepo
}

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{items: map[string]*domain.CartItem{}, products: products}
}

func (r *fakeCartRepo) Create(_ context.Context, item *domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	item.ID = fmt.Sprintf("cart-%d", r.seq)
	item.CreatedAt = time.Now()
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *fakeCartRepo) GetByID(_ context.Context, id string) (*domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *item
	return &clone, nil
}

func (r *fakeCartRepo) ListByUser(ctx context.Context, userID string) ([]repository.CartLine, error) {
	r.mu.Lock()
	items := make([]domain.CartItem, 0, len(r.items))
	for _, item := range r.items {
		if item.UserID == userID {
			items = append(items, *item)
		}
	}
	r.mu.Unlock()

	var result []repository.CartLine
	for _, item := range items {
		product, err := r.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		result = append(result, repository.CartLine{Item: item, Product: *product})
	}
	return result, nil
}

func (r *fakeCartRepo) ReplaceProduct(_ context.Context, id, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	item.ProductID = productID
	return nil
}

func (r *fakeCartRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

type fakePromotionRepo struct {
	mu       sync.Mutex
	seq      int
	requests map[string]*domain.PromotionRequest
	users    *fakeUserRepo
}

func newFakePromotionRepo(users *fakeUserRepo) *fakePromotionRepo {
	return &fakePromotionRepo{requests: map[string]*domain.PromotionRequest{}, users: users}
}

// CreateIfNonePending mirrors the conditional-insert semantics: check and
// insert happen under one lock, so concurrent callers cannot both succeed.
func (r *fakePromotionRepo) CreateIfNonePending(_ context.Context, userID string) (*domain.PromotionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.UserID == userID && req.Status == domain.PromotionStatusPending {
			return nil, repository.ErrPendingExists
		}
	}
	r.seq++
	req := &domain.PromotionRequest{
		ID:          fmt.Sprintf("promo-%d", r.seq),
		UserID:      userID,
		Status:      domain.PromotionStatusPending,
		RequestedAt: time.Now(),
	}
	clone := *req
	r.requests[req.ID] = &clone
	return req, nil
}

func (r *fakePromotionRepo) ListPending(ctx context.Context) ([]repository.PendingPromotion, error) {
	r.mu.Lock()
	pending := make([]domain.PromotionRequest, 0, len(r.requests))
	for _, req := range r.requests {
		if req.Status == domain.PromotionStatusPending {
			pending = append(pending, *req)
		}
	}
	r.mu.Unlock()

	var result []repository.PendingPromotion
	for _, req := range pending {
		user, err := r.users.GetByID(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		result = append(result, repository.PendingPromotion{
			ID:          req.ID,
			UserID:      user.ID,
			UserName:    user.Name,
			UserEmail:   user.Email,
			RequestedAt: req.RequestedAt,
		})
	}
	return result, nil
}

func (r *fakePromotionRepo) Approve(ctx context.Context, id string) (string, error) {
	userID, err := r.decide(id, domain.PromotionStatusApproved)
	if err != nil {
		return "", err
	}
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	user.Role = domain.RoleAdmin
	if err := r.users.Update(ctx, user); err != nil {
		return "", err
	}
	return userID, nil
}

func (r *fakePromotionRepo) Reject(_ context.Context, id string) error {
	_, err := r.decide(id, domain.PromotionStatusRejected)
	return err
}

func (r *fakePromotionRepo) decide(id string, status domain.PromotionStatus) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	if req.Status != domain.PromotionStatusPending {
		return "", repository.ErrAlreadyDecided
	}
	req.Status = status
	now := time.Now()
	req.DecidedAt = &now
	return req.UserID, nil
}

func (r *fakePromotionRepo) HasPending(_ context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.Status == domain.PromotionStatusPending {
			return true, nil
		}
	}
	return false, nil
}
