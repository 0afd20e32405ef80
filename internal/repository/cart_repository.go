package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// CartLine pairs a cart item with its product for summary views.
type CartLine struct {
	Item    domain.CartItem
	Product domain.Product
}

// CartRepository encapsulates cart item persistence.
type CartRepository interface {
	Create(ctx context.Context, item *domain.CartItem) error
	GetByID(ctx context.Context, id string) (*domain.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]CartLine, error)
	ReplaceProduct(ctx context.Context, id, productID string) error
	Delete(ctx context.Context, id string) error
}

type cartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository constructs the repository.
func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &cartRepository{pool: pool}
}

func (r *cartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	const query = `
        INSERT INTO cart_items (user_id, product_id, quantity)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		item.UserID,
		item.ProductID,
		item.Quantity,
	).Scan(&item.ID, &item.CreatedAt)
}

func (r *cartRepository) GetByID(ctx context.Context, id string) (*domain.CartItem, error) {
	const query = `
        SELECT id, user_id, product_id, quantity, created_at
        FROM cart_items WHERE id=$1`
	var item domain.CartItem
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) ListByUser(ctx context.Context, userID string) ([]CartLine, error) {
	const query = `
        SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at,
               p.id, p.name, p.details, p.price, p.carbon_impact, p.image_url,
               p.eco_certified, p.eco_requested, p.seller_id, p.created_at, p.updated_at
        FROM cart_items ci
        JOIN products p ON p.id = ci.product_id
        WHERE ci.user_id=$1
        ORDER BY ci.created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CartLine
	for rows.Next() {
		var line CartLine
		if err := rows.Scan(
			&line.Item.ID,
			&line.Item.UserID,
			&line.Item.ProductID,
			&line.Item.Quantity,
			&line.Item.CreatedAt,
			&line.Product.ID,
			&line.Product.Name,
			&line.Product.Details,
			&line.Product.Price,
			&line.Product.CarbonImpact,
			&line.Product.ImageURL,
			&line.Product.EcoCertified,
			&line.Product.EcoRequested,
			&line.Product.SellerID,
			&line.Product.CreatedAt,
			&line.Product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, line)
	}
	return result, rows.Err()
}

func (r *cartRepository) ReplaceProduct(ctx context.Context, id, productID string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE cart_items SET product_id=$1 WHERE id=$2`, productID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
