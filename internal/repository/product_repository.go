package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error)
	SearchEcoCertified(ctx context.Context, keyword string) ([]domain.Product, error)
	SetEcoCertified(ctx context.Context, id string) error
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates the repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `id, name, details, price, carbon_impact, image_url,
       eco_certified, eco_requested, seller_id, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (name, details, price, carbon_impact, image_url, eco_certified, eco_requested, seller_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		product.Name,
		product.Details,
		product.Price,
		product.CarbonImpact,
		product.ImageURL,
		product.EcoCertified,
		product.EcoRequested,
		product.SellerID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

// Update never touches seller_id: ownership is immutable after creation.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET name=$1, details=$2, price=$3, carbon_impact=$4, image_url=$5,
            eco_certified=$6, eco_requested=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		product.Name,
		product.Details,
		product.Price,
		product.CarbonImpact,
		product.ImageURL,
		product.EcoCertified,
		product.EcoRequested,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	var product domain.Product
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Details,
		&product.Price,
		&product.CarbonImpact,
		&product.ImageURL,
		&product.EcoCertified,
		&product.EcoRequested,
		&product.SellerID,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE seller_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) SearchEcoCertified(ctx context.Context, keyword string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
        FROM products
        WHERE eco_certified = TRUE AND LOWER(name) LIKE '%' || LOWER($1) || '%'
        ORDER BY carbon_impact ASC`
	rows, err := r.pool.Query(ctx, query, keyword)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) SetEcoCertified(ctx context.Context, id string) error {
	const query = `
        UPDATE products SET eco_certified=TRUE, eco_requested=FALSE, updated_at=NOW()
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Details,
			&product.Price,
			&product.CarbonImpact,
			&product.ImageURL,
			&product.EcoCertified,
			&product.EcoRequested,
			&product.SellerID,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, product)
	}
	return result, rows.Err()
}
