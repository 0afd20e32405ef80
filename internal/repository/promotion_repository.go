package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// Promotion persistence sentinels, mapped to user-visible errors by the service.
var (
	ErrPendingExists  = errors.New("pending promotion request exists")
	ErrAlreadyDecided = errors.New("promotion request already decided")
)

// PendingPromotion joins a pending request with its requesting user.
type PendingPromotion struct {
	ID          string
	UserID      string
	UserName    string
	UserEmail   string
	RequestedAt time.Time
}

// PromotionRepository manages admin-promotion request persistence. The
// conditional insert and the decision transactions carry the workflow's
// atomicity guarantees; callers never compose them from separate reads.
type PromotionRepository interface {
	CreateIfNonePending(ctx context.Context, userID string) (*domain.PromotionRequest, error)
	ListPending(ctx context.Context) ([]PendingPromotion, error)
	Approve(ctx context.Context, id string) (userID string, err error)
	Reject(ctx context.Context, id string) error
	HasPending(ctx context.Context) (bool, error)
}

type promotionRepository struct {
	pool *pgxpool.Pool
}

// NewPromotionRepository constructs the repository.
func NewPromotionRepository(pool *pgxpool.Pool) PromotionRepository {
	return &promotionRepository{pool: pool}
}

// CreateIfNonePending inserts a PENDING request unless one already exists for
// the user. The insert is a single statement, so two concurrent calls cannot
// both observe "no pending"; the partial unique index on (user_id) WHERE
// status='PENDING' backs it up.
func (r *promotionRepository) CreateIfNonePending(ctx context.Context, userID string) (*domain.PromotionRequest, error) {
	const query = `
        INSERT INTO promotion_requests (user_id, status)
        SELECT $1, 'PENDING'
        WHERE NOT EXISTS (
            SELECT 1 FROM promotion_requests WHERE user_id=$1 AND status='PENDING'
        )
        RETURNING id, requested_at`

	req := &domain.PromotionRequest{UserID: userID, Status: domain.PromotionStatusPending}
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&req.ID, &req.RequestedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPendingExists
		}
		return nil, err
	}
	return req, nil
}

func (r *promotionRepository) ListPending(ctx context.Context) ([]PendingPromotion, error) {
	const query = `
        SELECT pr.id, u.id, u.name, u.email, pr.requested_at
        FROM promotion_requests pr
        JOIN users u ON u.id = pr.user_id
        WHERE pr.status='PENDING'
        ORDER BY pr.requested_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PendingPromotion
	for rows.Next() {
		var pending PendingPromotion
		if err := rows.Scan(
			&pending.ID,
			&pending.UserID,
			&pending.UserName,
			&pending.UserEmail,
			&pending.RequestedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, pending)
	}
	return result, rows.Err()
}

// Approve flips PENDING to APPROVED and elevates the user's role in one
// transaction: both commit or neither does. The conditional UPDATE makes a
// concurrent second decision observe the terminal state and fail.
func (r *promotionRepository) Approve(ctx context.Context, id string) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	userID, err := decide(ctx, tx, id, domain.PromotionStatusApproved)
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET role='ADMIN', updated_at=NOW() WHERE id=$1`, userID); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return userID, nil
}

func (r *promotionRepository) Reject(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := decide(ctx, tx, id, domain.PromotionStatusRejected); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func decide(ctx context.Context, tx pgx.Tx, id string, status domain.PromotionStatus) (string, error) {
	const query = `
        UPDATE promotion_requests SET status=$2, decided_at=NOW()
        WHERE id=$1 AND status='PENDING'
        RETURNING user_id`

	var userID string
	err := tx.QueryRow(ctx, query, id, status).Scan(&userID)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	// no PENDING row: distinguish unknown id from already-decided
	var existing string
	if err := tx.QueryRow(ctx, `SELECT status FROM promotion_requests WHERE id=$1`, id).Scan(&existing); err != nil {
		return "", pgx.ErrNoRows
	}
	return "", ErrAlreadyDecided
}

func (r *promotionRepository) HasPending(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM promotion_requests WHERE status='PENDING')`,
	).Scan(&exists)
	return exists, err
}
