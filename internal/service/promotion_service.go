package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/persistence"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

const (
	hasPendingCacheKey = "promotion:has_pending"
	hasPendingCacheTTL = 30 * time.Second
)

// PromotionService runs the user-to-admin promotion workflow. Role checks on
// its endpoints are the policy table's job; this service trusts that the
// caller's identity was already authorized.
type PromotionService struct {
	promotions repository.PromotionRepository
	users      repository.UserRepository
	cache      *persistence.Redis
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewPromotionService builds the service.
func NewPromotionService(promotions repository.PromotionRepository, users repository.UserRepository, cache *persistence.Redis, dispatcher events.Dispatcher, logger *zap.Logger) *PromotionService {
	return &PromotionService{
		promotions: promotions,
		users:      users,
		cache:      cache,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RequestAccess files a promotion request for the acting identity. A user
// with a request still pending gets a conflict.
func (s *PromotionService) RequestAccess(ctx context.Context, identity *domain.Identity) (*domain.PromotionRequest, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthorized("identity required")
	}
	user, err := s.users.GetByEmail(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("unknown account")
		}
		return nil, err
	}

	req, err := s.promotions.CreateIfNonePending(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrPendingExists) {
			return nil, apperrors.NewConflict("promotion request already pending", nil)
		}
		return nil, err
	}

	s.invalidateBadge(ctx)
	s.publish(ctx, events.EventPromotionRequested, identity.Subject, events.PromotionRequestedPayload{
		RequestID: req.ID,
		UserID:    user.ID,
	})
	return req, nil
}

// ListPending returns pending requests in request order.
func (s *PromotionService) ListPending(ctx context.Context) ([]repository.PendingPromotion, error) {
	return s.promotions.ListPending(ctx)
}

// Approve decides a pending request and elevates the user to ADMIN. The
// repository commits both or neither.
func (s *PromotionService) Approve(ctx context.Context, identity *domain.Identity, requestID string) error {
	userID, err := s.promotions.Approve(ctx, requestID)
	if err != nil {
		return s.mapDecisionError(err, requestID)
	}

	s.invalidateBadge(ctx)
	s.publish(ctx, events.EventPromotionDecided, subjectOf(identity), events.PromotionDecidedPayload{
		RequestID: requestID,
		Status:    domain.PromotionStatusApproved,
		UserID:    userID,
	})
	return nil
}

// Reject decides a pending request without any role change.
func (s *PromotionService) Reject(ctx context.Context, identity *domain.Identity, requestID string) error {
	if err := s.promotions.Reject(ctx, requestID); err != nil {
		return s.mapDecisionError(err, requestID)
	}

	s.invalidateBadge(ctx)
	s.publish(ctx, events.EventPromotionDecided, subjectOf(identity), events.PromotionDecidedPayload{
		RequestID: requestID,
		Status:    domain.PromotionStatusRejected,
	})
	return nil
}

// HasPending reports whether any request is pending, system-wide. Serves the
// admin badge, so the answer is cached briefly and invalidated on every
// workflow mutation.
func (s *PromotionService) HasPending(ctx context.Context) (bool, error) {
	if cached, ok := s.badgeFromCache(ctx); ok {
		return cached, nil
	}

	pending, err := s.promotions.HasPending(ctx)
	if err != nil {
		return false, err
	}
	s.badgeToCache(ctx, pending)
	return pending, nil
}

func (s *PromotionService) mapDecisionError(err error, requestID string) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("promotion request", map[string]any{"id": requestID})
	case errors.Is(err, repository.ErrAlreadyDecided):
		return apperrors.NewInvalidState("promotion request already decided", map[string]any{"id": requestID})
	default:
		return err
	}
}

func (s *PromotionService) badgeFromCache(ctx context.Context) (bool, bool) {
	if s.cache == nil || s.cache.Client == nil {
		return false, false
	}
	val, err := s.cache.Client.Get(ctx, hasPendingCacheKey).Result()
	if err != nil {
		return false, false
	}
	return val == "1", true
}

func (s *PromotionService) badgeToCache(ctx context.Context, pending bool) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	val := "0"
	if pending {
		val = "1"
	}
	if err := s.cache.Client.Set(ctx, hasPendingCacheKey, val, hasPendingCacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Debug("badge cache write failed", zap.Error(err))
	}
}

func (s *PromotionService) invalidateBadge(ctx context.Context) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	if err := s.cache.Client.Del(ctx, hasPendingCacheKey).Err(); err != nil && s.logger != nil {
		s.logger.Debug("badge cache invalidation failed", zap.Error(err))
	}
}

func (s *PromotionService) publish(ctx context.Context, eventType events.EventType, subject string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func subjectOf(identity *domain.Identity) string {
	if identity == nil {
		return ""
	}
	return identity.Subject
}
