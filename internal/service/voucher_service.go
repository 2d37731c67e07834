package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/hotspot-service/internal/auth"
	"github.com/spec-kit/hotspot-service/internal/domain"
	"github.com/spec-kit/hotspot-service/internal/events"
	"github.com/spec-kit/hotspot-service/internal/observability"
	"github.com/spec-kit/hotspot-service/internal/repository"
	apperrors "github.com/spec-kit/hotspot-service/pkg/util/errorutil"
)

const (
	maxBatchSize  = 1000
	codeLength    = 10
	statsCacheTTL = 30 * time.Second
	// Excludes easily-confused characters (0/O, 1/I/L).
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// VoucherService generates, validates and reports on prepaid vouchers.
type VoucherService struct {
	vouchers   repository.VoucherRepository
	plans      repository.PlanRepository
	dispatcher events.Dispatcher
	cache      *redis.Client
	logger     *zap.Logger
}

// NewVoucherService builds the service. cache may be nil.
func NewVoucherService(vouchers repository.VoucherRepository, plans repository.PlanRepository, dispatcher events.Dispatcher, cache *redis.Client, logger *zap.Logger) *VoucherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VoucherService{
		vouchers:   vouchers,
		plans:      plans,
		dispatcher: dispatcher,
		cache:      cache,
		logger:     logger,
	}
}

// GenerateInput carries batch generation parameters.
type GenerateInput struct {
	PlanID    string
	Quantity  int
	BatchName *string
}

// List returns vouchers matching the filter.
func (s *VoucherService) List(ctx context.Context, filter repository.VoucherFilter) ([]domain.Voucher, error) {
	return s.vouchers.List(ctx, filter)
}

// Generate creates a batch of voucher codes for an active plan. Voucher
// expiry follows the plan duration when the plan has one.
func (s *VoucherService) Generate(ctx context.Context, actor *auth.Principal, input GenerateInput) ([]domain.Voucher, error) {
	if input.Quantity < 1 || input.Quantity > maxBatchSize {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("quantity must be between 1 and %d", maxBatchSize), nil)
	}

	plan, err := s.plans.GetByID(ctx, input.PlanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("plan", nil)
		}
		return nil, err
	}
	if plan.Status != domain.PlanStatusActive {
		return nil, apperrors.NewValidationError("plan is not active", nil)
	}

	batchID := uuid.NewString()
	var expiresAt *time.Time
	if plan.DurationHours != nil {
		t := time.Now().Add(time.Duration(*plan.DurationHours) * time.Hour)
		expiresAt = &t
	}

	batch := make([]domain.Voucher, input.Quantity)
	for i := range batch {
		code, err := randomCode(codeLength)
		if err != nil {
			return nil, err
		}
		batch[i] = domain.Voucher{
			Code:      code,
			PlanID:    plan.ID,
			BatchID:   batchID,
			BatchName: input.BatchName,
			Status:    domain.VoucherStatusUnused,
			ExpiresAt: expiresAt,
		}
	}

	if err := s.vouchers.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}

	observability.VouchersGeneratedTotal.Add(float64(input.Quantity))
	s.invalidateStatsCache(ctx)
	s.publish(ctx, actor, events.EventVoucherBatchGenerated, events.VoucherBatchGeneratedPayload{
		BatchID:   batchID,
		BatchName: input.BatchName,
		PlanID:    plan.ID,
		Quantity:  input.Quantity,
	})
	return batch, nil
}

// Validate redeems a voucher code: an unused, unexpired code is marked used
// and the backing plan is returned. Every failure is the same generic 400 so
// the portal cannot be used to probe code state.
func (s *VoucherService) Validate(ctx context.Context, actor *auth.Principal, code string) (*domain.Voucher, *domain.Plan, error) {
	invalid := apperrors.NewValidationError("invalid voucher code", nil)

	voucher, err := s.vouchers.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			observability.VouchersRedeemedTotal.WithLabelValues("invalid").Inc()
			return nil, nil, invalid
		}
		return nil, nil, err
	}
	if voucher.Status != domain.VoucherStatusUnused {
		observability.VouchersRedeemedTotal.WithLabelValues("used").Inc()
		return nil, nil, invalid
	}
	if voucher.ExpiresAt != nil && time.Now().After(*voucher.ExpiresAt) {
		observability.VouchersRedeemedTotal.WithLabelValues("expired").Inc()
		return nil, nil, invalid
	}

	now := time.Now()
	if err := s.vouchers.MarkUsed(ctx, voucher.ID, now); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost a race with a concurrent redemption.
			observability.VouchersRedeemedTotal.WithLabelValues("used").Inc()
			return nil, nil, invalid
		}
		return nil, nil, err
	}
	voucher.Status = domain.VoucherStatusUsed
	voucher.UsedAt = &now

	plan, err := s.plans.GetByID(ctx, voucher.PlanID)
	if err != nil {
		return nil, nil, err
	}

	observability.VouchersRedeemedTotal.WithLabelValues("redeemed").Inc()
	s.invalidateStatsCache(ctx)
	s.publish(ctx, actor, events.EventVoucherRedeemed, events.VoucherRedeemedPayload{
		VoucherID: voucher.ID,
		Code:      voucher.Code,
		PlanID:    plan.ID,
	})
	return voucher, plan, nil
}

// Stats returns voucher aggregates, served from a short-lived Redis cache
// when available.
func (s *VoucherService) Stats(ctx context.Context, locationID *string) (*domain.VoucherStats, error) {
	key := statsCacheKey(locationID)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached domain.VoucherStats
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	stats, err := s.vouchers.Stats(ctx, locationID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, key, raw, statsCacheTTL).Err(); err != nil {
				s.logger.Warn("voucher stats cache write failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

// invalidateStatsCache drops every cached stats aggregate, the all-locations
// key and the per-location ones alike.
func (s *VoucherService) invalidateStatsCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, "voucher_stats:*", 0).Iterator()
	for iter.Next(ctx) {
		_ = s.cache.Del(ctx, iter.Val()).Err()
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("voucher stats cache invalidation failed", zap.Error(err))
	}
}

func statsCacheKey(locationID *string) string {
	if locationID == nil {
		return "voucher_stats:all"
	}
	return "voucher_stats:" + *locationID
}

func (s *VoucherService) publish(ctx context.Context, actor *auth.Principal, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	if actor != nil {
		event.Actor = events.Actor{UserID: actor.UserID, Role: actor.Role}
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// randomCode draws length characters from the code alphabet using crypto
// randomness. Bytes at or above the largest multiple of the alphabet size
// are discarded so every character is equally likely.
func randomCode(length int) (string, error) {
	limit := byte(256 - 256%len(codeAlphabet))
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
