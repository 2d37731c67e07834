package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hotspot-service/internal/domain"
	"github.com/spec-kit/hotspot-service/internal/events"
	"github.com/spec-kit/hotspot-service/internal/repository"
)

type stubPlanRepository struct {
	plans map[string]*domain.Plan
}

func newStubPlanRepository(plans ...*domain.Plan) *stubPlanRepository {
	repo := &stubPlanRepository{plans: make(map[string]*domain.Plan)}
	for _, p := range plans {
		repo.plans[p.ID] = p
	}
	return repo
}

func (r *stubPlanRepository) Create(_ context.Context, plan *domain.Plan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	r.plans[plan.ID] = plan
	return nil
}

func (r *stubPlanRepository) Update(_ context.Context, plan *domain.Plan) error {
	if _, ok := r.plans[plan.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.plans[plan.ID] = plan
	return nil
}

func (r *stubPlanRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.plans[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.plans, id)
	return nil
}

func (r *stubPlanRepository) GetByID(_ context.Context, id string) (*domain.Plan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return plan, nil
}

func (r *stubPlanRepository) List(_ context.Context, _ repository.PlanFilter) ([]domain.Plan, error) {
	out := make([]domain.Plan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, *p)
	}
	return out, nil
}

type stubVoucherRepository struct {
	vouchers map[string]*domain.Voucher
}

func newStubVoucherRepository() *stubVoucherRepository {
	return &stubVoucherRepository{vouchers: make(map[string]*domain.Voucher)}
}

func (r *stubVoucherRepository) CreateBatch(_ context.Context, vouchers []domain.Voucher) error {
	for i := range vouchers {
		v := &vouchers[i]
		v.ID = uuid.NewString()
		v.CreatedAt = time.Now()
		stored := *v
		r.vouchers[v.ID] = &stored
	}
	return nil
}

func (r *stubVoucherRepository) GetByCode(_ context.Context, code string) (*domain.Voucher, error) {
	for _, v := range r.vouchers {
		if v.Code == code {
			copied := *v
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubVoucherRepository) MarkUsed(_ context.Context, id string, usedAt time.Time) error {
	v, ok := r.vouchers[id]
	if !ok || v.Status != domain.VoucherStatusUnused {
		return pgx.ErrNoRows
	}
	v.Status = domain.VoucherStatusUsed
	v.UsedAt = &usedAt
	return nil
}

func (r *stubVoucherRepository) List(_ context.Context, filter repository.VoucherFilter) ([]domain.Voucher, error) {
	out := make([]domain.Voucher, 0, len(r.vouchers))
	for _, v := range r.vouchers {
		if filter.Status != nil && v.Status != *filter.Status {
			continue
		}
		if filter.BatchID != nil && v.BatchID != *filter.BatchID {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

// Stats mirrors the SQL aggregation: unused rows past expiry count as
// expired even though nothing rewrites their status.
func (r *stubVoucherRepository) Stats(_ context.Context, _ *string) (*domain.VoucherStats, error) {
	now := time.Now()
	var stats domain.VoucherStats
	for _, v := range r.vouchers {
		stats.Total++
		switch v.Status {
		case domain.VoucherStatusUnused:
			if v.ExpiresAt != nil && !v.ExpiresAt.After(now) {
				stats.Expired++
			} else {
				stats.Unused++
			}
		case domain.VoucherStatusUsed:
			stats.Used++
		case domain.VoucherStatusExpired:
			stats.Expired++
		}
	}
	return &stats, nil
}

func activePlan() *domain.Plan {
	hours := 24
	return &domain.Plan{
		ID:            "plan-1",
		Name:          "Day Pass",
		Price:         5,
		DurationHours: &hours,
		Status:        domain.PlanStatusActive,
	}
}

func newTestVoucherService(plans *stubPlanRepository) (*VoucherService, *stubVoucherRepository, events.Dispatcher) {
	vouchers := newStubVoucherRepository()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewVoucherService(vouchers, plans, dispatcher, nil, nil)
	return svc, vouchers, dispatcher
}

func TestGenerateBatch(t *testing.T) {
	svc, _, dispatcher := newTestVoucherService(newStubPlanRepository(activePlan()))

	var published []events.Event
	dispatcher.Subscribe(events.EventVoucherBatchGenerated, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	name := "august batch"
	batch, err := svc.Generate(context.Background(), nil, GenerateInput{
		PlanID:    "plan-1",
		Quantity:  25,
		BatchName: &name,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(batch) != 25 {
		t.Fatalf("expected 25 vouchers, got %d", len(batch))
	}

	seen := make(map[string]bool, len(batch))
	for _, v := range batch {
		if len(v.Code) != 10 {
			t.Fatalf("expected 10-character code, got %q", v.Code)
		}
		for _, c := range v.Code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q contains out-of-alphabet character %q", v.Code, c)
			}
		}
		if seen[v.Code] {
			t.Fatalf("duplicate code %q in batch", v.Code)
		}
		seen[v.Code] = true
		if v.BatchID != batch[0].BatchID {
			t.Fatalf("batch IDs differ within one batch")
		}
		if v.Status != domain.VoucherStatusUnused {
			t.Fatalf("new voucher should be unused, got %q", v.Status)
		}
		if v.ExpiresAt == nil {
			t.Fatalf("plan has a duration, expected an expiry")
		}
	}

	if len(published) != 1 {
		t.Fatalf("expected one batch event, got %d", len(published))
	}
}

func TestGenerateRejectsBadQuantity(t *testing.T) {
	svc, _, _ := newTestVoucherService(newStubPlanRepository(activePlan()))

	for _, qty := range []int{0, -1, 1001} {
		if _, err := svc.Generate(context.Background(), nil, GenerateInput{PlanID: "plan-1", Quantity: qty}); err == nil {
			t.Fatalf("quantity %d should be rejected", qty)
		}
	}
}

func TestGenerateRejectsInactivePlan(t *testing.T) {
	plan := activePlan()
	plan.Status = domain.PlanStatusInactive
	svc, _, _ := newTestVoucherService(newStubPlanRepository(plan))

	if _, err := svc.Generate(context.Background(), nil, GenerateInput{PlanID: "plan-1", Quantity: 5}); err == nil {
		t.Fatalf("inactive plan should be rejected")
	}
	if _, err := svc.Generate(context.Background(), nil, GenerateInput{PlanID: "no-such-plan", Quantity: 5}); err == nil {
		t.Fatalf("unknown plan should be rejected")
	}
}

func TestValidateRedeemsOnce(t *testing.T) {
	svc, _, _ := newTestVoucherService(newStubPlanRepository(activePlan()))
	ctx := context.Background()

	batch, err := svc.Generate(ctx, nil, GenerateInput{PlanID: "plan-1", Quantity: 1})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	code := batch[0].Code

	voucher, plan, err := svc.Validate(ctx, nil, code)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if voucher.Status != domain.VoucherStatusUsed || voucher.UsedAt == nil {
		t.Fatalf("redeemed voucher should be used, got %+v", voucher)
	}
	if plan.ID != "plan-1" {
		t.Fatalf("expected backing plan, got %q", plan.ID)
	}

	// Second redemption of the same code fails.
	if _, _, err := svc.Validate(ctx, nil, code); err == nil {
		t.Fatalf("expected reused code to be rejected")
	}
}

func TestValidateFailuresLookAlike(t *testing.T) {
	svc, vouchers, _ := newTestVoucherService(newStubPlanRepository(activePlan()))
	ctx := context.Background()

	batch, err := svc.Generate(ctx, nil, GenerateInput{PlanID: "plan-1", Quantity: 2})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, _, err := svc.Validate(ctx, nil, batch[0].Code); err != nil {
		t.Fatalf("first redemption failed: %v", err)
	}

	// Force the second voucher past its expiry.
	for _, v := range vouchers.vouchers {
		if v.Code == batch[1].Code {
			past := time.Now().Add(-time.Minute)
			v.ExpiresAt = &past
		}
	}

	_, _, unknownErr := svc.Validate(ctx, nil, "NOSUCHCODE")
	_, _, usedErr := svc.Validate(ctx, nil, batch[0].Code)
	_, _, expiredErr := svc.Validate(ctx, nil, batch[1].Code)

	for _, err := range []error{unknownErr, usedErr, expiredErr} {
		if err == nil {
			t.Fatalf("expected redemption failure")
		}
	}
	if unknownErr.Error() != usedErr.Error() || usedErr.Error() != expiredErr.Error() {
		t.Fatalf("failure messages differ: %q / %q / %q", unknownErr, usedErr, expiredErr)
	}
}

func TestStatsCountsByStatus(t *testing.T) {
	svc, _, _ := newTestVoucherService(newStubPlanRepository(activePlan()))
	ctx := context.Background()

	batch, err := svc.Generate(ctx, nil, GenerateInput{PlanID: "plan-1", Quantity: 3})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, _, err := svc.Validate(ctx, nil, batch[0].Code); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	stats, err := svc.Stats(ctx, nil)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Total != 3 || stats.Used != 1 || stats.Unused != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestStatsCountsPastExpiryAsExpired(t *testing.T) {
	svc, vouchers, _ := newTestVoucherService(newStubPlanRepository(activePlan()))
	ctx := context.Background()

	batch, err := svc.Generate(ctx, nil, GenerateInput{PlanID: "plan-1", Quantity: 2})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	// An unused code past its expiry keeps status "unused" in storage but
	// must be reported as expired, not unused.
	for _, v := range vouchers.vouchers {
		if v.Code == batch[0].Code {
			past := time.Now().Add(-time.Hour)
			v.ExpiresAt = &past
		}
	}

	stats, err := svc.Stats(ctx, nil)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Expired != 1 {
		t.Fatalf("expired: got %d, want 1 (%+v)", stats.Expired, stats)
	}
	if stats.Unused != 1 {
		t.Fatalf("unused: got %d, want 1 (%+v)", stats.Unused, stats)
	}
}

func TestRandomCodeUniformAlphabet(t *testing.T) {
	counts := make(map[rune]int)
	for i := 0; i < 500; i++ {
		code, err := randomCode(codeLength)
		if err != nil {
			t.Fatalf("randomCode returned error: %v", err)
		}
		if len(code) != codeLength {
			t.Fatalf("expected %d characters, got %q", codeLength, code)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q contains out-of-alphabet character %q", code, c)
			}
			counts[c]++
		}
	}

	// 5000 draws over 31 characters: every character should appear.
	if len(counts) != len(codeAlphabet) {
		t.Fatalf("only %d of %d alphabet characters drawn", len(counts), len(codeAlphabet))
	}
}
