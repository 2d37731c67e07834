package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/hotspot-service/internal/domain"
)

func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStatsCacheInvalidatedForAllLocations(t *testing.T) {
	client := testRedisClient(t)
	vouchers := newStubVoucherRepository()
	svc := NewVoucherService(vouchers, newStubPlanRepository(activePlan()), nil, client, nil)
	ctx := context.Background()

	// Warm the all-locations key and a per-location key.
	if _, err := svc.Stats(ctx, nil); err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	loc := "loc-1"
	if _, err := svc.Stats(ctx, &loc); err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	for _, key := range []string{"voucher_stats:all", "voucher_stats:loc-1"} {
		if err := client.Get(ctx, key).Err(); err != nil {
			t.Fatalf("expected %s to be cached: %v", key, err)
		}
	}

	if _, err := svc.Generate(ctx, nil, GenerateInput{PlanID: "plan-1", Quantity: 3}); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	// Generation must drop every cached aggregate, not just the all key.
	for _, key := range []string{"voucher_stats:all", "voucher_stats:loc-1"} {
		if err := client.Get(ctx, key).Err(); err != redis.Nil {
			t.Fatalf("expected %s to be invalidated, got %v", key, err)
		}
	}

	stats, err := svc.Stats(ctx, nil)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("fresh stats total: got %d, want 3", stats.Total)
	}
}

func TestStatsServedFromCache(t *testing.T) {
	client := testRedisClient(t)
	vouchers := newStubVoucherRepository()
	svc := NewVoucherService(vouchers, newStubPlanRepository(activePlan()), nil, client, nil)
	ctx := context.Background()

	first, err := svc.Stats(ctx, nil)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}

	// Write behind the cache; within the TTL the cached aggregate wins.
	batch := []domain.Voucher{{Code: "UNCACHEDXX", PlanID: "plan-1", BatchID: "batch-x", Status: domain.VoucherStatusUnused}}
	if err := vouchers.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("CreateBatch returned error: %v", err)
	}

	cached, err := svc.Stats(ctx, nil)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if cached.Total != first.Total {
		t.Fatalf("expected cached total %d, got %d", first.Total, cached.Total)
	}
}

func TestLoginThrottleWindow(t *testing.T) {
	client := testRedisClient(t)
	throttle := NewLoginThrottle(client, zap.NewNop(), 3, time.Minute)
	ctx := context.Background()

	if throttle.TooMany(ctx, "admin@example.com") {
		t.Fatalf("fresh email should not be throttled")
	}
	for i := 0; i < 3; i++ {
		throttle.RecordFailure(ctx, "admin@example.com")
	}
	if !throttle.TooMany(ctx, "admin@example.com") {
		t.Fatalf("expected throttle after 3 failures")
	}

	// The key is case-insensitive like the email lookup.
	if !throttle.TooMany(ctx, "ADMIN@example.com") {
		t.Fatalf("throttle should ignore email case")
	}

	throttle.Reset(ctx, "admin@example.com")
	if throttle.TooMany(ctx, "admin@example.com") {
		t.Fatalf("reset should clear the counter")
	}
}
