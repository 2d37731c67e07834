package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginThrottle counts failed logins per email in Redis. A throttled caller
// still receives the generic denial shape, so the throttle leaks nothing
// about which emails exist. Redis being unreachable disables throttling
// rather than blocking logins.
type LoginThrottle struct {
	client      *redis.Client
	logger      *zap.Logger
	maxFailures int
	window      time.Duration
}

// NewLoginThrottle builds a throttle. client may be nil.
func NewLoginThrottle(client *redis.Client, logger *zap.Logger, maxFailures int, window time.Duration) *LoginThrottle {
	if maxFailures <= 0 {
		maxFailures = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{client: client, logger: logger, maxFailures: maxFailures, window: window}
}

// TooMany reports whether the email has exceeded the allowed failures.
func (t *LoginThrottle) TooMany(ctx context.Context, email string) bool {
	if t == nil || t.client == nil {
		return false
	}
	n, err := t.client.Get(ctx, t.key(email)).Int()
	if err != nil {
		if err != redis.Nil {
			t.logger.Warn("login throttle unavailable", zap.Error(err))
		}
		return false
	}
	return n >= t.maxFailures
}

// RecordFailure bumps the failure counter and refreshes the window.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) {
	if t == nil || t.client == nil {
		return
	}
	key := t.key(email)
	if err := t.client.Incr(ctx, key).Err(); err != nil {
		t.logger.Warn("login throttle unavailable", zap.Error(err))
		return
	}
	_ = t.client.Expire(ctx, key, t.window).Err()
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if t == nil || t.client == nil {
		return
	}
	_ = t.client.Del(ctx, t.key(email)).Err()
}

func (t *LoginThrottle) key(email string) string {
	return fmt.Sprintf("login_fail:%s", strings.ToLower(email))
}
