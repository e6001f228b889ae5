package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/khasm-app/khasm/internal/config"
)

const keyRedeemUser = "redeem:user:%s"

// RedeemLimiter throttles redemption attempts per user. It is disabled when
// no redis address is configured, in which case every call is allowed.
type RedeemLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *RedemptionLock

	rate  float64
	burst int
}

func NewRedeemLimiter(cfg config.Config) *RedeemLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &RedeemLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		locker:  NewRedemptionLock(client),
		rate:    cfg.RedeemRate,
		burst:   cfg.RedeemBurst,
	}
}

func (l *RedeemLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *RedeemLimiter) AllowUser(ctx context.Context, userID string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyRedeemUser, strings.TrimSpace(userID)), l.rate, l.burst)
}

// TryLockRedemption guards a single user/store redemption against
// concurrent submissions from the same client.
func (l *RedeemLimiter) TryLockRedemption(ctx context.Context, userID, storeID string) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.locker.Acquire(ctx, userID, storeID)
}

func (l *RedeemLimiter) ReleaseRedemption(ctx context.Context, userID, storeID, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.locker.Release(ctx, userID, storeID, token)
}
