package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const (
	keyRedemptionLock = "redeem:lock:%s:%s"

	// A submission that has not reached the ledger within this window is
	// presumed lost; the lock expires rather than wedging the card.
	redemptionLockTTL = 10 * time.Second
)

// The token comparison makes release safe after expiry: a lock that timed
// out and was re-acquired by a retry is never deleted by the first holder.
const redemptionLockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// RedemptionLock serializes redemption submissions for one user at one
// store, so a double-tapped redeem button produces a single ledger insert.
type RedemptionLock struct {
	client *redis.Client
	script *redis.Script
}

func NewRedemptionLock(client *redis.Client) *RedemptionLock {
	if client == nil {
		return nil
	}
	return &RedemptionLock{
		client: client,
		script: redis.NewScript(redemptionLockReleaseScript),
	}
}

func redemptionLockKey(userID, storeID string) string {
	return fmt.Sprintf(keyRedemptionLock, strings.TrimSpace(userID), strings.TrimSpace(storeID))
}

// Acquire takes the user/store lock via SetNX. The returned token must be
// passed back to Release.
func (l *RedemptionLock) Acquire(ctx context.Context, userID, storeID string) (string, bool, error) {
	if l == nil || l.client == nil {
		return "", false, errors.New("redemption lock client not configured")
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(storeID) == "" {
		return "", false, errors.New("redemption lock requires user and store")
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, redemptionLockKey(userID, storeID), token, redemptionLockTTL).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (l *RedemptionLock) Release(ctx context.Context, userID, storeID, token string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if token == "" {
		return nil
	}
	return l.script.Run(ctx, l.client, []string{redemptionLockKey(userID, storeID)}, token).Err()
}
