package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
)

const statusTTL = 5 * time.Minute

// UserStatus is the combined wallet + active subscription payload the UI
// polls between actions.
type UserStatus struct {
	Wallet       *models.CreditWallet `json:"wallet"`
	Subscription *models.Subscription `json:"subscription"`
}

// StatusCache is a cache-aside layer over the status read. A nil *StatusCache
// is valid and degrades to straight DB reads, so Redis stays optional.
type StatusCache struct {
	rdb *redis.Client
	lg  *zap.SugaredLogger
}

// New returns nil when addr is empty.
func New(addr string, lg *zap.SugaredLogger) *StatusCache {
	if addr == "" {
		return nil
	}
	return &StatusCache{rdb: redis.NewClient(&redis.Options{Addr: addr}), lg: lg}
}

func key(userID string) string { return "status:" + userID }

func (c *StatusCache) Get(ctx context.Context, userID string) (*UserStatus, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.lg.Debugw("status cache get failed", "error", err)
		}
		return nil, false
	}
	var st UserStatus
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, false
	}
	return &st, true
}

func (c *StatusCache) Set(ctx context.Context, userID string, st *UserStatus) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(userID), raw, statusTTL).Err(); err != nil {
		c.lg.Debugw("status cache set failed", "error", err)
	}
}

// Invalidate drops the cached status after a debit or a webhook write.
func (c *StatusCache) Invalidate(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, key(userID)).Err(); err != nil {
		c.lg.Debugw("status cache invalidate failed", "error", err)
	}
}
