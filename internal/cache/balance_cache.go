package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const balanceTTL = 10 * time.Minute

// BalanceCache is a best-effort quick-access copy of profile balances in
// redis. Postgres stays the source of truth; a nil cache or a redis fault
// never fails a ledger operation.
type BalanceCache struct {
	client *redis.Client
}

// New connects to redis and verifies the connection. Returns nil (disabled
// cache) when addr is empty or the ping fails, so callers stay fail-open.
func New(addr, password string) *BalanceCache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return &BalanceCache{client: client}
}

func key(profileID string) string {
	return "mypts:balance:" + profileID
}

func (c *BalanceCache) Get(ctx context.Context, profileID string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	raw, err := c.client.Get(ctx, key(profileID)).Result()
	if err != nil {
		return 0, false
	}
	balance, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return balance, true
}

func (c *BalanceCache) Set(ctx context.Context, profileID string, balance int64) {
	if c == nil {
		return
	}
	_ = c.client.Set(ctx, key(profileID), strconv.FormatInt(balance, 10), balanceTTL).Err()
}

func (c *BalanceCache) Invalidate(ctx context.Context, profileID string) {
	if c == nil {
		return
	}
	_ = c.client.Del(ctx, key(profileID)).Err()
}
