package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dariga-s/bakehouse/internal/config"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

const balanceTTL = 5 * time.Minute

// balanceCache caches loyalty balances for fast reads. The ledger remains
// the source of truth; entries expire quickly and are overwritten on every
// ledger append.
type balanceCache struct {
	client *redis.Client
}

func NewBalanceCache(cfg config.RedisConfig) interfaces.BalanceCache {
	return &balanceCache{
		client: redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		}),
	}
}

func (c *balanceCache) Get(ctx context.Context, storeID, customerID int64) (int, bool, error) {
	val, err := c.client.Get(ctx, c.key(storeID, customerID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	balance, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt balance entry: %w", err)
	}
	return balance, true, nil
}

func (c *balanceCache) Set(ctx context.Context, storeID, customerID int64, balance int) error {
	return c.client.Set(ctx, c.key(storeID, customerID), balance, balanceTTL).Err()
}

func (c *balanceCache) Invalidate(ctx context.Context, storeID, customerID int64) error {
	return c.client.Del(ctx, c.key(storeID, customerID)).Err()
}

func (c *balanceCache) key(storeID, customerID int64) string {
	return fmt.Sprintf("loyalty:balance:%d:%d", storeID, customerID)
}

// NopCache satisfies the cache seam when redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, int64, int64) (int, bool, error) { return 0, false, nil }
func (NopCache) Set(context.Context, int64, int64, int) error         { return nil }
func (NopCache) Invalidate(context.Context, int64, int64) error       { return nil }
