package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lifedrop/lifedrop/internal/inventory/domain"
	"github.com/redis/go-redis/v9"
)

const (
	stockSummaryKey = "lifedrop:stock_summary"
	stockSummaryTTL = 60 * time.Second
)

// StockCache is a cache-aside layer for the stock summary. A nil
// redis client disables it; every method becomes a no-op miss.
type StockCache struct {
	client *redis.Client
}

func NewStockCache(client *redis.Client) *StockCache {
	return &StockCache{client: client}
}

// Get returns the cached summary, or nil on a miss.
func (c *StockCache) Get(ctx context.Context) ([]domain.StockSummary, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	val, err := c.client.Get(ctx, stockSummaryKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var summaries []domain.StockSummary
	if err := json.Unmarshal([]byte(val), &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *StockCache) Set(ctx context.Context, summaries []domain.StockSummary) error {
	if c == nil || c.client == nil {
		return nil
	}

	val, err := json.Marshal(summaries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, stockSummaryKey, val, stockSummaryTTL).Err()
}

// Invalidate drops the cached summary after any inventory write.
func (c *StockCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, stockSummaryKey).Err()
}
