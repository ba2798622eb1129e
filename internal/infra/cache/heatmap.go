package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"booking-core/internal/domain/availability"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const keyPrefix = "heatmap:"

// RedisHeatmapCache stores computed heatmaps as JSON. Keys carry the provider's
// generation, which Invalidate advances; a heatmap computed before an invalidation
// is written under the old generation and never read. Each provider also has an
// index set of its keys so invalidation can drop them at once.
type RedisHeatmapCache struct {
	client *redis.Client
}

func NewRedisHeatmapCache(client *redis.Client) *RedisHeatmapCache {
	return &RedisHeatmapCache{client: client}
}

func HeatmapKey(providerID uuid.UUID, gen int64, from, to time.Time) string {
	return fmt.Sprintf("%s%s:g%d:%s:%s", keyPrefix, providerID, gen, from.Format(time.DateOnly), to.Format(time.DateOnly))
}

func indexKey(providerID uuid.UUID) string {
	return fmt.Sprintf("%sindex:%s", keyPrefix, providerID)
}

func generationKey(providerID uuid.UUID) string {
	return fmt.Sprintf("%sgen:%s", keyPrefix, providerID)
}

func (c *RedisHeatmapCache) Generation(ctx context.Context, providerID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(providerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisHeatmapCache) Get(ctx context.Context, providerID uuid.UUID, gen int64, from, to time.Time) (*availability.Heatmap, bool, error) {
	val, err := c.client.Get(ctx, HeatmapKey(providerID, gen, from, to)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var hm availability.Heatmap
	if err := json.Unmarshal(val, &hm); err != nil {
		// corrupt entry, treat as a miss and let the caller overwrite it
		return nil, false, nil
	}
	return &hm, true, nil
}

func (c *RedisHeatmapCache) Set(ctx context.Context, providerID uuid.UUID, gen int64, from, to time.Time, hm availability.Heatmap, ttl time.Duration) error {
	data, err := json.Marshal(hm)
	if err != nil {
		return err
	}
	key := HeatmapKey(providerID, gen, from, to)
	idx := indexKey(providerID)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, data, ttl)
	pipe.SAdd(ctx, idx, key)
	pipe.Expire(ctx, idx, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *RedisHeatmapCache) Invalidate(ctx context.Context, providerID uuid.UUID) error {
	if err := c.client.Incr(ctx, generationKey(providerID)).Err(); err != nil {
		return err
	}
	idx := indexKey(providerID)
	keys, err := c.client.SMembers(ctx, idx).Result()
	if err != nil {
		return err
	}
	return c.client.Del(ctx, append(keys, idx)...).Err()
}
