package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedProvider fronts EmbedOne with a Redis cache keyed by a hash of
// the normalized query. Repeated questions skip the provider round trip.
// Document batches are not cached; ingestion runs once per resource.
type CachedProvider struct {
	inner Provider
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedProvider(inner Provider, rdb *redis.Client, ttl time.Duration) Provider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedProvider{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *CachedProvider) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	return c.inner.EmbedMany(ctx, texts)
}

func (c *CachedProvider) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(normalizeQuery(text))

	if cached, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var vec []float32
		if err := json.Unmarshal(cached, &vec); err == nil && len(vec) > 0 {
			return vec, nil
		}
	}

	vec, err := c.inner.EmbedOne(ctx, text)
	if err != nil {
		return nil, err
	}

	// Cache write failures are not worth failing the query over.
	if payload, err := json.Marshal(vec); err == nil {
		c.rdb.Set(ctx, key, payload, c.ttl)
	}

	return vec, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("embed:query:%x", sum)
}
