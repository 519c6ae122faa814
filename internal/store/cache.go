package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"trivia/internal/question"

	"github.com/redis/go-redis/v9"
)

const categoriesKey = "trivia:categories"

const defaultCategoryCacheTTL = 5 * time.Minute

// CachedStore serves category reads from Redis and delegates everything else
// to the wrapped store. Redis failures fall through to the wrapped store.
type CachedStore struct {
	question.Store
	redis *redis.Client
	ttl   time.Duration
}

func WithCategoryCache(inner question.Store, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = defaultCategoryCacheTTL
	}
	return &CachedStore{Store: inner, redis: client, ttl: ttl}
}

func (c *CachedStore) ListCategories(ctx context.Context) ([]question.Category, error) {
	data, err := c.redis.Get(ctx, categoriesKey).Bytes()
	switch {
	case err == nil:
		var items []question.Category
		if jsonErr := json.Unmarshal(data, &items); jsonErr == nil {
			return items, nil
		}
		log.Printf("category cache entry is corrupt, reloading key=%s", categoriesKey)
	case !errors.Is(err, redis.Nil):
		log.Printf("category cache read failed key=%s err=%v", categoriesKey, err)
	}

	items, err := c.Store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return items, nil
	}
	if err := c.redis.Set(ctx, categoriesKey, payload, c.ttl).Err(); err != nil {
		log.Printf("category cache write failed key=%s err=%v", categoriesKey, err)
	}
	return items, nil
}

func (c *CachedStore) GetCategory(ctx context.Context, id int64) (*question.Category, error) {
	items, err := c.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, question.ErrCategoryNotFound
}

// InvalidateCategories drops the cached category list.
func InvalidateCategories(ctx context.Context, client *redis.Client) error {
	if err := client.Del(ctx, categoriesKey).Err(); err != nil {
		return fmt.Errorf("invalidate category cache: %w", err)
	}
	return nil
}
