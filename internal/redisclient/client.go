package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// NameCacheTTL bounds how stale a cached in-stock name list can get even if
// an invalidation is lost.
const NameCacheTTL = 5 * time.Minute

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func namesKey(ownerID int64) string {
	return fmt.Sprintf("pantry:names:%d", ownerID)
}

// GetInStockNames retrieves the cached in-stock name list for an owner.
// The second return value reports a cache hit.
func (c *Client) GetInStockNames(ctx context.Context, ownerID int64) ([]string, bool, error) {
	data, err := c.rdb.Get(ctx, namesKey(ownerID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached names: %w", err)
	}
	return names, true, nil
}

// SetInStockNames caches the in-stock name list for an owner.
func (c *Client) SetInStockNames(ctx context.Context, ownerID int64, names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to encode names: %w", err)
	}
	return c.rdb.Set(ctx, namesKey(ownerID), data, NameCacheTTL).Err()
}

// InvalidateNames drops the cached name list after any inventory mutation.
func (c *Client) InvalidateNames(ctx context.Context, ownerID int64) error {
	return c.rdb.Del(ctx, namesKey(ownerID)).Err()
}
