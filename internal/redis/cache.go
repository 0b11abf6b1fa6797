package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"zattar/internal/domain/listing"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - listing:{listing_id} - listing detail cache

// CacheConfig contains configuration for caching
type CacheConfig struct {
	ListingTTL time.Duration
}

// DefaultCacheConfig returns sensible defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ListingTTL: 5 * time.Minute,
	}
}

// CacheStore is a read-through cache for hot listing reads.
type CacheStore struct {
	client *goredis.Client
	config CacheConfig
}

func NewCacheStore(client *goredis.Client, config CacheConfig) *CacheStore {
	return &CacheStore{client: client, config: config}
}

func listingKey(id uuid.UUID) string {
	return fmt.Sprintf("listing:%s", id)
}

// GetListing returns the cached listing, or false on miss. Redis errors are
// treated as misses so the database stays the source of truth.
func (c *CacheStore) GetListing(ctx context.Context, id uuid.UUID) (listing.Listing, bool) {
	data, err := c.client.Get(ctx, listingKey(id)).Bytes()
	if err != nil {
		return listing.Listing{}, false
	}
	var l listing.Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return listing.Listing{}, false
	}
	return l, true
}

func (c *CacheStore) SetListing(ctx context.Context, l listing.Listing) error {
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingKey(l.ID), data, c.config.ListingTTL).Err()
}

func (c *CacheStore) InvalidateListing(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, listingKey(id)).Err()
}
