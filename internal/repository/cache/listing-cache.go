package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/redis/go-redis/v9"
)

type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingCache(ctx context.Context, addr string, ttl time.Duration) (*ListingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &ListingCache{client: client, ttl: ttl}, nil
}

// NewListingCacheWithClient skips the connectivity check.
func NewListingCacheWithClient(client *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

func listingKey(id uint) string {
	return "listing:" + strconv.FormatUint(uint64(id), 10)
}

// GetListing returns nil, nil on a cache miss.
func (c *ListingCache) GetListing(ctx context.Context, id uint) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, listingKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *ListingCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingKey(listing.ID), data, c.ttl).Err()
}

func (c *ListingCache) DeleteListing(ctx context.Context, id uint) error {
	return c.client.Del(ctx, listingKey(id)).Err()
}

func (c *ListingCache) Close() error {
	return c.client.Close()
}
