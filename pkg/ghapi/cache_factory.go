package ghapi

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
)

// CacheType selects the backend that stores revalidation entries.
type CacheType string

const (
	// CacheTypeMemory keeps entries in a process-local LRU.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS keeps entries in a NATS JetStream key-value bucket,
	// shared between processes.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone turns conditional requests off.
	CacheTypeNone CacheType = "none"
)

// Static errors for err113 compliance.
var (
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
)

// CacheConfig describes a cache backend.
type CacheConfig struct {
	Type CacheType

	// MaxSize bounds the memory backend. For NATS a positive MaxSize puts a
	// memory tier of that size in front of the bucket.
	MaxSize int

	NATS *NATSKVConfig
}

// NewCacheFromConfig builds the backend described by config. A nil config
// yields a memory cache of the default size; CacheTypeNone yields
// ErrCacheDisabled so callers can run without one.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = &CacheConfig{Type: CacheTypeMemory}
	}

	switch config.Type {
	case CacheTypeMemory, "":
		size := config.MaxSize
		if size <= 0 {
			size = constants.DefaultCacheSize
		}

		return NewMemoryCache(size), nil

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		shared, err := NewNATSKVCache(config.NATS)
		if err != nil {
			return nil, err
		}

		if config.MaxSize <= 0 {
			return shared, nil
		}

		return NewTieredCache(NewMemoryCache(config.MaxSize), shared), nil

	case CacheTypeNone:
		return nil, ErrCacheDisabled

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

// TieredCache looks entries up fastest tier first. A hit in a slower tier is
// copied into every faster one. Writes go to all tiers.
type TieredCache struct {
	tiers []Cache
}

// NewTieredCache orders tiers from fastest to slowest.
func NewTieredCache(tiers ...Cache) *TieredCache {
	return &TieredCache{tiers: tiers}
}

// Get returns the first live entry for key.
func (c *TieredCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	for i, tier := range c.tiers {
		entry, err := tier.Get(ctx, key)
		if err != nil {
			continue
		}

		for _, faster := range c.tiers[:i] {
			_ = faster.Set(ctx, key, entry)
		}

		return entry, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrKeyNotFoundInAnyCache, key)
}

// Set writes entry to every tier.
func (c *TieredCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return c.each(func(tier Cache) error { return tier.Set(ctx, key, entry) })
}

// Delete removes key from every tier.
func (c *TieredCache) Delete(ctx context.Context, key string) error {
	return c.each(func(tier Cache) error { return tier.Delete(ctx, key) })
}

// Clear empties every tier.
func (c *TieredCache) Clear(ctx context.Context) error {
	return c.each(func(tier Cache) error { return tier.Clear(ctx) })
}

// Has reports whether any tier holds a live entry for key.
func (c *TieredCache) Has(ctx context.Context, key string) bool {
	for _, tier := range c.tiers {
		if tier.Has(ctx, key) {
			return true
		}
	}

	return false
}

// Close releases tiers that hold connections.
func (c *TieredCache) Close() error {
	return c.each(func(tier Cache) error {
		if closer, ok := tier.(io.Closer); ok {
			return closer.Close()
		}

		return nil
	})
}

func (c *TieredCache) each(fn func(tier Cache) error) error {
	errs := make([]error, 0, len(c.tiers))

	for _, tier := range c.tiers {
		errs = append(errs, fn(tier))
	}

	return errors.Join(errs...)
}
