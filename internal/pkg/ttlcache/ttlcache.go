// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package ttlcache provides an in-process cache with per-entry time-to-live
// evaluated against an injectable clock.
//
// Entries are stored in a go-cache store with expiration disabled. Expiry is
// evaluated only against the injected clock.
package ttlcache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Clock returns the current time.
type Clock func() time.Time

// CacheEntry is a cached value with the time it was stored and its time-to-live.
type CacheEntry[T any] struct {
	// Data is the cached value.
	Data T
	// Timestamp is when the entry was stored.
	Timestamp time.Time
	// TTL is the time-to-live. Zero means the entry never expires.
	TTL time.Duration
}

// Expired returns true if the entry has outlived its TTL at the given time.
func (e CacheEntry[T]) Expired(now time.Time) bool {
	return e.TTL > 0 && now.Sub(e.Timestamp) >= e.TTL
}

// Cache is a concurrency-safe TTL cache keyed by normalized strings.
type Cache[T any] struct {
	store *gocache.Cache
	ttl   time.Duration
	clock Clock
}

// Option is an option for a new Cache.
type Option func(*options)

// WithClock returns a new Option that sets the clock used to evaluate expiry.
//
// The default is time.Now.
func WithClock(clock Clock) Option {
	return func(options *options) {
		if clock != nil {
			options.clock = clock
		}
	}
}

// New returns a new Cache whose entries live for ttl.
func New[T any](ttl time.Duration, opts ...Option) *Cache[T] {
	options := &options{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}
	return &Cache[T]{
		// No go-cache expiration or janitor, expiry is evaluated on read.
		store: gocache.New(gocache.NoExpiration, 0),
		ttl:   ttl,
		clock: options.clock,
	}
}

// Get returns the cached value for the key if present and not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	entry, ok := c.GetEntry(key)
	if !ok {
		var zero T
		return zero, false
	}
	return entry.Data, true
}

// GetEntry returns the cached entry for the key if present and not expired.
//
// Expired entries are evicted.
func (c *Cache[T]) GetEntry(key string) (CacheEntry[T], bool) {
	normalizedKey := NormalizeKey(key)
	value, ok := c.store.Get(normalizedKey)
	if !ok {
		return CacheEntry[T]{}, false
	}
	entry, ok := value.(CacheEntry[T])
	if !ok {
		return CacheEntry[T]{}, false
	}
	if entry.Expired(c.clock()) {
		c.store.Delete(normalizedKey)
		return CacheEntry[T]{}, false
	}
	return entry, true
}

// Set stores the value with the cache's TTL.
func (c *Cache[T]) Set(key string, data T) {
	c.SetWithTTL(key, data, c.ttl)
}

// SetWithTTL stores the value with the given TTL.
func (c *Cache[T]) SetWithTTL(key string, data T, ttl time.Duration) {
	c.store.Set(
		NormalizeKey(key),
		CacheEntry[T]{
			Data:      data,
			Timestamp: c.clock(),
			TTL:       ttl,
		},
		gocache.NoExpiration,
	)
}

// Delete removes the entry for the key.
func (c *Cache[T]) Delete(key string) {
	c.store.Delete(NormalizeKey(key))
}

// Len returns the number of stored entries, including expired entries not yet evicted.
func (c *Cache[T]) Len() int {
	return c.store.ItemCount()
}

// NormalizeKey upper-cases and trims the key parts and joins them with ":".
func NormalizeKey(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, part := range parts {
		normalized[i] = strings.ToUpper(strings.TrimSpace(part))
	}
	return strings.Join(normalized, ":")
}

// *** PRIVATE ***

type options struct {
	clock Clock
}
