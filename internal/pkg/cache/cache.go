package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is a read-through cache keyed by string. Writers call Invalidate
// after the row behind a key is rewritten and committed.
type Cache[V any] interface {
	Load(ctx context.Context, key string, loader func(ctx context.Context) (V, error)) (V, error)
	Invalidate(keys ...string)
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Memory is an in-process Cache. Each key carries a generation counter that
// Invalidate bumps, so a load that started before an invalidation never
// stores its (possibly stale) result.
type Memory[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[V]
	gens    map[string]uint64
}

// NewMemory returns a Memory cache. A ttl of 0 keeps entries until invalidated.
func NewMemory[V any](ttl time.Duration) *Memory[V] {
	return &Memory[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
		gens:    make(map[string]uint64),
	}
}

func (c *Memory[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.ttl > 0 && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Memory[V]) Load(ctx context.Context, key string, loader func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.Lock()
	gen := c.gens[key]
	c.mu.Unlock()

	v, err := loader(ctx)
	if err != nil {
		return v, err
	}

	c.mu.Lock()
	if c.gens[key] == gen {
		c.entries[key] = entry[V]{value: v, expiresAt: c.now().Add(c.ttl)}
	}
	c.mu.Unlock()
	return v, nil
}

func (c *Memory[V]) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.gens[k]++
	}
}

// Len reports the number of cached entries, expired or not.
func (c *Memory[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Disabled always calls the loader.
type Disabled[V any] struct{}

func (Disabled[V]) Load(ctx context.Context, _ string, loader func(ctx context.Context) (V, error)) (V, error) {
	return loader(ctx)
}

func (Disabled[V]) Invalidate(...string) {}
