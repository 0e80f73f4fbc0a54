// Package cache provides the in-process session cache used when no Redis
// address is configured. Entries are resolved sessions keyed by cookie-token
// hash; a bounded TTL keeps a revoked upstream token from being trusted for
// long.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/eventra/gateway/core"
)

// Config configures cache behavior.
type Config struct {
	TTL     time.Duration
	MaxSize int
}

// Stats are simple counters for cache behavior, intended for diagnostics.
type Stats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

type cachedRecord struct {
	session  *core.Session
	cachedAt time.Time
}

// Memory is an in-memory TTL cache implementing core.Cache.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*cachedRecord
	ttl     time.Duration
	maxSize int

	// counters
	hits      int64
	misses    int64
	sets      int64
	deletes   int64
	evictions int64
}

var _ core.Cache = (*Memory)(nil)

// New creates an in-memory session cache. Zero values fall back to a 5 minute
// TTL and 500 entries.
func New(c Config) *Memory {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxSize == 0 {
		c.MaxSize = 500
	}

	return &Memory{
		entries: make(map[string]*cachedRecord),
		ttl:     c.TTL,
		maxSize: c.MaxSize,
	}
}

func (c *Memory) Get(tokenHash string) (*core.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, exists := c.entries[tokenHash]
	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return nil, core.ErrCacheNotFound
	}

	if time.Since(record.cachedAt) > c.ttl {
		delete(c.entries, tokenHash)
		atomic.AddInt64(&c.misses, 1)
		return nil, core.ErrCacheNotFound
	}

	atomic.AddInt64(&c.hits, 1)
	return record.session, nil
}

func (c *Memory) Set(tokenHash string, session *core.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple eviction if full
	if _, exists := c.entries[tokenHash]; !exists && len(c.entries) >= c.maxSize {
		for k := range c.entries {
			delete(c.entries, k)
			atomic.AddInt64(&c.evictions, 1)
			break
		}
	}

	c.entries[tokenHash] = &cachedRecord{
		session:  session,
		cachedAt: time.Now(),
	}

	atomic.AddInt64(&c.sets, 1)
	return nil
}

func (c *Memory) Delete(tokenHash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, existed := c.entries[tokenHash]; existed {
		delete(c.entries, tokenHash)
		atomic.AddInt64(&c.deletes, 1)
	}
	return nil
}

func (c *Memory) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cachedRecord)
	return nil
}

func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Memory) Stats() Stats {
	return Stats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Sets:      atomic.LoadInt64(&c.sets),
		Deletes:   atomic.LoadInt64(&c.deletes),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      c.Len(),
		TTL:       c.ttl,
	}
}
