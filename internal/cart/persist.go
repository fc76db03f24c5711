package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/avasquez/dulceria-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// envelopeVersion is bumped when the serialized line format changes.
const envelopeVersion = 1

// Persister is the durable key-value slot behind a session cart.
// Load never fails: a missing or unreadable slot is an empty cart.
type Persister interface {
	Load(ctx context.Context) []Line
	Save(ctx context.Context, lines []Line) error
}

// envelope wraps the line list with schema metadata for forward
// compatibility.
type envelope struct {
	Version int    `json:"version"`
	Lines   []Line `json:"lines"`
}

// RedisPersister stores one guest cart per token in a Redis key with a
// sliding TTL.
type RedisPersister struct {
	client *redis.Client
	token  string
	ttl    time.Duration
}

func NewRedisPersister(client *redis.Client, token string, ttl time.Duration) *RedisPersister {
	return &RedisPersister{
		client: client,
		token:  token,
		ttl:    ttl,
	}
}

func (p *RedisPersister) key() string {
	return fmt.Sprintf("guestcart:%s", p.token)
}

func (p *RedisPersister) Load(ctx context.Context) []Line {
	raw, err := p.client.Get(ctx, p.key()).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		logger.Warn("Failed to load guest cart slot, starting empty", map[string]interface{}{
			"token": p.token,
			"error": err.Error(),
		})
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Version != envelopeVersion {
		logger.Warn("Corrupt or unknown guest cart slot, starting empty", map[string]interface{}{
			"token":   p.token,
			"version": env.Version,
		})
		return nil
	}
	return env.Lines
}

func (p *RedisPersister) Save(ctx context.Context, lines []Line) error {
	raw, err := json.Marshal(envelope{Version: envelopeVersion, Lines: lines})
	if err != nil {
		return fmt.Errorf("failed to encode guest cart: %w", err)
	}

	if err := p.client.Set(ctx, p.key(), raw, p.ttl).Err(); err != nil {
		logger.Error("Failed to persist guest cart slot", err, map[string]interface{}{
			"token": p.token,
		})
		return err
	}
	return nil
}

// MemoryPersister keeps the slot in process memory. Used in tests and
// as a fallback when Redis is not configured. Safe for concurrent use,
// since gin invokes handlers from multiple goroutines.
type MemoryPersister struct {
	mu  sync.Mutex
	raw []byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (p *MemoryPersister) Load(_ context.Context) []Line {
	p.mu.Lock()
	raw := p.raw
	p.mu.Unlock()

	if raw == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Version != envelopeVersion {
		return nil
	}
	return env.Lines
}

func (p *MemoryPersister) Save(_ context.Context, lines []Line) error {
	raw, err := json.Marshal(envelope{Version: envelopeVersion, Lines: lines})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.raw = raw
	p.mu.Unlock()
	return nil
}

// MemoryPersisterCache hands out one MemoryPersister per guest token so
// a token keeps its cart across requests. Concurrent first requests for
// the same token must not mint distinct persisters, so the map is
// guarded.
type MemoryPersisterCache struct {
	mu         sync.Mutex
	persisters map[string]*MemoryPersister
}

func NewMemoryPersisterCache() *MemoryPersisterCache {
	return &MemoryPersisterCache{
		persisters: make(map[string]*MemoryPersister),
	}
}

func (c *MemoryPersisterCache) For(token string) *MemoryPersister {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.persisters[token]; ok {
		return p
	}
	p := NewMemoryPersister()
	c.persisters[token] = p
	return p
}
