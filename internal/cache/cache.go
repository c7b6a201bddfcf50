package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache stores fetched article bodies so the relatedness filter and the
// keyword scorer never hit the same URL twice within a run.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration)
}

// Key derives a stable cache key from an article URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "companynews:v1:" + hex.EncodeToString(hash[:])
}

// Memory is the in-process implementation backing a single pipeline run (and
// overlapping runs in the HTTP server, which share one instance).
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates a memory cache with the given default TTL; expired
// entries are swept at twice the TTL.
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{cache: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (m *Memory) Get(key string) (string, bool) {
	if val, found := m.cache.Get(key); found {
		return val.(string), true
	}
	return "", false
}

func (m *Memory) Set(key string, value string, ttl time.Duration) {
	m.cache.Set(key, value, ttl)
}
