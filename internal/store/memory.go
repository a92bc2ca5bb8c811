package store

import (
	"errors"
	"time"

	"github.com/coocood/freecache"
)

// MemoryBackend holds values in a freecache segment with a TTL, so an
// entry disappears on its own once the cache duration has passed.
type MemoryBackend struct {
	cache *freecache.Cache
	ttl   int
}

// NewMemoryBackend allocates sizeMB of cache (min 1MB); ttl <= 0 keeps entries forever.
func NewMemoryBackend(sizeMB int, ttl time.Duration) *MemoryBackend {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	seconds := 0
	if ttl > 0 {
		seconds = max(int(ttl.Seconds()), 1)
	}
	return &MemoryBackend{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   seconds,
	}
}

func (m *MemoryBackend) Get(key string) ([]byte, error) {
	val, err := m.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (m *MemoryBackend) Set(key string, value []byte) error {
	return m.cache.Set([]byte(key), value, m.ttl)
}
