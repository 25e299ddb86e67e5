// Package cache provides the query result cache: a bounded LRU with
// per-entry TTL keyed on the normalized query text and the corpus identity.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// Clock abstracts time for TTL checks so expiry is testable without
// sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the real time source.
var SystemClock Clock = systemClock{}

// Key derives the cache key for a query against a corpus snapshot. The
// query is case-folded and whitespace-trimmed first so trivially different
// spellings of the same query share an entry, and the corpus identifier is
// mixed in so a re-indexed corpus never serves stale results.
func Key(query, corpusID string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	sum := sha256.Sum256([]byte(normalized + "\x00" + corpusID))
	return hex.EncodeToString(sum[:])
}

type entry struct {
	key      string
	value    any
	storedAt time.Time
}

// ResultCache is a mutex-guarded LRU with TTL expiry. A read of an expired
// entry removes it; inserting past capacity evicts the least recently used
// entry.
type ResultCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	clock   Clock
	order   *list.List
	entries map[string]*list.Element
}

// New builds a cache holding at most maxSize entries, each valid for ttl.
// A nil clock selects SystemClock.
func New(maxSize int, ttl time.Duration, clock Clock) *ResultCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if clock == nil {
		clock = SystemClock
	}
	return &ResultCache{
		maxSize: maxSize,
		ttl:     ttl,
		clock:   clock,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Get returns the cached value for key, or false on a miss or an expired
// entry.
func (c *ResultCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	e := elem.Value.(*entry)
	if c.ttl > 0 && c.clock.Now().Sub(e.storedAt) >= c.ttl {
		c.order.Remove(elem)
		delete(c.entries, key)
		return nil, false
	}

	c.order.MoveToFront(elem)
	return e.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *ResultCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry)
		e.value = value
		e.storedAt = c.clock.Now()
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*entry).key)
		}
	}

	elem := c.order.PushFront(&entry{key: key, value: value, storedAt: c.clock.Now()})
	c.entries[key] = elem
}

// Len reports the number of live entries, including any not yet observed
// as expired.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Purge clears the cache.
func (c *ResultCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element)
}
