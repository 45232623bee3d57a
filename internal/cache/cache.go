// Package cache implements the fixed-capacity, access-ordered funko cache.
//
// Two eviction policies compose: inserting beyond capacity evicts the least
// recently touched entry, and a periodic sweep drops entries whose funko has
// not been refreshed within the max age, regardless of capacity pressure.
package cache

import (
	"container/list"
	"log/slog"
	"sync"
	"time"

	"github.com/popcatalog/popcatalog-go/internal/model"
)

type entry struct {
	key   int
	funko model.Funko
}

// Cache maps a funko's public id to the funko. All methods are safe for
// concurrent use.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	maxAge  time.Duration
	entries map[int]*list.Element
	order   *list.List // front is most recently touched

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a cache holding at most maxSize entries. Entries older than
// maxAge (by their funko's UpdatedAt) are removed by the sweep.
func New(maxSize int, maxAge time.Duration) *Cache {
	return &Cache{
		maxSize: maxSize,
		maxAge:  maxAge,
		entries: make(map[int]*list.Element, maxSize),
		order:   list.New(),
		done:    make(chan struct{}),
	}
}

// Put stores a funko under key, overwriting any previous value and marking
// the entry most recently touched. If the insert would exceed capacity, the
// least recently touched entry is evicted first.
func (c *Cache) Put(key int, f model.Funko) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).funko = f
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = c.order.PushFront(&entry{key: key, funko: f})
}

// Get returns the funko under key if present, marking it most recently
// touched. A miss is signalled by the second return value, not an error.
func (c *Cache) Get(key int) (model.Funko, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return model.Funko{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).funko, true
}

// Remove deletes the entry under key. Removing an absent key is a no-op.
func (c *Cache) Remove(key int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.Remove(el)
		delete(c.entries, key)
	}
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[int]*list.Element, c.maxSize)
	c.order.Init()
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// StartSweeper launches the background age sweep, running every period
// until Shutdown is called.
func (c *Cache) StartSweeper(every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.evictStale(time.Now())
			case <-c.done:
				return
			}
		}
	}()
}

// Shutdown stops the background sweep. It is safe to call more than once
// and safe to call even if the sweeper was never started.
func (c *Cache) Shutdown() {
	c.stopOnce.Do(func() { close(c.done) })
}

// evictStale removes every entry whose funko was last updated more than
// maxAge before now.
func (c *Cache) evictStale(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, el := range c.entries {
		if el.Value.(*entry).funko.UpdatedAt.Add(c.maxAge).Before(now) {
			slog.Debug("evicting stale funko from cache", "id", key)
			c.order.Remove(el)
			delete(c.entries, key)
		}
	}
}

// evictOldest removes the least recently touched entry. Caller holds the lock.
func (c *Cache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	e := el.Value.(*entry)
	slog.Debug("evicting funko from cache at capacity", "id", e.key)
	c.order.Remove(el)
	delete(c.entries, e.key)
}
