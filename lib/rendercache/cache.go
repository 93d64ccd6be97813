// Package rendercache caches server-rendered component markup.
//
// Server rendering is deterministic for a given component, render mode and
// props, so repeated renders of the same input can reuse earlier output. The
// container element is not cached; only the markup inside it.
package rendercache

import (
	"container/list"
	"sync"

	"github.com/pthm/reactssr/lib/encoding"
)

// Cache is a bounded, least-recently-used cache of rendered markup. It can
// safely be used by multiple goroutines.
type Cache struct {
	mu    sync.Mutex
	max   int
	ll    *list.List
	items map[uint64]*list.Element
}

type entry struct {
	key  uint64
	html string
}

// New returns a Cache holding at most max entries. A max below one yields a
// cache that stores nothing.
func New(max int) *Cache {
	return &Cache{
		max:   max,
		ll:    list.New(),
		items: make(map[uint64]*list.Element),
	}
}

// Key derives the cache key of a render. propsJSON is the serialized props
// as handed to the engine.
func Key(component string, serverOnly bool, propsJSON string) (uint64, error) {
	return encoding.Fingerprint(component, serverOnly, propsJSON)
}

// Get returns the markup stored under key.
func (c *Cache) Get(key uint64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return "", false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry).html, true
}

// Add stores html under key, evicting the least recently used entry when the
// cache is full.
func (c *Cache) Add(key uint64, html string) {
	if c.max < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*entry).html = html
		c.ll.MoveToFront(el)
		return
	}
	c.items[key] = c.ll.PushFront(&entry{key: key, html: html})
	for c.ll.Len() > c.max {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).key)
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Purge drops every entry, e.g. after the scripts were reloaded.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[uint64]*list.Element)
}
