// Package lru provides a bounded least-recently-used cache.
package lru

import (
	"container/list"
	"sync"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 100

// Cache is a bounded LRU cache. Entries leave only when capacity forces
// an eviction or when removed explicitly. It is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*list.Element
	order    *list.List
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// New creates a cache holding at most capacity entries.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// Get returns the value stored under key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*entry[K, V]).value, true //nolint:errcheck // list only contains *entry
}

// Set stores value under key, evicting the least recently used entry
// if the cache is full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*entry[K, V]).value = value //nolint:errcheck // list only contains *entry
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}

	elem := c.order.PushFront(&entry[K, V]{key: key, value: value})
	c.items[key] = elem
}

// Delete removes key from the cache.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.order.Init()
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Cap returns the maximum number of entries.
func (c *Cache[K, V]) Cap() int {
	return c.capacity
}

// evictOldest removes the least recently used entry.
// Must be called with lock held.
func (c *Cache[K, V]) evictOldest() {
	if elem := c.order.Back(); elem != nil {
		c.removeElement(elem)
	}
}

// removeElement must be called with lock held.
func (c *Cache[K, V]) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*entry[K, V]).key) //nolint:errcheck // list only contains *entry
}
