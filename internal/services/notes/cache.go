package notes

import (
	"container/list"
	"time"
)

// entry is the cached state of one key. Guarded by Coordinator.mu.
type entry struct {
	key       QueryKey
	status    Status
	result    Result
	hasData   bool
	fetchedAt time.Time
	stale     bool
	err       error

	// flight is the singleflight key of the outstanding fetch, "" when idle.
	flight   string
	flightFn func() (any, error)
	// fetchGen is the invalidation generation the last fetch started in.
	fetchGen uint64

	elem *list.Element
}

// cache is a bounded LRU of entries. It is not safe for concurrent use.
type cache struct {
	max   int
	items map[QueryKey]*entry
	order *list.List // front = most recently used
}

func newCache(max int) *cache {
	return &cache{
		max:   max,
		items: make(map[QueryKey]*entry),
		order: list.New(),
	}
}

func (c *cache) get(key QueryKey) *entry {
	e, ok := c.items[key]
	if !ok {
		return nil
	}
	c.order.MoveToFront(e.elem)
	return e
}

// getOrCreate returns the entry for key, creating it and evicting the least
// recently used idle entry when over capacity. pinned is never evicted.
func (c *cache) getOrCreate(key QueryKey, pinned QueryKey) *entry {
	if e := c.get(key); e != nil {
		return e
	}
	e := &entry{key: key, status: StatusEmpty}
	e.elem = c.order.PushFront(e)
	c.items[key] = e
	c.evict(pinned)
	return e
}

func (c *cache) evict(pinned QueryKey) {
	for el := c.order.Back(); el != nil && len(c.items) > c.max; {
		prev := el.Prev()
		e := el.Value.(*entry)
		if e.key != pinned && e.flight == "" && el != c.order.Front() {
			c.order.Remove(el)
			delete(c.items, e.key)
		}
		el = prev
	}
}

func (c *cache) each(fn func(*entry)) {
	for el := c.order.Front(); el != nil; el = el.Next() {
		fn(el.Value.(*entry))
	}
}

func (c *cache) len() int {
	return len(c.items)
}
