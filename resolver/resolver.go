package resolver

import (
	"sync"

	"github.com/hupe1980/retrieval/model"
	"github.com/hupe1980/retrieval/query"
)

// Func adapts an ordinary function to model.Resolver.
type Func func(uid model.UID) (any, error)

// Resolve implements model.Resolver.
func (f Func) Resolve(uid model.UID) (any, error) { return f(uid) }

// ParentSetter is implemented by items that accept a back-reference to the
// container they were resolved from. The reference is informational; the
// item does not own its container.
type ParentSetter interface {
	SetParent(parent any)
}

// Map resolves items held in memory. Resolved items implementing
// ParentSetter receive the map's parent.
type Map struct {
	mu     sync.RWMutex
	items  map[model.UID]any
	parent any
}

// NewMap creates an empty map resolver. A nil parent makes the map itself
// the parent of the items it resolves.
func NewMap(parent any) *Map {
	m := &Map{items: make(map[model.UID]any)}
	m.parent = parent
	if parent == nil {
		m.parent = m
	}
	return m
}

// Put stores item under the UID derived from key.
func (m *Map) Put(key, item any) (model.UID, error) {
	uid, err := model.ParseUID(key)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[uid] = item
	return uid, nil
}

// Delete removes the item stored under the UID derived from key.
func (m *Map) Delete(key any) {
	uid, err := model.ParseUID(key)
	if err != nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, uid)
}

// Len returns the number of stored items.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Resolve implements model.Resolver.
func (m *Map) Resolve(uid model.UID) (any, error) {
	m.mu.RLock()
	item, ok := m.items[uid]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if p, ok := item.(ParentSetter); ok {
		p.SetParent(m.parent)
	}
	return item, nil
}

// Container holds items by UID.
type Container interface {
	Get(uid model.UID) (any, bool)
}

// Locator finds the container holding uid. A nil container is a miss.
type Locator func(uid model.UID) (Container, error)

// Contained resolves items in two steps: locate the container, then fetch
// the item from it. Items implementing ParentSetter receive the container.
type Contained struct {
	locate Locator
}

// NewContained creates a two-step resolver.
func NewContained(locate Locator) *Contained {
	return &Contained{locate: locate}
}

// Resolve implements model.Resolver.
func (c *Contained) Resolve(uid model.UID) (any, error) {
	container, err := c.locate(uid)
	if err != nil || query.IsNil(container) {
		return nil, err
	}
	item, ok := container.Get(uid)
	if !ok {
		return nil, nil
	}
	if p, ok := item.(ParentSetter); ok {
		p.SetParent(container)
	}
	return item, nil
}

// Chain tries resolvers in order and returns the first hit. The first
// error stops the chain.
type Chain []model.Resolver

// Resolve implements model.Resolver.
func (c Chain) Resolve(uid model.UID) (any, error) {
	for _, r := range c {
		item, err := r.Resolve(uid)
		if err != nil {
			return nil, err
		}
		if !query.IsNil(item) {
			return item, nil
		}
	}
	return nil, nil
}
