package schema

import (
	"slices"
	"sync"

	"github.com/hupe1980/retrieval"
)

// Registry resolves schema names to schemas.
type Registry interface {
	Lookup(name string) (*Schema, bool)
	Register(s *Schema) error
}

// MapRegistry is an in-memory Registry.
type MapRegistry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewMapRegistry creates a registry holding schemas.
func NewMapRegistry(schemas ...*Schema) *MapRegistry {
	r := &MapRegistry{schemas: make(map[string]*Schema)}
	for _, s := range schemas {
		r.schemas[s.Name] = s
	}
	return r
}

// Lookup implements Registry.
func (r *MapRegistry) Lookup(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Register implements Registry. Re-registering a name replaces it.
func (r *MapRegistry) Register(s *Schema) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[s.Name] = s
	return nil
}

// Unregister removes a schema. Managers still binding its name will report
// it as an orphan.
func (r *MapRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.schemas, name)
}

// Manager tracks the schemas bound to a catalog by name and resolves them
// lazily through a Registry.
type Manager struct {
	mu    sync.RWMutex
	reg   Registry
	names []string
}

// NewManager creates a manager. A nil registry selects a new MapRegistry.
func NewManager(reg Registry) *Manager {
	if reg == nil {
		reg = NewMapRegistry()
	}
	return &Manager{reg: reg}
}

// Bind registers s and records its name. Binding a name twice fails with
// ErrDuplicateKey.
func (m *Manager) Bind(s *Schema) error {
	if s == nil {
		return retrieval.InvalidArgumentf("nil schema")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.names, s.Name) {
		return retrieval.NewKeyError("bind", s.Name, retrieval.ErrDuplicateKey)
	}
	if err := m.reg.Register(s); err != nil {
		return err
	}
	m.names = append(m.names, s.Name)
	return nil
}

// Forget unbinds name. Unknown names are ignored.
func (m *Manager) Forget(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = slices.DeleteFunc(m.names, func(n string) bool { return n == name })
}

// Get resolves a bound name.
func (m *Manager) Get(name string) (*Schema, bool) {
	if !m.Contains(name) {
		return nil, false
	}
	return m.reg.Lookup(name)
}

// Contains reports whether name is bound.
func (m *Manager) Contains(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Contains(m.names, name)
}

// Len returns the number of bound names.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.names)
}

// Keys returns the bound names in bind order.
func (m *Manager) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.names)
}

// Values resolves every bound name; unresolvable names yield nil.
func (m *Manager) Values() []*Schema {
	keys := m.Keys()
	out := make([]*Schema, len(keys))
	for i, k := range keys {
		out[i], _ = m.reg.Lookup(k)
	}
	return out
}

// Orphans returns the bound names the registry can no longer resolve.
func (m *Manager) Orphans() []string {
	var out []string
	for _, k := range m.Keys() {
		if _, ok := m.reg.Lookup(k); !ok {
			out = append(out, k)
		}
	}
	return out
}

// Restore replaces the bound names without touching the registry.
func (m *Manager) Restore(names []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = slices.Compact(slices.Clone(names))
}
