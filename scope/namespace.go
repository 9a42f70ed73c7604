package scope

import (
	"sync"
)

// Namespace is an ordered mapping from binding names to values.
//
// Insertion order is preserved; overwriting an existing name keeps its
// original position. Thread-safe.
type Namespace struct {
	values map[string]any
	order  []string
	name   string
	mu     sync.RWMutex
}

// NewNamespace creates an empty anonymous namespace.
func NewNamespace() *Namespace {
	return &Namespace{values: make(map[string]any)}
}

// newNamed creates an empty namespace carrying a registered name.
// Used by Chain when registering namespaces.
func newNamed(name string) *Namespace {
	return &Namespace{values: make(map[string]any), name: name}
}

// Name returns the registered name, or "" for an ephemeral namespace.
func (ns *Namespace) Name() string {
	return ns.name
}

// Set binds value to name. An existing binding is overwritten in place;
// a new binding is appended to the insertion order.
func (ns *Namespace) Set(name string, value any) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	if _, ok := ns.values[name]; !ok {
		ns.order = append(ns.order, name)
	}
	ns.values[name] = value
}

// Get returns the value bound to name.
func (ns *Namespace) Get(name string) (any, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	v, ok := ns.values[name]
	return v, ok
}

// Has reports whether name is bound.
func (ns *Namespace) Has(name string) bool {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	_, ok := ns.values[name]
	return ok
}

// Delete removes a binding and reports whether it existed.
func (ns *Namespace) Delete(name string) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	if _, ok := ns.values[name]; !ok {
		return false
	}
	delete(ns.values, name)
	for i, n := range ns.order {
		if n == name {
			ns.order = append(ns.order[:i], ns.order[i+1:]...)
			break
		}
	}
	return true
}

// Names returns all bound names in insertion order.
func (ns *Namespace) Names() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	out := make([]string, len(ns.order))
	copy(out, ns.order)
	return out
}

// Len returns the number of bindings.
func (ns *Namespace) Len() int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.values)
}

// Snapshot returns a copy of all bindings.
func (ns *Namespace) Snapshot() map[string]any {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	out := make(map[string]any, len(ns.values))
	for k, v := range ns.values {
		out[k] = v
	}
	return out
}
