package scope

import (
	"sync"
)

// EventType identifies a chain lifecycle event.
type EventType int

const (
	EventAttached EventType = iota
	EventDetached
	EventUpdated
)

// Event describes a mutation of the search chain or of a registered namespace.
type Event struct {
	Type      EventType
	Name      string
	Namespace *Namespace
}

// Observer receives chain lifecycle events.
type Observer interface {
	OnChainEvent(Event)
}

// Chain is the ordered list of registered namespaces exposed to the host
// environment's unqualified name lookup.
//
// A namespace's position is stable once attached: re-attaching an existing
// name returns the same namespace for in-place mutation and never re-inserts
// it. New namespaces are inserted at the front, so the most recently
// registered name shadows earlier ones in host lookup.
//
// The chain only holds the namespaces; performing the actual name lookup is
// the host's responsibility. Thread-safe.
type Chain struct {
	byName    map[string]*Namespace
	order     []string
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
}

// NewChain creates an empty search chain.
func NewChain() *Chain {
	return &Chain{byName: make(map[string]*Namespace)}
}

// Attach returns the namespace registered under name, creating and inserting
// it at the front of the chain if absent. The second result reports whether a
// new namespace was created.
func (c *Chain) Attach(name string) (*Namespace, bool) {
	c.mu.Lock()
	if ns, ok := c.byName[name]; ok {
		c.mu.Unlock()
		return ns, false
	}

	ns := newNamed(name)
	c.byName[name] = ns
	c.order = append([]string{name}, c.order...)
	c.mu.Unlock()

	c.notify(Event{Type: EventAttached, Name: name, Namespace: ns})
	return ns, true
}

// Detach removes a registered namespace and reports whether it existed.
func (c *Chain) Detach(name string) bool {
	c.mu.Lock()
	ns, ok := c.byName[name]
	if !ok {
		c.mu.Unlock()
		return false
	}
	delete(c.byName, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.notify(Event{Type: EventDetached, Name: name, Namespace: ns})
	return true
}

// Lookup returns the namespace registered under name, or nil.
func (c *Chain) Lookup(name string) *Namespace {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byName[name]
}

// Names returns the registered names in chain order, front first.
func (c *Chain) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of registered namespaces.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byName)
}

// NoteUpdated signals observers that bindings in a registered namespace
// changed. No-op if name is not registered.
func (c *Chain) NoteUpdated(name string) {
	c.mu.RLock()
	ns := c.byName[name]
	c.mu.RUnlock()

	if ns == nil {
		return
	}
	c.notify(Event{Type: EventUpdated, Name: name, Namespace: ns})
}

// Subscribe adds an observer for chain events.
func (c *Chain) Subscribe(o Observer) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	c.observers = append(c.observers, o)
}

// Unsubscribe removes an observer.
func (c *Chain) Unsubscribe(o Observer) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	for i, obs := range c.observers {
		if obs == o {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			return
		}
	}
}

func (c *Chain) notify(ev Event) {
	c.obsMu.RLock()
	obs := make([]Observer, len(c.observers))
	copy(obs, c.observers)
	c.obsMu.RUnlock()

	for _, o := range obs {
		o.OnChainEvent(ev)
	}
}
