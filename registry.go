package modscope

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MapRegistry is an in-memory Registry backed by nested maps.
// Useful for embedding hosts that assemble export tables in Go, and for tests.
// Thread-safe.
type MapRegistry struct {
	packages map[string]map[string]any
	mu       sync.RWMutex
}

// NewMapRegistry creates an empty MapRegistry.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{packages: make(map[string]map[string]any)}
}

// Register adds or replaces a package's export table.
// The map is copied; later mutation of exports does not affect the registry.
func (r *MapRegistry) Register(packageID string, exports map[string]any) {
	cp := make(map[string]any, len(exports))
	for k, v := range exports {
		cp[k] = v
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[packageID] = cp
}

// Deregister removes a package. Removing an unknown package is a no-op.
func (r *MapRegistry) Deregister(packageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.packages, packageID)
}

// Has reports whether a package is registered.
func (r *MapRegistry) Has(packageID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.packages[packageID]
	return ok
}

// ListExports returns the package's export names in sorted order.
func (r *MapRegistry) ListExports(ctx context.Context, packageID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exports, ok := r.packages[packageID]
	if !ok {
		return nil, fmt.Errorf("package %q: %w", packageID, ErrNotExported)
	}
	names := make([]string, 0, len(exports))
	for name := range exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetExport returns the value bound to name in the package's export table.
func (r *MapRegistry) GetExport(ctx context.Context, packageID string, name string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exports, ok := r.packages[packageID]
	if !ok {
		return nil, fmt.Errorf("package %q: %w", packageID, ErrNotExported)
	}
	v, ok := exports[name]
	if !ok {
		return nil, fmt.Errorf("package %q has no export %q: %w", packageID, name, ErrNotExported)
	}
	return v, nil
}
