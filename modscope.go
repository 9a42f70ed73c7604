package modscope

import (
	"context"
	"errors"
)

// ErrNotExported is the sentinel a Registry returns (possibly wrapped) when a
// package exists but does not export the requested name, or when the package
// itself is unknown.
var ErrNotExported = errors.New("name not exported")

// Registry resolves exported bindings from installed packages.
//
// Implementations wrap whatever package system the host environment uses.
// The import engine treats a Registry as opaque: it asks for names and either
// gets values back or an error matching ErrNotExported.
type Registry interface {
	// ListExports returns the names the package exports.
	ListExports(ctx context.Context, packageID string) ([]string, error)

	// GetExport returns the value bound to name in the package's export
	// table. Returns an error matching ErrNotExported if the package does
	// not export name.
	GetExport(ctx context.Context, packageID string, name string) (any, error)
}

// Evaluator executes a module file's contents and returns its top-level
// bindings.
//
// Each call evaluates into a fresh namespace: bindings from one evaluation
// never leak into another. The ctx must be propagated into any nested module
// loads the evaluation triggers, so the cache can detect import cycles.
type Evaluator interface {
	Evaluate(ctx context.Context, path string, src []byte) (map[string]any, error)
}
