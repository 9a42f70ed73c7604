package cache

import (
	"context"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/modscope/modscope"
	"github.com/modscope/modscope/errors"
	"github.com/modscope/modscope/scope"
)

// Options configures cache behavior.
type Options struct {
	Mode Mode
}

// DefaultOptions returns default cache configuration.
func DefaultOptions() Options {
	return Options{Mode: Content}
}

// Cache memoizes module file evaluations keyed by canonical path.
//
// A file is evaluated at most once per distinct content: repeated loads with
// an unchanged fingerprint return the same namespace without re-evaluation.
// Concurrent loads of one path serialize on a per-entry lock, so exactly one
// caller evaluates. Re-entrant loads (a module importing another module while
// being evaluated) are supported through the load chain carried on the
// context; a path re-entered on its own chain fails with a cycle error.
//
// Thread-safe.
type Cache struct {
	eval    modscope.Evaluator
	entries map[string]*entry
	opts    Options
	mu      sync.Mutex

	hits   atomic.Uint64
	misses atomic.Uint64
	evals  atomic.Uint64
}

type entry struct {
	ns    *scope.Namespace
	fp    Fingerprint
	valid bool
	mu    sync.Mutex
}

// New creates a cache that evaluates modules with eval.
func New(eval modscope.Evaluator, opts Options) *Cache {
	return &Cache{
		eval:    eval,
		entries: make(map[string]*entry),
		opts:    opts,
	}
}

// Mode returns the configured fingerprint mode.
func (c *Cache) Mode() Mode {
	return c.opts.Mode
}

type loadChainKey struct{}

// LoadChain returns the canonical paths currently being loaded on this
// context, outermost first. Empty outside of a module evaluation.
func LoadChain(ctx context.Context) []string {
	chain, _ := ctx.Value(loadChainKey{}).([]string)
	return chain
}

func withLoad(ctx context.Context, path string) context.Context {
	prev := LoadChain(ctx)
	chain := make([]string, 0, len(prev)+1)
	chain = append(chain, prev...)
	chain = append(chain, path)
	return context.WithValue(ctx, loadChainKey{}, chain)
}

// GetOrLoad returns the namespace of the module at path, evaluating the file
// only when no entry with a matching fingerprint exists. path must already be
// canonical (see source.Resolver).
//
// The returned namespace is the cached object itself: callers must treat it
// as read-only.
func (c *Cache) GetOrLoad(ctx context.Context, path string) (*scope.Namespace, error) {
	chain := LoadChain(ctx)
	for _, p := range chain {
		if p == path {
			return nil, errors.NewCyclicImportError(chain, path)
		}
	}

	e := c.entry(path)
	e.mu.Lock()
	defer e.mu.Unlock()

	fp, src, err := fingerprintFile(c.opts.Mode, path)
	if err != nil {
		return nil, errors.Load(path, err)
	}

	if e.valid && e.fp.Equal(fp) {
		c.hits.Add(1)
		return e.ns, nil
	}
	c.misses.Add(1)

	if src == nil {
		src, err = os.ReadFile(path)
		if err != nil {
			return nil, errors.Load(path, err)
		}
	}

	Logger().Debug("evaluating module",
		zap.String("path", path),
		zap.Int("depth", len(chain)),
		zap.String("mode", c.opts.Mode.String()))

	bindings, err := c.eval.Evaluate(withLoad(ctx, path), path, src)
	if err != nil {
		return nil, errors.Evaluation(path, err)
	}
	c.evals.Add(1)

	ns := scope.NewNamespace()
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ns.Set(name, bindings[name])
	}

	e.fp = fp
	e.ns = ns
	e.valid = true
	return ns, nil
}

// Invalidate drops the entry for path, forcing re-evaluation on the next
// load. Reports whether an entry existed.
func (c *Cache) Invalidate(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[path]; !ok {
		return false
	}
	delete(c.entries, path)
	return true
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Paths returns the canonical paths with cache entries, sorted.
func (c *Cache) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.entries))
	for p := range c.entries {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of cache entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats reports cumulative cache activity.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Evaluations uint64
}

// Stats returns cumulative hit/miss/evaluation counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evaluations: c.evals.Load(),
	}
}

func (c *Cache) entry(path string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if !ok {
		e = &entry{}
		c.entries[path] = e
	}
	return e
}
