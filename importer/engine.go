package importer

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/modscope/modscope"
	"github.com/modscope/modscope/cache"
	"github.com/modscope/modscope/scope"
	"github.com/modscope/modscope/source"
)

// Options configures engine behavior.
type Options struct {
	// DefaultInto is the registered-namespace name ImportFrom uses when the
	// statement carries no destination option.
	DefaultInto string
	// Fingerprint selects how module files are checked for staleness.
	Fingerprint cache.Mode
	// BaseDir anchors relative module paths for top-level statements.
	// Empty means the process working directory. Statements issued during a
	// module evaluation always resolve against that module's directory.
	BaseDir string
	// StrictSources makes classification fail on tokens that name both an
	// existing file and a plausible package.
	StrictSources bool
}

// DefaultOptions returns default engine configuration.
func DefaultOptions() Options {
	return Options{
		DefaultInto: "imports",
		Fingerprint: cache.Content,
	}
}

// Engine resolves import statements and places the resulting bindings.
//
// The engine owns its module cache and search chain as explicit state: each
// New call yields fully isolated instances, so embedding hosts and tests can
// run engines side by side. Thread-safe.
type Engine struct {
	registry   modscope.Registry
	cache      *cache.Cache
	chain      *scope.Chain
	classifier *source.Resolver
	opts       Options
}

// New creates an engine using reg for package exports and eval for module
// file evaluation, with a fresh module cache and search chain.
func New(reg modscope.Registry, eval modscope.Evaluator, opts Options) *Engine {
	return NewWithState(reg, cache.New(eval, cache.Options{Mode: opts.Fingerprint}), scope.NewChain(), opts)
}

// NewWithState creates an engine around an existing cache and chain. Hosts
// that run several engines over one process-wide chain, or that pre-warm a
// cache, construct the state themselves and hand it in.
func NewWithState(reg modscope.Registry, c *cache.Cache, chain *scope.Chain, opts Options) *Engine {
	if opts.DefaultInto == "" {
		opts.DefaultInto = "imports"
	}
	return &Engine{
		registry:   reg,
		cache:      c,
		chain:      chain,
		classifier: source.NewResolver(source.Options{Strict: opts.StrictSources}),
		opts:       opts,
	}
}

// Options returns the engine configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// Chain returns the search chain of registered namespaces. Hosts consult it
// for unqualified name lookup.
func (e *Engine) Chain() *scope.Chain {
	return e.chain
}

// Cache returns the module cache, exposed for explicit invalidation and
// inspection.
func (e *Engine) Cache() *cache.Cache {
	return e.cache
}

// ImportHere resolves the requested names from src and binds them in local,
// the caller's own scope. Nothing on the search chain is touched.
func (e *Engine) ImportHere(ctx context.Context, local *scope.Namespace, src string, names []string, opts ...Option) error {
	spec, err := parseStatement(src, names, opts, placeHere, "", local)
	if err != nil {
		return err
	}
	return e.run(ctx, spec)
}

// ImportInto resolves the requested names from src and binds them in the
// registered namespace dest, attaching it to the search chain on first use.
func (e *Engine) ImportInto(ctx context.Context, dest, src string, names []string, opts ...Option) error {
	spec, err := parseStatement(src, names, opts, placeInto, dest, nil)
	if err != nil {
		return err
	}
	return e.run(ctx, spec)
}

// ImportFrom is ImportInto with the destination taken from WithDestination,
// defaulting to the engine's DefaultInto name.
func (e *Engine) ImportFrom(ctx context.Context, src string, names []string, opts ...Option) error {
	var probe stmtOptions
	for _, opt := range opts {
		opt(&probe)
	}
	if !probe.destSet {
		opts = append(opts, WithDestination(e.opts.DefaultInto))
	}

	spec, err := parseStatement(src, names, opts, placeInto, "", nil)
	if err != nil {
		return err
	}
	return e.run(ctx, spec)
}

// run executes a parsed statement: duplicate check, classification, batch
// resolution, then atomic placement.
func (e *Engine) run(ctx context.Context, spec *ImportSpec) error {
	if err := checkDuplicateLocals(spec.Names); err != nil {
		return err
	}

	src, err := e.classifier.Classify(spec.Token, e.baseDir(ctx), spec.SourceMode)
	if err != nil {
		return err
	}

	values, err := e.resolveAll(ctx, src, spec.Names)
	if err != nil {
		return err
	}

	e.place(spec, values)

	Logger().Debug("import placed",
		zap.String("source", src.String()),
		zap.Int("bindings", len(values)),
		zap.String("destination", e.destLabel(spec)))
	return nil
}

// place commits resolved bindings to the destination. All validation and
// resolution has succeeded by this point, so the statement applies fully.
func (e *Engine) place(spec *ImportSpec, values []any) {
	dest := spec.Local
	if spec.Mode == placeInto {
		dest, _ = e.chain.Attach(spec.DestName)
	}

	for i, pair := range spec.Names {
		dest.Set(pair.Local, values[i])
	}

	if spec.Mode == placeInto {
		e.chain.NoteUpdated(spec.DestName)
	}
}

// baseDir returns the directory relative module paths resolve against: the
// directory of the module currently being evaluated, if any, else the
// configured base.
func (e *Engine) baseDir(ctx context.Context) string {
	if chain := cache.LoadChain(ctx); len(chain) > 0 {
		return filepath.Dir(chain[len(chain)-1])
	}
	return e.opts.BaseDir
}

func (e *Engine) destLabel(spec *ImportSpec) string {
	if spec.Mode == placeInto {
		return spec.DestName
	}
	return "(caller scope)"
}
