package importer

import (
	"context"
	stderrors "errors"

	"github.com/modscope/modscope"
	"github.com/modscope/modscope/errors"
	"github.com/modscope/modscope/source"
)

// resolveAll fetches the value for every requested pair, in statement order.
//
// Resolution is batched, not fail-fast: every name the source lacks is
// collected and reported in one UnresolvedError, so the caller sees the
// complete set of missing names in a single pass. Infrastructure failures
// (registry outage, unreadable module, evaluation error, cycle) still abort
// immediately.
func (e *Engine) resolveAll(ctx context.Context, src source.Source, pairs []NamePair) ([]any, error) {
	if src.IsFile() {
		return e.resolveFromModule(ctx, src, pairs)
	}
	return e.resolveFromPackage(ctx, src, pairs)
}

func (e *Engine) resolveFromModule(ctx context.Context, src source.Source, pairs []NamePair) ([]any, error) {
	ns, err := e.cache.GetOrLoad(ctx, src.ID())
	if err != nil {
		return nil, err
	}

	values := make([]any, len(pairs))
	var missing []errors.MissingName
	for i, pair := range pairs {
		v, ok := ns.Get(pair.Export)
		if !ok {
			missing = append(missing, errors.MissingName{Export: pair.Export, Local: pair.Local})
			continue
		}
		values[i] = v
	}
	if len(missing) > 0 {
		return nil, errors.NewUnresolvedError(src.ID(), true, missing)
	}
	return values, nil
}

func (e *Engine) resolveFromPackage(ctx context.Context, src source.Source, pairs []NamePair) ([]any, error) {
	values := make([]any, len(pairs))
	var missing []errors.MissingName
	for i, pair := range pairs {
		v, err := e.registry.GetExport(ctx, src.ID(), pair.Export)
		if err != nil {
			if stderrors.Is(err, modscope.ErrNotExported) {
				missing = append(missing, errors.MissingName{Export: pair.Export, Local: pair.Local})
				continue
			}
			return nil, errors.New(errors.PhaseResolve, errors.KindInvalidInput).
				Source(src.ID()).
				Name(pair.Export).
				Detail("registry lookup failed").
				Cause(err).
				Build()
		}
		values[i] = v
	}
	if len(missing) > 0 {
		return nil, errors.NewUnresolvedError(src.ID(), false, missing)
	}
	return values, nil
}
