package importer

import (
	"strings"

	"github.com/modscope/modscope/errors"
	"github.com/modscope/modscope/scope"
	"github.com/modscope/modscope/source"
)

// NamePair is one requested binding: the name the source exports it under
// and the name it will be bound as in the destination.
type NamePair struct {
	Export string
	Local  string
}

// placementMode selects the destination of a statement's bindings.
type placementMode int

const (
	placeHere placementMode = iota
	placeInto
)

// ImportSpec is the parsed, validated form of one import statement.
// Order of Names is preserved for deterministic diagnostics.
type ImportSpec struct {
	Token      string
	Names      []NamePair
	SourceMode source.Mode
	Mode       placementMode
	DestName   string
	Local      *scope.Namespace
}

// stmtOptions accumulates the recognized statement options. Option names are
// typed rather than string-keyed, so they can never collide with exported
// binding names.
type stmtOptions struct {
	renames    []NamePair
	destName   string
	destSet    bool
	sourceMode source.Mode
}

// Option configures a single import statement.
type Option func(*stmtOptions)

// WithRename requests export bound under localName instead of its own name.
// Renames are appended after the positional names, in call order.
func WithRename(localName, export string) Option {
	return func(o *stmtOptions) {
		o.renames = append(o.renames, NamePair{Export: export, Local: localName})
	}
}

// WithDestination sets the registered-namespace name for ImportFrom.
// Not valid for ImportHere (caller-scope mode) or ImportInto (destination is
// positional).
func WithDestination(name string) Option {
	return func(o *stmtOptions) {
		o.destName = name
		o.destSet = true
	}
}

// AsPackage forces the source token to be treated as a package reference.
func AsPackage() Option {
	return func(o *stmtOptions) {
		o.sourceMode = source.ModePackage
	}
}

// AsFile forces the source token to be treated as a module file path.
func AsFile() Option {
	return func(o *stmtOptions) {
		o.sourceMode = source.ModeFile
	}
}

// parseStatement validates a statement's arguments into an ImportSpec.
// Positional names accept "export" or "local=export" forms. Validation is
// fail-fast: the first malformed argument is reported immediately.
func parseStatement(token string, names []string, opts []Option, mode placementMode, destName string, local *scope.Namespace) (*ImportSpec, error) {
	var o stmtOptions
	for _, opt := range opts {
		opt(&o)
	}

	if token == "" {
		return nil, errors.InvalidStatement("source is missing")
	}

	switch mode {
	case placeHere:
		if local == nil {
			return nil, errors.InvalidStatement("caller scope is nil")
		}
		if o.destSet {
			return nil, errors.InvalidStatement("destination option conflicts with caller-scope placement")
		}
	case placeInto:
		if o.destSet {
			if destName != "" {
				return nil, errors.InvalidStatement("destination given twice")
			}
			destName = o.destName
		}
		if destName == "" {
			return nil, errors.InvalidStatement("destination namespace name is empty")
		}
	}

	pairs := make([]NamePair, 0, len(names)+len(o.renames))
	for _, n := range names {
		pair, err := parseNameArg(n)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	for _, pair := range o.renames {
		if err := validatePair(pair); err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}

	if len(pairs) == 0 {
		return nil, errors.InvalidStatement("no names requested")
	}

	return &ImportSpec{
		Token:      token,
		Names:      pairs,
		SourceMode: o.sourceMode,
		Mode:       mode,
		DestName:   destName,
		Local:      local,
	}, nil
}

// parseNameArg parses a positional name argument: "export" or "local=export".
func parseNameArg(arg string) (NamePair, error) {
	localName, export, renamed := strings.Cut(arg, "=")
	if !renamed {
		export = arg
		localName = arg
	}
	pair := NamePair{
		Export: strings.TrimSpace(export),
		Local:  strings.TrimSpace(localName),
	}
	if err := validatePair(pair); err != nil {
		return NamePair{}, err
	}
	return pair, nil
}

func validatePair(pair NamePair) error {
	if pair.Export == "" {
		return errors.InvalidStatement("empty export name in request for local %q", pair.Local)
	}
	if pair.Local == "" {
		return errors.InvalidStatement("empty local name in request for export %q", pair.Export)
	}
	// Names with the option prefix are reserved so statement options can
	// never be shadowed by bindings.
	if strings.HasPrefix(pair.Local, ".") {
		return errors.InvalidStatement("name %q uses the reserved option prefix", pair.Local)
	}
	if strings.HasPrefix(pair.Export, ".") {
		return errors.InvalidStatement("name %q uses the reserved option prefix", pair.Export)
	}
	return nil
}

// checkDuplicateLocals rejects two different exports mapped to one local
// name within a single statement. Requesting the same export twice under the
// same local name is harmless and allowed.
func checkDuplicateLocals(pairs []NamePair) error {
	seen := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if prev, ok := seen[p.Local]; ok && prev != p.Export {
			return errors.DuplicateLocal(p.Local, prev, p.Export)
		}
		seen[p.Local] = p.Export
	}
	return nil
}
