package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/modscope/modscope/errors"
)

// Kind discriminates the two origins a binding can come from.
type Kind int

const (
	KindPackage Kind = iota
	KindFile
)

func (k Kind) String() string {
	if k == KindFile {
		return "file"
	}
	return "package"
}

// Source is a classified import origin. For files the identifier is the
// canonical absolute path; for packages it is the registry key.
// Immutable once constructed.
type Source struct {
	kind Kind
	id   string
}

// Package constructs a package source from a registry key.
func Package(id string) Source {
	return Source{kind: KindPackage, id: id}
}

// File constructs a file source from an already-canonical path.
func File(path string) Source {
	return Source{kind: KindFile, id: path}
}

// Kind returns the source kind.
func (s Source) Kind() Kind { return s.kind }

// IsFile reports whether the source is a module file.
func (s Source) IsFile() bool { return s.kind == KindFile }

// ID returns the canonical identity: registry key or absolute file path.
func (s Source) ID() string { return s.id }

func (s Source) String() string {
	return s.kind.String() + ":" + s.id
}

// Mode controls how Classify treats a token.
type Mode int

const (
	// ModeAuto classifies by file existence: an existing readable file wins,
	// anything else is a package reference.
	ModeAuto Mode = iota
	// ModePackage forces the token to be treated as a registry key.
	ModePackage
	// ModeFile forces the token to be treated as a module file path.
	ModeFile
)

// Options configures a Resolver.
type Options struct {
	// Strict makes ModeAuto fail with an ambiguous-source error when a token
	// both names an existing file and has the shape of a package identifier,
	// instead of silently preferring the file.
	Strict bool
}

// Resolver classifies source tokens. Pure aside from file existence checks.
type Resolver struct {
	opts Options
}

// NewResolver creates a resolver with the given options.
func NewResolver(opts Options) *Resolver {
	return &Resolver{opts: opts}
}

// Classify turns a user-supplied token into a Source.
//
// Relative file paths resolve against baseDir, the directory of the importing
// file, so chained module imports work regardless of process working
// directory. An empty baseDir falls back to the process working directory.
func (r *Resolver) Classify(token, baseDir string, mode Mode) (Source, error) {
	if token == "" {
		return Source{}, errors.InvalidInput(errors.PhaseClassify, "empty source token")
	}

	switch mode {
	case ModePackage:
		if looksLikePath(token) {
			return Source{}, errors.New(errors.PhaseClassify, errors.KindInvalidInput).
				Source(token).
				Detail("path-shaped token cannot be a package reference").
				Build()
		}
		return Package(token), nil

	case ModeFile:
		path, ok := r.resolveFile(token, baseDir)
		if !ok {
			return Source{}, errors.New(errors.PhaseClassify, errors.KindNotFound).
				Source(token).
				Detail("module file does not exist or is not a regular file").
				Build()
		}
		return File(path), nil

	default:
		path, exists := r.resolveFile(token, baseDir)
		if exists && r.opts.Strict && !looksLikePath(token) {
			return Source{}, errors.AmbiguousSource(token,
				"token names both an existing file and a package; force a source mode")
		}
		if exists {
			return File(path), nil
		}
		if looksLikePath(token) {
			return Source{}, errors.New(errors.PhaseClassify, errors.KindNotFound).
				Source(token).
				Detail("path-shaped token does not name an existing file").
				Build()
		}
		return Package(token), nil
	}
}

// resolveFile resolves token against baseDir and canonicalizes it.
// Returns ("", false) unless the result is an existing regular file.
func (r *Resolver) resolveFile(token, baseDir string) (string, bool) {
	path := token
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	// Symlinked paths collapse to one cache identity.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, true
}

// looksLikePath reports whether a token has the shape of a file path rather
// than a bare package identifier.
func looksLikePath(token string) bool {
	if strings.ContainsRune(token, '/') || strings.ContainsRune(token, filepath.Separator) {
		return true
	}
	return strings.HasPrefix(token, ".")
}
