package scriptfile

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/modscope/modscope/scope"
)

// Loader loads another module's namespace during evaluation. Hosts wire this
// to their module cache so `use` directives share the process-wide cache and
// its cycle detection. The ctx must be passed through unchanged.
type Loader func(ctx context.Context, path string) (*scope.Namespace, error)

// Evaluator evaluates assignment-style module files.
//
// The format is one binding per line:
//
//	# comment
//	greeting = "hello"
//	answer   = 42
//	ratio    = 0.5
//	flag     = true
//	use "./dep.mod" (a, b)
//
// A `use` directive imports the listed names from another module file,
// resolved relative to the directory of the file under evaluation. Without a
// Loader, `use` directives are rejected.
//
// Each Evaluate call builds a fresh binding map; nothing persists between
// calls. Implements the modscope.Evaluator contract.
type Evaluator struct {
	loader Loader
}

// New creates an evaluator that rejects `use` directives.
func New() *Evaluator {
	return &Evaluator{}
}

// NewWithLoader creates an evaluator that satisfies `use` directives through
// loader.
func NewWithLoader(loader Loader) *Evaluator {
	return &Evaluator{loader: loader}
}

// Evaluate parses src into a binding map. All malformed lines are reported
// together rather than stopping at the first.
func (e *Evaluator) Evaluate(ctx context.Context, path string, src []byte) (map[string]any, error) {
	out := make(map[string]any)
	var errs error

	for i, raw := range strings.Split(string(src), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lineNo := i + 1
		if rest, ok := strings.CutPrefix(line, "use "); ok {
			if err := e.evalUse(ctx, path, rest, out); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("line %d: %w", lineNo, err))
			}
			continue
		}

		name, value, ok := strings.Cut(line, "=")
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("line %d: not an assignment: %q", lineNo, line))
			continue
		}
		name = strings.TrimSpace(name)
		if !validName(name) {
			errs = multierr.Append(errs, fmt.Errorf("line %d: invalid binding name %q", lineNo, name))
			continue
		}
		v, err := parseValue(strings.TrimSpace(value))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		out[name] = v
	}

	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// evalUse handles `use "path" (a, b, c)`.
func (e *Evaluator) evalUse(ctx context.Context, path, rest string, out map[string]any) error {
	if e.loader == nil {
		return fmt.Errorf("use directive requires a module loader")
	}

	dep, names, err := parseUse(rest)
	if err != nil {
		return err
	}

	depPath := dep
	if !filepath.IsAbs(depPath) {
		depPath = filepath.Join(filepath.Dir(path), depPath)
	}

	ns, err := e.loader(ctx, depPath)
	if err != nil {
		return err
	}

	for _, name := range names {
		v, ok := ns.Get(name)
		if !ok {
			return fmt.Errorf("module %q has no binding %q", dep, name)
		}
		out[name] = v
	}
	return nil
}

// parseUse splits `"path" (a, b)` into the path and name list.
func parseUse(rest string) (string, []string, error) {
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, `"`) {
		return "", nil, fmt.Errorf("use path must be quoted: %q", rest)
	}
	end := strings.Index(rest[1:], `"`)
	if end < 0 {
		return "", nil, fmt.Errorf("unterminated use path: %q", rest)
	}
	dep := rest[1 : 1+end]
	if dep == "" {
		return "", nil, fmt.Errorf("empty use path")
	}

	tail := strings.TrimSpace(rest[2+end:])
	if !strings.HasPrefix(tail, "(") || !strings.HasSuffix(tail, ")") {
		return "", nil, fmt.Errorf("use needs a parenthesized name list: %q", tail)
	}

	var names []string
	for _, n := range strings.Split(tail[1:len(tail)-1], ",") {
		n = strings.TrimSpace(n)
		if !validName(n) {
			return "", nil, fmt.Errorf("invalid name %q in use list", n)
		}
		names = append(names, n)
	}
	if len(names) == 0 {
		return "", nil, fmt.Errorf("empty use name list")
	}
	return dep, names, nil
}

func parseValue(s string) (any, error) {
	if s == "" {
		return nil, fmt.Errorf("empty value")
	}
	if s[0] == '"' || s[0] == '\'' {
		if s[0] == '\'' {
			s = `"` + strings.Trim(s, "'") + `"`
		}
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return nil, fmt.Errorf("bad string literal %s: %w", s, err)
		}
		return unquoted, nil
	}
	if s == "true" || s == "false" {
		return s == "true", nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("unrecognized value %q", s)
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
