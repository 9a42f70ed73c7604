package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in import processing the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // statement parsing and validation
	PhaseClassify Phase = "classify" // source classification
	PhaseResolve  Phase = "resolve"  // binding resolution
	PhaseLoad     Phase = "load"     // module cache loading
	PhaseEvaluate Phase = "evaluate" // module file evaluation
	PhasePlace    Phase = "place"    // scope placement
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidStatement Kind = "invalid_statement"
	KindAmbiguousSource  Kind = "ambiguous_source"
	KindNameNotExported  Kind = "name_not_exported"
	KindNameNotFound     Kind = "name_not_found"
	KindDuplicateLocal   Kind = "duplicate_local"
	KindCyclicImport     Kind = "cyclic_import"
	KindEvaluation       Kind = "evaluation"
	KindNotFound         Kind = "not_found"
	KindInvalidInput     Kind = "invalid_input"
)

// Error is the structured error type used throughout the import engine
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Source string
	Name   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}

	if e.Name != "" {
		fmt.Fprintf(&b, ": name %q", e.Name)
	}

	if e.Detail != "" {
		if e.Name != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Source sets the source identifier (package id or module path)
func (b *Builder) Source(s string) *Builder {
	b.err.Source = s
	return b
}

// Name sets the binding name involved
func (b *Builder) Name(n string) *Builder {
	b.err.Name = n
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidStatement creates a malformed-statement error. Fail-fast: reported
// before any resolution happens.
func InvalidStatement(detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidStatement,
		Detail: detail,
	}
}

// AmbiguousSource creates an error for a token that denotes both a package
// and an existing file while the statement demands explicit disambiguation.
func AmbiguousSource(token, detail string) *Error {
	return &Error{
		Phase:  PhaseClassify,
		Kind:   KindAmbiguousSource,
		Source: token,
		Detail: detail,
	}
}

// DuplicateLocal creates an error for two exports mapped to one local name
// within a single statement.
func DuplicateLocal(localName string, exports ...string) *Error {
	detail := "multiple exports mapped to one local name"
	if len(exports) > 0 {
		detail = fmt.Sprintf("exports %s all mapped to it", quoteJoin(exports))
	}
	return &Error{
		Phase:  PhasePlace,
		Kind:   KindDuplicateLocal,
		Name:   localName,
		Detail: detail,
	}
}

// Evaluation wraps an evaluator failure with the failing module path.
func Evaluation(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseEvaluate,
		Kind:   KindEvaluation,
		Source: path,
		Detail: "module evaluation failed",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidInput,
		Source: path,
		Detail: "load module",
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}

// MissingName is a single unresolved request within an import statement.
type MissingName struct {
	Export string // name requested from the source
	Local  string // local name it was to be bound as
}

// UnresolvedError is returned when one or more requested names cannot be
// resolved from a source. Resolution is batched: every missing name in the
// statement is reported together, in statement order.
type UnresolvedError struct {
	Source  string // package id or module path
	IsFile  bool
	Missing []MissingName
}

// NewUnresolvedError creates an aggregated resolution error for a source.
func NewUnresolvedError(source string, isFile bool, missing []MissingName) *UnresolvedError {
	return &UnresolvedError{
		Source:  source,
		IsFile:  isFile,
		Missing: missing,
	}
}

func (e *UnresolvedError) Error() string {
	if len(e.Missing) == 0 {
		return "[resolve] no unresolved names specified"
	}

	kind := "not exported by package"
	if e.IsFile {
		kind = "not found in module"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d name(s) %s %s:", len(e.Missing), kind, e.Source)
	for _, m := range e.Missing {
		b.WriteString("\n  - ")
		b.WriteString(m.Export)
		if m.Local != "" && m.Local != m.Export {
			b.WriteString(" (as ")
			b.WriteString(m.Local)
			b.WriteByte(')')
		}
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *UnresolvedError) Is(target error) bool {
	_, ok := target.(*UnresolvedError)
	return ok
}

// CyclicImportError is returned when a module load cycle is detected.
// Chain holds the canonical paths from the outermost load to the repeated one.
type CyclicImportError struct {
	Chain []string
}

// NewCyclicImportError creates a cycle error from the in-flight load chain
// plus the path whose re-entry closed the cycle.
func NewCyclicImportError(chain []string, repeated string) *CyclicImportError {
	full := make([]string, 0, len(chain)+1)
	full = append(full, chain...)
	full = append(full, repeated)
	return &CyclicImportError{Chain: full}
}

func (e *CyclicImportError) Error() string {
	if len(e.Chain) == 0 {
		return "[load] cyclic_import: empty chain"
	}
	return "[load] cyclic_import: " + strings.Join(e.Chain, " -> ")
}

// Is reports whether target matches this error type
func (e *CyclicImportError) Is(target error) bool {
	_, ok := target.(*CyclicImportError)
	return ok
}
