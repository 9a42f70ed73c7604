// Package errors provides structured error types for the import engine.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: the source identifier, the
// binding name involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindNameNotExported).
//		Source("strtools").
//		Name("padLeft").
//		Detail("package does not export it").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidStatement("no names requested")
//	err := errors.DuplicateLocal("x", "a", "b")
//
// Batch resolution failures use UnresolvedError, which lists every missing
// name of a statement in one error. Module load cycles use CyclicImportError,
// which carries the full load chain.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
