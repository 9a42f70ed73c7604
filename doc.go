// Package modscope provides selective importing of named bindings from
// packages and script modules.
//
// Instead of attaching a whole export table to the ambient search path, a
// caller names exactly the bindings it wants, optionally renames them, and
// chooses where they land: the caller's own scope, or a named namespace
// registered on a process-wide search chain.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	modscope/            Root package with the Registry and Evaluator contracts
//	├── importer/        Import engine: statement parsing, resolution, placement
//	├── source/          Source classification (package id vs. module file)
//	├── cache/           Module cache with fingerprint-based invalidation
//	├── scope/           Namespaces and the registered-namespace search chain
//	├── scriptfile/      Reference evaluator for assignment-style module files
//	└── errors/          Structured error types for diagnostics
//
// # Quick Start
//
// Import two bindings from a module file into the caller's scope:
//
//	eng := importer.New(reg, eval, importer.DefaultOptions())
//
//	local := scope.NewNamespace()
//	err := eng.ImportHere(ctx, local, "./util.mod", []string{"clamp", "lerp"})
//
// Import from an installed package into a registered namespace:
//
//	err := eng.ImportInto(ctx, "imports", "strtools", []string{"pad", "trim"},
//	    importer.WithRename("padLeft", "pad"))
//
// # Collaborators
//
// The engine never executes scripts and never talks to a package manager.
// Both concerns are injected: a Registry answers "give me export N of package
// P", and an Evaluator turns a module file's contents into a fresh set of
// bindings. Hosts supply their own implementations; MapRegistry and the
// scriptfile package cover embedding and testing.
//
// # Module Caching
//
// A module file is evaluated at most once per distinct content. The cache
// fingerprints files by modification time or content hash (configurable) and
// detects import cycles across chained module loads.
package modscope
