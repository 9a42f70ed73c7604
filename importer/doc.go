// Package importer implements selective import statements.
//
// # Main Types
//
//   - Engine: parses, resolves, and places import statements
//   - ImportSpec: validated form of one statement
//
// # Statement Surface
//
//   - ImportHere: bind into the caller's own scope
//   - ImportInto: bind into a registered namespace named positionally
//   - ImportFrom: like ImportInto, destination via option, default "imports"
//
// # Guarantees
//
// A statement applies atomically: either every requested binding is placed,
// or none are. Missing names are reported in aggregate; malformed statements
// fail fast before any resolution. Placing into a registered namespace never
// touches the caller's scope or any other namespace on the chain.
package importer
