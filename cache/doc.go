// Package cache memoizes module file evaluations.
//
// # Main Types
//
//   - Cache: canonical-path-keyed registry of evaluated module namespaces
//   - Fingerprint: content identity (modification time or content hash)
//
// # Guarantees
//
// A module is evaluated at most once per distinct content, across all
// importing call sites in a process. Concurrent loads of the same path block
// on a per-entry lock rather than evaluating twice. A module load cycle is
// reported as a CyclicImportError carrying the full load chain.
//
// # Fingerprint Modes
//
// ModTime compares modification time and size; Content hashes file bytes
// with xxhash. Content is the default: it survives timestamp-granularity
// races at the cost of reading the file on every consultation.
package cache
