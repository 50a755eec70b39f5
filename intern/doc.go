// Package intern provides a content-addressed, deduplicating value store.
//
// A Store owns an append-only sequence of canonical values of one type and
// hands out dense 32-bit handles for them. Interning the same content twice
// (regardless of how the value was built) yields the same handle, so handles
// can stand in for heavy values everywhere a record is held in memory or
// serialized.
//
// # Concurrency Model
//
// Store supports concurrent Intern and Lookup from any number of goroutines.
// The dedup index is lock-striped: content-equal values always land on the
// same stripe, so two goroutines racing on the same logical value converge on
// a single canonical id. PushUnchecked and the codec Unmarshal methods are
// single-writer rebuild paths and must not run concurrently with Intern.
//
// # Handles
//
// A Handle carries no reference to its store; resolving it requires passing
// the owning store explicitly. Resolving a handle against the wrong store (or
// a raw id that was never issued) panics. This is a trust boundary, not a
// validated one: handles serialize as bare unsigned 32-bit integers.
package intern
