// Package ingest walks directories of snapshot files and compacts them into
// a shared store bundle.
//
// Discovery is sequential and deterministic (directory entries in name
// order, depth first, symlinks resolved); processing fans out over a bounded
// worker pool. Malformed JSON is counted and skipped, every other failure is
// fatal and carries the offending file path.
package ingest
