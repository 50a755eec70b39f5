// Package compact rewrites parsed transit-disruption records into a
// byte-compact representation: every string and UUID leaf is replaced by a
// handle into a shared store, and repeated nested objects (application
// periods, line headers, whole disruptions) are themselves interned so that
// identical sub-objects across records occupy one slot.
//
// Compaction is verified, not trusted: every compacted record is checked
// against its source through the EqualSource protocol, a recursive
// structural-equality walk that resolves handles through the Stores bundle
// without reconstructing the record. A mismatch means the compaction lost
// information and must abort the run.
package compact
