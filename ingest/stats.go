package ingest

import (
	"fmt"
	"io"
	"sync/atomic"
)

// Stats accumulates counters across the worker pool.
type Stats struct {
	files       atomic.Int64
	skipped     atomic.Int64
	rawBytes    atomic.Int64
	sourceBytes atomic.Int64
}

// Files returns the number of snapshot files found.
func (s *Stats) Files() int { return int(s.files.Load()) }

// Skipped returns the number of malformed files counted and skipped.
func (s *Stats) Skipped() int { return int(s.skipped.Load()) }

// RawBytes returns the total size of the snapshot files on disk.
func (s *Stats) RawBytes() int { return int(s.rawBytes.Load()) }

// SourceBytes returns the estimated in-memory footprint the parsed records
// would occupy uncompacted. The ratio against the database footprint is the
// figure compaction is judged by.
func (s *Stats) SourceBytes() int { return int(s.sourceBytes.Load()) }

// WriteSummary writes the ingestion counters and the compaction ratio
// against the compacted footprint.
func (s *Stats) WriteSummary(w io.Writer, compactedBytes int) {
	fmt.Fprintf(w, "Ingested %d files (%d skipped), %d bytes on disk\n",
		s.Files(), s.Skipped(), s.RawBytes())
	fmt.Fprintf(w, "Estimated source footprint: %d bytes\n", s.SourceBytes())
	fmt.Fprintf(w, "Compacted footprint: %d bytes (%.2fx smaller)\n",
		compactedBytes, float64(s.SourceBytes())/float64(compactedBytes))
}
