package compact

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/google/uuid"

	"github.com/gendx/disruptdb/intern"
)

// Byte-footprint estimation mirroring schema's accounting: shallow struct
// size plus heap allocations. Handles are inline, so most compacted types
// have no heap contribution beyond their sets.

// EstimateBytes reports the approximate in-memory footprint of the record,
// excluding store contents (those are shared and counted once per bundle).
func (r *Record) EstimateBytes() int {
	total := int(unsafe.Sizeof(*r))
	if r.Success != nil {
		total += int(unsafe.Sizeof(*r.Success))
	}
	if r.Error != nil {
		total += int(unsafe.Sizeof(*r.Error))
	}
	return total
}

func setHeapBytes[T any](s intern.Set[T]) int {
	return s.Len() * int(unsafe.Sizeof(intern.Handle[T]{}))
}

func disruptionHeapBytes(d *Disruption) int {
	total := setHeapBytes(d.ApplicationPeriods)
	if d.Tags != nil {
		total += int(unsafe.Sizeof(*d.Tags)) + setHeapBytes(*d.Tags)
	}
	if d.Message != nil {
		total += int(unsafe.Sizeof(*d.Message))
	}
	if d.ShortMessage != nil {
		total += int(unsafe.Sizeof(*d.ShortMessage))
	}
	if d.DisruptionID != nil {
		total += int(unsafe.Sizeof(*d.DisruptionID))
	}
	return total
}

// storeBytes sums the footprint of a store's values plus the four bytes of
// dedup index entry each slot costs. heap may be nil for flat value types.
func storeBytes[T any](s *intern.Store[T], heap func(*T) int) int {
	var total int
	s.Range(func(_ uint32, v T) bool {
		total += int(unsafe.Sizeof(v))
		if heap != nil {
			total += heap(&v)
		}
		return true
	})
	return total + s.Len()*4
}

// EstimateBytes reports the approximate in-memory footprint of the bundle.
func (s *Stores) EstimateBytes() int {
	return storeBytes(s.Strings, func(v *string) int { return len(*v) }) +
		storeBytes[uuid.UUID](s.UUIDs, nil) +
		storeBytes(s.DisruptionSets, func(v *intern.Set[Disruption]) int { return setHeapBytes(*v) }) +
		storeBytes(s.Disruptions, disruptionHeapBytes) +
		storeBytes[ApplicationPeriod](s.ApplicationPeriods, nil) +
		storeBytes(s.LineSets, func(v *intern.Set[Line]) int { return setHeapBytes(*v) }) +
		storeBytes(s.Lines, func(v *Line) int { return setHeapBytes(v.ImpactedObjects) }) +
		storeBytes[LineHeader](s.LineHeaders, nil) +
		storeBytes[ImpactedObject](s.ImpactedObjects, nil) +
		storeBytes[Object](s.Objects, nil) +
		storeBytes(s.UUIDSets, func(v *intern.Set[uuid.UUID]) int { return setHeapBytes(*v) })
}

// WriteSummary writes one line per store: share of totalBytes, object count,
// byte footprint, and interning request pressure. Indentation follows the
// containment order of the schema.
func (s *Stores) WriteSummary(w io.Writer, totalBytes int) {
	writeStoreSummary(w, "", "string", s.Strings, func(v *string) int { return len(*v) }, totalBytes)
	writeStoreSummary[uuid.UUID](w, "", "uuid.UUID", s.UUIDs, nil, totalBytes)
	writeStoreSummary(w, "", "Set[Disruption]", s.DisruptionSets,
		func(v *intern.Set[Disruption]) int { return setHeapBytes(*v) }, totalBytes)
	writeStoreSummary(w, "  ", "Disruption", s.Disruptions, disruptionHeapBytes, totalBytes)
	writeStoreSummary[ApplicationPeriod](w, "    ", "ApplicationPeriod", s.ApplicationPeriods, nil, totalBytes)
	writeStoreSummary(w, "", "Set[Line]", s.LineSets,
		func(v *intern.Set[Line]) int { return setHeapBytes(*v) }, totalBytes)
	writeStoreSummary(w, "  ", "Line", s.Lines,
		func(v *Line) int { return setHeapBytes(v.ImpactedObjects) }, totalBytes)
	writeStoreSummary[LineHeader](w, "    ", "LineHeader", s.LineHeaders, nil, totalBytes)
	writeStoreSummary[ImpactedObject](w, "    ", "ImpactedObject", s.ImpactedObjects, nil, totalBytes)
	writeStoreSummary[Object](w, "      ", "Object", s.Objects, nil, totalBytes)
	writeStoreSummary(w, "      ", "Set[uuid.UUID]", s.UUIDSets,
		func(v *intern.Set[uuid.UUID]) int { return setHeapBytes(*v) }, totalBytes)
}

func writeStoreSummary[T any](w io.Writer, prefix, title string, st *intern.Store[T], heap func(*T) int, totalBytes int) {
	n := st.Len()
	requests := st.Requests()
	bytes := storeBytes(st, heap)
	fmt.Fprintf(w, "%s- [%.2f%%] %s store: %d objects | %d bytes (%.2f bytes/object) | %d requests (%.2f requests/object)\n",
		prefix,
		float64(bytes)*100.0/float64(totalBytes),
		title,
		n,
		bytes,
		float64(bytes)/float64(n),
		requests,
		float64(requests)/float64(n),
	)
}
