package compact

import (
	"github.com/google/uuid"

	"github.com/gendx/disruptdb/intern"
	"github.com/gendx/disruptdb/schema"
)

// EqualSource reports whether the compacted record denotes the same document
// as its source, resolving every handle through st. The check is exhaustive
// in both directions: the source's fields of the other variant must be
// absent, not merely ignored, so a record that lost or invented a variant
// field cannot pass.
func (r Record) EqualSource(st *Stores, src *schema.Record) bool {
	switch {
	case r.Success != nil:
		if src.StatusCode != nil || src.Error != nil || src.Message != nil {
			return false
		}
		if src.Disruptions == nil || src.Lines == nil || src.LastUpdatedDate == nil {
			return false
		}
		return r.Success.equalSource(st, src)

	case r.Error != nil:
		if src.Disruptions != nil || src.Lines != nil || src.LastUpdatedDate != nil {
			return false
		}
		if src.StatusCode == nil || src.Error == nil || src.Message == nil {
			return false
		}
		return r.Error.StatusCode == *src.StatusCode &&
			st.Strings.Lookup(r.Error.Error) == *src.Error &&
			st.Strings.Lookup(r.Error.Message) == *src.Message

	default:
		return false
	}
}

func (s *RecordSuccess) equalSource(st *Stores, src *schema.Record) bool {
	// Timestamps compare by formatting the compacted instant back to text.
	// A same-instant source string in any other spelling is a lossy round
	// trip and must fail.
	if s.LastUpdated.Format() != *src.LastUpdatedDate {
		return false
	}

	disruptions := st.DisruptionSets.Lookup(s.Disruptions)
	if !intern.EqSet(disruptions, src.Disruptions, func(h intern.Handle[Disruption], raw *schema.Disruption) bool {
		return st.Disruptions.Lookup(h).EqualSource(st, raw)
	}) {
		return false
	}

	lines := st.LineSets.Lookup(s.Lines)
	return intern.EqSet(lines, src.Lines, func(h intern.Handle[Line], raw *schema.Line) bool {
		return st.Lines.Lookup(h).EqualSource(st, raw)
	})
}

// EqualSource reports whether the compacted disruption denotes src.
func (d Disruption) EqualSource(st *Stores, src *schema.Disruption) bool {
	if st.UUIDs.Lookup(d.ID) != src.ID {
		return false
	}

	if !intern.EqSet(d.ApplicationPeriods, src.ApplicationPeriods,
		func(h intern.Handle[ApplicationPeriod], raw *schema.ApplicationPeriod) bool {
			return st.ApplicationPeriods.Lookup(h).equalSource(raw)
		}) {
		return false
	}

	if d.LastUpdate.Format() != src.LastUpdate {
		return false
	}

	if st.Strings.Lookup(d.Cause) != src.Cause ||
		st.Strings.Lookup(d.Severity) != src.Severity ||
		st.Strings.Lookup(d.Title) != src.Title {
		return false
	}

	if (d.Tags != nil) != (src.Tags != nil) {
		return false
	}
	if d.Tags != nil {
		if !intern.EqSet(*d.Tags, src.Tags, func(h intern.Handle[string], raw *string) bool {
			return st.Strings.Lookup(h) == *raw
		}) {
			return false
		}
	}

	return eqOptSource(st.Strings, d.Message, src.Message) &&
		eqOptSource(st.Strings, d.ShortMessage, src.ShortMessage) &&
		eqOptSource(st.UUIDs, d.DisruptionID, src.DisruptionID)
}

func (p ApplicationPeriod) equalSource(src *schema.ApplicationPeriod) bool {
	return p.Begin.Format() == src.Begin && p.End.Format() == src.End
}

// EqualSource reports whether the compacted line denotes src.
func (l Line) EqualSource(st *Stores, src *schema.Line) bool {
	header := st.LineHeaders.Lookup(l.Header)
	if st.Strings.Lookup(header.ID) != src.ID ||
		st.Strings.Lookup(header.Name) != src.Name ||
		st.Strings.Lookup(header.ShortName) != src.ShortName ||
		st.Strings.Lookup(header.Mode) != src.Mode ||
		st.Strings.Lookup(header.NetworkID) != src.NetworkID {
		return false
	}

	return intern.EqSet(l.ImpactedObjects, src.ImpactedObjects,
		func(h intern.Handle[ImpactedObject], raw *schema.ImpactedObject) bool {
			return st.ImpactedObjects.Lookup(h).equalSource(st, raw)
		})
}

func (o ImpactedObject) equalSource(st *Stores, src *schema.ImpactedObject) bool {
	object := st.Objects.Lookup(o.Object)
	if st.Strings.Lookup(object.Type) != src.Type ||
		st.Strings.Lookup(object.ID) != src.ID ||
		st.Strings.Lookup(object.Name) != src.Name {
		return false
	}

	ids := st.UUIDSets.Lookup(o.DisruptionIDs)
	return intern.EqSet(ids, src.DisruptionIDs, func(h intern.Handle[uuid.UUID], raw *uuid.UUID) bool {
		return st.UUIDs.Lookup(h) == *raw
	})
}

func eqOptSource[T comparable](st *intern.Store[T], h *intern.Handle[T], src *T) bool {
	if (h == nil) != (src == nil) {
		return false
	}
	return h == nil || st.Lookup(*h) == *src
}
