package schema

import "unsafe"

// Byte-footprint estimation for compaction statistics: shallow struct size
// plus heap allocations, the same accounting the compacted side uses so the
// before/after ratio is meaningful.

func stringBytes(s string) int {
	return int(unsafe.Sizeof(s)) + len(s)
}

func optStringBytes(s *string) int {
	if s == nil {
		return 0
	}
	return stringBytes(*s)
}

// EstimateBytes reports the approximate in-memory footprint of the record.
func (r *Record) EstimateBytes() int {
	total := int(unsafe.Sizeof(*r))
	for i := range r.Disruptions {
		total += r.Disruptions[i].EstimateBytes()
	}
	for i := range r.Lines {
		total += r.Lines[i].EstimateBytes()
	}
	total += optStringBytes(r.LastUpdatedDate)
	if r.StatusCode != nil {
		total += int(unsafe.Sizeof(*r.StatusCode))
	}
	total += optStringBytes(r.Error)
	total += optStringBytes(r.Message)
	return total
}

// EstimateBytes reports the approximate in-memory footprint of the disruption.
func (d *Disruption) EstimateBytes() int {
	total := int(unsafe.Sizeof(*d))
	for i := range d.ApplicationPeriods {
		total += d.ApplicationPeriods[i].EstimateBytes()
	}
	total += len(d.LastUpdate) + len(d.Cause) + len(d.Severity) + len(d.Title)
	for _, tag := range d.Tags {
		total += stringBytes(tag)
	}
	total += optStringBytes(d.Message)
	total += optStringBytes(d.ShortMessage)
	if d.DisruptionID != nil {
		total += int(unsafe.Sizeof(*d.DisruptionID))
	}
	return total
}

// EstimateBytes reports the approximate in-memory footprint of the period.
func (p *ApplicationPeriod) EstimateBytes() int {
	return int(unsafe.Sizeof(*p)) + len(p.Begin) + len(p.End)
}

// EstimateBytes reports the approximate in-memory footprint of the line.
func (l *Line) EstimateBytes() int {
	total := int(unsafe.Sizeof(*l))
	total += len(l.ID) + len(l.Name) + len(l.ShortName) + len(l.Mode) + len(l.NetworkID)
	for i := range l.ImpactedObjects {
		total += l.ImpactedObjects[i].EstimateBytes()
	}
	return total
}

// EstimateBytes reports the approximate in-memory footprint of the object.
func (o *ImpactedObject) EstimateBytes() int {
	total := int(unsafe.Sizeof(*o))
	total += len(o.Type) + len(o.ID) + len(o.Name)
	total += len(o.DisruptionIDs) * 16
	return total
}
