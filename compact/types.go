package compact

import (
	"github.com/google/uuid"

	"github.com/gendx/disruptdb/intern"
)

// Record is the compacted counterpart of schema.Record: a tagged variant
// with exactly one of Success or Error set.
type Record struct {
	Success *RecordSuccess `json:"success,omitempty" msgpack:"success,omitempty"`
	Error   *RecordError   `json:"error,omitempty" msgpack:"error,omitempty"`
}

// RecordSuccess holds a successful payload. The disruption and line sets are
// themselves interned: identical payload halves across records share a slot.
type RecordSuccess struct {
	Disruptions intern.Handle[intern.Set[Disruption]] `json:"disruptions" msgpack:"disruptions"`
	Lines       intern.Handle[intern.Set[Line]]       `json:"lines" msgpack:"lines"`
	LastUpdated TimestampMillis                       `json:"lastUpdatedDate" msgpack:"lastUpdatedDate"`
}

// RecordError holds an upstream error payload.
type RecordError struct {
	StatusCode int                   `json:"statusCode" msgpack:"statusCode"`
	Error      intern.Handle[string] `json:"error" msgpack:"error"`
	Message    intern.Handle[string] `json:"message" msgpack:"message"`
}

// Disruption is the compacted disruption shape.
type Disruption struct {
	ID                 intern.Handle[uuid.UUID]      `json:"id" msgpack:"id"`
	ApplicationPeriods intern.Set[ApplicationPeriod] `json:"applicationPeriods" msgpack:"applicationPeriods"`
	LastUpdate         TimestampParis                `json:"lastUpdate" msgpack:"lastUpdate"`
	Cause              intern.Handle[string]         `json:"cause" msgpack:"cause"`
	Severity           intern.Handle[string]         `json:"severity" msgpack:"severity"`
	Tags               *intern.Set[string]           `json:"tags,omitempty" msgpack:"tags,omitempty"`
	Title              intern.Handle[string]         `json:"title" msgpack:"title"`
	Message            *intern.Handle[string]        `json:"message,omitempty" msgpack:"message,omitempty"`
	ShortMessage       *intern.Handle[string]        `json:"shortMessage,omitempty" msgpack:"shortMessage,omitempty"`
	DisruptionID       *intern.Handle[uuid.UUID]     `json:"disruption_id,omitempty" msgpack:"disruption_id,omitempty"`
}

// ApplicationPeriod is the compacted time window: two unix-seconds stamps.
type ApplicationPeriod struct {
	Begin TimestampParis `json:"begin" msgpack:"begin"`
	End   TimestampParis `json:"end" msgpack:"end"`
}

// Line is the compacted line shape. The five header strings repeat across
// the corpus far more often than the impacted objects do, so they are
// interned together as one LineHeader.
type Line struct {
	Header          intern.Handle[LineHeader]  `json:"header" msgpack:"header"`
	ImpactedObjects intern.Set[ImpactedObject] `json:"impactedObjects" msgpack:"impactedObjects"`
}

// LineHeader is the identity of a transit line.
type LineHeader struct {
	ID        intern.Handle[string] `json:"id" msgpack:"id"`
	Name      intern.Handle[string] `json:"name" msgpack:"name"`
	ShortName intern.Handle[string] `json:"shortName" msgpack:"shortName"`
	Mode      intern.Handle[string] `json:"mode" msgpack:"mode"`
	NetworkID intern.Handle[string] `json:"networkId" msgpack:"networkId"`
}

// ImpactedObject is the compacted impacted-object shape.
type ImpactedObject struct {
	Object        intern.Handle[Object]                `json:"object" msgpack:"object"`
	DisruptionIDs intern.Handle[intern.Set[uuid.UUID]] `json:"disruptionIds" msgpack:"disruptionIds"`
}

// Object is a network object's identity.
type Object struct {
	Type intern.Handle[string] `json:"type" msgpack:"type"`
	ID   intern.Handle[string] `json:"id" msgpack:"id"`
	Name intern.Handle[string] `json:"name" msgpack:"name"`
}

// Equal reports structural equality between two compacted records. Handle
// ids are compared directly, which is sound between a database and its
// decoded copy: decoding replays insertion order, and ids are a pure
// function of it.
func (r Record) Equal(other Record) bool {
	switch {
	case r.Success != nil && other.Success != nil:
		return *r.Success == *other.Success
	case r.Error != nil && other.Error != nil:
		return *r.Error == *other.Error
	default:
		return false
	}
}

// Equal reports structural equality between two compacted disruptions.
func (d Disruption) Equal(other Disruption) bool {
	return d.ID == other.ID &&
		d.ApplicationPeriods.Equal(other.ApplicationPeriods) &&
		d.LastUpdate == other.LastUpdate &&
		d.Cause == other.Cause &&
		d.Severity == other.Severity &&
		eqOptFunc(d.Tags, other.Tags, func(a, b *intern.Set[string]) bool { return a.Equal(*b) }) &&
		d.Title == other.Title &&
		eqOpt(d.Message, other.Message) &&
		eqOpt(d.ShortMessage, other.ShortMessage) &&
		eqOpt(d.DisruptionID, other.DisruptionID)
}

// Equal reports structural equality between two compacted lines.
func (l Line) Equal(other Line) bool {
	return l.Header == other.Header && l.ImpactedObjects.Equal(other.ImpactedObjects)
}

func eqOpt[T comparable](a, b *T) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func eqOptFunc[A, B any](a *A, b *B, pred func(*A, *B) bool) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || pred(a, b)
}
