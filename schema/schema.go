// Package schema defines the source shapes of transit-disruption records as
// they arrive on disk: one JSON document per file, decoded strictly (unknown
// fields are rejected) and never mutated after parse.
//
// A record is a flat optional-field encoding of two mutually exclusive
// cases: a successful payload (disruptions, lines, last-updated date) or an
// upstream error (status code, error, message). Which case applies is
// decided downstream, when the record is compacted.
package schema

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Record is the top-level source document.
//
// Nil-ness is significant: a nil slice or pointer means the field was absent
// from the JSON, which is how the success and error cases are told apart.
type Record struct {
	// Success case.
	Disruptions     []Disruption `json:"disruptions,omitempty"`
	Lines           []Line       `json:"lines,omitempty"`
	LastUpdatedDate *string      `json:"lastUpdatedDate,omitempty"`
	// Error case.
	StatusCode *int    `json:"statusCode,omitempty"`
	Error      *string `json:"error,omitempty"`
	Message    *string `json:"message,omitempty"`
}

// Disruption is one disruption entry of a successful record.
type Disruption struct {
	ID                 uuid.UUID           `json:"id"`
	ApplicationPeriods []ApplicationPeriod `json:"applicationPeriods"`
	LastUpdate         string              `json:"lastUpdate"`
	Cause              string              `json:"cause"`
	Severity           string              `json:"severity"`
	Tags               []string            `json:"tags,omitempty"`
	Title              string              `json:"title"`
	Message            *string             `json:"message,omitempty"`
	ShortMessage       *string             `json:"shortMessage,omitempty"`
	DisruptionID       *uuid.UUID          `json:"disruption_id,omitempty"`
}

// ApplicationPeriod is a time window during which a disruption applies.
// Begin and end are naive local timestamps in the 20060102T150405 layout.
type ApplicationPeriod struct {
	Begin string `json:"begin"`
	End   string `json:"end"`
}

// Line is a transit line impacted by disruptions.
type Line struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	ShortName       string           `json:"shortName"`
	Mode            string           `json:"mode"`
	NetworkID       string           `json:"networkId"`
	ImpactedObjects []ImpactedObject `json:"impactedObjects"`
}

// ImpactedObject is a network object (stop, area, ...) on an impacted line.
type ImpactedObject struct {
	Type          string      `json:"type"`
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	DisruptionIDs []uuid.UUID `json:"disruptionIds"`
}

// Decode parses one source record, rejecting unknown fields so an upstream
// schema change surfaces as a parse error instead of silent data loss.
func Decode(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("schema: decode record: %w", err)
	}
	return &rec, nil
}
