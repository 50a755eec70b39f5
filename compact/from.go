package compact

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gendx/disruptdb/intern"
	"github.com/gendx/disruptdb/schema"
)

// ErrAmbiguousRecord reports a source record whose populated fields match
// neither the success shape (disruptions, lines, lastUpdatedDate) nor the
// error shape (statusCode, error, message) exactly.
var ErrAmbiguousRecord = errors.New("compact: record matches neither the success nor the error shape")

// NewRecord compacts one parsed source record into st, interning bottom-up:
// leaves first, then the aggregates built from their handles. The source
// variant is decided by exact field-set matching; a record straddling both
// shapes is rejected rather than guessed at.
func NewRecord(st *Stores, src *schema.Record) (Record, error) {
	switch {
	case src.Disruptions != nil && src.Lines != nil && src.LastUpdatedDate != nil &&
		src.StatusCode == nil && src.Error == nil && src.Message == nil:
		success, err := newSuccess(st, src)
		if err != nil {
			return Record{}, err
		}
		return Record{Success: success}, nil

	case src.Disruptions == nil && src.Lines == nil && src.LastUpdatedDate == nil &&
		src.StatusCode != nil && src.Error != nil && src.Message != nil:
		return Record{Error: &RecordError{
			StatusCode: *src.StatusCode,
			Error:      st.Strings.Intern(*src.Error),
			Message:    st.Strings.Intern(*src.Message),
		}}, nil

	default:
		return Record{}, ErrAmbiguousRecord
	}
}

func newSuccess(st *Stores, src *schema.Record) (*RecordSuccess, error) {
	disruptions := make([]intern.Handle[Disruption], 0, len(src.Disruptions))
	for i := range src.Disruptions {
		d, err := newDisruption(st, &src.Disruptions[i])
		if err != nil {
			return nil, fmt.Errorf("compact: disruption %s: %w", src.Disruptions[i].ID, err)
		}
		disruptions = append(disruptions, st.Disruptions.Intern(d))
	}

	lines := make([]intern.Handle[Line], 0, len(src.Lines))
	for i := range src.Lines {
		lines = append(lines, st.Lines.Intern(newLine(st, &src.Lines[i])))
	}

	lastUpdated, err := ParseRFC3339Millis(*src.LastUpdatedDate)
	if err != nil {
		return nil, err
	}

	return &RecordSuccess{
		Disruptions: st.DisruptionSets.Intern(intern.NewSet(disruptions)),
		Lines:       st.LineSets.Intern(intern.NewSet(lines)),
		LastUpdated: lastUpdated,
	}, nil
}

func newDisruption(st *Stores, src *schema.Disruption) (Disruption, error) {
	periods := make([]intern.Handle[ApplicationPeriod], 0, len(src.ApplicationPeriods))
	for _, p := range src.ApplicationPeriods {
		begin, err := ParseParis(p.Begin)
		if err != nil {
			return Disruption{}, fmt.Errorf("application period begin: %w", err)
		}
		end, err := ParseParis(p.End)
		if err != nil {
			return Disruption{}, fmt.Errorf("application period end: %w", err)
		}
		periods = append(periods, st.ApplicationPeriods.Intern(ApplicationPeriod{Begin: begin, End: end}))
	}

	lastUpdate, err := ParseParis(src.LastUpdate)
	if err != nil {
		return Disruption{}, fmt.Errorf("last update: %w", err)
	}

	var tags *intern.Set[string]
	if src.Tags != nil {
		handles := make([]intern.Handle[string], 0, len(src.Tags))
		for _, tag := range src.Tags {
			handles = append(handles, st.Strings.Intern(tag))
		}
		set := intern.NewSet(handles)
		tags = &set
	}

	var message, shortMessage *intern.Handle[string]
	if src.Message != nil {
		h := st.Strings.Intern(*src.Message)
		message = &h
	}
	if src.ShortMessage != nil {
		h := st.Strings.Intern(*src.ShortMessage)
		shortMessage = &h
	}

	var disruptionID *intern.Handle[uuid.UUID]
	if src.DisruptionID != nil {
		h := st.UUIDs.Intern(*src.DisruptionID)
		disruptionID = &h
	}

	return Disruption{
		ID:                 st.UUIDs.Intern(src.ID),
		ApplicationPeriods: intern.NewSet(periods),
		LastUpdate:         lastUpdate,
		Cause:              st.Strings.Intern(src.Cause),
		Severity:           st.Strings.Intern(src.Severity),
		Tags:               tags,
		Title:              st.Strings.Intern(src.Title),
		Message:            message,
		ShortMessage:       shortMessage,
		DisruptionID:       disruptionID,
	}, nil
}

func newLine(st *Stores, src *schema.Line) Line {
	header := st.LineHeaders.Intern(LineHeader{
		ID:        st.Strings.Intern(src.ID),
		Name:      st.Strings.Intern(src.Name),
		ShortName: st.Strings.Intern(src.ShortName),
		Mode:      st.Strings.Intern(src.Mode),
		NetworkID: st.Strings.Intern(src.NetworkID),
	})

	objects := make([]intern.Handle[ImpactedObject], 0, len(src.ImpactedObjects))
	for i := range src.ImpactedObjects {
		objects = append(objects, st.ImpactedObjects.Intern(newImpactedObject(st, &src.ImpactedObjects[i])))
	}

	return Line{Header: header, ImpactedObjects: intern.NewSet(objects)}
}

func newImpactedObject(st *Stores, src *schema.ImpactedObject) ImpactedObject {
	object := st.Objects.Intern(Object{
		Type: st.Strings.Intern(src.Type),
		ID:   st.Strings.Intern(src.ID),
		Name: st.Strings.Intern(src.Name),
	})

	ids := make([]intern.Handle[uuid.UUID], 0, len(src.DisruptionIDs))
	for _, id := range src.DisruptionIDs {
		ids = append(ids, st.UUIDs.Intern(id))
	}

	return ImpactedObject{
		Object:        object,
		DisruptionIDs: st.UUIDSets.Intern(intern.NewSet(ids)),
	}
}
