package compact

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/gendx/disruptdb/intern"
)

// Stores is the bundle of interners the compacted schema resolves through,
// one per leaf and aggregate type. All compaction for one corpus goes
// through one shared bundle; stores are safe for concurrent interning.
type Stores struct {
	Strings            *intern.Store[string]
	UUIDs              *intern.Store[uuid.UUID]
	DisruptionSets     *intern.Store[intern.Set[Disruption]]
	Disruptions        *intern.Store[Disruption]
	ApplicationPeriods *intern.Store[ApplicationPeriod]
	LineSets           *intern.Store[intern.Set[Line]]
	Lines              *intern.Store[Line]
	LineHeaders        *intern.Store[LineHeader]
	ImpactedObjects    *intern.Store[ImpactedObject]
	Objects            *intern.Store[Object]
	UUIDSets           *intern.Store[intern.Set[uuid.UUID]]
}

// NewStores creates an empty bundle. Decoding requires a bundle built here:
// the hashers are not serialized.
func NewStores() *Stores {
	return &Stores{
		Strings:            intern.NewStore[string](intern.StringHasher{}),
		UUIDs:              intern.NewStore[uuid.UUID](uuidHasher{}),
		DisruptionSets:     intern.NewStore[intern.Set[Disruption]](intern.SetHasher[Disruption]{}),
		Disruptions:        intern.NewStore[Disruption](disruptionHasher{}),
		ApplicationPeriods: intern.NewStore[ApplicationPeriod](applicationPeriodHasher{}),
		LineSets:           intern.NewStore[intern.Set[Line]](intern.SetHasher[Line]{}),
		Lines:              intern.NewStore[Line](lineHasher{}),
		LineHeaders:        intern.NewStore[LineHeader](lineHeaderHasher{}),
		ImpactedObjects:    intern.NewStore[ImpactedObject](impactedObjectHasher{}),
		Objects:            intern.NewStore[Object](objectHasher{}),
		UUIDSets:           intern.NewStore[intern.Set[uuid.UUID]](intern.SetHasher[uuid.UUID]{}),
	}
}

// Equal reports whether both bundles hold content-equal value sequences.
func (s *Stores) Equal(other *Stores) bool {
	return s.Strings.Equal(other.Strings) &&
		s.UUIDs.Equal(other.UUIDs) &&
		s.DisruptionSets.Equal(other.DisruptionSets) &&
		s.Disruptions.Equal(other.Disruptions) &&
		s.ApplicationPeriods.Equal(other.ApplicationPeriods) &&
		s.LineSets.Equal(other.LineSets) &&
		s.Lines.Equal(other.Lines) &&
		s.LineHeaders.Equal(other.LineHeaders) &&
		s.ImpactedObjects.Equal(other.ImpactedObjects) &&
		s.Objects.Equal(other.Objects) &&
		s.UUIDSets.Equal(other.UUIDSets)
}

// The bundle serializes as a fixed 11-element array, in declaration order.
// Field names would only repeat per database what the layout already fixes.
const storeCount = 11

// MarshalJSON encodes the bundle as an array of store value sequences.
func (s *Stores) MarshalJSON() ([]byte, error) {
	parts := make([]json.RawMessage, 0, storeCount)
	for _, m := range []json.Marshaler{
		s.Strings, s.UUIDs, s.DisruptionSets, s.Disruptions,
		s.ApplicationPeriods, s.LineSets, s.Lines, s.LineHeaders,
		s.ImpactedObjects, s.Objects, s.UUIDSets,
	} {
		data, err := m.MarshalJSON()
		if err != nil {
			return nil, err
		}
		parts = append(parts, json.RawMessage(data))
	}
	return json.Marshal(parts)
}

// UnmarshalJSON rebuilds every store in the pre-constructed bundle.
func (s *Stores) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != storeCount {
		return fmt.Errorf("compact: expected %d stores, got %d", storeCount, len(parts))
	}
	for i, u := range []json.Unmarshaler{
		s.Strings, s.UUIDs, s.DisruptionSets, s.Disruptions,
		s.ApplicationPeriods, s.LineSets, s.Lines, s.LineHeaders,
		s.ImpactedObjects, s.Objects, s.UUIDSets,
	} {
		if err := u.UnmarshalJSON(parts[i]); err != nil {
			return fmt.Errorf("compact: store %d: %w", i, err)
		}
	}
	return nil
}

// MarshalCBOR encodes the bundle as an array of store value sequences.
func (s *Stores) MarshalCBOR() ([]byte, error) {
	parts := make([]cbor.RawMessage, 0, storeCount)
	for _, m := range []cbor.Marshaler{
		s.Strings, s.UUIDs, s.DisruptionSets, s.Disruptions,
		s.ApplicationPeriods, s.LineSets, s.Lines, s.LineHeaders,
		s.ImpactedObjects, s.Objects, s.UUIDSets,
	} {
		data, err := m.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		parts = append(parts, cbor.RawMessage(data))
	}
	return cbor.Marshal(parts)
}

// UnmarshalCBOR rebuilds every store in the pre-constructed bundle.
func (s *Stores) UnmarshalCBOR(data []byte) error {
	var parts []cbor.RawMessage
	if err := cbor.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != storeCount {
		return fmt.Errorf("compact: expected %d stores, got %d", storeCount, len(parts))
	}
	for i, u := range []cbor.Unmarshaler{
		s.Strings, s.UUIDs, s.DisruptionSets, s.Disruptions,
		s.ApplicationPeriods, s.LineSets, s.Lines, s.LineHeaders,
		s.ImpactedObjects, s.Objects, s.UUIDSets,
	} {
		if err := u.UnmarshalCBOR(parts[i]); err != nil {
			return fmt.Errorf("compact: store %d: %w", i, err)
		}
	}
	return nil
}

// EncodeMsgpack encodes the bundle as an array of store value sequences.
func (s *Stores) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(storeCount); err != nil {
		return err
	}
	for _, e := range []msgpack.CustomEncoder{
		s.Strings, s.UUIDs, s.DisruptionSets, s.Disruptions,
		s.ApplicationPeriods, s.LineSets, s.Lines, s.LineHeaders,
		s.ImpactedObjects, s.Objects, s.UUIDSets,
	} {
		if err := e.EncodeMsgpack(enc); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack rebuilds every store in the pre-constructed bundle.
func (s *Stores) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != storeCount {
		return fmt.Errorf("compact: expected %d stores, got %d", storeCount, n)
	}
	for i, d := range []msgpack.CustomDecoder{
		s.Strings, s.UUIDs, s.DisruptionSets, s.Disruptions,
		s.ApplicationPeriods, s.LineSets, s.Lines, s.LineHeaders,
		s.ImpactedObjects, s.Objects, s.UUIDSets,
	} {
		if err := d.DecodeMsgpack(dec); err != nil {
			return fmt.Errorf("compact: store %d: %w", i, err)
		}
	}
	return nil
}
