package disruptdb

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/gendx/disruptdb/compact"
)

// Database is a compacted corpus: the shared store bundle plus one record
// per ingested snapshot, in no particular order.
type Database struct {
	Stores  *compact.Stores
	Records []compact.Record
}

// New creates an empty database with a freshly initialized store bundle.
// Decoding any serialized form requires a database built here: the store
// hashers exist only in code.
func New() *Database {
	return &Database{Stores: compact.NewStores()}
}

// Equal reports whether both databases hold the same stores and records.
// Handle ids are a pure function of insertion order, so a database always
// compares equal to its decoded copy.
func (db *Database) Equal(other *Database) bool {
	if !db.Stores.Equal(other.Stores) {
		return false
	}
	if len(db.Records) != len(other.Records) {
		return false
	}
	for i := range db.Records {
		if !db.Records[i].Equal(other.Records[i]) {
			return false
		}
	}
	return true
}

// EstimateBytes reports the approximate in-memory footprint of the database:
// the store bundle plus the per-record handle trees.
func (db *Database) EstimateBytes() int {
	total := db.Stores.EstimateBytes()
	for i := range db.Records {
		total += db.Records[i].EstimateBytes()
	}
	return total
}

// MarshalJSON encodes the database as an object with stores and records.
func (db *Database) MarshalJSON() ([]byte, error) {
	stores, err := db.Stores.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Stores  json.RawMessage  `json:"stores"`
		Records []compact.Record `json:"records"`
	}{stores, db.Records})
}

// UnmarshalJSON decodes into a fresh store bundle, replacing any content.
func (db *Database) UnmarshalJSON(data []byte) error {
	var aux struct {
		Stores  json.RawMessage  `json:"stores"`
		Records []compact.Record `json:"records"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("disruptdb: decode database: %w", err)
	}

	stores := compact.NewStores()
	if err := stores.UnmarshalJSON(aux.Stores); err != nil {
		return err
	}
	db.Stores = stores
	db.Records = aux.Records
	return nil
}

// MarshalCBOR encodes the database as a two-element array.
func (db *Database) MarshalCBOR() ([]byte, error) {
	stores, err := db.Stores.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	records, err := cbor.Marshal(db.Records)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal([]cbor.RawMessage{stores, records})
}

// UnmarshalCBOR decodes into a fresh store bundle, replacing any content.
func (db *Database) UnmarshalCBOR(data []byte) error {
	var parts []cbor.RawMessage
	if err := cbor.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("disruptdb: decode database: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("disruptdb: expected 2 database elements, got %d", len(parts))
	}

	stores := compact.NewStores()
	if err := stores.UnmarshalCBOR(parts[0]); err != nil {
		return err
	}
	var records []compact.Record
	if err := cbor.Unmarshal(parts[1], &records); err != nil {
		return fmt.Errorf("disruptdb: decode records: %w", err)
	}
	db.Stores = stores
	db.Records = records
	return nil
}

// EncodeMsgpack encodes the database as a two-element array.
func (db *Database) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := db.Stores.EncodeMsgpack(enc); err != nil {
		return err
	}
	return enc.Encode(db.Records)
}

// DecodeMsgpack decodes into a fresh store bundle, replacing any content.
func (db *Database) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 2 {
		return fmt.Errorf("disruptdb: expected 2 database elements, got %d", n)
	}

	stores := compact.NewStores()
	if err := stores.DecodeMsgpack(dec); err != nil {
		return err
	}
	var records []compact.Record
	if err := dec.Decode(&records); err != nil {
		return fmt.Errorf("disruptdb: decode records: %w", err)
	}
	db.Stores = stores
	db.Records = records
	return nil
}
