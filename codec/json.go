package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// It is the most portable of the text codecs and the baseline the others are
// compared against; goccy/go-json produces byte-compatible output faster, so
// the default codec is GoJSON, not this one.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// PrettyJSON is the standard-library JSON codec with two-space indentation.
// Its output exists for human inspection of dumped databases; it decodes
// through the same path as JSON.
type PrettyJSON struct{}

// Marshal encodes the value to indented JSON.
func (PrettyJSON) Marshal(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

// Unmarshal decodes the JSON data into v.
func (PrettyJSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json-pretty").
func (PrettyJSON) Name() string { return "json-pretty" }

// Default is the codec used when none is named explicitly.
var Default Codec = GoJSON{}
