package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Snapshots written with it are human-readable but larger than MsgPack.
// Integer postings and ids survive unchanged; interface-typed numbers
// decode as float64.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }
