package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/retrieval"
)

// FieldKind is the declared type of a schema field.
type FieldKind string

const (
	// KindTextLine is a single line of text. Indexed as field and text.
	KindTextLine FieldKind = "textline"
	// KindBytesLine is a single line of bytes. Indexed as field and text.
	KindBytesLine FieldKind = "bytesline"
	// KindText is free text. Indexed as text only.
	KindText FieldKind = "text"
	// KindCollection is a list, set or tuple of scalars. Indexed as keyword.
	KindCollection FieldKind = "collection"
	// KindChoice is one value out of a fixed vocabulary. Indexed as field.
	KindChoice FieldKind = "choice"
	// KindBytes is binary content. Not indexed.
	KindBytes FieldKind = "bytes"
	// KindObject is a nested object. Not indexed.
	KindObject FieldKind = "object"
	// KindDict is a mapping. Not indexed.
	KindDict FieldKind = "dict"
	// KindInt is an integer. Indexed as field.
	KindInt FieldKind = "int"
	// KindFloat is a floating point number. Indexed as field.
	KindFloat FieldKind = "float"
	// KindDecimal is a decimal number. Indexed as field.
	KindDecimal FieldKind = "decimal"
	// KindBool is a boolean. Indexed as field.
	KindBool FieldKind = "bool"
	// KindDate is a calendar date, stored as its proleptic ordinal.
	// Indexed as field.
	KindDate FieldKind = "date"
	// KindDatetime is a point in time, stored as epoch seconds.
	// Indexed as field.
	KindDatetime FieldKind = "datetime"
)

var kindAliases = map[string]FieldKind{
	"list":      KindCollection,
	"set":       KindCollection,
	"frozenset": KindCollection,
	"tuple":     KindCollection,
	"sequence":  KindCollection,
	"string":    KindTextLine,
	"integer":   KindInt,
	"boolean":   KindBool,
	"timestamp": KindDatetime,
}

// ParseFieldKind maps a kind name (or alias such as "list") to a FieldKind.
// Unknown names are kept as-is; they derive a single field index.
func ParseFieldKind(s string) FieldKind {
	s = strings.ToLower(strings.TrimSpace(s))
	if k, ok := kindAliases[s]; ok {
		return k
	}
	return FieldKind(s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *FieldKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*k = ParseFieldKind(s)
	return nil
}

// Field is one schema field.
type Field struct {
	Name  string    `yaml:"name" json:"name"`
	Kind  FieldKind `yaml:"kind" json:"kind"`
	Title string    `yaml:"title,omitempty" json:"title,omitempty"`
}

// Schema is an ordered list of fields under a unique name.
type Schema struct {
	Name   string  `yaml:"name" json:"name"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// New creates and validates a schema.
func New(name string, fields ...Field) (*Schema, error) {
	s := &Schema{Name: name, Fields: fields}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew is like New but panics on error.
func MustNew(name string, fields ...Field) *Schema {
	s, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate rejects empty or duplicate field names.
func (s *Schema) Validate() error {
	if s == nil {
		return retrieval.InvalidArgumentf("nil schema")
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" {
			return retrieval.InvalidArgumentf("schema %s: field %d has no name", s.Name, i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("schema %s: field %s: %w", s.Name, f.Name, retrieval.ErrDuplicateKey)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// Field returns the field called name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}
