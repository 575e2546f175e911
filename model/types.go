package model

import (
	"fmt"
	"strings"
	"time"
)

// UID is the canonical string form of an RFC 4122 UUID.
type UID string

// String returns the UID as a plain string.
func (u UID) String() string { return string(u) }

// RID is a record id. Every int64 value is a valid RID.
type RID int64

// Pair binds a UID to a RID.
type Pair struct {
	UID UID `msgpack:"u" json:"uid"`
	RID RID `msgpack:"r" json:"rid"`
}

// String returns a string representation of the Pair.
func (p Pair) String() string {
	return fmt.Sprintf("Pair(%s:%d)", p.UID, p.RID)
}

// UIDProvider is implemented by documents that expose their own UID.
type UIDProvider interface {
	UID() UID
}

// Resolver turns a UID into a live object.
//
// A nil object with a nil error is a miss. Errors propagate to the caller.
type Resolver interface {
	Resolve(uid UID) (any, error)
}

// ordinalOffset is the ordinal of 1970-01-01 where 0001-01-01 is 1.
const ordinalOffset = 719163

// Date is a calendar date in the proleptic Gregorian calendar.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the normalized date for year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// DateFromOrdinal is the inverse of Date.Ordinal.
func DateFromOrdinal(n int64) Date {
	return DateOf(time.Unix((n-ordinalOffset)*86400, 0).UTC())
}

// Ordinal returns the day number where 0001-01-01 is day 1.
func (d Date) Ordinal() int64 {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return t.Unix()/86400 + ordinalOffset
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IndexKind is the type of an index.
type IndexKind string

const (
	// KindField indexes the whole normalized value.
	KindField IndexKind = "field"
	// KindKeyword indexes every element of a collection value.
	KindKeyword IndexKind = "keyword"
	// KindText indexes the tokens of a text value.
	KindText IndexKind = "text"
)

// Valid reports whether k is a known index kind.
func (k IndexKind) Valid() bool {
	switch k {
	case KindField, KindKeyword, KindText:
		return true
	}
	return false
}

// IndexName returns the index name for a field: "<kind>_<field>".
func IndexName(kind IndexKind, field string) string {
	return string(kind) + "_" + field
}

// SplitIndexName splits an index name into its kind and field name.
func SplitIndexName(name string) (IndexKind, string, bool) {
	prefix, field, ok := strings.Cut(name, "_")
	if !ok || field == "" {
		return "", "", false
	}
	kind := IndexKind(prefix)
	if !kind.Valid() {
		return "", "", false
	}
	return kind, field, true
}
