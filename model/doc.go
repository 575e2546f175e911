// Package model defines core types used throughout the catalog.
//
// # Identity Types
//
//   - UID: canonical string form of an RFC 4122 UUID identifying a document
//   - RID: signed 64-bit record id used as the index storage key
//   - Pair: a bound (UID, RID) tuple
//
// # Value Types
//
//   - Date: calendar date without time zone, indexed by its proleptic ordinal
//   - IndexKind: field, keyword or text
//
// # Conversions
//
// ParseUID accepts strings, UUID values, raw or textual bytes and any
// UIDProvider. ParseRID accepts every Go integer type and *big.Int and
// rejects values outside the signed 64-bit range with ErrOutOfRange.
package model
