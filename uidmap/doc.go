// Package uidmap maintains the bijection between document UIDs and the
// record ids (RIDs) used as index storage keys.
//
// Record ids are generated by picking a random start in the signed 64-bit
// range and probing upward for the first free value. Overflow past
// math.MaxInt64 restarts at a fresh random point instead of wrapping. The
// probe cursor is never kept between generations, so the ids handed out do
// not reveal which ranges are in use.
//
// A Mapper is safe for concurrent readers. Mutations must be serialized by
// the caller (one writer at a time).
package uidmap
