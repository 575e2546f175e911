// Package resolver provides item resolvers: functions that turn a UID into
// the live object it identifies.
//
// A resolver returns a nil item and a nil error on a miss. Results and
// catalogs treat a miss as "not found" rather than as a failure.
package resolver
