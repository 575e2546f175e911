// Package snapshot frames encoded catalog state in a self-describing
// envelope.
//
// Layout (little-endian):
//
//	[magic "RTRV"][version u8][compression u8][codec name len u8][reserved u8]
//	[raw size u32][crc32c of raw payload u32][codec name][payload]
//
// The codec name and compression id are read back on Decode, so snapshots
// written with any built-in codec or compression open without
// configuration.
package snapshot
