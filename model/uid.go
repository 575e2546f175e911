package model

import (
	"io"

	"github.com/google/uuid"

	"github.com/hupe1980/retrieval"
)

// NewUID returns a random (version 4) UID.
func NewUID() UID {
	return UID(uuid.New().String())
}

// NewUIDFrom returns a random UID drawing its bits from r.
func NewUIDFrom(r io.Reader) (UID, error) {
	u, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", err
	}
	return UID(u.String()), nil
}

// ParseUID derives a canonical UID from v.
//
// Accepted inputs are UID, string, uuid.UUID, *uuid.UUID, [16]byte, raw
// 16-byte or textual []byte and UIDProvider. Everything else fails with
// ErrInvalidArgument.
func ParseUID(v any) (UID, error) {
	switch x := v.(type) {
	case UID:
		return parseUIDString(string(x))
	case string:
		return parseUIDString(x)
	case uuid.UUID:
		return UID(x.String()), nil
	case *uuid.UUID:
		if x == nil {
			break
		}
		return UID(x.String()), nil
	case [16]byte:
		return UID(uuid.UUID(x).String()), nil
	case []byte:
		if len(x) == 16 {
			u, err := uuid.FromBytes(x)
			if err != nil {
				return "", retrieval.InvalidArgumentf("uid bytes: %v", err)
			}
			return UID(u.String()), nil
		}
		u, err := uuid.ParseBytes(x)
		if err != nil {
			return "", retrieval.InvalidArgumentf("uid %q: %v", x, err)
		}
		return UID(u.String()), nil
	case UIDProvider:
		return parseUIDString(string(x.UID()))
	}
	return "", retrieval.InvalidArgumentf("cannot derive uid from %T", v)
}

// IsUIDLike reports whether v is of a type ParseUID accepts. It does not
// validate the value itself.
func IsUIDLike(v any) bool {
	switch v.(type) {
	case UID, string, uuid.UUID, *uuid.UUID, [16]byte, []byte, UIDProvider:
		return true
	}
	return false
}

func parseUIDString(s string) (UID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", retrieval.InvalidArgumentf("uid %q: %v", s, err)
	}
	return UID(u.String()), nil
}
