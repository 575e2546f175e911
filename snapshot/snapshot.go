package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/hupe1980/retrieval/codec"
)

const (
	// Magic identifies a snapshot.
	Magic = "RTRV"
	// Version is the current envelope version.
	Version = 1

	headerSize = 16
)

var (
	// ErrInvalidFormat is returned for data that is not a snapshot.
	ErrInvalidFormat = errors.New("snapshot: invalid format")
	// ErrUnsupportedVersion is returned for snapshots written by a newer
	// envelope version.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	// ErrChecksum is returned when the payload checksum does not match.
	ErrChecksum = errors.New("snapshot: checksum mismatch")
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Header describes a decoded snapshot.
type Header struct {
	Version     uint8
	Compression Compression
	Codec       string
	RawSize     uint32
	Checksum    uint32
}

// Options configures Encode. A nil Codec selects codec.Default; the zero
// Compression stores the payload uncompressed.
type Options struct {
	Codec       codec.Codec
	Compression Compression
}

// DefaultOptions returns msgpack with zstd.
func DefaultOptions() Options {
	return Options{Codec: codec.Default, Compression: CompressionZstd}
}

// Marshal encodes v into a snapshot envelope.
func Marshal(v any, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes v to w in a snapshot envelope.
func Encode(w io.Writer, v any, opts Options) error {
	c := opts.Codec
	if c == nil {
		c = codec.Default
	}
	name := c.Name()
	if len(name) > math.MaxUint8 {
		return fmt.Errorf("snapshot: codec name too long: %q", name)
	}

	raw, err := c.Marshal(v)
	if err != nil {
		return fmt.Errorf("snapshot: encode with %s: %w", name, err)
	}
	if uint64(len(raw)) > math.MaxUint32 {
		return fmt.Errorf("snapshot: payload too large: %d bytes", len(raw))
	}

	comp := opts.Compression
	payload, err := compress(raw, comp)
	if errors.Is(err, errIncompressible) {
		comp, payload, err = CompressionNone, raw, nil
	}
	if err != nil {
		return fmt.Errorf("snapshot: compress with %s: %w", comp, err)
	}

	var hdr [headerSize]byte
	copy(hdr[0:4], Magic)
	hdr[4] = Version
	hdr[5] = byte(comp)
	hdr[6] = byte(len(name))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(len(raw)))
	binary.LittleEndian.PutUint32(hdr[12:], crc32.Checksum(raw, castagnoli))

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(w, name); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// Unmarshal decodes a snapshot envelope into v.
func Unmarshal(data []byte, v any) (Header, error) {
	return Decode(bytes.NewReader(data), v)
}

// Decode reads a snapshot envelope from r into v, selecting the codec by
// the name stored in the header.
func Decode(r io.Reader, v any) (Header, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if string(hdr[0:4]) != Magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrInvalidFormat, hdr[0:4])
	}

	h := Header{
		Version:     hdr[4],
		Compression: Compression(hdr[5]),
		RawSize:     binary.LittleEndian.Uint32(hdr[8:]),
		Checksum:    binary.LittleEndian.Uint32(hdr[12:]),
	}
	if h.Version != Version {
		return h, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	name := make([]byte, hdr[6])
	if _, err := io.ReadFull(r, name); err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	h.Codec = string(name)

	c, ok := codec.ByName(h.Codec)
	if !ok {
		return h, fmt.Errorf("snapshot: unknown codec %q", h.Codec)
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return h, err
	}
	raw, err := decompress(payload, h.Compression, int(h.RawSize))
	if err != nil {
		return h, fmt.Errorf("snapshot: decompress %s: %w", h.Compression, err)
	}
	if len(raw) != int(h.RawSize) || crc32.Checksum(raw, castagnoli) != h.Checksum {
		return h, ErrChecksum
	}

	if err := c.Unmarshal(raw, v); err != nil {
		return h, fmt.Errorf("snapshot: decode with %s: %w", h.Codec, err)
	}
	return h, nil
}
