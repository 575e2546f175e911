package uidmap

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/google/uuid"

	"github.com/hupe1980/retrieval/model"
)

// Save writes the mapper to w.
// Format: [Count: 8 bytes] [Entry...]
// Entry: [UUID: 16 bytes] [RID: 8 bytes]
func (m *Mapper) Save(w io.Writer) error {
	items := m.Items()

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(items))); err != nil {
		return err
	}

	buf := make([]byte, 24)
	for _, p := range items {
		u, err := uuid.Parse(string(p.UID))
		if err != nil {
			return err
		}
		copy(buf[:16], u[:])
		binary.LittleEndian.PutUint64(buf[16:], uint64(p.RID))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Load replaces the mapper state with the contents of r.
func (m *Mapper) Load(r io.Reader) error {
	br := bufio.NewReader(r)

	var count uint64
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return err
	}

	pairs := make([]model.Pair, 0, min(count, 1<<16))
	buf := make([]byte, 24)
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(br, buf); err != nil {
			return err
		}
		u, err := uuid.FromBytes(buf[:16])
		if err != nil {
			return err
		}
		pairs = append(pairs, model.Pair{
			UID: model.UID(u.String()),
			RID: model.RID(int64(binary.LittleEndian.Uint64(buf[16:]))),
		})
	}

	return m.Restore(pairs)
}
