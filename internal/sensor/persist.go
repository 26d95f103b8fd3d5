package sensor

import (
	"encoding/binary"
	"fmt"
)

// RecordSize is the encoded size of one Descriptor in the store:
// id (int16, little-endian), pin (uint8), pullUp (uint8).
// Record boundaries are implicit; there is no per-record delimiter.
const RecordSize = 4

func encodeRecord(buf []byte, d Descriptor) {
	binary.LittleEndian.PutUint16(buf[0:2], uint16(d.ID))
	buf[2] = d.Pin
	if d.PullUp {
		buf[3] = 1
	} else {
		buf[3] = 0
	}
}

func decodeRecord(buf []byte) Descriptor {
	return Descriptor{
		ID:     int16(binary.LittleEndian.Uint16(buf[0:2])),
		Pin:    buf[2],
		PullUp: buf[3] != 0,
	}
}

// Load repopulates the registry from the store: the header's record
// count, then that many fixed-size records in storage order. Registry
// order after Load matches the order at the last Save.
func Load(r *Registry, st RecordStore) error {
	st.Reset()
	n := st.SensorCount()
	buf := make([]byte, RecordSize)
	for i := 0; i < n; i++ {
		if err := st.ReadAt(buf, st.Pointer()); err != nil {
			return fmt.Errorf("read record %d: %w", i, err)
		}
		d := decodeRecord(buf)
		if _, err := r.Create(d.ID, d.Pin, d.PullUp); err != nil {
			return fmt.Errorf("restore sensor %d: %w", d.ID, err)
		}
		st.Advance(RecordSize)
	}
	return nil
}

// Save flattens the registry into the store in registry order and
// updates the header count as it goes. The count is only meaningful
// once the full pass completes; a mid-pass failure leaves it partially
// updated, which the single-writer medium makes acceptable.
func Save(r *Registry, st RecordStore) error {
	st.Reset()
	st.SetSensorCount(0)
	buf := make([]byte, RecordSize)
	n := 0
	for e := range r.All() {
		encodeRecord(buf, e.Descriptor)
		if err := st.WriteAt(buf, st.Pointer()); err != nil {
			return fmt.Errorf("write sensor %d: %w", e.ID, err)
		}
		st.Advance(RecordSize)
		n++
		st.SetSensorCount(n)
	}
	return nil
}
