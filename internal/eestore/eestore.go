// Package eestore provides an EEPROM-style sequential record store
// backed by a file image. The store is a flat byte array with a small
// header (magic key plus a sensor record count) followed by record
// space addressed through a cursor: callers ask for the next record
// address and advance the cursor themselves.
package eestore

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// magic marks an initialised image. A mismatch on open means the image
// is virgin (or from an incompatible layout) and gets reformatted.
var magic = []byte("SNS1")

const (
	countOff   = 4 // uint16 sensor count, little-endian
	headerSize = 6

	// DefaultSize is the image size used when the config does not set
	// one. Matches a small EEPROM part.
	DefaultSize = 512
)

// ErrOutOfSpace is returned when a read or write would cross the end of
// the image.
var ErrOutOfSpace = errors.New("eestore: out of space")

// Store is a byte image with a header and a cursor. Not safe for
// concurrent use — the control loop owns it.
type Store struct {
	path   string
	data   []byte
	cursor int
}

// Open loads the image at path, creating a fresh one of the given size
// if the file is missing or its magic does not match. Size is clamped
// to at least the header. The file itself is only written by Commit.
func Open(path string, size int) (*Store, error) {
	if size < headerSize {
		size = DefaultSize
	}
	s := &Store{path: path, data: make([]byte, size)}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.format()
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read store image: %w", err)
	}

	if len(raw) < headerSize || !bytes.Equal(raw[:len(magic)], magic) {
		s.format()
		return s, nil
	}
	copy(s.data, raw)
	s.Reset()
	return s, nil
}

// NewMem creates an in-memory store with no backing file. Commit is a
// no-op. Used by tests and by runs with persistence disabled.
func NewMem(size int) *Store {
	if size < headerSize {
		size = DefaultSize
	}
	s := &Store{data: make([]byte, size)}
	s.format()
	return s
}

func (s *Store) format() {
	for i := range s.data {
		s.data[i] = 0
	}
	copy(s.data, magic)
	s.Reset()
}

// Reset moves the cursor back to the first record address.
func (s *Store) Reset() {
	s.cursor = headerSize
}

// Pointer returns the current cursor offset.
func (s *Store) Pointer() int {
	return s.cursor
}

// Advance moves the cursor forward by n bytes.
func (s *Store) Advance(n int) {
	s.cursor += n
}

// Capacity returns the record space in bytes, excluding the header.
func (s *Store) Capacity() int {
	return len(s.data) - headerSize
}

// SensorCount reads the sensor record count from the header.
func (s *Store) SensorCount() int {
	return int(binary.LittleEndian.Uint16(s.data[countOff : countOff+2]))
}

// SetSensorCount writes the sensor record count into the header.
func (s *Store) SetSensorCount(n int) {
	binary.LittleEndian.PutUint16(s.data[countOff:countOff+2], uint16(n))
}

// ReadAt copies len(p) bytes at offset off into p.
func (s *Store) ReadAt(p []byte, off int) error {
	if off < 0 || off+len(p) > len(s.data) {
		return ErrOutOfSpace
	}
	copy(p, s.data[off:])
	return nil
}

// WriteAt copies p into the image at offset off.
func (s *Store) WriteAt(p []byte, off int) error {
	if off < 0 || off+len(p) > len(s.data) {
		return ErrOutOfSpace
	}
	copy(s.data[off:], p)
	return nil
}

// Commit flushes the image to its backing file. A store created with
// NewMem has no file and commits trivially.
func (s *Store) Commit() error {
	if s.path == "" {
		return nil
	}
	if err := os.WriteFile(s.path, s.data, 0o644); err != nil {
		return fmt.Errorf("write store image: %w", err)
	}
	return nil
}
