// Package sensor contains the sensor registry and debounce logic.
// This package has NO hardware or transport dependencies: the physical
// line driver and the record store are injected as interfaces, and time
// is always passed in as a parameter.
package sensor

import (
	"errors"
	"time"
)

// DefaultDecay is the smoothing coefficient applied each poll cycle.
// A small value makes the filter a slow integrator: several consecutive
// samples are needed before a sensor flips state.
const DefaultDecay = 0.02

// Activation thresholds. The band between them is a hysteresis zone in
// which no transition occurs.
const (
	activateBelow   = 0.5
	deactivateAbove = 0.99
)

// Descriptor is the persisted identity of a sensor: which line it reads
// and how that line is biased.
type Descriptor struct {
	ID     int16 // unique across the registry, 0-32767 on the wire
	Pin    uint8 // physical input line
	PullUp bool  // enable the line's internal pull-up resistor
}

// Entry is a registered sensor plus its runtime filter state.
// Signal and Active are never persisted; they reset on (re)creation.
type Entry struct {
	Descriptor

	// Signal is the smoothed confidence value in [0,1].
	// 1.0 means confidently inactive, 0.0 confidently active.
	Signal float64

	// Active is the last reported activation state.
	Active bool
}

// Event is a single Inactive->Active transition, returned by Poll for
// the caller to report however it likes.
type Event struct {
	ID   int16
	Pin  uint8
	Time time.Time
}

// LineDriver configures and reads physical input lines.
// Implemented by internal/gpio for real hardware and by FakeDriver-style
// test doubles elsewhere.
type LineDriver interface {
	// ConfigureInput sets the line to input mode with the given pull-up
	// behaviour.
	ConfigureInput(pin uint8, pullUp bool) error

	// Read returns the raw line level: 0 = asserted/low, 1 = deasserted/high.
	Read(pin uint8) (int, error)
}

// RecordStore is the sequential non-volatile store the registry persists
// into. It hands out a byte offset and advances a cursor; record framing
// is the caller's business.
type RecordStore interface {
	// SensorCount reads the record count from the store header.
	SensorCount() int

	// SetSensorCount writes the record count into the store header.
	SetSensorCount(n int)

	// Reset moves the cursor back to the first record address.
	Reset()

	// Pointer returns the current cursor offset.
	Pointer() int

	// Advance moves the cursor forward by n bytes.
	Advance(n int)

	// ReadAt copies len(p) bytes at offset off into p.
	ReadAt(p []byte, off int) error

	// WriteAt copies p into the store at offset off.
	WriteAt(p []byte, off int) error
}

var (
	// ErrNotFound is returned when an operation targets an id that is
	// not in the registry.
	ErrNotFound = errors.New("sensor: not found")

	// ErrCapacity is returned by Create when entry storage is exhausted.
	ErrCapacity = errors.New("sensor: registry full")
)
