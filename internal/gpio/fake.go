package gpio

import "fmt"

// FakeDriver is a test double with settable per-pin levels.
type FakeDriver struct {
	// Levels holds the current raw level per pin (0 = low, 1 = high).
	Levels map[uint8]int

	// PullUps records the pull-up flag from the last ConfigureInput per pin.
	PullUps map[uint8]bool

	// ConfigureCalls counts ConfigureInput invocations.
	ConfigureCalls int

	// ConfigureErr, if set, will be returned by ConfigureInput.
	ConfigureErr error

	// ReadErr, if set, will be returned by Read.
	ReadErr error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDriver creates a FakeDriver with no configured pins.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{
		Levels:  make(map[uint8]int),
		PullUps: make(map[uint8]bool),
	}
}

// ConfigureInput records the pin's pull-up flag. A newly configured pin
// floats high, matching an idle externally pulled-up line.
func (f *FakeDriver) ConfigureInput(pin uint8, pullUp bool) error {
	if f.ConfigureErr != nil {
		return f.ConfigureErr
	}
	f.ConfigureCalls++
	f.PullUps[pin] = pullUp
	if _, ok := f.Levels[pin]; !ok {
		f.Levels[pin] = 1
	}
	return nil
}

// Set drives the pin to the given raw level.
func (f *FakeDriver) Set(pin uint8, level int) {
	f.Levels[pin] = level
}

// Read returns the pin's current level.
func (f *FakeDriver) Read(pin uint8) (int, error) {
	if f.ReadErr != nil {
		return 0, f.ReadErr
	}
	level, ok := f.Levels[pin]
	if !ok {
		return 0, fmt.Errorf("pin %d not configured", pin)
	}
	return level, nil
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.Closed = true
	return nil
}
