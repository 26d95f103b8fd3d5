package sensor

import (
	"iter"
	"log"
	"time"
)

// Config controls a Registry's filter and storage limits.
type Config struct {
	// Decay is the per-cycle smoothing coefficient. Zero means DefaultDecay.
	Decay float64

	// Capacity is the maximum number of entries. Zero means unlimited.
	// Typically sized from the backing store so that a full registry is
	// always saveable.
	Capacity int
}

// Registry is an ordered collection of sensor entries keyed by id.
// It owns its entries exclusively; callers mutate only through its
// methods. Not safe for concurrent use — the control loop owns it.
type Registry struct {
	driver   LineDriver
	decay    float64
	capacity int
	entries  []*Entry
}

// NewRegistry creates an empty registry using the given line driver.
func NewRegistry(driver LineDriver, cfg Config) *Registry {
	decay := cfg.Decay
	if decay == 0 {
		decay = DefaultDecay
	}
	return &Registry{
		driver:   driver,
		decay:    decay,
		capacity: cfg.Capacity,
	}
}

// Create registers a sensor, upserting by id. An existing entry keeps
// its position but gets the new pin and pull-up, and its filter state
// restarts from the inactive baseline. A new entry is appended.
// The physical line is reconfigured on every call.
func (r *Registry) Create(id int16, pin uint8, pullUp bool) (*Entry, error) {
	e := r.Lookup(id)
	if e == nil {
		if r.capacity > 0 && len(r.entries) >= r.capacity {
			return nil, ErrCapacity
		}
		e = &Entry{}
		r.entries = append(r.entries, e)
	}

	e.ID = id
	e.Pin = pin
	e.PullUp = pullUp
	e.Active = false
	e.Signal = 1

	// A bad pin number is the operator's problem, not a create failure:
	// the entry stays registered and polling reports the read errors.
	if err := r.driver.ConfigureInput(pin, pullUp); err != nil {
		log.Printf("sensor %d: configure pin %d: %v", id, pin, err)
	}

	return e, nil
}

// Lookup returns the entry with the given id, or nil if absent.
func (r *Registry) Lookup(id int16) *Entry {
	for _, e := range r.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Remove unregisters the sensor with the given id, preserving the order
// of the remaining entries. Returns ErrNotFound if no entry matches;
// the registry is unchanged in that case.
func (r *Registry) Remove(id int16) error {
	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Len returns the number of registered sensors.
func (r *Registry) Len() int {
	return len(r.entries)
}

// All returns an iterator over the entries in insertion order.
// The sequence is restartable; it does not mutate filter state.
func (r *Registry) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, e := range r.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Poll reads every sensor's line once, advances its filter, and returns
// the trigger events produced this cycle. Only Inactive->Active
// transitions produce events; releases are silent. A line read error
// skips that sensor for this cycle.
func (r *Registry) Poll(now time.Time) []Event {
	var events []Event
	for _, e := range r.entries {
		raw, err := r.driver.Read(e.Pin)
		if err != nil {
			log.Printf("sensor %d: read pin %d: %v", e.ID, e.Pin, err)
			continue
		}
		if e.observe(raw, r.decay) {
			events = append(events, Event{ID: e.ID, Pin: e.Pin, Time: now})
		}
	}
	return events
}
