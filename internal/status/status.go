// Package status provides a thread-safe status tracker for the
// sensor-station daemon. It is the only state shared between the
// control loop and the HTTP handlers.
package status

import (
	"sync"
	"time"
)

// SensorStatus is a read-only view of one registry entry.
type SensorStatus struct {
	ID     int16
	Pin    uint8
	PullUp bool
	Signal float64
	Active bool
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs     int
	Decay      float64
	Broker     string
	HTTPAddr   string
	SerialPort string
	StorePath  string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Sensors       []SensorStatus
	Triggers      int
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the registry view and the trigger count.
// Called from the control loop on every tick.
func (t *Tracker) Update(sensors []SensorStatus, triggers int) {
	t.mu.Lock()
	t.snap.Sensors = sensors
	t.snap.Triggers = triggers
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
