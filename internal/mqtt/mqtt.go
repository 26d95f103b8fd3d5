// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/sensor-station/internal/sensor"
)

// Topic is the MQTT topic for sensor trigger events.
const Topic = "layout/sensors/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "layout/sensors/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a trigger event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(ev sensor.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(ev SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (startup, shutdown).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g., "STARTUP", "SHUTDOWN"
	Reason    string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Retained  bool   // whether the broker should retain the message
}

// Payload represents the trigger event message structure.
type Payload struct {
	Sensor SensorPayload `json:"sensor"`
}

// SensorPayload contains the trigger event details.
type SensorPayload struct {
	Timestamp string `json:"timestamp"`
	ID        int16  `json:"id"`
	Pin       uint8  `json:"pin"`
}

// FormatPayload creates the JSON payload for a trigger event.
func FormatPayload(ev sensor.Event) ([]byte, error) {
	payload := Payload{
		Sensor: SensorPayload{
			Timestamp: ev.Time.UTC().Format(time.RFC3339),
			ID:        ev.ID,
			Pin:       ev.Pin,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the system event message structure.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(ev SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: ev.Timestamp.UTC().Format(time.RFC3339),
			Event:     ev.Event,
			Reason:    ev.Reason,
		},
	}
	return json.Marshal(payload)
}
