package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/sensor-station/internal/sensor"
)

func TestFormatPayload(t *testing.T) {
	ev := sensor.Event{
		ID:   5,
		Pin:  2,
		Time: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	data, err := FormatPayload(ev)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var got Payload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Sensor.ID != 5 {
		t.Errorf("id: got %d, want 5", got.Sensor.ID)
	}
	if got.Sensor.Pin != 2 {
		t.Errorf("pin: got %d, want 2", got.Sensor.Pin)
	}
	if got.Sensor.Timestamp != "2026-03-01T09:30:00Z" {
		t.Errorf("timestamp: got %q, want %q", got.Sensor.Timestamp, "2026-03-01T09:30:00Z")
	}
}

func TestFormatSystemPayload(t *testing.T) {
	ev := SystemEvent{
		Timestamp: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(ev)
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	var got SystemPayload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.System.Event != "SHUTDOWN" {
		t.Errorf("event: got %q, want SHUTDOWN", got.System.Event)
	}
	if got.System.Reason != "SIGTERM" {
		t.Errorf("reason: got %q, want SIGTERM", got.System.Reason)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	data, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "STARTUP"})
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := raw["system"]["reason"]; present {
		t.Error("empty reason should be omitted from the payload")
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	ev := sensor.Event{ID: 5, Pin: 2, Time: time.Now()}
	if err := f.Publish(ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(f.Events) != 1 || f.Events[0].ID != 5 {
		t.Errorf("recorded events: got %+v", f.Events)
	}
	if len(f.Payloads) != 1 {
		t.Errorf("recorded payloads: got %d, want 1", len(f.Payloads))
	}

	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}
	if len(f.SystemEvents) != 1 {
		t.Errorf("recorded system events: got %d, want 1", len(f.SystemEvents))
	}

	f.Reset()
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("Reset did not clear recorded events")
	}
}
