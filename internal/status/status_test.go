package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 10, Decay: 0.02, Broker: "tcp://localhost:1883", HTTPAddr: ":8080"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.PollMs != 10 {
		t.Errorf("Config.PollMs: got %d, want 10", snap.Config.PollMs)
	}
	if len(snap.Sensors) != 0 {
		t.Errorf("expected no sensors initially, got %d", len(snap.Sensors))
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	sensors := []SensorStatus{
		{ID: 5, Pin: 2, PullUp: true, Signal: 0.43, Active: true},
		{ID: 9, Pin: 4, Signal: 1},
	}
	tr.Update(sensors, 7)
	tr.SetMQTTConnected(true)

	snap := tr.Snapshot()
	if len(snap.Sensors) != 2 {
		t.Fatalf("Sensors: got %d, want 2", len(snap.Sensors))
	}
	if snap.Sensors[0].ID != 5 || !snap.Sensors[0].Active {
		t.Errorf("sensor 0: got %+v", snap.Sensors[0])
	}
	if snap.Triggers != 7 {
		t.Errorf("Triggers: got %d, want 7", snap.Triggers)
	}
	if !snap.MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}
}

func TestUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{StartTime: start, Now: start.Add(90 * time.Second)}
	if snap.Uptime() != 90*time.Second {
		t.Errorf("Uptime: got %v, want 90s", snap.Uptime())
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			tr.Update([]SensorStatus{{ID: int16(n)}}, n)
		}(i)
		go func() {
			defer wg.Done()
			_ = tr.Snapshot()
		}()
	}
	wg.Wait()
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{PollMs: 10, Decay: 0.02, Broker: "tcp://b:1883", StorePath: "sensors.eeprom"})
	tr.Update([]SensorStatus{{ID: 5, Pin: 2, PullUp: true, Signal: 1}}, 3)

	var got StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Status.Sensors) != 1 {
		t.Fatalf("sensors: got %d, want 1", len(got.Status.Sensors))
	}
	if got.Status.Sensors[0].ID != 5 || !got.Status.Sensors[0].PullUp {
		t.Errorf("sensor: got %+v", got.Status.Sensors[0])
	}
	if got.Status.Triggers != 3 {
		t.Errorf("triggers: got %d, want 3", got.Status.Triggers)
	}
	if got.Status.StartTime != "2026-01-01T00:00:00Z" {
		t.Errorf("start_time: got %q", got.Status.StartTime)
	}
	if got.Status.Config.StorePath != "sensors.eeprom" {
		t.Errorf("store_path: got %q", got.Status.Config.StorePath)
	}
}

func TestFormatJSONEmptyRegistry(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var raw map[string]map[string]any
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	sensors, ok := raw["status"]["sensors"].([]any)
	if !ok {
		t.Fatal("sensors must serialize as an array even when empty")
	}
	if len(sensors) != 0 {
		t.Errorf("sensors: got %d, want 0", len(sensors))
	}
}
