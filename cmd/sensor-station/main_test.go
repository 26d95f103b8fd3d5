package main

import (
	"bytes"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/sensor-station/internal/config"
	"github.com/sweeney/sensor-station/internal/eestore"
	"github.com/sweeney/sensor-station/internal/gpio"
	"github.com/sweeney/sensor-station/internal/mqtt"
	"github.com/sweeney/sensor-station/internal/proto"
	"github.com/sweeney/sensor-station/internal/sensor"
	"github.com/sweeney/sensor-station/internal/status"
)

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	applyOverrides(cfg, overrides{
		Poll:   250 * time.Millisecond,
		Broker: "tcp://other:1883",
		Serial: "/dev/ttyACM0",
		HTTP:   ":9090",
		Store:  "/tmp/image",
	})

	if cfg.PollMs != 250 {
		t.Errorf("PollMs: got %d, want 250", cfg.PollMs)
	}
	if cfg.MQTT.Broker != "tcp://other:1883" {
		t.Errorf("Broker: got %q", cfg.MQTT.Broker)
	}
	if cfg.Serial.Port != "/dev/ttyACM0" {
		t.Errorf("Serial.Port: got %q", cfg.Serial.Port)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("HTTP.Addr: got %q", cfg.HTTP.Addr)
	}
	if cfg.Store.Path != "/tmp/image" {
		t.Errorf("Store.Path: got %q", cfg.Store.Path)
	}
}

func TestApplyOverridesZeroValuesKeepConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MQTT.Broker = "tcp://configured:1883"
	want := *cfg

	applyOverrides(cfg, overrides{})

	if cfg.PollMs != want.PollMs || cfg.MQTT.Broker != want.MQTT.Broker ||
		cfg.Serial.Port != want.Serial.Port || cfg.HTTP.Addr != want.HTTP.Addr ||
		cfg.Store.Path != want.Store.Path {
		t.Errorf("zero overrides mutated config: got %+v, want %+v", cfg, want)
	}
}

// TestRunLoop drives the control loop with fakes: an asserted line
// trips the filter, a list command answers on the same stream, and a
// signal shuts the loop down with a lifecycle event.
func TestRunLoop(t *testing.T) {
	drv := gpio.NewFakeDriver()
	reg := sensor.NewRegistry(drv, sensor.Config{})
	reg.Create(5, 2, true)
	drv.Set(2, 0) // asserted from the start

	publisher := mqtt.NewFakePublisher()
	publisher.Connected = true
	tracker := status.NewTracker(time.Now(), status.Config{})
	handler := proto.NewHandler(reg, nil)

	var out bytes.Buffer
	tick := make(chan time.Time)
	frames := make(chan string)
	sig := make(chan os.Signal, 1)

	done := make(chan error, 1)
	go func() {
		done <- runLoop(reg, handler, &out, publisher, publisher, tracker, tick, frames, sig)
	}()

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		tick <- start.Add(time.Duration(i) * 10 * time.Millisecond)
	}

	// List the registry over the command stream. The channels are
	// unbuffered, so the next tick send proves the frame was handled.
	frames <- "S"
	tick <- start.Add(600 * time.Millisecond)

	sig <- syscall.SIGTERM
	if err := <-done; err != nil {
		t.Fatalf("runLoop: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "<Q5>") {
		t.Errorf("output %q missing trigger event <Q5>", got)
	}
	if strings.Count(got, "<Q5>") != 1 {
		t.Errorf("trigger event must fire exactly once, output %q", got)
	}
	if !strings.Contains(got, "<Q5 2 1>") {
		t.Errorf("output %q missing list response", got)
	}

	if len(publisher.Events) != 1 || publisher.Events[0].ID != 5 {
		t.Errorf("mqtt events: got %+v", publisher.Events)
	}
	if len(publisher.SystemEvents) != 1 {
		t.Fatalf("system events: got %d, want 1", len(publisher.SystemEvents))
	}
	if publisher.SystemEvents[0].Event != "SHUTDOWN" || publisher.SystemEvents[0].Reason != "SIGTERM" {
		t.Errorf("shutdown event: got %+v", publisher.SystemEvents[0])
	}

	snap := tracker.Snapshot()
	if len(snap.Sensors) != 1 || snap.Sensors[0].ID != 5 {
		t.Errorf("tracker sensors: got %+v", snap.Sensors)
	}
	if snap.Triggers != 1 {
		t.Errorf("tracker triggers: got %d, want 1", snap.Triggers)
	}
	if !snap.MQTTConnected {
		t.Error("tracker should report MQTT connected")
	}
}

func TestRunLoopSurvivesClosedCommandStream(t *testing.T) {
	drv := gpio.NewFakeDriver()
	reg := sensor.NewRegistry(drv, sensor.Config{})
	reg.Create(5, 2, true)

	handler := proto.NewHandler(reg, nil)

	var out bytes.Buffer
	tick := make(chan time.Time)
	frames := make(chan string)
	sig := make(chan os.Signal, 1)

	done := make(chan error, 1)
	go func() {
		done <- runLoop(reg, handler, &out, nil, nil, nil, tick, frames, sig)
	}()

	close(frames) // transport gone

	// Polling continues without a command stream.
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	drv.Set(2, 0)
	for i := 0; i < 60; i++ {
		tick <- start.Add(time.Duration(i) * 10 * time.Millisecond)
	}

	sig <- syscall.SIGINT
	if err := <-done; err != nil {
		t.Fatalf("runLoop: %v", err)
	}

	if !strings.Contains(out.String(), "<Q5>") {
		t.Errorf("output %q missing trigger event", out.String())
	}
}

func TestListSensors(t *testing.T) {
	store := eestore.NewMem(128)
	reg := sensor.NewRegistry(nopDriver{}, sensor.Config{})
	reg.Create(5, 2, true)
	reg.Create(9, 4, false)
	if err := sensor.Save(reg, store); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var out bytes.Buffer
	if err := listSensors(&out, store); err != nil {
		t.Fatalf("listSensors: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "sensor 5: pin 2 (pull-up)") {
		t.Errorf("output %q missing sensor 5", got)
	}
	if !strings.Contains(got, "sensor 9: pin 4 (none)") {
		t.Errorf("output %q missing sensor 9", got)
	}
}

func TestListSensorsEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := listSensors(&out, eestore.NewMem(64)); err != nil {
		t.Fatalf("listSensors: %v", err)
	}
	if !strings.Contains(out.String(), "no sensors stored") {
		t.Errorf("output %q missing empty-store message", out.String())
	}
}
