package gpio

import (
	"errors"
	"testing"
)

func TestFakeDriverDefaultsHigh(t *testing.T) {
	f := NewFakeDriver()

	if err := f.ConfigureInput(2, true); err != nil {
		t.Fatalf("ConfigureInput: %v", err)
	}
	if !f.PullUps[2] {
		t.Error("pull-up flag not recorded")
	}

	v, err := f.Read(2)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v != 1 {
		t.Errorf("fresh pin level: got %d, want 1", v)
	}
}

func TestFakeDriverSet(t *testing.T) {
	f := NewFakeDriver()
	f.ConfigureInput(2, false)

	f.Set(2, 0)
	if v, _ := f.Read(2); v != 0 {
		t.Errorf("after Set(2, 0): got %d, want 0", v)
	}
}

func TestFakeDriverUnconfiguredPin(t *testing.T) {
	f := NewFakeDriver()
	if _, err := f.Read(7); err == nil {
		t.Error("expected an error reading an unconfigured pin")
	}
}

func TestFakeDriverErrors(t *testing.T) {
	f := NewFakeDriver()
	f.ConfigureInput(2, false)

	f.ReadErr = errors.New("boom")
	if _, err := f.Read(2); err == nil {
		t.Error("expected ReadErr to be returned")
	}

	f.ConfigureErr = errors.New("boom")
	if err := f.ConfigureInput(3, false); err == nil {
		t.Error("expected ConfigureErr to be returned")
	}
}

func TestFakeDriverClose(t *testing.T) {
	f := NewFakeDriver()
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.Closed {
		t.Error("Closed not set")
	}
}
