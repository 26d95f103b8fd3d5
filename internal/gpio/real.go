//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealDriver reads input lines from actual hardware using the Linux
// GPIO character device. Lines are requested lazily as sensors are
// configured and held until Close.
type RealDriver struct {
	chip  *gpiocdev.Chip
	lines map[uint8]*gpiocdev.Line
}

// NewRealDriver opens the given GPIO chip ("gpiochip0" on a Pi).
func NewRealDriver(chipName string) (*RealDriver, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}
	return &RealDriver{
		chip:  chip,
		lines: make(map[uint8]*gpiocdev.Line),
	}, nil
}

// ConfigureInput requests the line as an input with the given bias, or
// reconfigures it if a previous sensor already holds it.
func (d *RealDriver) ConfigureInput(pin uint8, pullUp bool) error {
	bias := gpiocdev.WithBiasDisabled
	if pullUp {
		bias = gpiocdev.WithPullUp
	}

	if line, ok := d.lines[pin]; ok {
		if err := line.Reconfigure(bias); err != nil {
			return fmt.Errorf("reconfigure pin %d: %w", pin, err)
		}
		return nil
	}

	line, err := d.chip.RequestLine(int(pin), gpiocdev.AsInput, bias)
	if err != nil {
		return fmt.Errorf("request pin %d: %w", pin, err)
	}
	d.lines[pin] = line
	return nil
}

// Read returns the raw level of the line: 0 = low, 1 = high.
func (d *RealDriver) Read(pin uint8) (int, error) {
	line, ok := d.lines[pin]
	if !ok {
		return 0, fmt.Errorf("pin %d not configured", pin)
	}
	v, err := line.Value()
	if err != nil {
		return 0, fmt.Errorf("read pin %d: %w", pin, err)
	}
	return v, nil
}

// Close releases all requested lines and the chip.
func (d *RealDriver) Close() error {
	var errs []error
	for pin, line := range d.lines {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
		}
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
