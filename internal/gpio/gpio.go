// Package gpio provides digital input line drivers with hardware
// abstraction. The real implementation uses the Linux GPIO character
// device; the fake implementation allows testing without hardware.
// Both satisfy sensor.LineDriver.
package gpio

// DefaultChip is the GPIO character device used by the real driver.
const DefaultChip = "gpiochip0"
