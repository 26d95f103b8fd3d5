// Package serialio opens the station's command transport: a real
// serial port, or stdio when no port is configured (useful for bench
// testing over a pipe).
package serialio

import (
	"fmt"
	"io"
	"os"

	"go.bug.st/serial"
)

// DefaultBaud matches the base-station convention.
const DefaultBaud = 115200

// Open returns the command transport for the given port name. An empty
// name selects stdio.
func Open(port string, baud int) (io.ReadWriteCloser, error) {
	if port == "" {
		return stdio{}, nil
	}
	if baud <= 0 {
		baud = DefaultBaud
	}
	p, err := serial.Open(port, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", port, err)
	}
	return p, nil
}

// stdio adapts os.Stdin/os.Stdout to a single ReadWriteCloser.
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error                { return nil }
