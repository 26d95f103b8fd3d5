// Package proto implements the station's line-oriented text protocol:
// angle-bracket frames carrying a single command letter and an argument
// substring, plus the asynchronous trigger events emitted by the poll
// loop. Responses are written directly to the command transport.
package proto

import (
	"fmt"
	"io"
	"strings"

	"github.com/sweeney/sensor-station/internal/sensor"
)

// Command letters handled by this subsystem.
const (
	CmdSensor = 'S' // define/remove/list sensors
	CmdSave   = 'E' // flatten the registry into the store
)

// Handler routes parsed commands to the sensor registry.
type Handler struct {
	reg  *sensor.Registry
	save func() error
}

// NewHandler creates a Handler. save is invoked for the save command
// and may be nil, in which case the command always answers <X>.
func NewHandler(reg *sensor.Registry, save func() error) *Handler {
	return &Handler{reg: reg, save: save}
}

// Dispatch interprets one framed command: the letter selects the
// operation, args is everything after it. Errors of any kind surface
// only as <X>; nothing here is fatal.
func (h *Handler) Dispatch(w io.Writer, letter byte, args string) {
	switch letter {
	case CmdSensor:
		h.sensorCommand(w, args)
	case CmdSave:
		if h.save == nil || h.save() != nil {
			writeFailure(w)
			return
		}
		writeOK(w)
	default:
		writeFailure(w)
	}
}

// sensorCommand parses args as whitespace-separated integers and
// routes on how many parse:
//
//	3 -> create/upsert (id, pin, pullUp; nonzero pullUp enables)
//	1 -> remove (id)
//	0 -> list (empty argument only)
//
// Exactly two integers is an arity error. Tokens beyond the third are
// ignored. A non-empty argument that yields no integers is an error,
// not a list request.
func (h *Handler) sensorCommand(w io.Writer, args string) {
	if strings.TrimSpace(args) == "" {
		h.show(w)
		return
	}

	var id, pin, pull int
	n, _ := fmt.Sscanf(args, "%d %d %d", &id, &pin, &pull)
	switch n {
	case 3:
		if _, err := h.reg.Create(int16(id), uint8(pin), pull != 0); err != nil {
			writeFailure(w)
			return
		}
		writeOK(w)
	case 1:
		if err := h.reg.Remove(int16(id)); err != nil {
			writeFailure(w)
			return
		}
		writeOK(w)
	default:
		writeFailure(w)
	}
}

// show emits one <Q id pin pullUp> line per entry in registry order, or
// <X> when the registry is empty.
func (h *Handler) show(w io.Writer) {
	if h.reg.Len() == 0 {
		writeFailure(w)
		return
	}
	for e := range h.reg.All() {
		pull := 0
		if e.PullUp {
			pull = 1
		}
		fmt.Fprintf(w, "<Q%d %d %d>", e.ID, e.Pin, pull)
	}
}

// WriteEvent renders one trigger event, emitted exactly once per
// Inactive->Active transition.
func WriteEvent(w io.Writer, ev sensor.Event) {
	fmt.Fprintf(w, "<Q%d>", ev.ID)
}

func writeOK(w io.Writer) {
	io.WriteString(w, "<O>")
}

func writeFailure(w io.Writer) {
	io.WriteString(w, "<X>")
}
