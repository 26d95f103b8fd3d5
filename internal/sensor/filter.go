package sensor

// observe folds one raw line sample into the entry's smoothed signal and
// steps the activation state machine. It reports whether the entry just
// transitioned Inactive->Active.
//
// The filter is a single-pole exponential moving average:
//
//	signal' = signal*(1-decay) + raw*decay
//
// Activation fires when the signal drops below 0.5; the sensor only
// rearms once the signal climbs back above 0.99. Readings inside the
// band leave the state untouched, so a signal hovering near either
// threshold cannot chatter.
func (e *Entry) observe(raw int, decay float64) bool {
	e.Signal = e.Signal*(1-decay) + float64(raw)*decay

	switch {
	case !e.Active && e.Signal < activateBelow:
		e.Active = true
		return true
	case e.Active && e.Signal > deactivateAbove:
		e.Active = false
	}
	return false
}
