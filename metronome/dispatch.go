package metronome

// VisualTarget is the set of addressable beat indicators, one per possible
// beat position. Blink must be safe to call from any goroutine.
type VisualTarget interface {
	Blink(beat int)
}

// Dispatcher maps an incoming beat index onto the visual target. It holds
// no state beyond the target reference.
type Dispatcher struct {
	target VisualTarget
}

func NewDispatcher(target VisualTarget) *Dispatcher {
	return &Dispatcher{target: target}
}

// Dispatch forwards a tick to the target. Indices outside 1..MaxBeats are
// dropped - a tick can briefly outrun a layout change and carry an index
// the current configuration no longer has.
func (d *Dispatcher) Dispatch(beat int) {
	if beat < MinBeats || beat > MaxBeats {
		return
	}
	if d.target == nil {
		return
	}
	d.target.Blink(beat)
}
