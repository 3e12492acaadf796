package metronome

import (
	"sync"
	"time"
)

// fallbackScheduler is the local silent tick source used while no external
// clock is connected. It runs a single self-rescheduling loop: emit a beat,
// advance, sleep one beat interval, repeat. Intervals are measured from the
// moment each tick is handled, not from the intended firing time, so drift
// accumulates additively; the external clock is driven by the same integer
// interval and drifts the same way.
//
// Each activation is a generation. The loop keeps its beat counter local
// and stamps every emit with its generation, so an iteration that was
// mid-flight when Stop ran can neither tick into a later session nor touch
// that session's beat sequence: the receiver rejects it via current and the
// stale loop exits.
type fallbackScheduler struct {
	mu       sync.Mutex
	active   bool
	gen      uint64
	stopChan chan struct{}

	// state returns the current tempo and layout at each firing, never a
	// snapshot, so config changes apply from the next beat onward.
	state func() (Tempo, BeatLayout)

	// emit delivers one tick. A false return means the receiver no longer
	// wants ticks (stopped, an external clock took over, or gen is
	// superseded) and the loop must exit without rescheduling. Receivers
	// check gen with current under their own lock.
	emit func(gen uint64, beat int) bool
}

func newFallbackScheduler(state func() (Tempo, BeatLayout), emit func(gen uint64, beat int) bool) *fallbackScheduler {
	return &fallbackScheduler{state: state, emit: emit}
}

// Start activates the scheduler at beat 1 under a fresh generation.
// Starting an active scheduler is a no-op.
func (f *fallbackScheduler) Start() {
	f.mu.Lock()
	if f.active {
		f.mu.Unlock()
		return
	}
	f.active = true
	f.gen++
	f.stopChan = make(chan struct{})
	gen := f.gen
	stop := f.stopChan
	f.mu.Unlock()

	go f.run(gen, stop)
}

// Stop cancels the pending firing and invalidates the generation. Safe to
// call when idle. An iteration already past its guard still carries the
// dead generation, so its emit is rejected wherever it lands.
func (f *fallbackScheduler) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.active {
		return
	}
	f.active = false
	close(f.stopChan)
}

func (f *fallbackScheduler) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// current reports whether gen is the live generation. Receivers call this
// under the same lock that serializes Start/Stop requests against them,
// which makes the reject atomic with the handoff.
func (f *fallbackScheduler) current(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active && f.gen == gen
}

func (f *fallbackScheduler) run(gen uint64, stop chan struct{}) {
	beat := 1
	for {
		if !f.current(gen) {
			return
		}

		if !f.emit(gen, beat) {
			return // handoff boundary
		}

		tempo, layout := f.state()

		if beat >= layout.ClampedBeats() {
			beat = 1
		} else {
			beat++
		}

		select {
		case <-stop:
			return
		case <-time.After(tempo.Interval()):
		}
	}
}
