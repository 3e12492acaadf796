package metronome

import (
	"sync"
	"time"

	"go-metronome/debug"
)

// ExternalClock is the authoritative, sound-producing tick source. The
// manager pushes local state into it; ticks come back through
// HandleClockTick. Push failures are logged, never fatal.
type ExternalClock interface {
	SetTempo(bpm int) error
	SetLayout(layout BeatLayout) error
	SetPlaying(playing bool) error
}

// Manager arbitrates between the external clock and the local fallback
// scheduler. Exactly one of the two produces ticks at any instant: the
// connect/disconnect handlers stop one source before the other may run.
// All state lives behind one mutex, so callbacks may arrive from any
// goroutine (gomidi delivers on its own driver goroutine).
type Manager struct {
	mu sync.Mutex

	tempo     Tempo
	maxTempo  Tempo // configured ceiling, <= MaxTempo
	layout    BeatLayout
	playing   bool
	connected bool
	beat      int // last dispatched beat, for display

	clock      ExternalClock // nil while disconnected
	fallback   *fallbackScheduler
	dispatcher *Dispatcher
	taps       TapEstimator

	// UpdateChan signals the TUI that visible state changed.
	UpdateChan chan struct{}
}

func NewManager(target VisualTarget) *Manager {
	m := &Manager{
		tempo:      DefaultTempo,
		maxTempo:   MaxTempo,
		layout:     DefaultLayout(),
		dispatcher: NewDispatcher(target),
		UpdateChan: make(chan struct{}, 1),
	}
	m.fallback = newFallbackScheduler(m.schedulerState, m.handleFallbackTick)
	return m
}

// SetTempo clamps bpm into range, stores it, and pushes it to the external
// clock when one is connected. The fallback scheduler reads the current
// tempo at each firing, so it needs no push.
func (m *Manager) SetTempo(bpm int) {
	m.mu.Lock()
	m.tempo = m.clampLocked(bpm)
	m.pushTempoLocked()
	m.mu.Unlock()
	m.notify()
}

// SetMaxTempo lowers the tempo ceiling below the hard MaxTempo bound, for
// hosts configured with a tamer range. The current tempo is pulled down
// with it when necessary.
func (m *Manager) SetMaxTempo(bpm int) {
	m.mu.Lock()
	m.maxTempo = ClampTempo(bpm)
	if m.tempo > m.maxTempo {
		m.tempo = m.maxTempo
		m.pushTempoLocked()
	}
	m.mu.Unlock()
	m.notify()
}

// Tempo returns the current tempo in BPM.
func (m *Manager) Tempo() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int(m.tempo)
}

// IncrTempo steps the tempo up by one, a no-op at MaxTempo.
func (m *Manager) IncrTempo() { m.stepTempo(Tempo.Incr) }

// DecrTempo steps the tempo down by one, a no-op at MinTempo.
func (m *Manager) DecrTempo() { m.stepTempo(Tempo.Decr) }

// BigIncrTempo steps up by ten single steps.
func (m *Manager) BigIncrTempo() { m.stepTempo(Tempo.BigIncr) }

// BigDecrTempo steps down by ten single steps.
func (m *Manager) BigDecrTempo() { m.stepTempo(Tempo.BigDecr) }

func (m *Manager) stepTempo(step func(Tempo) Tempo) {
	m.mu.Lock()
	t := step(m.tempo)
	if t > m.maxTempo {
		t = m.maxTempo
	}
	m.tempo = t
	m.pushTempoLocked()
	m.mu.Unlock()
	m.notify()
}

// clampLocked bounds bpm by the configured ceiling on top of the hard
// range. Requires m.mu.
func (m *Manager) clampLocked(bpm int) Tempo {
	t := ClampTempo(bpm)
	if t > m.maxTempo {
		t = m.maxTempo
	}
	return t
}

// SetLayout replaces the beat layout wholesale and pushes it to the
// external clock when connected.
func (m *Manager) SetLayout(layout BeatLayout) {
	m.mu.Lock()
	m.layout = layout
	m.pushLayoutLocked()
	m.mu.Unlock()
	m.notify()
}

// Layout returns the current beat layout.
func (m *Manager) Layout() BeatLayout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layout
}

// SetBeats replaces the layout with one carrying a new beat count.
func (m *Manager) SetBeats(n int) {
	m.mu.Lock()
	m.layout = m.layout.WithBeats(n)
	m.pushLayoutLocked()
	m.mu.Unlock()
	m.notify()
}

// ToggleEmphasis flips first-beat emphasis.
func (m *Manager) ToggleEmphasis() {
	m.mu.Lock()
	l := m.layout
	l.EmphasizeFirstBeat = !l.EmphasizeFirstBeat
	m.layout = l
	m.pushLayoutLocked()
	m.mu.Unlock()
	m.notify()
}

// ToggleSound flips sound on the external clock. The fallback scheduler is
// always silent, so this only matters while connected.
func (m *Manager) ToggleSound() {
	m.mu.Lock()
	l := m.layout
	l.Sound = !l.Sound
	m.layout = l
	m.pushLayoutLocked()
	m.mu.Unlock()
	m.notify()
}

// Start begins playback. Idempotent: starting while playing does nothing.
// Config pushed before this call is already on the clock, so the first
// tick of the session sees it.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.playing {
		m.mu.Unlock()
		return
	}
	m.playing = true
	if m.connected && m.clock != nil {
		if err := m.clock.SetPlaying(true); err != nil {
			debug.Log("manager", "push playing=true: %v", err)
		}
	} else {
		m.fallback.Start()
	}
	m.mu.Unlock()
	debug.Log("manager", "start")
	m.notify()
}

// Stop ends playback. Idempotent.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.playing {
		m.mu.Unlock()
		return
	}
	m.playing = false
	if m.connected && m.clock != nil {
		if err := m.clock.SetPlaying(false); err != nil {
			debug.Log("manager", "push playing=false: %v", err)
		}
	}
	m.fallback.Stop() // no-op when the clock was driving
	m.mu.Unlock()
	debug.Log("manager", "stop")
	m.notify()
}

// Tap records one tap gesture. When the window yields an estimate it is
// applied exactly like SetTempo; otherwise the tempo is left alone.
func (m *Manager) Tap(now time.Time) {
	m.mu.Lock()
	bpm, ok := m.taps.Tap(now)
	if ok {
		m.tempo = m.clampLocked(int(bpm))
		m.pushTempoLocked()
	}
	applied := m.tempo
	m.mu.Unlock()
	if ok {
		debug.Log("manager", "tap tempo %d", int(applied))
		m.notify()
	}
}

// HandleClockConnected hands tick production to the external clock. Local
// state is pushed first, in order, so the clock adopts it before it can
// tick; the fallback scheduler is then stopped unconditionally (a safe
// no-op when it was idle).
func (m *Manager) HandleClockConnected(clock ExternalClock) {
	m.mu.Lock()
	m.connected = true
	m.clock = clock
	if err := clock.SetTempo(int(m.tempo)); err != nil {
		debug.Log("manager", "push tempo on connect: %v", err)
	}
	if err := clock.SetLayout(m.layout); err != nil {
		debug.Log("manager", "push layout on connect: %v", err)
	}
	if err := clock.SetPlaying(m.playing); err != nil {
		debug.Log("manager", "push playing on connect: %v", err)
	}
	m.fallback.Stop()
	m.mu.Unlock()
	debug.Log("manager", "clock connected")
	m.notify()
}

// HandleClockDisconnected falls back to the local scheduler. If playback
// was running it continues silently (visual only) instead of stalling.
func (m *Manager) HandleClockDisconnected() {
	m.mu.Lock()
	m.connected = false
	m.clock = nil
	if m.playing {
		m.fallback.Start()
	}
	m.mu.Unlock()
	debug.Log("manager", "clock disconnected")
	m.notify()
}

// HandleClockTick forwards a tick from the external clock. No
// deduplication: the connect/disconnect handlers guarantee the fallback
// scheduler is never live at the same time.
func (m *Manager) HandleClockTick(beat int) {
	m.mu.Lock()
	m.beat = beat
	m.mu.Unlock()
	m.dispatcher.Dispatch(beat)
	m.notify()
}

// GetState returns the display snapshot for the TUI.
func (m *Manager) GetState() (beat int, playing bool, tempo int, connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.beat, m.playing, int(m.tempo), m.connected
}

// schedulerState feeds the fallback scheduler the live tempo and layout.
func (m *Manager) schedulerState() (Tempo, BeatLayout) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tempo, m.layout
}

// handleFallbackTick is the scheduler's eligibility guard. A wakeup that
// raced with Stop, a clock connect, or a stop/start pair lands here, fails
// the playing/connected/generation check, and is dropped. Dispatch happens
// under the mutex so no tick escapes between the check and delivery.
func (m *Manager) handleFallbackTick(gen uint64, beat int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.playing || m.connected || !m.fallback.current(gen) {
		return false
	}
	m.beat = beat
	m.dispatcher.Dispatch(beat)
	m.notify()
	return true
}

func (m *Manager) pushTempoLocked() {
	if m.connected && m.clock != nil {
		if err := m.clock.SetTempo(int(m.tempo)); err != nil {
			debug.Log("manager", "push tempo: %v", err)
		}
	}
}

func (m *Manager) pushLayoutLocked() {
	if m.connected && m.clock != nil {
		if err := m.clock.SetLayout(m.layout); err != nil {
			debug.Log("manager", "push layout: %v", err)
		}
	}
}

func (m *Manager) notify() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
