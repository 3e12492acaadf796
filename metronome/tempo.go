package metronome

import "time"

// Tempo bounds in BPM
const (
	MinTempo     = 1
	MaxTempo     = 300
	DefaultTempo = 100
)

// Beat count bounds per measure
const (
	MinBeats     = 1
	MaxBeats     = 8
	DefaultBeats = 4
)

// How many unit steps a big increment applies
const bigStep = 10

// Tempo is beats per minute. A Tempo built through ClampTempo or the step
// methods is always within [MinTempo, MaxTempo], so consumers never
// re-validate it.
type Tempo int

// ClampTempo rounds any bpm into the valid range. Out-of-range input is not
// an error - the UI never has to branch on a bad value.
func ClampTempo(bpm int) Tempo {
	if bpm < MinTempo {
		bpm = MinTempo
	}
	if bpm > MaxTempo {
		bpm = MaxTempo
	}
	return Tempo(bpm)
}

// Incr steps up by one, refusing at MaxTempo rather than wrapping.
func (t Tempo) Incr() Tempo {
	if t >= MaxTempo {
		return t
	}
	return t + 1
}

// Decr steps down by one, refusing at MinTempo.
func (t Tempo) Decr() Tempo {
	if t <= MinTempo {
		return t
	}
	return t - 1
}

// BigIncr applies the unit step ten times instead of adding ten, so the
// bound check behaves exactly like repeated single steps.
func (t Tempo) BigIncr() Tempo {
	for i := 0; i < bigStep; i++ {
		t = t.Incr()
	}
	return t
}

// BigDecr is the downward counterpart of BigIncr.
func (t Tempo) BigDecr() Tempo {
	for i := 0; i < bigStep; i++ {
		t = t.Decr()
	}
	return t
}

// Interval returns the period of one beat at this tempo. The millisecond
// division truncates, so high tempos run marginally fast; the external
// clock is pushed the same integer bpm and drifts identically.
func (t Tempo) Interval() time.Duration {
	bpm := int(t)
	if bpm <= 0 {
		bpm = DefaultTempo
	}
	return time.Duration(60000/bpm) * time.Millisecond
}

// BeatLayout describes one measure. It is an immutable value: every change
// replaces the whole struct, nothing mutates it in place.
type BeatLayout struct {
	Beats              int
	Subdivisions       int
	Gaps               []int // muted beat positions, 1-based
	EmphasizeFirstBeat bool
	Sound              bool
}

// DefaultLayout returns the layout used before any configuration arrives.
func DefaultLayout() BeatLayout {
	return BeatLayout{
		Beats:              DefaultBeats,
		Subdivisions:       1,
		EmphasizeFirstBeat: true,
		Sound:              true,
	}
}

// ClampedBeats returns the beat count bounded to [MinBeats, MaxBeats],
// falling back to DefaultBeats when the layout carries no count at all.
func (l BeatLayout) ClampedBeats() int {
	b := l.Beats
	if b == 0 {
		return DefaultBeats
	}
	if b < MinBeats {
		b = MinBeats
	}
	if b > MaxBeats {
		b = MaxBeats
	}
	return b
}

// WithBeats returns a copy with the beat count replaced.
func (l BeatLayout) WithBeats(n int) BeatLayout {
	l.Beats = n
	return l
}
