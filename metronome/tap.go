package metronome

import "time"

// Taps older than this are dropped from the estimation window.
const tapWindow = 5000 * time.Millisecond

// TapEstimator derives a tempo from the gaps between recent tap gestures.
// The window decays naturally as taps age out; there is no reset.
type TapEstimator struct {
	taps []time.Time
}

// Tap records a tap at now and returns a tempo estimate. ok is false when
// fewer than two taps remain inside the window or the mean gap truncates
// to zero milliseconds - in both cases the caller leaves the tempo alone.
func (e *TapEstimator) Tap(now time.Time) (Tempo, bool) {
	cutoff := now.Add(-tapWindow)
	kept := e.taps[:0]
	for _, t := range e.taps {
		if !t.Before(cutoff) {
			kept = append(kept, t)
		}
	}
	e.taps = append(kept, now)

	if len(e.taps) < 2 {
		return 0, false
	}

	var totalMs int64
	for i := 1; i < len(e.taps); i++ {
		totalMs += e.taps[i].Sub(e.taps[i-1]).Milliseconds()
	}
	meanMs := totalMs / int64(len(e.taps)-1)
	if meanMs <= 0 {
		return 0, false
	}

	return ClampTempo(int(60000 / meanMs)), true
}

// Len reports how many taps currently sit in the window.
func (e *TapEstimator) Len() int {
	return len(e.taps)
}
