package metronome

import (
	"testing"
	"time"
)

func TestTapThreeEvenTaps(t *testing.T) {
	var e TapEstimator
	base := time.Now()

	if _, ok := e.Tap(base); ok {
		t.Fatal("first tap should yield no estimate")
	}
	if _, ok := e.Tap(base.Add(500 * time.Millisecond)); !ok {
		t.Fatal("second tap should yield an estimate")
	}
	bpm, ok := e.Tap(base.Add(1000 * time.Millisecond))
	if !ok {
		t.Fatal("third tap should yield an estimate")
	}
	if bpm != 120 {
		t.Errorf("bpm = %d, want 120", bpm)
	}
}

func TestTapSingleTapNoEstimate(t *testing.T) {
	var e TapEstimator
	if _, ok := e.Tap(time.Now()); ok {
		t.Error("isolated tap must not produce a tempo")
	}
	if e.Len() != 1 {
		t.Errorf("window len = %d, want 1", e.Len())
	}
}

func TestTapOldTapsPruned(t *testing.T) {
	var e TapEstimator
	base := time.Now()

	e.Tap(base)
	e.Tap(base.Add(6000 * time.Millisecond)) // first tap now outside the 5s window
	bpm, ok := e.Tap(base.Add(6500 * time.Millisecond))
	if !ok {
		t.Fatal("expected estimate from the two recent taps")
	}
	// Only the 500ms gap counts; the 6000ms gap is gone with the pruned tap
	if bpm != 120 {
		t.Errorf("bpm = %d, want 120", bpm)
	}
	if e.Len() != 2 {
		t.Errorf("window len = %d, want 2", e.Len())
	}
}

func TestTapZeroGapNoEstimate(t *testing.T) {
	var e TapEstimator
	now := time.Now()

	e.Tap(now)
	if _, ok := e.Tap(now); ok {
		t.Error("mean gap of 0ms must not produce a tempo")
	}
}

func TestTapFastTapsClampToMax(t *testing.T) {
	var e TapEstimator
	base := time.Now()

	e.Tap(base)
	// 100ms gaps estimate 600 bpm, which clamps
	bpm, ok := e.Tap(base.Add(100 * time.Millisecond))
	if !ok {
		t.Fatal("expected estimate")
	}
	if bpm != MaxTempo {
		t.Errorf("bpm = %d, want %d", bpm, MaxTempo)
	}
}

func TestTapUnevenGapsAverage(t *testing.T) {
	var e TapEstimator
	base := time.Now()

	e.Tap(base)
	e.Tap(base.Add(400 * time.Millisecond))
	bpm, ok := e.Tap(base.Add(1000 * time.Millisecond)) // gaps 400, 600 -> mean 500
	if !ok {
		t.Fatal("expected estimate")
	}
	if bpm != 120 {
		t.Errorf("bpm = %d, want 120", bpm)
	}
}
