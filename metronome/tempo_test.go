package metronome

import (
	"testing"
	"time"
)

func TestClampTempoBounds(t *testing.T) {
	cases := []struct {
		in   int
		want Tempo
	}{
		{-50, MinTempo},
		{0, MinTempo},
		{1, 1},
		{100, 100},
		{300, 300},
		{301, MaxTempo},
		{100000, MaxTempo},
	}
	for _, c := range cases {
		got := ClampTempo(c.in)
		if got != c.want {
			t.Errorf("ClampTempo(%d) = %d, want %d", c.in, got, c.want)
		}
		if got < MinTempo || got > MaxTempo {
			t.Errorf("ClampTempo(%d) = %d out of range", c.in, got)
		}
	}
}

func TestIncrAtMaxIsNoop(t *testing.T) {
	top := Tempo(MaxTempo)
	if got := top.Incr(); got != top {
		t.Errorf("Incr at max = %d, want %d", got, top)
	}
}

func TestDecrAtMinIsNoop(t *testing.T) {
	bottom := Tempo(MinTempo)
	if got := bottom.Decr(); got != bottom {
		t.Errorf("Decr at min = %d, want %d", got, bottom)
	}
}

func TestIncrDecrStepByOne(t *testing.T) {
	if got := Tempo(100).Incr(); got != 101 {
		t.Errorf("Incr = %d, want 101", got)
	}
	if got := Tempo(100).Decr(); got != 99 {
		t.Errorf("Decr = %d, want 99", got)
	}
}

func TestBigStepStopsAtBound(t *testing.T) {
	// Stepping ten times must clamp per step, not overshoot
	if got := Tempo(295).BigIncr(); got != MaxTempo {
		t.Errorf("BigIncr(295) = %d, want %d", got, MaxTempo)
	}
	if got := Tempo(5).BigDecr(); got != MinTempo {
		t.Errorf("BigDecr(5) = %d, want %d", got, MinTempo)
	}
	if got := Tempo(100).BigIncr(); got != 110 {
		t.Errorf("BigIncr(100) = %d, want 110", got)
	}
	if got := Tempo(100).BigDecr(); got != 90 {
		t.Errorf("BigDecr(100) = %d, want 90", got)
	}
}

func TestIntervalTruncates(t *testing.T) {
	if got := Tempo(120).Interval(); got != 500*time.Millisecond {
		t.Errorf("Interval(120) = %v, want 500ms", got)
	}
	// 60000/7 = 8571.42..., truncated
	if got := Tempo(7).Interval(); got != 8571*time.Millisecond {
		t.Errorf("Interval(7) = %v, want 8571ms", got)
	}
	// zero value falls back to the default tempo
	if got := Tempo(0).Interval(); got != 600*time.Millisecond {
		t.Errorf("Interval(0) = %v, want 600ms", got)
	}
}

func TestClampedBeats(t *testing.T) {
	if got := (BeatLayout{}).ClampedBeats(); got != DefaultBeats {
		t.Errorf("zero layout beats = %d, want %d", got, DefaultBeats)
	}
	if got := (BeatLayout{Beats: -3}).ClampedBeats(); got != MinBeats {
		t.Errorf("negative beats = %d, want %d", got, MinBeats)
	}
	if got := (BeatLayout{Beats: 12}).ClampedBeats(); got != MaxBeats {
		t.Errorf("oversized beats = %d, want %d", got, MaxBeats)
	}
	if got := (BeatLayout{Beats: 3}).ClampedBeats(); got != 3 {
		t.Errorf("beats = %d, want 3", got)
	}
}

func TestWithBeatsLeavesOriginal(t *testing.T) {
	orig := DefaultLayout()
	changed := orig.WithBeats(7)
	if changed.Beats != 7 {
		t.Errorf("WithBeats = %d, want 7", changed.Beats)
	}
	if orig.Beats != DefaultBeats {
		t.Errorf("original mutated to %d", orig.Beats)
	}
}
