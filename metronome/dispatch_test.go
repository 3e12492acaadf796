package metronome

import "testing"

func TestDispatchInRange(t *testing.T) {
	target := &fakeTarget{}
	d := NewDispatcher(target)

	for beat := 1; beat <= 8; beat++ {
		d.Dispatch(beat)
	}
	got := target.snapshot()
	if len(got) != 8 {
		t.Fatalf("dispatched %d blinks, want 8", len(got))
	}
	for i, b := range got {
		if b != i+1 {
			t.Errorf("blink[%d] = %d, want %d", i, b, i+1)
		}
	}
}

func TestDispatchOutOfRangeIgnored(t *testing.T) {
	target := &fakeTarget{}
	d := NewDispatcher(target)

	d.Dispatch(0)
	d.Dispatch(9)
	d.Dispatch(-4)
	if got := target.snapshot(); len(got) != 0 {
		t.Errorf("out-of-range beats reached the target: %v", got)
	}
}

func TestDispatchNilTarget(t *testing.T) {
	d := NewDispatcher(nil)
	d.Dispatch(1) // must not panic
}
