package theme

import "testing"

func TestLookupClampsRange(t *testing.T) {
	p := DefaultPalette()

	if got := p.Lookup(-1); got != p.Colors[0] {
		t.Errorf("Lookup(-1) = %v, want first color", got)
	}
	if got := p.Lookup(2); got != p.Colors[len(p.Colors)-1] {
		t.Errorf("Lookup(2) = %v, want last color", got)
	}
}

func TestLookupEmptyPalette(t *testing.T) {
	p := &Palette{}
	if got := p.Lookup(0.5); got != (RGB{255, 255, 255}) {
		t.Errorf("empty palette lookup = %v, want white", got)
	}
}

func TestColorFormat(t *testing.T) {
	th := New(&Palette{Colors: []RGB{{0, 128, 255}}})
	if got := string(th.Color(0)); got != "#0080ff" {
		t.Errorf("color = %q, want #0080ff", got)
	}
}
