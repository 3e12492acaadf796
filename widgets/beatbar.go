package widgets

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"go-metronome/theme"
)

// How long a blinked cell stays lit
const blinkHold = 120 * time.Millisecond

// BeatBar is a row of 8 addressable beat triggers. Blink lights one of
// them; render decides which cells exist from the configured layout.
// Blink arrives from timer/MIDI goroutines while View runs on the TUI
// loop, hence the mutex.
type BeatBar struct {
	mu     sync.Mutex
	lit    int // 1-based, 0 when dark
	litAt  time.Time
	beats  int
	gaps   map[int]bool
	emph   bool
	buffer int // total addressable triggers
}

func NewBeatBar() *BeatBar {
	return &BeatBar{
		beats:  4,
		gaps:   make(map[int]bool),
		emph:   true,
		buffer: 8,
	}
}

// Blink lights trigger i. Out-of-range indices were already filtered by
// the dispatcher, but a nil-safe re-check costs nothing here either.
func (b *BeatBar) Blink(i int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 1 || i > b.buffer {
		return
	}
	b.lit = i
	b.litAt = time.Now()
}

// SetLayout tells the bar how many cells to draw and which are muted.
func (b *BeatBar) SetLayout(beats int, gaps []int, emphasizeFirst bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if beats < 1 {
		beats = 1
	}
	if beats > b.buffer {
		beats = b.buffer
	}
	b.beats = beats
	b.gaps = make(map[int]bool, len(gaps))
	for _, g := range gaps {
		b.gaps[g] = true
	}
	b.emph = emphasizeFirst
}

// View renders the bar. A lit cell dims again after blinkHold even without
// a re-render in between, because staleness is checked against litAt.
func (b *BeatBar) View(th *theme.Theme) string {
	b.mu.Lock()
	lit := b.lit
	if lit != 0 && time.Since(b.litAt) > blinkHold {
		lit = 0
	}
	beats := b.beats
	gaps := b.gaps
	emph := b.emph
	b.mu.Unlock()

	idleStyle := lipgloss.NewStyle().Foreground(th.Muted())
	litStyle := lipgloss.NewStyle().Foreground(th.Active())
	emphStyle := lipgloss.NewStyle().Foreground(th.Bright())

	var out strings.Builder
	for i := 1; i <= beats; i++ {
		if i > 1 {
			out.WriteString(" ")
		}
		switch {
		case i == lit && i == 1 && emph:
			out.WriteString(emphStyle.Render(string(th.Symbols.BeatEmphasis)))
		case i == lit:
			out.WriteString(litStyle.Render(string(th.Symbols.BeatLit)))
		case gaps[i]:
			out.WriteString(idleStyle.Render(string(th.Symbols.BeatGap)))
		default:
			out.WriteString(idleStyle.Render(string(th.Symbols.BeatIdle)))
		}
	}
	return out.String()
}
