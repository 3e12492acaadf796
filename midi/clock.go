package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-metronome/debug"
	"go-metronome/metronome"
)

// Tick is one beat reported by the external clock device.
type Tick struct {
	Beat int
}

// MIDI timing clock runs at 24 pulses per quarter note
const clocksPerBeat = 24

// SysEx framing for config pushes: 0x7D is the non-commercial manufacturer
// id, 0x4D tags our device.
const (
	sysexVendor = 0x7D
	sysexDevice = 0x4D

	tagTempo  = 0x01
	tagLayout = 0x02
)

// ClockDevice wraps the authoritative metronome clock reachable over a MIDI
// port pair. Inbound timing-clock pulses are folded into beat ticks; local
// state is pushed out as transport and SysEx messages. It satisfies
// metronome.ExternalClock.
type ClockDevice struct {
	id       string
	inPort   drivers.In
	outPort  drivers.Out
	send     func(gomidi.Message) error
	stopFunc func()

	mu      sync.Mutex
	beats   int // beat count pushed via SetLayout
	beat    int // next beat index to report
	clocks  int // pulses since the current beat started
	running bool

	tickChan chan Tick
	tapChan  chan struct{}
}

// NewClockDevice opens both ports and starts listening. The input stream
// is delivered on gomidi's driver goroutine; consumers read the buffered
// channels instead of touching device state.
func NewClockDevice(id string, inPort drivers.In, outPort drivers.Out) (*ClockDevice, error) {
	c := &ClockDevice{
		id:       id,
		inPort:   inPort,
		outPort:  outPort,
		beats:    metronome.DefaultBeats,
		beat:     1,
		tickChan: make(chan Tick, 8),
		tapChan:  make(chan struct{}, 8),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		c.send = send
	}

	if inPort != nil {
		// UseTimeCode so the driver passes timing-clock pulses through
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			c.handleMessage(msg)
		}, gomidi.UseTimeCode())
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		c.stopFunc = stop
	}

	return c, nil
}

func (c *ClockDevice) ID() string {
	return c.id
}

// Ticks is the beat stream derived from inbound timing-clock pulses.
func (c *ClockDevice) Ticks() <-chan Tick {
	return c.tickChan
}

// Taps reports NoteOn presses from the device; any pad press counts as a
// tap gesture.
func (c *ClockDevice) Taps() <-chan struct{} {
	return c.tapChan
}

func (c *ClockDevice) handleMessage(msg gomidi.Message) {
	switch {
	case msg.Is(gomidi.TimingClockMsg):
		c.handlePulse()

	case msg.Is(gomidi.StartMsg):
		c.mu.Lock()
		c.running = true
		c.beat = 1
		c.clocks = 0
		c.mu.Unlock()

	case msg.Is(gomidi.StopMsg):
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()

	default:
		var channel, note, velocity uint8
		if msg.GetNoteOn(&channel, &note, &velocity) && velocity > 0 {
			select {
			case c.tapChan <- struct{}{}:
			default:
			}
		}
	}
}

// handlePulse counts 24 pulses per beat. The pulse that opens a beat emits
// the tick, so beat 1 fires on the first pulse after Start.
func (c *ClockDevice) handlePulse() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	emit := 0
	if c.clocks == 0 {
		emit = c.beat
	}
	c.clocks++
	if c.clocks >= clocksPerBeat {
		c.clocks = 0
		if c.beat >= c.beats {
			c.beat = 1
		} else {
			c.beat++
		}
	}
	c.mu.Unlock()

	if emit > 0 {
		debug.LogEvery(16, "clock", "tick beat=%d", emit)
		select {
		case c.tickChan <- Tick{Beat: emit}:
		default:
			// consumer stalled; dropping beats the alternative of blocking
			// the driver callback
		}
	}
}

// SetTempo pushes the tempo as two 7-bit halves (bpm can exceed one data
// byte).
func (c *ClockDevice) SetTempo(bpm int) error {
	return c.sysex(tagTempo, byte(bpm>>7), byte(bpm&0x7F))
}

// SetLayout pushes the measure shape and adopts the beat count for the
// inbound pulse counter.
func (c *ClockDevice) SetLayout(layout metronome.BeatLayout) error {
	beats := layout.ClampedBeats()

	c.mu.Lock()
	c.beats = beats
	if c.beat > beats {
		c.beat = 1
	}
	c.mu.Unlock()

	var gaps uint8
	for _, g := range layout.Gaps {
		if g >= 1 && g <= metronome.MaxBeats {
			gaps |= 1 << (g - 1)
		}
	}

	return c.sysex(tagLayout,
		byte(beats),
		byte(layout.Subdivisions&0x7F),
		gaps&0x0F, gaps>>4, // split so each byte stays 7-bit clean
		boolByte(layout.EmphasizeFirstBeat),
		boolByte(layout.Sound),
	)
}

// SetPlaying drives the device transport and arms/disarms the local pulse
// counter.
func (c *ClockDevice) SetPlaying(playing bool) error {
	c.mu.Lock()
	c.running = playing
	if playing {
		c.beat = 1
		c.clocks = 0
	}
	c.mu.Unlock()

	if c.send == nil {
		return nil
	}
	if playing {
		return c.send(gomidi.Start())
	}
	return c.send(gomidi.Stop())
}

func (c *ClockDevice) sysex(tag byte, payload ...byte) error {
	if c.send == nil {
		return nil
	}
	data := append([]byte{sysexVendor, sysexDevice, tag}, payload...)
	return c.send(gomidi.SysEx(data))
}

func (c *ClockDevice) Close() error {
	if c.stopFunc != nil {
		c.stopFunc()
	}
	close(c.tickChan)
	close(c.tapChan)
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 0x7F
	}
	return 0
}
