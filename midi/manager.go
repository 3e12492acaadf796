package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-metronome/debug"
)

// DeviceEvent is emitted when the clock device connects/disconnects
type DeviceEvent struct {
	Type  DeviceEventType
	Clock *ClockDevice
	ID    string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of the external clock device.
// The metronome keeps running on its local scheduler while nothing matches.
type DeviceManager struct {
	clocks   map[string]*ClockDevice
	mu       sync.RWMutex
	events   chan DeviceEvent
	match    string
	pollRate time.Duration
}

// NewDeviceManager creates a manager that watches for ports whose name
// contains match (case-insensitive).
func NewDeviceManager(match string) *DeviceManager {
	if match == "" {
		match = "clock"
	}
	return &DeviceManager{
		clocks:   make(map[string]*ClockDevice),
		events:   make(chan DeviceEvent, 16),
		match:    strings.ToLower(match),
		pollRate: time.Second,
	}
}

// Events returns a channel of connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// GetClock returns the first connected clock device (or nil)
func (dm *DeviceManager) GetClock() *ClockDevice {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	for _, c := range dm.clocks {
		return c
	}
	return nil
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	var inPorts []drivers.In
	var outPorts []drivers.Out

	select {
	case result := <-ch:
		inPorts = result.inPorts
		outPorts = result.outPorts
	case <-time.After(3 * time.Second):
		// MIDI subsystem is hung - skip this scan
		return
	}

	seenIDs := make(map[string]bool)

	for i, inPort := range inPorts {
		name := strings.ToLower(inPort.String())
		if !strings.Contains(name, dm.match) {
			continue
		}
		id := inPort.String()
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.clocks[id]
		dm.mu.RUnlock()

		if exists {
			continue
		}

		// Find matching output port
		var outPort drivers.Out
		for j, op := range outPorts {
			if strings.ToLower(op.String()) == name {
				outPort = outPorts[j]
				break
			}
		}

		clock, err := NewClockDevice(id, inPorts[i], outPort)
		if err != nil {
			debug.Log("midi", "open %s: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.clocks[id] = clock
		dm.mu.Unlock()

		dm.events <- DeviceEvent{
			Type:  DeviceConnected,
			Clock: clock,
			ID:    id,
		}
	}

	// Check for disconnects
	dm.mu.Lock()
	var toRemove []string
	for id := range dm.clocks {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		c := dm.clocks[id]
		c.Close()
		delete(dm.clocks, id)
		dm.events <- DeviceEvent{
			Type: DeviceDisconnected,
			ID:   id,
		}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.clocks {
		c.Close()
	}
	dm.clocks = make(map[string]*ClockDevice)
}

// ListPorts returns the names of all MIDI input and output ports, for the
// ports subcommand.
func ListPorts() (ins []string, outs []string) {
	for _, p := range gomidi.GetInPorts() {
		ins = append(ins, p.String())
	}
	for _, p := range gomidi.GetOutPorts() {
		outs = append(outs, p.String())
	}
	return ins, outs
}
