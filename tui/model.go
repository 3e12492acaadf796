package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-metronome/metronome"
	"go-metronome/midi"
	"go-metronome/theme"
	"go-metronome/widgets"
)

type Model struct {
	Manager   *metronome.Manager
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme
	Bar       *widgets.BeatBar

	clockID  string // currently connected clock device (empty when none)
	quitting bool
}

type UpdateMsg struct{}

type RedrawMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(manager *metronome.Manager, deviceMgr *midi.DeviceManager, th *theme.Theme, bar *widgets.BeatBar) Model {
	return Model{
		Manager:   manager,
		DeviceMgr: deviceMgr,
		Theme:     th,
		Bar:       bar,
	}
}

func ListenForUpdates(manager *metronome.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event := <-deviceMgr.Events()
		return DeviceEventMsg(event)
	}
}

// redrawAfter re-renders once the blink hold expires so a lit cell dims
// even when no further tick arrives.
func redrawAfter() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(time.Time) tea.Msg {
		return RedrawMsg{}
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Manager),
		ListenForDevices(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Manager.Stop()
			return m, tea.Quit

		case "p", " ", "space":
			_, playing, _, _ := m.Manager.GetState()
			if playing {
				m.Manager.Stop()
			} else {
				m.Manager.Start()
			}

		case "+", "=":
			m.Manager.IncrTempo()

		case "-", "_":
			m.Manager.DecrTempo()

		case "]":
			m.Manager.BigIncrTempo()

		case "[":
			m.Manager.BigDecrTempo()

		case "t":
			m.Manager.Tap(time.Now())

		case "e":
			m.Manager.ToggleEmphasis()

		case "s":
			m.Manager.ToggleSound()

		case "1", "2", "3", "4", "5", "6", "7", "8":
			m.Manager.SetBeats(int(msg.String()[0] - '0'))
		}

	case UpdateMsg:
		return m, tea.Batch(ListenForUpdates(m.Manager), redrawAfter())

	case RedrawMsg:
		return m, nil

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.clockID = event.Clock.ID()
			m.Manager.HandleClockConnected(event.Clock)

			// Drain tick and tap streams from the clock device
			go func(clock *midi.ClockDevice) {
				for tick := range clock.Ticks() {
					m.Manager.HandleClockTick(tick.Beat)
				}
			}(event.Clock)
			go func(clock *midi.ClockDevice) {
				for range clock.Taps() {
					m.Manager.Tap(time.Now())
				}
			}(event.Clock)
		} else if event.Type == midi.DeviceDisconnected {
			if m.clockID == event.ID {
				m.clockID = ""
				m.Manager.HandleClockDisconnected()
			}
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	beat, playing, tempo, connected := m.Manager.GetState()
	layout := m.Manager.Layout()
	m.Bar.SetLayout(layout.ClampedBeats(), layout.Gaps, layout.EmphasizeFirstBeat)

	// Styles
	titleStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	statStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	playState := "STOP"
	if playing {
		playState = "PLAY"
	}

	source := warnStyle.Render("local")
	if connected {
		source = titleStyle.Render("midi:" + m.clockID)
	}

	sound := "sound:off"
	if layout.Sound {
		sound = "sound:on"
	}

	header := titleStyle.Render("go-metronome") + "  " +
		statStyle.Render(fmt.Sprintf("%s  %3dbpm  beat:%d/%d  %s",
			playState, tempo, beat, layout.ClampedBeats(), sound)) + "  " + source

	bar := m.Bar.View(m.Theme)

	help := dimStyle.Render("space:play/stop  +/-:tempo  [/]:tempo±10  t:tap  1-8:beats  e:emphasis  s:sound  q:quit")

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n  ")
	out.WriteString(bar)
	out.WriteString("\n\n")
	out.WriteString(help)

	return out.String()
}
