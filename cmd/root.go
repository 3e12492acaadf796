package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-metronome/config"
	"go-metronome/debug"
	"go-metronome/metronome"
	"go-metronome/midi"
	"go-metronome/theme"
	"go-metronome/tui"
	"go-metronome/widgets"
)

var (
	flagTempo int
	flagBeats int
	flagPort  string
	flagDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "go-metronome",
	Short: "A metronome that follows an external MIDI clock when one is plugged in",
	Long: `go-metronome drives a visual beat from either an external MIDI clock
device or, when none is connected, a local timer. Tempo comes from the
keyboard, a config file, or tap gestures.`,
	RunE: runMetronome,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.Flags().IntVar(&flagTempo, "tempo", 0, "initial tempo in BPM (overrides config)")
	rootCmd.Flags().IntVar(&flagBeats, "beats", 0, "beats per measure, 1-8 (overrides config)")
	rootCmd.Flags().StringVar(&flagPort, "port", "", "substring of the clock device's MIDI port name")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "log to ~/.config/go-metronome/debug.log")
}

func runMetronome(cmd *cobra.Command, args []string) error {
	if flagDebug {
		if err := debug.Enable(); err != nil {
			return fmt.Errorf("enable debug log: %w", err)
		}
		defer debug.Disable()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagTempo != 0 {
		cfg.Tempo = flagTempo
	}
	if flagBeats != 0 {
		cfg.Beats = flagBeats
	}
	if flagPort != "" {
		cfg.ClockPort = flagPort
	}

	th := theme.New(theme.DefaultPalette())
	bar := widgets.NewBeatBar()

	manager := metronome.NewManager(bar)
	manager.SetMaxTempo(cfg.MaxTempo)
	manager.SetTempo(cfg.Tempo)
	manager.SetLayout(metronome.DefaultLayout().WithBeats(cfg.Beats))

	deviceMgr := midi.NewDeviceManager(cfg.ClockPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	m := tui.NewModel(manager, deviceMgr, th, bar)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
