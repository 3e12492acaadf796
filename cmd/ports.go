package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-metronome/midi"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available MIDI ports",
	Run: func(cmd *cobra.Command, args []string) {
		ins, outs := midi.ListPorts()

		fmt.Println("Inputs:")
		if len(ins) == 0 {
			fmt.Println("  (none)")
		}
		for i, name := range ins {
			fmt.Printf("  %d: %s\n", i, name)
		}

		fmt.Println("Outputs:")
		if len(outs) == 0 {
			fmt.Println("  (none)")
		}
		for i, name := range outs {
			fmt.Printf("  %d: %s\n", i, name)
		}
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
