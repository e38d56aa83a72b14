package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/newhook/c64/mon"
	"github.com/spf13/cobra"
)

// monitorCmd boots the machine under the machine-language monitor
// instead of the SDL host.
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "run the emulator under the machine-language monitor",
	Args:  cobra.NoArgs,
	Run:   runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) {
	machine, err := bootMachine()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	p := tea.NewProgram(mon.NewMonitor(machine), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error running monitor: %v\n", err)
		os.Exit(1)
	}
}
