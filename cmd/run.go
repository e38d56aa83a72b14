package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/newhook/c64/c64/c64"
	"github.com/newhook/c64/cpu"
	"github.com/spf13/cobra"
)

var (
	scale int32
	trace bool
)

// runCmd boots the machine and hands it to the SDL host loop.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run the emulator",
	Args:  cobra.NoArgs,
	Run:   runMachine,
}

func init() {
	runCmd.Flags().Int32Var(&scale, "scale", 4, "window scale factor")
	runCmd.Flags().BoolVar(&trace, "trace", false, "log every retired CPU instruction")
}

func runMachine(cmd *cobra.Command, args []string) {
	machine, err := bootMachine()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	host, err := c64.NewHost(machine, scale)
	if err != nil {
		fmt.Printf("error creating window: %v\n", err)
		os.Exit(1)
	}
	defer host.Cleanup()

	if err := host.Run(); err != nil {
		fmt.Printf("emulation halted: %v\n", err)
		os.Exit(1)
	}
}

// bootMachine builds a machine with the configured ROM images loaded
// and the reset vector applied.
func bootMachine() (*c64.C64, error) {
	machine := c64.NewC64()

	roms := []struct {
		path string
		kind string
	}{
		{basicPath, "basic"},
		{kernalPath, "kernal"},
		{chargenPath, "char"},
	}
	for _, rom := range roms {
		data, err := os.ReadFile(rom.path)
		if err != nil {
			return nil, fmt.Errorf("loading %s ROM: %w", rom.kind, err)
		}
		if err := machine.Memory.LoadROM(data, rom.kind); err != nil {
			return nil, err
		}
	}

	machine.Reset()

	if trace {
		machine.CPU.SetTracer(cpu.NewTracer(log.New(os.Stderr, "", 0)))
	}
	return machine, nil
}
