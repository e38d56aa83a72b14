package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// currentReleaseVersion is used to print the version the user currently has downloaded
const currentReleaseVersion = "v0.1.0"

var (
	basicPath   string
	kernalPath  string
	chargenPath string
)

// rootCmd is the base for all commands.
var rootCmd = &cobra.Command{
	Use:   "c64 [command]",
	Short: "c64 is a cycle-stepped Commodore 64 emulator",
	Long:  "c64 emulates a PAL Commodore 64: a sub-cycle 6510 core, banked memory, character-mode video, CIA timers and the keyboard matrix.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Unknown command. Try `c64 help` for more information")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&basicPath, "basic", "basic.901226-01.bin", "path to the BASIC ROM image")
	rootCmd.PersistentFlags().StringVar(&kernalPath, "kernal", "kernal.901227-03.bin", "path to the KERNAL ROM image")
	rootCmd.PersistentFlags().StringVar(&chargenPath, "chargen", "characters.901225-01.bin", "path to the character ROM image")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs c64 according to the user's command/subcommand/flags
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
