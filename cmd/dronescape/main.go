package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ternuav/dronescape/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "dronescape",
		Short: "UAV survey data organization and integrity tooling",
		Long: `dronescape moves raw UAV survey data (DJI L2 LiDAR, DJI P1 RGB and
MicaSense multi-spectral captures) from field SD cards into a canonical
per-plot directory structure, verifying completeness and file integrity
along the way, and mirrors the organized tree to a backup drive.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewScaffoldCommand())
	rootCmd.AddCommand(cli.NewTransferCommand())
	rootCmd.AddCommand(cli.NewVerifyCommand())
	rootCmd.AddCommand(cli.NewBackupCommand())
	rootCmd.AddCommand(cli.NewConfigCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.Execute()
}
