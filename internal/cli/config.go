package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ternuav/dronescape/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or modify dronescape configuration.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Printf("Parent Directory: %s\n", cfg.Directories.Parent)
			fmt.Printf("Backup Directory: %s\n", cfg.Directories.Backup)
			fmt.Printf("Log Directory: %s\n", cfg.Directories.Log)
			if len(cfg.Directories.Sources) > 0 {
				fmt.Println("Sources:")
				names := make([]string, 0, len(cfg.Directories.Sources))
				for name := range cfg.Directories.Sources {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Printf("  %s: %s\n", name, cfg.Directories.Sources[name])
				}
			}
			fmt.Printf("Max Files Per Folder: %d\n", cfg.Packing.MaxFilesPerFolder)
			fmt.Printf("Sites File: %s\n", cfg.Registry.SitesFile)
			fmt.Printf("Output Format: %s\n", cfg.Output.Format)
			fmt.Printf("Log Format: %s\n", cfg.Logging.Format)
			fmt.Printf("Log Level: %s\n", cfg.Logging.Level)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}

			cfg := config.Default()
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}

			fmt.Printf("Configuration file created at: %s\n", path)
			return nil
		},
	}
}
