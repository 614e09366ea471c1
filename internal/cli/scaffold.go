package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ternuav/dronescape/pkg/layout"
)

// ScaffoldFlags holds scaffold command flags
type ScaffoldFlags struct {
	Parent string
	Plots  []string
	Date   string
}

var scaffoldFlags ScaffoldFlags

// NewScaffoldCommand creates the scaffold command
func NewScaffoldCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Create the empty plot directory structure",
		Long: `Create the canonical per-plot, per-date directory structure (imagery,
lidar, metadata, drtk, b-roll) without transferring any data.`,
		RunE: runScaffold,
	}

	cmd.Flags().StringVarP(&scaffoldFlags.Parent, "parent", "p", "", "destination root for organized plot data")
	cmd.Flags().StringSliceVar(&scaffoldFlags.Plots, "plots", nil, "plot IDs to scaffold (required)")
	cmd.Flags().StringVar(&scaffoldFlags.Date, "date", "", "acquisition date as YYYYMMDD (default: today)")
	cmd.MarkFlagRequired("plots")

	return cmd
}

func runScaffold(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	parent := scaffoldFlags.Parent
	if parent == "" {
		parent = cfg.Directories.Parent
	}
	if err := ensureDir("parent", parent); err != nil {
		return err
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return fmt.Errorf("failed to load site registry: %w", err)
	}

	date, err := parseDate(scaffoldFlags.Date)
	if err != nil {
		return err
	}

	l := layout.New(parent)
	for _, plot := range scaffoldFlags.Plots {
		plot = strings.ToUpper(strings.TrimSpace(plot))
		if !reg.Contains(plot) {
			return fmt.Errorf("unknown plot %q", plot)
		}
		if err := l.Scaffold(plot, date); err != nil {
			return err
		}
		if !globalFlags.Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Scaffolded %s\n", l.DateDir(plot, date))
		}
	}
	return nil
}
