package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternuav/dronescape/pkg/assign"
	"github.com/ternuav/dronescape/pkg/config"
	"github.com/ternuav/dronescape/pkg/models"
	"github.com/ternuav/dronescape/pkg/pipeline"
)

// TransferFlags holds transfer command flags
type TransferFlags struct {
	Source string
	Red    string
	Blue   string
	Parent string
	Date   string

	Assignments     string
	SaveAssignments string
	DeepVerify      bool

	Output string

	LogFile   string
	LogFormat string
	LogLevel  string
}

var transferFlags TransferFlags

// NewTransferCommand creates the transfer command and its per-sensor
// subcommands
func NewTransferCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer sensor data into the organized plot tree",
		Long: `Transfer raw capture data from SD cards into the per-plot directory
structure, classifying folders, packing multi-spectral captures and
checking file integrity along the way.`,
	}

	cmd.PersistentFlags().StringVarP(&transferFlags.Parent, "parent", "p", "", "destination root for organized plot data")
	cmd.PersistentFlags().StringVar(&transferFlags.Date, "date", "", "acquisition date as YYYYMMDD (default: today)")
	cmd.PersistentFlags().StringVarP(&transferFlags.Output, "output", "o", "", "output format: human, json")
	cmd.PersistentFlags().StringVar(&transferFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.PersistentFlags().StringVar(&transferFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.PersistentFlags().StringVar(&transferFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.AddCommand(newTransferLidarCommand())
	cmd.AddCommand(newTransferRGBCommand())
	cmd.AddCommand(newTransferMultispecCommand())

	return cmd
}

func newTransferLidarCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lidar",
		Short: "Transfer L2 LiDAR capture folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFolderTransfer(cmd, "l2_sd_card",
				func(ctx context.Context, o *pipeline.Orchestrator, source string, date time.Time) (*models.TransferReport, error) {
					return o.Lidar(ctx, source, date)
				})
		},
	}
	cmd.Flags().StringVarP(&transferFlags.Source, "source", "s", "", "L2 SD card directory")
	return cmd
}

func newTransferRGBCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rgb",
		Short: "Transfer P1 RGB capture folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFolderTransfer(cmd, "p1_sd_card",
				func(ctx context.Context, o *pipeline.Orchestrator, source string, date time.Time) (*models.TransferReport, error) {
					return o.RGB(ctx, source, date)
				})
		},
	}
	cmd.Flags().StringVarP(&transferFlags.Source, "source", "s", "", "P1 SD card directory")
	return cmd
}

func newTransferMultispecCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "multispec",
		Short: "Transfer MicaSense multi-spectral captures",
		Long: `Transfer MicaSense captures from both camera cards. SET folders are
assigned to plots interactively, or from a saved assignment file.`,
		RunE: runTransferMultispec,
	}
	cmd.Flags().StringVar(&transferFlags.Red, "red", "", "RED camera card directory")
	cmd.Flags().StringVar(&transferFlags.Blue, "blue", "", "BLUE camera card directory")
	cmd.Flags().StringVar(&transferFlags.Assignments, "assignments", "", "load SET assignments from a YAML file instead of prompting")
	cmd.Flags().StringVar(&transferFlags.SaveAssignments, "save-assignments", "", "save the confirmed assignments to a YAML file")
	cmd.Flags().BoolVar(&transferFlags.DeepVerify, "deep", false, "fully decode every TIFF during the integrity scan")
	return cmd
}

// folderRunFn runs one of the folder-level pipelines
type folderRunFn func(ctx context.Context, o *pipeline.Orchestrator, source string, date time.Time) (*models.TransferReport, error)

func runFolderTransfer(cmd *cobra.Command, sourceKey string, run folderRunFn) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	source := transferFlags.Source
	if source == "" {
		source = cfg.Source(sourceKey)
	}
	if err := requireDir("source", source); err != nil {
		return err
	}

	o, cleanup, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	date, err := parseDate(transferFlags.Date)
	if err != nil {
		return err
	}

	rememberDirs(cfg, sourceKey, source)

	report, err := run(ctx, o, source, date)
	if err != nil {
		return fmt.Errorf("transfer failed: %w", err)
	}

	os.Exit(report.ExitCode())
	return nil
}

func runTransferMultispec(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	red := transferFlags.Red
	if red == "" {
		red = cfg.Source("micasense_red")
	}
	blue := transferFlags.Blue
	if blue == "" {
		blue = cfg.Source("micasense_blue")
	}
	if red == "" && blue == "" {
		return fmt.Errorf("at least one of --red and --blue is required")
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return fmt.Errorf("failed to load site registry: %w", err)
	}

	var plan models.AssignmentPlan
	if transferFlags.Assignments != "" {
		plan, err = assign.LoadPlan(transferFlags.Assignments, reg)
		if err != nil {
			return err
		}
	} else {
		sets, err := assign.DiscoverSets(red, blue)
		if err != nil {
			return err
		}
		plan, err = resolveInteractively(sets, reg, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	if transferFlags.SaveAssignments != "" {
		if err := assign.SavePlan(transferFlags.SaveAssignments, plan); err != nil {
			return err
		}
	}

	o, cleanup, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	date, err := parseDate(transferFlags.Date)
	if err != nil {
		return err
	}

	cfg.SetSource("micasense_red", red)
	cfg.SetSource("micasense_blue", blue)
	rememberDirs(cfg, "", "")

	report, err := o.Multispec(ctx, red, blue, plan, date)
	if err != nil {
		return fmt.Errorf("transfer failed: %w", err)
	}

	os.Exit(report.ExitCode())
	return nil
}

// buildOrchestrator assembles the pipeline orchestrator from flags and
// config, returning a cleanup function that closes the logger
func buildOrchestrator(cfg *config.Config) (*pipeline.Orchestrator, func(), error) {
	parent := transferFlags.Parent
	if parent == "" {
		parent = cfg.Directories.Parent
	}
	if err := ensureDir("parent", parent); err != nil {
		return nil, nil, err
	}
	cfg.Directories.Parent = parent

	formatter, err := createFormatter(transferFlags.Output, cfg)
	if err != nil {
		return nil, nil, err
	}

	logger, err := createLogger(transferFlags.LogFile, transferFlags.LogFormat, transferFlags.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	o := pipeline.New(pipeline.Options{
		ParentDir:   parent,
		BinCapacity: cfg.Packing.MaxFilesPerFolder,
		Progress:    cfg.Output.Progress && !globalFlags.Quiet,
		DeepVerify:  transferFlags.DeepVerify,
		Logger:      logger,
		Formatter:   formatter,
	})
	return o, func() { logger.Close() }, nil
}

// rememberDirs persists the directory choices for the next run. Failures
// are silent: remembering paths is a convenience, not a requirement.
func rememberDirs(cfg *config.Config, sourceKey, source string) {
	if sourceKey != "" && source != "" {
		cfg.SetSource(sourceKey, source)
	}
	path := globalFlags.ConfigFile
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return
		}
		path = p
	}
	_ = config.SaveToFile(cfg, path)
}
