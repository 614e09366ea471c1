package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ternuav/dronescape/pkg/pipeline"
)

// BackupFlags holds backup command flags
type BackupFlags struct {
	Source    string
	Dest      string
	Output    string
	LogFile   string
	LogFormat string
	LogLevel  string
}

var backupFlags BackupFlags

// NewBackupCommand creates the backup command
func NewBackupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Mirror the organized data tree and verify the copy",
		Long: `Copy every site directory to the backup root, skipping files already
present, then compare both trees by path and size and check the backup
copy for unreadable files.`,
		RunE: runBackup,
	}

	cmd.Flags().StringVarP(&backupFlags.Source, "source", "s", "", "primary data root (default: configured parent directory)")
	cmd.Flags().StringVarP(&backupFlags.Dest, "dest", "d", "", "backup root (default: configured backup directory)")
	cmd.Flags().StringVarP(&backupFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().StringVar(&backupFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&backupFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&backupFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runBackup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	source := backupFlags.Source
	if source == "" {
		source = cfg.Directories.Parent
	}
	if err := requireDir("source", source); err != nil {
		return err
	}

	dest := backupFlags.Dest
	if dest == "" {
		dest = cfg.Directories.Backup
	}
	if err := ensureDir("dest", dest); err != nil {
		return err
	}

	formatter, err := createFormatter(backupFlags.Output, cfg)
	if err != nil {
		return err
	}
	logger, err := createLogger(backupFlags.LogFile, backupFlags.LogFormat, backupFlags.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	o := pipeline.New(pipeline.Options{
		ParentDir: source,
		Progress:  cfg.Output.Progress && !globalFlags.Quiet,
		Logger:    logger,
		Formatter: formatter,
	})

	cfg.Directories.Backup = dest
	rememberDirs(cfg, "", "")

	report, err := o.Backup(ctx, source, dest)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	os.Exit(report.ExitCode())
	return nil
}
