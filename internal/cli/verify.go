package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ternuav/dronescape/pkg/pipeline"
)

// VerifyFlags holds verify command flags
type VerifyFlags struct {
	Root      string
	Output    string
	LogFile   string
	LogFormat string
	LogLevel  string
}

var verifyFlags VerifyFlags

// NewVerifyCommand creates the verify command
func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check file integrity across the organized data tree",
		Long: `Scan every file under each site directory and report unreadable or
zero-size files per site. No files are modified.`,
		RunE: runVerify,
	}

	cmd.Flags().StringVarP(&verifyFlags.Root, "root", "r", "", "data root to verify (default: configured parent directory)")
	cmd.Flags().StringVarP(&verifyFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().StringVar(&verifyFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&verifyFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&verifyFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	root := verifyFlags.Root
	if root == "" {
		root = cfg.Directories.Parent
	}
	if err := requireDir("root", root); err != nil {
		return err
	}

	formatter, err := createFormatter(verifyFlags.Output, cfg)
	if err != nil {
		return err
	}
	logger, err := createLogger(verifyFlags.LogFile, verifyFlags.LogFormat, verifyFlags.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	o := pipeline.New(pipeline.Options{
		ParentDir: root,
		Logger:    logger,
		Formatter: formatter,
	})

	report, err := o.Verify(ctx, root)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	os.Exit(report.ExitCode())
	return nil
}
