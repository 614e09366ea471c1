// Package output renders pipeline reports for the terminal. Two formatters
// exist: a human one with styled summary tables and a JSON one for
// automation.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/ternuav/dronescape/pkg/diff"
	"github.com/ternuav/dronescape/pkg/models"
)

// Formatter renders pipeline results
type Formatter interface {
	// Summary renders a completed pipeline report
	Summary(report *models.TransferReport) error

	// BackupDiff renders the discrepancies found for one backed-up site
	BackupDiff(site string, result diff.Result) error

	// Error reports a run-level error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// New creates a formatter by name ("human" or "json")
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "", "human":
		return NewHuman(w), nil
	case "json":
		return NewJSON(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// formatBytes formats bytes in human-readable form
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatDuration formats a duration in human-readable form
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
