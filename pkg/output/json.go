package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/ternuav/dronescape/pkg/diff"
	"github.com/ternuav/dronescape/pkg/models"
)

// JSONFormatter emits one JSON document per event for automation
type JSONFormatter struct {
	writer io.Writer
}

// NewJSON creates a JSON formatter writing to w
func NewJSON(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

// jsonEvent is the envelope for every emitted document
type jsonEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
}

// jsonSummary is the report payload
type jsonSummary struct {
	RunID        string                     `json:"run_id"`
	Pipeline     string                     `json:"pipeline"`
	Source       string                     `json:"source,omitempty"`
	Dest         string                     `json:"dest,omitempty"`
	Duration     string                     `json:"duration"`
	DurationMs   int64                      `json:"duration_ms"`
	Copied       int                        `json:"copied"`
	Skipped      int                        `json:"skipped"`
	Errored      int                        `json:"errored"`
	FilesChecked int                        `json:"files_checked,omitempty"`
	Folders      []models.FolderSummary     `json:"folders,omitempty"`
	Plots        []models.PlotPackSummary   `json:"plots,omitempty"`
	Sites        []models.SiteVerification  `json:"sites,omitempty"`
	Corrupt      []models.CorruptionVerdict `json:"corrupt,omitempty"`
	Errors       []models.RunError          `json:"errors,omitempty"`
	Failed       bool                       `json:"failed"`
}

// jsonBackupDiff is the per-site discrepancy payload
type jsonBackupDiff struct {
	Site      string              `json:"site"`
	Identical bool                `json:"identical"`
	Affected  map[string][]string `json:"affected,omitempty"`
	Missing   []string            `json:"missing_in_backup,omitempty"`
	Extra     []string            `json:"extra_in_backup,omitempty"`
	Mismatch  []diff.SizeMismatch `json:"size_mismatches,omitempty"`
}

// Summary renders a completed pipeline report
func (f *JSONFormatter) Summary(report *models.TransferReport) error {
	return f.emit("summary", jsonSummary{
		RunID:        report.RunID,
		Pipeline:     report.Pipeline,
		Source:       report.SourcePath,
		Dest:         report.DestPath,
		Duration:     report.Duration.String(),
		DurationMs:   report.Duration.Milliseconds(),
		Copied:       report.Copied,
		Skipped:      report.Skipped,
		Errored:      report.Errored,
		FilesChecked: report.FilesChecked,
		Folders:      report.Folders,
		Plots:        report.Plots,
		Sites:        report.Sites,
		Corrupt:      report.Corrupt,
		Errors:       report.Errors,
		Failed:       report.HasFailures(),
	})
}

// BackupDiff renders the discrepancies found for one backed-up site
func (f *JSONFormatter) BackupDiff(site string, result diff.Result) error {
	return f.emit("backup_diff", jsonBackupDiff{
		Site:      site,
		Identical: result.Identical(),
		Affected:  result.AffectedTopFolders(),
		Missing:   result.OnlyInPrimary,
		Extra:     result.OnlyInBackup,
		Mismatch:  result.SizeMismatches,
	})
}

// Error reports a run-level error
func (f *JSONFormatter) Error(err error) error {
	return f.emit("error", map[string]string{"error": err.Error()})
}

func (f *JSONFormatter) emit(eventType string, data any) error {
	enc := json.NewEncoder(f.writer)
	return enc.Encode(jsonEvent{
		Timestamp: time.Now(),
		Type:      eventType,
		Data:      data,
	})
}
