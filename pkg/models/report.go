package models

import (
	"strings"
	"time"
)

// CopyStatus describes the outcome of transferring one source folder
type CopyStatus string

const (
	// StatusCopied indicates the folder was copied successfully
	StatusCopied CopyStatus = "Copied"
	// StatusAlreadyExists indicates the destination already existed and the
	// copy was skipped
	StatusAlreadyExists CopyStatus = "Already exists"
)

// MissingStatus builds the status string for a folder that failed
// classification
func MissingStatus(missing []string) CopyStatus {
	return CopyStatus("Missing: " + strings.Join(missing, ", "))
}

// ErrorStatus builds the status string for a folder whose copy failed.
// The message is truncated to keep summary tables readable.
func ErrorStatus(err error) CopyStatus {
	msg := err.Error()
	if len(msg) > 30 {
		msg = msg[:30]
	}
	return CopyStatus("Error: " + msg)
}

// IsFailure reports whether the status represents a classification or copy
// failure
func (s CopyStatus) IsFailure() bool {
	return strings.HasPrefix(string(s), "Missing") || strings.HasPrefix(string(s), "Error")
}

// FolderSummary is one row of a transfer summary table
type FolderSummary struct {
	Folder    string
	PlotID    string
	FileCount int
	SizeBytes int64
	Status    CopyStatus
}

// BinSummary is one row of a multi-spectral packing summary
type BinSummary struct {
	PlotID    string
	Bin       string
	FileCount int
	OverLimit bool
}

// PlotPackSummary aggregates a plot's packing outcome
type PlotPackSummary struct {
	PlotID  string
	Bins    []BinSummary
	Copied  int
	Skipped int
}

// SiteVerification is one row of an integrity verification summary
type SiteVerification struct {
	Site         string
	FileCount    int
	SizeBytes    int64
	CorruptCount int
	Corrupt      []CorruptionVerdict
}

// Passed reports whether the site scanned clean
func (v SiteVerification) Passed() bool {
	return v.CorruptCount == 0
}

// TransferReport is the result of one pipeline run
type TransferReport struct {
	// RunID uniquely identifies the run
	RunID string

	// Pipeline names the pipeline that produced the report
	// ("lidar", "rgb", "multispec", "verify", "backup")
	Pipeline string

	// SourcePath and DestPath are the run's root directories
	SourcePath string
	DestPath   string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Folders summarizes per-folder outcomes (lidar and rgb pipelines)
	Folders []FolderSummary

	// Plots summarizes per-plot packing (multispec pipeline)
	Plots []PlotPackSummary

	// Sites summarizes per-site verification (verify pipeline)
	Sites []SiteVerification

	// Corrupt lists corruption verdicts gathered after a transfer
	Corrupt []CorruptionVerdict

	// FilesChecked counts files passed through the corruption scanner
	FilesChecked int

	// Copied / Skipped / Errored count folder-level or file-level outcomes
	// depending on the pipeline
	Copied  int
	Skipped int
	Errored int

	// Errors accumulates non-fatal failures encountered during the run
	Errors []RunError
}

// RunError records a non-fatal failure during a pipeline run
type RunError struct {
	Path      string
	Message   string
	Timestamp time.Time
}

// HasFailures reports whether any folder failed or any file was corrupt
func (r *TransferReport) HasFailures() bool {
	if r.Errored > 0 || len(r.Corrupt) > 0 || len(r.Errors) > 0 {
		return true
	}
	for _, f := range r.Folders {
		if f.Status.IsFailure() {
			return true
		}
	}
	for _, s := range r.Sites {
		if !s.Passed() {
			return true
		}
	}
	return false
}

// ExitCode maps the report outcome to a process exit code
func (r *TransferReport) ExitCode() int {
	if r.HasFailures() {
		return 1
	}
	return 0
}
