// Package pipeline wires the discovery, classification, packing, copying
// and integrity stages into the runnable data flows: the three sensor
// transfers, the standalone verification sweep and the backup mirror.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ternuav/dronescape/pkg/classify"
	"github.com/ternuav/dronescape/pkg/copier"
	"github.com/ternuav/dronescape/pkg/integrity"
	"github.com/ternuav/dronescape/pkg/layout"
	"github.com/ternuav/dronescape/pkg/logging"
	"github.com/ternuav/dronescape/pkg/models"
	"github.com/ternuav/dronescape/pkg/output"
	"github.com/ternuav/dronescape/pkg/pack"
)

// Orchestrator runs the pipelines. Construct one per invocation; it is not
// safe for concurrent use.
type Orchestrator struct {
	parent    string
	layout    layout.Layout
	copier    *copier.Copier
	packer    *pack.Packer
	parser    classify.PlotIDParser
	logger    logging.Logger
	formatter output.Formatter
	now       func() time.Time
	deep      bool
}

// Options configures an orchestrator
type Options struct {
	// ParentDir is the destination root for organized plot data
	ParentDir string

	// BinCapacity is the multi-spectral bin capacity; zero means default
	BinCapacity int

	// Progress enables byte-level progress bars during tree copies
	Progress bool

	// DeepVerify enables full TIFF decoding during multi-spectral scans
	DeepVerify bool

	// Logger receives structured run logs; nil disables logging
	Logger logging.Logger

	// Formatter renders summaries; nil discards them
	Formatter output.Formatter

	// Now overrides the clock, for tests
	Now func() time.Time
}

// New creates an orchestrator
func New(opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = logging.NewNullLogger()
	}
	if opts.Formatter == nil {
		opts.Formatter = output.NewHuman(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{
		parent:    opts.ParentDir,
		layout:    layout.New(opts.ParentDir),
		copier:    copier.New(opts.Progress),
		packer:    pack.New(opts.BinCapacity),
		parser:    classify.NewDashParser(),
		logger:    opts.Logger,
		formatter: opts.Formatter,
		now:       opts.Now,
		deep:      opts.DeepVerify,
	}
}

// newReport starts a report for one pipeline run
func (o *Orchestrator) newReport(pipeline, source, dest string) *models.TransferReport {
	return &models.TransferReport{
		RunID:      uuid.NewString(),
		Pipeline:   pipeline,
		SourcePath: source,
		DestPath:   dest,
		StartTime:  o.now(),
	}
}

// finish stamps the report, renders the summary and logs the outcome
func (o *Orchestrator) finish(ctx context.Context, report *models.TransferReport) {
	report.EndTime = o.now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	o.logger.Info(ctx, "pipeline finished", logging.Fields{
		"run_id":   report.RunID,
		"pipeline": report.Pipeline,
		"copied":   report.Copied,
		"skipped":  report.Skipped,
		"errored":  report.Errored,
		"failed":   report.HasFailures(),
	})
	if err := o.formatter.Summary(report); err != nil {
		o.logger.Error(ctx, "failed to render summary", err, nil)
	}
}

// recordError appends a non-fatal failure to the report and logs it
func (o *Orchestrator) recordError(ctx context.Context, report *models.TransferReport, path string, err error) {
	report.Errors = append(report.Errors, models.RunError{
		Path:      path,
		Message:   err.Error(),
		Timestamp: o.now(),
	})
	o.logger.Error(ctx, "pipeline error", err, logging.Fields{"path": path})
}

// listSourceFolders lists the immediate subdirectories of dir with their
// flat file listings, sorted by folder name
func listSourceFolders(dir string) ([]models.SourceFolder, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory %s: %w", dir, err)
	}

	var folders []models.SourceFolder
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		files, err := listFiles(path)
		if err != nil {
			return nil, err
		}
		folders = append(folders, models.SourceFolder{
			Name:  entry.Name(),
			Path:  path,
			Files: files,
		})
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	return folders, nil
}

// listFiles lists the regular files directly inside dir, sorted by name
func listFiles(dir string) ([]models.FileEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder %s: %w", dir, err)
	}
	var files []models.FileEntry
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		files = append(files, models.NewFileEntry(filepath.Join(dir, entry.Name()), info.Size()))
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// verifySite scans every file under sitePath with the generic profile
func verifySite(ctx context.Context, site, sitePath string) (models.SiteVerification, error) {
	scanner := integrity.NewGenericScanner()
	result := models.SiteVerification{Site: site}

	err := filepath.WalkDir(sitePath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		result.FileCount++
		result.SizeBytes += info.Size()
		if verdict := scanner.Scan(path); verdict.Corrupt {
			result.CorruptCount++
			result.Corrupt = append(result.Corrupt, verdict)
		}
		return nil
	})
	if err != nil {
		return models.SiteVerification{}, fmt.Errorf("failed to verify site %s: %w", site, err)
	}
	return result, nil
}
