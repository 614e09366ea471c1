package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/ternuav/dronescape/pkg/classify"
	"github.com/ternuav/dronescape/pkg/copier"
	"github.com/ternuav/dronescape/pkg/logging"
	"github.com/ternuav/dronescape/pkg/models"
)

// rgbFolderMarker identifies P1 capture folders among the SD card contents
const rgbFolderMarker = "-P1"

// destFunc maps a classified source folder to its destination path
type destFunc func(plotID string, date time.Time, folderName string) string

// Lidar transfers complete L2 capture folders from the SD card into the
// per-plot lidar tree for the given acquisition date.
func (o *Orchestrator) Lidar(ctx context.Context, sourceDir string, date time.Time) (*models.TransferReport, error) {
	return o.folderTransfer(ctx, "lidar", sourceDir, date,
		classify.LidarRequired, nil, o.layout.LidarDir)
}

// RGB transfers complete P1 capture folders into the per-plot imagery
// tree. Only folders carrying the P1 marker are considered.
func (o *Orchestrator) RGB(ctx context.Context, sourceDir string, date time.Time) (*models.TransferReport, error) {
	filter := func(name string) bool { return strings.Contains(name, rgbFolderMarker) }
	return o.folderTransfer(ctx, "rgb", sourceDir, date,
		classify.RGBRequired, filter, o.layout.RGBDir)
}

// folderTransfer is the shared folder-level pipeline: classify each source
// folder, resolve its plot, scaffold the destination and copy the folder
// unless it already exists. Failures mark the folder and the run carries on.
func (o *Orchestrator) folderTransfer(
	ctx context.Context,
	pipeline, sourceDir string,
	date time.Time,
	required classify.RequiredFileSet,
	filter func(name string) bool,
	dest destFunc,
) (*models.TransferReport, error) {
	report := o.newReport(pipeline, sourceDir, o.parent)
	defer o.finish(ctx, report)

	folders, err := listSourceFolders(sourceDir)
	if err != nil {
		o.recordError(ctx, report, sourceDir, err)
		return report, err
	}

	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if filter != nil && !filter(folder.Name) {
			continue
		}

		summary := models.FolderSummary{
			Folder:    folder.Name,
			FileCount: len(folder.Files),
			SizeBytes: folder.TotalSize(),
		}

		if result := classify.Classify(folder, required); !result.Passed {
			summary.PlotID = classify.UnknownPlot
			summary.Status = models.MissingStatus(result.Missing)
			report.Errored++
			report.Folders = append(report.Folders, summary)
			o.logger.Warn(ctx, "folder failed classification", logging.Fields{
				"folder":  folder.Name,
				"missing": result.Missing,
			})
			continue
		}

		summary.PlotID = o.parser.Parse(folder.Name)
		summary.Status = o.copyFolder(ctx, report, folder, summary.PlotID, date, dest)
		switch summary.Status {
		case models.StatusCopied:
			report.Copied++
		case models.StatusAlreadyExists:
			report.Skipped++
		default:
			report.Errored++
		}
		report.Folders = append(report.Folders, summary)
	}

	return report, nil
}

// copyFolder scaffolds the plot tree and copies one source folder
func (o *Orchestrator) copyFolder(
	ctx context.Context,
	report *models.TransferReport,
	folder models.SourceFolder,
	plotID string,
	date time.Time,
	dest destFunc,
) models.CopyStatus {
	if err := o.layout.Scaffold(plotID, date); err != nil {
		o.recordError(ctx, report, folder.Path, err)
		return models.ErrorStatus(err)
	}

	target := dest(plotID, date, folder.Name)
	if copier.Exists(target) {
		o.logger.Info(ctx, "destination exists, skipping", logging.Fields{
			"folder": folder.Name,
			"dest":   target,
		})
		return models.StatusAlreadyExists
	}

	stats, err := o.copier.CopyTree(ctx, folder.Path, target)
	if err != nil {
		o.recordError(ctx, report, folder.Path, err)
		return models.ErrorStatus(err)
	}
	if len(stats.Errors) > 0 {
		for _, fe := range stats.Errors {
			o.recordError(ctx, report, fe.Path, fe.Err)
		}
		return models.ErrorStatus(stats.Errors[0].Err)
	}

	o.logger.Info(ctx, "folder copied", logging.Fields{
		"folder": folder.Name,
		"plot":   plotID,
		"files":  stats.Copied,
		"bytes":  stats.Bytes,
	})
	return models.StatusCopied
}
