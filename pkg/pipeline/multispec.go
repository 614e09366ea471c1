package pipeline

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/ternuav/dronescape/pkg/assign"
	"github.com/ternuav/dronescape/pkg/integrity"
	"github.com/ternuav/dronescape/pkg/logging"
	"github.com/ternuav/dronescape/pkg/models"
)

// Multispec transfers MicaSense captures according to a confirmed
// assignment plan: files are gathered from both camera roots, packed into
// capped bins per plot and copied, then every destination file goes
// through the TIFF integrity scan. Per-file copy failures are recorded
// and the run continues.
func (o *Orchestrator) Multispec(
	ctx context.Context,
	redRoot, blueRoot string,
	plan models.AssignmentPlan,
	date time.Time,
) (*models.TransferReport, error) {
	report := o.newReport("multispec", redRoot, o.parent)
	defer o.finish(ctx, report)

	byPlot, err := assign.NewCollector(redRoot, blueRoot).Collect(plan)
	if err != nil {
		o.recordError(ctx, report, redRoot, err)
		return report, err
	}

	plots := make([]string, 0, len(byPlot))
	for plot := range byPlot {
		plots = append(plots, plot)
	}
	sort.Strings(plots)

	var deep integrity.DeepVerifier
	if o.deep {
		deep = integrity.NewTIFFDecoder()
	}
	scanner := integrity.NewTIFFScanner(deep)

	for _, plot := range plots {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		summary, err := o.transferPlot(ctx, report, scanner, plot, byPlot[plot], date)
		if err != nil {
			return report, err
		}
		report.Plots = append(report.Plots, summary)
	}

	return report, nil
}

// transferPlot packs and copies one plot's capture files
func (o *Orchestrator) transferPlot(
	ctx context.Context,
	report *models.TransferReport,
	scanner *integrity.Scanner,
	plot string,
	files []models.FileEntry,
	date time.Time,
) (models.PlotPackSummary, error) {
	summary := models.PlotPackSummary{PlotID: plot}

	if err := o.layout.Scaffold(plot, date); err != nil {
		o.recordError(ctx, report, plot, err)
		report.Errored++
		return summary, nil
	}

	bins := o.packer.Pack(plot, files)
	o.logger.Info(ctx, "packed plot", logging.Fields{
		"plot":  plot,
		"files": len(files),
		"bins":  len(bins),
	})

	for _, bin := range bins {
		binDir := o.layout.MultispecBinDir(plot, date, bin)

		for _, file := range bin.Files {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			target := filepath.Join(binDir, file.Name)

			copied, _, err := o.copier.CopyFileIfMissing(ctx, file.Path, target)
			if err != nil {
				o.recordError(ctx, report, file.Path, err)
				report.Errored++
				continue
			}
			if copied {
				report.Copied++
				summary.Copied++
			} else {
				report.Skipped++
				summary.Skipped++
			}

			report.FilesChecked++
			if verdict := scanner.Scan(target); verdict.Corrupt {
				report.Corrupt = append(report.Corrupt, verdict)
				o.logger.Warn(ctx, "corrupt capture file", logging.Fields{
					"path":   verdict.Path,
					"reason": verdict.Reason,
				})
			}
		}

		summary.Bins = append(summary.Bins, models.BinSummary{
			PlotID:    plot,
			Bin:       bin.Name(),
			FileCount: bin.FileCount(),
			OverLimit: bin.FileCount() > o.packer.Capacity(),
		})
	}

	return summary, nil
}
