package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/ternuav/dronescape/pkg/diff"
	"github.com/ternuav/dronescape/pkg/logging"
	"github.com/ternuav/dronescape/pkg/models"
)

// Backup mirrors every site under primaryRoot into backupRoot. Each site
// goes through three stages: a skip-if-exists tree copy, a path-and-size
// diff against the primary, and a generic integrity sweep of the backup
// copy. Sites present only in the backup are reported as extra.
// Discrepancies are reported per site and fail the run without
// stopping it.
func (o *Orchestrator) Backup(ctx context.Context, primaryRoot, backupRoot string) (*models.TransferReport, error) {
	report := o.newReport("backup", primaryRoot, backupRoot)
	defer o.finish(ctx, report)

	sites, err := listSiteDirs(primaryRoot)
	if err != nil {
		o.recordError(ctx, report, primaryRoot, err)
		return report, err
	}

	differ := diff.New()
	for _, site := range sites {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		src := filepath.Join(primaryRoot, site)
		dst := filepath.Join(backupRoot, site)

		stats, err := o.copier.CopyTree(ctx, src, dst)
		if err != nil {
			o.recordError(ctx, report, src, err)
			report.Errored++
			continue
		}
		report.Copied += stats.Copied
		report.Skipped += stats.Skipped
		for _, fe := range stats.Errors {
			o.recordError(ctx, report, fe.Path, fe.Err)
			report.Errored++
		}
		o.logger.Info(ctx, "site mirrored", logging.Fields{
			"site":    site,
			"copied":  stats.Copied,
			"skipped": stats.Skipped,
			"bytes":   stats.Bytes,
		})

		result, err := differ.Diff(ctx, src, dst)
		if err != nil {
			o.recordError(ctx, report, site, err)
			report.Errored++
			continue
		}
		if renderErr := o.formatter.BackupDiff(site, result); renderErr != nil {
			o.logger.Error(ctx, "failed to render backup diff", renderErr, nil)
		}
		if !result.Identical() {
			o.recordError(ctx, report, site, fmt.Errorf(
				"backup differs: %d missing, %d extra, %d size mismatches",
				len(result.OnlyInPrimary), len(result.OnlyInBackup), len(result.SizeMismatches)))
		}

		verification, err := verifySite(ctx, site, dst)
		if err != nil {
			o.recordError(ctx, report, site, err)
			report.Errored++
			continue
		}
		report.Sites = append(report.Sites, verification)
		report.FilesChecked += verification.FileCount
		report.Corrupt = append(report.Corrupt, verification.Corrupt...)
	}

	o.reportStaleSites(ctx, report, sites, backupRoot)

	return report, nil
}

// reportStaleSites flags site directories that exist only in the backup.
// The mirror loop never visits them, but their files are still
// discrepancies against the primary.
func (o *Orchestrator) reportStaleSites(ctx context.Context, report *models.TransferReport, primarySites []string, backupRoot string) {
	backupSites, err := listSiteDirs(backupRoot)
	if err != nil {
		o.recordError(ctx, report, backupRoot, err)
		return
	}

	mirrored := make(map[string]struct{}, len(primarySites))
	for _, site := range primarySites {
		mirrored[site] = struct{}{}
	}

	for _, site := range backupSites {
		if _, ok := mirrored[site]; ok {
			continue
		}
		extra, err := listRelFiles(ctx, filepath.Join(backupRoot, site))
		if err != nil {
			o.recordError(ctx, report, site, err)
			report.Errored++
			continue
		}
		if len(extra) == 0 {
			continue
		}

		result := diff.Result{OnlyInBackup: extra}
		if renderErr := o.formatter.BackupDiff(site, result); renderErr != nil {
			o.logger.Error(ctx, "failed to render backup diff", renderErr, nil)
		}
		o.recordError(ctx, report, site, fmt.Errorf(
			"backup differs: 0 missing, %d extra, 0 size mismatches", len(extra)))
	}
}

// listRelFiles lists every regular file under root by slash-separated
// relative path, sorted
func listRelFiles(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list backup site %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}
