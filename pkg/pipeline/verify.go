package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternuav/dronescape/pkg/models"
)

// Verify runs the generic integrity sweep over every site directory under
// root, reporting per-site file counts, sizes and corrupt files.
func (o *Orchestrator) Verify(ctx context.Context, root string) (*models.TransferReport, error) {
	report := o.newReport("verify", root, "")
	defer o.finish(ctx, report)

	sites, err := listSiteDirs(root)
	if err != nil {
		o.recordError(ctx, report, root, err)
		return report, err
	}

	for _, site := range sites {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result, err := verifySite(ctx, site, filepath.Join(root, site))
		if err != nil {
			o.recordError(ctx, report, site, err)
			return report, err
		}
		report.Sites = append(report.Sites, result)
		report.FilesChecked += result.FileCount
		report.Corrupt = append(report.Corrupt, result.Corrupt...)
	}

	return report, nil
}

// listSiteDirs lists the immediate subdirectory names of root, sorted
func listSiteDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read data root %s: %w", root, err)
	}
	var sites []string
	for _, entry := range entries {
		if entry.IsDir() {
			sites = append(sites, entry.Name())
		}
	}
	return sites, nil
}
