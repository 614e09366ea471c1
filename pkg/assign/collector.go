package assign

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ternuav/dronescape/pkg/camera"
	"github.com/ternuav/dronescape/pkg/classify"
	"github.com/ternuav/dronescape/pkg/models"
)

// Collector gathers the capture files behind a confirmed assignment plan
type Collector struct {
	redRoot  string
	blueRoot string
}

// NewCollector creates a collector over the two camera storage roots
func NewCollector(redRoot, blueRoot string) *Collector {
	return &Collector{redRoot: redRoot, blueRoot: blueRoot}
}

// Collect gathers every TIF file of every assigned SET folder, grouped by
// destination plot. Files within a plot are sorted by filename and tagged
// with their originating camera. A SET missing from one camera root is
// normal; its files simply come from the other root.
func (c *Collector) Collect(plan models.AssignmentPlan) (map[string][]models.FileEntry, error) {
	byPlot := make(map[string][]models.FileEntry)

	for _, a := range plan.Assignments {
		for _, root := range []string{c.redRoot, c.blueRoot} {
			setPath := filepath.Join(root, a.SetName)
			if _, err := os.Stat(setPath); err != nil {
				continue
			}

			members := a.Subfolders
			if len(members) == 0 {
				discovered, err := digitSubfolders(setPath)
				if err != nil {
					return nil, err
				}
				members = discovered
			}

			for _, member := range members {
				files, err := captureFiles(filepath.Join(setPath, member))
				if err != nil {
					return nil, err
				}
				byPlot[a.PlotID] = append(byPlot[a.PlotID], files...)
			}
		}
	}

	for plot := range byPlot {
		files := byPlot[plot]
		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	}
	return byPlot, nil
}

// captureFiles lists the TIF files of one numbered member folder. Member
// folders absent on this camera are skipped silently.
func captureFiles(memberPath string) ([]models.FileEntry, error) {
	entries, err := os.ReadDir(memberPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read capture folder %s: %w", memberPath, err)
	}

	var files []models.FileEntry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !classify.MultispecExtensions.Contains(models.ExtensionOf(entry.Name())) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		fe := models.NewFileEntry(filepath.Join(memberPath, entry.Name()), info.Size())
		fe.Camera = camera.Detect(fe.Path)
		files = append(files, fe)
	}
	return files, nil
}
