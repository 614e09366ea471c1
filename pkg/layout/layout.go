package layout

import (
	"path/filepath"
	"time"

	"github.com/ternuav/dronescape/pkg/models"
)

// DateFormat is the directory name format for acquisition dates
const DateFormat = "20060102"

// Subdirectory names of the plot scaffold
const (
	imageryDir   = "imagery"
	rgbDir       = "rgb"
	multispecDir = "multispec"
	lidarDir     = "lidar"
	level0Dir    = "level0_raw"
)

// PlotStructure is the canonical per-plot, per-date directory template
var PlotStructure = Tree{Children: map[string]Node{
	imageryDir: Tree{Children: map[string]Node{
		rgbDir:       List{Names: []string{level0Dir}},
		multispecDir: List{Names: []string{level0Dir}},
	}},
	"metadata": Leaf{},
	lidarDir:   List{Names: []string{level0Dir}},
	"drtk":     Leaf{},
	"b-roll":   Leaf{},
}}

// Layout computes destination paths under a parent data directory
type Layout struct {
	parent string
}

// New creates a layout rooted at the parent data directory
func New(parent string) Layout {
	return Layout{parent: parent}
}

// PlotDir returns <parent>/<plot>
func (l Layout) PlotDir(plotID string) string {
	return filepath.Join(l.parent, plotID)
}

// DateDir returns <parent>/<plot>/<YYYYMMDD>
func (l Layout) DateDir(plotID string, date time.Time) string {
	return filepath.Join(l.parent, plotID, date.Format(DateFormat))
}

// LidarDir returns the destination for a LiDAR source folder:
// <parent>/<plot>/<date>/lidar/level0_raw/<folderName>
func (l Layout) LidarDir(plotID string, date time.Time, folderName string) string {
	return filepath.Join(l.DateDir(plotID, date), lidarDir, level0Dir, folderName)
}

// RGBDir returns the destination for a P1 source folder:
// <parent>/<plot>/<date>/imagery/rgb/level0_raw/<folderName>
func (l Layout) RGBDir(plotID string, date time.Time, folderName string) string {
	return filepath.Join(l.DateDir(plotID, date), imageryDir, rgbDir, level0Dir, folderName)
}

// MultispecBinDir returns the destination for a packed multi-spectral bin:
// <parent>/<plot>/<date>/imagery/multispec/level0_raw/<NNN>
func (l Layout) MultispecBinDir(plotID string, date time.Time, bin models.OutputBin) string {
	return filepath.Join(l.DateDir(plotID, date), imageryDir, multispecDir, level0Dir, bin.Name())
}

// Scaffold materializes the full plot template for one plot and date.
// Re-running over an existing tree is a no-op.
func (l Layout) Scaffold(plotID string, date time.Time) error {
	return Materialize(l.DateDir(plotID, date), PlotStructure)
}
