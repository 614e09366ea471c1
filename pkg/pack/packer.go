// Package pack groups multi-spectral capture files into numbered output
// bins. Bins are capped, but a capture series is never split across two
// bins: all bands of one trigger land in the same folder, even when that
// forces a bin over its cap.
package pack

import (
	"sort"

	"github.com/ternuav/dronescape/pkg/models"
)

// DefaultCapacity is the default maximum file count per output bin
const DefaultCapacity = 2200

// lookAheadLimit bounds the series scan. A RedEdge-MX dual rig writes at
// most 11 files per trigger, so a contiguous run longer than that is two
// captures that happen to share a base name.
const lookAheadLimit = 11

// Packer plans the distribution of files into capped, numbered bins.
// Planning is pure: no filesystem access, copying is the caller's job.
type Packer struct {
	capacity int
}

// New creates a packer with the given bin capacity. Non-positive
// capacities fall back to DefaultCapacity.
func New(capacity int) *Packer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Packer{capacity: capacity}
}

// Capacity returns the configured maximum file count per bin
func (p *Packer) Capacity() int {
	return p.capacity
}

// Pack distributes files into bins numbered from zero. Files are processed
// in filename order; when appending the next capture series would push a
// non-empty bin over capacity, the bin is closed and a new one started.
// A series larger than the capacity still occupies a single bin.
func (p *Packer) Pack(plotID string, files []models.FileEntry) []models.OutputBin {
	if len(files) == 0 {
		return nil
	}

	ordered := make([]models.FileEntry, len(files))
	copy(ordered, files)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	var bins []models.OutputBin
	current := models.OutputBin{PlotID: plotID, Index: 0}

	i := 0
	for i < len(ordered) {
		run := seriesRun(ordered, i)
		if len(current.Files) > 0 && len(current.Files)+run > p.capacity {
			bins = append(bins, current)
			current = models.OutputBin{PlotID: plotID, Index: current.Index + 1}
		}
		current.Files = append(current.Files, ordered[i:i+run]...)
		i += run
	}

	return append(bins, current)
}

// seriesRun returns how many contiguous files starting at start share a
// capture base name, bounded by lookAheadLimit. A file without a numeric
// suffix is a series of one.
func seriesRun(files []models.FileEntry, start int) int {
	if models.SeriesIndex(files[start].Name) < 0 {
		return 1
	}
	base := models.SeriesBase(files[start].Name)
	n := 1
	for n < lookAheadLimit && start+n < len(files) &&
		models.SeriesBase(files[start+n].Name) == base {
		n++
	}
	return n
}
