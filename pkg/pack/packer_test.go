package pack

import (
	"fmt"
	"testing"

	"github.com/ternuav/dronescape/pkg/models"
)

// series builds the band files of one capture trigger
func series(capture, bands int) []models.FileEntry {
	files := make([]models.FileEntry, 0, bands)
	for b := 1; b <= bands; b++ {
		name := fmt.Sprintf("IMG_%04d_%d.TIF", capture, b)
		files = append(files, models.FileEntry{Name: name, Ext: "TIF"})
	}
	return files
}

// captures builds n consecutive triggers with the given band count each
func captures(n, bands int) []models.FileEntry {
	var files []models.FileEntry
	for c := 1; c <= n; c++ {
		files = append(files, series(c, bands)...)
	}
	return files
}

// TestPack tests the bin distribution rules
func TestPack(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		if bins := New(10).Pack("NTAFIN0001", nil); bins != nil {
			t.Errorf("Pack() = %d bins, want none", len(bins))
		}
	})

	t.Run("SingleBinUnderCapacity", func(t *testing.T) {
		bins := New(100).Pack("NTAFIN0001", captures(5, 10))
		if len(bins) != 1 {
			t.Fatalf("Pack() = %d bins, want 1", len(bins))
		}
		if bins[0].FileCount() != 50 {
			t.Errorf("bin 0 has %d files, want 50", bins[0].FileCount())
		}
		if bins[0].Name() != "000" {
			t.Errorf("bin 0 name = %q, want %q", bins[0].Name(), "000")
		}
		if bins[0].PlotID != "NTAFIN0001" {
			t.Errorf("bin 0 plot = %q", bins[0].PlotID)
		}
	})

	t.Run("RolloverAtCapacity", func(t *testing.T) {
		// Capacity 25 and 10-band captures: two captures per bin
		bins := New(25).Pack("SASMDD0001", captures(5, 10))
		if len(bins) != 3 {
			t.Fatalf("Pack() = %d bins, want 3", len(bins))
		}
		wantCounts := []int{20, 20, 10}
		for i, want := range wantCounts {
			if bins[i].FileCount() != want {
				t.Errorf("bin %d has %d files, want %d", i, bins[i].FileCount(), want)
			}
			if bins[i].Index != i {
				t.Errorf("bin %d index = %d", i, bins[i].Index)
			}
		}
	})

	t.Run("OversizedSeriesKeptWhole", func(t *testing.T) {
		// An 11-band capture exceeds a capacity of 10, but goes into the
		// open empty bin anyway rather than being split
		files := append(captures(1, 11), series(2, 6)...)
		bins := New(10).Pack("NTAGFU0002", files)

		if len(bins) != 2 {
			t.Fatalf("Pack() = %d bins, want 2", len(bins))
		}
		if bins[0].FileCount() != 11 {
			t.Errorf("bin 000 has %d files, want 11", bins[0].FileCount())
		}
		if got := bins[1].Files[0].Name; got != "IMG_0002_1.TIF" {
			t.Errorf("bin 001 starts at %q, want IMG_0002_1.TIF", got)
		}
	})

	t.Run("BoundaryRollover", func(t *testing.T) {
		// 17 files in the bin, capacity 22: the next 6-band capture fits,
		// but an 11-band one would not
		fits := append(captures(1, 11), series(2, 6)...)
		fits = append(fits, series(3, 6)...)
		bins := New(22).Pack("TCFTNS0001", fits)
		if len(bins) != 2 {
			t.Fatalf("Pack() = %d bins, want 2", len(bins))
		}
		if bins[0].FileCount() != 17 || bins[1].FileCount() != 6 {
			t.Errorf("bin counts = %d/%d, want 17/6",
				bins[0].FileCount(), bins[1].FileCount())
		}
	})

	t.Run("FilesConserved", func(t *testing.T) {
		input := captures(37, 10)
		bins := New(DefaultCapacity).Pack("SAAFLB0001", input)

		total := 0
		for _, b := range bins {
			total += b.FileCount()
		}
		if total != len(input) {
			t.Errorf("bins hold %d files, input had %d", total, len(input))
		}
	})

	t.Run("SeriesNeverSplit", func(t *testing.T) {
		bins := New(13).Pack("NSABHC0001", captures(40, 5))

		binOf := make(map[string]int)
		for i, b := range bins {
			for _, f := range b.Files {
				base := f.BaseName()
				if prev, seen := binOf[base]; seen && prev != i {
					t.Fatalf("series %q split across bins %d and %d", base, prev, i)
				}
				binOf[base] = i
			}
		}
	})

	t.Run("UnsortedInputReordered", func(t *testing.T) {
		files := append(series(2, 3), series(1, 3)...)
		bins := New(100).Pack("SAAMDD0001", files)
		if got := bins[0].Files[0].Name; got != "IMG_0001_1.TIF" {
			t.Errorf("first packed file = %q, want IMG_0001_1.TIF", got)
		}
	})

	t.Run("SuffixlessFilesStandAlone", func(t *testing.T) {
		// Files without a band suffix do not form a series, so they can
		// roll over individually
		files := []models.FileEntry{
			{Name: "calibration.TIF", Ext: "TIF"},
			{Name: "diag.TIF", Ext: "TIF"},
			{Name: "panel.TIF", Ext: "TIF"},
		}
		bins := New(2).Pack("NTAFIN0001", files)
		if len(bins) != 2 {
			t.Fatalf("Pack() = %d bins, want 2", len(bins))
		}
		if bins[0].FileCount() != 2 || bins[1].FileCount() != 1 {
			t.Errorf("bin counts = %d/%d, want 2/1",
				bins[0].FileCount(), bins[1].FileCount())
		}
	})

	t.Run("ZeroCapacityDefaults", func(t *testing.T) {
		if got := New(0).Capacity(); got != DefaultCapacity {
			t.Errorf("Capacity() = %d, want %d", got, DefaultCapacity)
		}
	})
}
