package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ternuav/dronescape/pkg/classify"
	"github.com/ternuav/dronescape/pkg/integrity"
	"github.com/ternuav/dronescape/pkg/models"
	"github.com/ternuav/dronescape/pkg/output"
)

var testDate = time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

// lidarExts is a complete L2 capture payload
var lidarExts = []string{
	"MRK", "RPT", "CLC", "CLI", "DBG", "IMU", "LDR",
	"LDRT", "RPOS", "RTB", "RTK", "RTL", "RTS", "SIG", "JPG",
}

// tiffHeader is a minimal little-endian TIFF magic followed by padding
var tiffHeader = []byte{0x49, 0x49, 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00}

func newTestOrchestrator(parent string) *Orchestrator {
	return New(Options{
		ParentDir: parent,
		Formatter: output.NewHuman(io.Discard),
		Now:       func() time.Time { return testDate },
	})
}

func mkfile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// makeCaptureFolder writes one file per extension into a source folder
func makeCaptureFolder(t *testing.T, root, name string, exts []string) {
	t.Helper()
	for _, ext := range exts {
		mkfile(t, filepath.Join(root, name, "flight."+strings.ToLower(ext)), []byte("data"))
	}
}

// TestLidar tests the folder-level transfer pipeline end to end
func TestLidar(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "dronescape-pipeline-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	source := filepath.Join(tempDir, "sd")
	parent := filepath.Join(tempDir, "data")

	makeCaptureFolder(t, source, "DJI_202608250900_001-NTAFIN0001-L2", lidarExts)
	makeCaptureFolder(t, source, "DJI_202608250930_002-SASMDD0001-L2", lidarExts[:10]) // incomplete

	o := newTestOrchestrator(parent)
	report, err := o.Lidar(context.Background(), source, testDate)
	if err != nil {
		t.Fatalf("Lidar() error = %v", err)
	}

	if report.Copied != 1 || report.Errored != 1 || report.Skipped != 0 {
		t.Errorf("report counts = %d/%d/%d (copied/skipped/errored), want 1/0/1",
			report.Copied, report.Skipped, report.Errored)
	}
	if len(report.Folders) != 2 {
		t.Fatalf("report has %d folder rows, want 2", len(report.Folders))
	}

	complete := report.Folders[0]
	if complete.PlotID != "NTAFIN0001" || complete.Status != models.StatusCopied {
		t.Errorf("complete folder row = %+v", complete)
	}
	incomplete := report.Folders[1]
	if !incomplete.Status.IsFailure() || !strings.HasPrefix(string(incomplete.Status), "Missing:") {
		t.Errorf("incomplete folder status = %q", incomplete.Status)
	}
	if incomplete.PlotID != classify.UnknownPlot {
		t.Errorf("incomplete folder plot = %q, want %q", incomplete.PlotID, classify.UnknownPlot)
	}

	dest := filepath.Join(parent, "NTAFIN0001", "20260825",
		"lidar", "level0_raw", "DJI_202608250900_001-NTAFIN0001-L2", "flight.mrk")
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("copied file missing at %s: %v", dest, err)
	}
	scaffold := filepath.Join(parent, "NTAFIN0001", "20260825", "imagery", "multispec", "level0_raw")
	if _, err := os.Stat(scaffold); err != nil {
		t.Errorf("scaffold directory missing at %s: %v", scaffold, err)
	}

	t.Run("SecondRunSkips", func(t *testing.T) {
		report, err := o.Lidar(context.Background(), source, testDate)
		if err != nil {
			t.Fatalf("Lidar() error = %v", err)
		}
		if report.Copied != 0 || report.Skipped != 1 {
			t.Errorf("second run copied = %d, skipped = %d, want 0/1",
				report.Copied, report.Skipped)
		}
	})
}

// TestRGB tests the P1 folder filter
func TestRGB(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "dronescape-pipeline-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	source := filepath.Join(tempDir, "sd")
	rgbExts := []string{"NAV", "OBS", "BIN", "MRK", "JPG"}
	makeCaptureFolder(t, source, "DJI_202608251000_003-NTAGFU0001-P1", rgbExts)
	makeCaptureFolder(t, source, "DJI_202608251030_004-NTAGFU0001-L2", lidarExts)

	o := newTestOrchestrator(filepath.Join(tempDir, "data"))
	report, err := o.RGB(context.Background(), source, testDate)
	if err != nil {
		t.Fatalf("RGB() error = %v", err)
	}

	if len(report.Folders) != 1 {
		t.Fatalf("report has %d folder rows, want 1 (L2 folder filtered out)", len(report.Folders))
	}
	if report.Folders[0].PlotID != "NTAGFU0001" || report.Copied != 1 {
		t.Errorf("report = %+v", report.Folders[0])
	}

	dest := filepath.Join(tempDir, "data", "NTAGFU0001", "20260825",
		"imagery", "rgb", "level0_raw", "DJI_202608251000_003-NTAGFU0001-P1")
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("rgb destination missing: %v", err)
	}
}

// TestMultispec tests packing, copying and scanning of capture files
func TestMultispec(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "dronescape-pipeline-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	red := filepath.Join(tempDir, "red")
	blue := filepath.Join(tempDir, "blue")
	for band := 1; band <= 6; band++ {
		mkfile(t, filepath.Join(red, "0000SET", "000",
			"IMG_0001_"+strconv.Itoa(band)+".TIF"), tiffHeader)
	}
	for band := 7; band <= 11; band++ {
		mkfile(t, filepath.Join(blue, "0000SET", "000",
			"IMG_0001_"+strconv.Itoa(band)+".TIF"), tiffHeader)
	}
	// One capture file with a broken header to exercise the scanner
	mkfile(t, filepath.Join(red, "0000SET", "000", "IMG_0002_1.TIF"),
		[]byte{0x00, 0x00, 0x00, 0x00})

	plan := models.AssignmentPlan{Assignments: []models.SetAssignment{
		{SetName: "0000SET", PlotID: "NTAFIN0001", Subfolders: []string{"000"}},
	}}

	parent := filepath.Join(tempDir, "data")
	o := newTestOrchestrator(parent)
	report, err := o.Multispec(context.Background(), red, blue, plan, testDate)
	if err != nil {
		t.Fatalf("Multispec() error = %v", err)
	}

	if report.Copied != 12 || report.FilesChecked != 12 {
		t.Errorf("copied = %d, checked = %d, want 12/12", report.Copied, report.FilesChecked)
	}
	if len(report.Corrupt) != 1 || report.Corrupt[0].Reason != integrity.ReasonBadTIFFHeader {
		t.Errorf("corrupt = %+v, want one bad-header verdict", report.Corrupt)
	}
	if len(report.Plots) != 1 || len(report.Plots[0].Bins) != 1 {
		t.Fatalf("plots = %+v", report.Plots)
	}
	if report.Plots[0].Bins[0].Bin != "000" || report.Plots[0].Bins[0].FileCount != 12 {
		t.Errorf("bin summary = %+v", report.Plots[0].Bins[0])
	}

	copied := filepath.Join(parent, "NTAFIN0001", "20260825",
		"imagery", "multispec", "level0_raw", "000", "IMG_0001_7.TIF")
	if _, err := os.Stat(copied); err != nil {
		t.Errorf("packed file missing at %s: %v", copied, err)
	}

	t.Run("SecondRunSkips", func(t *testing.T) {
		report, err := o.Multispec(context.Background(), red, blue, plan, testDate)
		if err != nil {
			t.Fatalf("Multispec() error = %v", err)
		}
		if report.Copied != 0 || report.Skipped != 12 {
			t.Errorf("second run copied = %d, skipped = %d, want 0/12",
				report.Copied, report.Skipped)
		}
	})
}

// TestVerify tests the per-site integrity sweep
func TestVerify(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "dronescape-pipeline-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	root := filepath.Join(tempDir, "data")
	mkfile(t, filepath.Join(root, "NTAFIN0001", "20260825", "metadata", "notes.txt"), []byte("ok"))
	mkfile(t, filepath.Join(root, "SASMDD0001", "20260825", "metadata", "empty.txt"), nil)

	o := newTestOrchestrator(root)
	report, err := o.Verify(context.Background(), root)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if len(report.Sites) != 2 || report.FilesChecked != 2 {
		t.Fatalf("sites = %d, checked = %d", len(report.Sites), report.FilesChecked)
	}
	if !report.Sites[0].Passed() {
		t.Errorf("clean site reported corrupt: %+v", report.Sites[0])
	}
	if report.Sites[1].Passed() || report.Sites[1].Corrupt[0].Reason != integrity.ReasonZeroSize {
		t.Errorf("zero-size file not flagged: %+v", report.Sites[1])
	}
	if !report.HasFailures() {
		t.Error("report with corrupt file should fail")
	}
}

// TestBackup tests mirroring, diffing and verifying sites
func TestBackup(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "dronescape-pipeline-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	primary := filepath.Join(tempDir, "data")
	backup := filepath.Join(tempDir, "backup")
	mkfile(t, filepath.Join(primary, "NTAFIN0001", "20260825", "metadata", "notes.txt"), []byte("notes"))
	mkfile(t, filepath.Join(primary, "NTAFIN0001", "20260825", "lidar", "level0_raw", "f", "a.LDR"), []byte("points"))

	o := newTestOrchestrator(primary)
	report, err := o.Backup(context.Background(), primary, backup)
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if report.Copied != 2 || report.HasFailures() {
		t.Errorf("first backup: copied = %d, failed = %v", report.Copied, report.HasFailures())
	}

	t.Run("SecondRunSkips", func(t *testing.T) {
		report, err := o.Backup(context.Background(), primary, backup)
		if err != nil {
			t.Fatalf("Backup() error = %v", err)
		}
		if report.Copied != 0 || report.Skipped != 2 {
			t.Errorf("second run copied = %d, skipped = %d", report.Copied, report.Skipped)
		}
	})

	t.Run("StaleSiteDetected", func(t *testing.T) {
		// A site directory present only in the backup must surface as extra
		mkfile(t, filepath.Join(backup, "SASMDD0001", "20250101", "metadata", "old.txt"), []byte("stale"))

		report, err := o.Backup(context.Background(), primary, backup)
		if err != nil {
			t.Fatalf("Backup() error = %v", err)
		}
		if !report.HasFailures() {
			t.Fatal("backup-only site not reported as failure")
		}

		found := false
		for _, re := range report.Errors {
			if re.Path == "SASMDD0001" && strings.Contains(re.Message, "1 extra") {
				found = true
			}
		}
		if !found {
			t.Errorf("stale site missing from run errors: %+v", report.Errors)
		}

		if err := os.RemoveAll(filepath.Join(backup, "SASMDD0001")); err != nil {
			t.Fatalf("failed to remove stale site: %v", err)
		}
	})

	t.Run("TamperedBackupDetected", func(t *testing.T) {
		tampered := filepath.Join(backup, "NTAFIN0001", "20260825", "metadata", "notes.txt")
		if err := os.WriteFile(tampered, []byte("truncated!"), 0o644); err != nil {
			t.Fatalf("failed to tamper: %v", err)
		}
		// 10 bytes vs 5 in the primary
		report, err := o.Backup(context.Background(), primary, backup)
		if err != nil {
			t.Fatalf("Backup() error = %v", err)
		}
		if !report.HasFailures() {
			t.Error("size mismatch not reported as failure")
		}
	})
}
