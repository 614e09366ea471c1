package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ternuav/dronescape/pkg/diff"
	"github.com/ternuav/dronescape/pkg/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// HumanFormatter renders styled summary tables for the terminal
type HumanFormatter struct {
	writer io.Writer
}

// NewHuman creates a human-readable formatter writing to w
func NewHuman(w io.Writer) *HumanFormatter {
	return &HumanFormatter{writer: w}
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// Error reports a run-level error
func (f *HumanFormatter) Error(err error) error {
	fmt.Fprintln(f.writer, failStyle.Render(fmt.Sprintf("Error: %v", err)))
	return nil
}

// Summary renders a completed pipeline report
func (f *HumanFormatter) Summary(report *models.TransferReport) error {
	fmt.Fprintln(f.writer, titleStyle.Render(fmt.Sprintf("%s run %s", report.Pipeline, report.RunID)))

	if len(report.Folders) > 0 {
		f.folderTable(report.Folders)
	}
	if len(report.Plots) > 0 {
		f.packTables(report.Plots)
	}
	if len(report.Sites) > 0 {
		f.verificationTable(report.Sites)
	}
	if len(report.Corrupt) > 0 {
		f.corruptionList(report.Corrupt)
	}

	fmt.Fprintf(f.writer, "\nCopied: %d  Skipped: %d  Errored: %d\n",
		report.Copied, report.Skipped, report.Errored)
	if report.FilesChecked > 0 {
		fmt.Fprintf(f.writer, "Integrity: %d files checked, %d corrupt\n",
			report.FilesChecked, len(report.Corrupt))
	}
	fmt.Fprintf(f.writer, "Completed in %s\n", formatDuration(report.Duration))

	if len(report.Errors) > 0 {
		fmt.Fprintln(f.writer, failStyle.Render("\nErrors:"))
		for _, e := range report.Errors {
			fmt.Fprintf(f.writer, "  %s: %s\n", e.Path, e.Message)
		}
	}

	if report.HasFailures() {
		fmt.Fprintln(f.writer, failStyle.Render("Status: FAILED"))
	} else {
		fmt.Fprintln(f.writer, okStyle.Render("Status: OK"))
	}
	return nil
}

// BackupDiff renders the discrepancies found for one backed-up site
func (f *HumanFormatter) BackupDiff(site string, result diff.Result) error {
	if result.Identical() {
		fmt.Fprintf(f.writer, "%s %s\n", okStyle.Render("✓"), site)
		return nil
	}

	fmt.Fprintf(f.writer, "%s %s\n", failStyle.Render("✗"), site)
	affected := result.AffectedTopFolders()
	tops := make([]string, 0, len(affected))
	for top := range affected {
		tops = append(tops, top)
	}
	sort.Strings(tops)

	t := newTable("Folder", "Discrepancies")
	for _, top := range tops {
		t.Row(top, strings.Join(affected[top], ", "))
	}
	fmt.Fprintln(f.writer, t.Render())

	fmt.Fprintf(f.writer, "  missing in backup: %d, extra in backup: %d, size mismatches: %d\n",
		len(result.OnlyInPrimary), len(result.OnlyInBackup), len(result.SizeMismatches))
	return nil
}

func (f *HumanFormatter) folderTable(folders []models.FolderSummary) {
	t := newTable("Folder", "Plot", "Files", "Size", "Status")
	for _, row := range folders {
		status := string(row.Status)
		if row.Status.IsFailure() {
			status = failStyle.Render(status)
		}
		t.Row(row.Folder, row.PlotID,
			strconv.Itoa(row.FileCount), formatBytes(row.SizeBytes), status)
	}
	fmt.Fprintln(f.writer, t.Render())
}

func (f *HumanFormatter) packTables(plots []models.PlotPackSummary) {
	for _, plot := range plots {
		fmt.Fprintln(f.writer, titleStyle.Render(plot.PlotID))
		t := newTable("Bin", "Files", "")
		for _, bin := range plot.Bins {
			note := ""
			if bin.OverLimit {
				note = warnStyle.Render("over limit")
			}
			t.Row(bin.Bin, strconv.Itoa(bin.FileCount), note)
		}
		fmt.Fprintln(f.writer, t.Render())
		fmt.Fprintf(f.writer, "  copied %d, skipped %d\n", plot.Copied, plot.Skipped)
	}
}

func (f *HumanFormatter) verificationTable(sites []models.SiteVerification) {
	t := newTable("Site", "Files", "Size", "Corrupt")
	for _, site := range sites {
		corrupt := okStyle.Render("0")
		if site.CorruptCount > 0 {
			corrupt = failStyle.Render(strconv.Itoa(site.CorruptCount))
		}
		t.Row(site.Site, strconv.Itoa(site.FileCount),
			formatBytes(site.SizeBytes), corrupt)
	}
	fmt.Fprintln(f.writer, t.Render())
}

func (f *HumanFormatter) corruptionList(verdicts []models.CorruptionVerdict) {
	fmt.Fprintln(f.writer, failStyle.Render("Corrupt files:"))
	for _, v := range verdicts {
		fmt.Fprintf(f.writer, "  %s: %s\n", v.Path, v.Reason)
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
