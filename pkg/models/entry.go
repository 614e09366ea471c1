package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Camera identifies which MicaSense sensor produced a capture
type Camera string

const (
	// CameraRed is the RedEdge-MX primary (bands 1-6)
	CameraRed Camera = "RED"
	// CameraBlue is the RedEdge-MX blue secondary (bands 7-11)
	CameraBlue Camera = "BLUE"
	// CameraNone indicates the file is not camera-attributed
	CameraNone Camera = "NONE"
)

// FileEntry represents a single file discovered in a source folder
type FileEntry struct {
	// Name is the bare filename, e.g. "IMG_0001_1.TIF"
	Name string

	// Path is the absolute path on the filesystem
	Path string

	// Ext is the uppercased extension without the dot.
	// A file with no dot has an empty extension.
	Ext string

	// Size in bytes
	Size int64

	// Camera attribution for multi-spectral captures
	Camera Camera
}

// NewFileEntry builds a FileEntry from a path and size.
// The extension is the substring after the last dot, uppercased.
func NewFileEntry(path string, size int64) FileEntry {
	name := filepath.Base(path)
	return FileEntry{
		Name:   name,
		Path:   path,
		Ext:    ExtensionOf(name),
		Size:   size,
		Camera: CameraNone,
	}
}

// ExtensionOf returns the uppercased extension of a filename, without the
// leading dot. Filenames without a dot yield the empty string.
func ExtensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToUpper(name[idx+1:])
}

// BaseName strips the extension and any trailing "_<digits>" series suffix
// from a filename. "IMG_0001_7.TIF" becomes "IMG_0001".
func (e FileEntry) BaseName() string {
	return SeriesBase(e.Name)
}

// SeriesNumber extracts the trailing numeric suffix of a filename, or -1 if
// the name carries no "_<digits>" suffix.
func (e FileEntry) SeriesNumber() int {
	return SeriesIndex(e.Name)
}

// SeriesBase returns the filename minus extension and trailing "_<digits>"
// suffix. Names without a suffix return the extension-stripped name.
func SeriesBase(name string) string {
	stem := stripExt(name)
	idx := strings.LastIndex(stem, "_")
	if idx < 0 {
		return stem
	}
	if !allDigits(stem[idx+1:]) {
		return stem
	}
	return stem[:idx]
}

// SeriesIndex returns the trailing numeric suffix of a filename, or -1 when
// the name carries none.
func SeriesIndex(name string) int {
	stem := stripExt(name)
	idx := strings.LastIndex(stem, "_")
	if idx < 0 {
		return -1
	}
	suffix := stem[idx+1:]
	if !allDigits(suffix) {
		return -1
	}
	n := 0
	for _, r := range suffix {
		n = n*10 + int(r-'0')
	}
	return n
}

func stripExt(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name
	}
	return name[:idx]
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SourceFolder is a directory listing materialized once per pipeline run
type SourceFolder struct {
	// Name is the folder's base name, e.g. "DJI_202501150930_001-NTAFIN0001-L2"
	Name string

	// Path is the absolute path of the folder
	Path string

	// Files is the folder's file listing in lexicographic order
	Files []FileEntry
}

// TotalSize sums the sizes of all files in the folder
func (f SourceFolder) TotalSize() int64 {
	var total int64
	for _, e := range f.Files {
		total += e.Size
	}
	return total
}

// ClassificationResult is the outcome of checking a folder against a
// required extension set
type ClassificationResult struct {
	// Passed is true when every required extension is present
	Passed bool

	// Missing lists the required extensions absent from the folder,
	// sorted alphabetically
	Missing []string
}

// CorruptionVerdict is the per-file result of an integrity scan
type CorruptionVerdict struct {
	// Path is the absolute path of the scanned file
	Path string

	// Corrupt is true when any layered check failed
	Corrupt bool

	// Reason describes the first failing check, empty for clean files
	Reason string
}

// OutputBin is a size-bounded destination subfolder produced by the series
// packer. Bin indexes are zero-padded to three digits and scoped per plot.
type OutputBin struct {
	// PlotID is the destination plot this bin belongs to
	PlotID string

	// Index is the sequential bin number, starting at 0 per plot
	Index int

	// Files are the entries assigned to this bin, in input order
	Files []FileEntry
}

// Name returns the three-digit zero-padded folder name of the bin
func (b OutputBin) Name() string {
	return padIndex(b.Index)
}

// FileCount returns the number of files assigned to the bin
func (b OutputBin) FileCount() int {
	return len(b.Files)
}

func padIndex(n int) string {
	return fmt.Sprintf("%03d", n)
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
