// Package classify decides whether a source folder contains a complete
// capture by checking its file extensions against a required set, and
// extracts the destination plot ID from the folder name.
package classify

import (
	"sort"

	"github.com/ternuav/dronescape/pkg/models"
)

// RequiredFileSet is an immutable set of uppercased extensions a folder
// must contain to pass classification
type RequiredFileSet []string

// Required extension sets for the supported sensors
var (
	// LidarRequired covers the DJI L2 payload
	LidarRequired = RequiredFileSet{
		"MRK", "RPT", "CLC", "CLI", "DBG", "IMU", "LDR",
		"LDRT", "RPOS", "RTB", "RTK", "RTL", "RTS", "SIG", "JPG",
	}

	// RGBRequired covers the DJI P1 payload
	RGBRequired = RequiredFileSet{"NAV", "OBS", "BIN", "MRK", "JPG"}
)

// MultispecExtensions are the capture image extensions gathered from
// MicaSense SET folders. Either spelling of the TIFF extension counts;
// multi-spectral capture folders are filtered per file, not classified
// as a whole.
var MultispecExtensions = RequiredFileSet{"TIF", "TIFF"}

// Contains reports whether ext is in the set
func (s RequiredFileSet) Contains(ext string) bool {
	for _, e := range s {
		if e == ext {
			return true
		}
	}
	return false
}

// Classify checks a folder's file listing against a required extension set.
// It passes iff every required extension appears among the folder's distinct
// uppercased extensions; extra extensions are permitted. Missing extensions
// are returned sorted.
func Classify(folder models.SourceFolder, required RequiredFileSet) models.ClassificationResult {
	present := make(map[string]struct{}, len(folder.Files))
	for _, f := range folder.Files {
		if f.Ext != "" {
			present[f.Ext] = struct{}{}
		}
	}

	var missing []string
	for _, ext := range required {
		if _, ok := present[ext]; !ok {
			missing = append(missing, ext)
		}
	}
	sort.Strings(missing)

	return models.ClassificationResult{
		Passed:  len(missing) == 0,
		Missing: missing,
	}
}
