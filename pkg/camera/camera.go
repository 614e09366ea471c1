// Package camera attributes MicaSense TIF captures to the RED or BLUE
// RedEdge-MX sensor. The filename series suffix is authoritative; EXIF
// serial numbers are a fallback for files with non-standard names.
package camera

import (
	"path/filepath"

	"github.com/ternuav/dronescape/pkg/models"
)

// MicaSense camera serial numbers
const (
	RedSerial  = "PR03-2117857-MS"
	BlueSerial = "PB01-2310044-MS"
)

// FromName attributes a file by its series suffix: _1 to _6 is the RED
// camera, _7 to _11 the BLUE camera. Files without a numeric suffix in that
// range are CameraNone.
func FromName(filename string) models.Camera {
	n := models.SeriesIndex(filename)
	switch {
	case n >= 1 && n <= 6:
		return models.CameraRed
	case n >= 7 && n <= 11:
		return models.CameraBlue
	default:
		return models.CameraNone
	}
}

// Detect attributes a file, preferring the filename convention and falling
// back to the EXIF serial number when the name is inconclusive.
func Detect(path string) models.Camera {
	if c := FromName(filepath.Base(path)); c != models.CameraNone {
		return c
	}
	return FromEXIF(path)
}
