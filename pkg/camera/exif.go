package camera

import (
	"os"
	"strings"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/ternuav/dronescape/pkg/models"
)

// FromEXIF attributes a file by searching its EXIF tags for a known camera
// serial number. Unreadable files or files without a serial are CameraNone.
func FromEXIF(path string) models.Camera {
	file, err := os.Open(path)
	if err != nil {
		return models.CameraNone
	}
	defer file.Close()

	x, err := goexif.Decode(file)
	if err != nil {
		return models.CameraNone
	}

	w := &serialWalker{found: models.CameraNone}
	x.Walk(w)
	return w.found
}

// serialWalker scans every EXIF tag value for a MicaSense serial
type serialWalker struct {
	found models.Camera
}

func (w *serialWalker) Walk(name goexif.FieldName, tag *tiff.Tag) error {
	if w.found != models.CameraNone {
		return nil
	}
	value := tag.String()
	switch {
	case strings.Contains(value, RedSerial):
		w.found = models.CameraRed
	case strings.Contains(value, BlueSerial):
		w.found = models.CameraBlue
	}
	return nil
}
