package integrity

import (
	"os"

	"golang.org/x/image/tiff"
)

// TIFFDecoder is a DeepVerifier that fully decodes the image data.
// It catches truncated strips and mangled IFDs that pass the header check,
// at the cost of reading the whole file.
type TIFFDecoder struct{}

// NewTIFFDecoder creates the deep TIFF verifier
func NewTIFFDecoder() TIFFDecoder {
	return TIFFDecoder{}
}

// Verify decodes the file as TIFF and reports any decode error
func (TIFFDecoder) Verify(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = tiff.Decode(file)
	return err
}
