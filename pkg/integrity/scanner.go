// Package integrity detects file corruption with layered, short-circuiting
// checks. Two profiles exist: a TIFF profile for multi-spectral imagery
// (magic-number validation plus optional deep decode) and a generic profile
// for the primary/backup verification sweep (readability only). The two are
// deliberately kept separate; unifying them would change pass/fail behavior
// on non-TIFF assets.
package integrity

import (
	"bytes"
	"io"
	"os"

	"github.com/ternuav/dronescape/pkg/models"
)

// Failure reasons reported in corruption verdicts
const (
	ReasonNotFound       = "File not found"
	ReasonZeroSize       = "Zero size"
	ReasonHeaderShort    = "Invalid header (too short)"
	ReasonBadTIFFHeader  = "Invalid TIFF header"
	reasonReadPrefix     = "Read error: "
	maxReasonDetailChars = 30
)

// TIFF magic numbers: little-endian "II*\0" and big-endian "MM\0*"
var (
	tiffLittleEndian = []byte{0x49, 0x49, 0x2A, 0x00}
	tiffBigEndian    = []byte{0x4D, 0x4D, 0x00, 0x2A}
)

// genericProbeSize is how much of a file the generic profile reads
const genericProbeSize = 1024

// DeepVerifier fully decodes an image and verifies its structure.
// The scanner degrades gracefully when none is available.
type DeepVerifier interface {
	// Verify returns an error when the image cannot be decoded
	Verify(path string) error
}

// Scanner produces per-file corruption verdicts. Verdicts are never fatal
// to the caller; a corrupt result is recorded and scanning continues.
type Scanner struct {
	deep DeepVerifier
	tiff bool
}

// NewTIFFScanner creates a scanner with the TIFF profile. deep may be nil,
// in which case the deep-decode layer is skipped.
func NewTIFFScanner(deep DeepVerifier) *Scanner {
	return &Scanner{deep: deep, tiff: true}
}

// NewGenericScanner creates a scanner with the generic profile, used for
// the primary/backup verification sweep over arbitrary file types.
func NewGenericScanner() *Scanner {
	return &Scanner{}
}

// Scan checks one file and returns its verdict. The file is only ever
// opened read-only; corrupt files are never modified or removed.
func (s *Scanner) Scan(path string) models.CorruptionVerdict {
	info, err := os.Stat(path)
	if err != nil {
		return corrupt(path, ReasonNotFound)
	}
	if info.Size() == 0 {
		return corrupt(path, ReasonZeroSize)
	}

	if s.tiff {
		return s.scanTIFF(path)
	}
	return s.scanGeneric(path)
}

// scanTIFF validates the 4-byte TIFF magic, then optionally deep-decodes
func (s *Scanner) scanTIFF(path string) models.CorruptionVerdict {
	file, err := os.Open(path)
	if err != nil {
		return corrupt(path, reasonReadPrefix+truncate(err.Error()))
	}

	header := make([]byte, 4)
	n, err := io.ReadFull(file, header)
	file.Close()
	if err != nil && n < 4 {
		return corrupt(path, ReasonHeaderShort)
	}

	if !bytes.Equal(header, tiffLittleEndian) && !bytes.Equal(header, tiffBigEndian) {
		return corrupt(path, ReasonBadTIFFHeader)
	}

	if s.deep != nil {
		if err := s.deep.Verify(path); err != nil {
			return corrupt(path, truncate(err.Error()))
		}
	}

	return models.CorruptionVerdict{Path: path}
}

// scanGeneric reads the first kilobyte; any I/O error is treated as corrupt
func (s *Scanner) scanGeneric(path string) models.CorruptionVerdict {
	file, err := os.Open(path)
	if err != nil {
		return corrupt(path, reasonReadPrefix+truncate(err.Error()))
	}
	defer file.Close()

	buf := make([]byte, genericProbeSize)
	if _, err := file.Read(buf); err != nil && err != io.EOF {
		return corrupt(path, reasonReadPrefix+truncate(err.Error()))
	}

	return models.CorruptionVerdict{Path: path}
}

func corrupt(path, reason string) models.CorruptionVerdict {
	return models.CorruptionVerdict{Path: path, Corrupt: true, Reason: reason}
}

func truncate(msg string) string {
	if len(msg) > maxReasonDetailChars {
		return msg[:maxReasonDetailChars]
	}
	return msg
}
