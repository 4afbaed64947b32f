// Package imageproc prepares uploaded images for the transform provider.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/jpegli"
)

const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"

	// DefaultMaxPixels is 16383 x 16383
	DefaultMaxPixels int64 = 268402689
)

// ErrTooManyPixels is returned for images whose declared dimensions exceed
// the pixel limit
var ErrTooManyPixels = errors.New("image exceeds the pixel limit")

// DetectContentType sniffs the image format from its leading bytes
func DetectContentType(data []byte) string {
	return http.DetectContentType(data)
}

// Supported reports whether the sniffed type is one the pipeline accepts
func Supported(contentType string) bool {
	return contentType == ContentTypeJPEG || contentType == ContentTypePNG
}

// CheckDimensions reads only the image header and rejects images with more
// than maxPixels pixels. A non-positive maxPixels selects DefaultMaxPixels.
func CheckDimensions(data []byte, maxPixels int64) error {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to read image header: %w", err)
	}

	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	return nil
}

// Normalize decodes data, cover-fits it into a size x size square anchored at
// the center using Lanczos resampling and re-encodes it as a quality 100 JPEG
// without chroma subsampling. Images above maxPixels are rejected before
// decoding.
func Normalize(data []byte, size int, maxPixels int64) ([]byte, error) {
	if err := CheckDimensions(data, maxPixels); err != nil {
		return nil, err
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	dst := imaging.Fill(src, size, size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer

	options := &jpegli.EncodingOptions{
		Quality:           100,
		ChromaSubsampling: image.YCbCrSubsampleRatio444,
	}

	if err := jpegli.Encode(&buf, dst, options); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}
