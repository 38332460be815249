// Package upload turns files, URLs and request bodies into validated image payloads.
package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// MaxBytes is the default upload size limit (10MB)
const MaxBytes = 10 * 1024 * 1024

var (
	ErrEmpty           = errors.New("empty image")
	ErrTooLarge        = errors.New("image too large")
	ErrUnsupportedType = errors.New("unsupported image type, use JPG, JPEG or PNG")
)

var allowedTypes = []string{"image/jpeg", "image/png"}

// Image is an opaque image payload. Ref identifies the image for display
// and is echoed back in detection results.
type Image struct {
	Data      []byte
	Ref       string
	MediaType string
}

// FromBytes wraps raw bytes, sniffing the media type
func FromBytes(data []byte, ref string) Image {
	return Image{
		Data:      data,
		Ref:       ref,
		MediaType: mimetype.Detect(data).String(),
	}
}

// FromFile reads an image from disk
func FromFile(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return FromBytes(data, "file://"+abs), nil
}

// Validate checks that img is a non-empty JPEG or PNG no larger than maxBytes.
// maxBytes <= 0 means MaxBytes.
func Validate(img Image, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = MaxBytes
	}

	if len(img.Data) == 0 {
		return ErrEmpty
	}
	if int64(len(img.Data)) > maxBytes {
		return ErrTooLarge
	}

	if mt := mimetype.Detect(img.Data); !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	return nil
}

// DataURL renders img as a data: URL
func DataURL(img Image) string {
	mediaType := img.MediaType
	if mediaType == "" {
		mediaType = mimetype.Detect(img.Data).String()
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
