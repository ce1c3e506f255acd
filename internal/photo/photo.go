// Package photo normalizes recipe photos to JPEG.
package photo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"
)

// ErrUnsupported is returned when the input is not a decodable image.
var ErrUnsupported = errors.New("unsupported image")

// Encode decodes a PNG, JPEG or GIF from r and re-encodes it as JPEG.
// quality is in [0, 1]; it maps to JPEG quality quality*100, at least 1.
func Encode(r io.Reader, quality float64) ([]byte, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(quality)}); err != nil {
		return nil, fmt.Errorf("encoding %s as jpeg: %w", format, err)
	}
	return buf.Bytes(), nil
}

func jpegQuality(q float64) int {
	n := int(math.Round(q * 100))
	switch {
	case n < 1:
		return 1
	case n > 100:
		return 100
	}
	return n
}
