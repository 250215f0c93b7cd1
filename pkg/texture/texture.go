// Package texture generates procedural test images and encodes them for
// embedding in GLB files.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
)

// Format is an image encoding accepted by glTF.
type Format int

const (
	PNG Format = iota
	JPEG
)

// DefaultJPEGQuality is used when a non-positive quality is passed to Encode.
const DefaultJPEGQuality = 90

// ErrInvalidSize is returned for non-positive image or cell dimensions.
var ErrInvalidSize = errors.New("invalid texture size")

// ParseFormat converts "png", "jpeg" or "jpg" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png", "":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	default:
		return PNG, fmt.Errorf("unknown texture format %q", s)
	}
}

// MimeType returns the MIME type written to the glTF image.
func (f Format) MimeType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

func (f Format) String() string {
	if f == JPEG {
		return "jpeg"
	}
	return "png"
}

// Checkerboard returns a width x height image of alternating cell x cell
// squares, starting with a in the top-left corner.
func Checkerboard(width, height, cell int, a, b color.RGBA) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || cell <= 0 {
		return nil, fmt.Errorf("%w: %dx%d, cell %d", ErrInvalidSize, width, height, cell)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}

// UVTest returns a gradient image where red grows with u (left to right) and
// green grows with v (top to bottom), for checking texture coordinates.
func UVTest(width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		g := channel(y, height)
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: channel(x, width), G: g, B: 64, A: 255})
		}
	}
	return img, nil
}

func channel(i, n int) uint8 {
	if n == 1 {
		return 0
	}
	return uint8(i * 255 / (n - 1))
}

// Encode serializes img in the given format. quality only applies to JPEG.
func Encode(img image.Image, f Format, quality int) ([]byte, error) {
	var enc imgio.Encoder
	switch f {
	case PNG:
		enc = imgio.PNGEncoder()
	case JPEG:
		if quality <= 0 {
			quality = DefaultJPEGQuality
		}
		enc = imgio.JPEGEncoder(quality)
	default:
		return nil, fmt.Errorf("unknown texture format %d", int(f))
	}

	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", f, err)
	}
	return buf.Bytes(), nil
}
