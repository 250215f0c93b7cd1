package texture

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func TestCheckerboard(t *testing.T) {
	img, err := Checkerboard(8, 4, 2, white, black)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())

	assert.Equal(t, white, img.RGBAAt(0, 0))
	assert.Equal(t, white, img.RGBAAt(1, 1))
	assert.Equal(t, black, img.RGBAAt(2, 0))
	assert.Equal(t, black, img.RGBAAt(0, 2))
	assert.Equal(t, white, img.RGBAAt(2, 2))
	assert.Equal(t, white, img.RGBAAt(7, 3))
	assert.Equal(t, black, img.RGBAAt(6, 0))
}

func TestCheckerboardInvalidSize(t *testing.T) {
	for _, dims := range [][3]int{{0, 4, 1}, {4, -1, 1}, {4, 4, 0}} {
		_, err := Checkerboard(dims[0], dims[1], dims[2], white, black)
		assert.ErrorIs(t, err, ErrInvalidSize, "%v", dims)
	}
}

func TestUVTest(t *testing.T) {
	img, err := UVTest(16, 8)
	require.NoError(t, err)

	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(255), img.RGBAAt(15, 0).R)
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).G)
	assert.Equal(t, uint8(255), img.RGBAAt(0, 7).G)

	single, err := UVTest(1, 1)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 64, 255}, single.RGBAAt(0, 0))

	_, err = UVTest(0, 1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestEncode(t *testing.T) {
	img, err := Checkerboard(4, 4, 2, white, black)
	require.NoError(t, err)

	png, err := Encode(img, PNG, 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))

	jpg, err := Encode(img, JPEG, 75)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(jpg, []byte{0xFF, 0xD8, 0xFF}))

	_, err = Encode(img, Format(9), 0)
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		mime string
	}{
		{"png", PNG, "image/png"},
		{"", PNG, "image/png"},
		{"JPEG", JPEG, "image/jpeg"},
		{"jpg", JPEG, "image/jpeg"},
	}
	for _, tt := range tests {
		f, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, f)
		assert.Equal(t, tt.mime, f.MimeType())
	}

	_, err := ParseFormat("gif")
	assert.Error(t, err)
}
