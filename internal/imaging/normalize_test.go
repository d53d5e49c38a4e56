package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func TestNormalizeKeepsSmallImageDimensions(t *testing.T) {
	data := encodeJPEG(t, 640, 480)

	out := Normalize(data)

	w, h, err := Dimensions(out)
	require.NoError(t, err)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestNormalizeDownscalesLargeImage(t *testing.T) {
	data := encodeJPEG(t, 2000, 1500)

	out := Normalize(data)

	w, h, err := Dimensions(out)
	require.NoError(t, err)
	assert.Equal(t, 1000, w)
	assert.Equal(t, 750, h)
}

func TestNormalizeDownscalesTallImage(t *testing.T) {
	data := encodeJPEG(t, 500, 2500)

	out := Normalize(data)

	w, h, err := Dimensions(out)
	require.NoError(t, err)
	assert.Equal(t, 200, w)
	assert.Equal(t, 1000, h)
}

func TestNormalizeReencodesPNGAsJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	out := Normalize(buf.Bytes())

	_, err := jpeg.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
}

func TestNormalizeReturnsOriginalOnGarbage(t *testing.T) {
	data := []byte("definitely not an image")

	out := Normalize(data)

	assert.Equal(t, data, out)
}
