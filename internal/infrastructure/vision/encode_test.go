package vision

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surfsky/GoodsAI/pkg/e"
)

func TestEncodeDisplayImageDownscales(t *testing.T) {
	data, err := EncodeDisplayImage(encodePNG(t, uniformImage(1600, 1200, color.RGBA{R: 200, G: 100, B: 50, A: 255})))
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestEncodeDisplayImageKeepsSmall(t *testing.T) {
	data, err := EncodeDisplayImage(encodePNG(t, uniformImage(400, 300, color.RGBA{R: 1, G: 2, B: 3, A: 255})))
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestEncodeDisplayImageRejectsGarbage(t *testing.T) {
	_, err := EncodeDisplayImage([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	assert.ErrorIs(t, err, e.ErrDecodeImage)
}
