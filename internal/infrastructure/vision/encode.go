package vision

import (
	"bytes"
	"image"
	"image/jpeg"
	"math"

	"github.com/surfsky/GoodsAI/pkg/e"
	"golang.org/x/image/draw"
)

const (
	displayMaxWidth = 800
	jpegQuality     = 85
)

// EncodeDisplayImage готовит изображение к хранению: RGB JPEG,
// ширина не более 800px с сохранением пропорций. Уменьшение только вниз —
// маленькие изображения не растягиваются.
func EncodeDisplayImage(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, e.Wrap(err.Error(), e.ErrDecodeImage)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, e.ErrDecodeImage
	}

	if width > displayMaxWidth {
		ratio := float64(displayMaxWidth) / float64(width)
		newHeight := int(math.Round(float64(height) * ratio))

		scaled := image.NewRGBA(image.Rect(0, 0, displayMaxWidth, newHeight))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Src, nil)
		src = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, e.Wrap("jpeg encode", err)
	}

	return buf.Bytes(), nil
}
