package vision

import (
	"bytes"
	"image"
	"math"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/surfsky/GoodsAI/pkg/e"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	// Пайплайн повторяет torchvision-трансформации MobileNetV3:
	// resize короткой стороны к 256, центральный кроп 224, ImageNet-нормализация.
	shortEdge = 256
	CropSize  = 224

	// TensorLen — количество элементов входного тензора (3*224*224).
	TensorLen = 3 * CropSize * CropSize
)

var (
	channelMean = [3]float32{0.485, 0.456, 0.406}
	channelStd  = [3]float32{0.229, 0.224, 0.225}
)

// Tensor — входной тензор модели формы (1, 3, 224, 224), planar RGB (NCHW).
type Tensor struct {
	Data []float32
}

// Shape возвращает форму тензора для inference-сессии.
func (t *Tensor) Shape() []int64 {
	return []int64{1, 3, CropSize, CropSize}
}

// Preprocessor декодирует байты изображения в нормализованный тензор.
type Preprocessor struct{}

func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

// Preprocess декодирует изображение и приводит его к входу модели:
// масштабирование короткой стороны к 256 (включая upscale маленьких картинок),
// центральный кроп 224x224 без альфа-канала, нормализация по каналам R, G, B.
// Возвращает e.ErrDecodeImage, если байты не являются изображением.
func (p *Preprocessor) Preprocess(data []byte) (*Tensor, error) {
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

	var newWidth, newHeight int
	if width < height {
		newWidth = shortEdge
		newHeight = int(math.Round(float64(height) * float64(shortEdge) / float64(width)))
	} else {
		newHeight = shortEdge
		newWidth = int(math.Round(float64(width) * float64(shortEdge) / float64(height)))
	}

	scaled := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Src, nil)

	left := (newWidth - CropSize) / 2
	top := (newHeight - CropSize) / 2

	tensor := make([]float32, TensorLen)
	const plane = CropSize * CropSize
	for y := 0; y < CropSize; y++ {
		for x := 0; x < CropSize; x++ {
			c := scaled.RGBAAt(left+x, top+y)
			i := y*CropSize + x

			tensor[i] = (float32(c.R)/255.0 - channelMean[0]) / channelStd[0]
			tensor[plane+i] = (float32(c.G)/255.0 - channelMean[1]) / channelStd[1]
			tensor[2*plane+i] = (float32(c.B)/255.0 - channelMean[2]) / channelStd[2]
		}
	}

	return &Tensor{Data: tensor}, nil
}
