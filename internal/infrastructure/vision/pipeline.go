package vision

import (
	"context"
	"time"

	"github.com/surfsky/GoodsAI/pkg/e"
)

// Pipeline объединяет препроцессинг и извлечение признаков:
// байты изображения -> тензор -> L2-нормализованный вектор.
type Pipeline struct {
	preprocessor *Preprocessor
	extractor    *Extractor
	runTimeout   time.Duration
}

func NewPipeline(preprocessor *Preprocessor, extractor *Extractor, runTimeout time.Duration) *Pipeline {
	return &Pipeline{
		preprocessor: preprocessor,
		extractor:    extractor,
		runTimeout:   runTimeout,
	}
}

// Vectorize извлекает вектор признаков из байтов изображения.
// Прямой проход модели ограничен таймаутом ONNX_RUN_TIMEOUT.
func (p *Pipeline) Vectorize(ctx context.Context, imageData []byte) ([]float32, error) {
	const op = "Pipeline.Vectorize"

	tensor, err := p.preprocessor.Preprocess(imageData)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if p.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.runTimeout)
		defer cancel()
	}

	return p.extractor.Extract(ctx, tensor)
}

// Processor адаптирует подготовку изображения к хранению.
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

// Process приводит изображение к хранимому виду (RGB JPEG, ширина <= 800).
func (p *Processor) Process(imageData []byte) ([]byte, error) {
	return EncodeDisplayImage(imageData)
}
