package usecase

import (
	"context"

	"github.com/surfsky/GoodsAI/pkg/e"
	"github.com/surfsky/GoodsAI/pkg/logger"
)

// RecognitionUseCase реализует распознавание товара по фотографии:
// извлечение вектора запроса и точный поиск по всем сохранённым векторам.
type RecognitionUseCase struct {
	vectorizer  Vectorizer
	engine      SearchEngine
	imageRepo   ImageRecordRepository
	logger      logger.Logger
	defaultTopK int
}

func NewRecognitionUC(
	vectorizer Vectorizer,
	engine SearchEngine,
	imageRepo ImageRecordRepository,
	logger logger.Logger,
	defaultTopK int,
) *RecognitionUseCase {
	return &RecognitionUseCase{
		vectorizer:  vectorizer,
		engine:      engine,
		imageRepo:   imageRepo,
		logger:      logger,
		defaultTopK: defaultTopK,
	}
}

// Recognize извлекает вектор запроса и возвращает topK наиболее похожих
// товаров. Пустой каталог даёт пустой список совпадений.
func (r *RecognitionUseCase) Recognize(ctx context.Context, req *RecognizeReq) (*RecognizeRes, error) {
	const op = "RecognitionUseCase.Recognize"

	query, err := r.vectorizer.Vectorize(ctx, req.ImageData)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	stored, err := r.imageRepo.ListAllVectors(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	topK := req.TopK
	if topK <= 0 {
		topK = r.defaultTopK
	}

	matches := r.engine.Search(query, stored, topK)
	r.logger.Debugf("%s: %d candidates, %d matches", op, len(stored), len(matches))

	return NewRecognizeRes(matches), nil
}
