package usecase

import (
	"context"

	"github.com/surfsky/GoodsAI/internal/domain"
)

// Vectorizer — пайплайн препроцессинга и извлечения признаков:
// байты изображения -> L2-нормализованный вектор длины D.
type Vectorizer interface {
	Vectorize(ctx context.Context, imageData []byte) ([]float32, error)
}

// ImageProcessor готовит изображение к хранению (RGB JPEG, даунскейл).
type ImageProcessor interface {
	Process(imageData []byte) ([]byte, error)
}

// SearchEngine — точный поиск ближайших товаров по каталогу векторов.
type SearchEngine interface {
	Search(query []float32, stored []domain.StoredVector, topK int) []domain.Match
}

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	UploadImage(ctx context.Context, req *UploadImageReq) (string, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteProductEvent(ctx context.Context, req *ProductEventReq) error
}
