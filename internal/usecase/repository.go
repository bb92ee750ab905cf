package usecase

import (
	"context"

	"github.com/surfsky/GoodsAI/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// FindByModel возвращает (nil, nil), если товара с таким артикулом нет.
	FindByModel(ctx context.Context, modelName string) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	GetProductsInfo(ctx context.Context, ids []int64) ([]ProductInfo, error)
}

type ImageRecordRepository interface {
	// Add сохраняет изображение товара. displayOrder == nil означает
	// «добавить в конец» (вычисляется как максимум по товару + 1).
	Add(ctx context.Context, record *domain.ImageRecord, displayOrder *int32) (int64, error)
	// UpdateVector перезаписывает вектор признаков существующего
	// изображения (повторное извлечение после смены модели).
	UpdateVector(ctx context.Context, imageID int64, vector []float32) error
	ListAllVectors(ctx context.Context) ([]domain.StoredVector, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.StoredImage) (string, error)
	Delete(ctx context.Context, key string) error
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]ProductInfo, error)
	SetProducts(ctx context.Context, products []ProductInfo) error
	DeleteProducts(ctx context.Context, ids []int64) error
}
