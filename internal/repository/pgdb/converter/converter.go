package converter

import (
	"github.com/surfsky/GoodsAI/internal/domain"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// ImageConverter преобразует изображения товара между domain и моделью PostgreSQL.
type ImageConverter interface {
	ToModel(entity *domain.ImageRecord) (*ProductImageModel, error)
	ToEntity(model *ProductImageModel) (*domain.ImageRecord, error)
}

type productConverter struct{}

func NewProductConverter() ProductConverter {
	return &productConverter{}
}

func (c *productConverter) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:          entity.ID,
		ModelName:   entity.ModelName,
		ProductName: entity.ProductName,
		Price:       entity.Price,
		Maintenance: entity.Maintenance,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (c *productConverter) ToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:          model.ID,
		ModelName:   model.ModelName,
		ProductName: model.ProductName,
		Price:       model.Price,
		Maintenance: model.Maintenance,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

type imageConverter struct{}

func NewImageConverter() ImageConverter {
	return &imageConverter{}
}

func (c *imageConverter) ToModel(entity *domain.ImageRecord) (*ProductImageModel, error) {
	return &ProductImageModel{
		ID:            entity.ID,
		ProductID:     entity.ProductID,
		ImagePath:     entity.Path,
		DisplayOrder:  entity.DisplayOrder,
		FeatureVector: domain.EncodeVector(entity.Vector),
	}, nil
}

func (c *imageConverter) ToEntity(model *ProductImageModel) (*domain.ImageRecord, error) {
	vector, err := domain.DecodeVector(model.FeatureVector)
	if err != nil {
		return nil, err
	}

	return &domain.ImageRecord{
		ID:           model.ID,
		ProductID:    model.ProductID,
		Path:         model.ImagePath,
		DisplayOrder: model.DisplayOrder,
		Vector:       vector,
	}, nil
}
