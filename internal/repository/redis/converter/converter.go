package converter

import (
	"github.com/surfsky/GoodsAI/internal/usecase"
)

// ProductInfoConverter преобразует DTO товара между usecase и Redis-моделью.
type ProductInfoConverter interface {
	ToRedisModel(entity *usecase.ProductInfo) *ProductInfoRedisModel
	ToUseCase(model *ProductInfoRedisModel) *usecase.ProductInfo
	ToArrRedisModel(entities []usecase.ProductInfo) []ProductInfoRedisModel
	ToArrUseCase(models []ProductInfoRedisModel) []usecase.ProductInfo
}

type productInfoConverter struct{}

func NewProductInfoConverter() ProductInfoConverter {
	return &productInfoConverter{}
}

func (c *productInfoConverter) ToRedisModel(entity *usecase.ProductInfo) *ProductInfoRedisModel {
	return &ProductInfoRedisModel{
		ID:          entity.ID,
		ModelName:   entity.ModelName,
		ProductName: entity.ProductName,
		Price:       entity.Price,
		Maintenance: entity.Maintenance,
	}
}

func (c *productInfoConverter) ToUseCase(model *ProductInfoRedisModel) *usecase.ProductInfo {
	return &usecase.ProductInfo{
		ID:          model.ID,
		ModelName:   model.ModelName,
		ProductName: model.ProductName,
		Price:       model.Price,
		Maintenance: model.Maintenance,
	}
}

func (c *productInfoConverter) ToArrRedisModel(entities []usecase.ProductInfo) []ProductInfoRedisModel {
	result := make([]ProductInfoRedisModel, 0, len(entities))
	for i := range entities {
		result = append(result, *c.ToRedisModel(&entities[i]))
	}

	return result
}

func (c *productInfoConverter) ToArrUseCase(models []ProductInfoRedisModel) []usecase.ProductInfo {
	result := make([]usecase.ProductInfo, 0, len(models))
	for i := range models {
		result = append(result, *c.ToUseCase(&models[i]))
	}

	return result
}
