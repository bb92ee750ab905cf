package domain

import "time"

// Product описывает товар каталога
type Product struct {
	ID          int64
	ModelName   string // уникальный артикул (модель) товара
	ProductName string
	Price       int64 // Цена хранится в копейках
	Maintenance string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewProduct(modelName string, productName string, price int64, maintenance string) *Product {
	return &Product{
		ModelName:   modelName,
		ProductName: productName,
		Price:       price,
		Maintenance: maintenance,
	}
}
