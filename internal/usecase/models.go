package usecase

import "github.com/surfsky/GoodsAI/internal/domain"

// RECOGNITION USECASE

// RecognizeReq — запрос распознавания товара по фотографии.
type RecognizeReq struct {
	ImageData []byte
	TopK      int
}

// RecognizeRes — упорядоченный список наиболее похожих товаров.
type RecognizeRes struct {
	Matches []domain.Match
}

// CATALOG USECASE

// AddNewProductReq — запрос на регистрацию нового товара с фотографиями.
type AddNewProductReq struct {
	ModelName   string
	ProductName string
	Price       int64
	Maintenance string
	Images      []ProductImage
}

// AddNewProductRes — итог регистрации: id товара и число сохранённых изображений.
type AddNewProductRes struct {
	ProductID   int64
	ImagesCount int
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// GetProductsReq запрос информации о продуктах по их идентификаторам.
type GetProductsReq struct {
	IDs []int64
}

// GetProductsRes — ответ с данными запрошенных продуктов.
type GetProductsRes struct {
	Products         []ProductInfo
	NotFoundProducts []int64
}

// ProductInfo — DTO с информацией о товаре для внешнего использования.
type ProductInfo struct {
	ID          int64
	ModelName   string
	ProductName string
	Price       int64
	Maintenance string
}

// BATCH USECASE

// IngestArchiveReq — запрос пакетной загрузки zip-архива изображений.
type IngestArchiveReq struct {
	Archive []byte
}

// IngestArchiveRes — счётчики пакетной загрузки.
type IngestArchiveRes struct {
	CreatedProducts int
	IngestedImages  int
}

// INFRASTRUCTURE

// UploadImageReq — запрос на загрузку одного обработанного изображения.
type UploadImageReq struct {
	ObjectKey string
	Data      []byte
	MimeType  string
}

// UploadImagesReq — запрос на загрузку изображений товара.
type UploadImagesReq struct {
	ModelName string
	Images    []ProductImage
}

// UploadImagesRes — результат загрузки изображений (ключи в MinIO).
type UploadImagesRes struct {
	ImagesKeys []string
}

// ProductEventReq — событие изменения каталога для шины сообщений.
type ProductEventReq struct {
	EventType string
	ProductID int64
	ModelName string
	ImageKeys []string
}

// MAPPERS

func NewRecognizeReq(imageData []byte, topK int) *RecognizeReq {
	return &RecognizeReq{
		ImageData: imageData,
		TopK:      topK,
	}
}

func NewRecognizeRes(matches []domain.Match) *RecognizeRes {
	return &RecognizeRes{Matches: matches}
}

func NewAddNewProductReq(modelName, productName string, price int64, maintenance string, images []ProductImage) *AddNewProductReq {
	return &AddNewProductReq{
		ModelName:   modelName,
		ProductName: productName,
		Price:       price,
		Maintenance: maintenance,
		Images:      images,
	}
}

func NewAddNewProductRes(productID int64, imagesCount int) *AddNewProductRes {
	return &AddNewProductRes{
		ProductID:   productID,
		ImagesCount: imagesCount,
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewProductInfo(id int64, modelName, productName string, price int64, maintenance string) ProductInfo {
	return ProductInfo{
		ID:          id,
		ModelName:   modelName,
		ProductName: productName,
		Price:       price,
		Maintenance: maintenance,
	}
}

func NewGetProductsReq(ids []int64) *GetProductsReq {
	return &GetProductsReq{ids}
}

func NewGetProductsRes(pr []ProductInfo, notFoundProducts []int64) *GetProductsRes {
	return &GetProductsRes{
		Products:         pr,
		NotFoundProducts: notFoundProducts,
	}
}

func NewIngestArchiveReq(archive []byte) *IngestArchiveReq {
	return &IngestArchiveReq{Archive: archive}
}

func NewIngestArchiveRes(created, images int) *IngestArchiveRes {
	return &IngestArchiveRes{
		CreatedProducts: created,
		IngestedImages:  images,
	}
}

func NewUploadImageReq(objectKey string, data []byte, mimeType string) *UploadImageReq {
	return &UploadImageReq{
		ObjectKey: objectKey,
		Data:      data,
		MimeType:  mimeType,
	}
}

func NewUploadImagesReq(modelName string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		ModelName: modelName,
		Images:    images,
	}
}

func NewUploadImagesRes(imagesKeys []string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
	}
}

func NewProductEventReq(eventType string, productID int64, modelName string, imageKeys []string) *ProductEventReq {
	return &ProductEventReq{
		EventType: eventType,
		ProductID: productID,
		ModelName: modelName,
		ImageKeys: imageKeys,
	}
}
