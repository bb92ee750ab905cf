package domain

// ImageRecord описывает изображение товара.
// Vector равен nil, пока признаки изображения не были извлечены.
type ImageRecord struct {
	ID           int64
	ProductID    int64
	Path         string // ключ объекта в S3
	DisplayOrder int32
	Vector       []float32
}

func NewImageRecord(productID int64, path string, vector []float32) *ImageRecord {
	return &ImageRecord{
		ProductID: productID,
		Path:      path,
		Vector:    vector,
	}
}

// StoredImage описывает изображение, которое загружается в S3
type StoredImage struct {
	ID        string // uuid
	Bucket    string
	ObjectKey string
	Bytes     []byte
	// Передайте значение -1 в Size, если размер потока неизвестен
	// (внимание: при передаче значения -1 будет выделен большой объем памяти).
	Size        *int64
	ContentType *string // Example: "image/jpeg"
}

func NewStoredImage(id string, bucket string, objectKey string, data []byte, size *int64, contentType *string) *StoredImage {
	return &StoredImage{
		ID:          id,
		Bucket:      bucket,
		ObjectKey:   objectKey,
		Bytes:       data,
		Size:        size,
		ContentType: contentType,
	}
}
