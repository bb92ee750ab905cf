package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          int64      `db:"id"`
	ModelName   string     `db:"model_name"`
	ProductName string     `db:"product_name"`
	Price       int64      `db:"price"`
	Maintenance string     `db:"maintenance"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// ProductImageModel представляет запись таблицы product_images в PostgreSQL.
// FeatureVector равен NULL, пока вектор изображения не извлечён.
type ProductImageModel struct {
	ID            int64  `db:"id"`
	ProductID     int64  `db:"product_id"`
	ImagePath     string `db:"image_path"`
	DisplayOrder  int32  `db:"display_order"`
	FeatureVector []byte `db:"feature_vector"`
}
