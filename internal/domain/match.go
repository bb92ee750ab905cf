package domain

// Match — результат сопоставления запроса с одним товаром.
// Score — максимум косинусной близости по всем изображениям товара.
type Match struct {
	ProductID   int64
	Score       float32
	BestImageID int64
	BestImage   string
	ModelName   string
	ProductName string
	Price       int64
	Maintenance string
}
