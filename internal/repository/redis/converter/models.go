package converter

type ProductInfoRedisModel struct {
	ID          int64  `json:"id"`
	ModelName   string `json:"model_name"`
	ProductName string `json:"product_name"`
	Price       int64  `json:"price"`
	Maintenance string `json:"maintenance"`
}
