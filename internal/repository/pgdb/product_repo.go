package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/surfsky/GoodsAI/internal/domain"
	"github.com/surfsky/GoodsAI/internal/repository/pgdb/converter"
	"github.com/surfsky/GoodsAI/internal/usecase"
	"github.com/surfsky/GoodsAI/pkg/e"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет новый товар и возвращает его с заполненными id и created_at.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (model_name, product_name, price, maintenance)
		VALUES ($1, $2, $3, $4)
		RETURNING id, model_name, product_name, price, maintenance, created_at, updated_at
	`

	var model converter.ProductModel
	err := queryEngine(ctx, p.pool).
		QueryRow(ctx, query, product.ModelName, product.ProductName, product.Price, product.Maintenance).
		Scan(
			&model.ID, &model.ModelName, &model.ProductName, &model.Price,
			&model.Maintenance, &model.CreatedAt, &model.UpdatedAt,
		)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// FindByModel ищет товар по уникальному артикулу.
// Отсутствие товара возвращается как (nil, nil), а не как ошибка.
func (p *ProductRepo) FindByModel(ctx context.Context, modelName string) (*domain.Product, error) {
	query := `
		SELECT id, model_name, product_name, price, maintenance, created_at, updated_at
		FROM products
		WHERE model_name = $1
	`

	var model converter.ProductModel
	err := queryEngine(ctx, p.pool).
		QueryRow(ctx, query, modelName).
		Scan(
			&model.ID, &model.ModelName, &model.ProductName, &model.Price,
			&model.Maintenance, &model.CreatedAt, &model.UpdatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// Update обновляет изменяемые поля товара по id.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET product_name = $2, price = $3, maintenance = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := queryEngine(ctx, p.pool).
		Exec(ctx, query, product.ID, product.ProductName, product.Price, product.Maintenance)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// GetProductsInfo возвращает информацию о товарах по их идентификаторам.
func (p *ProductRepo) GetProductsInfo(ctx context.Context, ids []int64) ([]usecase.ProductInfo, error) {
	query := `
		SELECT id, model_name, product_name, price, maintenance
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := p.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.ProductInfo, 0)
	for rows.Next() {
		var product usecase.ProductInfo
		if err := rows.Scan(&product.ID, &product.ModelName, &product.ProductName, &product.Price, &product.Maintenance); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, product)
	}

	return result, rows.Err()
}
