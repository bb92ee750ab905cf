package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/surfsky/GoodsAI/internal/domain"
	"github.com/surfsky/GoodsAI/internal/repository/pgdb/converter"
	"github.com/surfsky/GoodsAI/pkg/e"
)

// ImageRepo реализует репозиторий изображений товаров поверх PostgreSQL.
type ImageRepo struct {
	pool *pgxpool.Pool
	conv converter.ImageConverter
}

func NewImageRepo(pool *pgxpool.Pool, conv converter.ImageConverter) *ImageRepo {
	return &ImageRepo{
		pool: pool,
		conv: conv,
	}
}

// Add сохраняет изображение товара и возвращает его id.
// displayOrder == nil означает «в конец»: следующий номер по товару.
func (i *ImageRepo) Add(ctx context.Context, record *domain.ImageRecord, displayOrder *int32) (int64, error) {
	model, err := i.conv.ToModel(record)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO product_images (product_id, image_path, display_order, feature_vector)
		VALUES (
			$1, $2,
			COALESCE($3, (SELECT COALESCE(MAX(display_order) + 1, 0) FROM product_images WHERE product_id = $1)),
			$4
		)
		RETURNING id
	`

	var id int64
	err = queryEngine(ctx, i.pool).
		QueryRow(ctx, query, model.ProductID, model.ImagePath, displayOrder, model.FeatureVector).
		Scan(&id)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return id, nil
}

// UpdateVector перезаписывает вектор признаков изображения.
func (i *ImageRepo) UpdateVector(ctx context.Context, imageID int64, vector []float32) error {
	query := `
		UPDATE product_images
		SET feature_vector = $2
		WHERE id = $1
	`

	tag, err := queryEngine(ctx, i.pool).Exec(ctx, query, imageID, domain.EncodeVector(vector))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.ErrImageNotFound
	}

	return nil
}

// ListAllVectors выгружает все векторизованные изображения вместе с
// метаданными товаров. Это рабочий набор точного поиска: выборка
// целиком загружается в память на каждый запрос распознавания.
func (i *ImageRepo) ListAllVectors(ctx context.Context) ([]domain.StoredVector, error) {
	query := `
		SELECT pi.product_id, pi.id, pi.image_path, pi.feature_vector,
		       p.model_name, p.product_name, p.price, p.maintenance
		FROM product_images pi
		JOIN products p ON p.id = pi.product_id
		WHERE pi.feature_vector IS NOT NULL
		ORDER BY pi.product_id, pi.display_order
	`

	rows, err := i.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.StoredVector, 0)
	for rows.Next() {
		var (
			stored domain.StoredVector
			blob   []byte
		)
		err := rows.Scan(
			&stored.ProductID, &stored.ImageID, &stored.ImagePath, &blob,
			&stored.ModelName, &stored.ProductName, &stored.Price, &stored.Maintenance,
		)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		stored.Vector, err = domain.DecodeVector(blob)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, stored)
	}

	return result, rows.Err()
}
