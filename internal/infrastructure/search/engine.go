package search

import (
	"sort"

	"github.com/surfsky/GoodsAI/internal/domain"
)

// Engine выполняет точный (brute-force) поиск ближайших товаров.
// Сложность O(N*D) на запрос по N сохранённым векторам без индекса —
// приемлемо на размерах каталога этого сервиса; переход на ANN-индекс
// осознанно вынесен за рамки.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Search сравнивает запрос со всеми сохранёнными векторами и возвращает
// не более topK товаров. Близость — скалярное произведение: оба вектора
// L2-нормализованы, так что это косинусная близость в [-1, 1].
// По товару оставляется максимум среди его изображений (max-pooling).
// Сортировка: score по убыванию, при равенстве — product id по возрастанию.
// Пустой каталог даёт пустой результат, не ошибку.
func (e *Engine) Search(query []float32, stored []domain.StoredVector, topK int) []domain.Match {
	best := make(map[int64]domain.Match)

	for _, sv := range stored {
		if len(sv.Vector) != len(query) {
			continue
		}

		score := Dot(query, sv.Vector)
		current, ok := best[sv.ProductID]
		if !ok || score > current.Score {
			best[sv.ProductID] = domain.Match{
				ProductID:   sv.ProductID,
				Score:       score,
				BestImageID: sv.ImageID,
				BestImage:   sv.ImagePath,
				ModelName:   sv.ModelName,
				ProductName: sv.ProductName,
				Price:       sv.Price,
				Maintenance: sv.Maintenance,
			}
		}
	}

	matches := make([]domain.Match, 0, len(best))
	for _, m := range best {
		matches = append(matches, m)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ProductID < matches[j].ProductID
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}

	return matches
}

// Dot возвращает скалярное произведение двух векторов одинаковой длины.
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}

	return sum
}
