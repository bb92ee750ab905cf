package vision

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/surfsky/GoodsAI/pkg/e"
	"github.com/surfsky/GoodsAI/pkg/logger"
)

// Extractor извлекает L2-нормализованный вектор признаков изображения.
// Сессия создаётся лениво при первом вызове: конкурентные первые вызовы
// ждут одну и ту же инициализацию, повторная загрузка модели невозможна.
// Ошибка загрузки модели — фатальная и «залипает»: каждый последующий
// вызов возвращает её, не пытаясь загрузить модель заново.
type Extractor struct {
	factory SessionFactory
	logger  logger.Logger

	once    sync.Once
	mu      sync.Mutex
	session InferenceSession
	initErr error
}

func NewExtractor(factory SessionFactory, logger logger.Logger) *Extractor {
	return &Extractor{
		factory: factory,
		logger:  logger,
	}
}

// Extract выполняет прямой проход модели и возвращает единичный вектор.
// Нулевой выход модели возвращается без нормализации (не ошибка).
// Сбой одного прохода возвращает e.ErrInference; e.ErrModelLoad — отказ
// всей подсистемы.
func (ex *Extractor) Extract(ctx context.Context, tensor *Tensor) ([]float32, error) {
	const op = "Extractor.Extract"

	session, err := ex.acquireSession()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	type runResult struct {
		vector []float32
		err    error
	}

	// Run не поддерживает отмену на полпути: ждём либо результат, либо
	// дедлайн вызывающего. Горутина дорабатывает в фоне и не оставляет
	// сессию в полуразобранном состоянии.
	resCh := make(chan runResult, 1)
	go func() {
		vector, err := session.Run(tensor.Data)
		resCh <- runResult{vector: vector, err: err}
	}()

	select {
	case res := <-resCh:
		if res.err != nil {
			ex.logger.Warnf("%s: %v", op, res.err)
			return nil, e.Wrap(res.err.Error(), e.ErrInference)
		}
		return NormalizeL2(res.vector), nil
	case <-ctx.Done():
		return nil, e.Wrap(op, ctx.Err())
	}
}

// Healthy сообщает, доступна ли подсистема извлечения признаков.
// false после залипшей ошибки загрузки модели. Может вызываться
// конкурентно с первым Extract.
func (ex *Extractor) Healthy() bool {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	return ex.initErr == nil
}

// acquireSession лениво создаёт сессию под однократной инициализацией.
func (ex *Extractor) acquireSession() (InferenceSession, error) {
	ex.once.Do(func() {
		session, err := ex.factory()

		ex.mu.Lock()
		defer ex.mu.Unlock()

		if err != nil {
			ex.initErr = errors.Join(e.ErrModelLoad, err)
			ex.logger.Errorf(err, "model load failed")
			return
		}

		ex.session = session
		ex.logger.Infof("inference session initialized")
	})

	ex.mu.Lock()
	defer ex.mu.Unlock()

	if ex.initErr != nil {
		return nil, ex.initErr
	}

	return ex.session, nil
}

// Close освобождает inference-сессию, если она была создана.
func (ex *Extractor) Close() error {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	if ex.session == nil {
		return nil
	}

	return ex.session.Destroy()
}

// NormalizeL2 приводит вектор к единичной евклидовой длине.
// Нулевой вектор возвращается без изменений.
func NormalizeL2(vector []float32) []float32 {
	var sumSq float64
	for _, v := range vector {
		sumSq += float64(v) * float64(v)
	}

	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return vector
	}

	normalized := make([]float32, len(vector))
	for i, v := range vector {
		normalized[i] = float32(float64(v) / norm)
	}

	return normalized
}
