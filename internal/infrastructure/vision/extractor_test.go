package vision

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surfsky/GoodsAI/pkg/e"
	"github.com/surfsky/GoodsAI/pkg/logger"
)

type stubSession struct {
	output []float32
	runErr error
}

func (s *stubSession) Run(input []float32) ([]float32, error) {
	if s.runErr != nil {
		return nil, s.runErr
	}

	out := make([]float32, len(s.output))
	copy(out, s.output)
	return out, nil
}

func (s *stubSession) Destroy() error { return nil }

func stubFactory(session InferenceSession, err error) SessionFactory {
	return func() (InferenceSession, error) {
		return session, err
	}
}

func testTensor() *Tensor {
	return &Tensor{Data: make([]float32, TensorLen)}
}

func TestExtractNormalizesOutput(t *testing.T) {
	ex := NewExtractor(stubFactory(&stubSession{output: []float32{3, 4}}, nil), logger.NewSlogLogger())

	vector, err := ex.Extract(context.Background(), testTensor())
	require.NoError(t, err)

	assert.InDelta(t, 0.6, vector[0], 1e-6)
	assert.InDelta(t, 0.8, vector[1], 1e-6)
	assert.True(t, ex.Healthy())
}

func TestExtractStickyModelLoadError(t *testing.T) {
	var calls atomic.Int32
	factory := func() (InferenceSession, error) {
		calls.Add(1)
		return nil, errors.New("model file corrupt")
	}

	ex := NewExtractor(factory, logger.NewSlogLogger())

	_, err := ex.Extract(context.Background(), testTensor())
	assert.ErrorIs(t, err, e.ErrModelLoad)

	// Повторные вызовы возвращают ту же ошибку без повторной загрузки
	_, err = ex.Extract(context.Background(), testTensor())
	assert.ErrorIs(t, err, e.ErrModelLoad)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, ex.Healthy())
}

func TestExtractInferenceError(t *testing.T) {
	ex := NewExtractor(stubFactory(&stubSession{runErr: errors.New("ort failure")}, nil), logger.NewSlogLogger())

	_, err := ex.Extract(context.Background(), testTensor())
	assert.ErrorIs(t, err, e.ErrInference)
	// Ошибка одного прохода не выводит подсистему из строя
	assert.True(t, ex.Healthy())
}

func TestExtractSingleInitUnderConcurrency(t *testing.T) {
	var calls atomic.Int32
	factory := func() (InferenceSession, error) {
		calls.Add(1)
		return &stubSession{output: []float32{1, 0}}, nil
	}

	ex := NewExtractor(factory, logger.NewSlogLogger())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ex.Extract(context.Background(), testTensor())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestNormalizeL2(t *testing.T) {
	normalized := NormalizeL2([]float32{3, 4})

	var sumSq float64
	for _, v := range normalized {
		sumSq += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSq), 1e-6)
}

func TestNormalizeL2ZeroVector(t *testing.T) {
	zero := []float32{0, 0, 0}
	assert.Equal(t, zero, NormalizeL2(zero))
}
