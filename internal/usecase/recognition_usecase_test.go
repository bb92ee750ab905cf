package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surfsky/GoodsAI/internal/domain"
	"github.com/surfsky/GoodsAI/internal/infrastructure/search"
	"github.com/surfsky/GoodsAI/pkg/e"
	"github.com/surfsky/GoodsAI/pkg/logger"
)

func TestRecognizeRanksExactDuplicateFirst(t *testing.T) {
	imageRepo := &fakeImageRecordRepo{}
	vectorizer := &fakeVectorizer{vector: []float32{1, 0, 0}}

	// Каталог: товар 1 — точная копия запроса, товар 2 — ортогонален
	_, err := imageRepo.Add(context.Background(), domain.NewImageRecord(1, "p1/a.jpg", []float32{1, 0, 0}), nil)
	require.NoError(t, err)
	_, err = imageRepo.Add(context.Background(), domain.NewImageRecord(2, "p2/b.jpg", []float32{0, 1, 0}), nil)
	require.NoError(t, err)

	uc := NewRecognitionUC(vectorizer, search.NewEngine(), imageRepo, logger.NewSlogLogger(), 5)

	res, err := uc.Recognize(context.Background(), NewRecognizeReq([]byte("query"), 0))
	require.NoError(t, err)
	require.Len(t, res.Matches, 2)

	assert.Equal(t, int64(1), res.Matches[0].ProductID)
	assert.InDelta(t, 1.0, res.Matches[0].Score, 1e-6)
	assert.Equal(t, "p1/a.jpg", res.Matches[0].BestImage)
}

func TestRecognizeEmptyCatalog(t *testing.T) {
	uc := NewRecognitionUC(&fakeVectorizer{}, search.NewEngine(), &fakeImageRecordRepo{}, logger.NewSlogLogger(), 5)

	res, err := uc.Recognize(context.Background(), NewRecognizeReq([]byte("query"), 0))
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
}

func TestRecognizeDefaultTopK(t *testing.T) {
	imageRepo := &fakeImageRecordRepo{}
	for i := int64(1); i <= 10; i++ {
		_, err := imageRepo.Add(context.Background(), domain.NewImageRecord(i, "img.jpg", []float32{1, 0, 0}), nil)
		require.NoError(t, err)
	}

	uc := NewRecognitionUC(&fakeVectorizer{vector: []float32{1, 0, 0}}, search.NewEngine(), imageRepo, logger.NewSlogLogger(), 3)

	res, err := uc.Recognize(context.Background(), NewRecognizeReq([]byte("query"), 0))
	require.NoError(t, err)
	assert.Len(t, res.Matches, 3)

	// Явный topK перекрывает значение по умолчанию
	res, err = uc.Recognize(context.Background(), NewRecognizeReq([]byte("query"), 7))
	require.NoError(t, err)
	assert.Len(t, res.Matches, 7)
}

func TestRecognizePropagatesVectorizerError(t *testing.T) {
	vectorizer := &fakeVectorizer{failOn: map[string]error{
		"bad": e.ErrDecodeImage,
	}}

	uc := NewRecognitionUC(vectorizer, search.NewEngine(), &fakeImageRecordRepo{}, logger.NewSlogLogger(), 5)

	_, err := uc.Recognize(context.Background(), NewRecognizeReq([]byte("bad"), 0))
	assert.ErrorIs(t, err, e.ErrDecodeImage)
}
