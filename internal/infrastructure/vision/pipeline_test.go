package vision

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surfsky/GoodsAI/pkg/logger"
)

type blockedSession struct {
	release chan struct{}
}

func (s *blockedSession) Run(_ []float32) ([]float32, error) {
	<-s.release
	return []float32{1, 0}, nil
}

func (s *blockedSession) Destroy() error { return nil }

func TestPipelineVectorize(t *testing.T) {
	ex := NewExtractor(stubFactory(&stubSession{output: []float32{3, 4}}, nil), logger.NewSlogLogger())
	p := NewPipeline(NewPreprocessor(), ex, 0)

	vector, err := p.Vectorize(context.Background(), encodePNG(t, uniformImage(300, 300, color.RGBA{R: 30, G: 30, B: 30, A: 255})))
	require.NoError(t, err)

	assert.InDelta(t, 0.6, vector[0], 1e-6)
	assert.InDelta(t, 0.8, vector[1], 1e-6)
}

func TestPipelineVectorizeRunTimeout(t *testing.T) {
	session := &blockedSession{release: make(chan struct{})}
	t.Cleanup(func() { close(session.release) })

	ex := NewExtractor(stubFactory(session, nil), logger.NewSlogLogger())
	p := NewPipeline(NewPreprocessor(), ex, 20*time.Millisecond)

	_, err := p.Vectorize(context.Background(), encodePNG(t, uniformImage(300, 300, color.RGBA{A: 255})))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
