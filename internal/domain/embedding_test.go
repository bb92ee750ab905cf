package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surfsky/GoodsAI/pkg/e"
)

func TestEncodeDecodeVector(t *testing.T) {
	vector := []float32{0.5, -1.25, 0, 3.75e-3}

	blob := EncodeVector(vector)
	require.Len(t, blob, 16)

	decoded, err := DecodeVector(blob)
	require.NoError(t, err)
	assert.Equal(t, vector, decoded)
}

func TestEncodeVectorLittleEndian(t *testing.T) {
	// 1.0 == 0x3F800000, little-endian от младшего байта
	blob := EncodeVector([]float32{1.0})
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, blob)
}

func TestEncodeVectorNil(t *testing.T) {
	assert.Nil(t, EncodeVector(nil))

	decoded, err := DecodeVector(nil)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeVectorInvalidLength(t *testing.T) {
	_, err := DecodeVector([]byte{0x00, 0x01, 0x02})
	assert.ErrorIs(t, err, e.ErrInvalidVectorBlob)
}
