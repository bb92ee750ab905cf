package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surfsky/GoodsAI/pkg/e"
)

func TestParsePriceToCents(t *testing.T) {
	cents, err := parsePriceToCents("599.99")
	require.NoError(t, err)
	assert.Equal(t, int64(59999), cents)

	cents, err = parsePriceToCents("600")
	require.NoError(t, err)
	assert.Equal(t, int64(60000), cents)

	_, err = parsePriceToCents("12.345")
	assert.ErrorIs(t, err, e.ErrPricePrecision)

	_, err = parsePriceToCents("-5")
	assert.ErrorIs(t, err, e.ErrInvalidPrice)

	_, err = parsePriceToCents("abc")
	assert.ErrorIs(t, err, e.ErrInvalidPrice)

	_, err = parsePriceToCents("")
	assert.Error(t, err)
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{e.ErrDecodeImage, http.StatusBadRequest},
		{e.ErrNotZipArchive, http.StatusBadRequest},
		{e.ErrModelNameRequired, http.StatusBadRequest},
		{e.ErrNoImages, http.StatusBadRequest},
		{e.ErrProductNotFound, http.StatusNotFound},
		{e.ErrModelLoad, http.StatusServiceUnavailable},
		{e.ErrExtractorUnavailable, http.StatusServiceUnavailable},
		{e.ErrInference, http.StatusInternalServerError},
		{e.Wrap("op", e.ErrDecodeImage), http.StatusBadRequest},
	}

	for _, tt := range tests {
		code, _ := ToHTTPResponse(tt.err)
		assert.Equal(t, tt.code, code, "error: %v", tt.err)
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("1,2, 3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = parseIDs("")
	assert.ErrorIs(t, err, e.ErrNoProducts)

	_, err = parseIDs("1,abc")
	assert.ErrorIs(t, err, e.ErrStatusBadRequest)
}
