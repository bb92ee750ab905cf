package domain

import (
	"encoding/binary"
	"math"

	"github.com/surfsky/GoodsAI/pkg/e"
)

// StoredVector — один сохранённый вектор с метаданными владеющего товара.
// Строка выборки ListAllVectors, вход поискового движка.
type StoredVector struct {
	ProductID   int64
	ImageID     int64
	ImagePath   string
	Vector      []float32
	ModelName   string
	ProductName string
	Price       int64
	Maintenance string
}

// EncodeVector сериализует вектор в blob: little-endian IEEE-754 float32.
// Формат совместим с numpy.tobytes() исходной базы.
func EncodeVector(vector []float32) []byte {
	if vector == nil {
		return nil
	}

	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}

	return buf
}

// DecodeVector разбирает blob обратно в вектор.
// Возвращает e.ErrInvalidVectorBlob, если длина не кратна 4.
func DecodeVector(blob []byte) ([]float32, error) {
	if blob == nil {
		return nil, nil
	}
	if len(blob)%4 != 0 {
		return nil, e.ErrInvalidVectorBlob
	}

	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}

	return vector, nil
}
