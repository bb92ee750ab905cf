package http

import (
	"net/http"
	"strconv"

	"github.com/surfsky/GoodsAI/internal/usecase"
	"github.com/surfsky/GoodsAI/pkg/e"
	"github.com/surfsky/GoodsAI/pkg/logger"
)

type RecognitionHandler struct {
	recognitionUsecase usecase.RecognitionUC
	logger             logger.Logger
}

func NewRecognitionHandler(recognitionUsecase usecase.RecognitionUC, logger logger.Logger) *RecognitionHandler {
	return &RecognitionHandler{recognitionUsecase: recognitionUsecase, logger: logger}
}

// matchResponse — один элемент ответа распознавания.
type matchResponse struct {
	ProductID   int64   `json:"product_id"`
	Score       float32 `json:"score"`
	BestImage   string  `json:"best_image"`
	ModelName   string  `json:"model_name"`
	ProductName string  `json:"product_name"`
	Price       int64   `json:"price"`
	Maintenance string  `json:"maintenance"`
}

// recognize принимает фотографию и возвращает наиболее похожие товары
// каталога в порядке убывания сходства.
func (h *RecognitionHandler) recognize(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 16 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	images, err := parseImages(r.MultipartForm.File["image"])
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	topK := 0
	if v := r.FormValue("top_k"); v != "" {
		topK, err = strconv.Atoi(v)
		if err != nil || topK < 0 {
			h.logger.Warnf("%d %s: top_k=%q", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), v)
			WriteError(w, e.ErrStatusBadRequest)
			return
		}
	}

	res, err := h.recognitionUsecase.Recognize(r.Context(), usecase.NewRecognizeReq(images[0].Data, topK))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	matches := make([]matchResponse, 0, len(res.Matches))
	for _, m := range res.Matches {
		matches = append(matches, matchResponse{
			ProductID:   m.ProductID,
			Score:       m.Score,
			BestImage:   m.BestImage,
			ModelName:   m.ModelName,
			ProductName: m.ProductName,
			Price:       m.Price,
			Maintenance: m.Maintenance,
		})
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
	})
}
