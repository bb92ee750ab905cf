package http

import (
	"net/http"

	"github.com/surfsky/GoodsAI/internal/usecase"
	"github.com/surfsky/GoodsAI/pkg/e"
	"github.com/surfsky/GoodsAI/pkg/logger"
)

type BatchHandler struct {
	batchUsecase   usecase.BatchUC
	logger         logger.Logger
	maxArchiveSize int64
}

func NewBatchHandler(batchUsecase usecase.BatchUC, logger logger.Logger, maxArchiveSize int64) *BatchHandler {
	return &BatchHandler{
		batchUsecase:   batchUsecase,
		logger:         logger,
		maxArchiveSize: maxArchiveSize,
	}
}

// ingestArchive принимает zip-архив изображений в multipart-поле "archive"
// и пакетно загружает его содержимое в каталог.
func (b *BatchHandler) ingestArchive(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, b.maxArchiveSize)

	if err := ensureMultipartForm(r, 32<<20); err != nil {
		b.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	files := r.MultipartForm.File["archive"]
	if len(files) == 0 {
		b.logger.Warnf("%d %s: archive field is empty", http.StatusBadRequest, e.ErrStatusBadRequest.Error())
		WriteError(w, e.Wrap("archive", e.ErrMissingFields))
		return
	}

	data, _, err := readFile(files[0], b.maxArchiveSize)
	if err != nil {
		b.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := b.batchUsecase.IngestArchive(r.Context(), usecase.NewIngestArchiveReq(data))
	if err != nil {
		b.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"created_products": res.CreatedProducts,
		"ingested_images":  res.IngestedImages,
	})
}
