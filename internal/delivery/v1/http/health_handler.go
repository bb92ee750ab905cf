package http

import (
	"net/http"
)

// ExtractorChecker сообщает готовность подсистемы извлечения признаков.
type ExtractorChecker interface {
	Healthy() bool
}

type HealthHandler struct {
	checker ExtractorChecker
}

func NewHealthHandler(checker ExtractorChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// health отвечает 200, пока сервис способен векторизовать изображения,
// и 503 после фатальной ошибки загрузки модели.
func (h *HealthHandler) health(w http.ResponseWriter, r *http.Request) {
	if !h.checker.Healthy() {
		WriteSuccess(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
