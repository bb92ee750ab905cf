package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/surfsky/GoodsAI/internal/cfg"
	"github.com/surfsky/GoodsAI/internal/usecase"
	"github.com/surfsky/GoodsAI/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(recognitionUC usecase.RecognitionUC, catalogUC usecase.CatalogUC, batchUC usecase.BatchUC, batchCfg *cfg.BatchCfg, checker ExtractorChecker) {
	r.router.Get("/health", NewHealthHandler(checker).health)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		recHandler := NewRecognitionHandler(recognitionUC, r.logger)
		v1.Post("/recognize", recHandler.recognize)

		prHandler := NewProductHandler(catalogUC, r.logger)
		batchHandler := NewBatchHandler(batchUC, r.logger, batchCfg.MaxArchiveSize)
		registerProductRoutes(v1, prHandler, batchHandler)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler, batchHandler *BatchHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", prHandler.registerNewProduct)
		pr.Get("/", prHandler.getProductsInfo)
		pr.Post("/batch", batchHandler.ingestArchive)
	})
}
