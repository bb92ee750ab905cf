package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/surfsky/GoodsAI/internal/usecase"
	"github.com/surfsky/GoodsAI/pkg/e"
	"github.com/surfsky/GoodsAI/pkg/logger"
)

type ProductHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewProductHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// registerNewProduct создаёт товар с изображениями из multipart-формы.
// Поля: model_name (обязательное), product_name, price, maintenance, images.
func (p *ProductHandler) registerNewProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 150 << 20
		maxMemory           = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	prMeta, err := parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	images, err := parseImages(r.MultipartForm.File["images"])
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := p.catalogUsecase.RegisterNewProduct(r.Context(),
		usecase.NewAddNewProductReq(prMeta.ModelName, prMeta.ProductName, prMeta.Price, prMeta.Maintenance, images))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]interface{}{
		"product_id":   res.ProductID,
		"images_count": res.ImagesCount,
	})
}

// getProductsInfo возвращает информацию о товарах по списку id: ?ids=1,2,3
func (p *ProductHandler) getProductsInfo(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := p.catalogUsecase.GetProductsInfo(r.Context(), usecase.NewGetProductsReq(ids))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"products":  toProductResponses(res.Products),
		"not_found": res.NotFoundProducts,
	})
}

type productResponse struct {
	ID          int64  `json:"id"`
	ModelName   string `json:"model_name"`
	ProductName string `json:"product_name"`
	Price       int64  `json:"price"`
	Maintenance string `json:"maintenance"`
}

func toProductResponses(products []usecase.ProductInfo) []productResponse {
	result := make([]productResponse, 0, len(products))
	for _, pr := range products {
		result = append(result, productResponse{
			ID:          pr.ID,
			ModelName:   pr.ModelName,
			ProductName: pr.ProductName,
			Price:       pr.Price,
			Maintenance: pr.Maintenance,
		})
	}

	return result
}

func parseIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, e.ErrNoProducts
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, e.Wrap(part, e.ErrStatusBadRequest)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
