package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/surfsky/GoodsAI/internal/domain"
	"github.com/surfsky/GoodsAI/pkg/e"
	"github.com/surfsky/GoodsAI/pkg/logger"
)

// CatalogUseCase реализует регистрацию товаров с фотографиями и чтение
// информации о товарах через кэш.
type CatalogUseCase struct {
	productRepo ProductRepository
	imageRepo   ImageRecordRepository
	dbPool      transaction.Transactional
	vectorizer  Vectorizer
	processor   ImageProcessor
	imagesInfra ImagesInfra
	cacheRepo   CacheRepository
	producer    MessageProducer
	logger      logger.Logger
}

func NewCatalogUC(
	productRepo ProductRepository,
	imageRepo ImageRecordRepository,
	dbPool transaction.Transactional,
	vectorizer Vectorizer,
	processor ImageProcessor,
	imagesInfra ImagesInfra,
	cacheRepo CacheRepository,
	producer MessageProducer,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo: productRepo,
		imageRepo:   imageRepo,
		dbPool:      dbPool,
		vectorizer:  vectorizer,
		processor:   processor,
		imagesInfra: imagesInfra,
		cacheRepo:   cacheRepo,
		producer:    producer,
		logger:      logger,
	}
}

// vectorizedImage — обработанное изображение, прошедшее извлечение признаков.
type vectorizedImage struct {
	data   []byte
	vector []float32
	name   string
}

// RegisterNewProduct регистрирует товар и его фотографии: обработка и
// векторизация каждого изображения, загрузка в хранилище, запись товара
// и изображений в одной транзакции. Изображение без вектора пропускается,
// а не валит запрос; запрос отклоняется, если ни одно изображение
// не удалось декодировать.
func (c *CatalogUseCase) RegisterNewProduct(ctx context.Context, req *AddNewProductReq) (*AddNewProductRes, error) {
	const op = "CatalogUseCase.RegisterNewProduct"

	var err error
	err = c.validateProduct(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	vectorized, err := c.vectorizeImages(ctx, req.Images)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(vectorized) == 0 {
		return nil, e.Wrap(op, e.ErrDecodeImage)
	}

	var (
		imagesRes *UploadImagesRes
		uploaded  bool
	)

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции и очистка загруженных изображений
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if uploaded && imagesRes != nil {
				c.logger.Warnf(
					"Cleaning up orphaned images after transaction failure. model_name: %s, error: %v",
					req.ModelName,
					e.Wrap(op, err),
				)

				c.imagesInfra.CleanupImages(imagesRes.ImagesKeys)
			}
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product, err := c.upsertProduct(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	imagesRes, err = c.uploadImages(ctx, req.ModelName, vectorized)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	uploaded = true

	for i, key := range imagesRes.ImagesKeys {
		if _, err = c.imageRepo.Add(ctx, domain.NewImageRecord(product.ID, key, vectorized[i].vector), nil); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление из кэша старых данных товара
	if err := c.cacheRepo.DeleteProducts(ctx, []int64{product.ID}); err != nil {
		c.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	c.publishEvent(ctx, "product_registered", product.ID, req.ModelName, imagesRes.ImagesKeys)

	return NewAddNewProductRes(product.ID, len(vectorized)), nil
}

// GetProductsInfo возвращает информацию о товарах по их идентификаторам.
func (c *CatalogUseCase) GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error) {
	const op = "CatalogUseCase.GetProductsInfo"

	if len(req.IDs) == 0 {
		return nil, e.Wrap(op, e.ErrNoProducts)
	}

	// Поиск товаров в кэше
	cacheProductsMap, err := c.cacheRepo.GetProducts(ctx, req.IDs)
	var nonCacheable []int64
	if err != nil {
		nonCacheable = append(nonCacheable, req.IDs...)
	} else {
		for _, productID := range req.IDs {
			if _, ok := cacheProductsMap[productID]; !ok {
				nonCacheable = append(nonCacheable, productID)
			}
		}
	}

	// Получение товаров из БД
	var productsInfoFromDB []ProductInfo
	if len(nonCacheable) > 0 {
		productsInfoFromDB, err = c.productRepo.GetProductsInfo(ctx, nonCacheable)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		// Фоновое добавление товаров в кэш
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := c.cacheRepo.SetProducts(bgCtx, productsInfoFromDB); err != nil {
				c.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
			}
		}()
	}

	dbProductsMap := make(map[int64]ProductInfo, len(productsInfoFromDB))
	for _, productInfo := range productsInfoFromDB {
		dbProductsMap[productInfo.ID] = productInfo
	}

	// Формирование результата
	result := make([]ProductInfo, 0, len(req.IDs))
	notFoundProducts := make([]int64, 0)
	for _, id := range req.IDs {
		if pr, ok := cacheProductsMap[id]; ok {
			result = append(result, pr)
		} else if pr, ok := dbProductsMap[id]; ok {
			result = append(result, pr)
		} else {
			notFoundProducts = append(notFoundProducts, id)
		}
	}

	return NewGetProductsRes(result, notFoundProducts), nil
}

// vectorizeImages обрабатывает и векторизует изображения запроса.
// Недекодируемое изображение или сбой одного прохода модели пропускает
// изображение; отказ загрузки модели прерывает запрос целиком.
func (c *CatalogUseCase) vectorizeImages(ctx context.Context, images []ProductImage) ([]vectorizedImage, error) {
	result := make([]vectorizedImage, 0, len(images))
	for _, image := range images {
		processed, err := c.processor.Process(image.Data)
		if err != nil {
			c.logger.Warnf("image %s skipped: %v", image.Name, err)
			continue
		}

		vector, err := c.vectorizer.Vectorize(ctx, processed)
		if err != nil {
			if errors.Is(err, e.ErrModelLoad) {
				return nil, err
			}
			c.logger.Warnf("image %s skipped: %v", image.Name, err)
			continue
		}

		result = append(result, vectorizedImage{data: processed, vector: vector, name: image.Name})
	}

	return result, nil
}

// upsertProduct идемпотентно создаёт или обновляет товар по артикулу.
// Существующие непустые значения не затираются пустыми.
func (c *CatalogUseCase) upsertProduct(ctx context.Context, req *AddNewProductReq) (*domain.Product, error) {
	existing, err := c.productRepo.FindByModel(ctx, req.ModelName)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return c.productRepo.Create(ctx, domain.NewProduct(req.ModelName, req.ProductName, req.Price, req.Maintenance))
	}

	merged, changed := mergeProduct(existing, req.ProductName, req.Price, req.Maintenance)
	if changed {
		if err := c.productRepo.Update(ctx, merged); err != nil {
			return nil, err
		}
	}

	return merged, nil
}

// uploadImages сохраняет обработанные изображения товара в MinIO.
func (c *CatalogUseCase) uploadImages(ctx context.Context, modelName string, vectorized []vectorizedImage) (*UploadImagesRes, error) {
	images := make([]ProductImage, 0, len(vectorized))
	for _, v := range vectorized {
		images = append(images, *NewProductImage(v.data, "image/jpeg", int64(len(v.data)), v.name))
	}

	return c.imagesInfra.UploadImages(ctx, NewUploadImagesReq(modelName, images))
}

// publishEvent отправляет событие изменения каталога (best-effort).
func (c *CatalogUseCase) publishEvent(ctx context.Context, eventType string, productID int64, modelName string, keys []string) {
	if err := c.producer.WriteProductEvent(ctx, NewProductEventReq(eventType, productID, modelName, keys)); err != nil {
		c.logger.Warnf("failed to publish %s event for product %d: %v", eventType, productID, err)
	}
}

// validateProduct проверяет корректность входных данных запроса на регистрацию товара.
func (c *CatalogUseCase) validateProduct(req *AddNewProductReq) error {
	if strings.TrimSpace(req.ModelName) == "" {
		return e.ErrModelNameRequired
	}

	if req.Price < 0 {
		return e.ErrInvalidPrice
	}

	if len(req.Images) == 0 {
		return e.ErrNoImages
	}

	return nil
}

// mergeProduct применяет политику слияния: новое значение берётся, только
// если оно непустое (цена — положительная) и отличается от текущего.
func mergeProduct(existing *domain.Product, productName string, price int64, maintenance string) (*domain.Product, bool) {
	merged := *existing
	changed := false

	if productName != "" && productName != existing.ProductName {
		merged.ProductName = productName
		changed = true
	}
	if price > 0 && price != existing.Price {
		merged.Price = price
		changed = true
	}
	if maintenance != "" && maintenance != existing.Maintenance {
		merged.Maintenance = maintenance
		changed = true
	}

	return &merged, changed
}
