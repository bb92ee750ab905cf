package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/surfsky/GoodsAI/internal/domain"
	"github.com/surfsky/GoodsAI/internal/infrastructure/archive"
	"github.com/surfsky/GoodsAI/pkg/e"
	"github.com/surfsky/GoodsAI/pkg/logger"
)

// BatchUseCase реализует пакетную загрузку каталога из zip-архива:
// имя папки каждой записи несёт артикул, название и цену товара.
type BatchUseCase struct {
	productRepo ProductRepository
	imageRepo   ImageRecordRepository
	vectorizer  Vectorizer
	processor   ImageProcessor
	imagesInfra ImagesInfra
	cacheRepo   CacheRepository
	producer    MessageProducer
	logger      logger.Logger
}

func NewBatchUC(
	productRepo ProductRepository,
	imageRepo ImageRecordRepository,
	vectorizer Vectorizer,
	processor ImageProcessor,
	imagesInfra ImagesInfra,
	cacheRepo CacheRepository,
	producer MessageProducer,
	logger logger.Logger,
) *BatchUseCase {
	return &BatchUseCase{
		productRepo: productRepo,
		imageRepo:   imageRepo,
		vectorizer:  vectorizer,
		processor:   processor,
		imagesInfra: imagesInfra,
		cacheRepo:   cacheRepo,
		producer:    producer,
		logger:      logger,
	}
}

// IngestArchive обрабатывает архив запись за записью: распарсить имя,
// обработать изображение, найти или создать товар по артикулу, загрузить
// изображение и сохранить вектор. Ошибка одной записи не прерывает
// обработку остальных.
func (b *BatchUseCase) IngestArchive(ctx context.Context, req *IngestArchiveReq) (*IngestArchiveRes, error) {
	const op = "BatchUseCase.IngestArchive"

	arc, err := archive.Open(req.Archive)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	entries := arc.ImageEntries()
	if len(entries) == 0 {
		return NewIngestArchiveRes(0, 0), nil
	}

	batchDir := fmt.Sprintf("batch_%d", time.Now().Unix())
	state := newIngestState()

	for _, entry := range entries {
		product, err := b.ingestEntry(ctx, batchDir, entry, state)
		if err != nil {
			if errors.Is(err, e.ErrModelLoad) {
				return nil, e.Wrap(op, err)
			}

			b.logger.Warnf("batch entry %s skipped: %v", entry.Path, err)
			continue
		}

		state.images++
		state.touched[product.ID] = struct{}{}
	}

	b.invalidateAndNotify(ctx, batchDir, state.touched)

	b.logger.Infof("%s: %d entries, %d products created, %d images ingested", op, len(entries), state.created, state.images)

	return NewIngestArchiveRes(state.created, state.images), nil
}

// ingestState накапливает итоги прохода по архиву. Счётчик created
// растёт в момент записи товара в БД: товар остаётся в каталоге, даже
// если дальнейшая обработка его записи не удалась.
type ingestState struct {
	seen    map[string]*domain.Product
	touched map[int64]struct{}
	created int
	images  int
}

func newIngestState() *ingestState {
	return &ingestState{
		seen:    make(map[string]*domain.Product),
		touched: make(map[int64]struct{}),
	}
}

// ingestEntry обрабатывает одну запись архива и возвращает её товар.
func (b *BatchUseCase) ingestEntry(
	ctx context.Context,
	batchDir string,
	entry archive.Entry,
	state *ingestState,
) (*domain.Product, error) {
	meta := archive.ParseEntryName(entry.Path)
	if meta.ModelName == "" {
		return nil, fmt.Errorf("empty model name")
	}

	data, err := entry.Read()
	if err != nil {
		return nil, err
	}

	processed, err := b.processor.Process(data)
	if err != nil {
		return nil, err
	}

	product, err := b.reconcileProduct(ctx, meta, state)
	if err != nil {
		return nil, err
	}

	key := batchDir + "/" + archive.SanitizeFileName(meta.ModelName+"_"+path.Base(entry.Path))
	key, err = b.imagesInfra.UploadImage(ctx, NewUploadImageReq(key, processed, "image/jpeg"))
	if err != nil {
		return nil, err
	}

	vector, err := b.vectorizer.Vectorize(ctx, processed)
	if err != nil {
		// Изображение без вектора бесполезно для поиска: убираем его из хранилища.
		b.imagesInfra.CleanupImages([]string{key})
		return nil, err
	}

	if _, err := b.imageRepo.Add(ctx, domain.NewImageRecord(product.ID, key, vector), nil); err != nil {
		b.imagesInfra.CleanupImages([]string{key})
		return nil, err
	}

	return product, nil
}

// reconcileProduct находит товар по артикулу или создаёт новый.
// Для существующего товара непустые значения из архива перекрывают
// текущие; дата прохода ставится только при создании.
func (b *BatchUseCase) reconcileProduct(
	ctx context.Context,
	meta domain.BatchEntryMeta,
	state *ingestState,
) (*domain.Product, error) {
	if product, ok := state.seen[meta.ModelName]; ok {
		return product, nil
	}

	existing, err := b.productRepo.FindByModel(ctx, meta.ModelName)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		maintenance := time.Now().Format("2006-01-02")
		product, err := b.productRepo.Create(ctx, domain.NewProduct(meta.ModelName, meta.ProductName, meta.Price, maintenance))
		if err != nil {
			return nil, err
		}

		state.seen[meta.ModelName] = product
		state.created++
		state.touched[product.ID] = struct{}{}
		return product, nil
	}

	merged, changed := mergeProduct(existing, meta.ProductName, meta.Price, "")
	if changed {
		if err := b.productRepo.Update(ctx, merged); err != nil {
			return nil, err
		}
		state.touched[merged.ID] = struct{}{}
	}

	state.seen[meta.ModelName] = merged
	return merged, nil
}

// invalidateAndNotify сбрасывает кэш затронутых товаров и публикует
// событие завершения пакетной загрузки (best-effort).
func (b *BatchUseCase) invalidateAndNotify(ctx context.Context, batchDir string, touched map[int64]struct{}) {
	if len(touched) == 0 {
		return
	}

	ids := make([]int64, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}

	if err := b.cacheRepo.DeleteProducts(ctx, ids); err != nil {
		b.logger.Warnf("Failed to invalidate product cache after batch: %v", err)
	}

	if err := b.producer.WriteProductEvent(ctx, NewProductEventReq("batch_ingested", 0, batchDir, nil)); err != nil {
		b.logger.Warnf("failed to publish batch_ingested event: %v", err)
	}
}
