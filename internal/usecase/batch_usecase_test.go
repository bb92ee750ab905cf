package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surfsky/GoodsAI/internal/domain"
	"github.com/surfsky/GoodsAI/pkg/e"
	"github.com/surfsky/GoodsAI/pkg/logger"
)

// --- фейки зависимостей usecase-слоя ---

type fakeProductRepo struct {
	mu      sync.Mutex
	byModel map[string]*domain.Product
	nextID  int64
	updates int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byModel: make(map[string]*domain.Product)}
}

func (f *fakeProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	created := *product
	created.ID = f.nextID
	f.byModel[created.ModelName] = &created

	copied := created
	return &copied, nil
}

func (f *fakeProductRepo) FindByModel(_ context.Context, modelName string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	product, ok := f.byModel[modelName]
	if !ok {
		return nil, nil
	}

	copied := *product
	return &copied, nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates++
	copied := *product
	f.byModel[product.ModelName] = &copied
	return nil
}

func (f *fakeProductRepo) GetProductsInfo(_ context.Context, ids []int64) ([]ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]ProductInfo, 0)
	for _, product := range f.byModel {
		for _, id := range ids {
			if product.ID == id {
				result = append(result, NewProductInfo(product.ID, product.ModelName, product.ProductName, product.Price, product.Maintenance))
			}
		}
	}

	return result, nil
}

type fakeImageRecordRepo struct {
	mu      sync.Mutex
	records []domain.ImageRecord
	nextID  int64
}

func (f *fakeImageRecordRepo) Add(_ context.Context, record *domain.ImageRecord, _ *int32) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	copied := *record
	copied.ID = f.nextID
	f.records = append(f.records, copied)
	return copied.ID, nil
}

func (f *fakeImageRecordRepo) UpdateVector(_ context.Context, imageID int64, vector []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.records {
		if f.records[i].ID == imageID {
			f.records[i].Vector = vector
			return nil
		}
	}

	return e.ErrImageNotFound
}

func (f *fakeImageRecordRepo) ListAllVectors(_ context.Context) ([]domain.StoredVector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]domain.StoredVector, 0, len(f.records))
	for _, record := range f.records {
		if record.Vector == nil {
			continue
		}
		result = append(result, domain.StoredVector{
			ProductID: record.ProductID,
			ImageID:   record.ID,
			ImagePath: record.Path,
			Vector:    record.Vector,
		})
	}

	return result, nil
}

type fakeVectorizer struct {
	failOn map[string]error
	vector []float32
}

func (f *fakeVectorizer) Vectorize(_ context.Context, imageData []byte) ([]float32, error) {
	if err, ok := f.failOn[string(imageData)]; ok {
		return nil, err
	}

	if f.vector != nil {
		return f.vector, nil
	}

	return []float32{1, 0, 0}, nil
}

type fakeProcessor struct {
	failOn map[string]error
}

func (f *fakeProcessor) Process(imageData []byte) ([]byte, error) {
	if err, ok := f.failOn[string(imageData)]; ok {
		return nil, err
	}

	return imageData, nil
}

type fakeImagesInfra struct {
	mu       sync.Mutex
	uploaded []string
	cleaned  []string
}

func (f *fakeImagesInfra) UploadImages(_ context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(req.Images))
	for i, image := range req.Images {
		key := fmt.Sprintf("%s/%s-%d.jpg", req.ModelName, image.Name, i)
		keys = append(keys, key)
		f.uploaded = append(f.uploaded, key)
	}

	return NewUploadImagesRes(keys), nil
}

func (f *fakeImagesInfra) UploadImage(_ context.Context, req *UploadImageReq) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploaded = append(f.uploaded, req.ObjectKey)
	return req.ObjectKey, nil
}

func (f *fakeImagesInfra) CleanupImages(keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cleaned = append(f.cleaned, keys...)
}

type fakeCacheRepo struct {
	mu      sync.Mutex
	store   map[int64]ProductInfo
	deleted []int64
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{store: make(map[int64]ProductInfo)}
}

func (f *fakeCacheRepo) GetProducts(_ context.Context, ids []int64) (map[int64]ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make(map[int64]ProductInfo)
	for _, id := range ids {
		if info, ok := f.store[id]; ok {
			result[id] = info
		}
	}

	return result, nil
}

func (f *fakeCacheRepo) SetProducts(_ context.Context, products []ProductInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, info := range products {
		f.store[info.ID] = info
	}

	return nil
}

func (f *fakeCacheRepo) DeleteProducts(_ context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, id := range ids {
		delete(f.store, id)
		f.deleted = append(f.deleted, id)
	}

	return nil
}

type fakeProducer struct {
	mu     sync.Mutex
	events []ProductEventReq
}

func (f *fakeProducer) WriteProductEvent(_ context.Context, req *ProductEventReq) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, *req)
	return nil
}

// --- тесты пакетной загрузки ---

func buildBatchZip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

type batchFixture struct {
	uc          *BatchUseCase
	productRepo *fakeProductRepo
	imageRepo   *fakeImageRecordRepo
	imagesInfra *fakeImagesInfra
	cacheRepo   *fakeCacheRepo
	producer    *fakeProducer
	vectorizer  *fakeVectorizer
	processor   *fakeProcessor
}

func newBatchFixture() *batchFixture {
	f := &batchFixture{
		productRepo: newFakeProductRepo(),
		imageRepo:   &fakeImageRecordRepo{},
		imagesInfra: &fakeImagesInfra{},
		cacheRepo:   newFakeCacheRepo(),
		producer:    &fakeProducer{},
		vectorizer:  &fakeVectorizer{},
		processor:   &fakeProcessor{},
	}

	f.uc = NewBatchUC(
		f.productRepo,
		f.imageRepo,
		f.vectorizer,
		f.processor,
		f.imagesInfra,
		f.cacheRepo,
		f.producer,
		logger.NewSlogLogger(),
	)

	return f
}

func TestIngestArchiveCreatesProductsAndImages(t *testing.T) {
	f := newBatchFixture()

	archive := buildBatchZip(t, map[string][]byte{
		"CS001_Necklace_19.99/a.jpg": []byte("img-a"),
		"CS001_Necklace_19.99/b.jpg": []byte("img-b"),
		"CS002_Ring/c.png":           []byte("img-c"),
	})

	res, err := f.uc.IngestArchive(context.Background(), NewIngestArchiveReq(archive))
	require.NoError(t, err)

	assert.Equal(t, 2, res.CreatedProducts)
	assert.Equal(t, 3, res.IngestedImages)
	assert.Len(t, f.imageRepo.records, 3)

	created, err := f.productRepo.FindByModel(context.Background(), "CS001")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Necklace", created.ProductName)
	assert.Equal(t, int64(1999), created.Price)
	assert.NotEmpty(t, created.Maintenance)
}

func TestIngestArchiveReingestAddsImagesNotProducts(t *testing.T) {
	f := newBatchFixture()

	archive := buildBatchZip(t, map[string][]byte{
		"CS001_Necklace_19.99/a.jpg": []byte("img-a"),
	})

	_, err := f.uc.IngestArchive(context.Background(), NewIngestArchiveReq(archive))
	require.NoError(t, err)

	res, err := f.uc.IngestArchive(context.Background(), NewIngestArchiveReq(archive))
	require.NoError(t, err)

	assert.Equal(t, 0, res.CreatedProducts)
	assert.Equal(t, 1, res.IngestedImages)
	assert.Len(t, f.imageRepo.records, 2)
	assert.Len(t, f.productRepo.byModel, 1)
}

func TestIngestArchiveMergesNonBlankFields(t *testing.T) {
	f := newBatchFixture()

	_, err := f.productRepo.Create(context.Background(), domain.NewProduct("CS001", "OldName", 0, "2024-01-01"))
	require.NoError(t, err)

	archive := buildBatchZip(t, map[string][]byte{
		"CS001_NewName_50/a.jpg": []byte("img-a"),
	})

	res, err := f.uc.IngestArchive(context.Background(), NewIngestArchiveReq(archive))
	require.NoError(t, err)
	assert.Equal(t, 0, res.CreatedProducts)

	merged, err := f.productRepo.FindByModel(context.Background(), "CS001")
	require.NoError(t, err)
	assert.Equal(t, "NewName", merged.ProductName)
	assert.Equal(t, int64(5000), merged.Price)
	// Пустые значения архива не затирают существующие
	assert.Equal(t, "2024-01-01", merged.Maintenance)
}

func TestIngestArchiveSkipsFailedVectorization(t *testing.T) {
	f := newBatchFixture()
	f.vectorizer.failOn = map[string]error{
		"img-bad": e.ErrInference,
	}

	archive := buildBatchZip(t, map[string][]byte{
		"CS001_Ring/a.jpg": []byte("img-good"),
		"CS002_Ring/b.jpg": []byte("img-bad"),
	})

	res, err := f.uc.IngestArchive(context.Background(), NewIngestArchiveReq(archive))
	require.NoError(t, err)

	assert.Equal(t, 1, res.IngestedImages)
	assert.Len(t, f.imageRepo.records, 1)
	// Загруженный, но не векторизованный объект зачищается
	assert.Len(t, f.imagesInfra.cleaned, 1)

	// Товар засчитан в момент создания: он остаётся в каталоге, даже
	// если единственная запись его модели не прошла векторизацию
	assert.Equal(t, 2, res.CreatedProducts)
	orphan, err := f.productRepo.FindByModel(context.Background(), "CS002")
	require.NoError(t, err)
	assert.NotNil(t, orphan)
}

func TestIngestArchiveModelLoadFailureAborts(t *testing.T) {
	f := newBatchFixture()
	f.vectorizer.failOn = map[string]error{
		"img-a": errors.Join(e.ErrModelLoad, errors.New("model missing")),
	}

	archive := buildBatchZip(t, map[string][]byte{
		"CS001_Ring/a.jpg": []byte("img-a"),
	})

	_, err := f.uc.IngestArchive(context.Background(), NewIngestArchiveReq(archive))
	assert.ErrorIs(t, err, e.ErrModelLoad)
}

func TestIngestArchiveRejectsNonZip(t *testing.T) {
	f := newBatchFixture()

	_, err := f.uc.IngestArchive(context.Background(), NewIngestArchiveReq([]byte("garbage")))
	assert.ErrorIs(t, err, e.ErrNotZipArchive)
}

func TestIngestArchiveInvalidatesCacheAndPublishes(t *testing.T) {
	f := newBatchFixture()

	archive := buildBatchZip(t, map[string][]byte{
		"CS001_Ring/a.jpg": []byte("img-a"),
	})

	_, err := f.uc.IngestArchive(context.Background(), NewIngestArchiveReq(archive))
	require.NoError(t, err)

	assert.NotEmpty(t, f.cacheRepo.deleted)
	require.Len(t, f.producer.events, 1)
	assert.Equal(t, "batch_ingested", f.producer.events[0].EventType)
}
