package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surfsky/GoodsAI/internal/domain"
	"github.com/surfsky/GoodsAI/pkg/e"
	"github.com/surfsky/GoodsAI/pkg/logger"
)

type catalogFixture struct {
	uc          *CatalogUseCase
	productRepo *fakeProductRepo
	cacheRepo   *fakeCacheRepo
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		productRepo: newFakeProductRepo(),
		cacheRepo:   newFakeCacheRepo(),
	}

	f.uc = NewCatalogUC(
		f.productRepo,
		&fakeImageRecordRepo{},
		nil, // транзакции в этих сценариях не открываются
		&fakeVectorizer{},
		&fakeProcessor{},
		&fakeImagesInfra{},
		f.cacheRepo,
		&fakeProducer{},
		logger.NewSlogLogger(),
	)

	return f
}

func TestRegisterNewProductValidation(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.uc.RegisterNewProduct(context.Background(), NewAddNewProductReq("", "Ring", 100, "", []ProductImage{{}}))
	assert.ErrorIs(t, err, e.ErrModelNameRequired)

	_, err = f.uc.RegisterNewProduct(context.Background(), NewAddNewProductReq("CS001", "Ring", -1, "", []ProductImage{{}}))
	assert.ErrorIs(t, err, e.ErrInvalidPrice)

	_, err = f.uc.RegisterNewProduct(context.Background(), NewAddNewProductReq("CS001", "Ring", 100, "", nil))
	assert.ErrorIs(t, err, e.ErrNoImages)
}

func TestRegisterNewProductAllImagesUndecodable(t *testing.T) {
	f := newCatalogFixture()
	processor := &fakeProcessor{failOn: map[string]error{
		"broken": e.ErrDecodeImage,
	}}
	f.uc.processor = processor

	images := []ProductImage{*NewProductImage([]byte("broken"), "image/jpeg", 6, "broken.jpg")}
	_, err := f.uc.RegisterNewProduct(context.Background(), NewAddNewProductReq("CS001", "Ring", 100, "", images))
	assert.ErrorIs(t, err, e.ErrDecodeImage)
}

func TestGetProductsInfoCacheMissFallsBackToDB(t *testing.T) {
	f := newCatalogFixture()

	created, err := f.productRepo.Create(context.Background(), domain.NewProduct("CS001", "Ring", 1999, "2025-01-01"))
	require.NoError(t, err)

	res, err := f.uc.GetProductsInfo(context.Background(), NewGetProductsReq([]int64{created.ID, 999}))
	require.NoError(t, err)

	require.Len(t, res.Products, 1)
	assert.Equal(t, "CS001", res.Products[0].ModelName)
	assert.Equal(t, []int64{999}, res.NotFoundProducts)

	// Фоновое наполнение кэша
	assert.Eventually(t, func() bool {
		cached, _ := f.cacheRepo.GetProducts(context.Background(), []int64{created.ID})
		_, ok := cached[created.ID]
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestGetProductsInfoServedFromCache(t *testing.T) {
	f := newCatalogFixture()

	require.NoError(t, f.cacheRepo.SetProducts(context.Background(), []ProductInfo{
		NewProductInfo(42, "CS042", "Pendant", 500, ""),
	}))

	res, err := f.uc.GetProductsInfo(context.Background(), NewGetProductsReq([]int64{42}))
	require.NoError(t, err)

	require.Len(t, res.Products, 1)
	assert.Equal(t, "CS042", res.Products[0].ModelName)
	assert.Empty(t, res.NotFoundProducts)
}

func TestGetProductsInfoEmptyIDs(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.uc.GetProductsInfo(context.Background(), NewGetProductsReq(nil))
	assert.ErrorIs(t, err, e.ErrNoProducts)
}
