package usecase

import "context"

type RecognitionUC interface {
	Recognize(ctx context.Context, req *RecognizeReq) (*RecognizeRes, error)
}

type CatalogUC interface {
	RegisterNewProduct(ctx context.Context, req *AddNewProductReq) (*AddNewProductRes, error)
	GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error)
}

type BatchUC interface {
	IngestArchive(ctx context.Context, req *IngestArchiveReq) (*IngestArchiveRes, error)
}
