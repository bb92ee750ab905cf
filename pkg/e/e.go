package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки пайплайна извлечения признаков
	ErrDecodeImage = fmt.Errorf("image bytes are not decodable")
	ErrModelLoad   = fmt.Errorf("failed to load inference model")
	ErrInference   = fmt.Errorf("inference failed")

	// Внутренние ошибки с векторами
	ErrVectorSizeMismatch = fmt.Errorf("vector size mismatch")
	ErrInvalidVectorBlob  = fmt.Errorf("invalid vector blob length")

	// Ошибки пакетной загрузки
	ErrNotZipArchive   = fmt.Errorf("file must be a zip archive")
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrImageNotFound   = fmt.Errorf("product image not found")
	ErrNoProducts      = fmt.Errorf("no products requested")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrModelNameRequired    = fmt.Errorf("model name is required")
	ErrNoImages             = fmt.Errorf("no images provided")
	ErrTooManyImages        = fmt.Errorf("too many images")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")

	// 5xx
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrExtractorUnavailable = fmt.Errorf("feature extractor unavailable")

	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
