package domain

// BatchEntryMeta — метаданные каталога, разобранные из имени папки архива.
// Не персистентная сущность: живёт только на время обработки записи.
type BatchEntryMeta struct {
	ModelName   string
	ProductName string
	Price       int64 // копейки; 0 — цена не указана
}
