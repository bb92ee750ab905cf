package archive

import (
	"path"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/surfsky/GoodsAI/internal/domain"
)

// ParseEntryName разбирает путь записи архива в метаданные каталога.
// Имя папки кодирует артикул, название и цену, разделённые «_»:
//
//	CS001_PearlNecklace_199/img.jpg  -> модель CS001, название PearlNecklace, цена 199
//	CS001_199.90/img.jpg             -> модель CS001, цена 199.90
//	CS001_PearlNecklace/img.jpg      -> модель CS001, название PearlNecklace
//	CS001/img.jpg                    -> только модель
//	CS001.jpg                        -> плоский файл, модель из имени файла
//
// Неоднозначные имена не отвергаются: действует таблица fallback-правил.
// Последний токен считается ценой, только если разбирается как число;
// иначе он — хвост названия.
func ParseEntryName(entryPath string) domain.BatchEntryMeta {
	segments := strings.Split(entryPath, "/")

	if len(segments) < 2 {
		fileName := segments[len(segments)-1]
		modelName := strings.TrimSuffix(fileName, path.Ext(fileName))
		return domain.BatchEntryMeta{ModelName: strings.TrimSpace(modelName)}
	}

	folderName := segments[len(segments)-2]
	tokens := strings.Split(folderName, "_")

	meta := domain.BatchEntryMeta{ModelName: tokens[0]}

	switch {
	case len(tokens) >= 3:
		if price, ok := parsePrice(tokens[len(tokens)-1]); ok {
			meta.Price = price
			meta.ProductName = strings.Join(tokens[1:len(tokens)-1], "_")
		} else {
			// длинное название с подчёркиваниями, цены нет
			meta.ProductName = strings.Join(tokens[1:], "_")
		}
	case len(tokens) == 2:
		if price, ok := parsePrice(tokens[1]); ok {
			meta.Price = price
		} else {
			meta.ProductName = tokens[1]
		}
	}

	meta.ModelName = strings.TrimSpace(meta.ModelName)
	meta.ProductName = strings.TrimSpace(meta.ProductName)

	return meta
}

// parsePrice пытается разобрать токен как цену и нормализует её в копейки.
func parsePrice(token string) (int64, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(token))
	if err != nil {
		return 0, false
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), true
}
