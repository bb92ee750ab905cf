package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/surfsky/GoodsAI/pkg/e"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// metadataPrefix — служебные записи, которые кладут архиваторы macOS.
const metadataPrefix = "__MACOSX"

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".bmp":  {},
	".webp": {},
}

// Entry — одна пригодная к обработке запись архива.
type Entry struct {
	// Path — восстановленное имя записи (прямые слэши, UTF-8).
	Path string
	file *zip.File
}

// Read возвращает содержимое записи.
func (en *Entry) Read() ([]byte, error) {
	rc, err := en.file.Open()
	if err != nil {
		return nil, e.Wrap(en.Path, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// Archive — zip-архив с изображениями пакетной загрузки.
type Archive struct {
	reader *zip.Reader
}

// Open разбирает архив из байтов. Возвращает e.ErrNotZipArchive,
// если содержимое не является корректным zip.
func Open(data []byte) (*Archive, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, e.Wrap(err.Error(), e.ErrNotZipArchive)
	}

	return &Archive{reader: reader}, nil
}

// ImageEntries возвращает записи, подлежащие обработке: пропускаются
// каталоги, служебные записи macOS и файлы с расширением вне allow-list.
// Пропуск — не ошибка записи, такие файлы просто не учитываются.
func (a *Archive) ImageEntries() []Entry {
	entries := make([]Entry, 0, len(a.reader.File))
	for _, f := range a.reader.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		if strings.HasPrefix(f.Name, metadataPrefix) {
			continue
		}

		name := FixEntryName(f.Name, f.NonUTF8)
		if !IsImageName(name) {
			continue
		}

		entries = append(entries, Entry{Path: name, file: f})
	}

	return entries
}

// IsImageName проверяет расширение файла по allow-list изображений.
func IsImageName(name string) bool {
	_, ok := imageExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

// FixEntryName восстанавливает имя записи, упакованное без UTF-8 флага.
// Архивы из Windows-архиваторов часто несут имена в GBK или Big5;
// валидный UTF-8 возвращается как есть, остальное пробуем декодировать.
func FixEntryName(name string, nonUTF8 bool) string {
	if !nonUTF8 && utf8.ValidString(name) {
		return name
	}
	if utf8.ValidString(name) {
		return name
	}

	if decoded, err := simplifiedchinese.GBK.NewDecoder().String(name); err == nil {
		return decoded
	}
	if decoded, err := traditionalchinese.Big5.NewDecoder().String(name); err == nil {
		return decoded
	}

	return name
}

// SanitizeFileName оставляет в имени файла только буквы, цифры и «._-».
// Результат безопасен как ключ объекта хранилища.
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
