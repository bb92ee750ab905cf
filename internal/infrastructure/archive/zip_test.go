package archive

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surfsky/GoodsAI/pkg/e"
)

func buildZip(t *testing.T, entries map[string][]byte) []byte {
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

func TestOpenRejectsNonZip(t *testing.T) {
	_, err := Open([]byte("definitely not a zip"))
	assert.ErrorIs(t, err, e.ErrNotZipArchive)
}

func TestImageEntriesFiltering(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"CS001_Ring_19.99/a.jpg":        []byte("jpg"),
		"CS001_Ring_19.99/b.PNG":        []byte("png"),
		"CS001_Ring_19.99/readme.txt":   []byte("text"),
		"CS001_Ring_19.99/model.onnx":   []byte("bin"),
		"__MACOSX/CS001_Ring_19.99/a":   []byte("meta"),
		"CS002_Necklace/photo.webp":     []byte("webp"),
		"CS002_Necklace/subdir/":        nil,
		"CS003_Bracelet/image.jpeg":     []byte("jpeg"),
		"CS003_Bracelet/thumbnail.bmp":  []byte("bmp"),
		"CS003_Bracelet/notes.markdown": []byte("md"),
	})

	arc, err := Open(data)
	require.NoError(t, err)

	entries := arc.ImageEntries()
	paths := make(map[string]struct{}, len(entries))
	for _, en := range entries {
		paths[en.Path] = struct{}{}
	}

	assert.Len(t, entries, 5)
	assert.Contains(t, paths, "CS001_Ring_19.99/a.jpg")
	assert.Contains(t, paths, "CS001_Ring_19.99/b.PNG")
	assert.Contains(t, paths, "CS002_Necklace/photo.webp")
	assert.Contains(t, paths, "CS003_Bracelet/image.jpeg")
	assert.Contains(t, paths, "CS003_Bracelet/thumbnail.bmp")
	assert.NotContains(t, paths, "CS001_Ring_19.99/readme.txt")
	assert.NotContains(t, paths, "__MACOSX/CS001_Ring_19.99/a")
}

func TestEntryRead(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"CS001/a.jpg": []byte("image bytes"),
	})

	arc, err := Open(data)
	require.NoError(t, err)

	entries := arc.ImageEntries()
	require.Len(t, entries, 1)

	content, err := entries[0].Read()
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), content)
}

func TestIsImageName(t *testing.T) {
	assert.True(t, IsImageName("a.jpg"))
	assert.True(t, IsImageName("a.JPEG"))
	assert.True(t, IsImageName("dir/b.webp"))
	assert.False(t, IsImageName("a.txt"))
	assert.False(t, IsImageName("a.gif"))
	assert.False(t, IsImageName("noext"))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "CS001_a.jpg", SanitizeFileName("CS001_a.jpg"))
	assert.Equal(t, "CS001a.jpg", SanitizeFileName("CS001/a.jpg"))
	assert.Equal(t, "ring-2.png", SanitizeFileName("ring -2 ?.png"))
	assert.Equal(t, "кольцо.jpg", SanitizeFileName("кольцо!.jpg"))
	assert.Equal(t, "", SanitizeFileName("///???"))
}

func TestFixEntryNameKeepsValidUTF8(t *testing.T) {
	assert.Equal(t, "кольцо/фото.jpg", FixEntryName("кольцо/фото.jpg", true))
	assert.Equal(t, "plain/name.jpg", FixEntryName("plain/name.jpg", false))
}

func TestFixEntryNameRecoversGBK(t *testing.T) {
	// «项链» (ожерелье) в кодировке GBK
	gbk := string([]byte{0xCF, 0xEE, 0xC1, 0xB4})
	assert.Equal(t, "项链", FixEntryName(gbk, true))
}
