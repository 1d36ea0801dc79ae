package media

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// SuggestName предлагает имя звука: название из тегов файла,
// иначе имя файла без расширения
func SuggestName(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return nameFromPath(path)
	}
	defer file.Close()

	return SuggestNameFromReader(file, path)
}

// SuggestNameFromReader то же, что SuggestName, для уже открытого файла
func SuggestNameFromReader(reader io.ReadSeeker, path string) string {
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return nameFromPath(path)
	}

	metadata, err := tag.ReadFrom(reader)
	if err != nil {
		return nameFromPath(path)
	}
	if title := strings.TrimSpace(metadata.Title()); title != "" {
		return title
	}
	return nameFromPath(path)
}

// nameFromPath имя файла без расширения. Для "Artist - Title" берется Title
func nameFromPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	if parts := strings.SplitN(name, " - ", 2); len(parts) == 2 {
		if title := strings.TrimSpace(parts[1]); title != "" {
			return title
		}
	}
	return strings.TrimSpace(name)
}
