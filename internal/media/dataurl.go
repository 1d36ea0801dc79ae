// Package media импортирует аудиофайлы: кодирует их в data URL
// и предлагает имя звука по тегам
package media

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

// audioTypes MIME-типы распространенных аудиоформатов.
// Встроенная таблица пакета mime их не содержит
var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".webm": "audio/webm",
}

// ReadDataURL читает файл и кодирует его в data URL вида data:<mime>;base64,...
func ReadDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения файла: %w", err)
	}
	return EncodeDataURL(data, DetectType(path, data)), nil
}

// EncodeDataURL кодирует данные в data URL с указанным MIME-типом
func EncodeDataURL(data []byte, contentType string) string {
	return dataurl.New(data, normalizeType(contentType)).String()
}

// DecodeDataURL раскодирует data URL и возвращает данные и MIME-тип
func DecodeDataURL(src string) ([]byte, string, error) {
	du, err := dataurl.DecodeString(src)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка разбора data URL: %w", err)
	}
	return du.Data, du.ContentType(), nil
}

// IsDataURL сообщает, является ли источник data URL
func IsDataURL(src string) bool {
	return strings.HasPrefix(src, "data:")
}

// DetectType определяет MIME-тип по расширению, а затем по содержимому
func DetectType(path string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return normalizeType(t)
	}
	if isWave(data) {
		return "audio/wav"
	}
	return normalizeType(http.DetectContentType(data))
}

// ExtensionFor возвращает расширение файла для MIME-типа аудио
func ExtensionFor(contentType string) string {
	contentType = normalizeType(contentType)
	for ext, t := range audioTypes {
		if t == contentType && ext != ".oga" {
			return ext
		}
	}
	switch contentType {
	case "audio/wave", "audio/x-wav":
		return ".wav"
	case "audio/mp3":
		return ".mp3"
	}
	return ""
}

// normalizeType отбрасывает параметры и гарантирует форму type/subtype
func normalizeType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || strings.Count(mediaType, "/") != 1 {
		return "application/octet-stream"
	}
	return mediaType
}

func isWave(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
}
