// Package uploader публикует локальный аудиофайл в S3, чтобы добавить его
// в саундборд ссылкой
package uploader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hazadus/playsounds/internal/media"
)

// KeyPrefix каталог бакета, куда публикуются звуки
const KeyPrefix = "sounds/"

// ObjectStore хранилище объектов, в которое публикуются файлы
type ObjectStore interface {
	UploadFile(ctx context.Context, reader io.Reader, key, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

// Service управляет публикацией файлов
type Service struct {
	store ObjectStore
	info  func(path string) (*media.FileInfo, error)
}

// NewService создает сервис публикации
func NewService(store ObjectStore) *Service {
	return &Service{store: store, info: media.GetFileInfo}
}

// Result результат публикации
type Result struct {
	URL      string
	Key      string
	Name     string
	FileInfo *media.FileInfo
}

// Publish загружает файл и возвращает URL для звука типа url.
// Пустое name заменяется именем из тегов файла
func (s *Service) Publish(ctx context.Context, filePath, name string, progressCallback func(int64)) (*Result, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("файл не найден: %s", filePath)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if ext != ".mp3" && ext != ".wav" {
		return nil, fmt.Errorf("неподдерживаемый формат %q: ожидается MP3 или WAV", ext)
	}

	fileInfo, err := s.info(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		name = media.SuggestName(filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if progressCallback != nil {
		reader = &ProgressReader{
			Reader:     file,
			Size:       fileInfo.Size,
			OnProgress: progressCallback,
		}
	}

	key := ObjectKey(name, ext)
	url, err := s.store.UploadFile(ctx, reader, key, media.DetectType(filePath, nil))
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки в S3: %w", err)
	}

	return &Result{
		URL:      url,
		Key:      key,
		Name:     name,
		FileInfo: fileInfo,
	}, nil
}

// Retract удаляет опубликованный файл, если звук так и не был добавлен
func (s *Service) Retract(ctx context.Context, result *Result) error {
	return s.store.DeleteFile(ctx, result.Key)
}

// ProgressReader структура для отслеживания прогресса чтения
type ProgressReader struct {
	io.Reader
	Size       int64
	OnProgress func(int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead)
	}
	return n, err
}

var unsafeKeyChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// ObjectKey ключ объекта для звука: sounds/<имя в нижнем регистре через дефис><ext>
func ObjectKey(name, ext string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = unsafeKeyChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-.")
	if slug == "" {
		slug = "sound"
	}
	return KeyPrefix + slug + ext
}

// FormatFileSize форматирует размер файла в читаемом виде
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration форматирует длительность времени
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
