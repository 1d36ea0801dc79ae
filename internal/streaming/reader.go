// Package streaming читает звук по HTTP порциями, не дожидаясь загрузки целиком
package streaming

import (
	"bufio"
	"context"
	"fmt"
	"mime"
	"net"
	"net/http"
	"path"
	"strings"
	"time"
)

// DefaultBufferSize размер буфера чтения по умолчанию
const DefaultBufferSize = 64 * 1024

// Reader буферизованный поток HTTP-ответа
type Reader struct {
	reader      *bufio.Reader
	resp        *http.Response
	contentType string
}

// client без общего таймаута: звук может читаться дольше любого фиксированного лимита
var client = &http.Client{
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

// NewReader открывает поток по URL. bufferSize <= 0 означает DefaultBufferSize
func NewReader(ctx context.Context, url string, bufferSize int) (*Reader, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Accept", "audio/*")
	req.Header.Set("User-Agent", "playsounds/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("ошибка HTTP: %s", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	return &Reader{
		reader:      bufio.NewReaderSize(resp.Body, bufferSize),
		resp:        resp,
		contentType: contentType,
	}, nil
}

// Read реализует io.Reader
func (sr *Reader) Read(p []byte) (n int, err error) {
	return sr.reader.Read(p)
}

// Close закрывает соединение
func (sr *Reader) Close() error {
	return sr.resp.Body.Close()
}

// ContentType MIME-тип из заголовка ответа без параметров
func (sr *Reader) ContentType() string {
	return sr.contentType
}

// Name имя ресурса из пути URL, с учетом перенаправлений
func (sr *Reader) Name() string {
	if sr.resp.Request == nil || sr.resp.Request.URL == nil {
		return ""
	}
	return path.Base(sr.resp.Request.URL.Path)
}

// GetStreamStatus возвращает текстовое описание состояния потока
func GetStreamStatus(stuckCount int) string {
	switch {
	case stuckCount == 0:
		return "Streaming"
	case stuckCount <= 3:
		return "Buffering..."
	case stuckCount <= 5:
		return "Slow connection"
	default:
		return "Connection problem"
	}
}

// IsStreamURL сообщает, нужно ли читать источник по сети
func IsStreamURL(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
