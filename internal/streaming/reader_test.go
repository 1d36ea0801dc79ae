package streaming

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewReader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "identity" {
			t.Errorf("Ожидался заголовок Accept-Encoding: identity")
		}
		w.Header().Set("Content-Type", "audio/mpeg; charset=binary")
		_, _ = w.Write([]byte("sound bytes"))
	}))
	defer server.Close()

	reader, err := NewReader(context.Background(), server.URL+"/sounds/bell.mp3", 0)
	if err != nil {
		t.Fatalf("Ошибка открытия потока: %v", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("Ошибка чтения: %v", err)
	}
	if string(data) != "sound bytes" {
		t.Errorf("Ожидалось 'sound bytes', получено %q", data)
	}
	if reader.ContentType() != "audio/mpeg" {
		t.Errorf("Ожидался тип audio/mpeg, получено %q", reader.ContentType())
	}
	if reader.Name() != "bell.mp3" {
		t.Errorf("Ожидалось имя bell.mp3, получено %q", reader.Name())
	}
}

func TestNewReaderHTTPError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewReader(context.Background(), server.URL+"/missing.mp3", 0)
	if err == nil || !strings.Contains(err.Error(), "ошибка HTTP") {
		t.Errorf("Ожидалась ошибка HTTP, получено %v", err)
	}
}

func TestNewReaderCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewReader(ctx, "http://127.0.0.1:1/a.mp3", 0); err == nil {
		t.Error("Ожидалась ошибка для отмененного контекста")
	}
}

func TestGetStreamStatus(t *testing.T) {
	tests := map[int]string{
		0:  "Streaming",
		2:  "Buffering...",
		5:  "Slow connection",
		10: "Connection problem",
	}
	for stuck, expected := range tests {
		if got := GetStreamStatus(stuck); got != expected {
			t.Errorf("GetStreamStatus(%d) = %q, ожидалось %q", stuck, got, expected)
		}
	}
}

func TestIsStreamURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/a.mp3": true,
		"HTTP://example.com/a.mp3":  true,
		"data:audio/wav;base64,AA":  false,
		"/home/user/a.mp3":          false,
		"file:///home/user/a.mp3":   false,
	}
	for src, expected := range tests {
		if got := IsStreamURL(src); got != expected {
			t.Errorf("IsStreamURL(%q) = %v, ожидалось %v", src, got, expected)
		}
	}
}
