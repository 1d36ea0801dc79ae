package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	backend, err := OpenFile(dir, 0)
	if err != nil {
		t.Fatalf("Ошибка открытия хранилища: %v", err)
	}

	if _, ok, err := backend.Get(ctx, "playSounds"); ok || err != nil {
		t.Fatalf("Отсутствующий ключ: ok=%v err=%v", ok, err)
	}

	if err := backend.Set(ctx, "playSounds", "[]"); err != nil {
		t.Fatalf("Ошибка записи: %v", err)
	}

	// Новое открытие видит записанное значение
	reopened, _ := OpenFile(dir, 0)
	got, ok, err := reopened.Get(ctx, "playSounds")
	if err != nil || !ok || got != "[]" {
		t.Errorf("Ожидалось значение [], получено %q (ok=%v, err=%v)", got, ok, err)
	}

	// Временные файлы не остаются после записи
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".write-") {
			t.Errorf("Остался временный файл %s", e.Name())
		}
	}
}

func TestFileBackendEscapesKeys(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend, _ := OpenFile(dir, 0)

	if err := backend.Set(ctx, "a/b", "x"); err != nil {
		t.Fatalf("Ошибка записи: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a%2Fb.json")); err != nil {
		t.Errorf("Ожидался файл с экранированным ключом: %v", err)
	}
}

func TestFileBackendQuota(t *testing.T) {
	ctx := context.Background()
	backend, _ := OpenFile(t.TempDir(), 16)

	if err := backend.Set(ctx, "k", "0123456789"); err != nil {
		t.Fatalf("Запись в пределах квоты должна пройти: %v", err)
	}
	err := backend.Set(ctx, "other", "0123456789")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Ожидалось переполнение, получено %v", err)
	}

	got, _, _ := backend.Get(ctx, "k")
	if got != "0123456789" {
		t.Errorf("Прежнее значение должно сохраниться, получено %q", got)
	}
}

func TestSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.sqlite")

	backend, err := OpenSQLite(ctx, path, DefaultQuota)
	if err != nil {
		t.Fatalf("Ошибка открытия базы: %v", err)
	}
	defer backend.Close()

	if _, ok, err := backend.Get(ctx, "playSounds"); ok || err != nil {
		t.Fatalf("Отсутствующий ключ: ok=%v err=%v", ok, err)
	}

	if err := backend.Set(ctx, "playSounds", `[{"name":"A"}]`); err != nil {
		t.Fatalf("Ошибка записи: %v", err)
	}
	if err := backend.Set(ctx, "playSounds", `[]`); err != nil {
		t.Fatalf("Ошибка перезаписи: %v", err)
	}

	got, ok, err := backend.Get(ctx, "playSounds")
	if err != nil || !ok || got != "[]" {
		t.Errorf("Ожидалось значение [], получено %q (ok=%v, err=%v)", got, ok, err)
	}
}

func TestSQLiteBackendQuota(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.sqlite")

	backend, err := OpenSQLite(ctx, path, 64)
	if err != nil {
		t.Fatalf("Ошибка открытия базы: %v", err)
	}
	defer backend.Close()

	err = backend.Set(ctx, "playSounds", strings.Repeat("x", 128))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Ожидалось переполнение, получено %v", err)
	}

	store := NewStore(backend, DefaultKey)
	if got := store.Load(ctx); len(got) != 0 {
		t.Errorf("После отказа в записи список должен быть пуст, получено %d", len(got))
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), "cloud", t.TempDir(), 0); err == nil {
		t.Error("Ожидалась ошибка для неизвестного бэкенда")
	}
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	for _, kind := range []string{BackendFile, BackendSQLite, BackendMemory} {
		backend, err := Open(ctx, kind, t.TempDir(), DefaultQuota)
		if err != nil {
			t.Errorf("Open(%q): %v", kind, err)
			continue
		}
		if err := backend.Set(ctx, DefaultKey, "[]"); err != nil {
			t.Errorf("%s: ошибка записи: %v", kind, err)
		}
		backend.Close()
	}
}
