package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Имена бэкендов в конфигурации
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// sqliteFileName имя файла базы внутри каталога хранилища
const sqliteFileName = "playsounds.sqlite"

// Open открывает бэкенд по имени из конфигурации
func Open(ctx context.Context, kind, dir string, quota int64) (Backend, error) {
	switch kind {
	case "", BackendFile:
		return OpenFile(dir, quota)
	case BackendSQLite:
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
		return OpenSQLite(ctx, filepath.Join(dir, sqliteFileName), quota)
	case BackendMemory:
		return NewMemory(quota), nil
	default:
		return nil, fmt.Errorf("неизвестный бэкенд хранилища %q", kind)
	}
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ошибка создания каталога хранилища: %w", err)
	}
	return nil
}
