package storage

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

const fileExt = ".json"

// File хранит каждый ключ в отдельном файле внутри каталога
type File struct {
	dir   string
	quota int64
}

// OpenFile открывает (и при необходимости создает) каталог хранилища
func OpenFile(dir string, quota int64) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create storage directory")
	}
	return &File{dir: dir, quota: quota}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+fileExt)
}

// Get читает значение ключа
func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "failed to read key %q", key)
	}
	return string(data), true, nil
}

// Set атомарно записывает значение ключа: временный файл и переименование
func (f *File) Set(_ context.Context, key, value string) error {
	others, err := f.usageExcept(key)
	if err != nil {
		return err
	}
	if err := checkQuota(f.quota, others, key, value); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, ".write-*")
	if err != nil {
		return classifyWriteErr(err, key)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return classifyWriteErr(err, key)
	}
	if err := tmp.Close(); err != nil {
		return classifyWriteErr(err, key)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		return classifyWriteErr(err, key)
	}
	return nil
}

// Close ничего не делает: файлы не держатся открытыми
func (f *File) Close() error {
	return nil
}

// usageExcept считает занятое место всеми ключами, кроме указанного
func (f *File) usageExcept(key string) (int64, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list storage directory")
	}

	skip := filepath.Base(f.path(key))
	var used int64
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == skip || !strings.HasSuffix(name, fileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		k, err := url.PathUnescape(strings.TrimSuffix(name, fileExt))
		if err != nil {
			k = name
		}
		used += int64(len(k)) + info.Size()
	}
	return used, nil
}

func classifyWriteErr(err error, key string) error {
	if errors.Is(err, syscall.ENOSPC) {
		return errors.Wrapf(ErrQuotaExceeded, "failed to write key %q: %v", key, err)
	}
	return errors.Wrapf(err, "failed to write key %q", key)
}
