// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazadus/playsounds/internal/s3"
)

// DefaultPath путь к файлу конфигурации по умолчанию
const DefaultPath = "~/.playsounds.yaml"

// Значения по умолчанию
const (
	DefaultStorageBackend  = "file"
	DefaultStoragePath     = "~/.playsounds"
	DefaultStorageQuota    = 5 << 20
	DefaultHoldThresholdMs = 1000
	DefaultNotificationMs  = 5000
)

// UnlimitedQuota значение storage_quota, снимающее ограничение размера хранилища.
// Ноль в файле означает квоту по умолчанию
const UnlimitedQuota = -1

// Config структура для хранения конфигурации приложения
type Config struct {
	StorageBackend  string `yaml:"storage_backend"`
	StoragePath     string `yaml:"storage_path"`
	StorageQuota    int64  `yaml:"storage_quota"`
	HoldThresholdMs int    `yaml:"hold_threshold_ms"`
	NotificationMs  int    `yaml:"notification_ms"`
	LogFile         string `yaml:"log_file"`

	AwsBucketName string `yaml:"aws_bucket_name"`
	AwsAccessKey  string `yaml:"aws_access_key"`
	AwsSecretKey  string `yaml:"aws_secret_key"`
	AwsRegion     string `yaml:"aws_region"`
	AwsEndpoint   string `yaml:"aws_endpoint"`
}

// Default возвращает конфигурацию по умолчанию с раскрытыми путями
func Default() (*Config, error) {
	config := &Config{}
	if err := config.applyDefaults(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Отсутствующий файл означает конфигурацию по умолчанию
func LoadConfig(filePath string) (*Config, error) {
	path, err := ExpandHome(filePath)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Работаем на значениях по умолчанию
	case err != nil:
		return nil, fmt.Errorf("ошибка чтения конфигурации: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка разбора конфигурации yaml: %w", err)
		}
	}

	if err := config.applyDefaults(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("неизвестный storage_backend %q (ожидается file, sqlite или memory)", c.StorageBackend)
	}
	if c.StorageQuota < UnlimitedQuota {
		return fmt.Errorf("storage_quota должен быть положительным или %d (без ограничения)", UnlimitedQuota)
	}
	if c.HoldThresholdMs < 0 || c.NotificationMs < 0 {
		return fmt.Errorf("hold_threshold_ms и notification_ms не могут быть отрицательными")
	}
	return nil
}

// HoldThreshold порог долгого нажатия
func (c *Config) HoldThreshold() time.Duration {
	return time.Duration(c.HoldThresholdMs) * time.Millisecond
}

// NotificationDuration время показа уведомления
func (c *Config) NotificationDuration() time.Duration {
	return time.Duration(c.NotificationMs) * time.Millisecond
}

// S3 настройки публикации в S3
func (c *Config) S3() *s3.Config {
	return &s3.Config{
		Region:     c.AwsRegion,
		AccessKey:  c.AwsAccessKey,
		SecretKey:  c.AwsSecretKey,
		Endpoint:   c.AwsEndpoint,
		BucketName: c.AwsBucketName,
	}
}

func (c *Config) applyDefaults() error {
	if c.StorageBackend == "" {
		c.StorageBackend = DefaultStorageBackend
	}
	if c.StoragePath == "" {
		c.StoragePath = DefaultStoragePath
	}
	if c.StorageQuota == 0 {
		c.StorageQuota = DefaultStorageQuota
	}
	if c.HoldThresholdMs == 0 {
		c.HoldThresholdMs = DefaultHoldThresholdMs
	}
	if c.NotificationMs == 0 {
		c.NotificationMs = DefaultNotificationMs
	}

	var err error
	if c.StoragePath, err = ExpandHome(c.StoragePath); err != nil {
		return err
	}
	if c.LogFile, err = ExpandHome(c.LogFile); err != nil {
		return err
	}
	return nil
}

// ExpandHome раскрывает ведущую тильду в домашний каталог
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("ошибка определения домашнего каталога: %w", err)
	}
	return home + strings.TrimPrefix(path, "~"), nil
}
