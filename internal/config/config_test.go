package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazadus/playsounds/internal/storage"
)

func writeConfig(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	testConfig := Config{
		StorageBackend:  "sqlite",
		StoragePath:     "/var/lib/playsounds",
		StorageQuota:    1024,
		HoldThresholdMs: 750,
		NotificationMs:  3000,
		LogFile:         "~/playsounds.log",
		AwsBucketName:   "test-bucket",
		AwsAccessKey:    "test-access-key",
		AwsSecretKey:    "test-secret-key",
		AwsRegion:       "us-east-1",
		AwsEndpoint:     "https://s3.amazonaws.com",
	}

	data, err := yaml.Marshal(testConfig)
	if err != nil {
		t.Fatalf("Ошибка сериализации конфигурации: %v", err)
	}

	loadedConfig, err := LoadConfig(writeConfig(t, data))
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := testConfig
	expected.LogFile = filepath.Join(home, "playsounds.log")
	if *loadedConfig != expected {
		t.Errorf("Ожидалось %+v, получено %+v", expected, *loadedConfig)
	}

	if loadedConfig.HoldThreshold() != 750*time.Millisecond {
		t.Errorf("Неверный порог: %v", loadedConfig.HoldThreshold())
	}
	if loadedConfig.NotificationDuration() != 3*time.Second {
		t.Errorf("Неверная длительность уведомления: %v", loadedConfig.NotificationDuration())
	}

	s3 := loadedConfig.S3()
	if s3.BucketName != "test-bucket" || s3.Region != "us-east-1" || s3.AccessKey != "test-access-key" {
		t.Errorf("Неверные настройки S3: %+v", s3)
	}
}

func TestDefaultConfig(t *testing.T) {
	minimalConfig := map[string]string{
		"aws_bucket_name": "test-bucket",
	}
	data, err := yaml.Marshal(minimalConfig)
	if err != nil {
		t.Fatalf("Ошибка сериализации конфигурации: %v", err)
	}

	loadedConfig, err := LoadConfig(writeConfig(t, data))
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	home, _ := os.UserHomeDir()
	if loadedConfig.StoragePath != filepath.Join(home, ".playsounds") {
		t.Errorf("Ожидался StoragePath по умолчанию, получено %s", loadedConfig.StoragePath)
	}
	if loadedConfig.StorageBackend != "file" || loadedConfig.StorageQuota != 5<<20 {
		t.Errorf("Неверные значения по умолчанию: %+v", loadedConfig)
	}
	if loadedConfig.HoldThreshold() != time.Second || loadedConfig.NotificationDuration() != 5*time.Second {
		t.Errorf("Неверные интервалы по умолчанию: %+v", loadedConfig)
	}
	if loadedConfig.LogFile != "" {
		t.Errorf("Файл журнала по умолчанию не задан, получено %q", loadedConfig.LogFile)
	}
}

func TestLoadConfigNonExistentFile(t *testing.T) {
	loadedConfig, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Отсутствующий файл должен давать значения по умолчанию: %v", err)
	}

	expected, _ := Default()
	if *loadedConfig != *expected {
		t.Errorf("Ожидалось %+v, получено %+v", *expected, *loadedConfig)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	invalidYAML := `aws_bucket_name: "test-bucket"
storage_backend: [unclosed array
`
	_, err := LoadConfig(writeConfig(t, []byte(invalidYAML)))

	if err == nil {
		t.Fatal("Ожидалась ошибка при загрузке некорректного YAML")
	}
	if !strings.Contains(err.Error(), "yaml") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"бэкенд", "storage_backend: cloud\n", "storage_backend"},
		{"квота", "storage_quota: -2\n", "storage_quota"},
		{"порог", "hold_threshold_ms: -5\n", "hold_threshold_ms"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, []byte(test.yaml)))
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Ожидалась ошибка с %q, получено %v", test.wantErr, err)
			}
		})
	}
}

func TestLoadConfigUnlimitedQuota(t *testing.T) {
	loadedConfig, err := LoadConfig(writeConfig(t, []byte("storage_quota: -1\n")))
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	if loadedConfig.StorageQuota != UnlimitedQuota {
		t.Errorf("Ожидалась квота без ограничения, получено %d", loadedConfig.StorageQuota)
	}

	backend, err := storage.Open(context.Background(), storage.BackendMemory, "", loadedConfig.StorageQuota)
	if err != nil {
		t.Fatal(err)
	}
	defer backend.Close()
	big := strings.Repeat("x", DefaultStorageQuota+1)
	if err := backend.Set(context.Background(), "k", big); err != nil {
		t.Errorf("Без ограничения запись любого размера должна проходить: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		path     string
		expected string
	}{
		{"~", home},
		{"~/sounds", filepath.Join(home, "sounds")},
		{"/abs/~/path", "/abs/~/path"},
		{"~user/x", "~user/x"},
		{"", ""},
	}

	for _, test := range tests {
		got, err := ExpandHome(test.path)
		if err != nil {
			t.Fatalf("ExpandHome(%q): %v", test.path, err)
		}
		if got != test.expected {
			t.Errorf("ExpandHome(%q) = %q, ожидалось %q", test.path, got, test.expected)
		}
	}
}
