package storage

import (
	"context"
	"sync"
)

// Memory хранилище в памяти процесса с той же семантикой квоты
type Memory struct {
	mu       sync.Mutex
	quota    int64
	values   map[string]string
	failWith error
}

// NewMemory создает хранилище в памяти. quota <= 0 означает отсутствие лимита
func NewMemory(quota int64) *Memory {
	return &Memory{
		quota:  quota,
		values: make(map[string]string),
	}
}

// FailWith заставляет все последующие записи возвращать err (nil снимает сбой)
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Get возвращает значение ключа
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set записывает значение ключа
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}

	var others int64
	for k, v := range m.values {
		if k != key {
			others += entrySize(k, v)
		}
	}
	if err := checkQuota(m.quota, others, key, value); err != nil {
		return err
	}

	m.values[key] = value
	return nil
}

// Close ничего не делает
func (m *Memory) Close() error {
	return nil
}
