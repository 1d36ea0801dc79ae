// Package storage сохраняет список звуков в локальное key/value хранилище
// и классифицирует ошибки записи
package storage

import (
	"context"
	"encoding/json"
	"log"

	"github.com/pkg/errors"

	"github.com/hazadus/playsounds/internal/sound"
)

const (
	// DefaultKey ключ, под которым хранится список звуков
	DefaultKey = "playSounds"
	// DefaultQuota лимит хранилища по умолчанию (как у localStorage в браузере)
	DefaultQuota int64 = 5 << 20
)

// ErrQuotaExceeded возвращается бэкендом, если запись не помещается в лимит хранилища
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend простое key/value хранилище строк
type Backend interface {
	// Get возвращает значение ключа. ok == false, если ключа нет
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set записывает значение ключа
	Set(ctx context.Context, key, value string) error
	Close() error
}

// ErrorKind категория ошибки записи
type ErrorKind int

const (
	// KindOther любая ошибка, кроме переполнения хранилища
	KindOther ErrorKind = iota
	// KindQuotaExceeded хранилище отказало в записи из-за лимита
	KindQuotaExceeded
)

func (k ErrorKind) String() string {
	if k == KindQuotaExceeded {
		return "quota_exceeded"
	}
	return "other"
}

// StoreError ошибка сохранения списка
type StoreError struct {
	Kind ErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// QuotaExceeded сообщает, что запись отклонена из-за лимита хранилища
func (e *StoreError) QuotaExceeded() bool {
	return e.Kind == KindQuotaExceeded
}

// Store загружает и сохраняет список звуков под одним ключом
type Store struct {
	backend Backend
	key     string
}

// NewStore создает хранилище списка поверх бэкенда
func NewStore(backend Backend, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{backend: backend, key: key}
}

// Load читает сохраненный список. Отсутствующее или поврежденное значение дает пустой список
func (s *Store) Load(ctx context.Context) []*sound.Sound {
	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		log.Printf("storage: не удалось прочитать %q: %v", s.key, err)
		return []*sound.Sound{}
	}
	if !ok || raw == "" {
		return []*sound.Sound{}
	}

	var records []*sound.Sound
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Printf("storage: поврежденный список в %q: %v", s.key, err)
		return []*sound.Sound{}
	}

	sounds := make([]*sound.Sound, 0, len(records))
	for _, r := range records {
		if r == nil || r.Name == "" {
			continue
		}
		if !r.Origin.Valid() {
			log.Printf("storage: звук %q с неизвестным типом %q пропущен", r.Name, r.Origin)
			continue
		}
		sounds = append(sounds, r)
	}
	return sounds
}

// Save сериализует и записывает список. Возвращает *StoreError при неудаче.
// Входной список не изменяется, повторных попыток нет
func (s *Store) Save(ctx context.Context, list []*sound.Sound) error {
	data, err := json.Marshal(list)
	if err != nil {
		return &StoreError{Kind: KindOther, Err: errors.Wrap(err, "failed to encode sounds")}
	}

	if err := s.backend.Set(ctx, s.key, string(data)); err != nil {
		kind := KindOther
		if errors.Is(err, ErrQuotaExceeded) {
			kind = KindQuotaExceeded
		}
		return &StoreError{Kind: kind, Err: err}
	}
	return nil
}

// Close закрывает бэкенд
func (s *Store) Close() error {
	return s.backend.Close()
}

// entrySize размер записи в байтах, как его считает квота
func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}

// checkQuota проверяет, что новое значение поместится с учетом остальных ключей
func checkQuota(quota, others int64, key, value string) error {
	if quota <= 0 {
		return nil
	}
	if need := others + entrySize(key, value); need > quota {
		return errors.Wrapf(ErrQuotaExceeded, "%d bytes needed, %d allowed", need, quota)
	}
	return nil
}
