package gesture

import (
	"sync"

	"github.com/hazadus/playsounds/internal/clock"
)

// Registry хранит распознаватели по ключам элементов и направляет им события
type Registry[K comparable] struct {
	mu       sync.Mutex
	clock    clock.Clock
	bindings map[K]*Binding[K]
}

// Binding привязка распознавателя к элементу
type Binding[K comparable] struct {
	registry   *Registry[K]
	key        K
	recognizer *Recognizer
}

// NewRegistry создает пустой реестр
func NewRegistry[K comparable](c clock.Clock) *Registry[K] {
	if c == nil {
		c = clock.Real()
	}
	return &Registry[K]{clock: c, bindings: make(map[K]*Binding[K])}
}

// Bind привязывает распознаватель к ключу. Прежняя привязка этого ключа отменяется
func (r *Registry[K]) Bind(key K, opts Options) *Binding[K] {
	b := &Binding[K]{
		registry:   r,
		key:        key,
		recognizer: NewRecognizer(r.clock, opts),
	}

	r.mu.Lock()
	old := r.bindings[key]
	r.bindings[key] = b
	r.mu.Unlock()

	if old != nil {
		old.recognizer.Cancel()
	}
	return b
}

// Unbind отвязывает элемент и отменяет ожидающий таймер
func (b *Binding[K]) Unbind() {
	r := b.registry
	r.mu.Lock()
	if r.bindings[b.key] == b {
		delete(r.bindings, b.key)
	}
	r.mu.Unlock()

	b.recognizer.Cancel()
}

// Press передает нажатие элементу. Возвращает false, если элемент не привязан
func (r *Registry[K]) Press(key K) bool {
	rec := r.lookup(key)
	if rec == nil {
		return false
	}
	rec.Press()
	return true
}

// Release передает отпускание элементу
func (r *Registry[K]) Release(key K) bool {
	rec := r.lookup(key)
	if rec == nil {
		return false
	}
	rec.Release()
	return true
}

// Leave сообщает элементу, что указатель покинул его
func (r *Registry[K]) Leave(key K) bool {
	rec := r.lookup(key)
	if rec == nil {
		return false
	}
	rec.Leave()
	return true
}

// State возвращает состояние жеста элемента (Idle для непривязанного)
func (r *Registry[K]) State(key K) State {
	rec := r.lookup(key)
	if rec == nil {
		return Idle
	}
	return rec.State()
}

// Bound сообщает, привязан ли ключ
func (r *Registry[K]) Bound(key K) bool {
	return r.lookup(key) != nil
}

// Len количество привязанных элементов
func (r *Registry[K]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bindings)
}

// UnbindAll отвязывает все элементы
func (r *Registry[K]) UnbindAll() {
	r.mu.Lock()
	bindings := r.bindings
	r.bindings = make(map[K]*Binding[K])
	r.mu.Unlock()

	for _, b := range bindings {
		b.recognizer.Cancel()
	}
}

func (r *Registry[K]) lookup(key K) *Recognizer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bindings[key]; ok {
		return b.recognizer
	}
	return nil
}
