// Package notify содержит центр уведомлений: одно активное уведомление
// с таймером автоматического скрытия
package notify

import (
	"sync"
	"time"

	"github.com/hazadus/playsounds/internal/clock"
)

// Level уровень уведомления
type Level string

const (
	// Danger - ошибка или предупреждение
	Danger Level = "danger"
	// Success - успешное действие
	Success Level = "success"
)

// DefaultDuration время показа уведомления по умолчанию
const DefaultDuration = 5 * time.Second

// Notification снимок состояния уведомления
type Notification struct {
	Message  string
	Level    Level
	Visible  bool
	Duration time.Duration
}

// Center хранит текущее уведомление. Передается явно всем, кто показывает
// или отображает уведомления
type Center struct {
	mu              sync.Mutex
	clock           clock.Clock
	defaultDuration time.Duration
	current         Notification
	timer           clock.Timer
	generation      uint64
	observers       []func(Notification)
}

// NewCenter создает центр уведомлений. duration <= 0 означает DefaultDuration
func NewCenter(c clock.Clock, duration time.Duration) *Center {
	if c == nil {
		c = clock.Real()
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Center{clock: c, defaultDuration: duration}
}

// Subscribe добавляет наблюдателя, вызываемого при каждом изменении уведомления
func (c *Center) Subscribe(fn func(Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Danger показывает уведомление об ошибке со временем показа по умолчанию
func (c *Center) Danger(message string) {
	c.Show(message, Danger, 0)
}

// Success показывает уведомление об успехе со временем показа по умолчанию
func (c *Center) Success(message string) {
	c.Show(message, Success, 0)
}

// Show заменяет текущее уведомление и перезапускает таймер скрытия.
// Пустой level означает Danger, duration <= 0 - время по умолчанию
func (c *Center) Show(message string, level Level, duration time.Duration) {
	if level == "" {
		level = Danger
	}
	if duration <= 0 {
		duration = c.defaultDuration
	}

	c.mu.Lock()
	c.stopTimerLocked()
	c.generation++
	gen := c.generation
	c.current = Notification{
		Message:  message,
		Level:    level,
		Visible:  true,
		Duration: duration,
	}
	c.timer = c.clock.AfterFunc(duration, func() { c.expire(gen) })
	snapshot, observers := c.current, c.observersLocked()
	c.mu.Unlock()

	notifyAll(observers, snapshot)
}

// Dismiss скрывает уведомление досрочно и отменяет таймер
func (c *Center) Dismiss() {
	c.mu.Lock()
	if !c.current.Visible {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.generation++
	c.current.Visible = false
	snapshot, observers := c.current, c.observersLocked()
	c.mu.Unlock()

	notifyAll(observers, snapshot)
}

// Current возвращает снимок текущего уведомления
func (c *Center) Current() Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// HasPendingTimer сообщает, ожидает ли центр срабатывания таймера скрытия
func (c *Center) HasPendingTimer() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

func (c *Center) expire(gen uint64) {
	c.mu.Lock()
	// Таймер мог проиграть гонку с Show или Dismiss
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.current.Visible = false
	snapshot, observers := c.current, c.observersLocked()
	c.mu.Unlock()

	notifyAll(observers, snapshot)
}

func (c *Center) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Center) observersLocked() []func(Notification) {
	return append([]func(Notification){}, c.observers...)
}

func notifyAll(observers []func(Notification), n Notification) {
	for _, fn := range observers {
		fn(n)
	}
}
