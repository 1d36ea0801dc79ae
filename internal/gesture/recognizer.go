// Package gesture различает короткое нажатие, долгое нажатие с отпусканием
// и удержание по потоку событий press/release/leave
package gesture

import (
	"sync"
	"time"

	"github.com/hazadus/playsounds/internal/clock"
)

// DefaultThreshold порог долгого нажатия по умолчанию
const DefaultThreshold = 1000 * time.Millisecond

// State состояние сессии жеста
type State int

const (
	// Idle - нет активного нажатия
	Idle State = iota
	// Pressed - нажатие началось, порог еще не пройден
	Pressed
	// Confirmed - нажатие длится дольше порога
	Confirmed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case Confirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Options настройки распознавателя. Nil-колбэк означает, что исход отключен
type Options struct {
	Threshold time.Duration

	// OnClick вызывается при отпускании до порога
	OnClick func()
	// OnConfirmAfterHold вызывается при отпускании после порога
	OnConfirmAfterHold func()
	// OnEnterHold вызывается в момент прохождения порога, пока кнопка нажата
	OnEnterHold func()
}

// Recognizer конечный автомат жеста для одного элемента
type Recognizer struct {
	mu        sync.Mutex
	clock     clock.Clock
	opts      Options
	state     State
	startedAt time.Time
	timer     clock.Timer
	session   uint64
}

// NewRecognizer создает распознаватель. Threshold <= 0 заменяется на DefaultThreshold
func NewRecognizer(c clock.Clock, opts Options) *Recognizer {
	if c == nil {
		c = clock.Real()
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	return &Recognizer{clock: c, opts: opts}
}

// State возвращает текущее состояние
func (r *Recognizer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Press начинает новую сессию. Незавершенная сессия сбрасывается без колбэков
func (r *Recognizer) Press() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resetLocked()
	r.state = Pressed
	r.startedAt = r.clock.Now()
	session := r.session
	r.timer = r.clock.AfterFunc(r.opts.Threshold, func() { r.holdReached(session) })
}

// Release завершает сессию и вызывает OnClick или OnConfirmAfterHold
func (r *Recognizer) Release() {
	r.mu.Lock()
	if r.state == Idle {
		r.mu.Unlock()
		return
	}

	held := r.state == Confirmed || r.clock.Now().Sub(r.startedAt) >= r.opts.Threshold
	r.resetLocked()

	callback := r.opts.OnClick
	if held {
		callback = r.opts.OnConfirmAfterHold
	}
	r.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// Leave прерывает сессию без колбэков
func (r *Recognizer) Leave() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
}

// Cancel то же, что Leave: используется при отвязке элемента
func (r *Recognizer) Cancel() {
	r.Leave()
}

func (r *Recognizer) holdReached(session uint64) {
	r.mu.Lock()
	// Таймер мог сработать уже после отмены сессии
	if session != r.session || r.state != Pressed {
		r.mu.Unlock()
		return
	}
	r.state = Confirmed
	r.timer = nil
	callback := r.opts.OnEnterHold
	r.mu.Unlock()

	if callback != nil {
		callback()
	}
}

func (r *Recognizer) resetLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.session++
	r.state = Idle
}
