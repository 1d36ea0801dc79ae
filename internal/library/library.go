// Package library владеет упорядоченным списком звуков: валидирует изменения,
// сохраняет список после каждого изменения и сообщает о результате через
// центр уведомлений
package library

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/hazadus/playsounds/internal/notify"
	"github.com/hazadus/playsounds/internal/reorder"
	"github.com/hazadus/playsounds/internal/sound"
	"github.com/hazadus/playsounds/internal/storage"
)

// Сообщения для пользователя
const (
	MsgNameRequired   = "Add a name to the sound"
	MsgSourceRequired = "Choose a source"
	MsgQuotaExceeded  = "Maximum storage limit reached. Modifications are currently not saved in the browser."
)

var (
	// ErrDragInProgress возвращается при попытке изменить список во время перетаскивания
	ErrDragInProgress = errors.New("список нельзя менять во время перетаскивания")
	// ErrNotFound звук не принадлежит библиотеке
	ErrNotFound = errors.New("звук не найден")
)

// ValidationError ошибка проверки полей звука. Message показывается пользователю
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Library упорядоченный список звуков
type Library struct {
	store   *storage.Store
	center  *notify.Center
	sounds  []*sound.Sound
	playing *sound.Sound
	editing *sound.Sound
	drag    reorder.Controller[*sound.Sound]
}

// New создает пустую библиотеку
func New(store *storage.Store, center *notify.Center) *Library {
	return &Library{
		store:  store,
		center: center,
		sounds: []*sound.Sound{},
	}
}

// Open создает библиотеку и загружает в нее сохраненный список
func Open(ctx context.Context, store *storage.Store, center *notify.Center) *Library {
	l := New(store, center)
	l.sounds = store.Load(ctx)
	return l
}

// Sounds возвращает копию списка
func (l *Library) Sounds() []*sound.Sound {
	return append([]*sound.Sound(nil), l.sounds...)
}

// Len количество звуков
func (l *Library) Len() int {
	return len(l.sounds)
}

// Find ищет звук по имени
func (l *Library) Find(name string) *sound.Sound {
	return sound.FindByName(l.sounds, name)
}

// Contains сообщает, принадлежит ли звук библиотеке
func (l *Library) Contains(s *sound.Sound) bool {
	return s != nil && sound.IndexOf(l.sounds, s) >= 0
}

// Add проверяет поля, добавляет звук в конец списка и сохраняет список
func (l *Library) Add(ctx context.Context, name, src string, origin sound.Origin) (*sound.Sound, error) {
	if l.drag.Active() {
		return nil, ErrDragInProgress
	}

	name, src, origin, err := l.validate(nil, name, src, origin)
	if err != nil {
		return nil, err
	}

	s := sound.New(name, src, origin)
	l.sounds = append(l.sounds, s)
	l.center.Success(fmt.Sprintf("Sound %s added", name))
	l.save(ctx)
	return s, nil
}

// Edit меняет поля звука на месте и сохраняет список
func (l *Library) Edit(ctx context.Context, s *sound.Sound, name, src string, origin sound.Origin) error {
	if l.drag.Active() {
		return ErrDragInProgress
	}
	if !l.Contains(s) {
		return ErrNotFound
	}

	name, src, origin, err := l.validate(s, name, src, origin)
	if err != nil {
		return err
	}

	s.Name = name
	s.Src = src
	s.Origin = origin
	l.center.Success(fmt.Sprintf("Sound %s updated", name))
	l.save(ctx)
	return nil
}

// Delete удаляет звук и сбрасывает ссылки на него
func (l *Library) Delete(ctx context.Context, s *sound.Sound) error {
	if l.drag.Active() {
		return ErrDragInProgress
	}
	idx := sound.IndexOf(l.sounds, s)
	if s == nil || idx < 0 {
		return ErrNotFound
	}

	l.sounds = append(l.sounds[:idx:idx], l.sounds[idx+1:]...)
	if l.playing == s {
		l.playing = nil
	}
	if l.editing == s {
		l.editing = nil
	}
	l.center.Success(fmt.Sprintf("Sound %s deleted", s.Name))
	l.save(ctx)
	return nil
}

// SetPlaying запоминает звук, который сейчас играет (nil - ничего не играет)
func (l *Library) SetPlaying(s *sound.Sound) {
	if s != nil && !l.Contains(s) {
		return
	}
	l.playing = s
}

// Playing возвращает звук, который сейчас играет
func (l *Library) Playing() *sound.Sound {
	return l.playing
}

// SetEditing запоминает редактируемый звук (nil - редактирование закрыто)
func (l *Library) SetEditing(s *sound.Sound) {
	if s != nil && !l.Contains(s) {
		return
	}
	l.editing = s
}

// Editing возвращает редактируемый звук
func (l *Library) Editing() *sound.Sound {
	return l.editing
}

// BeginDrag начинает перетаскивание звука
func (l *Library) BeginDrag(s *sound.Sound) bool {
	return l.drag.BeginDrag(l.sounds, s)
}

// DragOver переносит место вставки к target (nil - в конец)
func (l *Library) DragOver(target *sound.Sound) {
	l.drag.DragOver(l.sounds, target)
}

// Drop завершает перетаскивание, перемещая звук к target (nil - в конец).
// Возвращает true, если порядок изменился
func (l *Library) Drop(ctx context.Context, target *sound.Sound) bool {
	if !l.drag.Active() {
		return false
	}

	next := l.drag.Drop(l.sounds, target)
	if sameOrder(next, l.sounds) {
		return false
	}
	l.sounds = next
	l.save(ctx)
	return true
}

// EndDrag отменяет перетаскивание без изменения списка
func (l *Library) EndDrag() {
	l.drag.EndDrag()
}

// Dragging сообщает, идет ли перетаскивание
func (l *Library) Dragging() bool {
	return l.drag.Active()
}

// DragSource возвращает перетаскиваемый звук
func (l *Library) DragSource() *sound.Sound {
	idx := l.drag.SourceIndex()
	if idx < 0 || idx >= len(l.sounds) {
		return nil
	}
	return l.sounds[idx]
}

// InsertionIndex текущий индекс вставки или reorder.None
func (l *Library) InsertionIndex() int {
	return l.drag.InsertionIndex()
}

// InsertionTarget звук, на место которого сейчас указывает вставка (nil - конец)
func (l *Library) InsertionTarget() *sound.Sound {
	return l.drag.InsertionTarget(l.sounds)
}

// PlaceholderSlot позиция заглушки в списке без перетаскиваемого звука
func (l *Library) PlaceholderSlot() int {
	return l.drag.PlaceholderSlot(l.sounds)
}

// Move перемещает звук на место before (nil - в конец) одним действием
func (l *Library) Move(ctx context.Context, s, before *sound.Sound) error {
	if l.drag.Active() {
		return ErrDragInProgress
	}
	if !l.BeginDrag(s) {
		return ErrNotFound
	}
	if before != nil && !l.Contains(before) {
		l.EndDrag()
		return ErrNotFound
	}
	l.DragOver(before)
	l.Drop(ctx, before)
	return nil
}

func (l *Library) validate(self *sound.Sound, name, src string, origin sound.Origin) (string, string, sound.Origin, error) {
	name = strings.TrimSpace(name)
	src = strings.TrimSpace(src)

	if name == "" {
		return "", "", "", l.reject(MsgNameRequired)
	}
	if src == "" {
		return "", "", "", l.reject(MsgSourceRequired)
	}
	if existing := l.Find(name); existing != nil && existing != self {
		return "", "", "", l.reject(fmt.Sprintf("A sound named %s already exists", name))
	}

	if origin == "" {
		origin = inferOrigin(src)
	}
	if !origin.Valid() {
		return "", "", "", l.reject(fmt.Sprintf("Unknown sound type %s", origin))
	}
	return name, src, origin, nil
}

func (l *Library) reject(message string) error {
	l.center.Danger(message)
	return &ValidationError{Message: message}
}

// save записывает список. Ошибка записи только показывается: изменения в памяти остаются
func (l *Library) save(ctx context.Context) {
	err := l.store.Save(ctx, l.sounds)
	if err == nil {
		return
	}
	log.Printf("library: не удалось сохранить список: %v", err)

	var storeErr *storage.StoreError
	if errors.As(err, &storeErr) && storeErr.QuotaExceeded() {
		l.center.Danger(MsgQuotaExceeded)
		return
	}
	l.center.Danger(err.Error())
}

func inferOrigin(src string) sound.Origin {
	if strings.HasPrefix(src, "data:") {
		return sound.OriginFile
	}
	return sound.OriginURL
}

func sameOrder(a, b []*sound.Sound) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
