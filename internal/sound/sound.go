// Package sound содержит модель звука для саундборда
package sound

import (
	"fmt"
	"strings"
)

// Origin определяет, откуда взят источник звука
type Origin string

const (
	// OriginURL - звук по ссылке
	OriginURL Origin = "url"
	// OriginFile - звук из импортированного файла (data URL)
	OriginFile Origin = "file"
	// OriginRecorded - записанный звук. Запись пока не реализована
	OriginRecorded Origin = "recorded"
)

// Origins возвращает все допустимые типы источников в порядке отображения в диалоге
func Origins() []Origin {
	return []Origin{OriginFile, OriginURL, OriginRecorded}
}

// Valid сообщает, является ли значение допустимым типом источника
func (o Origin) Valid() bool {
	switch o {
	case OriginURL, OriginFile, OriginRecorded:
		return true
	}
	return false
}

// ParseOrigin разбирает строковое значение типа источника
func ParseOrigin(s string) (Origin, error) {
	o := Origin(strings.ToLower(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", fmt.Errorf("неизвестный тип источника %q (ожидается url, file или recorded)", s)
	}
	return o, nil
}

// Sound запись о звуке. Идентичность звука - сам указатель на запись
type Sound struct {
	Name   string `json:"name"`
	Src    string `json:"src"`
	Origin Origin `json:"type"`
}

// New создает новую запись о звуке
func New(name, src string, origin Origin) *Sound {
	return &Sound{Name: name, Src: src, Origin: origin}
}

// IndexOf возвращает позицию звука в списке по идентичности или -1
func IndexOf(list []*Sound, s *Sound) int {
	for i, candidate := range list {
		if candidate == s {
			return i
		}
	}
	return -1
}

// FindByName ищет звук по имени
func FindByName(list []*Sound, name string) *Sound {
	for _, s := range list {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Names возвращает имена звуков в порядке списка
func Names(list []*Sound) []string {
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Name
	}
	return names
}
