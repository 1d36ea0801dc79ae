// Package editor содержит диалог добавления и редактирования звука для TUI
package editor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/playsounds/internal/config"
	"github.com/hazadus/playsounds/internal/library"
	"github.com/hazadus/playsounds/internal/media"
	"github.com/hazadus/playsounds/internal/sound"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(10)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(10)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Margin(1, 0)
)

// SavedMsg отправляется когда звук добавлен или изменен
type SavedMsg struct {
	Sound *sound.Sound
}

// DeletedMsg отправляется когда звук удален из диалога
type DeletedMsg struct {
	Sound *sound.Sound
}

// GoBackMsg отправляется при закрытии диалога без изменений
type GoBackMsg struct{}

// focusTarget элемент формы, на котором стоит фокус
type focusTarget int

const (
	nameField focusTarget = iota
	originField
	sourceField
	saveButton
	numTargets
)

// Model представляет диалог звука
type Model struct {
	ctx    context.Context
	lib    *library.Library
	sound  *sound.Sound
	token  uint64
	name   textinput.Model
	source textinput.Model
	origin sound.Origin
	focus  focusTarget

	// Импорт файла: pendingPath читается сейчас, loadedPath уже прочитан в loadedSrc
	pendingPath   string
	loadedPath    string
	loadedSrc     string
	saveAfterLoad bool

	err string
}

// NewModel создает диалог. s == nil означает добавление нового звука.
// token отличает этот диалог от ранее открытых: ответы чтения файлов
// с чужим токеном отбрасываются
func NewModel(ctx context.Context, lib *library.Library, s *sound.Sound, token uint64) *Model {
	m := &Model{
		ctx:    ctx,
		lib:    lib,
		sound:  s,
		token:  token,
		name:   textinput.New(),
		source: textinput.New(),
		origin: sound.Origins()[0],
	}

	m.name.Placeholder = "Sound name"
	m.name.CharLimit = 64

	if s != nil {
		m.name.SetValue(s.Name)
		m.origin = s.Origin
		if s.Origin == sound.OriginFile {
			m.loadedSrc = s.Src
		} else {
			m.source.SetValue(s.Src)
		}
	}
	m.updatePlaceholder()
	m.setFocus(nameField)
	return m
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Token токен сессии диалога
func (m *Model) Token() uint64 {
	return m.token
}

// Sound редактируемый звук или nil при добавлении
func (m *Model) Sound() *sound.Sound {
	return m.sound
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "ctrl+s":
			return m, m.save()

		case "ctrl+d":
			return m, m.delete()

		case "left", "right":
			if m.focus == originField {
				m.cycleOrigin(msg.String() == "right")
				return m, nil
			}

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			if s == "enter" && m.focus == saveButton {
				return m, m.save()
			}

			var cmd tea.Cmd
			if m.focus == sourceField {
				cmd = m.loadSource()
			}

			next := m.focus + 1
			if s == "up" || s == "shift+tab" {
				next = m.focus - 1
			}
			if next >= numTargets {
				next = 0
			} else if next < 0 {
				next = numTargets - 1
			}

			return m, tea.Batch(cmd, m.setFocus(next))
		}

	case media.FileLoadedMsg:
		return m, m.fileLoaded(msg)

	case tea.WindowSizeMsg:
		m.name.Width = max(20, msg.Width-20)
		m.source.Width = max(20, msg.Width-20)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case nameField:
		m.name, cmd = m.name.Update(msg)
	case sourceField:
		m.source, cmd = m.source.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(target focusTarget) tea.Cmd {
	m.focus = target

	var cmd tea.Cmd
	for _, field := range []struct {
		input  *textinput.Model
		target focusTarget
	}{
		{&m.name, nameField},
		{&m.source, sourceField},
	} {
		if field.target == target {
			cmd = field.input.Focus()
			field.input.PromptStyle = focusedStyle
			field.input.TextStyle = focusedStyle
		} else {
			field.input.Blur()
			field.input.PromptStyle = blurredStyle
			field.input.TextStyle = blurredStyle
		}
	}
	return cmd
}

func (m *Model) cycleOrigin(forward bool) {
	origins := sound.Origins()
	idx := 0
	for i, o := range origins {
		if o == m.origin {
			idx = i
		}
	}
	if forward {
		idx = (idx + 1) % len(origins)
	} else {
		idx = (idx + len(origins) - 1) % len(origins)
	}

	previous := m.origin
	m.origin = origins[idx]
	if previous == sound.OriginFile || m.origin == sound.OriginFile {
		m.source.SetValue("")
	}
	m.updatePlaceholder()
}

func (m *Model) updatePlaceholder() {
	switch m.origin {
	case sound.OriginFile:
		m.source.Placeholder = "Path to an MP3 or WAV file"
		if m.loadedSrc != "" {
			m.source.Placeholder = "Leave empty to keep the current file"
		}
	case sound.OriginURL:
		m.source.Placeholder = "https://example.com/sound.mp3"
	case sound.OriginRecorded:
		m.source.Placeholder = "Recording reference"
	}
}

// loadSource запускает чтение файла, если путь изменился
func (m *Model) loadSource() tea.Cmd {
	if m.origin != sound.OriginFile {
		return nil
	}
	raw := strings.TrimSpace(m.source.Value())
	if raw == "" {
		return nil
	}
	path, err := config.ExpandHome(raw)
	if err != nil {
		m.err = err.Error()
		return nil
	}
	if path == m.loadedPath || path == m.pendingPath {
		return nil
	}

	m.pendingPath = path
	m.err = ""
	return media.LoadCmd(m.token, path)
}

func (m *Model) fileLoaded(msg media.FileLoadedMsg) tea.Cmd {
	if msg.Token != m.token || msg.Path != m.pendingPath {
		return nil
	}
	m.pendingPath = ""

	if msg.Err != nil {
		m.saveAfterLoad = false
		m.err = fmt.Sprintf("Cannot read %s: %v", filepath.Base(msg.Path), msg.Err)
		return nil
	}

	m.loadedPath = msg.Path
	m.loadedSrc = msg.Src
	if strings.TrimSpace(m.name.Value()) == "" {
		m.name.SetValue(msg.Name)
	}

	if m.saveAfterLoad {
		m.saveAfterLoad = false
		return m.save()
	}
	return nil
}

// save добавляет или изменяет звук. Для файла сначала дожидается чтения
func (m *Model) save() tea.Cmd {
	src := strings.TrimSpace(m.source.Value())

	if m.origin == sound.OriginFile {
		if cmd := m.loadSource(); cmd != nil {
			m.saveAfterLoad = true
			return cmd
		}
		if m.pendingPath != "" {
			m.saveAfterLoad = true
			return nil
		}
		src = m.loadedSrc
	}

	saved := m.sound
	var err error
	if m.sound == nil {
		saved, err = m.lib.Add(m.ctx, m.name.Value(), src, m.origin)
	} else {
		err = m.lib.Edit(m.ctx, m.sound, m.name.Value(), src, m.origin)
	}
	if err != nil {
		var validationErr *library.ValidationError
		if errors.As(err, &validationErr) {
			m.err = validationErr.Message
		} else {
			m.err = err.Error()
		}
		return nil
	}

	m.err = ""
	return func() tea.Msg {
		return SavedMsg{Sound: saved}
	}
}

func (m *Model) delete() tea.Cmd {
	if m.sound == nil {
		return nil
	}
	s := m.sound
	if err := m.lib.Delete(m.ctx, s); err != nil {
		m.err = err.Error()
		return nil
	}
	return func() tea.Msg {
		return DeletedMsg{Sound: s}
	}
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	title := "🎵 Add sound"
	if m.sound != nil {
		title = "✏️ Edit sound"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Name"))
	b.WriteString(m.name.View())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Type"))
	b.WriteString(m.originView())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Source"))
	b.WriteString(m.source.View())
	b.WriteString("\n")
	if note := m.sourceNote(); note != "" {
		b.WriteString(noteStyle.Render(note))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	button := "[ Save ]"
	if m.focus == saveButton {
		b.WriteString(focusedStyle.Render(button))
	} else {
		b.WriteString(blurredStyle.Render(button))
	}
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render("❌ " + m.err))
		b.WriteString("\n")
	}

	help := "tab/↑/↓: next field • ←/→: type • enter/ctrl+s: save • esc: cancel"
	if m.sound != nil {
		help += " • ctrl+d: delete"
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m *Model) originView() string {
	parts := make([]string, 0, len(sound.Origins()))
	for _, o := range sound.Origins() {
		label := string(o)
		switch {
		case o == m.origin && m.focus == originField:
			parts = append(parts, focusedStyle.Render("‹ "+label+" ›"))
		case o == m.origin:
			parts = append(parts, focusedStyle.Render(label))
		default:
			parts = append(parts, blurredStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m *Model) sourceNote() string {
	switch {
	case m.pendingPath != "":
		return "⏳ Loading " + filepath.Base(m.pendingPath) + "..."
	case m.origin == sound.OriginFile && m.loadedPath != "":
		return "✔ Loaded " + filepath.Base(m.loadedPath)
	case m.origin == sound.OriginFile && m.loadedSrc != "":
		return "Current file is kept"
	case m.origin == sound.OriginRecorded:
		return "Recording is not available yet"
	}
	return ""
}
