// Package player содержит строку «сейчас играет» для TUI
package player

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/playsounds/internal/player"
	"github.com/hazadus/playsounds/internal/sound"
	"github.com/hazadus/playsounds/internal/streaming"
	"github.com/hazadus/playsounds/internal/utils"
)

var (
	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5f87ff"))

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// Player примитив воспроизведения. *player.Player удовлетворяет интерфейсу
type Player interface {
	Play(src string) error
	Pause()
	Stop()
	Progress() <-chan player.Status
	Done() <-chan bool
	Close() error
}

// ProgressMsg содержит обновления прогресса воспроизведения
type ProgressMsg struct {
	Status player.Status
}

// PlaybackStartedMsg отправляется, когда звук начал играть
type PlaybackStartedMsg struct {
	Sound *sound.Sound
}

// PlaybackFinishedMsg отправляется при завершении воспроизведения
type PlaybackFinishedMsg struct{}

// PlaybackErrorMsg отправляется при ошибке воспроизведения
type PlaybackErrorMsg struct {
	Sound *sound.Sound
	Error error
}

// Model строка текущего воспроизведения
type Model struct {
	player      Player
	progressBar progress.Model
	sound       *sound.Sound
	status      player.Status
	isPlaying   bool
	width       int
}

// NewModel создает строку воспроизведения поверх плеера
func NewModel(p Player) *Model {
	prog := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	prog.Width = 30

	return &Model{
		player:      p,
		progressBar: prog,
	}
}

// Init запускает прослушивание событий плеера. Слушатель один на всю жизнь модели
func (m *Model) Init() tea.Cmd {
	return m.listenForProgress()
}

// Play останавливает текущий звук и запускает s
func (m *Model) Play(s *sound.Sound) tea.Cmd {
	return func() tea.Msg {
		if err := m.player.Play(s.Src); err != nil {
			return PlaybackErrorMsg{Sound: s, Error: err}
		}
		return PlaybackStartedMsg{Sound: s}
	}
}

// Stop останавливает воспроизведение
func (m *Model) Stop() {
	m.player.Stop()
	m.reset()
}

// TogglePause приостанавливает или возобновляет звук
func (m *Model) TogglePause() {
	if m.sound == nil {
		return
	}
	m.player.Pause()
	m.isPlaying = !m.isPlaying
}

// Sound возвращает звук, который сейчас играет
func (m *Model) Sound() *sound.Sound {
	return m.sound
}

// IsPlaying сообщает, играет ли звук (не на паузе)
func (m *Model) IsPlaying() bool {
	return m.sound != nil && m.isPlaying
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = max(10, min(40, msg.Width-40))
		return m, nil

	case PlaybackStartedMsg:
		m.sound = msg.Sound
		m.status = player.Status{Src: msg.Sound.Src}
		m.isPlaying = true
		return m, m.progressBar.SetPercent(0)

	case PlaybackErrorMsg:
		if m.sound == msg.Sound {
			m.reset()
		}
		return m, nil

	case ProgressMsg:
		// Обновления от звука, который уже заменили, игнорируем
		if m.sound == nil || msg.Status.Src != m.sound.Src {
			return m, m.listenForProgress()
		}
		m.status = msg.Status
		m.isPlaying = msg.Status.IsPlaying

		var percent float64
		if msg.Status.Total > 0 {
			percent = float64(msg.Status.Current) / float64(msg.Status.Total)
		}

		return m, tea.Batch(
			m.progressBar.SetPercent(percent),
			m.listenForProgress(),
		)

	case PlaybackFinishedMsg:
		m.reset()
		return m, m.listenForProgress()

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// View отображает строку воспроизведения
func (m *Model) View() string {
	if m.sound == nil {
		return idleStyle.Render("⏹  Nothing playing")
	}

	icon := "▶️ "
	if !m.isPlaying {
		icon = "⏸️ "
	}

	timeText := utils.FormatDuration(m.status.Current)
	if m.status.Total > 0 {
		timeText += " / " + utils.FormatDuration(m.status.Total)
	}

	line := fmt.Sprintf("%s %s  %s  %s",
		icon,
		nameStyle.Render(utils.TruncateString(m.sound.Name, 24)),
		m.progressBar.View(),
		timeText,
	)
	if m.status.Streaming {
		line += "  " + statusStyle.Render(streaming.GetStreamStatus(m.status.StuckCount))
	}
	return line
}

// Close освобождает плеер
func (m *Model) Close() error {
	if m.player != nil {
		return m.player.Close()
	}
	return nil
}

func (m *Model) reset() {
	m.sound = nil
	m.status = player.Status{}
	m.isPlaying = false
}

// listenForProgress слушает обновления прогресса от плеера
func (m *Model) listenForProgress() tea.Cmd {
	return func() tea.Msg {
		select {
		case status := <-m.player.Progress():
			return ProgressMsg{Status: status}
		case <-m.player.Done():
			return PlaybackFinishedMsg{}
		}
	}
}
