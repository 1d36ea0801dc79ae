// Package app содержит основную логику TUI приложения
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/playsounds/internal/clock"
	"github.com/hazadus/playsounds/internal/library"
	"github.com/hazadus/playsounds/internal/media"
	"github.com/hazadus/playsounds/internal/notify"
	"github.com/hazadus/playsounds/internal/sound"
	"github.com/hazadus/playsounds/internal/tui/banner"
	"github.com/hazadus/playsounds/internal/tui/board"
	"github.com/hazadus/playsounds/internal/tui/editor"
	tuiPlayer "github.com/hazadus/playsounds/internal/tui/player"
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// BoardScreen - сетка звуков
	BoardScreen ScreenType = iota
	// EditorScreen - диалог звука
	EditorScreen
)

// eventQueueSize емкость очереди событий от таймеров
const eventQueueSize = 64

// NotificationMsg сообщает, что уведомление изменилось
type NotificationMsg struct {
	Notification notify.Notification
}

// eventMsg сообщение, доставленное через очередь событий
type eventMsg struct {
	msg tea.Msg
}

// Options настройки главной модели
type Options struct {
	Clock     clock.Clock
	Threshold time.Duration
}

// MainModel представляет главную модель TUI
type MainModel struct {
	ctx           context.Context
	lib           *library.Library
	center        *notify.Center
	events        chan tea.Msg
	currentScreen ScreenType
	boardModel    *board.Model
	editorModel   *editor.Model
	playerModel   *tuiPlayer.Model
	dialogToken   uint64
	width         int
	height        int
}

// NewMainModel создает новую главную модель
func NewMainModel(ctx context.Context, lib *library.Library, center *notify.Center, p tuiPlayer.Player, opts Options) *MainModel {
	m := &MainModel{
		ctx:           ctx,
		lib:           lib,
		center:        center,
		events:        make(chan tea.Msg, eventQueueSize),
		currentScreen: BoardScreen,
		playerModel:   tuiPlayer.NewModel(p),
	}

	m.boardModel = board.NewModel(ctx, lib, board.Options{
		Clock:     opts.Clock,
		Threshold: opts.Threshold,
		Emit:      m.emit,
	})

	// Таймер уведомления срабатывает в своей горутине: перерисовку просим через очередь
	center.Subscribe(func(n notify.Notification) {
		m.emit(NotificationMsg{Notification: n})
	})

	return m
}

// emit кладет сообщение в очередь событий. Безопасен для вызова из любых горутин
func (m *MainModel) emit(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
		log.Printf("очередь событий TUI переполнена, сообщение %T отброшено", msg)
	}
}

// listenForEvents ждет следующее событие из очереди
func (m *MainModel) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		return eventMsg{msg: <-m.events}
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.listenForEvents(),
		m.playerModel.Init(),
		m.boardModel.Init(),
	)
}

// Screen возвращает текущий экран
func (m *MainModel) Screen() ScreenType {
	return m.currentScreen
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		_, cmd := m.Update(msg.msg)
		return m, tea.Batch(cmd, m.listenForEvents())

	case tea.KeyMsg:
		// Глобальные горячие клавиши
		if msg.String() == "ctrl+c" {
			m.playerModel.Stop()
			return m, tea.Quit
		}
		if m.currentScreen == BoardScreen && !m.boardModel.Filtering() && !m.lib.Dragging() {
			switch msg.String() {
			case " ":
				m.playerModel.TogglePause()
				return m, nil
			case "s":
				m.stopPlayback()
				return m, nil
			}
		}

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		var boardCmd, editorCmd, playerCmd tea.Cmd
		m.boardModel, boardCmd = m.boardModel.Update(msg)
		if m.editorModel != nil {
			m.editorModel, editorCmd = m.editorModel.Update(msg)
		}
		m.playerModel, playerCmd = m.playerModel.Update(msg)
		return m, tea.Batch(boardCmd, editorCmd, playerCmd)

	case NotificationMsg:
		// Баннер читает состояние центра при отрисовке
		return m, nil

	case board.PlayMsg:
		if !m.lib.Contains(msg.Sound) {
			return m, nil
		}
		return m, m.playerModel.Play(msg.Sound)

	case board.EditMsg:
		return m, m.openEditor(msg.Sound)

	case board.AddMsg:
		return m, m.openEditor(nil)

	case board.DeletedMsg:
		m.soundRemoved(msg.Sound)
		return m, nil

	case board.HoldMsg:
		var cmd tea.Cmd
		m.boardModel, cmd = m.boardModel.Update(msg)
		return m, cmd

	case editor.SavedMsg, editor.GoBackMsg:
		m.closeEditor()
		return m, nil

	case editor.DeletedMsg:
		m.soundRemoved(msg.Sound)
		m.closeEditor()
		return m, nil

	case media.FileLoadedMsg:
		// Ответ для закрытого или другого диалога отбрасывается
		if m.editorModel == nil || msg.Token != m.editorModel.Token() {
			return m, nil
		}
		var cmd tea.Cmd
		m.editorModel, cmd = m.editorModel.Update(msg)
		return m, cmd

	case tuiPlayer.PlaybackStartedMsg:
		if !m.lib.Contains(msg.Sound) {
			m.playerModel.Stop()
			return m, nil
		}
		m.lib.SetPlaying(msg.Sound)
		return m, m.updatePlayer(msg)

	case tuiPlayer.PlaybackErrorMsg:
		log.Printf("ошибка воспроизведения %s: %v", msg.Sound.Name, msg.Error)
		m.center.Danger(fmt.Sprintf("Cannot play %s", msg.Sound.Name))
		if m.lib.Playing() == msg.Sound {
			m.lib.SetPlaying(nil)
		}
		return m, m.updatePlayer(msg)

	case tuiPlayer.PlaybackFinishedMsg:
		m.lib.SetPlaying(nil)
		return m, m.updatePlayer(msg)

	case tuiPlayer.ProgressMsg, progress.FrameMsg:
		return m, m.updatePlayer(msg)
	}

	// Передаем сообщение активной модели
	var cmd tea.Cmd
	switch m.currentScreen {
	case BoardScreen:
		m.boardModel, cmd = m.boardModel.Update(msg)
	case EditorScreen:
		if m.editorModel != nil {
			m.editorModel, cmd = m.editorModel.Update(msg)
		}
	}
	return m, cmd
}

func (m *MainModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if banner.Hit(msg.Y) && msg.Action == tea.MouseActionPress {
		if m.center.Current().Visible {
			m.center.Dismiss()
		}
		return nil
	}
	if m.currentScreen != BoardScreen {
		return nil
	}

	msg.Y -= banner.Height
	var cmd tea.Cmd
	m.boardModel, cmd = m.boardModel.Update(msg)
	return cmd
}

func (m *MainModel) updatePlayer(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.playerModel, cmd = m.playerModel.Update(msg)
	return cmd
}

func (m *MainModel) openEditor(s *sound.Sound) tea.Cmd {
	if m.lib.Dragging() {
		return nil
	}
	if s != nil && !m.lib.Contains(s) {
		return nil
	}

	m.dialogToken++
	m.lib.SetEditing(s)
	m.editorModel = editor.NewModel(m.ctx, m.lib, s, m.dialogToken)
	m.currentScreen = EditorScreen

	var sizeCmd tea.Cmd
	if m.width > 0 {
		m.editorModel, sizeCmd = m.editorModel.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return tea.Batch(m.editorModel.Init(), sizeCmd)
}

func (m *MainModel) closeEditor() {
	m.currentScreen = BoardScreen
	m.editorModel = nil
	m.lib.SetEditing(nil)
	m.boardModel.Sync()
}

func (m *MainModel) soundRemoved(s *sound.Sound) {
	if m.playerModel.Sound() == s {
		m.playerModel.Stop()
	}
	m.boardModel.Sync()
}

func (m *MainModel) stopPlayback() {
	m.playerModel.Stop()
	m.lib.SetPlaying(nil)
}

// View отображает интерфейс
func (m *MainModel) View() string {
	var screen string
	switch m.currentScreen {
	case BoardScreen:
		screen = m.boardModel.View()
	case EditorScreen:
		if m.editorModel != nil {
			screen = m.editorModel.View()
		} else {
			screen = "Ошибка: модель редактора не инициализирована"
		}
	default:
		screen = "Неизвестный экран"
	}

	return banner.View(m.center.Current(), m.width) + "\n" +
		screen + "\n\n" +
		m.playerModel.View()
}

// Close закрывает ресурсы главной модели
func (m *MainModel) Close() {
	m.boardModel.Close()
	if err := m.playerModel.Close(); err != nil {
		log.Printf("ошибка закрытия плеера: %v", err)
	}
}
