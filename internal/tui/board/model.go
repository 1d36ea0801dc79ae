// Package board содержит сетку плиток саундборда: нажатия мышью разбираются
// распознавателем жестов, перетаскивание переставляет звуки в библиотеке
package board

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/playsounds/internal/clock"
	"github.com/hazadus/playsounds/internal/gesture"
	"github.com/hazadus/playsounds/internal/library"
	"github.com/hazadus/playsounds/internal/sound"
)

// Геометрия сетки в ячейках терминала
const (
	tileWidth      = 18
	tileHeight     = 1
	tileOuterW     = tileWidth + 2
	tileOuterH     = tileHeight + 2
	columnGap      = 1
	cellWidth      = tileOuterW + columnGap
	cellHeight     = tileOuterH
	defaultColumns = 4

	// GridTop первая строка сетки внутри View: над ней заголовок и строка состояния
	GridTop = 2
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5f87ff"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	tileStyle = lipgloss.NewStyle().
			Width(tileWidth).
			Height(tileHeight).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#585858"))

	selectedBorder = lipgloss.Color("#ff5fd7")
	playingColor   = lipgloss.Color("#5fd75f")

	pressedTileStyle = tileStyle.
				BorderForeground(lipgloss.Color("#ffd700")).
				Bold(true)

	holdTileStyle = tileStyle.
			BorderForeground(lipgloss.Color("#ff8700")).
			Foreground(lipgloss.Color("#ff8700")).
			Bold(true)

	placeholderStyle = tileStyle.
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("#444444")).
				Foreground(lipgloss.Color("#666666"))

	addTileStyle = tileStyle.
			Foreground(lipgloss.Color("#888888"))
)

// PlayMsg просит воспроизвести звук (короткое нажатие или enter)
type PlayMsg struct {
	Sound *sound.Sound
}

// EditMsg просит открыть диалог редактирования звука
type EditMsg struct {
	Sound *sound.Sound
}

// HoldMsg приходит, когда нажатие на плитку превысило порог и еще удерживается
type HoldMsg struct {
	Sound *sound.Sound
}

// AddMsg просит открыть диалог добавления звука
type AddMsg struct{}

// DeletedMsg отправляется после удаления звука с доски
type DeletedMsg struct {
	Sound *sound.Sound
}

// Options настройки доски
type Options struct {
	Clock     clock.Clock
	Threshold time.Duration
	// Emit доставляет сообщение в цикл обновления. Вызывается и из горутин таймеров
	Emit func(tea.Msg)
}

// pointer состояние левой кнопки мыши между нажатием и отпусканием
type pointer struct {
	down bool
	tile Tile
	left bool
}

// Model представляет доску со звуками
type Model struct {
	ctx       context.Context
	lib       *library.Library
	gestures  *gesture.Registry[*sound.Sound]
	bindings  map[*sound.Sound]*gesture.Binding[*sound.Sound]
	threshold time.Duration
	emit      func(tea.Msg)

	keys      keyMap
	help      help.Model
	filter    textinput.Model
	filtering bool

	cursor  int
	pointer pointer
	width   int
	height  int
}

// NewModel создает доску и привязывает жесты ко всем звукам библиотеки
func NewModel(ctx context.Context, lib *library.Library, opts Options) *Model {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Emit == nil {
		opts.Emit = func(tea.Msg) {}
	}

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter sounds"

	m := &Model{
		ctx:       ctx,
		lib:       lib,
		gestures:  gesture.NewRegistry[*sound.Sound](opts.Clock),
		bindings:  make(map[*sound.Sound]*gesture.Binding[*sound.Sound]),
		threshold: opts.Threshold,
		emit:      opts.Emit,
		keys:      newKeyMap(),
		help:      help.New(),
		filter:    filter,
	}
	m.Sync()
	return m
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// Sync привязывает жесты к новым звукам и отвязывает удаленные
func (m *Model) Sync() {
	sounds := m.lib.Sounds()
	alive := make(map[*sound.Sound]bool, len(sounds))
	for _, s := range sounds {
		alive[s] = true
		if !m.gestures.Bound(s) {
			m.bindings[s] = m.gestures.Bind(s, m.gestureOptions(s))
		}
	}
	for s, b := range m.bindings {
		if !alive[s] {
			b.Unbind()
			delete(m.bindings, s)
		}
	}
	m.clampCursor()
}

// Close отвязывает все жесты и отменяет их таймеры
func (m *Model) Close() {
	m.gestures.UnbindAll()
	m.bindings = make(map[*sound.Sound]*gesture.Binding[*sound.Sound])
}

// Filtering сообщает, что клавиатура занята строкой фильтра
func (m *Model) Filtering() bool {
	return m.filtering
}

// Selected возвращает звук под курсором или nil
func (m *Model) Selected() *sound.Sound {
	tiles := m.tiles()
	if m.cursor < 0 || m.cursor >= len(tiles) {
		return nil
	}
	return tiles[m.cursor].Sound()
}

func (m *Model) gestureOptions(s *sound.Sound) gesture.Options {
	return gesture.Options{
		Threshold:          m.threshold,
		OnClick:            func() { m.emit(PlayMsg{Sound: s}) },
		OnConfirmAfterHold: func() { m.emit(EditMsg{Sound: s}) },
		OnEnterHold:        func() { m.emit(HoldMsg{Sound: s}) },
	}
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.filter.Width = max(10, msg.Width-4)
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case HoldMsg:
		// Подсказка нужна, только если удержание еще идет
		if m.gestures.State(msg.Sound) == gesture.Confirmed {
			m.lib.SetEditing(msg.Sound)
		}
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m, m.handleFilterKey(msg)
		}
		if m.lib.Dragging() {
			return m, m.handleMoveKey(msg)
		}
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-m.columns())
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.columns())

	case key.Matches(msg, m.keys.Play):
		tiles := m.tiles()
		if m.cursor >= len(tiles) {
			return nil
		}
		if s := tiles[m.cursor].Sound(); s != nil {
			return func() tea.Msg { return PlayMsg{Sound: s} }
		}
		if _, ok := tiles[m.cursor].(addTile); ok {
			return func() tea.Msg { return AddMsg{} }
		}

	case key.Matches(msg, m.keys.Edit):
		if s := m.Selected(); s != nil {
			return func() tea.Msg { return EditMsg{Sound: s} }
		}

	case key.Matches(msg, m.keys.Add):
		return func() tea.Msg { return AddMsg{} }

	case key.Matches(msg, m.keys.Delete):
		s := m.Selected()
		if s == nil {
			return nil
		}
		if err := m.lib.Delete(m.ctx, s); err != nil {
			log.Printf("ошибка удаления звука %s: %v", s.Name, err)
			return nil
		}
		m.Sync()
		return func() tea.Msg { return DeletedMsg{Sound: s} }

	case key.Matches(msg, m.keys.Move):
		s := m.Selected()
		if s == nil || m.filter.Value() != "" {
			return nil
		}
		if m.lib.BeginDrag(s) {
			m.cursor = m.lib.PlaceholderSlot()
		}

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m.filter.Focus()
	}

	return nil
}

// handleMoveKey управляет перетаскиванием с клавиатуры: стрелки двигают место вставки
func (m *Model) handleMoveKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.shiftInsertion(-1)
	case key.Matches(msg, m.keys.Right):
		m.shiftInsertion(1)
	case key.Matches(msg, m.keys.Up):
		m.shiftInsertion(-m.columns())
	case key.Matches(msg, m.keys.Down):
		m.shiftInsertion(m.columns())
	case key.Matches(msg, m.keys.Drop):
		m.drop(m.lib.InsertionTarget())
	case key.Matches(msg, m.keys.Cancel):
		m.cancelDrag()
	case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
		return tea.Quit
	}
	return nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.filter.SetValue("")
		m.filter.Blur()
		m.filtering = false
		m.clampCursor()
		return nil
	case "enter":
		m.filter.Blur()
		m.filtering = false
		return nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	return cmd
}

// shiftInsertion двигает заглушку на delta позиций. Позиция p в списке без
// перетаскиваемого звука достигается наведением на звук с индексом p
func (m *Model) shiftInsertion(delta int) {
	sounds := m.lib.Sounds()
	if len(sounds) == 0 {
		return
	}
	p := max(0, min(m.lib.PlaceholderSlot()+delta, len(sounds)-1))
	m.lib.DragOver(sounds[p])
	m.cursor = m.lib.PlaceholderSlot()
}

func (m *Model) drop(target *sound.Sound) {
	moved := m.lib.DragSource()
	m.lib.Drop(m.ctx, target)
	m.Sync()
	if idx := sound.IndexOf(m.lib.Sounds(), moved); idx >= 0 {
		m.cursor = idx
	}
}

func (m *Model) cancelDrag() {
	moved := m.lib.DragSource()
	m.lib.EndDrag()
	if idx := sound.IndexOf(m.lib.Sounds(), moved); idx >= 0 {
		m.cursor = idx
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	var tile Tile
	if idx := m.tileAt(msg.X, msg.Y); idx >= 0 {
		tile = m.tiles()[idx]
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		return m.press(tile, msg)

	case tea.MouseActionMotion:
		if m.pointer.down {
			m.moveOver(tile)
		}

	case tea.MouseActionRelease:
		if m.pointer.down {
			return m.release(tile)
		}
	}
	return nil
}

func (m *Model) press(tile Tile, msg tea.MouseMsg) tea.Cmd {
	// Нажатие без отпускания (например, кнопка отпущена вне окна) завершает прошлое
	if m.pointer.down {
		m.abandonPointer()
	}
	m.pointer = pointer{down: true, tile: tile}
	if tile == nil {
		return nil
	}
	if idx := m.tileAt(msg.X, msg.Y); idx >= 0 {
		m.cursor = idx
	}
	if c, ok := tile.(clickable); ok {
		c.press(m)
	}
	return nil
}

func (m *Model) moveOver(tile Tile) {
	if m.lib.Dragging() {
		m.dragOver(tile)
		return
	}
	if m.pointer.left || sameTile(tile, m.pointer.tile) {
		return
	}

	// Указатель ушел с нажатой плитки: жест отменяется, звук начинают тащить
	m.pointer.left = true
	if c, ok := m.pointer.tile.(clickable); ok {
		c.leave(m)
	}
	if st, ok := m.pointer.tile.(soundTile); ok && m.filter.Value() == "" {
		if m.lib.BeginDrag(st.sound) {
			m.dragOver(tile)
		}
	}
}

func (m *Model) dragOver(tile Tile) {
	if d, ok := tile.(droppable); ok {
		m.lib.DragOver(d.dropTarget())
		m.cursor = m.lib.PlaceholderSlot()
	}
}

func (m *Model) release(tile Tile) tea.Cmd {
	pressed := m.pointer
	m.pointer = pointer{}

	if m.lib.Dragging() {
		target := m.lib.InsertionTarget()
		if d, ok := tile.(droppable); ok {
			target = d.dropTarget()
		}
		m.drop(target)
		return nil
	}
	if pressed.left {
		return nil
	}

	c, ok := pressed.tile.(clickable)
	if !ok {
		return nil
	}
	if !sameTile(tile, pressed.tile) {
		c.leave(m)
		return nil
	}
	return c.release(m)
}

func (m *Model) abandonPointer() {
	if c, ok := m.pointer.tile.(clickable); ok && !m.pointer.left {
		c.leave(m)
	}
	if m.lib.Dragging() {
		m.cancelDrag()
	}
	m.pointer = pointer{}
}

// tiles возвращает плитки в порядке отображения. Во время перетаскивания
// звук-источник скрыт, а на месте вставки стоит заглушка
func (m *Model) tiles() []Tile {
	sounds := m.lib.Sounds()
	tiles := make([]Tile, 0, len(sounds)+2)

	if src := m.lib.DragSource(); src != nil {
		slot := m.lib.PlaceholderSlot()
		pos := 0
		for _, s := range sounds {
			if s == src {
				continue
			}
			if pos == slot {
				tiles = append(tiles, placeholderTile{})
			}
			tiles = append(tiles, soundTile{sound: s})
			pos++
		}
		if pos == slot {
			tiles = append(tiles, placeholderTile{})
		}
		return append(tiles, addTile{})
	}

	for _, s := range sounds {
		if matchesFilter(s, m.filter.Value()) {
			tiles = append(tiles, soundTile{sound: s})
		}
	}
	return append(tiles, addTile{})
}

// columns число колонок сетки для текущей ширины
func (m *Model) columns() int {
	if m.width <= 0 {
		return defaultColumns
	}
	return max(1, (m.width+columnGap)/cellWidth)
}

// tileAt возвращает индекс плитки под точкой (x, y) или -1
func (m *Model) tileAt(x, y int) int {
	if x < 0 || y < GridTop {
		return -1
	}
	if x%cellWidth >= tileOuterW {
		return -1
	}
	cols := m.columns()
	col := x / cellWidth
	if col >= cols {
		return -1
	}
	idx := ((y-GridTop)/cellHeight)*cols + col
	if idx >= len(m.tiles()) {
		return -1
	}
	return idx
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.tiles()) {
		return
	}
	m.cursor = next
}

func (m *Model) clampCursor() {
	if n := len(m.tiles()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// showsEditHint сообщает, что на плитке нужно показать «Edit ?»
func (m *Model) showsEditHint(s *sound.Sound) bool {
	return m.lib.Editing() == s || m.gestures.State(s) == gesture.Confirmed
}

// View отображает доску
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔊 playsounds"))
	b.WriteString(statusStyle.Render(fmt.Sprintf("  %d sounds", m.lib.Len())))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.grid())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m *Model) statusLine() string {
	switch {
	case m.lib.Dragging():
		name := ""
		if src := m.lib.DragSource(); src != nil {
			name = src.Name
		}
		return statusStyle.Render(fmt.Sprintf("Moving %s · arrows choose the place · enter drops · esc cancels", name))
	case m.filtering || m.filter.Value() != "":
		return m.filter.View()
	}
	return ""
}

func (m *Model) grid() string {
	tiles := m.tiles()
	cols := m.columns()
	gap := strings.Repeat(" ", columnGap)

	rows := make([]string, 0, len(tiles)/cols+1)
	for start := 0; start < len(tiles); start += cols {
		end := min(start+cols, len(tiles))
		cells := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				cells = append(cells, gap)
			}
			cells = append(cells, tiles[i].render(m, i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
