package board

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/playsounds/internal/gesture"
	"github.com/hazadus/playsounds/internal/search"
	"github.com/hazadus/playsounds/internal/sound"
	"github.com/hazadus/playsounds/internal/utils"
)

// Tile элемент сетки. Что плитка умеет, определяется интерфейсами
// clickable и droppable
type Tile interface {
	// Sound звук плитки или nil
	Sound() *sound.Sound
	render(m *Model, selected bool) string
}

// clickable плитка принимает нажатия мышью
type clickable interface {
	press(m *Model)
	release(m *Model) tea.Cmd
	leave(m *Model)
}

// droppable плитка принимает перетаскиваемый звук
type droppable interface {
	// dropTarget звук, на место которого встает перетаскиваемый (nil - в конец)
	dropTarget() *sound.Sound
}

// soundTile плитка звука
type soundTile struct {
	sound *sound.Sound
}

func (t soundTile) Sound() *sound.Sound { return t.sound }

func (t soundTile) press(m *Model) {
	m.gestures.Press(t.sound)
}

func (t soundTile) release(m *Model) tea.Cmd {
	m.gestures.Release(t.sound)
	return nil
}

func (t soundTile) leave(m *Model) {
	m.gestures.Leave(t.sound)
	if m.lib.Editing() == t.sound {
		m.lib.SetEditing(nil)
	}
}

func (t soundTile) dropTarget() *sound.Sound { return t.sound }

func (t soundTile) render(m *Model, selected bool) string {
	label := t.sound.Name
	style := tileStyle

	switch {
	case m.showsEditHint(t.sound):
		label = "Edit ?"
		style = holdTileStyle
	case m.pointer.down && m.gestures.State(t.sound) == gesture.Pressed:
		style = pressedTileStyle
	}

	if m.lib.Playing() == t.sound {
		label = "▶ " + label
		style = style.Foreground(playingColor)
	}
	if selected {
		style = style.BorderForeground(selectedBorder)
	}
	return style.Render(utils.TruncateString(label, tileWidth))
}

// placeholderTile место, куда встанет перетаскиваемый звук. Наведение на нее
// ничего не меняет, отпускание кладет звук сюда
type placeholderTile struct{}

func (placeholderTile) Sound() *sound.Sound { return nil }

func (placeholderTile) render(_ *Model, selected bool) string {
	style := placeholderStyle
	if selected {
		style = style.BorderForeground(selectedBorder)
	}
	return style.Render("↓ drop here")
}

// addTile плитка добавления звука, всегда последняя. Перетаскивание на нее
// ставит звук в конец
type addTile struct{}

func (addTile) Sound() *sound.Sound { return nil }

func (addTile) press(*Model) {}

func (addTile) release(*Model) tea.Cmd {
	return func() tea.Msg { return AddMsg{} }
}

func (addTile) leave(*Model) {}

func (addTile) dropTarget() *sound.Sound { return nil }

func (addTile) render(_ *Model, selected bool) string {
	style := addTileStyle
	if selected {
		style = style.BorderForeground(selectedBorder)
	}
	return style.Render("+ Add sound")
}

func sameTile(a, b Tile) bool {
	return a != nil && a == b
}

func matchesFilter(s *sound.Sound, query string) bool {
	return search.Match(s.Name, query)
}
