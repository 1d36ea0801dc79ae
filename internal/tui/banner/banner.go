// Package banner отображает уведомление в верхней строке TUI
package banner

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/playsounds/internal/notify"
	"github.com/hazadus/playsounds/internal/utils"
)

// Height высота баннера в строках. Строка зарезервирована и когда уведомления нет,
// чтобы сетка не прыгала
const Height = 1

var (
	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#d7263d")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#2a9d46")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().Faint(true)
)

const dismissHint = "  (click to dismiss)"

// View отображает уведомление шириной width. Скрытое уведомление дает пустую строку
func View(n notify.Notification, width int) string {
	if !n.Visible {
		return ""
	}

	icon := "✖ "
	style := dangerStyle
	if n.Level == notify.Success {
		icon = "✔ "
		style = successStyle
	}

	text := " " + icon + n.Message
	hint := dismissHint
	if width > 0 {
		avail := width - len(hint)
		if avail < 8 {
			hint = ""
			avail = width
		}
		text = utils.TruncateString(text, avail)
		if pad := avail - lipgloss.Width(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
	}
	return style.Render(text) + hintStyle.Render(hint)
}

// Hit сообщает, попадает ли строка y в баннер
func Hit(y int) bool {
	return y >= 0 && y < Height
}
