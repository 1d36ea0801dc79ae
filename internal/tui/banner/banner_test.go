package banner

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/playsounds/internal/notify"
)

func TestViewHidden(t *testing.T) {
	if got := View(notify.Notification{Message: "old", Visible: false}, 80); got != "" {
		t.Errorf("Скрытое уведомление должно давать пустую строку, получено %q", got)
	}
}

func TestViewLevels(t *testing.T) {
	tests := []struct {
		level notify.Level
		icon  string
	}{
		{notify.Danger, "✖"},
		{notify.Success, "✔"},
	}

	for _, test := range tests {
		got := View(notify.Notification{Message: "Sound Bell added", Level: test.level, Visible: true}, 80)
		if !strings.Contains(got, "Sound Bell added") || !strings.Contains(got, test.icon) {
			t.Errorf("Неверный баннер для %s: %q", test.level, got)
		}
		if !strings.Contains(got, "dismiss") {
			t.Errorf("Ожидалась подсказка о закрытии: %q", got)
		}
	}
}

func TestViewFitsWidth(t *testing.T) {
	long := strings.Repeat("storage ", 30)
	got := View(notify.Notification{Message: long, Level: notify.Danger, Visible: true}, 60)
	if w := lipgloss.Width(got); w > 60 {
		t.Errorf("Баннер шире экрана: %d", w)
	}
}

func TestHit(t *testing.T) {
	if !Hit(0) || Hit(1) || Hit(-1) {
		t.Error("Неверная область баннера")
	}
}
