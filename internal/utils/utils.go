// Package utils содержит утилитарные функции, используемые в разных частях приложения
package utils

import (
	"fmt"
	"time"

	xansi "github.com/charmbracelet/x/ansi"
)

// FormatDuration форматирует time.Duration в формат MM:SS, а для длинных звуков HH:MM:SS
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// TruncateString обрезает строку до указанной ширины в ячейках терминала,
// добавляя "..." если строка длиннее
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return xansi.Truncate(s, maxLen, "")
	}
	return xansi.Truncate(s, maxLen, "...")
}
