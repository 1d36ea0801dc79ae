package media

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FileLoadedMsg результат асинхронного чтения файла
type FileLoadedMsg struct {
	// Token сессия диалога, запросившая чтение
	Token uint64
	Path  string
	Src   string
	// Name предложенное имя звука
	Name string
	Err  error
}

// LoadCmd читает файл в data URL вне цикла обновления Bubble Tea.
// Получатель сверяет Token со своей сессией и отбрасывает устаревшие ответы
func LoadCmd(token uint64, path string) tea.Cmd {
	return func() tea.Msg {
		src, err := ReadDataURL(path)
		if err != nil {
			return FileLoadedMsg{Token: token, Path: path, Err: err}
		}
		return FileLoadedMsg{
			Token: token,
			Path:  path,
			Src:   src,
			Name:  SuggestName(path),
		}
	}
}
