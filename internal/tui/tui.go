// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"context"
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/playsounds/internal/library"
	"github.com/hazadus/playsounds/internal/notify"
	"github.com/hazadus/playsounds/internal/player"
	"github.com/hazadus/playsounds/internal/tui/app"
)

// logPrefix префикс строк журнала TUI
const logPrefix = "playsounds"

// App представляет основное TUI приложение
type App struct {
	lib       *library.Library
	center    *notify.Center
	threshold time.Duration
	logFile   string
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(lib *library.Library, center *notify.Center, threshold time.Duration, logFile string) *App {
	return &App{
		lib:       lib,
		center:    center,
		threshold: threshold,
		logFile:   logFile,
	}
}

// Run запускает TUI приложение
func (tuiApp *App) Run(ctx context.Context) error {
	// Пока работает TUI, stdout принадлежит Bubble Tea: журнал пишем в файл или никуда
	closeLog, err := tuiApp.redirectLog()
	if err != nil {
		return err
	}
	defer closeLog()

	// Создаем модель для Bubble Tea
	model := app.NewMainModel(ctx, tuiApp.lib, tuiApp.center, player.NewPlayer(), app.Options{
		Threshold: tuiApp.threshold,
	})

	// Мышь нужна с движением при нажатой кнопке: на нем строится перетаскивание
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	// Запускаем программу
	_, err = p.Run()

	// Закрываем плеер и отменяем таймеры жестов после завершения программы
	model.Close()

	return err
}

func (tuiApp *App) redirectLog() (func(), error) {
	writer := log.Writer()
	flags := log.Flags()
	prefix := log.Prefix()
	restore := func() {
		log.SetOutput(writer)
		log.SetFlags(flags)
		log.SetPrefix(prefix)
	}

	if tuiApp.logFile == "" {
		log.SetOutput(io.Discard)
		return restore, nil
	}

	file, err := tea.LogToFile(tuiApp.logFile, logPrefix)
	if err != nil {
		return nil, err
	}
	return func() {
		file.Close()
		restore()
	}, nil
}
