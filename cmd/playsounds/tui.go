package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/playsounds/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch the interactive soundboard: click to play, hold to edit, drag to reorder.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI(ctx)
		},
	}
}

func (app *Application) launchTUI(ctx context.Context) error {
	// Экран принадлежит Bubble Tea, уведомления показывает баннер
	app.echo = false
	defer func() {
		app.echo = true
		app.failed = false
	}()

	tuiApp := tui.NewApp(app.Library, app.Center, app.Config.HoldThreshold(), app.Config.LogFile)
	if err := tuiApp.Run(ctx); err != nil {
		return fmt.Errorf("ошибка работы TUI: %w", err)
	}
	return nil
}
