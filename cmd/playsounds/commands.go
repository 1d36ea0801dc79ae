package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/playsounds/internal/library"
	"github.com/hazadus/playsounds/internal/sound"
)

// createRootCommand создает корневую команду с настроенными подкомандами.
// Без подкоманды запускается TUI
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "playsounds",
		Short: "A soundboard for your terminal",
		Long:  `Keep a list of short sounds, play them with a click and rearrange them by dragging.`,
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.Open(cmd.Context())
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if app.failed {
				return errReported
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI(ctx)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", app.configPath, "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&app.ephemeral, "ephemeral", false, "keep the sound list in memory only")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createTUICommand(ctx))
	rootCmd.AddCommand(app.createListCommand())
	rootCmd.AddCommand(app.createFindCommand())
	rootCmd.AddCommand(app.createAddCommand(ctx))
	rootCmd.AddCommand(app.createEditCommand(ctx))
	rootCmd.AddCommand(app.createDeleteCommand(ctx))
	rootCmd.AddCommand(app.createMoveCommand(ctx))
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createPublishCommand(ctx))

	return rootCmd
}

// soundByName находит звук по имени
func (app *Application) soundByName(name string) (*sound.Sound, error) {
	s := app.Library.Find(name)
	if s == nil {
		return nil, fmt.Errorf("звук %q не найден", name)
	}
	return s, nil
}

// libraryError заменяет ошибку проверки на errReported: ее текст уже показан уведомлением
func libraryError(err error) error {
	var validationErr *library.ValidationError
	if errors.As(err, &validationErr) {
		return errReported
	}
	return err
}
