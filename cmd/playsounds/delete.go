package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// createDeleteCommand создает команду delete с привязкой к экземпляру приложения
func (app *Application) createDeleteCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a sound by name",
		Long:  `Remove a sound from the list. Published S3 objects are left untouched.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.deleteSound(ctx, args[0])
		},
	}
}

func (app *Application) deleteSound(ctx context.Context, name string) error {
	s, err := app.soundByName(name)
	if err != nil {
		return err
	}

	fmt.Printf("🗑️  Удаляем звук: %s\n", s.Name)
	return app.Library.Delete(ctx, s)
}
