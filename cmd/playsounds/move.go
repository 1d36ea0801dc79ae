package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/playsounds/internal/sound"
)

// createMoveCommand создает команду move с привязкой к экземпляру приложения
func (app *Application) createMoveCommand(ctx context.Context) *cobra.Command {
	var target string
	var toEnd bool

	cmd := &cobra.Command{
		Use:   "move [name]",
		Short: "Move a sound to another place in the list",
		Long: `Move a sound onto the slot of another sound (--before) or to the end of the list (--end).
This is the same remove-then-insert a drag and drop on the board performs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.moveSound(ctx, args[0], target, toEnd)
		},
	}
	cmd.Flags().StringVarP(&target, "before", "b", "", "name of the sound whose slot to take")
	cmd.Flags().BoolVarP(&toEnd, "end", "e", false, "move to the end of the list")
	cmd.MarkFlagsMutuallyExclusive("before", "end")
	cmd.MarkFlagsOneRequired("before", "end")

	return cmd
}

func (app *Application) moveSound(ctx context.Context, name, target string, toEnd bool) error {
	s, err := app.soundByName(name)
	if err != nil {
		return err
	}

	var before *sound.Sound
	if !toEnd {
		if before, err = app.soundByName(target); err != nil {
			return err
		}
	}

	if err := app.Library.Move(ctx, s, before); err != nil {
		return fmt.Errorf("ошибка перемещения звука: %w", err)
	}

	fmt.Printf("↕️  Порядок: %v\n", sound.Names(app.Library.Sounds()))
	return nil
}
