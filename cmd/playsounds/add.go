package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/playsounds/internal/config"
	"github.com/hazadus/playsounds/internal/media"
	"github.com/hazadus/playsounds/internal/sound"
	"github.com/hazadus/playsounds/internal/streaming"
)

// createAddCommand создает команду add с привязкой к экземпляру приложения
func (app *Application) createAddCommand(ctx context.Context) *cobra.Command {
	var originFlag string

	cmd := &cobra.Command{
		Use:   "add [name] [source]",
		Short: "Add a sound to the end of the list",
		Long: `Add a sound by URL or import a local MP3/WAV file.
A local file is stored inside the list as a data URL.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.addSound(ctx, args[0], args[1], originFlag)
		},
	}
	cmd.Flags().StringVarP(&originFlag, "type", "t", "", "sound type: url, file or recorded (detected from the source by default)")

	return cmd
}

// createEditCommand создает команду edit с привязкой к экземпляру приложения
func (app *Application) createEditCommand(ctx context.Context) *cobra.Command {
	var name, src, originFlag string

	cmd := &cobra.Command{
		Use:   "edit [name]",
		Short: "Change the name, source or type of a sound",
		Long:  `Change the fields of an existing sound in place. Fields without a flag keep their value.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("src") && !flags.Changed("type") {
				return fmt.Errorf("укажите хотя бы один из флагов --name, --src или --type")
			}
			return app.editSound(ctx, args[0], name, src, originFlag, flags.Changed("name"), flags.Changed("src"))
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&src, "src", "s", "", "new source: URL or path to a local file")
	cmd.Flags().StringVarP(&originFlag, "type", "t", "", "new sound type: url, file or recorded")

	return cmd
}

func (app *Application) addSound(ctx context.Context, name, src, originFlag string) error {
	src, origin, err := resolveSource(src, originFlag)
	if err != nil {
		return err
	}

	if _, err := app.Library.Add(ctx, name, src, origin); err != nil {
		return libraryError(err)
	}
	return nil
}

func (app *Application) editSound(ctx context.Context, current, name, src, originFlag string, nameSet, srcSet bool) error {
	s, err := app.soundByName(current)
	if err != nil {
		return err
	}

	if !nameSet {
		name = s.Name
	}

	origin := s.Origin
	if srcSet {
		if src, origin, err = resolveSource(src, originFlag); err != nil {
			return err
		}
	} else {
		src = s.Src
		if originFlag != "" {
			if origin, err = sound.ParseOrigin(originFlag); err != nil {
				return err
			}
		}
	}

	if err := app.Library.Edit(ctx, s, name, src, origin); err != nil {
		return libraryError(err)
	}
	return nil
}

// resolveSource определяет тип источника и читает локальный файл в data URL.
// Без явного типа источник должен быть URL или путем к существующему файлу
func resolveSource(src, originFlag string) (string, sound.Origin, error) {
	var origin sound.Origin
	if originFlag != "" {
		var err error
		if origin, err = sound.ParseOrigin(originFlag); err != nil {
			return "", "", err
		}
	}

	src = strings.TrimSpace(src)
	if src == "" || media.IsDataURL(src) || streaming.IsStreamURL(src) {
		return src, origin, nil
	}

	path, err := config.ExpandHome(src)
	if err != nil {
		return "", "", err
	}
	if origin == "" {
		info, statErr := os.Stat(path)
		if statErr != nil || info.IsDir() {
			return "", "", fmt.Errorf("файл %s не найден: укажите путь к файлу или URL http(s)", path)
		}
		origin = sound.OriginFile
	}
	if origin != sound.OriginFile {
		return src, origin, nil
	}

	fmt.Printf("📂 Читаем файл: %s\n", path)
	dataURL, err := media.ReadDataURL(path)
	if err != nil {
		return "", "", err
	}
	return dataURL, sound.OriginFile, nil
}
