package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/playsounds/internal/media"
	"github.com/hazadus/playsounds/internal/search"
	"github.com/hazadus/playsounds/internal/sound"
	"github.com/hazadus/playsounds/internal/uploader"
	"github.com/hazadus/playsounds/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all sounds in board order",
		Long:  `Display the sound list in the order it is shown on the board.`,
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			app.listSounds()
		},
	}
}

// createFindCommand создает команду find с привязкой к экземпляру приложения
func (app *Application) createFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find [query]",
		Short: "Find sounds by name",
		Long:  `Fuzzy search the sound list by name, best matches first.`,
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			app.findSounds(args[0])
		},
	}
}

func (app *Application) listSounds() {
	sounds := app.Library.Sounds()
	if len(sounds) == 0 {
		fmt.Println("📚 Список пуст. Добавьте звуки с помощью команды 'add'.")
		return
	}

	fmt.Printf("📚 Найдено звуков: %d\n\n", len(sounds))
	printSounds(sounds)

	fmt.Println()
	fmt.Println("💡 Используйте 'playsounds play [name]' для воспроизведения звука")
}

func (app *Application) findSounds(query string) {
	found := search.Find(app.Library.Sounds(), query)
	if len(found) == 0 {
		fmt.Printf("🔍 По запросу '%s' ничего не найдено\n", query)
		return
	}

	fmt.Printf("🔍 Найдено звуков: %d\n\n", len(found))
	printSounds(found)
}

// printSounds выводит звуки таблицей. Номер - позиция звука в списке
func printSounds(sounds []*sound.Sound) {
	fmt.Printf("%-4s %-30s %-9s %s\n", "#", "Название", "Тип", "Источник")
	fmt.Println(strings.Repeat("-", 90))

	for i, s := range sounds {
		fmt.Printf("%-4d %-30s %-9s %s\n",
			i+1,
			utils.TruncateString(s.Name, 28),
			s.Origin,
			describeSource(s.Src))
	}
}

// describeSource сокращает источник для вывода: data URL может занимать мегабайты
func describeSource(src string) string {
	if media.IsDataURL(src) {
		if data, contentType, err := media.DecodeDataURL(src); err == nil {
			return fmt.Sprintf("%s, %s", contentType, uploader.FormatFileSize(int64(len(data))))
		}
		return "data URL"
	}
	return utils.TruncateString(src, 50)
}
