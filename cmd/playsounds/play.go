package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/playsounds/internal/player"
	"github.com/hazadus/playsounds/internal/streaming"
	"github.com/hazadus/playsounds/internal/utils"
)

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "play [name]",
		Short: "Play a sound by its name",
		Long:  `Play a sound from the list and wait until it ends. Ctrl+C stops playback.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.playByName(ctx, args[0])
		},
	}
}

func (app *Application) playByName(ctx context.Context, name string) error {
	s, err := app.soundByName(name)
	if err != nil {
		return err
	}

	p := player.NewPlayer()
	defer p.Close()

	if err := p.Play(s.Src); err != nil {
		app.Center.Danger(fmt.Sprintf("Cannot play %s", s.Name))
		return fmt.Errorf("ошибка запуска воспроизведения: %w", err)
	}
	app.Library.SetPlaying(s)
	defer app.Library.SetPlaying(nil)

	fmt.Printf("🎵 Сейчас играет: %s\n", s.Name)
	if streaming.IsStreamURL(s.Src) {
		fmt.Printf("🌐 Потоковое воспроизведение: %s\n", s.Src)
	}
	fmt.Println("   [Ctrl+C] - остановить и выйти")
	fmt.Println()

	for {
		select {
		case status := <-p.Progress():
			displayProgress(status)
		case <-p.Done():
			fmt.Println("\n✅ Воспроизведение завершено")
			return nil
		case <-ctx.Done():
			fmt.Println("\n⏹️  Воспроизведение остановлено пользователем")
			p.Stop()
			return nil
		}
	}
}

// displayProgress выводит состояние воспроизведения в одну строку
func displayProgress(status player.Status) {
	statusIcon := "▶️ "
	if !status.IsPlaying {
		statusIcon = "⏸️ "
	} else if status.StuckCount > 3 {
		statusIcon = "⚠️ "
	}

	line := fmt.Sprintf("\r%s %s", statusIcon, utils.FormatDuration(status.Current))
	if status.Total > 0 {
		percent := float64(status.Current) / float64(status.Total) * 100
		line += fmt.Sprintf(" / %s | %.1f%%", utils.FormatDuration(status.Total), percent)
	}
	if status.Streaming {
		line += " | " + streaming.GetStreamStatus(status.StuckCount)
	}
	fmt.Print(line + "\033[K")
}
