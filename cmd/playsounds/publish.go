package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/playsounds/internal/config"
	"github.com/hazadus/playsounds/internal/media"
	"github.com/hazadus/playsounds/internal/s3"
	"github.com/hazadus/playsounds/internal/sound"
	"github.com/hazadus/playsounds/internal/uploader"
)

// publishTimeout ограничение на загрузку одного файла
const publishTimeout = 10 * time.Minute

// createPublishCommand создает команду publish с привязкой к экземпляру приложения
func (app *Application) createPublishCommand(ctx context.Context) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "publish [file path]",
		Short: "Upload an MP3/WAV file to S3 and add it as a url sound",
		Long: `Upload a local sound file to the configured S3 bucket with progress tracking,
then add the public URL to the end of the list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Создаем контекст с таймаутом для загрузки
			uploadCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			defer cancel()
			return app.publishSound(uploadCtx, args[0], name)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "sound name (taken from the file tags by default)")

	return cmd
}

func (app *Application) publishSound(ctx context.Context, filePath, name string) error {
	filePath, err := config.ExpandHome(filePath)
	if err != nil {
		return err
	}

	s3Uploader, err := s3.NewUploader(app.Config.S3())
	if err != nil {
		return fmt.Errorf("ошибка создания S3 uploader: %w", err)
	}
	service := uploader.NewService(s3Uploader)

	fileInfo, err := media.GetFileInfo(filePath)
	if err != nil {
		return err
	}

	fmt.Printf("📤 Загружаем файл в S3:\n")
	fmt.Printf("   Файл: %s\n", filePath)
	fmt.Printf("   Размер: %s\n", uploader.FormatFileSize(fileInfo.Size))
	fmt.Printf("   Длительность: %s\n", uploader.FormatDuration(fileInfo.Duration))
	fmt.Printf("   Бакет: %s\n", app.Config.AwsBucketName)
	fmt.Println()

	progressChan := make(chan int64, 1)
	progressDone := make(chan struct{})

	go func() {
		defer close(progressDone)
		startTime := time.Now()

		for progress := range progressChan {
			if progress <= 0 || fileInfo.Size <= 0 {
				continue
			}
			elapsed := time.Since(startTime)
			percentage := float64(progress) / float64(fileInfo.Size) * 100
			speed := float64(progress) / elapsed.Seconds()

			var remainingTime time.Duration
			if speed > 0 {
				remainingTime = time.Duration(float64(fileInfo.Size-progress)/speed) * time.Second
			}

			fmt.Printf("\r📊 Прогресс: %.1f%% | Скорость: %s/s | Прошло: %s | Осталось: %s",
				percentage,
				uploader.FormatFileSize(int64(speed)),
				uploader.FormatDuration(elapsed),
				uploader.FormatDuration(remainingTime))
		}
	}()

	result, err := service.Publish(ctx, filePath, name, func(bytesRead int64) {
		// Пропускаем обновление, если предыдущее еще не выведено
		select {
		case progressChan <- bytesRead:
		default:
		}
	})
	close(progressChan)
	<-progressDone

	if err != nil {
		if ctx.Err() != nil {
			fmt.Printf("\n🚫 Загрузка отменена\n")
		}
		return fmt.Errorf("ошибка публикации файла: %w", err)
	}

	fmt.Printf("\n✅ Файл загружен в S3!\n")
	fmt.Printf("   URL: %s\n", result.URL)

	if _, err := app.Library.Add(ctx, result.Name, result.URL, sound.OriginURL); err != nil {
		// Звук не добавлен: объект в бакете больше никому не нужен
		if retractErr := service.Retract(context.WithoutCancel(ctx), result); retractErr != nil {
			fmt.Printf("⚠️  Не удалось удалить %s из S3: %v\n", result.Key, retractErr)
		}
		return libraryError(err)
	}
	return nil
}
