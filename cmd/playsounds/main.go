package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazadus/playsounds/internal/clock"
	"github.com/hazadus/playsounds/internal/config"
	"github.com/hazadus/playsounds/internal/library"
	"github.com/hazadus/playsounds/internal/notify"
	"github.com/hazadus/playsounds/internal/storage"
)

// errReported ошибка, о которой пользователь уже узнал из уведомления
var errReported = errors.New("операция завершилась с ошибкой")

// Application хранит зависимости, общие для всех команд
type Application struct {
	Config  *config.Config
	Store   *storage.Store
	Library *library.Library
	Center  *notify.Center

	configPath string
	ephemeral  bool

	// echo печатать уведомления в stdout. Выключается, пока работает TUI
	echo   bool
	failed bool
}

// NewApplication создает приложение без открытого хранилища
func NewApplication() *Application {
	return &Application{configPath: config.DefaultPath, echo: true}
}

// Open загружает конфигурацию, открывает хранилище и библиотеку
func (app *Application) Open(ctx context.Context) error {
	cfg, err := config.LoadConfig(app.configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	if app.ephemeral {
		cfg.StorageBackend = storage.BackendMemory
	}

	backend, err := storage.Open(ctx, cfg.StorageBackend, cfg.StoragePath, cfg.StorageQuota)
	if err != nil {
		return fmt.Errorf("ошибка открытия хранилища: %w", err)
	}

	app.Config = cfg
	app.Store = storage.NewStore(backend, storage.DefaultKey)
	app.Center = notify.NewCenter(clock.Real(), cfg.NotificationDuration())
	app.Library = library.Open(ctx, app.Store, app.Center)
	app.watchNotifications()
	return nil
}

// watchNotifications печатает уведомления центра и запоминает ошибки
func (app *Application) watchNotifications() {
	app.Center.Subscribe(func(n notify.Notification) {
		if !n.Visible {
			return
		}
		if n.Level == notify.Danger {
			app.failed = true
		}
		if !app.echo {
			return
		}
		switch n.Level {
		case notify.Danger:
			fmt.Printf("❌ %s\n", n.Message)
		default:
			fmt.Printf("✅ %s\n", n.Message)
		}
	})
}

// Close закрывает хранилище
func (app *Application) Close() error {
	if app.Store == nil {
		return nil
	}
	return app.Store.Close()
}

// Execute запускает корневую команду и завершает процесс при ошибке
func (app *Application) Execute(ctx context.Context) {
	err := app.createRootCommand(ctx).ExecuteContext(ctx)
	if closeErr := app.Close(); closeErr != nil {
		fmt.Printf("⚠️  Ошибка закрытия хранилища: %v\n", closeErr)
	}
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Printf("❌ Ошибка: %v\n", err)
		}
		os.Exit(1)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	NewApplication().Execute(ctx)
}
