package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/deskhq/memoflow/internal/application/dispatcher"
	"github.com/deskhq/memoflow/internal/application/port"
	"github.com/deskhq/memoflow/internal/application/service"
	appwf "github.com/deskhq/memoflow/internal/application/workflow"
	"github.com/deskhq/memoflow/internal/config"
	"github.com/deskhq/memoflow/internal/infrastructure/external/lark"
	"github.com/deskhq/memoflow/internal/infrastructure/external/lognotifier"
	"github.com/deskhq/memoflow/internal/infrastructure/persistence/repository"
	"github.com/deskhq/memoflow/internal/infrastructure/persistence/sqlite"
	httpadapter "github.com/deskhq/memoflow/internal/interfaces/http"
	"github.com/deskhq/memoflow/pkg/database"
	"github.com/deskhq/memoflow/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	configPath := os.Getenv("MEMOFLOW_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting memo workflow service",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path),
		zap.String("notifier", cfg.Notifier.Kind))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	kvLogger := utils.NewKVLogger(logger)

	memoRepo := repository.NewMemoRepository(db.DB, logger)
	historyRepo := repository.NewHistoryRepository(db.DB, logger)
	notificationRepo := repository.NewNotificationRepository(db.DB, logger)
	txManager := sqlite.NewDB(db.DB, logger)

	eventDispatcher := dispatcher.NewDispatcher(dispatcher.WithLogger(kvLogger))
	defer eventDispatcher.Close()

	var notifier port.Notifier
	switch cfg.Notifier.Kind {
	case config.NotifierLark:
		notifier = lark.NewMessenger(lark.Config{
			AppID:     cfg.Notifier.Lark.AppID,
			AppSecret: cfg.Notifier.Lark.AppSecret,
		}, logger)
	default:
		notifier = lognotifier.New(logger)
	}

	notificationService := service.NewNotificationService(
		memoRepo, historyRepo, notificationRepo, notifier,
		cfg.Notifier.SendTimeout, kvLogger,
	)
	notificationService.Register(eventDispatcher)

	engine := appwf.NewEngine(
		memoRepo, historyRepo, txManager, kvLogger,
		appwf.WithDispatcher(eventDispatcher),
	)

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, engine, notificationService, kvLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server exited with error", zap.Error(err))
	}

	logger.Info("Server shut down cleanly")
}
