package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/seabattle-backend/internal/config"
	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
	"github.com/rocketscienceinc/seabattle-backend/internal/repository"
	"github.com/rocketscienceinc/seabattle-backend/internal/repository/storage"
	"github.com/rocketscienceinc/seabattle-backend/internal/usecase"
	"github.com/rocketscienceinc/seabattle-backend/transport/rest"
	"github.com/rocketscienceinc/seabattle-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	defaults, err := gameDefaults(conf.Game)
	if err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	playerRepo := repository.NewPlayerRepository(redisStorage)
	gameRepo := repository.NewGameRepository(redisStorage)
	botRepo := repository.NewBotRepository(redisStorage)
	roundRepo := repository.NewRoundRepository(sqliteStorage.Connection)

	gameManager := usecase.NewGameManager(logger, playerRepo, gameRepo, botRepo, roundRepo, defaults)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, gameManager).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// gameDefaults validates the configured new-player settings before anything is started.
func gameDefaults(conf config.Game) (usecase.Defaults, error) {
	settings := entity.Settings{
		Difficulty: conf.Difficulty,
		Width:      conf.Width,
		Height:     conf.Height,
	}

	if err := settings.Validate(); err != nil {
		return usecase.Defaults{}, err
	}

	return usecase.Defaults{
		Settings:         settings,
		MaxShipSize:      conf.MaxShipSize,
		MaxRegenerations: conf.MaxRegenerations,
	}, nil
}
