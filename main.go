package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	app "github.com/rocketscienceinc/seabattle-backend/internal"
	"github.com/rocketscienceinc/seabattle-backend/internal/config"
)

const (
	serviceName       = "seabattle"
	configPathEnv     = "CONFIG_PATH"
	defaultConfigFile = "config.yml"
)

// main - loads the configuration, builds the logger and serves games until a signal arrives.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := config.MustLoad(configPath())
	logger := initLogger(conf.LogLevel)

	logger.Info("configuration loaded",
		"http_port", conf.HTTPPort,
		"socket_port", conf.SocketPort,
		"board", fmt.Sprintf("%dx%d", conf.Game.Width, conf.Game.Height),
		"difficulty", conf.Game.Difficulty,
	)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// configPath prefers CONFIG_PATH and falls back to config.yml in the working directory.
func configPath() string {
	if path := os.Getenv(configPathEnv); path != "" {
		return path
	}

	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return filepath.Join(baseDir, defaultConfigFile)
}

// initLogger builds the JSON logger. An unknown level falls back to info.
func initLogger(levelName string) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	return slog.New(handler).With("service", serviceName)
}
