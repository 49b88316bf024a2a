package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/openmits/mitslint/internal/config"
	"github.com/openmits/mitslint/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("MITSLINT_CONFIG_PATH")
	}
	if path == "" {
		path = "configs/config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	srv := server.New(cfg, logger)
	go srv.Limiter().Cleanup()

	if err := srv.Run(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
