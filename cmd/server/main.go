package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/TinaKropaneva/restricted-domains/internal/app"
	"github.com/TinaKropaneva/restricted-domains/internal/config"
	"github.com/TinaKropaneva/restricted-domains/internal/logs"
)

func loadDotenv() {
	// Load .env if it exists, but don't fail if it's missing.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("warning: couldn't load .env: %v", err)
		}
	}
}

func main() {
	loadDotenv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logs.NewWithOptions(logs.Options{
		Level:          cfg.LogLevel,
		Output:         cfg.LogOutput,
		FilePath:       cfg.LogFilePath,
		FileMaxSizeMB:  cfg.LogFileMaxSize,
		FileMaxBackups: cfg.LogFileMaxBackups,
		FileMaxAgeDays: cfg.LogFileMaxAge,
		FileCompress:   cfg.LogFileCompress,
	})

	// os.Interrupt is Ctrl+C, SIGTERM comes from Docker/k8s.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil {
		stop()
		logger.Fatal().Err(err).Msg("app error")
	}
}
