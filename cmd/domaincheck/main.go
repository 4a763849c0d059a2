// Command domaincheck reads a forbidden list and a list of domains from
// stdin and prints Bad or Good for each domain.
//
// Input format:
//
//	N
//	<N forbidden domains, one per line>
//	M
//	<M domains to check, one per line>
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/TinaKropaneva/restricted-domains/internal/cli"
	"github.com/TinaKropaneva/restricted-domains/internal/config"
	"github.com/TinaKropaneva/restricted-domains/internal/logs"
)

func main() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("warning: couldn't load .env: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// stdout carries the verdicts, so logs never go there.
	output := cfg.LogOutput
	switch output {
	case "stdout":
		output = "stderr"
	case "both":
		output = "file"
	}
	logger := logs.NewWithOptions(logs.Options{
		Level:          cfg.LogLevel,
		Output:         output,
		FilePath:       cfg.LogFilePath,
		FileMaxSizeMB:  cfg.LogFileMaxSize,
		FileMaxBackups: cfg.LogFileMaxBackups,
		FileMaxAgeDays: cfg.LogFileMaxAge,
		FileCompress:   cfg.LogFileCompress,
	})

	if err := cli.Run(os.Stdin, os.Stdout, logger); err != nil {
		logger.Fatal().Err(err).Msg("domaincheck failed")
	}
}
