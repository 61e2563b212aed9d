package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dsiemon2/eventvote/internal/app"
	"github.com/dsiemon2/eventvote/internal/config"
	"github.com/dsiemon2/eventvote/internal/logger"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Config file path (optional)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	logLevel := flag.String("loglevel", "", "Log level: debug, info, warn, error (overrides config)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("eventvote %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Flags beat config file and environment
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	appLogger := logger.NewWithLevel(logger.ParseLevel(cfg.Logging.Level))

	a, err := app.New(appLogger, cfg)
	if err != nil {
		appLogger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	if err := a.Run(addr); err != nil {
		appLogger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
