// Command web serves the BITS HD admissions dashboard API.
package main

import (
	"flag"
	"log/slog"
	"os"

	"hdpulse/internal/app"
	"hdpulse/internal/config"
)

func main() {
	datasetPath := flag.String("dataset", "", "path to the JSON survey export (overrides config)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *datasetPath != "" {
		cfg.Dataset.Path = *datasetPath
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.RunUntilInterrupt(); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
