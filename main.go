package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"csvscope/adapters/plot"
	"csvscope/adapters/postgres"
	"csvscope/internal"
	"csvscope/internal/cleaning"
	"csvscope/internal/config"
	"csvscope/internal/pipeline"
	"csvscope/internal/summarize"
	"csvscope/ports"
	"csvscope/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	// The run ledger is optional; without DATABASE_URL the pipeline runs
	// without recording.
	var ledger ports.RunLedger
	if appConfig.Database.URL != "" {
		db, err := postgres.Connect(context.Background(), appConfig.Database.URL)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		ledger = postgres.NewRunRepository(db)
		logger.Info("run ledger enabled")
	}

	coercion := cleaning.DefaultCoercionConfig()
	coercion.NumericThreshold = appConfig.Pipeline.NumericThreshold
	cleaner := cleaning.NewCleaner(coercion)
	engine := summarize.NewEngine(logger)
	renderer := plot.NewRenderer(plot.Config{
		CountPlotMax: appConfig.Pipeline.CountPlotMax,
		MaxBins:      appConfig.Pipeline.MaxBins,
	}, logger)

	orchestrator := pipeline.New(cleaner, engine, renderer, ledger, logger)

	app, err := ui.NewApp(appConfig, orchestrator, ledger, logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Fatal(app.Start())
}
