package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"goanova/adapters/excel"
	"goanova/adapters/postgres"
	"goanova/app"
	"goanova/internal/config"
	"goanova/ports"
	"goanova/ui"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var runs ports.RunRepository
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(context.Background(), cfg.Database.URL, cfg.Database.MaxOpenConns)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		repo := postgres.NewRunRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		runs = repo
	}

	if cfg.Data.File == "" {
		log.Fatal("DATA_FILE is required")
	}
	reader := excel.NewDataReader(cfg.Data.File).WithSheet(cfg.Data.Sheet)

	anovaService := app.NewAnovaService(runs)
	sweepService := app.NewSweepService(anovaService, 4)

	server := ui.NewApp(anovaService, sweepService, reader)
	if err := server.Start(ui.Config{Port: cfg.Server.Port}); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
