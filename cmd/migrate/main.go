package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"goanova/adapters/postgres"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate <database_url> (or set DATABASE_URL)")
	}

	ctx := context.Background()
	db, err := postgres.Connect(ctx, databaseURL, 2)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRunRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Println("Schema is up to date")
}
