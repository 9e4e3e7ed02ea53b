package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"datascout/adapters/llm"
	"datascout/adapters/postgres"
	"datascout/app"
	"datascout/internal/config"
	"datascout/internal/errors"
	"datascout/internal/memory"
	"datascout/ports"
	"datascout/ui"
)

// initDatabase connects and verifies the PostgreSQL connection.
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return db, nil
}

// buildRunRepository prefers PostgreSQL when DATABASE_URL is set and falls
// back to the in-memory store otherwise.
func buildRunRepository(appConfig *config.Config) (ports.RunRepository, func()) {
	if appConfig.Database.URL == "" {
		log.Println("DATABASE_URL not set, storing runs in memory")
		return memory.NewRunStore(), func() {}
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	repo, err := postgres.NewRunRepository(db)
	if err != nil {
		log.Fatalf("Failed to initialize run repository: %v", err)
	}
	return repo, func() { db.Close() }
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	repo, closeRepo := buildRunRepository(appConfig)
	defer closeRepo()

	generator, err := llm.NewGeneratorAdapter(llm.Config{
		Model:       appConfig.AI.OpenAIModel,
		APIKey:      appConfig.AI.OpenAIKey,
		Temperature: appConfig.AI.Temperature,
		MaxTokens:   appConfig.AI.MaxTokens,
	})
	if err != nil {
		log.Fatalf("Failed to initialize generator: %v", err)
	}

	supervisor := app.NewSupervisor(generator, repo, appConfig.Data.MaxSampleValues)

	webApp := ui.NewApp(supervisor, repo, ui.Config{
		Port:    appConfig.Server.Port,
		MaxRows: appConfig.Data.MaxRowsForAnalysis,
	})
	if err := webApp.Run(appConfig.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
