// Command generate_embeddings backfills the pgvector column for every
// visible place. Run it once after seeding the catalog, or whenever the
// embedding model changes; the HTTP rebuild endpoint does the same job at
// runtime.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	database "github.com/geulda/go-tour-recommendations/app/db"
	"github.com/geulda/go-tour-recommendations/config"
	generativeAI "github.com/geulda/go-tour-recommendations/internal/api/generative_ai"
	"github.com/geulda/go-tour-recommendations/internal/api/place"
	"github.com/geulda/go-tour-recommendations/internal/api/vectorstore"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		log.Fatalf("Failed to generate database config: %v", err)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		log.Fatal("Database not reachable")
	}

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini.Model, cfg.Gemini.EmbeddingModel, logger)
	if err != nil {
		log.Fatalf("Failed to initialize AI client: %v", err)
	}

	repo := place.NewPostgresPlaceRepo(pool, logger)
	index := vectorstore.NewPgVectorIndex(repo, aiClient, logger)

	if err := index.Rebuild(ctx); err != nil {
		log.Fatalf("Embedding backfill failed: %v", err)
	}
	logger.Info("Embedding backfill complete", slog.String("state", index.State().String()))
}
