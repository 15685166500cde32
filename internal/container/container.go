package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	database "github.com/geulda/go-tour-recommendations/app/db"
	"github.com/geulda/go-tour-recommendations/config"
	generativeAI "github.com/geulda/go-tour-recommendations/internal/api/generative_ai"
	"github.com/geulda/go-tour-recommendations/internal/api/place"
	"github.com/geulda/go-tour-recommendations/internal/api/recommendation"
	"github.com/geulda/go-tour-recommendations/internal/api/vectorstore"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	Redis  *redis.Client

	RecommendationHandler *recommendation.Handler
	VectorStoreHandler    *vectorstore.Handler
}

// NewContainer wires repositories, services and handlers bottom-up.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Repositories.Redis.Addr,
		Password: cfg.Repositories.Redis.Password,
		DB:       cfg.Repositories.Redis.DB,
	})

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini.Model, cfg.Gemini.EmbeddingModel, logger)
	if err != nil {
		logger.Error("Failed to initialize AI client", slog.Any("error", err))
		pool.Close()
		return nil, err
	}

	placeRepo := place.NewPostgresPlaceRepo(pool, logger)
	placeService := place.NewServiceImpl(placeRepo, logger)

	vectorIndex := vectorstore.NewPgVectorIndex(placeRepo, aiClient, logger)

	searchService := recommendation.NewSearchService(placeService, vectorIndex, logger)
	generator := recommendation.NewPlaceGenerator(aiClient, placeService, logger)
	mustVisit := recommendation.NewMustVisitResolver(searchService, aiClient, generator, logger)
	selector := recommendation.NewPlaceSelector(aiClient, logger)
	sessions := recommendation.NewRedisSessionStore(redisClient, logger)

	recommendationService := recommendation.NewServiceImpl(searchService, mustVisit, selector, generator, sessions, logger)

	return &Container{
		Config:                cfg,
		Logger:                logger,
		Pool:                  pool,
		Redis:                 redisClient,
		RecommendationHandler: recommendation.NewHandler(recommendationService, logger),
		VectorStoreHandler:    vectorstore.NewHandler(vectorIndex, logger),
	}, nil
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Error closing redis client", slog.Any("error", err))
		}
	}
}

// WaitForDB waits for the database to be ready.
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations.
func (c *Container) RunMigrations(connectionURL string) error {
	return database.RunMigrations(connectionURL, c.Logger)
}
