package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"sseojum/internal/ai/classifier"
	"sseojum/internal/ai/generation"
	"sseojum/internal/ai/guideline"
	"sseojum/internal/ai/vertex"
	"sseojum/internal/config"
	"sseojum/internal/crawler"
	"sseojum/internal/database"
	"sseojum/internal/database/migration"
	dbpostgres "sseojum/internal/database/postgres"
	"sseojum/internal/delivery/http/handler"
	"sseojum/internal/delivery/http/middleware"
	"sseojum/internal/delivery/http/routes"
	"sseojum/internal/fileextract"
	"sseojum/internal/infrastructure/cache"
	"sseojum/internal/pkg/jwt"
	"sseojum/internal/repository"
	"sseojum/internal/usecase"
)

// Container wires every component of the service. Construction fails on
// anything the service cannot run without (database, Vertex AI client);
// cache and classifier warmup degrade instead of failing.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis

	Classifier *classifier.Classifier
	Routes     *routes.Registry
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	runner := migration.Runner{Dir: os.Getenv("MIGRATIONS_DIR")}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redis := cache.NewRedis(cfg.Redis, logger)

	vertexClient, err := vertex.NewClient(ctx, cfg.VertexAI)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create vertex client: %w", err)
	}

	qc := classifier.New(vertexClient, cfg.Classifier.ConfidenceThreshold, cfg.Classifier.AmbiguityMargin, logger)
	if cfg.VertexAI.CentroidsFile != "" {
		if err := qc.LoadCentroids(cfg.VertexAI.CentroidsFile); err != nil {
			logger.Printf("classifier: centroids file %s unusable, falling back to warmup: %v", cfg.VertexAI.CentroidsFile, err)
		}
	}

	guidelines := guideline.NewRepository()
	engine := generation.NewEngine(vertexClient, qc, guidelines, logger)

	jobCrawler := crawler.New(cfg.Crawler, logger)
	extractor := fileextract.New(cfg.Upload)

	users := repository.NewPostgresUserRepository(db)
	sessions := repository.NewPostgresSessionRepository(db)
	questions := repository.NewPostgresQuestionRepository(db)

	jwtSvc := jwt.NewHMACService(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessExpiresIn,
		cfg.Auth.RefreshExpiresIn,
	)

	authUC := usecase.NewAuthUsecase(users, jwtSvc)
	jobInfoUC := usecase.NewJobInfoUsecase(jobCrawler, redis, logger)
	sessionUC := usecase.NewSessionUsecase(sessions, questions, extractor, engine, jobInfoUC, cfg.Upload.MaxQuestions, logger)
	questionUC := usecase.NewQuestionUsecase(sessions, questions, engine, cfg.Upload.MaxQuestions, logger)

	authMW := middleware.NewAuthMiddleware(jwtSvc)

	registry := routes.NewRegistry(
		handler.NewHealthHandler(db, redis, qc),
		handler.NewAuthHandler(authUC),
		handler.NewJobInfoHandler(jobInfoUC),
		handler.NewUploadHandler(sessionUC),
		handler.NewSessionHandler(sessionUC),
		handler.NewQuestionHandler(questionUC),
		authMW.Middleware(),
	)

	return &Container{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Cache:      redis,
		Classifier: qc,
		Routes:     registry,
	}, nil
}

func (c *Container) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
