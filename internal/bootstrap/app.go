// Package bootstrap assembles shared dependencies for the API and worker
// binaries.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sameer-shreyas/ResumeOptimizer/internal/analysis"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/cache"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/files"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/jobs"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/queue"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/reports"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/scoring"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/scoring/cerebras"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/sessions"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/shared/config"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/shared/server"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/shared/storage/db"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/shared/storage/object"
	localstore "github.com/sameer-shreyas/ResumeOptimizer/internal/shared/storage/object/local"
	s3store "github.com/sameer-shreyas/ResumeOptimizer/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	FilesRepo    files.Repo
	SessionsRepo sessions.Repo
	ReportsRepo  reports.Repo
	JobsRepo     jobs.Repo

	AnalysisService *analysis.Service
	AnalysisHandler *analysis.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	buildRepos(app)

	scorer, err := buildScorer(cfg)
	if err != nil {
		return nil, err
	}

	app.AnalysisService = &analysis.Service{
		Files:    app.FilesRepo,
		Sessions: app.SessionsRepo,
		Reports:  app.ReportsRepo,
		Jobs:     app.JobsRepo,
		Store:    app.Store,
		Scorer:   scorer,
		Keywords: cache.NewMemoryStore(cfg.KeywordCacheTTL),
	}

	queueClient, err := buildQueue(ctx, cfg, app.AnalysisService)
	if err != nil {
		return nil, err
	}
	app.Queue = queueClient
	app.AnalysisService.Queue = queueClient

	app.AnalysisHandler = &analysis.Handler{Service: app.AnalysisService}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AnalysisHandler: app.AnalysisHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildRepos(app *App) {
	if app.DB != nil {
		filesRepo := &files.PGRepo{DB: app.DB}
		app.FilesRepo = filesRepo
		app.SessionsRepo = &sessions.PGRepo{DB: app.DB}
		app.ReportsRepo = &reports.PGRepo{DB: app.DB}
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		return
	}
	filesRepo := files.NewMemoryRepo()
	app.FilesRepo = filesRepo
	app.SessionsRepo = sessions.NewMemoryRepo()
	app.ReportsRepo = reports.NewMemoryRepo(filesRepo)
	app.JobsRepo = jobs.NewMemoryRepo()
}

func buildScorer(cfg config.Config) (scoring.Client, error) {
	if strings.TrimSpace(cfg.ScoringAPIToken) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: SCORING_API_TOKEN empty; scoring disabled")
			return scoring.PlaceholderClient{}, nil
		}
		return nil, fmt.Errorf("SCORING_API_TOKEN is required")
	}
	return cerebras.NewClient(cfg.ScoringBaseURL, cfg.ScoringAPIToken, cfg.ScoringModel, cfg.ScoringTimeout)
}

// buildQueue picks the queue backend. The local backend loops straight back
// into the analysis service, so a single binary serves uploads and runs jobs.
func buildQueue(ctx context.Context, cfg config.Config, svc *analysis.Service) (queue.Client, error) {
	switch cfg.QueueBackend {
	case "sqs":
		return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.SQSQueueURL)
	case "amqp":
		return queue.NewAMQPClient(cfg.AMQPURL, cfg.AMQPQueue)
	default:
		return &queue.LocalClient{
			Handler: func(ctx context.Context, msg queue.Message) {
				_ = svc.Run(ctx, msg)
			},
		}, nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
