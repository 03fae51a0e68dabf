package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"screening-backend/internal/ai"
	"screening-backend/internal/cache"
	"screening-backend/internal/candidates"
	"screening-backend/internal/extract"
	"screening-backend/internal/jobs"
	"screening-backend/internal/scoring"
	"screening-backend/internal/shared/config"
	"screening-backend/internal/shared/server"
	"screening-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Cache  cache.Cache

	JobsRepo       jobs.JobsRepo
	CandidatesRepo candidates.CandidatesRepo

	JobsService       *jobs.Service
	CandidatesService *candidates.Service

	JobsHandler       *jobs.Handler
	CandidatesHandler *candidates.Handler
}

// Build prepares shared dependencies and wires the router. A missing
// database or Redis degrades to in-memory implementations in dev-like
// environments; production requires the database.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Cache:  buildCache(ctx, cfg),
	}

	if sqlDB != nil {
		app.JobsRepo = &jobs.PGRepo{DB: sqlDB}
		app.CandidatesRepo = &candidates.PGRepo{DB: sqlDB}
	} else {
		app.JobsRepo = jobs.NewMemoryRepo()
		app.CandidatesRepo = candidates.NewMemoryRepo()
	}

	app.JobsService = &jobs.Service{Repo: app.JobsRepo}
	app.CandidatesService = &candidates.Service{
		Repo:       app.CandidatesRepo,
		Jobs:       app.JobsService,
		Normalizer: &extract.Normalizer{Fetcher: extract.NewHTTPFetcher(cfg.FetchTimeout)},
		Engine: &scoring.Engine{
			AI:        buildAnalyzer(cfg),
			AITimeout: cfg.AITimeout,
		},
		Cache:    app.Cache,
		CacheTTL: cfg.ScoreCacheTTL,
	}

	app.JobsHandler = jobs.NewHandler(app.JobsService)
	app.CandidatesHandler = candidates.NewHandler(app.CandidatesService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		JobsHandler:       app.JobsHandler,
		CandidatesHandler: app.CandidatesHandler,
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
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			_ = sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildCache(ctx context.Context, cfg config.Config) cache.Cache {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return cache.NewMemoryCache()
	}
	redisCache, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Printf("bootstrap: redis connect failed; using in-memory score cache: %v", err)
		return cache.NewMemoryCache()
	}
	return redisCache
}

func buildAnalyzer(cfg config.Config) scoring.Analyzer {
	if strings.TrimSpace(cfg.AIAPIKey) == "" {
		log.Printf("bootstrap: AI_API_KEY empty; scoring runs without AI adjustment")
		return nil
	}
	client, err := ai.NewClient(ai.Options{
		APIKey:  cfg.AIAPIKey,
		Model:   cfg.AIModel,
		BaseURL: cfg.AIBaseURL,
		Timeout: cfg.AITimeout,
	})
	if err != nil {
		log.Printf("bootstrap: AI client disabled: %v", err)
		return nil
	}
	return client
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
