package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"plant-relay/internal/analysis"
	"plant-relay/internal/dictionary"
	"plant-relay/internal/llm"
	"plant-relay/internal/llm/gemini"
	"plant-relay/internal/maintenance"
	"plant-relay/internal/services/health"
	"plant-relay/internal/shared/config"
	"plant-relay/internal/shared/server"
	"plant-relay/internal/shared/storage/db"
	"plant-relay/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Generator          llm.Generator
	MaintenanceRepo    maintenance.Repo
	DictionaryRepo     dictionary.Repo
	AnalysisService    *analysis.Service
	AnalysisHandler    *analysis.Handler
	MaintenanceHandler *maintenance.Handler
	DictionaryHandler  *dictionary.Handler

	closers []func() error
}

// Build wires repositories, the model client and the router. gen overrides
// the Gemini client when non-nil.
func Build(ctx context.Context, cfg config.Config, gen llm.Generator) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil {
		app.DB = sqlDB
		app.closers = append(app.closers, sqlDB.Close)
	}

	if gen == nil {
		gen, err = buildGenerator(ctx, cfg)
		if err != nil {
			app.Close()
			return nil, err
		}
		if closer, ok := gen.(interface{ Close() error }); ok {
			app.closers = append(app.closers, closer.Close)
		}
	}
	app.Generator = gen

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		Health:             health.NewService(),
		AnalysisHandler:    app.AnalysisHandler,
		MaintenanceHandler: app.MaintenanceHandler,
		DictionaryHandler:  app.DictionaryHandler,
	})
	return app, nil
}

// Close releases the database pool and the model client.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.memory_repositories", map[string]any{
			"reason": "DATABASE_URL empty",
		})
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{
				"reason": "database connect failed",
				"error":  err.Error(),
			})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{
				"reason": "migrations failed",
				"error":  err.Error(),
			})
			return nil, nil
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildGenerator(ctx context.Context, cfg config.Config) (llm.Generator, error) {
	if strings.TrimSpace(cfg.AIAPIKey) == "" {
		return llm.UnconfiguredGenerator{}, nil
	}
	client, err := gemini.NewClient(ctx, cfg.AIAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	telemetry.Info("bootstrap.gemini_ready", map[string]any{"model": client.Model()})
	return client, nil
}

func buildServices(app *App) {
	if app.DB != nil {
		app.MaintenanceRepo = &maintenance.PGRepo{DB: app.DB}
		app.DictionaryRepo = &dictionary.PGRepo{DB: app.DB}
	} else {
		app.MaintenanceRepo = maintenance.NewMemoryRepo()
		app.DictionaryRepo = dictionary.NewMemoryRepo()
	}

	app.AnalysisService = &analysis.Service{
		Generator:     app.Generator,
		PromptVersion: llm.DefaultPromptVersion,
		Timeout:       app.Config.UpstreamTimeout,
	}
	app.AnalysisHandler = analysis.NewHandler(app.AnalysisService, analysis.DefaultLimits(app.Config.MaxImageBytes))
	app.MaintenanceHandler = maintenance.NewHandler(app.MaintenanceRepo)
	app.DictionaryHandler = dictionary.NewHandler(&dictionary.Service{Repo: app.DictionaryRepo})
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
