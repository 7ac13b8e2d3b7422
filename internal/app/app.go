// Package app owns the process-wide state and wires it together. Nothing
// below it reaches for globals; handles are built here and handed down.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/mdesign/internal/config"
	"github.com/xxxsen/mdesign/internal/filestore"
	"github.com/xxxsen/mdesign/internal/handler"
	"github.com/xxxsen/mdesign/internal/job"
	"github.com/xxxsen/mdesign/internal/metrics"
	"github.com/xxxsen/mdesign/internal/middleware"
	"github.com/xxxsen/mdesign/internal/realtime"
	"github.com/xxxsen/mdesign/internal/repo"
	"github.com/xxxsen/mdesign/internal/schedule"
	"github.com/xxxsen/mdesign/internal/service"
)

const APIPrefix = "/api"

type App struct {
	db        *sqlx.DB
	channel   *realtime.Channel
	scheduler *schedule.Scheduler
	handler   http.Handler
	started   bool
}

// New builds the application around an already migrated db. The App takes
// ownership of db and closes it in Close.
func New(cfg *config.Config, db *sqlx.DB) (*App, error) {
	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return nil, fmt.Errorf("init file store: %w", err)
	}

	userRepo := repo.NewUserRepo(db)
	projectRepo := repo.NewProjectRepo(db)
	assetRepo := repo.NewAssetRepo(db)

	authService := service.NewAuthService(userRepo)
	projectService := service.NewProjectService(projectRepo, service.WithProjectCache(
		cfg.ProjectCache.Size,
		time.Duration(cfg.ProjectCache.TTLSec)*time.Second,
	))
	assetService := service.NewAssetService(assetRepo, store)

	channel := realtime.New(realtime.Options{
		ReadLimit:      cfg.Realtime.ReadLimit,
		PingInterval:   time.Duration(cfg.Realtime.PingIntervalSec) * time.Second,
		AllowedOrigins: cfg.Realtime.AllowedOrigins,
		Hooks:          realtime.DefaultHooks(),
	})

	deps := handler.RouterDeps{
		Auth:     handler.NewAuthHandler(authService),
		Projects: handler.NewProjectHandler(projectService),
		Files:    handler.NewFileHandler(assetService, cfg.UploadMaxBytes),
		Health:   handler.NewHealthHandler(db),
		Realtime: channel,
		Metrics:  metrics.Handler(),
	}

	engine, err := webapi.NewEngine(
		APIPrefix,
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			middleware.Metrics(),
			gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{
				APIPrefix + "/ws",
				APIPrefix + "/metrics",
			})),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("init web engine: %w", err)
	}
	scheduler := schedule.New()
	if spec := cfg.Jobs.WALCheckpoint; db.DriverName() == config.DriverSQLite && spec != "" && spec != config.JobDisabled {
		if err := scheduler.Add(spec, job.NewWALCheckpointJob(db)); err != nil {
			return nil, err
		}
	}
	return &App{db: db, channel: channel, scheduler: scheduler, handler: engine}, nil
}

// StartJobs starts the background scheduler. Jobs stop on Close.
func (a *App) StartJobs(ctx context.Context) {
	a.started = true
	a.scheduler.Start(ctx)
}

func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Channel() *realtime.Channel {
	return a.channel
}

// Close stops jobs, drops realtime clients and releases the database.
func (a *App) Close() error {
	if a.started {
		a.scheduler.Stop()
		a.started = false
	}
	return errors.Join(a.channel.Close(), a.db.Close())
}
