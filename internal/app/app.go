package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/mochitomo/mochitomo/internal/config"
	"github.com/mochitomo/mochitomo/internal/db"
	"github.com/mochitomo/mochitomo/internal/repository"
	"github.com/mochitomo/mochitomo/internal/service"
	"github.com/mochitomo/mochitomo/internal/storage"
	"github.com/mochitomo/mochitomo/internal/store"
	"github.com/mochitomo/mochitomo/internal/validation"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	GoalStore      *store.GoalStore
	GoalService    *service.GoalService
	ResultService  *service.ResultService
	ProofService   *service.ProofService
	HelpService    *service.HelpService
	SitemapService *service.SitemapService

	stopWatch context.CancelFunc
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	goalRecordRepository := repository.NewGoalRecordRepository(database)
	fileRepository := repository.NewFileRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	goalStore := store.NewGoalStore(goalRecordRepository)
	goalService := service.NewGoalService(goalStore, validation.GoalRules{
		WarningDays: cfg.DeadlineWarningDays,
		Location:    cfg.Location(),
	})
	resultService := service.NewResultService(goalStore, service.TimedReviewer{Delay: cfg.ReviewDelay}, cfg.ResultPageTTL)
	proofService := service.NewProofService(fileRepository, fileStorage)
	helpService := service.NewHelpService(cfg.ContentPath)
	sitemapService := service.NewSitemapService(helpService, cfg.AppURL)

	a := &App{
		Cfg:            cfg,
		DB:             database,
		GoalStore:      goalStore,
		GoalService:    goalService,
		ResultService:  resultService,
		ProofService:   proofService,
		HelpService:    helpService,
		SitemapService: sitemapService,
		stopWatch:      func() {},
	}

	if cfg.ContentWatch {
		ctx, cancel := context.WithCancel(context.Background())
		err = helpService.Watch(ctx)
		if err != nil {
			cancel()
			slog.Warn("content watch disabled", "error", err)
		} else {
			a.stopWatch = cancel
		}
	}

	return a, nil
}

// Close stops the live pages before the store and database they read from.
func (a *App) Close() error {
	a.stopWatch()
	a.ResultService.Shutdown()
	a.GoalStore.Close()
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
