package app

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/drivebox/internal/config"
	"github.com/templui/drivebox/internal/db"
	"github.com/templui/drivebox/internal/middleware"
	"github.com/templui/drivebox/internal/repository"
	"github.com/templui/drivebox/internal/service"
	"github.com/templui/drivebox/internal/storage"
)

type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	Storage       storage.Storage
	AuthLimiter   *middleware.RateLimiter
	AuthService   *service.AuthService
	QuotaService  *service.QuotaService
	TrashService  *service.TrashService
	FolderService *service.FolderService
	FileService   *service.FileService
	ShareService  *service.ShareService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	blobStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	authService := service.NewAuthService(repository.NewUserRepository(database), cfg.JWTSecret, cfg.JWTExpiry)
	quotaService := service.NewQuotaService(database, cfg.QuotaBytes)
	trashService := service.NewTrashService(database, quotaService)
	folderService := service.NewFolderService(database, trashService)
	fileService := service.NewFileService(database, blobStorage, quotaService, trashService)
	shareService := service.NewShareService(database, blobStorage)

	return &App{
		Cfg:           cfg,
		DB:            database,
		Storage:       blobStorage,
		AuthLimiter:   middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.TrustProxy),
		AuthService:   authService,
		QuotaService:  quotaService,
		TrashService:  trashService,
		FolderService: folderService,
		FileService:   fileService,
		ShareService:  shareService,
	}, nil
}

func (a *App) Close() error {
	var errs []error
	if a.AuthLimiter != nil {
		a.AuthLimiter.Stop()
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
