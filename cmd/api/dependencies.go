package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	authhandler "github.com/brlucas/fluxo/internal/domain/auth/handler"
	authrepo "github.com/brlucas/fluxo/internal/domain/auth/repository"
	authservice "github.com/brlucas/fluxo/internal/domain/auth/service"
	"github.com/brlucas/fluxo/internal/domain/extraction"
	extractionhandler "github.com/brlucas/fluxo/internal/domain/extraction/handler"
	importhandler "github.com/brlucas/fluxo/internal/domain/import/handler"
	importrepo "github.com/brlucas/fluxo/internal/domain/import/repository"
	importservice "github.com/brlucas/fluxo/internal/domain/import/service"
	"github.com/brlucas/fluxo/internal/domain/profile"
	profilehandler "github.com/brlucas/fluxo/internal/domain/profile/handler"
	"github.com/brlucas/fluxo/internal/domain/transaction"
	transactionhandler "github.com/brlucas/fluxo/internal/domain/transaction/handler"
	"github.com/brlucas/fluxo/pkg/config"
	"github.com/brlucas/fluxo/pkg/db"
	"github.com/brlucas/fluxo/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	Storage storage.Storage
	Gemini  extraction.ExtractionClient

	// Repositories
	AuthRepo        authrepo.AuthRepository
	ProfileRepo     profile.Repository
	TransactionRepo transaction.Repository
	ImportRepo      importrepo.ImportRepository
	ExtractionRepo  extraction.Repository

	// Services
	TokenManager       *authservice.TokenManager
	AuthService        *authservice.AuthService
	ProfileService     *profile.Service
	TransactionService *transaction.Service
	ImportService      *importservice.ImportService
	ExtractionService  *extraction.Service

	// Handlers
	AuthHandler        *authhandler.AuthHandler
	ProfileHandler     *profilehandler.ProfileHandler
	TransactionHandler *transactionhandler.TransactionHandler
	ImportHandler      *importhandler.ImportHandler
	ExtractionHandler  *extractionhandler.ExtractionHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initExternalClients(ctx); err != nil {
		return nil, fmt.Errorf("failed to init external clients: %w", err)
	}

	deps.initRepositories()

	if err := deps.initServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initExternalClients initializes blob storage and the Gemini client
func (d *Dependencies) initExternalClients(ctx context.Context) error {
	blobs, err := storage.New(ctx, storage.Config{
		Backend:   d.Config.Storage.Backend,
		LocalPath: d.Config.Storage.LocalPath,
		GCSBucket: d.Config.Storage.GCSBucket,
	})
	if err != nil {
		return fmt.Errorf("failed to init blob storage: %w", err)
	}
	d.Storage = blobs

	gemini, err := extraction.NewGeminiClient(ctx, d.Config.Gemini.APIKey, d.Config.Gemini.Model)
	if err != nil {
		return fmt.Errorf("failed to init gemini client: %w", err)
	}
	d.Gemini = gemini

	d.Logger.Info("external clients initialized", "storage_backend", d.Config.Storage.Backend, "gemini_model", d.Config.Gemini.Model)
	return nil
}

// initRepositories initializes all repository layer dependencies
func (d *Dependencies) initRepositories() {
	d.AuthRepo = authrepo.NewPostgresAuthRepository(d.DB.Pool)
	d.ProfileRepo = profile.NewPostgresRepository(d.DB.Pool)
	d.TransactionRepo = transaction.NewPostgresRepository(d.DB.Pool)
	d.ImportRepo = importrepo.NewPostgresImportRepository(d.DB.Pool)
	d.ExtractionRepo = extraction.NewPostgresRepository(d.DB.Pool)

	d.Logger.Info("repositories initialized")
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices(_ context.Context) error {
	if d.Config.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}

	accessTokenTTL := time.Duration(d.Config.Auth.AccessTokenTTL) * time.Hour
	d.TokenManager = authservice.NewTokenManager(d.Config.Auth.JWTSecret, accessTokenTTL)
	d.AuthService = authservice.NewAuthService(d.AuthRepo, d.TokenManager, d.Logger)

	d.ProfileService = profile.NewService(d.ProfileRepo, d.Logger)
	d.TransactionService = transaction.NewService(d.TransactionRepo, d.ProfileService, d.Logger)
	d.ImportService = importservice.NewImportService(d.ImportRepo, d.TransactionRepo, d.ProfileService, d.Logger)
	d.ExtractionService = extraction.NewService(
		d.ExtractionRepo, d.ProfileService, d.Storage, d.Gemini, d.TransactionRepo, d.Logger,
	)

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	d.AuthHandler = authhandler.NewAuthHandler(d.AuthService, d.Logger)
	d.ProfileHandler = profilehandler.NewProfileHandler(d.ProfileService, d.Logger)
	d.TransactionHandler = transactionhandler.NewTransactionHandler(d.TransactionService, d.Logger)
	d.ImportHandler = importhandler.NewImportHandler(d.ImportService, d.Logger)
	d.ExtractionHandler = extractionhandler.NewExtractionHandler(d.ExtractionService, d.Logger)

	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
