package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shothost/shothost/internal/config"
	"github.com/shothost/shothost/internal/db"
	"github.com/shothost/shothost/internal/model"
	"github.com/shothost/shothost/internal/repository"
	"github.com/shothost/shothost/internal/service"
	"github.com/shothost/shothost/internal/storage"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	Resolver           *service.CredentialResolver
	AuthService        *service.AuthService
	AccountService     *service.AccountService
	UploadService      *service.UploadService
	UploadTokenService *service.UploadTokenService
	ViewTokenService   *service.ViewTokenService
	BillingService     *service.BillingService
	EmailService       *service.EmailService
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
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	sessionRepository := repository.NewSessionRepository(database)
	uploadTokenRepository := repository.NewUploadTokenRepository(database)
	viewTokenRepository := repository.NewViewTokenRepository(database)
	fileRepository := repository.NewFileRepository(database)
	embedConfigRepository := repository.NewEmbedConfigRepository(database)
	featureFlagRepository := repository.NewFeatureFlagRepository(database)

	// Storage
	fileStorage, err := storage.NewS3Storage(storage.S3Config{
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Endpoint:  cfg.S3Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Billing plan ids map to tiers; unconfigured ids are skipped
	catalog := model.NewTierCatalog(map[string]model.Tier{
		cfg.StripePriceIDFree:            model.TierFree,
		cfg.StripePriceIDBaseMonthly:     model.TierBaseMonthly,
		cfg.StripePriceIDBaseYearly:      model.TierBaseYearly,
		cfg.StripePriceIDStandardMonthly: model.TierStandardMonthly,
		cfg.StripePriceIDStandardYearly:  model.TierStandardYearly,
		cfg.StripePriceIDPlusMonthly:     model.TierPlusMonthly,
		cfg.StripePriceIDPlusYearly:      model.TierPlusYearly,
		cfg.StripePriceIDBusinessMonthly: model.TierBusinessMonthly,
		cfg.StripePriceIDBusinessYearly:  model.TierBusinessYearly,
	})

	// Services
	resolver := service.NewCredentialResolver(
		sessionRepository,
		uploadTokenRepository,
		viewTokenRepository,
		catalog,
	)
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	billingService := service.NewBillingService(
		userRepository,
		cfg.StripeSecretKey,
		cfg.StripeWebhookSecret,
		cfg.AppURL,
	)
	authService := service.NewAuthService(
		userRepository,
		sessionRepository,
		embedConfigRepository,
		featureFlagRepository,
		billingService,
		emailService,
	)
	accountService := service.NewAccountService(userRepository, embedConfigRepository)
	uploadService := service.NewUploadService(
		fileRepository,
		fileStorage,
		service.NewQuotaEngine(),
		service.NewAccessService(),
		resolver,
		cfg.AppURL,
	)
	uploadTokenService := service.NewUploadTokenService(uploadTokenRepository)
	viewTokenService := service.NewViewTokenService(
		fileRepository,
		viewTokenRepository,
		resolver,
		cfg.AppURL,
		cfg.ViewTokenBindIP,
	)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		Resolver:           resolver,
		AuthService:        authService,
		AccountService:     accountService,
		UploadService:      uploadService,
		UploadTokenService: uploadTokenService,
		ViewTokenService:   viewTokenService,
		BillingService:     billingService,
		EmailService:       emailService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
