package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/mkaya/certportal/internal/app/controllers"
	appMigrations "github.com/mkaya/certportal/internal/app/migrations"
	appRepos "github.com/mkaya/certportal/internal/app/repositories"
	appRoutes "github.com/mkaya/certportal/internal/app/routes"
	appServices "github.com/mkaya/certportal/internal/app/services"
	"github.com/mkaya/certportal/internal/config"
	"github.com/mkaya/certportal/internal/db"
	appMiddleware "github.com/mkaya/certportal/internal/middleware"
	"github.com/mkaya/certportal/internal/pkg/email"
	"github.com/mkaya/certportal/internal/pkg/filestorage"
	"github.com/mkaya/certportal/internal/pkg/logger"
	"github.com/mkaya/certportal/internal/pkg/render"
	"github.com/mkaya/certportal/internal/pkg/validation"
	"github.com/mkaya/certportal/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	GenerationService    appServices.GenerationService
	PortalService        appServices.PortalService
	AccessService        appServices.AccessService
	GenerationController *appControllers.GenerationController
	PortalController     *appControllers.PortalController
	StudentController    *appControllers.StudentController
	Repos                *appRepos.Repositories
	EmailService         email.EmailService
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs the SQL
// migrations and then the student deduplication pass. Deduplication is
// invoked on every startup; once the identity index exists it is a no-op.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := appRepos.NewStudentRepository(database.Pool).Deduplicate(context.Background()); err != nil {
		lgr.Error().Err(err).Msg("Student deduplication failed")
		database.Close()
		return nil, fmt.Errorf("student deduplication failed: %w", err)
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		FromName:   cfg.SMTP.FromName,
		FromEmail:  cfg.SMTP.FromEmail,
		UseTLS:     cfg.SMTP.UseTLS,
		BaseURL:    cfg.Portal.BaseURL,
		VerifyPath: cfg.Portal.VerifyPath,
	}, lgr)

	var archive filestorage.Archiver
	if cfg.Storage.ArchiveDir != "" {
		localArchive, err := filestorage.NewLocalArchive(cfg.Storage.ArchiveDir, lgr)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize document archive: %w", err)
		}
		archive = localArchive
		lgr.Info().Str("dir", cfg.Storage.ArchiveDir).Msg("Document archive enabled")
	}

	deps.GenerationService = appServices.NewGenerationService(
		database,
		deps.Repos.StudentRepository,
		deps.Repos.CertificateRepository,
		deps.Repos.PackageRepository,
		render.NewNoopRenderer(),
		archive,
		lgr,
	)

	deps.PortalService = appServices.NewPortalService(
		deps.Repos.StudentRepository,
		deps.Repos.CertificateRepository,
		deps.Repos.PackageRepository,
		deps.Repos.MagicTokenRepository,
		deps.EmailService,
		cfg.TokenExpiry(),
		lgr,
	)

	deps.AccessService = appServices.NewAccessService(
		deps.Repos.StudentRepository,
		deps.Repos.PackageRepository,
		lgr,
	)

	deps.GenerationController = appControllers.NewGenerationController(deps.GenerationService)
	deps.PortalController = appControllers.NewPortalController(deps.PortalService, deps.AccessService)
	deps.StudentController = appControllers.NewStudentController(
		deps.Repos.StudentRepository,
		deps.Repos.CertificateRepository,
		deps.Repos.PackageRepository,
	)

	if cfg.Server.SeedSampleData && strings.ToLower(cfg.Server.Mode) != "production" {
		if err := seed.CreateSampleData(context.Background(), deps.GenerationService, lgr); err != nil {
			lgr.Error().Err(err).Msg("Sample data seeding failed")
		}
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.RegisterCustomValidators(v); err != nil {
			lgr.Error().Err(err).Msg("Failed to register custom validators")
		}
	}

	router := gin.Default()
	router.Use(appMiddleware.RequestID())

	appRoutes.SetupRouter(router,
		deps.GenerationController,
		deps.PortalController,
		deps.StudentController,
	)

	return router
}
