package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifesaver-qr/config"
	deliveryHttp "lifesaver-qr/internal/delivery/http"
	"lifesaver-qr/internal/delivery/http/handler"
	"lifesaver-qr/internal/delivery/http/middleware"
	"lifesaver-qr/internal/document"
	domainRepo "lifesaver-qr/internal/domain/repository"
	"lifesaver-qr/internal/infrastructure/cache"
	"lifesaver-qr/internal/infrastructure/database"
	"lifesaver-qr/internal/infrastructure/metrics"
	"lifesaver-qr/internal/infrastructure/spool"
	"lifesaver-qr/internal/repository"
	"lifesaver-qr/internal/service"
	"lifesaver-qr/internal/usecase"
	"lifesaver-qr/pkg/fieldcrypt"
	"lifesaver-qr/pkg/qrcode"
	"lifesaver-qr/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Options are the command-line inputs to New.
type Options struct {
	EnvFile string
	Flags   *pflag.FlagSet
}

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	MongoClient *mongo.Client
	RedisClient *redis.Client
	Server      *http.Server
	Log         *logrus.Logger
}

// New creates a new App instance with all dependencies initialized
func New(opts Options) (*App, error) {
	log := setupLogger()
	app := &App{Log: log}

	// Load configuration
	cfg, err := config.LoadConfig(opts.EnvFile, opts.Flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	if cfg.App.Env == "development" {
		log.SetLevel(logrus.DebugLevel)
	}
	log.Info("Configuration loaded successfully")

	sealer, err := fieldcrypt.New(cfg.Security.FieldEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid field encryption key: %w", err)
	}
	if !sealer.Enabled() {
		log.Warn("FIELD_ENCRYPTION_KEY not set, sensitive fields are stored unencrypted")
	}

	// Initialize record store
	recordRepo, err := app.openRecordStore(cfg, sealer)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize all layers
	httpHandler, err := buildHandler(cfg, recordRepo, redisClient, registry, log)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	return log
}

// openRecordStore connects the configured backend and records it on app for
// Close.
func (app *App) openRecordStore(cfg *config.Config, sealer fieldcrypt.Sealer) (domainRepo.EmergencyRecordRepository, error) {
	log := app.Log

	switch cfg.DB.Driver {
	case config.DriverMongo:
		client, err := database.NewMongoClient(cfg.Mongo, log)
		if err != nil {
			return nil, err
		}
		app.MongoClient = client
		coll := client.Database(cfg.Mongo.Database).Collection(repository.EmergencyRecordCollection)
		return repository.NewEmergencyRecordMongoRepository(coll, sealer), nil

	case config.DriverPostgres, config.DriverSQLite:
		if cfg.DB.Migrate && cfg.DB.Driver == config.DriverPostgres {
			if err := database.Migrate(cfg.DB, log); err != nil {
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}

		db, err := database.NewGormConnection(cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db

		if cfg.DB.Migrate && cfg.DB.Driver == config.DriverSQLite {
			if err := repository.AutoMigrate(db); err != nil {
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		return repository.NewEmergencyRecordRepository(db, sealer), nil
	}

	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
}

func newSpoolFactory(cfg config.ArtifactConfig) (spool.Factory, error) {
	switch cfg.Spool {
	case "", config.SpoolMemory:
		return spool.NewMemoryFactory(), nil
	case config.SpoolDisk:
		return spool.NewDiskFactory(afero.NewOsFs(), cfg.SpoolDir), nil
	}
	return nil, fmt.Errorf("unsupported ARTIFACT_SPOOL %q", cfg.Spool)
}

// composerOptions loads the configured TrueType files. No FontFile keeps the
// core fonts.
func composerOptions(fs afero.Fs, cfg config.ArtifactConfig) ([]document.Option, error) {
	if cfg.FontFile == "" {
		return nil, nil
	}

	regular, err := afero.ReadFile(fs, cfg.FontFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF_FONT_FILE: %w", err)
	}

	var bold []byte
	if cfg.BoldFontFile != "" {
		if bold, err = afero.ReadFile(fs, cfg.BoldFontFile); err != nil {
			return nil, fmt.Errorf("failed to read PDF_FONT_BOLD_FILE: %w", err)
		}
	}
	font := document.UTF8Font{Regular: regular, Bold: bold}
	if err := font.Validate(); err != nil {
		return nil, fmt.Errorf("invalid PDF font: %w", err)
	}
	return []document.Option{document.WithUTF8Font(font)}, nil
}

// buildHandler wires the use case, handlers and router. redisClient may be
// nil.
func buildHandler(
	cfg *config.Config,
	recordRepo domainRepo.EmergencyRecordRepository,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	log *logrus.Logger,
) (http.Handler, error) {
	generator, err := qrcode.NewGenerator(qrcode.Config{
		RecoveryLevel: cfg.QR.RecoveryLevel,
		MaxVersion:    cfg.QR.MaxVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure QR generator: %w", err)
	}

	spools, err := newSpoolFactory(cfg.Artifact)
	if err != nil {
		return nil, err
	}

	composerOpts, err := composerOptions(afero.NewOsFs(), cfg.Artifact)
	if err != nil {
		return nil, err
	}

	composer := document.NewComposer(generator, spools, log, composerOpts...)
	serviceMetrics := metrics.New(registry)

	var profileCache usecase.ProfileCache
	if redisClient != nil {
		profileCache = service.NewProfileCacheService(redisClient, cfg.Redis.TTL, log)
	}

	// Initialize usecases
	recordUsecase := usecase.NewEmergencyRecordUsecase(
		recordRepo,
		generator,
		composer,
		profileCache,
		serviceMetrics,
		usecase.EmergencyRecordUsecaseConfig{
			BaseURL:       cfg.App.BaseURL,
			DefaultQRSize: cfg.QR.DefaultSize,
		},
		log,
	)

	// Initialize handlers
	recordHandler := handler.NewEmergencyRecordHandler(recordUsecase, validator.NewValidator(), log).
		WithBareBodies(!cfg.App.ResponseEnvelope)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		recordHandler,
		corsMiddleware,
		loggingMiddleware,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	return router.Setup(), nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		app.Log.Infof("Profile base URL: %s", app.Config.App.BaseURL)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, mongo, redis)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.MongoClient.Disconnect(ctx); err != nil {
			app.Log.Warnf("Failed to disconnect MongoDB: %+v", err)
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
