package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"hisaab/internal/app"
	"hisaab/internal/cache"
	"hisaab/internal/config"
	"hisaab/internal/logger"
	"hisaab/internal/metrics"
	"hisaab/internal/objectstore"
	"hisaab/internal/store"
	"hisaab/internal/validator"
)

// @title           Hisaab API
// @version         1.0
// @description     Hisaab keeps personal and small-business records: cards, bank accounts, loans, passwords, documents, customer credits, expenses and daily sales.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	validator.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Records live in memory for the lifetime of the process.
	recordStore := store.New(store.WithObserver(metrics.ObserveStoreMutation))

	blocklist := cache.NewTokenBlocklist(appConfig.Redis, log.Named("blocklist"))
	defer func() {
		if err := blocklist.Close(); err != nil {
			log.Warnw("failed to close token blocklist", "error", err)
		}
	}()

	objects, err := newObjectStorage(ctx, appConfig)
	if err != nil {
		return err
	}

	router := app.NewRouter(app.Dependencies{
		Config:    appConfig,
		Store:     recordStore,
		Blocklist: blocklist,
		Objects:   objects,
		Log:       log,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Hisaab server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newObjectStorage connects to S3 when a bucket is configured. Without one,
// backups are kept in memory and lost on restart.
func newObjectStorage(ctx context.Context, cfg *config.Config) (objectstore.ObjectStorage, error) {
	log := logger.Named("objectstore")
	if cfg.Storage.Bucket == "" {
		log.Warn("S3_BUCKET not set, keeping backups in memory")
		return objectstore.NewMemoryObjectStorage(), nil
	}

	s3Store, err := objectstore.NewS3ObjectStorage(cfg.Storage, objectstore.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to configure object storage: %w", err)
	}
	if err := s3Store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare backup bucket: %w", err)
	}
	log.Infow("backups stored in S3", "bucket", s3Store.Bucket())
	return s3Store, nil
}
