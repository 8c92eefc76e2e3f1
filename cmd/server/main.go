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

	"portfolio-backend-go/internal/config"
	"portfolio-backend-go/internal/db"
	httpapi "portfolio-backend-go/internal/http"
	"portfolio-backend-go/internal/migrations"
	"portfolio-backend-go/internal/pdfthumb"
	"portfolio-backend-go/internal/storage"
	"portfolio-backend-go/internal/store"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	cleanupLogs, err := setupLogFile(logger, cfg.LogDir, cfg.LogRetentionDays)
	if err != nil {
		logger.WithError(err).Warn("log file setup failed, logging to stdout only")
	} else {
		defer cleanupLogs()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, supabaseClient, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("store setup failed")
	}
	defer closeStore()

	bucket, err := openBucket(cfg, supabaseClient)
	if err != nil {
		logger.WithError(err).Fatal("storage setup failed")
	}

	server := httpapi.NewServer(st, bucket, pdfthumb.NewFitz(cfg.PDFZoom), cfg, logger)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":    httpServer.Addr,
			"store":   cfg.StoreDriver,
			"storage": cfg.StorageDriver,
			"bucket":  bucket.Name(),
		}).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Warn("shutdown incomplete")
	}
	logger.Info("shutdown complete")
}

// openStore connects the configured store. The supabase client is returned
// so the storage bucket can share it.
func openStore(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (store.Store, *supa.Client, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, nil, nil, errors.New("DATABASE_URL is required for the postgres store")
		}
		database, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("db: %w", err)
		}
		if cfg.RunMigrations {
			if err := migrations.Apply(ctx, database, migrations.Bundled(), logger); err != nil {
				_ = database.Close()
				return nil, nil, nil, fmt.Errorf("migrations: %w", err)
			}
		}
		var client *supa.Client
		if cfg.StorageDriver == config.StorageDriverSupabase {
			client, err = newSupabaseClient(cfg)
			if err != nil {
				_ = database.Close()
				return nil, nil, nil, err
			}
		}
		return store.NewPostgres(database), client, func() { _ = database.Close() }, nil
	case config.StoreDriverSupabase:
		client, err := newSupabaseClient(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.NewSupabase(client), client, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func newSupabaseClient(cfg config.Config) (*supa.Client, error) {
	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		return nil, errors.New("SUPABASE_URL and SUPABASE_SERVICE_KEY are required")
	}
	client, err := supa.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase: %w", err)
	}
	return client, nil
}

func openBucket(cfg config.Config, client *supa.Client) (storage.Bucket, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverLocal:
		local := storage.Local{
			BasePath:      cfg.MediaStoragePath,
			Bucket:        cfg.StorageBucket,
			PublicBaseURL: cfg.PublicBaseURL,
		}
		if err := os.MkdirAll(local.Root(), 0o755); err != nil {
			return nil, err
		}
		return local, nil
	case config.StorageDriverSupabase:
		if client == nil {
			return nil, errors.New("supabase storage needs SUPABASE_URL and SUPABASE_SERVICE_KEY")
		}
		return storage.NewSupabase(client.Storage, cfg.StorageBucket), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
