package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"roster-api/config"
	"roster-api/services"
	"roster-api/storage"
	"roster-api/warehouse"
)

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Setup Warehouse
	wh, err := warehouse.Open(ctx, cfg)
	if err != nil {
		logging.Fatal("Failed to connect to warehouse", zap.String("driver", cfg.WarehouseDriver), zap.Error(err))
	}
	defer wh.Close()
	logging.Info("Warehouse client ready.",
		zap.String("driver", cfg.WarehouseDriver),
		zap.String("project", cfg.GoogleCloudProject),
		zap.String("dataset", cfg.BigQueryDataset))

	roster := services.NewRoster(wh, logging)

	// Setup Snapshots
	if cfg.SnapshotsEnabled() {
		cronScheduler, err := setupSnapshotCron(ctx, cfg, roster, logging)
		if err != nil {
			logging.Fatal("Snapshot setup failed", zap.Error(err))
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	// Setup Router
	router := newRouter(roster, logging)
	var handler http.Handler = router
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(router)
		logging.Info("CORS enabled", zap.Strings("origins", origins))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error("Failed to run server", zap.Error(err))
		return
	}
	logging.Info("Server stopped")
}

func setupSnapshotCron(ctx context.Context, cfg *config.Config, roster *services.Roster, logging *zap.Logger) (*cron.Cron, error) {
	s3Client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	snapshotService := services.NewSnapshotService(roster, storage.NewS3Store(s3Client, cfg.SnapshotS3Bucket), logging, cfg.SnapshotKeep)

	cronScheduler := cron.New()
	_, err = cronScheduler.AddFunc(cfg.SnapshotCronSchedule, func() {
		logging.Info("Running scheduled snapshot job...")
		count, err := snapshotService.Run(ctx)
		snapshotsCounter.Add(float64(count))
		if err != nil {
			logging.Error("Snapshot job failed", zap.Int("snapshots", count), zap.Error(err))
			return
		}
		logging.Info("Snapshot job completed", zap.Int("snapshots", count))
	})
	if err != nil {
		return nil, err
	}
	logging.Info("Snapshot job scheduled", zap.String("schedule", cfg.SnapshotCronSchedule), zap.String("bucket", cfg.SnapshotS3Bucket))
	return cronScheduler, nil
}
