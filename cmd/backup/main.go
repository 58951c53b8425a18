package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"roster-api/config"
	"roster-api/services"
	"roster-api/storage"
	"roster-api/warehouse"
)

// backup schreibt einmalig Snapshots aller Tabellen nach S3 und rotiert alte Snapshots.
// Gedacht für externe Scheduler (z.B. Kubernetes CronJob) statt des eingebauten Cron-Jobs.
func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	logging.Info("Starting snapshot backup...")

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}
	if cfg.SnapshotS3Bucket == "" || cfg.SnapshotS3Key == "" || cfg.SnapshotS3Secret == "" {
		logging.Fatal("SNAPSHOT_S3_BUCKET, SNAPSHOT_S3_KEY and SNAPSHOT_S3_SECRET are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// 1. Warehouse-Verbindung herstellen
	wh, err := warehouse.Open(ctx, cfg)
	if err != nil {
		logging.Fatal("Failed to connect to warehouse", zap.Error(err))
	}
	defer wh.Close()

	// 2. S3-Client erstellen
	s3Client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}

	// 3. Snapshots schreiben und alte rotieren
	snapshotService := services.NewSnapshotService(
		services.NewRoster(wh, logging),
		storage.NewS3Store(s3Client, cfg.SnapshotS3Bucket),
		logging,
		cfg.SnapshotKeep,
	)
	count, err := snapshotService.Run(ctx)
	if err != nil {
		logging.Error("Snapshot backup failed", zap.Int("snapshots", count), zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}

	logging.Info("Snapshot backup completed", zap.Int("snapshots", count), zap.String("bucket", cfg.SnapshotS3Bucket))
}
