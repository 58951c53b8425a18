package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Unterstützte Warehouse-Treiber.
const (
	DriverBigQuery = "bigquery"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	// BigQuery-Verbindung
	GoogleCloudProject string `envconfig:"GOOGLE_CLOUD_PROJECT"`
	GoogleCredentials  string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	BigQueryDataset    string `envconfig:"BIGQUERY_DATASET"`

	// Lokale Alternative für Entwicklung (postgres oder sqlite über GORM)
	WarehouseDriver string `envconfig:"WAREHOUSE_DRIVER" default:"bigquery"`
	DBDSN           string `envconfig:"DB_DSN"`

	HTTPPort           string `envconfig:"HTTP_PORT" default:"4242"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS"`

	// Snapshots nach S3, leerer Cron-Ausdruck deaktiviert den Job
	SnapshotCronSchedule string `envconfig:"SNAPSHOT_CRON_SCHEDULE"`
	SnapshotS3URL        string `envconfig:"SNAPSHOT_S3_URL"`
	SnapshotS3Region     string `envconfig:"SNAPSHOT_S3_REGION" default:"us-east-1"`
	SnapshotS3Key        string `envconfig:"SNAPSHOT_S3_KEY"`
	SnapshotS3Secret     string `envconfig:"SNAPSHOT_S3_SECRET"`
	SnapshotS3Bucket     string `envconfig:"SNAPSHOT_S3_BUCKET"`
	SnapshotKeep         int    `envconfig:"SNAPSHOT_KEEP" default:"4"`
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate prüft die treiberabhängigen Pflichtfelder.
func (c *Config) Validate() error {
	switch c.WarehouseDriver {
	case DriverBigQuery:
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for driver %q", c.WarehouseDriver)
		}
		if c.BigQueryDataset == "" {
			return fmt.Errorf("BIGQUERY_DATASET is required for driver %q", c.WarehouseDriver)
		}
	case DriverPostgres, DriverSQLite:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for driver %q", c.WarehouseDriver)
		}
	default:
		return fmt.Errorf("unknown WAREHOUSE_DRIVER %q", c.WarehouseDriver)
	}

	// gilt auch ohne Cron-Ausdruck, cmd/backup rotiert ebenfalls
	if c.SnapshotKeep < 1 {
		return fmt.Errorf("SNAPSHOT_KEEP must be at least 1, got %d", c.SnapshotKeep)
	}
	if c.SnapshotsEnabled() {
		if c.SnapshotS3Bucket == "" || c.SnapshotS3Key == "" || c.SnapshotS3Secret == "" {
			return fmt.Errorf("SNAPSHOT_S3_BUCKET, SNAPSHOT_S3_KEY and SNAPSHOT_S3_SECRET are required when SNAPSHOT_CRON_SCHEDULE is set")
		}
	}
	return nil
}

// SnapshotsEnabled meldet, ob der Snapshot-Job geplant werden soll.
func (c *Config) SnapshotsEnabled() bool {
	return c.SnapshotCronSchedule != ""
}

// AllowedOrigins zerlegt CORS_ALLOWED_ORIGINS in einzelne Origins.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
