package warehouse

import (
	"context"

	"roster-api/config"
)

// Open erstellt den in cfg.WarehouseDriver konfigurierten Executor.
// Bei postgres dient BIGQUERY_DATASET als Schema, bei sqlite wird es ignoriert.
func Open(ctx context.Context, cfg *config.Config) (Executor, error) {
	switch cfg.WarehouseDriver {
	case config.DriverPostgres:
		g, err := OpenGorm(cfg.WarehouseDriver, cfg.DBDSN, cfg.BigQueryDataset)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.DriverSQLite:
		g, err := OpenGorm(cfg.WarehouseDriver, cfg.DBDSN, "")
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		bq, err := NewBigQuery(ctx, cfg.GoogleCloudProject, cfg.BigQueryDataset, cfg.GoogleCredentials)
		if err != nil {
			return nil, err
		}
		return bq, nil
	}
}
