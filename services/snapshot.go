package services

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"roster-api/storage"
)

// SnapshotPrefix ist das Präfix aller Snapshot-Objekte im Bucket.
const SnapshotPrefix = "snapshots/"

// SnapshotService exportiert die Tabellen als gzip-komprimiertes JSON in einen
// ObjectStore und hält pro Tabelle nur die neuesten Keep Snapshots vor.
type SnapshotService struct {
	Roster *Roster
	Store  storage.ObjectStore
	Logger *zap.Logger
	Keep   int

	now func() time.Time
}

// NewSnapshotService erstellt eine neue Instanz des SnapshotService.
func NewSnapshotService(roster *Roster, store storage.ObjectStore, logger *zap.Logger, keep int) *SnapshotService {
	return &SnapshotService{
		Roster: roster,
		Store:  store,
		Logger: logger,
		Keep:   keep,
		now:    time.Now,
	}
}

// Run schreibt je einen Snapshot für users, groups und research. Fehler einer
// Tabelle brechen die übrigen nicht ab. Zurückgegeben wird die Anzahl
// geschriebener Snapshots.
func (s *SnapshotService) Run(ctx context.Context) (int, error) {
	if s.Keep < 1 {
		return 0, fmt.Errorf("snapshot keep must be at least 1, got %d", s.Keep)
	}

	exports := []struct {
		table string
		load  func(context.Context) (any, error)
	}{
		{TableUsers, func(ctx context.Context) (any, error) { return s.Roster.ListUsers(ctx) }},
		{TableGroups, func(ctx context.Context) (any, error) { return s.Roster.ListGroups(ctx) }},
		{TableResearch, func(ctx context.Context) (any, error) { return s.Roster.ListResearch(ctx) }},
	}

	stamp := s.now().UTC().Format("2006-01-02T15-04-05Z")
	written := 0
	var errs []error
	for _, e := range exports {
		log := s.Logger.With(zap.String("table", e.table))

		rows, err := e.load(ctx)
		if err != nil {
			log.Error("Snapshot export failed", zap.Error(err))
			errs = append(errs, fmt.Errorf("export %s: %w", e.table, err))
			continue
		}

		key := fmt.Sprintf("%s%s/%s-%s.json.gz", SnapshotPrefix, e.table, e.table, stamp)
		if err := s.write(ctx, key, rows); err != nil {
			log.Error("Snapshot upload failed", zap.String("key", key), zap.Error(err))
			errs = append(errs, fmt.Errorf("upload %s: %w", e.table, err))
			continue
		}
		written++
		log.Info("Snapshot written", zap.String("key", key))

		if err := s.rotate(ctx, e.table); err != nil {
			log.Error("Snapshot rotation failed", zap.Error(err))
			errs = append(errs, fmt.Errorf("rotate %s: %w", e.table, err))
		}
	}
	return written, errors.Join(errs...)
}

func (s *SnapshotService) write(ctx context.Context, key string, rows any) error {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := json.NewEncoder(gz).Encode(rows); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return s.Store.Put(ctx, key, buf.Bytes())
}

// rotate löscht alle bis auf die neuesten Keep Snapshots einer Tabelle.
func (s *SnapshotService) rotate(ctx context.Context, table string) error {
	if s.Keep < 1 {
		return fmt.Errorf("snapshot keep must be at least 1, got %d", s.Keep)
	}
	objects, err := s.Store.List(ctx, SnapshotPrefix+table+"/")
	if err != nil {
		return err
	}
	if len(objects) <= s.Keep {
		return nil
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})

	for _, obj := range objects[s.Keep:] {
		s.Logger.Info("Deleting old snapshot", zap.String("key", obj.Key))
		if err := s.Store.Delete(ctx, obj.Key); err != nil {
			// Fehler beim Löschen brechen die Rotation nicht ab
			s.Logger.Error("Failed to delete snapshot", zap.String("key", obj.Key), zap.Error(err))
		}
	}
	return nil
}
