package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Gorm führt Statements über GORM gegen Postgres oder SQLite aus.
// Gedacht für lokale Entwicklung ohne Zugriff auf BigQuery.
type Gorm struct {
	db     *gorm.DB
	schema string
}

// OpenGorm öffnet eine Verbindung für den Treiber "postgres" oder "sqlite".
// schema wird bei Postgres als Tabellen-Präfix verwendet und darf leer sein.
func OpenGorm(driver, dsn, schema string) (*Gorm, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	return NewGorm(db, schema), nil
}

// NewGorm verwendet eine bestehende GORM-Verbindung.
func NewGorm(db *gorm.DB, schema string) *Gorm {
	return &Gorm{db: db, schema: schema}
}

func (g *Gorm) Table(name string) string {
	if g.schema == "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("%q.%q", g.schema, name)
}

func (g *Gorm) Query(ctx context.Context, query string, params ...Param) ([]Row, error) {
	var results []map[string]any
	if err := g.db.WithContext(ctx).Raw(query, namedArgs(params)...).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("gorm query failed: %w", err)
	}

	rows := make([]Row, 0, len(results))
	for _, r := range results {
		row := make(Row, len(r))
		for k, v := range r {
			row[k] = indirect(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// indirect löst Zeiger auf, die GORM bei Spalten ohne deklarierten Typ
// (z.B. COALESCE(MAX(id), 0) unter SQLite) als *interface{} in die Map legt.
func indirect(v any) any {
	for {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
}

func (g *Gorm) Exec(ctx context.Context, query string, params ...Param) error {
	if err := g.db.WithContext(ctx).Exec(query, namedArgs(params)...).Error; err != nil {
		return fmt.Errorf("gorm exec failed: %w", err)
	}
	return nil
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func namedArgs(params []Param) []any {
	args := make([]any, 0, len(params))
	for _, p := range params {
		args = append(args, sql.Named(p.Name, p.Value))
	}
	return args
}
