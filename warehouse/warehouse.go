// Package warehouse kapselt die Ausführung von SQL-Statements gegen das
// Data Warehouse. Werte werden immer als benannte Parameter (@name)
// übergeben und nie in den SQL-Text interpoliert.
package warehouse

import (
	"context"
	"fmt"
	"math"
	"strconv"
)

// Param ist ein benannter Query-Parameter, im SQL-Text als @Name referenziert.
type Param struct {
	Name  string
	Value any
}

// Named erstellt einen Param.
func Named(name string, value any) Param {
	return Param{Name: name, Value: value}
}

// Executor ist das Interface, das jedes Warehouse-Backend (BigQuery, GORM) implementieren muss.
type Executor interface {
	// Table gibt den voll qualifizierten, gequoteten Namen einer Tabelle zurück.
	Table(name string) string

	// Query führt ein lesendes Statement aus und gibt alle Zeilen zurück.
	Query(ctx context.Context, query string, params ...Param) ([]Row, error)

	// Exec führt ein schreibendes Statement aus.
	Exec(ctx context.Context, query string, params ...Param) error

	Close() error
}

// Row ist eine Ergebniszeile, Spaltenname -> Wert.
type Row map[string]any

// Int64 liest eine Ganzzahl-Spalte. Die Treiber liefern je nach Spaltentyp
// unterschiedliche Go-Typen, daher die Normalisierung.
func (r Row) Int64(column string) (int64, error) {
	v, ok := r[column]
	if !ok {
		return 0, fmt.Errorf("column %q missing", column)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("column %q: %v is not an integer", column, n)
		}
		return int64(n), nil
	case []byte:
		return parseInt(column, string(n))
	case string:
		return parseInt(column, n)
	case nil:
		return 0, fmt.Errorf("column %q is NULL", column)
	default:
		return 0, fmt.Errorf("column %q: unsupported type %T", column, v)
	}
}

// NullInt64 liest eine Ganzzahl-Spalte, die NULL sein darf.
func (r Row) NullInt64(column string) (*int64, error) {
	if v, ok := r[column]; ok && v == nil {
		return nil, nil
	}
	n, err := r.Int64(column)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// String liest eine Text-Spalte. NULL wird zu "".
func (r Row) String(column string) (string, error) {
	s, err := r.NullString(column)
	if err != nil || s == nil {
		return "", err
	}
	return *s, nil
}

// NullString liest eine Text-Spalte, die NULL sein darf.
func (r Row) NullString(column string) (*string, error) {
	v, ok := r[column]
	if !ok {
		return nil, fmt.Errorf("column %q missing", column)
	}
	switch s := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &s, nil
	case []byte:
		str := string(s)
		return &str, nil
	default:
		return nil, fmt.Errorf("column %q: unsupported type %T", column, v)
	}
}

func parseInt(column, s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", column, err)
	}
	return n, nil
}
