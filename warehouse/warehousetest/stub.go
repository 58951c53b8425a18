// Package warehousetest stellt einen In-Memory-Executor für Tests bereit.
package warehousetest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"roster-api/warehouse"
)

// ErrUnavailable wird von Stubs zurückgegeben, die einen Warehouse-Ausfall simulieren.
var ErrUnavailable = errors.New("warehouse unavailable")

// Call ist ein aufgezeichneter Aufruf von Query oder Exec.
type Call struct {
	Query  string
	Params map[string]any
}

// Stub beantwortet Queries anhand von Teilstrings des SQL-Texts.
// Err, falls gesetzt, wird von jedem Aufruf zurückgegeben, ExecErr nur von Exec.
type Stub struct {
	Err     error
	ExecErr error

	mu      sync.Mutex
	answers []answer
	queries []Call
	execs   []Call
}

type answer struct {
	contains string
	rows     []warehouse.Row
}

// New erstellt einen leeren Stub.
func New() *Stub {
	return &Stub{}
}

// Failing erstellt einen Stub, bei dem jeder Aufruf fehlschlägt.
func Failing() *Stub {
	return &Stub{Err: ErrUnavailable}
}

// On registriert die Zeilen, die für Queries mit dem Teilstring contains geliefert werden.
func (s *Stub) On(contains string, rows ...warehouse.Row) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, answer{contains: contains, rows: rows})
	return s
}

// WithMaxID lässt die Max-ID-Abfrage für table den Wert maxID liefern.
func (s *Stub) WithMaxID(table string, maxID int64) *Stub {
	return s.On("AS max_id FROM "+s.Table(table), warehouse.Row{"max_id": maxID})
}

func (s *Stub) Table(name string) string {
	return fmt.Sprintf("`test.roster.%s`", name)
}

func (s *Stub) Query(ctx context.Context, query string, params ...warehouse.Param) ([]warehouse.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, newCall(query, params))
	if s.Err != nil {
		return nil, s.Err
	}
	for _, a := range s.answers {
		if strings.Contains(query, a.contains) {
			return a.rows, nil
		}
	}
	return nil, nil
}

func (s *Stub) Exec(ctx context.Context, query string, params ...warehouse.Param) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.execs = append(s.execs, newCall(query, params))
	if s.Err != nil {
		return s.Err
	}
	return s.ExecErr
}

func (s *Stub) Close() error { return nil }

// Queries gibt die aufgezeichneten Query-Aufrufe zurück.
func (s *Stub) Queries() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.queries...)
}

// Execs gibt die aufgezeichneten Exec-Aufrufe zurück.
func (s *Stub) Execs() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.execs...)
}

func newCall(query string, params []warehouse.Param) Call {
	c := Call{Query: query, Params: make(map[string]any, len(params))}
	for _, p := range params {
		c.Params[p.Name] = p.Value
	}
	return c
}
