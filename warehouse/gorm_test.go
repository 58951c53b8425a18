package warehouse

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *Gorm {
	t.Helper()
	g, err := OpenGorm("sqlite", filepath.Join(t.TempDir(), "roster.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestGorm_Table(t *testing.T) {
	assert.Equal(t, `"users"`, NewGorm(nil, "").Table("users"))
	assert.Equal(t, `"roster"."groups"`, NewGorm(nil, "roster").Table("groups"))
}

func TestGorm_ExecAndQueryWithNamedParams(t *testing.T) {
	ctx := context.Background()
	g := openSQLite(t)

	require.NoError(t, g.Exec(ctx, `CREATE TABLE "users" (id INTEGER, name TEXT, group_id INTEGER)`))

	// Wert mit Anführungszeichen darf das Statement nicht aufbrechen.
	name := "O'Brien'); DROP TABLE users; --"
	require.NoError(t, g.Exec(ctx,
		`INSERT INTO "users" (id, name, group_id) VALUES (@id, @name, @group_id)`,
		Named("id", int64(1)), Named("name", name), Named("group_id", int64(3)),
	))

	rows, err := g.Query(ctx, `SELECT id, name, group_id FROM "users" WHERE name = @name`, Named("name", name))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	id, err := rows[0].Int64("id")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, err := rows[0].String("name")
	require.NoError(t, err)
	assert.Equal(t, name, got)
}

func TestGorm_QueryEmptyTable(t *testing.T) {
	ctx := context.Background()
	g := openSQLite(t)

	require.NoError(t, g.Exec(ctx, `CREATE TABLE "groups" (id INTEGER, name TEXT)`))

	rows, err := g.Query(ctx, `SELECT COALESCE(MAX(id), 0) AS max_id FROM "groups"`)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	maxID, err := rows[0].Int64("max_id")
	require.NoError(t, err)
	assert.Equal(t, int64(0), maxID)
}

func TestGorm_QueryError(t *testing.T) {
	g := openSQLite(t)

	_, err := g.Query(context.Background(), `SELECT * FROM "does_not_exist"`)
	assert.Error(t, err)
}

func TestOpenGorm_UnknownDriver(t *testing.T) {
	_, err := OpenGorm("oracle", "dsn", "")
	assert.Error(t, err)
}

func TestIndirect(t *testing.T) {
	var boxed any = int64(5)
	var null any
	s := "x"
	ps := &s

	assert.Equal(t, int64(5), indirect(&boxed))
	assert.Nil(t, indirect(&null))
	assert.Equal(t, "x", indirect(&ps))
	assert.Nil(t, indirect((*string)(nil)))
	assert.Equal(t, int64(7), indirect(int64(7)))
	assert.Nil(t, indirect(nil))
}
