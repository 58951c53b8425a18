package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"roster-api/models"
	"roster-api/warehouse"
)

func newSQLiteRoster(t *testing.T) (*Roster, *warehouse.Gorm) {
	t.Helper()
	ctx := context.Background()

	g, err := warehouse.OpenGorm("sqlite", filepath.Join(t.TempDir(), "roster.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })

	for _, ddl := range []string{
		`CREATE TABLE "users" (id INTEGER, name TEXT, group_id INTEGER)`,
		`CREATE TABLE "groups" (id INTEGER, name TEXT)`,
		`CREATE TABLE "research" (id INTEGER, name1 TEXT, name2 TEXT, name3 TEXT, name4 TEXT, name5 TEXT, name6 TEXT, name7 TEXT, name8 TEXT, name9 TEXT)`,
	} {
		require.NoError(t, g.Exec(ctx, ddl))
	}
	return NewRoster(g, zaptest.NewLogger(t)), g
}

func TestRosterSQLite_CreateAndListUsers(t *testing.T) {
	ctx := context.Background()
	roster, g := newSQLiteRoster(t)
	require.NoError(t, g.Exec(ctx, `INSERT INTO "groups" (id, name) VALUES (2, 'Blue')`))

	alice, err := roster.CreateUser(ctx, "Alice", 2)
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: 1, Name: "Alice", GroupID: 2}, alice)

	bob, err := roster.CreateUser(ctx, "Bob", 9)
	require.NoError(t, err)
	assert.Equal(t, int64(2), bob.ID)

	// Altbestand ohne Gruppe
	require.NoError(t, g.Exec(ctx, `INSERT INTO "users" (id, name, group_id) VALUES (3, 'Carol', NULL)`))

	users, err := roster.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, int64(1), users[0].ID)
	require.NotNil(t, users[0].GroupID)
	assert.Equal(t, int64(2), *users[0].GroupID)
	require.NotNil(t, users[0].GroupName)
	assert.Equal(t, "Blue", *users[0].GroupName)

	assert.Equal(t, "Bob", users[1].Name)
	assert.Nil(t, users[1].GroupName)

	assert.Equal(t, "Carol", users[2].Name)
	assert.Nil(t, users[2].GroupID)
}

func TestRosterSQLite_CreateAndListResearch(t *testing.T) {
	ctx := context.Background()
	roster, _ := newSQLiteRoster(t)

	first, err := roster.CreateResearch(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, models.NewResearch(1, "x"), *first)

	second, err := roster.CreateResearch(ctx, "it's")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	entries, err := roster.ListResearch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Research{models.NewResearch(1, "x"), models.NewResearch(2, "it's")}, entries)
}

func TestRosterSQLite_ListGroups(t *testing.T) {
	ctx := context.Background()
	roster, g := newSQLiteRoster(t)
	require.NoError(t, g.Exec(ctx, `INSERT INTO "groups" (id, name) VALUES (2, 'Blue'), (1, 'Red')`))

	groups, err := roster.ListGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Group{{ID: 1, Name: "Red"}, {ID: 2, Name: "Blue"}}, groups)
}
