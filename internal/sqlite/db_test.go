package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"creators",
		"credits",
		"publication_series",
		"publications",
		"readings",
		"venues",
		"works",
		"events",
		"event_works",
		"activity_log",
		"catalog_fts",
		"api_keys",
		"schema_migrations",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestMigrations_Idempotent verifies applied migrations are skipped
func TestMigrations_Idempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())

	versions, err := db.AppliedMigrations(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"001_initial_schema"}, versions)
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestConstraints verifies kind checks and reading foreign keys
func TestConstraints(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO creators (id, kind, name, name_sort) VALUES (?, ?, ?, ?)`,
		"c1", "robot", "Marvin", "marvin")
	require.Error(t, err, "should fail with invalid kind")

	_, err = db.ExecContext(ctx,
		`INSERT INTO readings (id, publication_id) VALUES (?, ?)`,
		"r1", "missing")
	require.Error(t, err, "should fail with invalid publication_id")
}

func TestPageClause(t *testing.T) {
	q, args := pageClause("SELECT 1", []any{"a"}, 10, 5)
	require.Equal(t, "SELECT 1 LIMIT ? OFFSET ?", q)
	require.Equal(t, []any{"a", 5, 10}, args)

	q, args = pageClause("SELECT 1", nil, 10, 0)
	require.Equal(t, "SELECT 1", q)
	require.Nil(t, args)
}

func testTime() time.Time {
	return time.Date(2017, 3, 9, 17, 22, 0, 0, time.UTC)
}
