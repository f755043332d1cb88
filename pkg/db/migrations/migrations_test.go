package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadMigrationsSortsByVersion(t *testing.T) {
	source := fstest.MapFS{
		"002_add_index.sql":     {Data: []byte("CREATE INDEX idx_a ON a(name);")},
		"001_create_table.sql":  {Data: []byte("CREATE TABLE a (name TEXT);")},
		"README.md":             {Data: []byte("ignored")},
		"003_drop_nothing.sql":  {Data: []byte("SELECT 1;")},
		"subdir/004_nested.sql": {Data: []byte("SELECT 1;")},
	}

	migrator := NewMigrator(openTestDB(t), source, logging.Discard())
	migrations, err := migrator.LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 3)
	assert.Equal(t, "001", migrations[0].Version)
	assert.Equal(t, "create table", migrations[0].Description)
	assert.Equal(t, "002", migrations[1].Version)
	assert.Equal(t, "003", migrations[2].Version)
}

func TestLoadMigrationsRejectsBadName(t *testing.T) {
	source := fstest.MapFS{"initial.sql": {Data: []byte("SELECT 1;")}}

	_, err := NewMigrator(openTestDB(t), source, logging.Discard()).LoadMigrations()
	assert.Error(t, err)
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	migrator := NewMigrator(db, Embedded(), logging.Discard())

	require.NoError(t, migrator.MigrateUp())
	require.NoError(t, migrator.MigrateUp())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
	embedded, err := migrator.LoadMigrations()
	require.NoError(t, err)
	assert.Equal(t, len(embedded), count)

	pending, err := migrator.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	for _, table := range []string{"bankrolls", "transactions", "rounds", "hand_records", "side_bet_records"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestFailedMigrationRollsBack(t *testing.T) {
	db := openTestDB(t)
	source := fstest.MapFS{
		"001_good.sql": {Data: []byte("CREATE TABLE good (id INTEGER);")},
		"002_bad.sql":  {Data: []byte("CREATE TABLE broken (;")},
	}
	migrator := NewMigrator(db, source, logging.Discard())

	assert.Error(t, migrator.MigrateUp())

	applied, err := migrator.GetAppliedMigrations()
	require.NoError(t, err)
	assert.True(t, applied["001"])
	assert.False(t, applied["002"])
}

func TestOpenCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "blackjack.db")

	db, err := Open(dbPath, logging.Discard())
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM bankrolls").Scan(&count))
	assert.Zero(t, count)
}
