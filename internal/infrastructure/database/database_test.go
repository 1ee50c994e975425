package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"user-service/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewConnection(Config{
		Driver:   DriverSQLite,
		DBName:   filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })
	return db
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{DriverSQLite, DriverMySQL, DriverPostgres} {
		d, err := Dialector(Config{Driver: driver, DBName: "api_db"})
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	_, err := Dialector(Config{Driver: "oracle"})
	assert.EqualError(t, err, "unsupported database driver: oracle")
}

func TestSQLitePath(t *testing.T) {
	assert.Equal(t, "api_db.db", SQLitePath("api_db"))
	assert.Equal(t, "data/app.db", SQLitePath("data/app.db"))
	assert.Equal(t, ":memory:", SQLitePath(":memory:"))
	assert.Equal(t, "file:x?mode=memory", SQLitePath("file:x?mode=memory"))
}

func TestConnectWithRetry_SQLite(t *testing.T) {
	db, err := ConnectWithRetry(Config{
		Driver:   DriverSQLite,
		DBName:   filepath.Join(t.TempDir(), "nested", "app.db"),
		LogLevel: "silent",
	}, 3, time.Millisecond)
	require.NoError(t, err)
	defer Close(db)

	assert.NoError(t, HealthCheck(db))
}

func TestConnectWithRetry_GivesUp(t *testing.T) {
	// a regular file where the db directory should be makes every attempt fail
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := ConnectWithRetry(Config{
		Driver:   DriverSQLite,
		DBName:   filepath.Join(blocker, "app.db"),
		LogLevel: "silent",
	}, 2, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestConnectWithRetry_UnsupportedDriver(t *testing.T) {
	_, err := ConnectWithRetry(Config{Driver: "oracle"}, 5, time.Hour)
	assert.EqualError(t, err, "unsupported database driver: oracle")
}

func TestMigrationRunner(t *testing.T) {
	db := newTestDB(t)
	runner := NewMigrationRunner(db, DriverSQLite)

	statuses, err := runner.GetMigrationStatus()
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, TableStatus{Table: "users"}, statuses[0])

	require.NoError(t, RunMigrations(db, DriverSQLite))
	// idempotent
	require.NoError(t, runner.RunMigrations())

	require.NoError(t, db.Create(&user.User{Username: "alice", Email: "a@x.com", Password: "hash"}).Error)

	statuses, err = runner.GetMigrationStatus()
	require.NoError(t, err)
	assert.Equal(t, TableStatus{Table: "users", Exists: true, RowCount: 1}, statuses[0])
}
