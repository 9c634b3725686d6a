package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(t.TempDir())
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenSeedsDefaults(t *testing.T) {
	db := openTestDB(t)
	settings := NewSettingsStorage(db)

	require.Equal(t, defaultInterval, settings.PollInterval())
	require.Equal(t, defaultTimeout, settings.ProbeTimeout())
	require.False(t, settings.ExportOnClose())
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, NewSettingsStorage(db).SetPollInterval(30*time.Second))
	require.NoError(t, db.Close())

	// Reopening must keep existing rows and not re-seed over them.
	db, err = Open(dir)
	require.NoError(t, err)
	defer db.Close()
	require.Equal(t, 30*time.Second, NewSettingsStorage(db).PollInterval())
}
