package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/devwatch/internal/model"
)

func TestPollIntervalBounds(t *testing.T) {
	db := openTestDB(t)
	settings := NewSettingsStorage(db)

	require.NoError(t, settings.SetPollInterval(45*time.Second))
	assert.Equal(t, 45*time.Second, settings.PollInterval())

	// Out-of-range values are rejected and the stored value survives.
	err := settings.SetPollInterval(500 * time.Millisecond)
	require.Error(t, err)
	assert.True(t, model.IsConfigError(err))

	err = settings.SetPollInterval(2 * time.Hour)
	require.Error(t, err)
	assert.True(t, model.IsConfigError(err))

	assert.Equal(t, 45*time.Second, settings.PollInterval())
}

func TestPollIntervalFallsBackOnGarbage(t *testing.T) {
	db := openTestDB(t)
	settings := NewSettingsStorage(db)

	// A corrupted row must not stall the loop.
	require.NoError(t, settings.Set(keyInterval, "not-a-duration"))
	assert.Equal(t, defaultInterval, settings.PollInterval())

	require.NoError(t, settings.Set(keyInterval, "90m"))
	assert.Equal(t, defaultInterval, settings.PollInterval(), "out-of-range stored value falls back")
}

func TestProbeTimeoutClampedToInterval(t *testing.T) {
	db := openTestDB(t)
	settings := NewSettingsStorage(db)

	require.NoError(t, settings.SetProbeTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, settings.ProbeTimeout())

	// A timeout longer than the cadence would let one slow probe eat the
	// whole cycle; the read clamps it.
	require.NoError(t, settings.SetPollInterval(2*time.Second))
	assert.Equal(t, 2*time.Second, settings.ProbeTimeout())

	err := settings.SetProbeTimeout(100 * time.Millisecond)
	require.Error(t, err)
	assert.True(t, model.IsConfigError(err))
}

func TestFastRefreshRoundTrip(t *testing.T) {
	db := openTestDB(t)
	settings := NewSettingsStorage(db)

	require.NoError(t, settings.SetPollInterval(20*time.Second))

	require.NoError(t, settings.EnterFastRefresh())
	assert.Equal(t, FastInterval, settings.PollInterval())

	// Entering twice must not overwrite the remembered interval.
	require.NoError(t, settings.EnterFastRefresh())

	require.NoError(t, settings.LeaveFastRefresh())
	assert.Equal(t, 20*time.Second, settings.PollInterval())

	// Leaving without a prior enter is a no-op.
	require.NoError(t, settings.LeaveFastRefresh())
	assert.Equal(t, 20*time.Second, settings.PollInterval())
}

func TestExportOnClose(t *testing.T) {
	db := openTestDB(t)
	settings := NewSettingsStorage(db)

	assert.False(t, settings.ExportOnClose())
	require.NoError(t, settings.SetExportOnClose(true))
	assert.True(t, settings.ExportOnClose())
	require.NoError(t, settings.SetExportOnClose(false))
	assert.False(t, settings.ExportOnClose())
}

func TestThemeIsOpaque(t *testing.T) {
	db := openTestDB(t)
	settings := NewSettingsStorage(db)

	blob := `{"accent":"#ff00aa","font":"monospace"}`
	require.NoError(t, settings.SetTheme(blob))

	got, err := settings.Theme()
	require.NoError(t, err)
	assert.Equal(t, blob, got, "theme value round-trips verbatim")
}
