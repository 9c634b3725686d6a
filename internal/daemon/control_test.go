package daemon

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/devwatch/internal/model"
)

func TestStatusFileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	sf := &StatusFile{
		Running:   true,
		PID:       1234,
		State:     "running",
		StartTime: "2026-03-01 12:00:00",
		Uptime:    "1h2m",
		LastCycle: model.CycleSummary{
			Started:  time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
			Duration: 340 * time.Millisecond,
			Devices:  5,
			Online:   4,
			Offline:  1,
		},
	}
	require.NoError(t, WriteStatusFile(dir, sf))

	got, err := ReadStatusFile(dir)
	require.NoError(t, err)
	assert.Equal(t, sf, got)
}

func TestReadStatusFileMissing(t *testing.T) {
	_, err := ReadStatusFile(t.TempDir())
	assert.Error(t, err)
}

func TestCheckRunning(t *testing.T) {
	dir := t.TempDir()

	// No pid file at all.
	running, _ := CheckRunning(dir)
	assert.False(t, running)

	// Garbage pid file.
	pidFile := filepath.Join(dir, "devwatch.pid")
	require.NoError(t, os.WriteFile(pidFile, []byte("not-a-pid"), 0644))
	running, _ = CheckRunning(dir)
	assert.False(t, running)

	// A pid that certainly never maps to a live process.
	require.NoError(t, os.WriteFile(pidFile, []byte("999999"), 0644))
	running, _ = CheckRunning(dir)
	assert.False(t, running)

	// Our own pid is definitely alive.
	require.NoError(t, os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644))
	running, pid := CheckRunning(dir)
	assert.True(t, running)
	assert.Equal(t, os.Getpid(), pid)
}
