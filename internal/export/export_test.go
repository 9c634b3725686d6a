package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/devwatch/internal/model"
)

type staticLister struct {
	devices []model.Device
	err     error
}

func (s *staticLister) List() ([]model.Device, error) {
	return s.devices, s.err
}

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "devwatch.log")

	var lines []string
	for i := 0; i < 600; i++ {
		lines = append(lines, fmt.Sprintf("log line %d", i))
	}
	require.NoError(t, os.WriteFile(logFile, []byte(strings.Join(lines, "\n")+"\n"), 0644))

	latency := 3.2
	lister := &staticLister{devices: []model.Device{
		{
			Name:          "printer",
			Host:          "10.0.0.5",
			Method:        model.MethodPing,
			LastStatus:    model.OutcomeOnline,
			LastLatencyMs: &latency,
			LastCheckedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{Name: "switch", Host: "10.0.0.1", Method: model.MethodTCP, LastStatus: model.OutcomeOffline},
	}}

	result, err := Write(dir, logFile, lister)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "monitor.txt"), result.MonitorPath)
	assert.Equal(t, filepath.Join(dir, "devices.db"), result.DBPath)

	data, err := os.ReadFile(result.MonitorPath)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "devices: 2")
	assert.Contains(t, content, "printer")
	assert.Contains(t, content, "3.2ms")
	assert.Contains(t, content, "2026-03-01 12:00:00")
	assert.Contains(t, content, "offline")

	// Only the last 500 log lines survive.
	assert.NotContains(t, content, "log line 99\n")
	assert.Contains(t, content, "log line 100\n")
	assert.Contains(t, content, "log line 599")
}

func TestWriteWithoutLogs(t *testing.T) {
	dir := t.TempDir()

	result, err := Write(dir, filepath.Join(dir, "missing.log"), &staticLister{})
	require.NoError(t, err)

	data, err := os.ReadFile(result.MonitorPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "no logs available")
	assert.Contains(t, string(data), "devices: 0")
}

func TestWriteReportsListerFailure(t *testing.T) {
	dir := t.TempDir()

	result, err := Write(dir, "", &staticLister{err: assert.AnError})
	require.NoError(t, err, "a broken registry must not block the export")

	data, err := os.ReadFile(result.MonitorPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "devices: unavailable")
}
