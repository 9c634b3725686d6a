package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	devmodel "github.com/user/devwatch/internal/model"
)

func TestBuildRowsMergesCacheAndFallback(t *testing.T) {
	teamID := int64(7)
	devices := []devmodel.Device{
		{ID: 1, Name: "zeta", Host: "10.0.0.2", Method: devmodel.MethodPing},
		{
			ID: 2, Name: "alpha", Host: "10.0.0.1", Method: devmodel.MethodTCP,
			TeamID: &teamID,
			// Stored status from a previous run; no cache entry yet.
			LastStatus:    devmodel.OutcomeOffline,
			LastCheckedAt: time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC),
		},
		{ID: 3, Name: "mid", Host: "10.0.0.3", Method: devmodel.MethodPing},
	}
	teams := map[int64]string{teamID: "lab"}
	statuses := map[int64]devmodel.ProbeResult{
		1: {
			DeviceID:   1,
			Timestamp:  time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
			Outcome:    devmodel.OutcomeOnline,
			Latency:    2500 * time.Microsecond,
			AuxService: true,
		},
	}

	rows := BuildRows(devices, teams, statuses)
	require.Len(t, rows, 3)

	// Alphabetical, case-insensitive.
	assert.Equal(t, "alpha", rows[0].Name)
	assert.Equal(t, "mid", rows[1].Name)
	assert.Equal(t, "zeta", rows[2].Name)

	// Cache entry wins for zeta.
	zeta := rows[2]
	assert.Equal(t, devmodel.OutcomeOnline, zeta.Status)
	assert.Equal(t, "2.5ms", zeta.Latency)
	assert.True(t, zeta.Aux)
	assert.Equal(t, "10:00:00", zeta.LastSeen)

	// Stored status fills in until the first cycle lands.
	alpha := rows[0]
	assert.Equal(t, devmodel.OutcomeOffline, alpha.Status)
	assert.Equal(t, "lab", alpha.Team)
	assert.Equal(t, "09:30:00", alpha.LastSeen)

	// Never probed, nothing stored.
	assert.Equal(t, devmodel.OutcomeUnknown, rows[1].Status)
	assert.Empty(t, rows[1].Latency)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-10", truncate("exactly-10", 10))
	assert.Equal(t, "very-lo...", truncate("very-long-name", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
