package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/user/devwatch/internal/model"
)

// Settings keys and bounds. The poll interval accepts the full unattended
// range; interactive surfaces clamp their own display band on top of it.
const (
	keyInterval      = "interval"
	keyIntervalPrev  = "interval.prev"
	keyTimeout       = "timeout"
	keyExportOnClose = "export_on_close"
	keyTheme         = "theme"

	MinInterval     = time.Second
	MaxInterval     = time.Hour
	defaultInterval = 10 * time.Second

	MinTimeout     = 500 * time.Millisecond
	MaxTimeout     = 30 * time.Second
	defaultTimeout = 2 * time.Second

	// FastInterval is the refresh rate used while devices are actively
	// watched from the dashboard.
	FastInterval = time.Second
)

// SettingsStorage provides typed access to the settings table.
type SettingsStorage struct {
	db *DB
}

// NewSettingsStorage creates a new settings storage handler.
func NewSettingsStorage(db *DB) *SettingsStorage {
	return &SettingsStorage{db: db}
}

// Get returns the raw value for a key, or the fallback when unset.
func (s *SettingsStorage) Get(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// Set stores a raw value for a key.
func (s *SettingsStorage) Set(key, value string) error {
	if _, err := s.db.Exec(`INSERT OR REPLACE INTO settings(key, value) VALUES (?, ?)`, key, value); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (s *SettingsStorage) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// PollInterval returns the configured monitoring cadence. Unparseable or
// out-of-range stored values fall back to the default rather than stalling
// the loop.
func (s *SettingsStorage) PollInterval() time.Duration {
	return s.duration(keyInterval, defaultInterval, MinInterval, MaxInterval)
}

// SetPollInterval validates and stores a new cadence. Out-of-range values
// are rejected and the previous valid interval stays in effect.
func (s *SettingsStorage) SetPollInterval(d time.Duration) error {
	if d < MinInterval || d > MaxInterval {
		return &model.ConfigError{
			Field:  "interval",
			Reason: fmt.Sprintf("poll interval must be between %s and %s, got %s", MinInterval, MaxInterval, d),
		}
	}
	return s.Set(keyInterval, d.String())
}

// ProbeTimeout returns the per-probe timeout, never exceeding the poll
// interval so a slow probe cannot push a cycle past its own cadence.
func (s *SettingsStorage) ProbeTimeout() time.Duration {
	t := s.duration(keyTimeout, defaultTimeout, MinTimeout, MaxTimeout)
	if iv := s.PollInterval(); t > iv {
		t = iv
	}
	return t
}

// SetProbeTimeout validates and stores a new per-probe timeout.
func (s *SettingsStorage) SetProbeTimeout(d time.Duration) error {
	if d < MinTimeout || d > MaxTimeout {
		return &model.ConfigError{
			Field:  "timeout",
			Reason: fmt.Sprintf("probe timeout must be between %s and %s, got %s", MinTimeout, MaxTimeout, d),
		}
	}
	return s.Set(keyTimeout, d.String())
}

// ExportOnClose reports whether the daemon should export on shutdown.
func (s *SettingsStorage) ExportOnClose() bool {
	v, err := s.Get(keyExportOnClose, "0")
	return err == nil && v == "1"
}

// SetExportOnClose stores the export-on-close flag.
func (s *SettingsStorage) SetExportOnClose(on bool) error {
	v := "0"
	if on {
		v = "1"
	}
	return s.Set(keyExportOnClose, v)
}

// Theme returns the stored theme blob. The value is opaque to the core;
// only presentation code interprets it.
func (s *SettingsStorage) Theme() (string, error) {
	return s.Get(keyTheme, "")
}

// SetTheme stores the theme blob verbatim.
func (s *SettingsStorage) SetTheme(raw string) error {
	return s.Set(keyTheme, raw)
}

// EnterFastRefresh drops the interval to the fast band, remembering the
// previous value once so repeated calls do not overwrite it.
func (s *SettingsStorage) EnterFastRefresh() error {
	prev, err := s.Get(keyIntervalPrev, "")
	if err != nil {
		return err
	}
	if prev == "" {
		if err := s.Set(keyIntervalPrev, s.PollInterval().String()); err != nil {
			return err
		}
	}
	return s.Set(keyInterval, FastInterval.String())
}

// LeaveFastRefresh restores the interval saved by EnterFastRefresh, if any.
func (s *SettingsStorage) LeaveFastRefresh() error {
	prev, err := s.Get(keyIntervalPrev, "")
	if err != nil {
		return err
	}
	if prev == "" {
		return nil
	}
	if err := s.Set(keyInterval, prev); err != nil {
		return err
	}
	return s.Delete(keyIntervalPrev)
}

func (s *SettingsStorage) duration(key string, fallback, min, max time.Duration) time.Duration {
	raw, err := s.Get(key, fallback.String())
	if err != nil {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < min || d > max {
		return fallback
	}
	return d
}
