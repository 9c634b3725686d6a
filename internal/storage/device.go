package storage

import (
	"database/sql"
	"fmt"

	"github.com/user/devwatch/internal/model"
)

// DeviceStorage handles device persistence.
type DeviceStorage struct {
	db *DB
}

// NewDeviceStorage creates a new device storage handler.
func NewDeviceStorage(db *DB) *DeviceStorage {
	return &DeviceStorage{db: db}
}

const deviceColumns = `id, name, host, method, port, team_id, enabled, watched,
	last_status, last_latency_ms, last_checked_at, aux_service, created_at`

// Save inserts a new device or updates the management-owned fields of an
// existing one. Status columns belong to the monitoring loop and are never
// touched here.
func (s *DeviceStorage) Save(dev *model.Device) error {
	if err := dev.Validate(); err != nil {
		return err
	}

	if dev.ID == 0 {
		query := `INSERT INTO devices (name, host, method, port, team_id, enabled, watched)
				  VALUES (?, ?, ?, ?, ?, ?, ?)`
		result, err := s.db.Exec(query,
			dev.Name, dev.Host, string(dev.Method), dev.Port, teamRef(dev.TeamID), dev.Enabled, dev.Watched)
		if err != nil {
			return fmt.Errorf("failed to insert device: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read device id: %w", err)
		}
		dev.ID = id
		return nil
	}

	query := `UPDATE devices SET name = ?, host = ?, method = ?, port = ?, team_id = ?, enabled = ?, watched = ?
			  WHERE id = ?`
	if _, err := s.db.Exec(query,
		dev.Name, dev.Host, string(dev.Method), dev.Port, teamRef(dev.TeamID), dev.Enabled, dev.Watched, dev.ID); err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}
	return nil
}

// Get returns a device by id, or nil when it does not exist.
func (s *DeviceStorage) Get(id int64) (*model.Device, error) {
	row := s.db.QueryRow(`SELECT `+deviceColumns+` FROM devices WHERE id = ?`, id)
	dev, err := scanDevice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return dev, nil
}

// List returns every device, ordered by name.
func (s *DeviceStorage) List() ([]model.Device, error) {
	return s.query(`SELECT ` + deviceColumns + ` FROM devices ORDER BY name COLLATE NOCASE`)
}

// ListByTeam returns devices assigned to a team.
func (s *DeviceStorage) ListByTeam(teamID int64) ([]model.Device, error) {
	return s.query(`SELECT `+deviceColumns+` FROM devices WHERE team_id = ? ORDER BY name COLLATE NOCASE`, teamID)
}

// Enabled returns the devices the monitoring loop should probe. The read
// always hits the database so edits committed by the management commands
// are picked up within one cycle.
func (s *DeviceStorage) Enabled() ([]model.Device, error) {
	return s.query(`SELECT ` + deviceColumns + ` FROM devices WHERE enabled = 1 AND watched = 1 ORDER BY id`)
}

// SetEnabled flips the enabled flag without touching the rest of the record.
func (s *DeviceStorage) SetEnabled(id int64, enabled bool) error {
	if _, err := s.db.Exec(`UPDATE devices SET enabled = ? WHERE id = ?`, enabled, id); err != nil {
		return fmt.Errorf("failed to set enabled: %w", err)
	}
	return nil
}

// SetWatched flips the watched flag.
func (s *DeviceStorage) SetWatched(id int64, watched bool) error {
	if _, err := s.db.Exec(`UPDATE devices SET watched = ? WHERE id = ?`, watched, id); err != nil {
		return fmt.Errorf("failed to set watched: %w", err)
	}
	return nil
}

// CountWatched returns how many enabled devices are actively watched.
func (s *DeviceStorage) CountWatched() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM devices WHERE enabled = 1 AND watched = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count watched devices: %w", err)
	}
	return n, nil
}

// Delete removes a device permanently.
func (s *DeviceStorage) Delete(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM devices WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	return nil
}

// UpdateStatus writes the last-known-status columns for one device. This is
// the only write path the monitoring loop owns.
func (s *DeviceStorage) UpdateStatus(id int64, result *model.ProbeResult) error {
	query := `UPDATE devices SET last_status = ?, last_latency_ms = ?, last_checked_at = ?, aux_service = ?
			  WHERE id = ?`
	var latency interface{}
	if ms := result.LatencyMs(); ms != nil {
		latency = *ms
	}
	if _, err := s.db.Exec(query,
		string(result.Outcome), latency, result.Timestamp, result.AuxService, id); err != nil {
		return fmt.Errorf("failed to update device status: %w", err)
	}
	return nil
}

func (s *DeviceStorage) query(query string, args ...interface{}) ([]model.Device, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	var devices []model.Device
	for rows.Next() {
		dev, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, *dev)
	}
	return devices, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDevice(row rowScanner) (*model.Device, error) {
	var (
		dev       model.Device
		method    string
		status    string
		teamID    sql.NullInt64
		latency   sql.NullFloat64
		checkedAt sql.NullTime
	)

	err := row.Scan(
		&dev.ID, &dev.Name, &dev.Host, &method, &dev.Port, &teamID,
		&dev.Enabled, &dev.Watched, &status, &latency, &checkedAt,
		&dev.AuxService, &dev.CreatedAt)
	if err != nil {
		return nil, err
	}

	dev.Method = model.Method(method)
	dev.LastStatus = model.Outcome(status)
	if teamID.Valid {
		id := teamID.Int64
		dev.TeamID = &id
	}
	if latency.Valid {
		ms := latency.Float64
		dev.LastLatencyMs = &ms
	}
	if checkedAt.Valid {
		dev.LastCheckedAt = checkedAt.Time
	}

	return &dev, nil
}

func teamRef(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
