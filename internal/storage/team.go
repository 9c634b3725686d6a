package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/user/devwatch/internal/model"
)

// TeamStorage handles team persistence.
type TeamStorage struct {
	db *DB
}

// NewTeamStorage creates a new team storage handler.
func NewTeamStorage(db *DB) *TeamStorage {
	return &TeamStorage{db: db}
}

// Create inserts a new team. Names are unique among active teams.
func (s *TeamStorage) Create(name string) (*model.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &model.ConfigError{Field: "name", Reason: "team name is required"}
	}

	result, err := s.db.Exec(`INSERT INTO teams (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read team id: %w", err)
	}

	return &model.Team{ID: id, Name: name}, nil
}

// Get returns a team by id, or nil when it does not exist.
func (s *TeamStorage) Get(id int64) (*model.Team, error) {
	var team model.Team
	err := s.db.QueryRow(`SELECT id, name FROM teams WHERE id = ?`, id).Scan(&team.ID, &team.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &team, nil
}

// GetByName returns a team by name, or nil when it does not exist.
func (s *TeamStorage) GetByName(name string) (*model.Team, error) {
	var team model.Team
	err := s.db.QueryRow(`SELECT id, name FROM teams WHERE name = ?`, strings.TrimSpace(name)).Scan(&team.ID, &team.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &team, nil
}

// List returns every team, ordered by name.
func (s *TeamStorage) List() ([]model.Team, error) {
	rows, err := s.db.Query(`SELECT id, name FROM teams ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Rename changes a team's display name.
func (s *TeamStorage) Rename(id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &model.ConfigError{Field: "name", Reason: "team name is required"}
	}
	if _, err := s.db.Exec(`UPDATE teams SET name = ? WHERE id = ?`, name, id); err != nil {
		return fmt.Errorf("failed to rename team: %w", err)
	}
	return nil
}

// Delete removes a team. Member devices are kept and become unassigned in
// the same transaction, so no device is ever left dangling.
func (s *TeamStorage) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE devices SET team_id = NULL WHERE team_id = ?`, id); err != nil {
		return fmt.Errorf("failed to unassign devices: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM teams WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit team delete: %w", err)
	}
	return nil
}
