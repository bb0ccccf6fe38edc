package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const pomodoroKey = "pomodoro"

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.q.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get setting %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.q.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.q.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// GetPomodoroSettings reports ok=false when the record has never been written.
func (s *Store) GetPomodoroSettings() (PomodoroSettings, bool, error) {
	var ps PomodoroSettings
	raw, err := s.GetSetting(pomodoroKey)
	if errors.Is(err, ErrNotFound) {
		return ps, false, nil
	}
	if err != nil {
		return ps, false, err
	}
	if err := json.Unmarshal([]byte(raw), &ps); err != nil {
		return ps, false, fmt.Errorf("decode pomodoro settings: %w", err)
	}
	return ps, true, nil
}

func (s *Store) SavePomodoroSettings(ps PomodoroSettings) error {
	raw, err := json.Marshal(ps)
	if err != nil {
		return fmt.Errorf("encode pomodoro settings: %w", err)
	}
	if err := s.SetSetting(pomodoroKey, string(raw)); err != nil {
		return fmt.Errorf("save pomodoro settings: %w", err)
	}
	return nil
}
