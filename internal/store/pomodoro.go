package store

import (
	"fmt"
	"time"
)

// RecordPomodoro appends one completed focus interval to the history.
func (s *Store) RecordPomodoro(at time.Time) (*PomodoroRecord, error) {
	ts := formatTime(at)
	res, err := s.q.Exec(`INSERT INTO pomodoro_history (timestamp) VALUES (?)`, ts)
	if err != nil {
		return nil, fmt.Errorf("record pomodoro: %w", err)
	}
	id, _ := res.LastInsertId()
	return &PomodoroRecord{ID: id, Timestamp: parseTime(ts)}, nil
}

// ListPomodoros returns history records at or after since, newest first.
func (s *Store) ListPomodoros(since time.Time) ([]PomodoroRecord, error) {
	rows, err := s.q.Query(
		`SELECT id, timestamp FROM pomodoro_history WHERE timestamp >= ? ORDER BY timestamp DESC, id DESC`,
		formatTime(since),
	)
	if err != nil {
		return nil, fmt.Errorf("list pomodoros: %w", err)
	}
	defer rows.Close()

	var records []PomodoroRecord
	for rows.Next() {
		var r PomodoroRecord
		var ts string
		if err := rows.Scan(&r.ID, &ts); err != nil {
			return nil, err
		}
		r.Timestamp = parseTime(ts)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) CountPomodorosSince(since time.Time) (int, error) {
	var n int
	err := s.q.QueryRow(
		`SELECT COUNT(*) FROM pomodoro_history WHERE timestamp >= ?`, formatTime(since),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pomodoros: %w", err)
	}
	return n, nil
}
