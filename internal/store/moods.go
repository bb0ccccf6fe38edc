package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

func (s *Store) AddMoodSession(emotions []string, summary string, at time.Time) (*MoodSession, error) {
	if emotions == nil {
		emotions = []string{}
	}
	raw, err := json.Marshal(emotions)
	if err != nil {
		return nil, fmt.Errorf("marshal emotions: %w", err)
	}

	var sum sql.NullString
	if summary != "" {
		sum = sql.NullString{String: summary, Valid: true}
	}

	ts := formatTime(at)
	res, err := s.q.Exec(
		`INSERT INTO mood_sessions (emotions, summary, timestamp) VALUES (?, ?, ?)`,
		string(raw), sum, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("add mood session: %w", err)
	}
	id, _ := res.LastInsertId()
	return &MoodSession{ID: id, Emotions: emotions, Summary: summary, Timestamp: parseTime(ts)}, nil
}

// ListMoodSessions returns sessions newest first.
func (s *Store) ListMoodSessions(f SessionFilter) ([]MoodSession, error) {
	query := `SELECT id, emotions, summary, timestamp FROM mood_sessions WHERE 1=1`
	var args []any

	if f.Since != nil {
		query += ` AND timestamp >= ?`
		args = append(args, formatTime(*f.Since))
	}
	query += ` ORDER BY timestamp DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mood sessions: %w", err)
	}
	defer rows.Close()

	var sessions []MoodSession
	for rows.Next() {
		var ms MoodSession
		var raw, ts string
		var summary sql.NullString
		if err := rows.Scan(&ms.ID, &raw, &summary, &ts); err != nil {
			return nil, err
		}
		// A malformed emotions column degrades to an empty list.
		if err := json.Unmarshal([]byte(raw), &ms.Emotions); err != nil {
			ms.Emotions = nil
		}
		ms.Summary = summary.String
		ms.Timestamp = parseTime(ts)
		sessions = append(sessions, ms)
	}
	return sessions, rows.Err()
}
