package store

import (
	"fmt"
	"time"
)

func (s *Store) AppendMessage(typ MessageType, content string, at time.Time) (*Message, error) {
	ts := formatTime(at)
	res, err := s.q.Exec(
		`INSERT INTO messages (type, content, timestamp) VALUES (?, ?, ?)`,
		string(typ), content, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	id, _ := res.LastInsertId()
	return &Message{ID: id, Type: typ, Content: content, Timestamp: parseTime(ts)}, nil
}

// ListMessages returns the conversation log oldest first.
func (s *Store) ListMessages() ([]Message, error) {
	rows, err := s.q.Query(`SELECT id, type, content, timestamp FROM messages ORDER BY timestamp, id`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var typ, ts string
		if err := rows.Scan(&m.ID, &typ, &m.Content, &ts); err != nil {
			return nil, err
		}
		m.Type = MessageType(typ)
		m.Timestamp = parseTime(ts)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *Store) CountMessages() (int, error) {
	var n int
	if err := s.q.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}
