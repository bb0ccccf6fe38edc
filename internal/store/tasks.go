package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (s *Store) CreateTask(title string) (*Task, error) {
	now := formatTime(time.Now())
	res, err := s.q.Exec(
		`INSERT INTO tasks (title, completed, created_at) VALUES (?, 0, ?)`,
		title, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(id)
}

// AddTasks inserts every title as an incomplete task in one transaction.
func (s *Store) AddTasks(titles []string) ([]Task, error) {
	var tasks []Task
	err := s.InTx(func(tx *Store) error {
		for _, title := range titles {
			t, err := tx.CreateTask(title)
			if err != nil {
				return err
			}
			tasks = append(tasks, *t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) GetTask(id int64) (*Task, error) {
	t := &Task{}
	var createdAt string
	var completed int
	err := s.q.QueryRow(
		`SELECT id, title, completed, created_at FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.Title, &completed, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	t.Completed = completed == 1
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}

// ListTasks returns every task in insertion order.
func (s *Store) ListTasks() ([]Task, error) {
	rows, err := s.q.Query(`SELECT id, title, completed, created_at FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var createdAt string
		var completed int
		if err := rows.Scan(&t.ID, &t.Title, &completed, &createdAt); err != nil {
			return nil, err
		}
		t.Completed = completed == 1
		t.CreatedAt = parseTime(createdAt)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SetTaskCompleted sets the completed flag of a single task.
func (s *Store) SetTaskCompleted(id int64, completed bool) error {
	v := 0
	if completed {
		v = 1
	}
	res, err := s.q.Exec(`UPDATE tasks SET completed = ? WHERE id = ?`, v, id)
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update task %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) CountTasks() (total, completed int, err error) {
	err = s.q.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM tasks`,
	).Scan(&total, &completed)
	if err != nil {
		err = fmt.Errorf("count tasks: %w", err)
	}
	return
}
