package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DateKey returns the daily metric key for t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// UpsertDailyMetric writes the water intake for date, replacing any earlier value.
func (s *Store) UpsertDailyMetric(date string, waterIntake int) error {
	if waterIntake < 0 {
		return fmt.Errorf("upsert daily metric %s: negative water intake %d", date, waterIntake)
	}
	_, err := s.q.Exec(
		`INSERT INTO daily_metrics (date, water_intake) VALUES (?, ?)
		 ON CONFLICT(date) DO UPDATE SET water_intake = excluded.water_intake`,
		date, waterIntake,
	)
	if err != nil {
		return fmt.Errorf("upsert daily metric %s: %w", date, err)
	}
	return nil
}

// GetDailyMetric returns nil, nil when no record exists for date.
func (s *Store) GetDailyMetric(date string) (*DailyMetric, error) {
	m := &DailyMetric{}
	err := s.q.QueryRow(
		`SELECT date, water_intake FROM daily_metrics WHERE date = ?`, date,
	).Scan(&m.Date, &m.WaterIntake)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get daily metric %s: %w", date, err)
	}
	return m, nil
}

func (s *Store) ListDailyMetrics() ([]DailyMetric, error) {
	rows, err := s.q.Query(`SELECT date, water_intake FROM daily_metrics ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list daily metrics: %w", err)
	}
	defer rows.Close()

	var metrics []DailyMetric
	for rows.Next() {
		var m DailyMetric
		if err := rows.Scan(&m.Date, &m.WaterIntake); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}
