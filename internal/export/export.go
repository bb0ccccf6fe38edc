// Package export writes journal data to CSV and JSON files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/matcha/internal/store"
)

type Format int

const (
	FormatCSV Format = iota
	FormatJSON
)

var formatNames = []string{"csv", "json"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// ParseFormat accepts "csv" or "json".
func ParseFormat(s string) (Format, error) {
	for i, n := range formatNames {
		if n == s {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("unknown export format %q", s)
}

// Data is everything an export can contain. Sessions are newest first.
type Data struct {
	Sessions  []store.MoodSession
	Tasks     []store.Task
	Metrics   []store.DailyMetric
	Pomodoros []store.PomodoroRecord
}

// Collect reads all exportable collections in one transaction.
func Collect(s *store.Store) (*Data, error) {
	d := &Data{}
	err := s.InTx(func(tx *store.Store) error {
		var err error
		if d.Sessions, err = tx.ListMoodSessions(store.SessionFilter{}); err != nil {
			return err
		}
		if d.Tasks, err = tx.ListTasks(); err != nil {
			return err
		}
		if d.Metrics, err = tx.ListDailyMetrics(); err != nil {
			return err
		}
		d.Pomodoros, err = tx.ListPomodoros(time.Time{})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("collect export data: %w", err)
	}
	return d, nil
}

// DefaultPath is matcha-export-<date>.<ext> in the home directory.
func DefaultPath(f Format, now time.Time) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, fmt.Sprintf("matcha-export-%s.%s", now.Format(store.DateLayout), f))
}

// Write exports d to path in format f.
func Write(d *Data, f Format, path string) error {
	switch f {
	case FormatCSV:
		return ToCSV(d.Sessions, path)
	case FormatJSON:
		return ToJSON(d, path)
	}
	return fmt.Errorf("unknown export format %d", f)
}
