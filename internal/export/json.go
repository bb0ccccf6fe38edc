package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/matcha/internal/mood"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Sessions   []jsonSession `json:"sessions"`
	Tasks      []jsonTask    `json:"tasks"`
	Metrics    []jsonMetric  `json:"daily_metrics"`
	Pomodoros  int           `json:"pomodoros"`
}

type jsonSession struct {
	ID       int64    `json:"id"`
	Time     string   `json:"time"`
	Emotions []string `json:"emotions"`
	Score    string   `json:"score"`
	Band     string   `json:"band"`
	Summary  string   `json:"summary,omitempty"`
}

type jsonTask struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
}

type jsonMetric struct {
	Date        string `json:"date"`
	WaterIntake int    `json:"water_intake"`
}

// ToJSON writes the whole journal as one indented document.
func ToJSON(d *Data, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if d != nil {
		out.Pomodoros = len(d.Pomodoros)
		for _, s := range d.Sessions {
			score := mood.Score(s.Emotions)
			out.Sessions = append(out.Sessions, jsonSession{
				ID:       s.ID,
				Time:     s.Timestamp.Local().Format(time.RFC3339),
				Emotions: s.Emotions,
				Score:    formatScore(score),
				Band:     mood.BandOf(score).String(),
				Summary:  s.Summary,
			})
		}
		for _, t := range d.Tasks {
			out.Tasks = append(out.Tasks, jsonTask{
				ID:        t.ID,
				Title:     t.Title,
				Completed: t.Completed,
				CreatedAt: t.CreatedAt.Local().Format(time.RFC3339),
			})
		}
		for _, m := range d.Metrics {
			out.Metrics = append(out.Metrics, jsonMetric{Date: m.Date, WaterIntake: m.WaterIntake})
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
