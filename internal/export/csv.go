package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sadopc/matcha/internal/mood"
	"github.com/sadopc/matcha/internal/store"
)

// ToCSV writes one row per mood session.
func ToCSV(sessions []store.MoodSession, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"ID", "Time", "Emotions", "Score", "Band", "Summary"}); err != nil {
		return err
	}

	for _, s := range sessions {
		score := mood.Score(s.Emotions)
		row := []string{
			fmt.Sprintf("%d", s.ID),
			s.Timestamp.Local().Format(time.RFC3339),
			strings.Join(s.Emotions, "; "),
			formatScore(score),
			mood.BandOf(score).String(),
			s.Summary,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
