package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/matcha/internal/store"
)

func sampleSessions() []store.MoodSession {
	now := time.Now().UTC()
	return []store.MoodSession{
		{ID: 2, Emotions: []string{"happy", "calm"}, Summary: "Good talk with a friend.", Timestamp: now},
		{ID: 1, Emotions: []string{"sad"}, Timestamp: now.Add(-24 * time.Hour)},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	if err := ToCSV(sampleSessions(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}

	expectedHeader := []string{"ID", "Time", "Emotions", "Score", "Band", "Summary"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "2" {
		t.Fatalf("ID = %q, want 2", row[0])
	}
	if row[2] != "happy; calm" {
		t.Fatalf("Emotions = %q", row[2])
	}
	if row[3] != "8.5" || row[4] != "great" {
		t.Fatalf("Score/Band = %q/%q, want 8.5/great", row[3], row[4])
	}
	if row[5] != "Good talk with a friend." {
		t.Fatalf("Summary = %q", row[5])
	}
	if _, err := time.Parse(time.RFC3339, row[1]); err != nil {
		t.Fatalf("Time is not RFC3339: %q", row[1])
	}

	if records[2][3] != "3.0" || records[2][4] != "low" || records[2][5] != "" {
		t.Fatalf("unexpected second row %v", records[2])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	sessions := []store.MoodSession{
		{ID: 1, Emotions: []string{"calm"}, Summary: `said "fine", twice`, Timestamp: time.Now()},
	}
	path := filepath.Join(t.TempDir(), "special.csv")
	if err := ToCSV(sessions, path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if records[1][5] != `said "fine", twice` {
		t.Fatalf("summary mangled: %q", records[1][5])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	now := time.Now()
	d := &Data{
		Sessions:  sampleSessions(),
		Tasks:     []store.Task{{ID: 1, Title: "Call mom", Completed: true, CreatedAt: now}},
		Metrics:   []store.DailyMetric{{Date: "2026-10-16", WaterIntake: 5}},
		Pomodoros: []store.PomodoroRecord{{ID: 1, Timestamp: now}, {ID: 2, Timestamp: now}},
	}
	path := filepath.Join(t.TempDir(), "test.json")
	if err := ToJSON(d, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
	if len(result.Sessions) != 2 || result.Sessions[0].Score != "8.5" {
		t.Fatalf("unexpected sessions %+v", result.Sessions)
	}
	if len(result.Tasks) != 1 || !result.Tasks[0].Completed {
		t.Fatalf("unexpected tasks %+v", result.Tasks)
	}
	if len(result.Metrics) != 1 || result.Metrics[0].WaterIntake != 5 {
		t.Fatalf("unexpected metrics %+v", result.Metrics)
	}
	if result.Pomodoros != 2 {
		t.Fatalf("pomodoros = %d, want 2", result.Pomodoros)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be indented")
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(&Data{}, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)
	if result.Sessions != nil || result.Tasks != nil || result.Pomodoros != 0 {
		t.Fatalf("expected empty export, got %+v", result)
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(&Data{}, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Collect / Write
// ============================================================

func TestCollectFromStore(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	now := time.Now()
	s.CreateTask("Stretch")
	s.AddMoodSession([]string{"calm"}, "", now.Add(-time.Hour))
	s.AddMoodSession([]string{"happy"}, "", now)
	s.UpsertDailyMetric(store.DateKey(now), 3)
	s.RecordPomodoro(now.AddDate(0, -2, 0))

	d, err := Collect(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Tasks) != 1 || len(d.Metrics) != 1 || len(d.Pomodoros) != 1 {
		t.Fatalf("unexpected data %+v", d)
	}
	if len(d.Sessions) != 2 || d.Sessions[0].Emotions[0] != "happy" {
		t.Fatalf("sessions should be newest first: %+v", d.Sessions)
	}

	for _, f := range []Format{FormatCSV, FormatJSON} {
		path := filepath.Join(t.TempDir(), "out."+f.String())
		if err := Write(d, f, path); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Fatalf("%s export missing or empty", f)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Fatalf("ParseFormat(json) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestDefaultPath(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.Local)
	got := DefaultPath(FormatCSV, now)
	if filepath.Base(got) != "matcha-export-2026-10-16.csv" {
		t.Fatalf("DefaultPath = %s", got)
	}
}
