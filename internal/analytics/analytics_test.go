package analytics

import (
	"testing"
	"time"

	"github.com/sadopc/matcha/internal/store"
)

var now = time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)

func session(at time.Time, summary string, emotions ...string) store.MoodSession {
	return store.MoodSession{Emotions: emotions, Summary: summary, Timestamp: at}
}

func daysAgo(n int) time.Time {
	return now.AddDate(0, 0, -n)
}

// ============================================================
// Empty input
// ============================================================

func TestComputeEmpty(t *testing.T) {
	sum := Compute(Snapshot{}, now)

	if sum.Mood.Current != "0.0" || sum.Mood.WeekAverage != "0.0" || sum.Mood.MonthAverage != "0.0" {
		t.Fatalf("expected 0.0 defaults, got %+v", sum.Mood)
	}
	if len(sum.Mood.Recent) != 0 {
		t.Fatal("expected no recent moods")
	}
	if sum.Hydration.Today != 0 || sum.Hydration.Goal != 8 {
		t.Fatalf("unexpected hydration %+v", sum.Hydration)
	}
	if sum.Streak.Current != 0 || sum.Streak.Best != 0 {
		t.Fatalf("unexpected streak %+v", sum.Streak)
	}
	if sum.Weekly.MostActive != "N/A" || sum.Weekly.Entries != 0 || sum.Weekly.Words != 0 {
		t.Fatalf("unexpected weekly stats %+v", sum.Weekly)
	}
	if sum.Tasks.Percent() != 0 {
		t.Fatal("empty task progress should be 0%")
	}
}

// ============================================================
// Mood trend
// ============================================================

func TestMoodLevels(t *testing.T) {
	snap := Snapshot{Sessions: []store.MoodSession{
		session(now.Add(-time.Hour), "", "happy", "tired"), // 7
		session(daysAgo(3), "", "sad"),                     // 3
		session(daysAgo(10), "", "calm"),                   // 7
		session(daysAgo(40), "", "angry"),                  // outside month
	}}
	ml := Compute(snap, now).Mood

	if ml.Current != "7.0" {
		t.Fatalf("current = %s, want 7.0", ml.Current)
	}
	if ml.WeekAverage != "5.0" {
		t.Fatalf("week average = %s, want 5.0", ml.WeekAverage)
	}
	if ml.MonthAverage != "5.7" {
		t.Fatalf("month average = %s, want 5.7", ml.MonthAverage)
	}
	if len(ml.Recent) != 4 {
		t.Fatalf("expected 4 recent moods, got %d", len(ml.Recent))
	}
}

func TestRecentMoodsCappedAtFive(t *testing.T) {
	var sessions []store.MoodSession
	for i := 0; i < 8; i++ {
		sessions = append(sessions, session(now.Add(-time.Duration(i)*time.Hour), "", "calm"))
	}
	ml := Compute(Snapshot{Sessions: sessions}, now).Mood
	if len(ml.Recent) != RecentLimit {
		t.Fatalf("expected %d recent moods, got %d", RecentLimit, len(ml.Recent))
	}
}

func TestWeekWindowIsRolling(t *testing.T) {
	// Exactly seven days ago is inside the window, a second earlier is not.
	snap := Snapshot{Sessions: []store.MoodSession{
		session(now.Add(-week), "", "happy"),
		session(now.Add(-week-time.Second), "", "angry"),
	}}
	ml := Compute(snap, now).Mood
	if ml.WeekAverage != "10.0" {
		t.Fatalf("week average = %s, want 10.0", ml.WeekAverage)
	}
}

func TestRelativeDay(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{now, "Today"},
		{time.Date(2026, 10, 16, 0, 1, 0, 0, time.UTC), "Today"},
		{time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC), "Yesterday"},
		{daysAgo(2), "2 days ago"},
		{daysAgo(6), "6 days ago"},
		{daysAgo(7), "Oct 9"},
		{time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC), "Jan 2"},
		{now.Add(time.Hour), "Today"},
	}
	for _, tt := range tests {
		if got := RelativeDay(tt.at, now); got != tt.want {
			t.Errorf("RelativeDay(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestRelativeDayUsesLocalMidnight(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	localNow := time.Date(2026, 10, 16, 1, 0, 0, 0, loc)
	// 23:00 the previous local evening is only two hours earlier.
	prev := localNow.Add(-2 * time.Hour)
	if got := RelativeDay(prev, localNow); got != "Yesterday" {
		t.Fatalf("got %q, want Yesterday", got)
	}
}

// ============================================================
// Hydration
// ============================================================

func TestHydration(t *testing.T) {
	snap := Snapshot{Today: &store.DailyMetric{Date: "2026-10-16", WaterIntake: 4}}
	h := Compute(snap, now).Hydration
	if h.Today != 4 || h.Goal != 8 {
		t.Fatalf("unexpected hydration %+v", h)
	}
	if h.Percent() != 50 {
		t.Fatalf("percent = %d, want 50", h.Percent())
	}
	over := Hydration{Today: 12, Goal: 8}
	if over.Percent() != 100 {
		t.Fatalf("percent should cap at 100, got %d", over.Percent())
	}
}

// ============================================================
// Streak
// ============================================================

func TestStreak(t *testing.T) {
	tests := []struct {
		name    string
		days    []int
		current int
		best    int
	}{
		{"today and two before", []int{0, 1, 2}, 3, 3},
		{"starts yesterday", []int{1, 2}, 2, 2},
		{"gap before yesterday", []int{2, 3}, 0, 2},
		{"gap breaks chain", []int{0, 1, 3, 4, 5, 6}, 2, 4},
		{"several per day", []int{0, 0, 0, 1}, 2, 2},
		{"only old", []int{20}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sessions []store.MoodSession
			for _, d := range tt.days {
				sessions = append(sessions, session(daysAgo(d), "", "calm"))
			}
			st := Compute(Snapshot{Sessions: sessions}, now).Streak
			if st.Current != tt.current {
				t.Errorf("current = %d, want %d", st.Current, tt.current)
			}
			if st.Best != tt.best {
				t.Errorf("best = %d, want %d", st.Best, tt.best)
			}
		})
	}
}

// ============================================================
// Weekly stats
// ============================================================

func TestWeeklyStats(t *testing.T) {
	snap := Snapshot{
		Sessions: []store.MoodSession{
			session(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC), "a short   day", "calm"),
			session(time.Date(2026, 10, 15, 13, 0, 0, 0, time.UTC), "", "calm"),
			session(time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC), "two words", "calm"),
			session(daysAgo(9), "ignored words here", "calm"),
		},
		Pomodoros: []store.PomodoroRecord{
			{Timestamp: now.Add(-time.Hour)},
			{Timestamp: daysAgo(6)},
			{Timestamp: daysAgo(8)},
		},
		Tasks: []store.Task{
			{Completed: true}, {Completed: true}, {Completed: false},
		},
	}
	ws := Compute(snap, now).Weekly

	if ws.Entries != 3 {
		t.Fatalf("entries = %d, want 3", ws.Entries)
	}
	if ws.Words != 5 {
		t.Fatalf("words = %d, want 5", ws.Words)
	}
	if ws.MostActive != "Morning" {
		t.Fatalf("most active = %s, want Morning", ws.MostActive)
	}
	if ws.Pomodoros != 2 {
		t.Fatalf("pomodoros = %d, want 2", ws.Pomodoros)
	}
	if ws.TasksCompleted != 2 {
		t.Fatalf("tasks completed = %d, want 2", ws.TasksCompleted)
	}
	if ws.PomodoroPercent() != 10 {
		t.Fatalf("pomodoro percent = %d, want 10", ws.PomodoroPercent())
	}
}

func TestMostActiveTieGoesToFirstSeen(t *testing.T) {
	snap := Snapshot{Sessions: []store.MoodSession{
		session(time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC), "", "calm"), // Evening
		session(time.Date(2026, 10, 16, 6, 0, 0, 0, time.UTC), "", "calm"),  // Morning
	}}
	if got := Compute(snap, now).Weekly.MostActive; got != "Evening" {
		t.Fatalf("most active = %s, want Evening", got)
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{4, "Evening"}, {5, "Morning"}, {11, "Morning"},
		{12, "Afternoon"}, {16, "Afternoon"}, {17, "Evening"}, {23, "Evening"},
	}
	for _, tt := range tests {
		at := time.Date(2026, 10, 16, tt.hour, 30, 0, 0, time.UTC)
		if got := Bucket(at, time.UTC); got != tt.want {
			t.Errorf("Bucket(%02d:30) = %s, want %s", tt.hour, got, tt.want)
		}
	}
}

// ============================================================
// Load
// ============================================================

func TestLoadFromStore(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	at := time.Now()
	s.AddMoodSession([]string{"happy", "tired"}, "felt okay", at)
	s.UpsertDailyMetric(store.DateKey(at), 5)
	s.UpsertDailyMetric(store.DateKey(at), 8)
	s.RecordPomodoro(at)
	task, _ := s.CreateTask("x")
	s.SetTaskCompleted(task.ID, true)

	snap, err := Load(s, at)
	if err != nil {
		t.Fatal(err)
	}
	sum := Compute(snap, at)
	if sum.Mood.Current != "7.0" {
		t.Fatalf("current = %s, want 7.0", sum.Mood.Current)
	}
	if sum.Hydration.Today != 8 {
		t.Fatalf("hydration = %d, want 8", sum.Hydration.Today)
	}
	if sum.Streak.Current != 1 {
		t.Fatalf("streak = %d, want 1", sum.Streak.Current)
	}
	if sum.Weekly.Pomodoros != 1 || sum.Weekly.TasksCompleted != 1 {
		t.Fatalf("unexpected weekly stats %+v", sum.Weekly)
	}
	if sum.Tasks.Total != 1 || sum.Tasks.Percent() != 100 {
		t.Fatalf("unexpected task progress %+v", sum.Tasks)
	}
}
