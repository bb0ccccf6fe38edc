// Package analytics derives the summary view (mood trend, hydration, journal
// streak and weekly activity) from a snapshot of the store.
package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/matcha/internal/mood"
	"github.com/sadopc/matcha/internal/store"
)

const (
	HydrationGoal = 8
	PomodoroGoal  = 20
	TaskGoal      = 15

	RecentLimit = 5

	week  = 7 * 24 * time.Hour
	month = 30 * 24 * time.Hour
)

// Snapshot is the store content an analytics pass reads.
type Snapshot struct {
	Sessions  []store.MoodSession // newest first
	Today     *store.DailyMetric  // nil when nothing logged today
	Pomodoros []store.PomodoroRecord
	Tasks     []store.Task
}

// Load reads a consistent snapshot inside one transaction.
func Load(s *store.Store, now time.Time) (Snapshot, error) {
	var snap Snapshot
	err := s.InTx(func(tx *store.Store) error {
		var err error
		if snap.Sessions, err = tx.ListMoodSessions(store.SessionFilter{}); err != nil {
			return err
		}
		if snap.Today, err = tx.GetDailyMetric(store.DateKey(now)); err != nil {
			return err
		}
		if snap.Pomodoros, err = tx.ListPomodoros(now.Add(-week)); err != nil {
			return err
		}
		snap.Tasks, err = tx.ListTasks()
		return err
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("load analytics snapshot: %w", err)
	}
	return snap, nil
}

type Summary struct {
	Mood      MoodLevels
	Hydration Hydration
	Streak    Streak
	Weekly    WeeklyStats
	Tasks     TaskProgress
}

type MoodLevels struct {
	Current      string // "%.1f", "0.0" when no sessions exist
	WeekAverage  string
	MonthAverage string
	Recent       []RecentMood
}

type RecentMood struct {
	Label    string // "Today", "Yesterday", "3 days ago", "Jan 2"
	Score    float64
	Emotions []string
	At       time.Time
}

type Hydration struct {
	Today int
	Goal  int
}

func (h Hydration) Percent() int { return percent(h.Today, h.Goal) }

type Streak struct {
	Current int
	Best    int
}

type WeeklyStats struct {
	Entries        int
	Words          int
	MostActive     string // Morning, Afternoon, Evening or N/A
	Pomodoros      int
	TasksCompleted int // all time
}

func (w WeeklyStats) PomodoroPercent() int { return percent(w.Pomodoros, PomodoroGoal) }
func (w WeeklyStats) TaskPercent() int     { return percent(w.TasksCompleted, TaskGoal) }

type TaskProgress struct {
	Total     int
	Completed int
}

func (p TaskProgress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Completed * 100 / p.Total
}

// Compute derives the summary from snap as of now. Day boundaries are taken in
// now's location.
func Compute(snap Snapshot, now time.Time) Summary {
	return Summary{
		Mood:      moodLevels(snap.Sessions, now),
		Hydration: hydration(snap.Today),
		Streak:    streak(snap.Sessions, now),
		Weekly:    weeklyStats(snap, now),
		Tasks:     taskProgress(snap.Tasks),
	}
}

func moodLevels(sessions []store.MoodSession, now time.Time) MoodLevels {
	ml := MoodLevels{Current: "0.0"}
	if len(sessions) > 0 {
		ml.Current = formatScore(mood.Score(sessions[0].Emotions))
	}
	ml.WeekAverage = average(sessions, now.Add(-week))
	ml.MonthAverage = average(sessions, now.Add(-month))

	for i, s := range sessions {
		if i == RecentLimit {
			break
		}
		ml.Recent = append(ml.Recent, RecentMood{
			Label:    RelativeDay(s.Timestamp, now),
			Score:    mood.Score(s.Emotions),
			Emotions: s.Emotions,
			At:       s.Timestamp,
		})
	}
	return ml
}

func average(sessions []store.MoodSession, since time.Time) string {
	var total float64
	var n int
	for _, s := range sessions {
		if s.Timestamp.Before(since) {
			continue
		}
		total += mood.Score(s.Emotions)
		n++
	}
	if n == 0 {
		return "0.0"
	}
	return formatScore(total / float64(n))
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// RelativeDay labels t relative to now by local calendar day.
func RelativeDay(t, now time.Time) string {
	days := daysBetween(t, now)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	}
	return t.In(now.Location()).Format("Jan 2")
}

// daysBetween counts calendar days from t to now in now's location.
func daysBetween(t, now time.Time) int {
	return dayNumber(now, now.Location()) - dayNumber(t, now.Location())
}

func dayNumber(t time.Time, loc *time.Location) int {
	y, m, d := t.In(loc).Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func hydration(today *store.DailyMetric) Hydration {
	h := Hydration{Goal: HydrationGoal}
	if today != nil {
		h.Today = today.WaterIntake
	}
	return h
}

func streak(sessions []store.MoodSession, now time.Time) Streak {
	loc := now.Location()
	days := make(map[int]bool)
	for _, s := range sessions {
		days[dayNumber(s.Timestamp, loc)] = true
	}

	var st Streak
	day := dayNumber(now, loc)
	if !days[day] {
		day--
	}
	for days[day] {
		st.Current++
		day--
	}

	ordered := make([]int, 0, len(days))
	for d := range days {
		ordered = append(ordered, d)
	}
	sort.Ints(ordered)
	run := 0
	for i, d := range ordered {
		if i > 0 && d == ordered[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > st.Best {
			st.Best = run
		}
	}
	return st
}

// Bucket returns the time-of-day bucket of t's local hour.
func Bucket(t time.Time, loc *time.Location) string {
	h := t.In(loc).Hour()
	switch {
	case h >= 5 && h < 12:
		return "Morning"
	case h >= 12 && h < 17:
		return "Afternoon"
	}
	return "Evening"
}

func weeklyStats(snap Snapshot, now time.Time) WeeklyStats {
	since := now.Add(-week)
	ws := WeeklyStats{MostActive: "N/A"}

	counts := make(map[string]int)
	var order []string
	for _, s := range snap.Sessions {
		if s.Timestamp.Before(since) {
			continue
		}
		ws.Entries++
		ws.Words += len(strings.Fields(s.Summary))

		b := Bucket(s.Timestamp, now.Location())
		if counts[b] == 0 {
			order = append(order, b)
		}
		counts[b]++
	}
	best := 0
	for _, b := range order {
		if counts[b] > best {
			best = counts[b]
			ws.MostActive = b
		}
	}

	for _, p := range snap.Pomodoros {
		if !p.Timestamp.Before(since) {
			ws.Pomodoros++
		}
	}
	for _, t := range snap.Tasks {
		if t.Completed {
			ws.TasksCompleted++
		}
	}
	return ws
}

func taskProgress(tasks []store.Task) TaskProgress {
	var p TaskProgress
	p.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			p.Completed++
		}
	}
	return p
}

func percent(n, goal int) int {
	if goal <= 0 || n <= 0 {
		return 0
	}
	if n >= goal {
		return 100
	}
	return n * 100 / goal
}
