package mood

import (
	"math"
	"testing"
)

// ============================================================
// Score
// ============================================================

func TestScoreEmpty(t *testing.T) {
	if got := Score(nil); got != 6.0 {
		t.Fatalf("Score(nil) = %v, want 6.0", got)
	}
	if got := Score([]string{}); got != 6.0 {
		t.Fatalf("Score([]) = %v, want 6.0", got)
	}
}

func TestScoreUnknownLabel(t *testing.T) {
	if got := Score([]string{"flibbertigibbet"}); got != 5.0 {
		t.Fatalf("unknown label scored %v, want 5.0", got)
	}
}

func TestScoreMean(t *testing.T) {
	tests := []struct {
		name     string
		emotions []string
		want     float64
	}{
		{"single", []string{"happy"}, 10},
		{"happy and tired", []string{"happy", "tired"}, 7},
		{"case insensitive", []string{"HAPPY", "Tired"}, 7},
		{"trimmed", []string{"  calm "}, 7},
		{"with unknown", []string{"angry", "mystery"}, 3},
		{"three labels", []string{"sad", "calm", "proud"}, 20.0 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.emotions)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Score(%v) = %v, want %v", tt.emotions, got, tt.want)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	labels := []string{"", "x"}
	for l := range scores {
		labels = append(labels, l)
	}
	for _, a := range labels {
		for _, b := range labels {
			s := Score([]string{a, b})
			if s < MinScore || s > MaxScore {
				t.Fatalf("Score(%q,%q) = %v out of range", a, b, s)
			}
		}
	}
}

func TestKnown(t *testing.T) {
	if !Known("Grateful") {
		t.Fatal("grateful should be known")
	}
	if Known("bored") {
		t.Fatal("bored should not be known")
	}
}

// ============================================================
// Bands
// ============================================================

func TestBandOf(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{10, BandExcellent},
		{9, BandExcellent},
		{8.5, BandGreat},
		{7, BandGood},
		{6, BandMixed},
		{5, BandMixed},
		{4.9, BandLow},
		{3, BandLow},
		{2.9, BandDistress},
		{1, BandDistress},
	}
	for _, tt := range tests {
		if got := BandOf(tt.score); got != tt.want {
			t.Errorf("BandOf(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
