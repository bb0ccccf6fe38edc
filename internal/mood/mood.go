// Package mood scores detected emotion labels on a 1-10 scale.
package mood

import "strings"

const (
	// NoData is the score of a session that carries no labels.
	NoData = 6.0
	// Unknown is the score of a label missing from the table.
	Unknown = 5.0

	MinScore = 1.0
	MaxScore = 10.0
)

var scores = map[string]int{
	"happy":      10,
	"excited":    10,
	"proud":      10,
	"joyful":     10,
	"content":    9,
	"grateful":   9,
	"optimistic": 9,
	"relaxed":    8,
	"motivated":  8,

	"calm":       7,
	"thoughtful": 6,
	"neutral":    6,
	"reflective": 6,

	"anxious":     4,
	"stressed":    4,
	"overwhelmed": 3,
	"worried":     5,
	"nervous":     5,
	"uneasy":      4,

	"sad":          3,
	"angry":        1,
	"frustrated":   2,
	"lonely":       2,
	"guilty":       2,
	"disappointed": 3,
	"insecure":     3,
	"depressed":    2,
	"down":         2,
	"annoyed":      2,
	"miserable":    1,

	"tired":     4,
	"exhausted": 4,
}

// LabelScore returns the table score of a single label, or Unknown.
func LabelScore(label string) float64 {
	if v, ok := scores[strings.ToLower(strings.TrimSpace(label))]; ok {
		return float64(v)
	}
	return Unknown
}

// Score returns the mean label score of emotions, or NoData when empty.
func Score(emotions []string) float64 {
	if len(emotions) == 0 {
		return NoData
	}
	var total float64
	for _, e := range emotions {
		total += LabelScore(e)
	}
	return total / float64(len(emotions))
}

// Known reports whether label appears in the score table.
func Known(label string) bool {
	_, ok := scores[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

// Band classifies a score into one of the display bands used for colouring.
type Band int

const (
	BandDistress Band = iota // < 3
	BandLow                  // 3 - 4.9
	BandMixed                // 5 - 6.9
	BandGood                 // 7 - 7.9
	BandGreat                // 8 - 8.9
	BandExcellent            // >= 9
)

func BandOf(score float64) Band {
	switch {
	case score >= 9:
		return BandExcellent
	case score >= 8:
		return BandGreat
	case score >= 7:
		return BandGood
	case score >= 5:
		return BandMixed
	case score >= 3:
		return BandLow
	default:
		return BandDistress
	}
}

func (b Band) String() string {
	switch b {
	case BandExcellent:
		return "excellent"
	case BandGreat:
		return "great"
	case BandGood:
		return "good"
	case BandMixed:
		return "mixed"
	case BandLow:
		return "low"
	}
	return "distress"
}
