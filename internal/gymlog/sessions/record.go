package sessions

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// CreatedLayout is fixed width, so lexicographic and chronological order agree.
	CreatedLayout = "2006-01-02 15:04:05.000000"
	DateLayout    = "2006-01-02"

	// SentinelID is the placeholder document some stores keep in an otherwise empty collection.
	SentinelID = "example"

	MinSets = 1
	MaxSets = 5
	MinReps = 1
	MaxReps = 15
)

// SessionRecord is one submitted exercise session.
// ID holds the store-assigned creation identifier (the "created" column).
type SessionRecord struct {
	ID         string    `json:"created,omitempty"`
	User       string    `json:"user"`
	Exercise   string    `json:"exercise"`
	Date       string    `json:"date"`
	SetReps    []int     `json:"set_reps"`
	SetWeights []float64 `json:"set_weights"`
	Comment    string    `json:"comment,omitempty"`
}

func NewID(now time.Time) string {
	return now.UTC().Format(CreatedLayout)
}

// ParseCreated parses a creation identifier. Both the fixed width form and the
// variable width fraction form are accepted, as is RFC 3339.
func ParseCreated(id string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04:05.999999999", id); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, id)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created [%s]: %w", id, err)
	}
	return t.UTC(), nil
}

func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	return d, nil
}

func IsSentinel(id string) bool {
	return strings.EqualFold(id, SentinelID)
}

// ValidateSets checks the set shape: 1 to 5 sets, equal lengths,
// reps within [1,15] and positive finite weights.
func ValidateSets(reps []int, weights []float64) error {
	if len(reps) < MinSets || len(reps) > MaxSets {
		return fmt.Errorf("%w: got %d sets, allowed %d-%d", ErrInvalidSets, len(reps), MinSets, MaxSets)
	}
	if len(reps) != len(weights) {
		return fmt.Errorf("%w: %d reps vs %d weights", ErrInvalidSets, len(reps), len(weights))
	}
	for i, r := range reps {
		if r < MinReps || r > MaxReps {
			return fmt.Errorf("%w: set %d has %d reps", ErrInvalidSets, i+1, r)
		}
	}
	for i, w := range weights {
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: set %d has weight %v", ErrInvalidSets, i+1, w)
		}
	}
	return nil
}
