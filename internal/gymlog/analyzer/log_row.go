package analyzer

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/2beens/gymlog/internal/gymlog/sessions"
)

// LogRow is a session record enriched with its best and worst set and the total
// weight lifted. Field order is the column order of every rendering of the log.
type LogRow struct {
	User              string    `json:"user" yaml:"user"`
	Date              time.Time `json:"date" yaml:"date"`
	Exercise          string    `json:"exercise" yaml:"exercise"`
	SetWeights        []float64 `json:"set_weights" yaml:"set_weights,flow"`
	SetReps           []int     `json:"set_reps" yaml:"set_reps,flow"`
	BestSetWeight     float64   `json:"best_set_weight" yaml:"best_set_weight"`
	BestSetReps       int       `json:"best_set_reps" yaml:"best_set_reps"`
	WorstSetWeight    float64   `json:"worst_set_weight" yaml:"worst_set_weight"`
	WorstSetReps      int       `json:"worst_set_reps" yaml:"worst_set_reps"`
	TotalWeightLifted float64   `json:"total_weight_lifted" yaml:"total_weight_lifted"`
	Comment           string    `json:"comment" yaml:"comment"`
	Created           time.Time `json:"created" yaml:"created"`
}

var Columns = []string{
	"user",
	"date",
	"exercise",
	"set_weights",
	"set_reps",
	"best_set_weight",
	"best_set_reps",
	"worst_set_weight",
	"worst_set_reps",
	"total_weight_lifted",
	"comment",
	"created",
}

var ErrNoSets = errors.New("no sets")

type SetPair struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// SummarizeSets orders the (weight, reps) pairs descending, weight first and reps
// breaking ties. The first pair is the best set, the last one the worst.
// The total is the sum of weight*reps over all sets.
func SummarizeSets(weights []float64, reps []int) (best, worst SetPair, total float64, err error) {
	if len(weights) == 0 {
		return SetPair{}, SetPair{}, 0, ErrNoSets
	}
	if len(weights) != len(reps) {
		return SetPair{}, SetPair{}, 0, fmt.Errorf("%d weights vs %d reps: %w", len(weights), len(reps), sessions.ErrInvalidSets)
	}

	pairs := make([]SetPair, len(weights))
	for i := range weights {
		pairs[i] = SetPair{Weight: weights[i], Reps: reps[i]}
		total += weights[i] * float64(reps[i])
	}

	slices.SortFunc(pairs, func(a, b SetPair) int {
		if a.Weight != b.Weight {
			if a.Weight > b.Weight {
				return -1
			}
			return 1
		}
		return b.Reps - a.Reps
	})

	return pairs[0], pairs[len(pairs)-1], total, nil
}

func BuildRow(record sessions.SessionRecord) (LogRow, error) {
	date, err := sessions.ParseDate(record.Date)
	if err != nil {
		return LogRow{}, fmt.Errorf("session [%s]: %w", record.ID, err)
	}
	created, err := sessions.ParseCreated(record.ID)
	if err != nil {
		return LogRow{}, err
	}

	best, worst, total, err := SummarizeSets(record.SetWeights, record.SetReps)
	if err != nil {
		return LogRow{}, fmt.Errorf("session [%s]: %w", record.ID, err)
	}

	return LogRow{
		User:              record.User,
		Date:              date,
		Exercise:          record.Exercise,
		SetWeights:        slices.Clone(record.SetWeights),
		SetReps:           slices.Clone(record.SetReps),
		BestSetWeight:     best.Weight,
		BestSetReps:       best.Reps,
		WorstSetWeight:    worst.Weight,
		WorstSetReps:      worst.Reps,
		TotalWeightLifted: total,
		Comment:           record.Comment,
		Created:           created,
	}, nil
}

// BuildLog turns raw session records into log rows, newest first.
func BuildLog(records []sessions.SessionRecord) ([]LogRow, error) {
	rows := make([]LogRow, 0, len(records))
	for _, record := range records {
		if sessions.IsSentinel(record.ID) {
			continue
		}
		row, err := BuildRow(record)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	SortNewestFirst(rows)

	return rows, nil
}

func SortNewestFirst(rows []LogRow) {
	slices.SortFunc(rows, func(a, b LogRow) int {
		return b.Created.Compare(a.Created)
	})
}
