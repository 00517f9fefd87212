package analyzer

import (
	"math"

	"github.com/2beens/gymlog/internal/gymlog/sessions"
)

const (
	DefaultSets   = 3
	DefaultReps   = 5
	WeightStep    = 2.5
	WeightSpread  = 50.0
	DefaultPanels = 1
	MinPanels     = 1
)

type IntInput struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

type WeightInput struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

// NewWeightInput centers the weight input on the latest known weight,
// keeping the lower bound at one step at least.
func NewWeightInput(latest float64) WeightInput {
	return WeightInput{
		Min:     math.Max(WeightStep, latest-WeightSpread),
		Max:     latest + WeightSpread,
		Step:    WeightStep,
		Default: latest,
	}
}

type FormSettings struct {
	User    string                   `json:"user"`
	Catalog []sessions.ExerciseGroup `json:"catalog"`
	Panels  IntInput                 `json:"panels"`
	Sets    IntInput                 `json:"sets"`
	Reps    IntInput                 `json:"reps"`
	Weights map[string]WeightInput   `json:"weights"`
}

// NewFormSettings builds the session form for user, with weight defaults taken
// from the user's history in rows.
func NewFormSettings(user string, catalog sessions.Catalog, rows []LogRow) FormSettings {
	weights := make(map[string]WeightInput, catalog.Size())
	for _, exercise := range catalog.Exercises() {
		weights[exercise] = NewWeightInput(LatestWeightIn(rows, user, exercise))
	}

	return FormSettings{
		User:    user,
		Catalog: catalog.Groups(),
		Panels: IntInput{
			Min:     MinPanels,
			Max:     max(MinPanels, catalog.Size()),
			Default: DefaultPanels,
		},
		Sets: IntInput{
			Min:     sessions.MinSets,
			Max:     sessions.MaxSets,
			Default: DefaultSets,
		},
		Reps: IntInput{
			Min:     sessions.MinReps,
			Max:     sessions.MaxReps,
			Default: DefaultReps,
		},
		Weights: weights,
	}
}
