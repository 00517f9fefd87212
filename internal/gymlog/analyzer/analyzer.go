package analyzer

import (
	"context"
	"fmt"

	"github.com/2beens/gymlog/internal/gymlog/sessions"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultWeight seeds the weight input when a user has no history for an exercise.
const DefaultWeight = 40.0

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=analyzer_test

type sessionsLister interface {
	ListAll(ctx context.Context) ([]sessions.SessionRecord, error)
}

type Analyzer struct {
	sessions sessionsLister
}

func NewAnalyzer(sessions sessionsLister) *Analyzer {
	return &Analyzer{
		sessions: sessions,
	}
}

// ExerciseLog returns the full exercise log, newest first.
func (a *Analyzer) ExerciseLog(ctx context.Context) (_ []LogRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.gymlog.exerciselog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	records, err := a.sessions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	rows, err := BuildLog(records)
	if err != nil {
		return nil, fmt.Errorf("build log: %w", err)
	}

	span.SetAttributes(attribute.Int("rows.count", len(rows)))

	return rows, nil
}

func (a *Analyzer) Query(ctx context.Context, filter LogFilter) ([]LogRow, error) {
	rows, err := a.ExerciseLog(ctx)
	if err != nil {
		return nil, err
	}
	if filter.IsEmpty() {
		return rows, nil
	}
	return filter.Apply(rows), nil
}

func (a *Analyzer) LatestWeight(ctx context.Context, user, exercise string) (float64, error) {
	rows, err := a.ExerciseLog(ctx)
	if err != nil {
		return 0, err
	}
	return LatestWeightIn(rows, user, exercise), nil
}

// LatestWeightIn returns the worst set weight of the most recent session of user
// for exercise, or DefaultWeight when there is none.
func LatestWeightIn(rows []LogRow, user, exercise string) float64 {
	var (
		latest LogRow
		found  bool
	)
	for _, row := range rows {
		if row.User != user || row.Exercise != exercise {
			continue
		}
		if !found || row.Created.After(latest.Created) {
			latest = row
			found = true
		}
	}
	if !found {
		return DefaultWeight
	}
	return latest.WorstSetWeight
}
