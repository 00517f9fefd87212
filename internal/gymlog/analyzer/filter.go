package analyzer

import (
	"slices"
	"sort"
	"time"
)

// LogFilter narrows the log down. Empty members do not constrain,
// the set members are combined with AND. From and To are inclusive dates.
type LogFilter struct {
	Users     []string   `json:"users,omitempty"`
	Exercises []string   `json:"exercises,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
}

func (f LogFilter) IsEmpty() bool {
	return len(f.Users) == 0 && len(f.Exercises) == 0 && f.From == nil && f.To == nil
}

func (f LogFilter) Matches(row LogRow) bool {
	if len(f.Users) > 0 && !slices.Contains(f.Users, row.User) {
		return false
	}
	if len(f.Exercises) > 0 && !slices.Contains(f.Exercises, row.Exercise) {
		return false
	}
	if f.From != nil && row.Date.Before(truncateToDay(*f.From)) {
		return false
	}
	if f.To != nil && row.Date.After(truncateToDay(*f.To)) {
		return false
	}
	return true
}

// Apply keeps the order of rows.
func (f LogFilter) Apply(rows []LogRow) []LogRow {
	filtered := make([]LogRow, 0, len(rows))
	for _, row := range rows {
		if f.Matches(row) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// Normalized returns a copy with sorted, deduplicated members and day-truncated dates,
// so that equivalent filters compare (and hash) equal.
func (f LogFilter) Normalized() LogFilter {
	n := LogFilter{
		Users:     sortedUnique(f.Users),
		Exercises: sortedUnique(f.Exercises),
	}
	if f.From != nil {
		from := truncateToDay(*f.From)
		n.From = &from
	}
	if f.To != nil {
		to := truncateToDay(*f.To)
		n.To = &to
	}
	return n
}

func sortedUnique(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := slices.Clone(values)
	sort.Strings(out)
	return slices.Compact(out)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateBounds returns the first logged date at midnight and the day after the last one.
// ok is false for an empty log.
func DateBounds(rows []LogRow) (from, to time.Time, ok bool) {
	if len(rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	from, to = rows[0].Date, rows[0].Date
	for _, row := range rows[1:] {
		if row.Date.Before(from) {
			from = row.Date
		}
		if row.Date.After(to) {
			to = row.Date
		}
	}
	return truncateToDay(from), truncateToDay(to).AddDate(0, 0, 1), true
}

// Users returns the distinct users present in the log, sorted.
func Users(rows []LogRow) []string {
	users := make([]string, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.User)
	}
	if len(users) == 0 {
		return []string{}
	}
	return sortedUnique(users)
}

// Exercises returns the distinct exercises present in the log, sorted.
func Exercises(rows []LogRow) []string {
	exercises := make([]string, 0, len(rows))
	for _, row := range rows {
		exercises = append(exercises, row.Exercise)
	}
	if len(exercises) == 0 {
		return []string{}
	}
	return sortedUnique(exercises)
}
