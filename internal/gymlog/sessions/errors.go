package sessions

import "errors"

var (
	ErrUnknownExercise   = errors.New("unknown exercise")
	ErrInvalidSets       = errors.New("invalid sets")
	ErrInvalidDate       = errors.New("invalid date")
	ErrWriteNotConfirmed = errors.New("session write not confirmed")
	ErrSessionExists     = errors.New("session already exists")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidDocument   = errors.New("invalid session document")
	ErrUserExists        = errors.New("user already exists")
	ErrInvalidUser       = errors.New("invalid user alias")
)

// RejectReason maps validation errors to a short metrics label.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownExercise):
		return "unknown_exercise"
	case errors.Is(err, ErrInvalidSets):
		return "invalid_sets"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrSessionExists):
		return "id_collision"
	case errors.Is(err, ErrWriteNotConfirmed):
		return "not_confirmed"
	default:
		return "store_error"
	}
}
