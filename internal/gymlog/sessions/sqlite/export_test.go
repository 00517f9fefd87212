package sqlite

import "context"

// InsertRaw stores a raw session document as is, skipping validation.
func (s *Store) InsertRaw(ctx context.Context, id, rawDoc string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO gym_session (id, document) VALUES (?, ?);`,
		id, rawDoc,
	)
	return err
}
