package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/gymlog/internal/gymlog/sessions"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Store keeps session and user documents as JSONB, keyed by their identifiers.
type Store struct {
	db *pgxpool.Pool
}

var _ sessions.DocumentStore = (*Store)(nil)

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) CreateSession(ctx context.Context, id string, doc sessions.Document) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.postgres.createsession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	docJson, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal session document: %w", err)
	}

	if _, err := s.db.Exec(
		ctx,
		`INSERT INTO gym_session (id, document) VALUES ($1, $2);`,
		id, docJson,
	); err != nil {
		if IsUniqueViolationError(err) {
			return sessions.ErrSessionExists
		}
		return err
	}

	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (_ sessions.Document, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.postgres.getsession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	var raw []byte
	if err := s.db.QueryRow(
		ctx,
		`SELECT document FROM gym_session WHERE id = $1;`,
		id,
	).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sessions.Document{}, sessions.ErrSessionNotFound
		}
		return sessions.Document{}, err
	}

	return sessions.DecodeDocument(raw)
}

func (s *Store) ListSessions(ctx context.Context) (_ []sessions.StoredDocument, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.postgres.listsessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.Query(ctx, `SELECT id, document FROM gym_session;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []sessions.StoredDocument
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		doc, decodeErr := sessions.DecodeDocument(raw)
		docs = append(docs, sessions.StoredDocument{
			ID:  id,
			Doc: doc,
			Err: decodeErr,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("sessions.count", len(docs)))

	return docs, nil
}

func (s *Store) ListUsers(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.postgres.listusers")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.Query(ctx, `SELECT id, document->>'alias' FROM gym_user;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var (
			id    string
			alias *string
		)
		if err := rows.Scan(&id, &alias); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if alias == nil || *alias == "" {
			log.Warnf("user document [%s] has no alias, skipping", id)
			continue
		}
		users = append(users, *alias)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (s *Store) RegisterUser(ctx context.Context, alias string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.postgres.registeruser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	docJson, err := json.Marshal(map[string]string{"alias": alias})
	if err != nil {
		return fmt.Errorf("marshal user document: %w", err)
	}

	if _, err := s.db.Exec(
		ctx,
		`INSERT INTO gym_user (id, document) VALUES ($1, $2);`,
		alias, docJson,
	); err != nil {
		if IsUniqueViolationError(err) {
			return sessions.ErrUserExists
		}
		return err
	}

	return nil
}

// https://www.postgresql.org/docs/current/errcodes-appendix.html

// IsUniqueViolationError checks if the error is a unique violation error
func IsUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
