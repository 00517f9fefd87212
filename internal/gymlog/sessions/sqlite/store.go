package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/gymlog/internal/gymlog/sessions"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"
)

const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS gym_session (
	id       TEXT PRIMARY KEY,
	document TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS gym_user (
	id       TEXT PRIMARY KEY,
	document TEXT NOT NULL
);`

// Store is the embedded backend used for local development and tests.
// Documents are kept as JSON text, the same layout as the postgres tables.
type Store struct {
	db *sql.DB
}

var _ sessions.DocumentStore = (*Store)(nil)

// Open opens (and creates, if missing) the database file at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != MemoryPath {
		if err := pkg.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite [%s]: %w", path, err)
	}
	// one connection: an in-memory database lives and dies with its connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateSession(ctx context.Context, id string, doc sessions.Document) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.sqlite.createsession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	docJson, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal session document: %w", err)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO gym_session (id, document) VALUES (?, ?) ON CONFLICT (id) DO NOTHING;`,
		id, string(docJson),
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sessions.ErrSessionExists
	}

	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (_ sessions.Document, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.sqlite.getsession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	var raw string
	if err := s.db.QueryRowContext(
		ctx,
		`SELECT document FROM gym_session WHERE id = ?;`,
		id,
	).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sessions.Document{}, sessions.ErrSessionNotFound
		}
		return sessions.Document{}, err
	}

	return sessions.DecodeDocument([]byte(raw))
}

func (s *Store) ListSessions(ctx context.Context) (_ []sessions.StoredDocument, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.sqlite.listsessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.QueryContext(ctx, `SELECT id, document FROM gym_session;`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warnf("close sqlite rows: %s", closeErr)
		}
	}()

	var docs []sessions.StoredDocument
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		doc, decodeErr := sessions.DecodeDocument([]byte(raw))
		docs = append(docs, sessions.StoredDocument{
			ID:  id,
			Doc: doc,
			Err: decodeErr,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

func (s *Store) ListUsers(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.sqlite.listusers")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.QueryContext(ctx, `SELECT id, document FROM gym_user;`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warnf("close sqlite rows: %s", closeErr)
		}
	}()

	var users []string
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		var userDoc struct {
			Alias string `json:"alias"`
		}
		if err := json.Unmarshal([]byte(raw), &userDoc); err != nil || userDoc.Alias == "" {
			log.Warnf("user document [%s] has no alias, skipping", id)
			continue
		}
		users = append(users, userDoc.Alias)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (s *Store) RegisterUser(ctx context.Context, alias string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.sqlite.registeruser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	docJson, err := json.Marshal(map[string]string{"alias": alias})
	if err != nil {
		return fmt.Errorf("marshal user document: %w", err)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO gym_user (id, document) VALUES (?, ?) ON CONFLICT (id) DO NOTHING;`,
		alias, string(docJson),
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sessions.ErrUserExists
	}

	return nil
}
