package firestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymlog/internal/gymlog/sessions"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	fs "cloud.google.com/go/firestore"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewClient connects to the project. With empty credentials the client falls back
// to application default credentials, or to the emulator when FIRESTORE_EMULATOR_HOST is set.
func NewClient(ctx context.Context, projectID, credentialsJSON string) (*fs.Client, error) {
	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := fs.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("new firestore client [%s]: %w", projectID, err)
	}
	return client, nil
}

type Store struct {
	client             *fs.Client
	sessionsCollection string
	usersCollection    string
}

var _ sessions.DocumentStore = (*Store)(nil)

func NewStore(client *fs.Client, sessionsCollection, usersCollection string) *Store {
	return &Store{
		client:             client,
		sessionsCollection: sessionsCollection,
		usersCollection:    usersCollection,
	}
}

func (s *Store) CreateSession(ctx context.Context, id string, doc sessions.Document) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.firestore.createsession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	if _, err := s.client.Collection(s.sessionsCollection).Doc(id).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return sessions.ErrSessionExists
		}
		return err
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (_ sessions.Document, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.firestore.getsession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	snap, err := s.client.Collection(s.sessionsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return sessions.Document{}, sessions.ErrSessionNotFound
		}
		return sessions.Document{}, err
	}

	return decodeSnapshot(snap)
}

func (s *Store) ListSessions(ctx context.Context) (_ []sessions.StoredDocument, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.firestore.listsessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	iter := s.client.Collection(s.sessionsCollection).Documents(ctx)
	defer iter.Stop()

	var docs []sessions.StoredDocument
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate sessions: %w", err)
		}
		doc, decodeErr := decodeSnapshot(snap)
		docs = append(docs, sessions.StoredDocument{
			ID:  snap.Ref.ID,
			Doc: doc,
			Err: decodeErr,
		})
	}

	span.SetAttributes(attribute.Int("sessions.count", len(docs)))

	return docs, nil
}

func (s *Store) ListUsers(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.firestore.listusers")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	iter := s.client.Collection(s.usersCollection).Documents(ctx)
	defer iter.Stop()

	var users []string
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate users: %w", err)
		}

		aliasVal, err := snap.DataAt("alias")
		if err != nil {
			log.Warnf("user document [%s] has no alias, skipping", snap.Ref.ID)
			continue
		}
		alias, ok := aliasVal.(string)
		if !ok || alias == "" {
			log.Warnf("user document [%s] has an invalid alias, skipping", snap.Ref.ID)
			continue
		}
		users = append(users, alias)
	}

	return users, nil
}

func (s *Store) RegisterUser(ctx context.Context, alias string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymlog.firestore.registeruser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := s.client.Collection(s.usersCollection).Doc(alias).Create(ctx, map[string]any{
		"alias": alias,
	}); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return sessions.ErrUserExists
		}
		return err
	}
	return nil
}

func decodeSnapshot(snap *fs.DocumentSnapshot) (sessions.Document, error) {
	var doc sessions.Document
	if err := snap.DataTo(&doc); err != nil {
		return sessions.Document{}, fmt.Errorf("%w: %w", sessions.ErrInvalidDocument, err)
	}
	return doc, nil
}
