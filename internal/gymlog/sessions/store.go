package sessions

import "context"

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=sessions_test

// DocumentStore is implemented by every storage backend (postgres, firestore, sqlite).
type DocumentStore interface {
	// CreateSession writes doc under id, failing with ErrSessionExists if id is taken.
	CreateSession(ctx context.Context, id string, doc Document) error
	GetSession(ctx context.Context, id string) (Document, error)
	ListSessions(ctx context.Context) ([]StoredDocument, error)
	ListUsers(ctx context.Context) ([]string, error)
	RegisterUser(ctx context.Context, alias string) error
}
