package backend

import (
	"context"
	"fmt"

	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/db"
	"github.com/2beens/gymlog/internal/gymlog/sessions"
	"github.com/2beens/gymlog/internal/gymlog/sessions/firestore"
	"github.com/2beens/gymlog/internal/gymlog/sessions/postgres"
	"github.com/2beens/gymlog/internal/gymlog/sessions/sqlite"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Backend is the document store selected by config, along with whatever
// connection it holds open.
type Backend struct {
	Store sessions.DocumentStore
	// DBPool is set for the postgres backend only.
	DBPool *pgxpool.Pool

	closers []func() error
}

type OpenParams struct {
	Config         *config.Config
	Secrets        *config.Secrets
	TracingEnabled bool
}

func Open(ctx context.Context, params OpenParams) (*Backend, error) {
	cfg := params.Config
	secrets := params.Secrets
	if secrets == nil {
		secrets = &config.Secrets{}
	}

	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     secrets.PostgresPassword,
			TracingEnabled: params.TracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		return &Backend{
			Store:  postgres.NewStore(dbPool),
			DBPool: dbPool,
			closers: []func() error{
				func() error {
					dbPool.Close() // blocking
					return nil
				},
			},
		}, nil

	case config.StoreBackendFirestore:
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID, secrets.FirestoreCredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("new firestore client: %w", err)
		}
		return &Backend{
			Store:   firestore.NewStore(client, cfg.SessionsCollection, cfg.UsersCollection),
			closers: []func() error{client.Close},
		}, nil

	case config.StoreBackendSqlite:
		store, err := sqlite.Open(ctx, cfg.SqlitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return &Backend{
			Store:   store,
			closers: []func() error{store.Close},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}

func (b *Backend) Close() error {
	var err error
	for _, closeFn := range b.closers {
		err = multierr.Append(err, closeFn())
	}
	b.closers = nil
	return err
}
