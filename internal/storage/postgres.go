// Package storage implements the persistence contract on Postgres. All
// SQL lives here; the rest of the service speaks through internal.IStore.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/plateful/plateful/internal"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DB is the slice of pgx used by the store. *pgxpool.Pool, pgx.Tx and the
// pgxmock connection all satisfy it, which is what lets WithinTx reuse
// every query over a transaction and the tests run without a server.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Store struct {
	db     DB
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

var _ internal.IStore = (*Store)(nil)

// NewStore wraps an existing connection. Production code goes through
// Connect; tests hand in a mock.
func NewStore(db DB, logger *zap.SugaredLogger) *Store {
	return &Store{db: db, logger: logger}
}

// Connect opens the pool and brings the schema up to date.
func Connect(ctx context.Context, uri string, logger *zap.SugaredLogger) (*Store, error) {
	pool, err := pgxpool.Connect(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err = migrate(uri); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("connected to postgres, schema up to date")
	return &Store{db: pool, pool: pool, logger: logger}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// migrate runs goose over the embedded migration files. goose wants a
// database/sql handle, so it gets its own short-lived one.
func migrate(uri string) error {
	db, err := sql.Open("pgx", uri)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err = goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

// WithinTx runs fn against a store bound to a single transaction. fn
// returning an error rolls everything back.
func (s *Store) WithinTx(ctx context.Context, fn func(internal.IStore) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return wrapErr(err)
	}
	defer tx.Rollback(ctx)

	if err = fn(&Store{db: tx, logger: s.logger}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return wrapErr(err)
	}
	return nil
}

// wrapErr folds driver errors into the service's error kinds so callers
// can errors.Is them without knowing about pgx.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return internal.ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return fmt.Errorf("%w: %s", internal.ErrConflict, pgErr.ConstraintName)
		case pgErr.Code == "40001" || pgErr.Code == "40P01":
			return fmt.Errorf("%w: %s", internal.ErrConflict, pgErr.Code)
		case strings.HasPrefix(pgErr.Code, "08"):
			return fmt.Errorf("%w: %s", internal.ErrStoreUnavailable, pgErr.Message)
		case strings.HasPrefix(pgErr.Code, "57"):
			return fmt.Errorf("%w: %s", internal.ErrStoreUnavailable, pgErr.Message)
		}
		return err
	}

	return fmt.Errorf("%w: %s", internal.ErrStoreUnavailable, err)
}
