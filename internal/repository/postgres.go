// Package repository implements the service stores: Postgres for production
// and an in-memory store for tests and local runs. Both satisfy
// tenant.Store, notes.Store, users.Store and subscription.Store.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notekit/internal/notes"
	"github.com/dmitrymomot/notekit/internal/subscription"
	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/internal/users"
	"github.com/dmitrymomot/notekit/pkg/pg"
)

// ErrStore wraps unexpected persistence failures.
var ErrStore = errors.New("repository: store failure")

var (
	_ tenant.Store       = (*Postgres)(nil)
	_ notes.Store        = (*Postgres)(nil)
	_ users.Store        = (*Postgres)(nil)
	_ subscription.Store = (*Postgres)(nil)
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is the PostgreSQL store.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a store on pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Ping checks connectivity.
func (s *Postgres) Ping(ctx context.Context) error {
	return pg.Healthcheck(s.pool)(ctx)
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrStore, err)
}
