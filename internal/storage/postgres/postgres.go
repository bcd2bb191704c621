// Package postgres is implementation of storage interface.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/barterup/barterupd/internal/storage"
)

type pg struct {
	db *sqlx.DB
}

type entryDTO struct {
	Scope string          `db:"scope"`
	Key   string          `db:"key"`
	Value json.RawMessage `db:"value"`
}

// New creates new instance of pg.
func New(db *sql.DB) storage.Storage {
	return pg{
		db: sqlx.NewDb(db, "postgres"),
	}
}

func (s pg) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping: %w", err)
	}

	return nil
}

func (s pg) Get(ctx context.Context, scope storage.Scope, key string) (json.RawMessage, error) {
	var v json.RawMessage

	if err := sqlx.GetContext(ctx, s.db, &v, `
			SELECT value FROM mirror WHERE scope = $1 AND key = $2
		`,
		string(scope), key,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return v, nil
}

func (s pg) Set(ctx context.Context, scope storage.Scope, key string, value json.RawMessage) error {
	e := entryDTO{
		Scope: string(scope),
		Key:   key,
		Value: value,
	}

	if _, err := sqlx.NamedExecContext(ctx, s.db,
		`
			INSERT INTO mirror(scope, key, value)
			VALUES(:scope, :key, :value)
			ON CONFLICT(scope, key) DO UPDATE SET
			value=excluded.value, updated_at=now()
		`, e,
	); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) Delete(ctx context.Context, scope storage.Scope, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`
			DELETE FROM mirror WHERE scope=$1 AND key=$2
		`, string(scope), key,
	); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) ClearScope(ctx context.Context, scope storage.Scope) error {
	if _, err := s.db.ExecContext(ctx,
		`
			DELETE FROM mirror WHERE scope=$1
		`, string(scope),
	); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}
