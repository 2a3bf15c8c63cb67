package keystore

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresStore keeps shared keys in the shared_keys table, one row
// per namespace.
type PostgresStore struct {
	// DB is the database handle for executing queries.
	DB        *sql.DB
	namespace string
}

// NewPostgresStore creates a PostgresStore bound to namespace.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresStore(db *sql.DB, namespace string) *PostgresStore {
	return &PostgresStore{DB: db, namespace: namespace}
}

func (s *PostgresStore) Get(ctx context.Context) (string, bool, error) {
	var key string
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT key FROM shared_keys WHERE namespace = $1`,
		s.namespace,
	).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if !present(key) {
		return "", false, nil
	}
	return key, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO shared_keys (namespace, key) VALUES ($1, $2)
		 ON CONFLICT (namespace) DO UPDATE SET key = EXCLUDED.key`,
		s.namespace, key,
	)
	return err
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.DB.ExecContext(
		ctx,
		`DELETE FROM shared_keys WHERE namespace = $1`,
		s.namespace,
	)
	return err
}
