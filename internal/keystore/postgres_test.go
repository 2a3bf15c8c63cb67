package keystore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupPostgresMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	store := NewPostgresStore(db, "shared-key:http://localhost:19455")
	cleanup := func() { db.Close() }
	return store, mock, cleanup
}

func TestPostgresStore_GetFound(t *testing.T) {
	store, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key FROM shared_keys WHERE namespace = $1`)).
		WithArgs(store.namespace).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("secret-1"))

	key, ok, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || key != "secret-1" {
		t.Errorf("Get = (%q, %v); want (%q, true)", key, ok, "secret-1")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStore_GetAbsent(t *testing.T) {
	store, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key FROM shared_keys WHERE namespace = $1`)).
		WithArgs(store.namespace).
		WillReturnRows(sqlmock.NewRows([]string{"key"}))

	_, ok, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected key to be absent")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStore_GetWhitespaceIsAbsent(t *testing.T) {
	store, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key FROM shared_keys WHERE namespace = $1`)).
		WithArgs(store.namespace).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("   "))

	_, ok, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected whitespace-only value to read as absent")
	}
}

func TestPostgresStore_GetError(t *testing.T) {
	store, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key FROM shared_keys WHERE namespace = $1`)).
		WithArgs(store.namespace).
		WillReturnError(errors.New("query failed"))

	if _, _, err := store.Get(context.Background()); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestPostgresStore_Set(t *testing.T) {
	store, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO shared_keys (namespace, key) VALUES ($1, $2)`)).
		WithArgs(store.namespace, "secret-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Set(context.Background(), "secret-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStore_Clear(t *testing.T) {
	store, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM shared_keys WHERE namespace = $1`)).
		WithArgs(store.namespace).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
