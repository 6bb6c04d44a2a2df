package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/wonderbeed/StarTracker/internal/model"
)

func TestOpenPostgres_MissingURL(t *testing.T) {
	_, err := Open(Config{Backend: BackendPostgres})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("open without url: err = %v, want ErrStoreUnavailable", err)
	}
}

func TestPostgresStore_PerUserRequiresIdentity(t *testing.T) {
	ctx := context.Background()
	// sql.Open does not dial, and the identity gate trips before any query,
	// so no live database is needed here.
	db, err := sql.Open("postgres", "postgres://localhost/unused?sslmode=disable")
	if err != nil {
		t.Fatalf("open handle: %v", err)
	}
	defer db.Close()
	s := &postgresStore{db: db, perUser: true}

	if _, err := s.ListAll(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("list: err = %v, want ErrNotAuthenticated", err)
	}
	if err := s.Insert(ctx, model.Account{Key: 1, Name: "Main"}); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("insert: err = %v, want ErrNotAuthenticated", err)
	}
	if err := s.Replace(ctx, 1, model.Account{Key: 2, Name: "Main"}); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("replace: err = %v, want ErrNotAuthenticated", err)
	}
	if err := s.Remove(ctx, 1); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("remove: err = %v, want ErrNotAuthenticated", err)
	}
}
