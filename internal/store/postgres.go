package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/wonderbeed/StarTracker/internal/model"

	_ "github.com/lib/pq"
)

// postgresStore keeps all users' accounts in one remote table. In shared mode
// every row lives under the empty owner; in per-user mode rows are
// partitioned by the logged-in user's token and no identity means no
// partition is visible.
type postgresStore struct {
	db      *sql.DB
	perUser bool
	owner   string
}

func openPostgres(cfg Config) (*postgresStore, error) {
	url := strings.TrimSpace(cfg.DatabaseURL)
	if url == "" {
		return nil, fmt.Errorf("postgres backend: %w (set DATABASE_URL)", ErrStoreUnavailable)
	}
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, &BackendError{Op: "open postgres", Err: err}
	}
	if err := migratePostgres(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, &BackendError{Op: "migrate postgres", Err: err}
	}
	s := &postgresStore{db: db, perUser: cfg.PerUser}
	if cfg.PerUser {
		s.owner = strings.TrimSpace(cfg.Owner)
	}
	return s, nil
}

func migratePostgres(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS accounts (
		owner TEXT NOT NULL DEFAULT '',
		key INTEGER NOT NULL,
		name TEXT NOT NULL,
		bonus_time TEXT NOT NULL DEFAULT '',
		memo TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (owner, key)
	)`)
	return err
}

func (s *postgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// partition returns the owner value scoping every query, or
// ErrNotAuthenticated in per-user mode with nobody logged in.
func (s *postgresStore) partition() (string, error) {
	if s.perUser && s.owner == "" {
		return "", ErrNotAuthenticated
	}
	return s.owner, nil
}

func (s *postgresStore) ListAll(ctx context.Context) ([]model.Account, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	owner, err := s.partition()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, name, bonus_time, memo, notes FROM accounts WHERE owner = $1 ORDER BY key ASC`, owner)
	if err != nil {
		return nil, &BackendError{Op: "list accounts", Err: err}
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.Key, &a.Name, &a.BonusTime, &a.Memo, &a.Notes); err != nil {
			return nil, &BackendError{Op: "scan account", Err: err}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &BackendError{Op: "list accounts", Err: err}
	}
	return out, nil
}

func (s *postgresStore) Insert(ctx context.Context, a model.Account) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	owner, err := s.partition()
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return &BackendError{Op: "insert account", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	taken, err := postgresKeyExists(ctx, tx, owner, a.Key)
	if err != nil {
		return &BackendError{Op: "insert account", Err: err}
	}
	if taken {
		return DuplicateKeyError{Key: a.Key}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO accounts(owner, key, name, bonus_time, memo, notes) VALUES($1, $2, $3, $4, $5, $6)`,
		owner, a.Key, a.Name, a.BonusTime, a.Memo, a.Notes); err != nil {
		return &BackendError{Op: "insert account", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &BackendError{Op: "insert account", Err: err}
	}
	return nil
}

func (s *postgresStore) Replace(ctx context.Context, oldKey int, a model.Account) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	owner, err := s.partition()
	if err != nil {
		return err
	}
	if a.Key == oldKey {
		res, err := s.db.ExecContext(ctx,
			`UPDATE accounts SET name = $1, bonus_time = $2, memo = $3, notes = $4 WHERE owner = $5 AND key = $6`,
			a.Name, a.BonusTime, a.Memo, a.Notes, owner, oldKey)
		if err != nil {
			return &BackendError{Op: "update account", Err: err}
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return &BackendError{Op: "rekey account", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	taken, err := postgresKeyExists(ctx, tx, owner, a.Key)
	if err != nil {
		return &BackendError{Op: "rekey account", Err: err}
	}
	if taken {
		return DuplicateKeyError{Key: a.Key}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE owner = $1 AND key = $2`, owner, oldKey)
	if err != nil {
		return &RekeyError{Phase: RekeyDelete, OldKey: oldKey, NewKey: a.Key, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &RekeyError{Phase: RekeyDelete, OldKey: oldKey, NewKey: a.Key, Err: ErrNotFound}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO accounts(owner, key, name, bonus_time, memo, notes) VALUES($1, $2, $3, $4, $5, $6)`,
		owner, a.Key, a.Name, a.BonusTime, a.Memo, a.Notes); err != nil {
		return &RekeyError{Phase: RekeyInsert, OldKey: oldKey, NewKey: a.Key, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &BackendError{Op: "rekey account", Err: err}
	}
	return nil
}

func (s *postgresStore) Remove(ctx context.Context, key int) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	owner, err := s.partition()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE owner = $1 AND key = $2`, owner, key)
	if err != nil {
		return &BackendError{Op: "delete account", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func postgresKeyExists(ctx context.Context, tx *sql.Tx, owner string, key int) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts WHERE owner = $1 AND key = $2`, owner, key).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
