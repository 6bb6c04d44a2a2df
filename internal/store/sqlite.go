package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/wonderbeed/StarTracker/internal/model"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "startracker.sqlite"

type sqliteStore struct {
	db *sql.DB
}

func openSQLite(dir string) (*sqliteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &BackendError{Op: "open sqlite", Err: err}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", filepath.Join(dir, sqliteFileName))
	if err != nil {
		return nil, &BackendError{Op: "open sqlite", Err: err}
	}
	// Single connection: the driver serializes writers anyway, and one
	// conn avoids SQLITE_BUSY on concurrent statements.
	db.SetMaxOpenConns(1)

	if err := migrateSQLite(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, &BackendError{Op: "migrate sqlite", Err: err}
	}
	return &sqliteStore{db: db}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			key INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			bonus_time TEXT NOT NULL DEFAULT '',
			memo TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT ''
		);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) ListAll(ctx context.Context) ([]model.Account, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.db.QueryContext(ctx, `SELECT key, name, bonus_time, memo, notes FROM accounts ORDER BY key ASC`)
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

func (s *sqliteStore) Insert(ctx context.Context, a model.Account) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return &BackendError{Op: "insert account", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	taken, err := sqliteKeyExists(ctx, tx, a.Key)
	if err != nil {
		return &BackendError{Op: "insert account", Err: err}
	}
	if taken {
		return DuplicateKeyError{Key: a.Key}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO accounts(key, name, bonus_time, memo, notes) VALUES(?, ?, ?, ?, ?)`,
		a.Key, a.Name, a.BonusTime, a.Memo, a.Notes); err != nil {
		return &BackendError{Op: "insert account", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &BackendError{Op: "insert account", Err: err}
	}
	return nil
}

func (s *sqliteStore) Replace(ctx context.Context, oldKey int, a model.Account) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	if a.Key == oldKey {
		res, err := s.db.ExecContext(ctx,
			`UPDATE accounts SET name = ?, bonus_time = ?, memo = ?, notes = ? WHERE key = ?`,
			a.Name, a.BonusTime, a.Memo, a.Notes, oldKey)
		if err != nil {
			return &BackendError{Op: "update account", Err: err}
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	}

	// Rekey: delete-then-insert inside one transaction, so a failed half
	// never leaves the backend without the record.
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return &BackendError{Op: "rekey account", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	taken, err := sqliteKeyExists(ctx, tx, a.Key)
	if err != nil {
		return &BackendError{Op: "rekey account", Err: err}
	}
	if taken {
		return DuplicateKeyError{Key: a.Key}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE key = ?`, oldKey)
	if err != nil {
		return &RekeyError{Phase: RekeyDelete, OldKey: oldKey, NewKey: a.Key, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &RekeyError{Phase: RekeyDelete, OldKey: oldKey, NewKey: a.Key, Err: ErrNotFound}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO accounts(key, name, bonus_time, memo, notes) VALUES(?, ?, ?, ?, ?)`,
		a.Key, a.Name, a.BonusTime, a.Memo, a.Notes); err != nil {
		return &RekeyError{Phase: RekeyInsert, OldKey: oldKey, NewKey: a.Key, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &BackendError{Op: "rekey account", Err: err}
	}
	return nil
}

func (s *sqliteStore) Remove(ctx context.Context, key int) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE key = ?`, key)
	if err != nil {
		return &BackendError{Op: "delete account", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func sqliteKeyExists(ctx context.Context, tx *sql.Tx, key int) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts WHERE key = ?`, key).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
