package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/denismitr/lemon"

	"github.com/wonderbeed/StarTracker/internal/model"
)

const docFileName = "accounts.ldb"

// docStore keeps accounts in an embedded LemonDB document database, one
// document per account keyed by the decimal string form of the account key.
// This is the closest analog of the key-addressed object store the original
// browser frontend used.
type docStore struct {
	db     *lemon.DB
	closer lemon.Closer
}

func openDoc(dir string) (*docStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &BackendError{Op: "open document store", Err: err}
	}
	db, closer, err := lemon.Open(filepath.Join(dir, docFileName))
	if err != nil {
		return nil, &BackendError{Op: "open document store", Err: err}
	}
	return &docStore{db: db, closer: closer}, nil
}

func (s *docStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func (s *docStore) ListAll(ctx context.Context) ([]model.Account, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	var docs []*lemon.Document
	err := s.db.View(ctx, func(tx *lemon.Tx) error {
		found, err := tx.Find(lemon.Q().KeyOrder(lemon.AscOrder))
		if err != nil {
			return err
		}
		docs = found
		return nil
	})
	if err != nil {
		return nil, &BackendError{Op: "list accounts", Err: err}
	}

	out := make([]model.Account, 0, len(docs))
	for i := range docs {
		var a model.Account
		if err := docs[i].JSON().Unmarshal(&a); err != nil {
			return nil, &BackendError{Op: "decode account", Err: err}
		}
		out = append(out, a)
	}
	// Document keys order lexicographically ("10" < "2"); re-sort numerically.
	sortAccounts(out)
	return out, nil
}

func (s *docStore) Insert(ctx context.Context, a model.Account) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	err := s.db.Update(ctx, func(tx *lemon.Tx) error {
		return tx.Insert(keyString(a.Key), a)
	})
	if err != nil {
		if errors.Is(err, lemon.ErrKeyAlreadyExists) {
			return DuplicateKeyError{Key: a.Key}
		}
		return &BackendError{Op: "insert account", Err: err}
	}
	return nil
}

func (s *docStore) Replace(ctx context.Context, oldKey int, a model.Account) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	if a.Key == oldKey {
		err := s.db.Update(ctx, func(tx *lemon.Tx) error {
			if _, err := tx.Get(keyString(oldKey)); err != nil {
				return err
			}
			return tx.InsertOrReplace(keyString(oldKey), a)
		})
		if err != nil {
			if errors.Is(err, lemon.ErrKeyDoesNotExist) {
				return ErrNotFound
			}
			return &BackendError{Op: "update account", Err: err}
		}
		return nil
	}

	// Rekey: remove the old document and insert the new one inside a single
	// Update callback, which rolls back as a unit. The phase on the error
	// still tells the caller which half went wrong.
	err := s.db.Update(ctx, func(tx *lemon.Tx) error {
		if _, err := tx.Get(keyString(a.Key)); err == nil {
			return DuplicateKeyError{Key: a.Key}
		}
		if _, err := tx.Get(keyString(oldKey)); err != nil {
			return &RekeyError{Phase: RekeyDelete, OldKey: oldKey, NewKey: a.Key, Err: ErrNotFound}
		}
		if err := tx.Remove(keyString(oldKey)); err != nil {
			return &RekeyError{Phase: RekeyDelete, OldKey: oldKey, NewKey: a.Key, Err: err}
		}
		if err := tx.Insert(keyString(a.Key), a); err != nil {
			return &RekeyError{Phase: RekeyInsert, OldKey: oldKey, NewKey: a.Key, Err: err}
		}
		return nil
	})
	if err != nil {
		var dup DuplicateKeyError
		var rekey *RekeyError
		if errors.As(err, &dup) || errors.As(err, &rekey) {
			return err
		}
		return &BackendError{Op: "rekey account", Err: err}
	}
	return nil
}

func (s *docStore) Remove(ctx context.Context, key int) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	err := s.db.Update(ctx, func(tx *lemon.Tx) error {
		if _, err := tx.Get(keyString(key)); err != nil {
			return err
		}
		return tx.Remove(keyString(key))
	})
	if err != nil {
		if errors.Is(err, lemon.ErrKeyDoesNotExist) {
			return ErrNotFound
		}
		return &BackendError{Op: "delete account", Err: err}
	}
	return nil
}
