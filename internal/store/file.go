package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/wonderbeed/StarTracker/internal/model"
)

const fileStoreName = "accounts.json"

// fileStore serializes the whole collection as one JSON array and rewrites
// it on every mutation (the local-storage variant of the original). The
// rewrite is a temp-file rename, so a rekey can never half-apply.
type fileStore struct {
	path string
}

func openFile(dir string) (*fileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &BackendError{Op: "open file store", Err: err}
	}
	return &fileStore{path: filepath.Join(dir, fileStoreName)}, nil
}

func (s *fileStore) Close() error { return nil }

func (s *fileStore) load() ([]model.Account, error) {
	if s.path == "" {
		return nil, ErrStoreUnavailable
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &BackendError{Op: "read accounts file", Err: err}
	}
	var accs []model.Account
	if err := json.Unmarshal(b, &accs); err != nil {
		return nil, &BackendError{Op: "decode accounts file", Err: err}
	}
	return accs, nil
}

func (s *fileStore) save(accs []model.Account) error {
	sortAccounts(accs)
	b, err := json.MarshalIndent(accs, "", "  ")
	if err != nil {
		return &BackendError{Op: "encode accounts file", Err: err}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return &BackendError{Op: "write accounts file", Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return &BackendError{Op: "write accounts file", Err: err}
	}
	return nil
}

func (s *fileStore) ListAll(ctx context.Context) ([]model.Account, error) {
	accs, err := s.load()
	if err != nil {
		return nil, err
	}
	sortAccounts(accs)
	return accs, nil
}

func (s *fileStore) Insert(ctx context.Context, a model.Account) error {
	accs, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range accs {
		if existing.Key == a.Key {
			return DuplicateKeyError{Key: a.Key}
		}
	}
	return s.save(append(accs, a))
}

func (s *fileStore) Replace(ctx context.Context, oldKey int, a model.Account) error {
	accs, err := s.load()
	if err != nil {
		return err
	}
	at := -1
	for i, existing := range accs {
		if existing.Key == oldKey {
			at = i
		} else if existing.Key == a.Key {
			return DuplicateKeyError{Key: a.Key}
		}
	}
	if at < 0 {
		if a.Key != oldKey {
			return &RekeyError{Phase: RekeyDelete, OldKey: oldKey, NewKey: a.Key, Err: ErrNotFound}
		}
		return ErrNotFound
	}
	accs[at] = a
	return s.save(accs)
}

func (s *fileStore) Remove(ctx context.Context, key int) error {
	accs, err := s.load()
	if err != nil {
		return err
	}
	kept := accs[:0]
	found := false
	for _, existing := range accs {
		if existing.Key == key {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return ErrNotFound
	}
	return s.save(kept)
}
