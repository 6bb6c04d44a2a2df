package store

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable means the backend handle never became usable.
	// Callers degrade to an empty collection with a visible notice.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotAuthenticated is returned by per-user backends when no identity
	// is active. Like ErrStoreUnavailable, list callers treat it as empty.
	ErrNotAuthenticated = errors.New("not logged in")

	ErrNotFound = errors.New("account not found")
)

// DuplicateKeyError rejects an insert (or rekey) whose key is already taken.
type DuplicateKeyError struct {
	Key int
}

func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("account key %d already exists", e.Key)
}

type RekeyPhase string

const (
	RekeyDelete RekeyPhase = "delete"
	RekeyInsert RekeyPhase = "insert"
)

// RekeyError reports which half of a key-changing replace failed. Every
// shipped backend rolls the whole replace back, so the record is still
// present under its old key; the phase exists so callers can tell a
// vanished-original apart from a key collision, and so a backend without
// native multi-operation atomicity has a contract to report into.
type RekeyError struct {
	Phase  RekeyPhase
	OldKey int
	NewKey int
	Err    error
}

func (e *RekeyError) Error() string {
	return fmt.Sprintf("rekey %d -> %d: %s failed: %v", e.OldKey, e.NewKey, e.Phase, e.Err)
}

func (e *RekeyError) Unwrap() error { return e.Err }

// BackendError carries a backend failure with the backend's own message text,
// for verbatim inline display.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
