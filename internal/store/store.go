// Package store persists account records behind one contract with four
// interchangeable backends: an embedded SQLite db (default), an embedded
// document store, a shared or per-user Postgres collection, and a single
// JSON-array file.
package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/wonderbeed/StarTracker/internal/model"
)

// Backend selects which persistence backend Open wires up.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendDoc      Backend = "doc"
	BackendPostgres Backend = "postgres"
	BackendFile     Backend = "file"
)

type Config struct {
	Backend Backend

	// Dir holds the data files for the local backends.
	Dir string

	// Postgres connection string (DATABASE_URL form).
	DatabaseURL string

	// PerUser partitions Postgres rows by the logged-in user. Without an
	// active identity every operation fails ErrNotAuthenticated.
	PerUser bool

	// Owner is the active identity token ("" = none). Ignored unless PerUser.
	Owner string
}

// Store is the persistence contract shared by all backends.
//
// Mutations are confirmed on return: callers must not update their in-memory
// mirror until the call comes back nil. Insert fails DuplicateKeyError when
// the key is taken; Replace with a changed key deletes the old record and
// inserts the new one as a single logical unit; Remove fails ErrNotFound
// when the key is absent.
type Store interface {
	ListAll(ctx context.Context) ([]model.Account, error)
	Insert(ctx context.Context, a model.Account) error
	Replace(ctx context.Context, oldKey int, a model.Account) error
	Remove(ctx context.Context, key int) error
	Close() error
}

func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendSQLite:
		return openSQLite(cfg.Dir)
	case BackendDoc:
		return openDoc(cfg.Dir)
	case BackendPostgres:
		return openPostgres(cfg)
	case BackendFile:
		return openFile(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown backend %q (want sqlite, doc, postgres or file)", cfg.Backend)
	}
}

// keyString is the document-store form of an account key.
func keyString(key int) string { return strconv.Itoa(key) }

func sortAccounts(accs []model.Account) {
	sort.Slice(accs, func(i, j int) bool { return accs[i].Key < accs[j].Key })
}
