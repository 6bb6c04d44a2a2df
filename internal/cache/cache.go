// Package cache holds the in-memory mirror of the active partition.
//
// The cache is mutated only after the backend confirms the matching write,
// so it always reflects committed state. It stays sorted ascending by key.
package cache

import (
	"sort"

	"github.com/wonderbeed/StarTracker/internal/model"
)

type Cache struct {
	accounts []model.Account
}

func New(accs []model.Account) *Cache {
	c := &Cache{accounts: append([]model.Account(nil), accs...)}
	c.sort()
	return c
}

func (c *Cache) sort() {
	sort.Slice(c.accounts, func(i, j int) bool { return c.accounts[i].Key < c.accounts[j].Key })
}

func (c *Cache) Len() int { return len(c.accounts) }

// Snapshot returns a sorted copy for rendering. Mutating the copy does not
// touch the cache.
func (c *Cache) Snapshot() []model.Account {
	return append([]model.Account(nil), c.accounts...)
}

func (c *Cache) Find(key int) (model.Account, bool) {
	for _, a := range c.accounts {
		if a.Key == key {
			return a, true
		}
	}
	return model.Account{}, false
}

func (c *Cache) Has(key int) bool {
	_, ok := c.Find(key)
	return ok
}

// Upsert inserts or replaces the record with a's key, keeping order.
func (c *Cache) Upsert(a model.Account) {
	for i := range c.accounts {
		if c.accounts[i].Key == a.Key {
			c.accounts[i] = a
			return
		}
	}
	c.accounts = append(c.accounts, a)
	c.sort()
}

// Remove drops the record with key; reports whether it was present.
func (c *Cache) Remove(key int) bool {
	for i := range c.accounts {
		if c.accounts[i].Key == key {
			c.accounts = append(c.accounts[:i], c.accounts[i+1:]...)
			return true
		}
	}
	return false
}

// Rekey applies a confirmed key-changing replace: exactly one record for the
// logical entity remains, under the new key.
func (c *Cache) Rekey(oldKey int, a model.Account) {
	c.Remove(oldKey)
	c.Upsert(a)
}
