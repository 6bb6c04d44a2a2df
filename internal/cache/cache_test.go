package cache

import (
	"testing"

	"github.com/wonderbeed/StarTracker/internal/model"
)

func keys(c *Cache) []int {
	accs := c.Snapshot()
	out := make([]int, len(accs))
	for i, a := range accs {
		out[i] = a.Key
	}
	return out
}

func equalKeys(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew_SortsAscending(t *testing.T) {
	c := New([]model.Account{{Key: 3}, {Key: 1}, {Key: 2}})
	if got := keys(c); !equalKeys(got, []int{1, 2, 3}) {
		t.Fatalf("keys = %v, want [1 2 3]", got)
	}
}

func TestUpsert_KeepsOrder(t *testing.T) {
	c := New(nil)
	c.Upsert(model.Account{Key: 5, Name: "E"})
	c.Upsert(model.Account{Key: 1, Name: "A"})
	c.Upsert(model.Account{Key: 3, Name: "C"})
	if got := keys(c); !equalKeys(got, []int{1, 3, 5}) {
		t.Fatalf("keys = %v, want [1 3 5]", got)
	}

	// Upsert on an existing key replaces in place.
	c.Upsert(model.Account{Key: 3, Name: "C2"})
	if c.Len() != 3 {
		t.Fatalf("len = %d after replacing upsert, want 3", c.Len())
	}
	got, ok := c.Find(3)
	if !ok || got.Name != "C2" {
		t.Fatalf("Find(3) = %+v ok=%v", got, ok)
	}
}

func TestRemove(t *testing.T) {
	c := New([]model.Account{{Key: 1}, {Key: 2}})
	if !c.Remove(1) {
		t.Fatalf("Remove(1) = false, want true")
	}
	if c.Remove(1) {
		t.Fatalf("second Remove(1) = true, want false")
	}
	if got := keys(c); !equalKeys(got, []int{2}) {
		t.Fatalf("keys = %v, want [2]", got)
	}
}

func TestRekey_ExactlyOneRecordSurvives(t *testing.T) {
	c := New([]model.Account{
		{Key: 1, Name: "Main", Memo: "m"},
		{Key: 2, Name: "Alt"},
	})

	c.Rekey(1, model.Account{Key: 5, Name: "Main", Memo: "m"})

	if c.Has(1) {
		t.Fatalf("old key 1 still present after rekey")
	}
	got, ok := c.Find(5)
	if !ok {
		t.Fatalf("new key 5 missing after rekey")
	}
	if got.Name != "Main" || got.Memo != "m" {
		t.Fatalf("rekeyed record lost fields: %+v", got)
	}
	if got := keys(c); !equalKeys(got, []int{2, 5}) {
		t.Fatalf("keys = %v, want [2 5]", got)
	}
}

func TestSnapshot_DoesNotAliasCache(t *testing.T) {
	c := New([]model.Account{{Key: 1, Name: "Main"}})
	snap := c.Snapshot()
	snap[0].Name = "mutated"
	if got, _ := c.Find(1); got.Name != "Main" {
		t.Fatalf("snapshot mutation leaked into cache: %+v", got)
	}
}
