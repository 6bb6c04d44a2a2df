// Package form implements the account form as a pure state machine, so the
// add/edit/rekey rules are testable without any UI attached.
package form

import (
	"errors"
	"strconv"
	"strings"

	"github.com/wonderbeed/StarTracker/internal/cache"
	"github.com/wonderbeed/StarTracker/internal/model"
	"github.com/wonderbeed/StarTracker/internal/store"
)

var (
	ErrInvalidKey  = errors.New("key must be a number")
	ErrMissingName = errors.New("account name is required")
)

// Mode discriminates Add from Edit. EditKey is meaningful only when Editing;
// it remembers which record the form was opened from, which may differ from
// the key the user submits (a rekey).
type Mode struct {
	Editing bool
	EditKey int
}

func AddMode() Mode { return Mode{} }

func EditModeFor(key int) Mode { return Mode{Editing: true, EditKey: key} }

// Fields are the raw form inputs, untrimmed and unparsed.
type Fields struct {
	Key       string
	Name      string
	BonusTime string
	Memo      string
	Notes     string
}

// FieldsFor populates the form from an existing record (openEdit). The bonus
// time is truncated back to the canonical input form.
func FieldsFor(a model.Account) Fields {
	bonus := a.BonusTime
	if t, ok := model.ParseBonusTime(bonus); ok {
		bonus = model.FormatBonusTime(t)
	}
	return Fields{
		Key:       strconv.Itoa(a.Key),
		Name:      a.Name,
		BonusTime: bonus,
		Memo:      a.Memo,
		Notes:     a.Notes,
	}
}

// Validate parses and trims the fields into the would-be account.
func Validate(f Fields) (model.Account, error) {
	key, err := strconv.Atoi(strings.TrimSpace(f.Key))
	if err != nil {
		return model.Account{}, ErrInvalidKey
	}
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return model.Account{}, ErrMissingName
	}
	return model.Account{
		Key:       key,
		Name:      name,
		BonusTime: strings.TrimSpace(f.BonusTime),
		Memo:      strings.TrimSpace(f.Memo),
		Notes:     strings.TrimSpace(f.Notes),
	}, nil
}

type Action int

const (
	ActionInsert Action = iota
	ActionReplace
)

// Submission tells the host which store call to dispatch. The host applies
// the cache update only after the backend confirms.
type Submission struct {
	Action  Action
	OldKey  int // ActionReplace only
	Account model.Account
}

// Submit validates the fields and applies the duplicate-key rules against
// the cache before any backend call:
//   - Add: the key must not exist at all.
//   - Edit: a changed key must not be owned by any other record.
func Submit(mode Mode, f Fields, c *cache.Cache) (Submission, error) {
	acc, err := Validate(f)
	if err != nil {
		return Submission{}, err
	}

	if mode.Editing {
		if acc.Key != mode.EditKey && c.Has(acc.Key) {
			return Submission{}, store.DuplicateKeyError{Key: acc.Key}
		}
		return Submission{Action: ActionReplace, OldKey: mode.EditKey, Account: acc}, nil
	}

	if c.Has(acc.Key) {
		return Submission{}, store.DuplicateKeyError{Key: acc.Key}
	}
	return Submission{Action: ActionInsert, Account: acc}, nil
}
