package model

import (
	"strings"
	"time"
)

// BonusTimeLayout is the canonical wire form for bonus times ("YYYY-MM-DDTHH:MM").
// It matches the datetime-local format the historical frontends stored, so
// existing exports stay readable without migration.
const BonusTimeLayout = "2006-01-02T15:04"

// displayLayout is how stored bonus times render in tables.
const displayLayout = "2006-01-02 15:04"

// Account is one tracked game account. Key is user-assigned and unique within
// the active partition; BonusTime is optional (empty = no bonus scheduled).
type Account struct {
	Key       int    `json:"key"`
	Name      string `json:"name"`
	BonusTime string `json:"bonusTime,omitempty"`
	Memo      string `json:"memo,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// ParseBonusTime parses a bonus-time string in local time. The second return
// is false for empty or unparseable input.
func ParseBonusTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(BonusTimeLayout, s, time.Local); err == nil {
		return t, true
	}
	// Older exports use a space separator and may carry seconds.
	s = strings.Replace(s, " ", "T", 1)
	if len(s) > len(BonusTimeLayout) {
		s = s[:len(BonusTimeLayout)]
	}
	t, err := time.ParseInLocation(BonusTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func FormatBonusTime(t time.Time) string {
	return t.Format(BonusTimeLayout)
}

// DisplayBonusTime renders the stored bonus time for list views, or "n/a"
// when no bonus time is set.
func (a Account) DisplayBonusTime() string {
	t, ok := ParseBonusTime(a.BonusTime)
	if !ok {
		return "n/a"
	}
	return t.Format(displayLayout)
}
