// Package countdown computes "time until bonus" labels and urgency levels.
//
// Everything here is pure: callers pass "now" explicitly so the same inputs
// always produce the same output, and the render loop can recompute every tick.
package countdown

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wonderbeed/StarTracker/internal/model"
)

type Urgency int

const (
	Normal Urgency = iota
	Soon
	Urgent
)

func (u Urgency) String() string {
	switch u {
	case Soon:
		return "soon"
	case Urgent:
		return "urgent"
	default:
		return "normal"
	}
}

// Urgency thresholds. An earlier release classified with 1h/3h
// (critical/warning); the 1h/6h policy below is the canonical one.
const (
	urgentWithin = 1 * time.Hour
	soonWithin   = 6 * time.Hour
)

// Status is the derived countdown state for one account.
type Status struct {
	Text    string
	Urgency Urgency
}

// Remaining computes the countdown label and urgency for a bonus at target.
// A bonus at or before now is available (and urgent).
func Remaining(target, now time.Time) Status {
	diff := target.Sub(now)
	if diff <= 0 {
		return Status{Text: "Bonus available", Urgency: Urgent}
	}

	secs := int64(diff / time.Second)
	days := secs / 86400
	hours := secs / 3600 % 24
	mins := secs / 60 % 60

	var b strings.Builder
	if days > 0 {
		fmt.Fprintf(&b, "%dd ", days)
	}
	if days > 0 || hours > 0 {
		fmt.Fprintf(&b, "%dh ", hours)
	}
	if days > 0 || hours > 0 || mins > 0 {
		fmt.Fprintf(&b, "%dm", mins)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		text = fmt.Sprintf("%ds", secs%60)
	}

	urgency := Normal
	switch {
	case diff < urgentWithin:
		urgency = Urgent
	case diff < soonWithin:
		urgency = Soon
	}
	return Status{Text: text, Urgency: urgency}
}

// ForBonusTime computes the countdown for a stored bonus-time string.
// The second return is false when the string is empty or unparseable, in
// which case the status renders as "n/a" with normal styling.
func ForBonusTime(bonusTime string, now time.Time) (Status, bool) {
	t, ok := model.ParseBonusTime(bonusTime)
	if !ok {
		return Status{Text: "n/a", Urgency: Normal}, false
	}
	return Remaining(t, now), true
}

// ParseOffset parses a day/hour/minute offset input; blank or non-numeric
// fields count as zero.
func ParseOffset(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// AddOffsets returns base + days/hours/minutes in the canonical bonus-time
// form. When base is empty or unparseable the offsets apply to now. Days are
// added calendar-aware (AddDate) so month-length boundaries roll over the way
// wall clocks do.
func AddOffsets(base string, now time.Time, days, hours, minutes int) string {
	t, ok := model.ParseBonusTime(base)
	if !ok {
		t = now
	}
	t = t.AddDate(0, 0, days)
	t = t.Add(time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute)
	return model.FormatBonusTime(t)
}
