package countdown

import (
	"fmt"
	"testing"
	"time"

	"github.com/wonderbeed/StarTracker/internal/model"
)

func TestRemaining_PastOrNowIsAvailable(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	for _, target := range []time.Time{
		now,
		now.Add(-time.Second),
		now.Add(-48 * time.Hour),
	} {
		got := Remaining(target, now)
		if got.Text != "Bonus available" {
			t.Fatalf("target %v: text = %q, want %q", target, got.Text, "Bonus available")
		}
		if got.Urgency != Urgent {
			t.Fatalf("target %v: urgency = %v, want Urgent", target, got.Urgency)
		}
	}
}

func TestRemaining_Decomposition(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	// Each component must stay within its modulus bound and the components
	// must add back up to the original second count.
	for _, secs := range []int64{1, 59, 60, 61, 3599, 3600, 3661, 86399, 86400, 90061, 1000000} {
		target := now.Add(time.Duration(secs) * time.Second)
		diff := target.Sub(now)
		d := int64(diff/time.Second) / 86400
		h := int64(diff/time.Second) / 3600 % 24
		m := int64(diff/time.Second) / 60 % 60
		s := int64(diff/time.Second) % 60
		if h >= 24 || m >= 60 || s >= 60 {
			t.Fatalf("secs %d: component out of bounds: %dd %dh %dm %ds", secs, d, h, m, s)
		}
		if d*86400+h*3600+m*60+s != secs {
			t.Fatalf("secs %d: decomposition does not sum back: %dd %dh %dm %ds", secs, d, h, m, s)
		}
	}
}

func TestRemaining_Labels(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	cases := []struct {
		secs int64
		want string
	}{
		{59, "59s"},
		{60, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{86400, "1d 0h 0m"},
		{90060, "1d 1h 1m"},
		{2*86400 + 30*60, "2d 0h 30m"},
	}
	for _, tc := range cases {
		got := Remaining(now.Add(time.Duration(tc.secs)*time.Second), now)
		if got.Text != tc.want {
			t.Fatalf("secs %d: text = %q, want %q", tc.secs, got.Text, tc.want)
		}
	}
}

func TestRemaining_UrgencyBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	cases := []struct {
		diff time.Duration
		want Urgency
	}{
		{time.Hour - time.Second, Urgent},
		{time.Hour, Soon},
		{time.Hour + time.Second, Soon},
		{6*time.Hour - time.Second, Soon},
		{6 * time.Hour, Normal},
		{6*time.Hour + time.Second, Normal},
		{2 * time.Hour, Soon},
		{48 * time.Hour, Normal},
	}
	for _, tc := range cases {
		got := Remaining(now.Add(tc.diff), now)
		if got.Urgency != tc.want {
			t.Fatalf("diff %v: urgency = %v, want %v", tc.diff, got.Urgency, tc.want)
		}
	}
}

func TestForBonusTime(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	status, ok := ForBonusTime("", now)
	if ok || status.Text != "n/a" || status.Urgency != Normal {
		t.Fatalf("empty bonus time: got %+v ok=%v", status, ok)
	}
	status, ok = ForBonusTime("not a time", now)
	if ok || status.Text != "n/a" {
		t.Fatalf("garbage bonus time: got %+v ok=%v", status, ok)
	}

	target := now.Add(2 * time.Hour)
	status, ok = ForBonusTime(model.FormatBonusTime(target), now)
	if !ok {
		t.Fatalf("valid bonus time not recognized")
	}
	if status.Urgency != Soon {
		t.Fatalf("now+2h: urgency = %v, want Soon", status.Urgency)
	}

	// The same record recomputes to Urgent once the clock advances far
	// enough; nothing is cached between calls.
	later := target.Add(-30 * time.Minute)
	status, _ = ForBonusTime(model.FormatBonusTime(target), later)
	if status.Urgency != Urgent {
		t.Fatalf("30m before bonus: urgency = %v, want Urgent", status.Urgency)
	}
}

func TestParseOffset(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"  ", 0},
		{"abc", 0},
		{"3", 3},
		{" 12 ", 12},
		{"-2", -2},
	}
	for _, tc := range cases {
		if got := ParseOffset(tc.in); got != tc.want {
			t.Fatalf("ParseOffset(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestAddOffsets(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	// Offsets apply to the existing bonus time when set.
	got := AddOffsets("2026-01-30T10:00", now, 1, 2, 30)
	if got != "2026-01-31T12:30" {
		t.Fatalf("AddOffsets = %q, want %q", got, "2026-01-31T12:30")
	}

	// Day arithmetic rolls over month boundaries calendar-aware.
	got = AddOffsets("2026-01-31T10:00", now, 1, 0, 0)
	if got != "2026-02-01T10:00" {
		t.Fatalf("month rollover: got %q, want %q", got, "2026-02-01T10:00")
	}

	// Empty (or unparseable) base falls back to now.
	got = AddOffsets("", now, 0, 1, 0)
	if got != "2026-03-14T13:00" {
		t.Fatalf("empty base: got %q, want %q", got, "2026-03-14T13:00")
	}
}

func TestUrgencyString(t *testing.T) {
	for u, want := range map[Urgency]string{Normal: "normal", Soon: "soon", Urgent: "urgent"} {
		if got := u.String(); got != want {
			t.Fatalf("Urgency(%d).String() = %q, want %q", u, got, want)
		}
	}
}

func ExampleRemaining() {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	fmt.Println(Remaining(now.Add(26*time.Hour+30*time.Minute), now).Text)
	// Output: 1d 2h 30m
}
