package tui

import (
	"fmt"
	"strings"
	"time"

	xansi "github.com/charmbracelet/x/ansi"

	"github.com/wonderbeed/StarTracker/internal/countdown"
	"github.com/wonderbeed/StarTracker/internal/model"
)

// Column widths for the account table. Name and memo share whatever width is
// left after the fixed columns.
const (
	colKeyW       = 5
	colBonusW     = 17
	colRemainingW = 16
)

// renderAccountTable projects the accounts into table lines. It is a pure
// function of its arguments: same accounts, cursor, "now" and width always
// produce identical output, and it never mutates accs. Urgency is recomputed
// on every call, never cached on the record.
func renderAccountTable(accs []model.Account, cursor int, now time.Time, width int) string {
	if width < 30 {
		width = 30
	}
	flexW := width - colKeyW - colBonusW - colRemainingW - 4
	nameW := flexW * 2 / 3
	memoW := flexW - nameW

	var b strings.Builder
	header := fmt.Sprintf("%s %s %s %s %s",
		pad("KEY", colKeyW),
		pad("NAME", nameW),
		pad("BONUS TIME", colBonusW),
		pad("REMAINING", colRemainingW),
		pad("MEMO", memoW),
	)
	b.WriteString(styleMuted().Render(header))
	b.WriteString("\n")

	if len(accs) == 0 {
		b.WriteString(styleMuted().Render("no accounts yet — press a to add one"))
		return b.String()
	}

	for i, a := range accs {
		status, _ := countdown.ForBonusTime(a.BonusTime, now)
		remaining := styleUrgency(status.Urgency).Render(pad(status.Text, colRemainingW))

		line := fmt.Sprintf("%s %s %s %s %s",
			pad(fmt.Sprintf("%d", a.Key), colKeyW),
			pad(a.Name, nameW),
			pad(a.DisplayBonusTime(), colBonusW),
			remaining,
			pad(a.Memo, memoW),
		)
		if i == cursor {
			// Selection highlight replaces urgency styling; the styled cell
			// would fight the row background.
			plain := fmt.Sprintf("%s %s %s %s %s",
				pad(fmt.Sprintf("%d", a.Key), colKeyW),
				pad(a.Name, nameW),
				pad(a.DisplayBonusTime(), colBonusW),
				pad(status.Text, colRemainingW),
				pad(a.Memo, memoW),
			)
			line = styleSelectedRow().Render(plain)
		}
		b.WriteString(line)
		if i < len(accs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// pad truncates or right-pads s to exactly w display cells.
func pad(s string, w int) string {
	if w <= 0 {
		return ""
	}
	sw := xansi.StringWidth(s)
	if sw > w {
		return xansi.Cut(s, 0, w)
	}
	return s + strings.Repeat(" ", w-sw)
}
