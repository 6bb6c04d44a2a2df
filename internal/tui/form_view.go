package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wonderbeed/StarTracker/internal/countdown"
	"github.com/wonderbeed/StarTracker/internal/form"
)

type formField int

const (
	fieldKey formField = iota
	fieldName
	fieldBonus
	fieldMemo
	fieldNotes
	fieldAddDays
	fieldAddHours
	fieldAddMinutes
	fieldCount
)

var errNoOffsets = errors.New("enter a day, hour or minute offset first")

// formInputs bundles the account form widgets. The three offset inputs plus
// the compute action (ctrl+t) implement the duration-add helper.
type formInputs struct {
	key   textinput.Model
	name  textinput.Model
	bonus textinput.Model
	memo  textinput.Model
	notes textarea.Model
	days  textinput.Model
	hours textinput.Model
	mins  textinput.Model

	focus formField
}

func newFormInputs() formInputs {
	mk := func(placeholder string, width int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.Prompt = ""
		ti.Width = width
		return ti
	}

	f := formInputs{
		key:   mk("unique number", 16),
		name:  mk("account name", 32),
		bonus: mk("YYYY-MM-DDTHH:MM", 20),
		memo:  mk("short memo", 32),
		days:  mk("d", 4),
		hours: mk("h", 4),
		mins:  mk("m", 4),
	}
	f.bonus.CharLimit = 16
	f.notes = textarea.New()
	f.notes.Placeholder = "notes (markdown)"
	f.notes.SetHeight(4)
	f.key.Focus()
	return f
}

func (f *formInputs) SetFields(fl form.Fields) {
	f.key.SetValue(fl.Key)
	f.name.SetValue(fl.Name)
	f.bonus.SetValue(fl.BonusTime)
	f.memo.SetValue(fl.Memo)
	f.notes.SetValue(fl.Notes)
	f.days.SetValue("")
	f.hours.SetValue("")
	f.mins.SetValue("")
	f.setFocus(fieldKey)
}

func (f *formInputs) Reset() {
	f.SetFields(form.Fields{})
}

func (f *formInputs) Fields() form.Fields {
	return form.Fields{
		Key:       f.key.Value(),
		Name:      f.name.Value(),
		BonusTime: f.bonus.Value(),
		Memo:      f.memo.Value(),
		Notes:     f.notes.Value(),
	}
}

func (f *formInputs) setFocus(field formField) {
	f.focus = field
	inputs := []*textinput.Model{&f.key, &f.name, &f.bonus, &f.memo, nil, &f.days, &f.hours, &f.mins}
	for i, ti := range inputs {
		if ti == nil {
			continue
		}
		if formField(i) == field {
			ti.Focus()
		} else {
			ti.Blur()
		}
	}
	if field == fieldNotes {
		f.notes.Focus()
	} else {
		f.notes.Blur()
	}
}

func (f *formInputs) Next() { f.setFocus((f.focus + 1) % fieldCount) }

func (f *formInputs) Prev() { f.setFocus((f.focus + fieldCount - 1) % fieldCount) }

// Update routes a message to whichever widget has focus.
func (f *formInputs) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldKey:
		f.key, cmd = f.key.Update(msg)
	case fieldName:
		f.name, cmd = f.name.Update(msg)
	case fieldBonus:
		f.bonus, cmd = f.bonus.Update(msg)
	case fieldMemo:
		f.memo, cmd = f.memo.Update(msg)
	case fieldNotes:
		f.notes, cmd = f.notes.Update(msg)
	case fieldAddDays:
		f.days, cmd = f.days.Update(msg)
	case fieldAddHours:
		f.hours, cmd = f.hours.Update(msg)
	case fieldAddMinutes:
		f.mins, cmd = f.mins.Update(msg)
	}
	return cmd
}

// ApplyOffsets runs the duration-add helper: bonus time (or now when unset)
// plus the entered day/hour/minute offsets, written back in canonical form.
// The offset inputs are cleared afterwards.
func (f *formInputs) ApplyOffsets(now time.Time) error {
	days := countdown.ParseOffset(f.days.Value())
	hours := countdown.ParseOffset(f.hours.Value())
	mins := countdown.ParseOffset(f.mins.Value())
	if days == 0 && hours == 0 && mins == 0 {
		return errNoOffsets
	}
	f.bonus.SetValue(countdown.AddOffsets(f.bonus.Value(), now, days, hours, mins))
	f.days.SetValue("")
	f.hours.SetValue("")
	f.mins.SetValue("")
	return nil
}

func (f *formInputs) View(width int, mode form.Mode, errMsg string) string {
	label := func(s string, focused bool) string {
		if focused {
			return styleTitle().Render(s)
		}
		return styleMuted().Render(s)
	}

	title := "Add account"
	if mode.Editing {
		title = "Edit account"
	}

	offsets := lipgloss.JoinHorizontal(lipgloss.Top,
		label("  +days ", f.focus == fieldAddDays), f.days.View(),
		label("  +hours ", f.focus == fieldAddHours), f.hours.View(),
		label("  +mins ", f.focus == fieldAddMinutes), f.mins.View(),
	)

	lines := []string{
		styleTitle().Render(title),
		"",
		label("Key        ", f.focus == fieldKey) + f.key.View(),
		label("Name       ", f.focus == fieldName) + f.name.View(),
		label("Bonus time ", f.focus == fieldBonus) + f.bonus.View(),
		offsets + styleMuted().Render("  (ctrl+t: compute bonus time)"),
		label("Memo       ", f.focus == fieldMemo) + f.memo.View(),
		label("Notes      ", f.focus == fieldNotes),
		f.notes.View(),
	}
	if errMsg != "" {
		lines = append(lines, "", styleError().Render(errMsg))
	}
	lines = append(lines, "", styleMuted().Render("tab: next field   ctrl+s: save   esc: cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Width(min(width-4, 72))
	return box.Render(strings.Join(lines, "\n"))
}
