// Package tui is the interactive surface: an account table with live
// countdowns, an add/edit form, and a delete confirmation.
//
// The table is a pure projection of the in-memory cache; the cache is only
// mutated after a store call confirms, on the single bubbletea update loop.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wonderbeed/StarTracker/internal/cache"
	"github.com/wonderbeed/StarTracker/internal/form"
	"github.com/wonderbeed/StarTracker/internal/model"
	"github.com/wonderbeed/StarTracker/internal/store"
)

type appState int

const (
	stateList appState = iota
	stateForm
	stateConfirmDelete
	stateDetail
)

// refreshTickMsg re-renders the countdown column; it never touches the store.
type refreshTickMsg struct{}

// editRequestedMsg and deleteRequestedMsg are the row-level intents. The key
// handlers emit them instead of acting directly so the intent -> action
// translation in Update stays testable.
type (
	editRequestedMsg   struct{ key int }
	deleteRequestedMsg struct{ key int }
)

func tickRefresh() tea.Cmd {
	return tea.Tick(time.Minute, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

type appModel struct {
	st    store.Store
	cache *cache.Cache

	width  int
	height int

	state  appState
	cursor int

	mode   form.Mode
	inputs formInputs
	errMsg string

	// notice is the one-time "store degraded to empty" message.
	notice string

	confirmKey  int
	confirmName string
	confirm     confirmFocus

	detailKey int

	// now is frozen per refresh so a render pass is deterministic.
	now time.Time
}

func newAppModel(st store.Store, accs []model.Account, notice string) appModel {
	return appModel{
		st:     st,
		cache:  cache.New(accs),
		inputs: newFormInputs(),
		notice: notice,
		now:    time.Now(),
	}
}

// Run loads the active partition and starts the TUI. A store that cannot
// serve the initial list degrades to an empty view with a visible notice
// instead of failing.
func Run(st store.Store) error {
	setupColorProfile()

	notice := ""
	accs, err := st.ListAll(context.Background())
	if err != nil {
		if errors.Is(err, store.ErrNotAuthenticated) {
			notice = "not logged in — run `startracker login <user>` to see your accounts"
		} else {
			notice = fmt.Sprintf("could not load accounts (%v); starting empty", err)
		}
		accs = nil
	}

	p := tea.NewProgram(newAppModel(st, accs, notice), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func (m appModel) Init() tea.Cmd { return tickRefresh() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshTickMsg:
		m.now = time.Now()
		return m, tickRefresh()

	case editRequestedMsg:
		acc, ok := m.cache.Find(msg.key)
		if !ok {
			// Stale intent (row vanished); ignore rather than error.
			return m, nil
		}
		m.mode = form.EditModeFor(msg.key)
		m.inputs.SetFields(form.FieldsFor(acc))
		m.errMsg = ""
		m.state = stateForm
		return m, nil

	case deleteRequestedMsg:
		acc, ok := m.cache.Find(msg.key)
		if !ok {
			return m, nil
		}
		m.confirmKey = acc.Key
		m.confirmName = acc.Name
		m.confirm = confirmFocusCancel
		m.state = stateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateList:
			return m.updateList(msg)
		case stateForm:
			return m.updateForm(msg)
		case stateConfirmDelete:
			return m.updateConfirm(msg)
		case stateDetail:
			return m.updateDetail(msg)
		}
	}
	return m, nil
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.cache.Len()-1 {
			m.cursor++
		}
	case "a":
		m.mode = form.AddMode()
		m.inputs.Reset()
		m.errMsg = ""
		m.state = stateForm
	case "r":
		m.now = time.Now()
	case "enter", "e":
		if acc, ok := m.selected(); ok {
			key := acc.Key
			return m, func() tea.Msg { return editRequestedMsg{key: key} }
		}
	case "d", "x":
		if acc, ok := m.selected(); ok {
			key := acc.Key
			return m, func() tea.Msg { return deleteRequestedMsg{key: key} }
		}
	case "v":
		if acc, ok := m.selected(); ok {
			m.detailKey = acc.Key
			m.state = stateDetail
		}
	}
	return m, nil
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		// Cancel resets to add mode and clears the form.
		m.mode = form.AddMode()
		m.inputs.Reset()
		m.errMsg = ""
		m.state = stateList
		return m, nil
	case "tab", "down":
		m.inputs.Next()
		return m, nil
	case "shift+tab", "up":
		m.inputs.Prev()
		return m, nil
	case "ctrl+t":
		if err := m.inputs.ApplyOffsets(time.Now()); err != nil {
			m.errMsg = err.Error()
		} else {
			m.errMsg = ""
		}
		return m, nil
	case "ctrl+s", "enter":
		// Enter inside the notes textarea inserts a newline instead.
		if msg.String() == "enter" && m.inputs.focus == fieldNotes {
			break
		}
		return m.submitForm()
	}
	cmd := m.inputs.Update(msg)
	return m, cmd
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	sub, err := form.Submit(m.mode, m.inputs.Fields(), m.cache)
	if err != nil {
		// Inline, non-fatal; the form keeps the user's input for correction.
		m.errMsg = err.Error()
		return m, nil
	}

	ctx := context.Background()
	switch sub.Action {
	case form.ActionInsert:
		if err := m.st.Insert(ctx, sub.Account); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.cache.Upsert(sub.Account)
	case form.ActionReplace:
		if err := m.st.Replace(ctx, sub.OldKey, sub.Account); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.cache.Rekey(sub.OldKey, sub.Account)
	}

	m.errMsg = ""
	m.mode = form.AddMode()
	m.inputs.Reset()
	m.state = stateList
	m.cursorTo(sub.Account.Key)
	return m, nil
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "n":
		m.state = stateList
		return m, nil
	case "tab", "left", "right":
		if m.confirm == confirmFocusConfirm {
			m.confirm = confirmFocusCancel
		} else {
			m.confirm = confirmFocusConfirm
		}
		return m, nil
	case "y":
		return m.deleteConfirmed()
	case "enter":
		if m.confirm == confirmFocusConfirm {
			return m.deleteConfirmed()
		}
		m.state = stateList
		return m, nil
	}
	return m, nil
}

func (m appModel) deleteConfirmed() (tea.Model, tea.Cmd) {
	if err := m.st.Remove(context.Background(), m.confirmKey); err != nil {
		m.notice = fmt.Sprintf("delete failed: %v", err)
		m.state = stateList
		return m, nil
	}
	m.cache.Remove(m.confirmKey)
	// A successful delete also clears any pending edit of that record.
	if m.mode.Editing && m.mode.EditKey == m.confirmKey {
		m.mode = form.AddMode()
		m.inputs.Reset()
	}
	if m.cursor >= m.cache.Len() && m.cursor > 0 {
		m.cursor--
	}
	m.state = stateList
	return m, nil
}

func (m appModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace", "v":
		m.state = stateList
	case "e", "enter":
		key := m.detailKey
		m.state = stateList
		return m, func() tea.Msg { return editRequestedMsg{key: key} }
	}
	return m, nil
}

func (m appModel) selected() (model.Account, bool) {
	accs := m.cache.Snapshot()
	if m.cursor < 0 || m.cursor >= len(accs) {
		return model.Account{}, false
	}
	return accs[m.cursor], true
}

func (m *appModel) cursorTo(key int) {
	for i, a := range m.cache.Snapshot() {
		if a.Key == key {
			m.cursor = i
			return
		}
	}
	if m.cursor >= m.cache.Len() && m.cursor > 0 {
		m.cursor = m.cache.Len() - 1
	}
}
