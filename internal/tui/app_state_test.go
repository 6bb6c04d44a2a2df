package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wonderbeed/StarTracker/internal/form"
	"github.com/wonderbeed/StarTracker/internal/model"
	"github.com/wonderbeed/StarTracker/internal/store"
)

func newTestApp(t *testing.T, accs []model.Account) (appModel, store.Store) {
	t.Helper()
	st, err := store.Open(store.Config{Backend: store.BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	for _, a := range accs {
		if err := st.Insert(context.Background(), a); err != nil {
			t.Fatalf("seed %d: %v", a.Key, err)
		}
	}
	return newAppModel(st, accs, ""), st
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(appModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out, cmd
}

func TestListKeys_EmitRowIntents(t *testing.T) {
	m, _ := newTestApp(t, []model.Account{{Key: 3, Name: "Main"}})

	_, cmd := update(t, m, keyRunes('e'))
	if cmd == nil {
		t.Fatal("e produced no command")
	}
	if got, ok := cmd().(editRequestedMsg); !ok || got.key != 3 {
		t.Fatalf("e emitted %#v, want editRequestedMsg{3}", cmd())
	}

	_, cmd = update(t, m, keyRunes('d'))
	if cmd == nil {
		t.Fatal("d produced no command")
	}
	if got, ok := cmd().(deleteRequestedMsg); !ok || got.key != 3 {
		t.Fatalf("d emitted %#v, want deleteRequestedMsg{3}", cmd())
	}
}

func TestEditCancel_ResetsToAddModeAndClearsForm(t *testing.T) {
	m, _ := newTestApp(t, []model.Account{
		{Key: 1, Name: "Main", BonusTime: "2026-05-01T18:30", Memo: "daily"},
	})

	m, _ = update(t, m, editRequestedMsg{key: 1})
	if m.state != stateForm || !m.mode.Editing || m.mode.EditKey != 1 {
		t.Fatalf("after edit intent: state=%v mode=%+v", m.state, m.mode)
	}
	if got := m.inputs.Fields(); got.Key != "1" || got.Name != "Main" || got.BonusTime != "2026-05-01T18:30" {
		t.Fatalf("form not populated from record: %+v", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateList {
		t.Fatalf("after esc: state=%v, want stateList", m.state)
	}
	if m.mode.Editing {
		t.Fatalf("after esc: mode=%+v, want add mode", m.mode)
	}
	if got := m.inputs.Fields(); got != (form.Fields{}) {
		t.Fatalf("after esc: form not cleared: %+v", got)
	}
}

func TestApplyOffsets_AllZeroRejectedWithMessage(t *testing.T) {
	m, _ := newTestApp(t, nil)

	m, _ = update(t, m, keyRunes('a'))
	if m.state != stateForm {
		t.Fatalf("after a: state=%v, want stateForm", m.state)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.errMsg != errNoOffsets.Error() {
		t.Fatalf("blank offsets: errMsg=%q, want %q", m.errMsg, errNoOffsets.Error())
	}
	if m.state != stateForm {
		t.Fatalf("blank offsets left the form: state=%v", m.state)
	}

	m.inputs.days.SetValue("1")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.errMsg != "" {
		t.Fatalf("valid offset: errMsg=%q", m.errMsg)
	}
	if m.inputs.bonus.Value() == "" {
		t.Fatal("valid offset did not write the bonus time back")
	}
	if m.inputs.days.Value() != "" {
		t.Fatalf("offset input not cleared: %q", m.inputs.days.Value())
	}
}

func TestSubmit_DuplicateKeyShowsErrorAndKeepsInput(t *testing.T) {
	m, st := newTestApp(t, []model.Account{{Key: 1, Name: "Main"}})

	m, _ = update(t, m, keyRunes('a'))
	m.inputs.SetFields(form.Fields{Key: "1", Name: "Clone", Memo: "typo"})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.state != stateForm {
		t.Fatalf("rejected submit left the form: state=%v", m.state)
	}
	if !strings.Contains(m.errMsg, "already exists") {
		t.Fatalf("errMsg=%q", m.errMsg)
	}
	if got := m.inputs.Fields(); got.Name != "Clone" || got.Memo != "typo" {
		t.Fatalf("rejected submit discarded input: %+v", got)
	}

	// Neither side of the double line of defense was mutated.
	if m.cache.Len() != 1 {
		t.Fatalf("cache mutated: %d records", m.cache.Len())
	}
	accs, err := st.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accs) != 1 || accs[0].Name != "Main" {
		t.Fatalf("backend mutated: %+v", accs)
	}
}

func TestSubmit_ValidAddReturnsToListAndSelectsRecord(t *testing.T) {
	m, st := newTestApp(t, []model.Account{{Key: 1, Name: "Main"}})

	m, _ = update(t, m, keyRunes('a'))
	m.inputs.SetFields(form.Fields{Key: "5", Name: "Alt"})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.state != stateList || m.errMsg != "" {
		t.Fatalf("after submit: state=%v errMsg=%q", m.state, m.errMsg)
	}
	if acc, ok := m.selected(); !ok || acc.Key != 5 {
		t.Fatalf("cursor not on the new record: %+v ok=%v", acc, ok)
	}
	accs, _ := st.ListAll(context.Background())
	if len(accs) != 2 || accs[1].Key != 5 {
		t.Fatalf("backend after submit: %+v", accs)
	}
}

func TestConfirmDelete_DeclineKeepsRecord(t *testing.T) {
	m, st := newTestApp(t, []model.Account{{Key: 1, Name: "Main"}})

	m, _ = update(t, m, deleteRequestedMsg{key: 1})
	if m.state != stateConfirmDelete || m.confirmKey != 1 || m.confirmName != "Main" {
		t.Fatalf("after delete intent: state=%v key=%d name=%q", m.state, m.confirmKey, m.confirmName)
	}
	if m.confirm != confirmFocusCancel {
		t.Fatalf("confirm modal focus=%v, want cancel", m.confirm)
	}

	// Enter with Cancel focused declines, as does esc.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateList {
		t.Fatalf("after decline: state=%v", m.state)
	}
	if !m.cache.Has(1) {
		t.Fatal("decline removed the record from the cache")
	}
	accs, _ := st.ListAll(context.Background())
	if len(accs) != 1 {
		t.Fatalf("decline removed the record from the backend: %+v", accs)
	}
}

func TestConfirmDelete_ConfirmRemovesAndClearsPendingEdit(t *testing.T) {
	m, st := newTestApp(t, []model.Account{
		{Key: 1, Name: "Main"},
		{Key: 2, Name: "Alt"},
	})

	// Delete the record that is mid-edit.
	m, _ = update(t, m, editRequestedMsg{key: 1})
	m, _ = update(t, m, deleteRequestedMsg{key: 1})
	m, _ = update(t, m, keyRunes('y'))

	if m.state != stateList {
		t.Fatalf("after confirm: state=%v", m.state)
	}
	if m.cache.Has(1) {
		t.Fatal("record still in cache after confirmed delete")
	}
	if m.mode.Editing {
		t.Fatalf("pending edit survived the delete: %+v", m.mode)
	}
	if got := m.inputs.Fields(); got != (form.Fields{}) {
		t.Fatalf("form still holds the deleted record: %+v", got)
	}
	accs, _ := st.ListAll(context.Background())
	if len(accs) != 1 || accs[0].Key != 2 {
		t.Fatalf("backend after confirmed delete: %+v", accs)
	}
}
