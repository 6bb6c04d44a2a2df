package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	switch m.state {
	case stateForm:
		return m.viewForm()
	case stateConfirmDelete:
		return m.viewConfirm()
	case stateDetail:
		return m.viewDetail()
	default:
		return m.viewList()
	}
}

func (m appModel) viewList() string {
	var b strings.Builder
	b.WriteString(styleTitle().Render("StarTracker"))
	b.WriteString("\n\n")
	if m.notice != "" {
		b.WriteString(styleError().Render(m.notice))
		b.WriteString("\n\n")
	}
	b.WriteString(renderAccountTable(m.cache.Snapshot(), m.cursor, m.now, m.width))
	b.WriteString("\n\n")
	b.WriteString(styleMuted().Render("a: add   enter: edit   d: delete   v: details   r: refresh   q: quit"))
	return b.String()
}

func (m appModel) viewForm() string {
	return m.centered(m.inputs.View(m.width, m.mode, m.errMsg))
}

func (m appModel) viewConfirm() string {
	body := fmt.Sprintf("Delete account %q (key %d)?", m.confirmName, m.confirmKey)
	return m.centered(renderConfirmModal(m.width, "Delete account", body, "Delete", "Cancel", m.confirm))
}

func (m appModel) viewDetail() string {
	acc, ok := m.cache.Find(m.detailKey)
	if !ok {
		return m.centered(styleMuted().Render("account is gone"))
	}

	width := min(m.width-8, 72)
	var b strings.Builder
	b.WriteString(styleTitle().Render(fmt.Sprintf("%s (key %d)", acc.Name, acc.Key)))
	b.WriteString("\n\n")
	b.WriteString(styleMuted().Render("Bonus time  ") + acc.DisplayBonusTime() + "\n")
	if acc.Memo != "" {
		b.WriteString(styleMuted().Render("Memo        ") + acc.Memo + "\n")
	}
	if acc.Notes != "" {
		b.WriteString("\n")
		b.WriteString(renderMarkdown(acc.Notes, width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleMuted().Render("e: edit   esc: back"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Width(min(m.width-4, 76))
	return m.centered(box.Render(b.String()))
}

func (m appModel) centered(content string) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
