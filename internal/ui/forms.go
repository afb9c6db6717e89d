package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleFormKey(msg tea.Msg) (bool, tea.Cmd) {
	if m.form == nil {
		m.mode = ModeBrowse
		return false, nil
	}
	cmd, done, cancel := m.form.Update(msg)
	if cancel {
		m.form.Detach()
		m.form = nil
		m.mode = ModeBrowse
		return true, cmd
	}
	if done {
		form := m.form
		form.Detach()
		m.form = nil
		m.mode = ModeBrowse
		return true, m.executeNode(form.Node(), form.Item(), form.Values())
	}
	return true, cmd
}

func (m *Model) viewFormWithHeader(header string) string {
	lines := []string{}
	if header != "" {
		lines = append(lines, header)
	}
	lines = append(lines, m.form.Title(), "")
	for i := 0; i < m.form.FieldCount(); i++ {
		lines = append(lines, m.form.FieldView(i))
	}
	if err := m.form.Error(); err != "" {
		lines = append(lines, "", styles.Error.Render(err))
	}
	lines = append(lines, "", "enter next/submit  tab move  esc cancel")
	return joinLines(lines)
}
