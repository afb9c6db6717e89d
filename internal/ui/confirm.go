package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/logging/events"
	"github.com/funddeck/funddeck/internal/tabs"
)

// confirmState tracks the two-step confirmation for a destructive node. No
// request is issued until the second prompt is accepted.
type confirmState struct {
	node *tabs.Node
	item tabs.Item
	step int
}

func (m *Model) startConfirm(node *tabs.Node, item tabs.Item) {
	m.confirm = &confirmState{node: node, item: item}
	m.mode = ModeConfirm
	m.errMsg = ""
	m.forceClearInfo()
	events.UI.ConfirmStep(node.ID, 0)
}

func (m *Model) confirmPrompt() string {
	if m.confirm == nil {
		return ""
	}
	name := m.confirm.item.Label
	if name == "" {
		name = m.confirm.item.ID
	}
	if m.confirm.step == 0 {
		return fmt.Sprintf("delete %q? (y/n)", name)
	}
	return fmt.Sprintf("%q cannot be undone. really delete? (y/n)", name)
}

func (m *Model) handleConfirmKey(msg tea.Msg) (bool, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.confirm == nil {
		return false, nil
	}
	switch keyMsg.String() {
	case "y", "enter":
		if m.confirm.step == 0 {
			m.confirm.step = 1
			events.UI.ConfirmStep(m.confirm.node.ID, 1)
			return true, nil
		}
		node, item := m.confirm.node, m.confirm.item
		m.confirm = nil
		m.mode = ModeBrowse
		return true, m.executeNode(node, item, nil)
	case "n", "esc", "ctrl+c":
		events.UI.ConfirmCancel(m.confirm.node.ID, m.confirm.step)
		m.confirm = nil
		m.mode = ModeBrowse
		m.setInfo("cancelled")
		return true, nil
	}
	return true, nil
}
