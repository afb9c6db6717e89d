package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/logging"
	"github.com/funddeck/funddeck/internal/logging/events"
	"github.com/funddeck/funddeck/internal/tabs"
)

// tabLoadedMsg mirrors the async loader response. replace updates an existing
// level in place instead of pushing a new one.
type tabLoadedMsg struct {
	id      string
	title   string
	items   []tabs.Item
	err     error
	replace bool
}

func (m *Model) loadTabCmd(id, title string, loader tabs.Loader) tea.Cmd {
	return func() tea.Msg {
		items, err := loader(m.tabContext())
		if err != nil {
			logging.Error(err)
		}
		return tabLoadedMsg{id: id, title: title, items: items, err: err}
	}
}

func (m *Model) reloadTabCmd(id, title string, loader tabs.Loader) tea.Cmd {
	return func() tea.Msg {
		items, err := loader(m.tabContext())
		if err != nil {
			logging.Error(err)
		}
		return tabLoadedMsg{id: id, title: title, items: items, err: err, replace: true}
	}
}

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(tabs.ActionResult)
	if !ok {
		return nil
	}
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.forceClearInfo()
		events.Action.Error(result.Err)
		return nil
	}
	m.errMsg = ""
	if result.Info != "" {
		m.setInfo(result.Info)
	} else {
		m.forceClearInfo()
	}
	events.Action.Success(result.Info)

	cmds := []tea.Cmd{}
	if result.Job != nil && m.watcher != nil {
		m.watcher.Track(*result.Job)
	}
	if result.Refresh != "" {
		if lvl := m.findLevelByID(result.Refresh); lvl != nil {
			if node, ok := m.registry.Find(result.Refresh); ok && node.Loader != nil {
				m.loading = true
				m.pendingID = result.Refresh
				cmds = append(cmds, m.reloadTabCmd(result.Refresh, lvl.Title, node.Loader))
			}
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}
