package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/logging"
	"github.com/funddeck/funddeck/internal/logging/events"
	"github.com/funddeck/funddeck/internal/tabs"
	"github.com/funddeck/funddeck/internal/ui/command"
)

func (m *Model) handleEscapeKey() tea.Cmd {
	current := m.currentLevel()
	if current == nil {
		return tea.Quit
	}
	if len(m.stack) <= 1 {
		return tea.Quit
	}
	parent := m.stack[len(m.stack)-2]
	m.stack = m.stack[:len(m.stack)-1]
	if parent != nil {
		if parent.LastCursor >= 0 && parent.LastCursor < len(parent.Items) {
			parent.Cursor = parent.LastCursor
		} else if idx := parent.IndexOf(current.ID); idx >= 0 {
			parent.Cursor = idx
		} else if len(parent.Items) > 0 {
			parent.Cursor = len(parent.Items) - 1
		}
		parent.LastCursor = -1
		m.syncViewport(parent)
	}
	m.errMsg = ""
	m.forceClearInfo()
	return m.reloadIfStale(m.currentLevel())
}

func (m *Model) handleEnterKey() tea.Cmd {
	if m.loading {
		return nil
	}
	current := m.currentLevel()
	if current == nil || len(current.Items) == 0 {
		return nil
	}
	item := current.Items[current.Cursor]
	events.UI.TabEnter(current.ID, item.ID, item.Label, current.Filter)
	beforeCursor := current.FilterCursorPos()
	current.SetFilter("", 0)
	m.noteFilterCursorChange(current, beforeCursor)

	node := current.Node
	if node == nil {
		node, _ = m.registry.Find(current.ID)
	}
	if node != nil {
		if child, ok := node.Children[item.ID]; ok {
			if child.Loader != nil {
				current.LastCursor = current.Cursor
				m.loading = true
				m.pendingID = child.ID
				m.pendingLabel = item.Label
				m.errMsg = ""
				m.forceClearInfo()
				return m.loadTabCmd(child.ID, item.Label, child.Loader)
			}
			if child.Action != nil {
				return m.runActionNode(child, item)
			}
		}
		if node.Action != nil {
			return m.runActionNode(node, item)
		}
		if strings.HasSuffix(node.ID, ":tree") {
			return m.openTree()
		}
	}
	m.setInfo(fmt.Sprintf("selected %s (no action defined)", item.Label))
	return nil
}

// runActionNode dispatches an action node through the confirm or form overlay
// when one applies, or straight to the command bus otherwise.
func (m *Model) runActionNode(node *tabs.Node, item tabs.Item) tea.Cmd {
	if node.Confirm {
		m.startConfirm(node, item)
		return nil
	}
	if form, ok := tabs.NewForm(m.tabContext(), node, item, m.pickers); ok {
		m.form = form
		m.mode = ModeForm
		m.errMsg = ""
		m.forceClearInfo()
		return nil
	}
	return m.executeNode(node, item, nil)
}

// executeNode hands the action to the bus. formValues, when non-nil, becomes
// the Form map on the context.
func (m *Model) executeNode(node *tabs.Node, item tabs.Item, formValues map[string]string) tea.Cmd {
	ctx := m.tabContext()
	ctx.Form = formValues
	m.loading = true
	m.pendingID = node.ID
	m.pendingLabel = item.Label
	m.errMsg = ""
	m.forceClearInfo()
	return m.bus.Execute(ctx, command.Request{ID: node.ID, Label: item.Label, Handler: node.Action, Item: item})
}

func (m *Model) moveCursorUp() {
	if current := m.currentLevel(); current != nil {
		if n := len(current.Items); n > 0 {
			if current.Cursor > 0 {
				current.Cursor--
			} else {
				current.Cursor = n - 1
			}
			events.UI.TabCursor(current.ID, current.Cursor)
			m.syncViewport(current)
		}
	}
}

func (m *Model) moveCursorDown() {
	if current := m.currentLevel(); current != nil {
		if n := len(current.Items); n > 0 {
			if current.Cursor < n-1 {
				current.Cursor++
			} else {
				current.Cursor = 0
			}
			events.UI.TabCursor(current.ID, current.Cursor)
			m.syncViewport(current)
		}
	}
}

func (m *Model) moveCursorPageUp() {
	if current := m.currentLevel(); current != nil {
		if moved := current.MoveCursorPageUp(m.maxVisibleItems()); moved {
			events.UI.TabCursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
	}
}

func (m *Model) moveCursorPageDown() {
	if current := m.currentLevel(); current != nil {
		if moved := current.MoveCursorPageDown(m.maxVisibleItems()); moved {
			events.UI.TabCursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
	}
}

func (m *Model) moveCursorHome() {
	if current := m.currentLevel(); current != nil {
		if moved := current.MoveCursorHome(); moved {
			events.UI.TabCursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
	}
}

func (m *Model) moveCursorEnd() {
	if current := m.currentLevel(); current != nil {
		if moved := current.MoveCursorEnd(); moved {
			events.UI.TabCursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
	}
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	l.EnsureCursorVisible(m.maxVisibleItems())
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.mode != ModeBrowse {
		return nil
	}
	if m.handleTextInput(keyMsg) {
		return nil
	}
	switch keyMsg.String() {
	// Plain runes feed the filter above, so quit is chord-only in browse mode.
	case "ctrl+c":
		return tea.Quit
	case "esc":
		return m.handleEscapeKey()
	case "enter":
		return m.handleEnterKey()
	case "ctrl+t":
		return m.openTagPicker()
	case "ctrl+g":
		return m.openTagEditor()
	case "ctrl+b":
		return m.openTree()
	case "up":
		m.moveCursorUp()
	case "down":
		m.moveCursorDown()
	case "pgup":
		m.moveCursorPageUp()
	case "pgdown":
		m.moveCursorPageDown()
	case "home":
		m.moveCursorHome()
	case "end":
		m.moveCursorEnd()
	}
	return nil
}

func (m *Model) handleTabLoadedMsg(msg tea.Msg) tea.Cmd {
	update, ok := msg.(tabLoadedMsg)
	if !ok {
		return nil
	}
	if update.id != m.pendingID {
		return nil
	}
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
	if update.err != nil {
		m.errMsg = update.err.Error()
		return nil
	}
	m.errMsg = ""
	node, _ := m.registry.Find(update.id)
	if update.replace {
		if lvl := m.findLevelByID(update.id); lvl != nil {
			lvl.UpdateItems(update.items)
			m.syncViewport(lvl)
			return nil
		}
	}
	level := newLevel(update.id, update.title, update.items, node)
	m.syncViewport(level)
	m.stack = append(m.stack, level)
	if len(level.Items) == 0 {
		m.setInfo("no entries found")
	} else if m.infoMsg != "" {
		m.clearInfo()
	}
	return nil
}

func (m *Model) findLevelByID(id string) *level {
	for _, lvl := range m.stack {
		if lvl.ID == id {
			return lvl
		}
	}
	return nil
}

// reloadIfStale refetches the tags tab after a rebuild finished while the
// user was elsewhere.
func (m *Model) reloadIfStale(lvl *level) tea.Cmd {
	if lvl == nil || !m.tagsStale || lvl.ID != "tags" {
		return nil
	}
	node, ok := m.registry.Find("tags")
	if !ok || node.Loader == nil {
		return nil
	}
	m.tagsStale = false
	m.loading = true
	m.pendingID = "tags"
	return m.reloadTabCmd("tags", lvl.Title, node.Loader)
}

func (m *Model) applyRootTabOverride(requested string) {
	trimmed := strings.TrimSpace(requested)
	if trimmed == "" {
		m.rootTabID = ""
		m.rootTitle = defaultRootTitle
		return
	}
	if m.registry == nil {
		return
	}
	id := strings.ToLower(trimmed)
	node, ok := m.registry.Find(id)
	if !ok {
		m.errMsg = fmt.Sprintf("unknown root tab %q", trimmed)
		m.rootTabID = ""
		m.rootTitle = defaultRootTitle
		return
	}

	items := []tabs.Item(nil)
	if node.Loader != nil {
		loaded, err := node.Loader(m.tabContext())
		if err != nil {
			logging.Error(err)
			m.errMsg = fmt.Sprintf("failed to load %s tab: %v", id, err)
		} else {
			items = loaded
			m.errMsg = ""
		}
	} else {
		m.errMsg = ""
	}

	title := strings.TrimSpace(headerSegmentCleaner.Replace(node.ID))
	root := newLevel(node.ID, title, items, node)
	m.syncViewport(root)
	m.stack = []*level{root}
	m.rootTabID = node.ID

	segment := headerSegmentForLevel(root)
	if segment == "" {
		segment = title
	}
	if segment == "" {
		segment = node.ID
	}
	m.rootTitle = segment
}

func (m *Model) currentLevel() *level {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}
