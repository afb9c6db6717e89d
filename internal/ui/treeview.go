package ui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/format/table"
	"github.com/funddeck/funddeck/internal/tree"
	"github.com/funddeck/funddeck/internal/validate"
)

type treeLoadedMsg struct {
	title string
	roots []api.TreeNode
	err   error
}

// openTree loads the drill-down hierarchy for the focused row. Budgets expand
// into their item-project/category/asset tree; the categories tab shows the
// global category hierarchy.
func (m *Model) openTree() tea.Cmd {
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	switch current.ID {
	case "budgets", "budgets:tree":
		item, ok := current.CurrentItem()
		if !ok {
			return nil
		}
		id, err := strconv.ParseInt(item.ID, 10, 64)
		if err != nil {
			return nil
		}
		m.loading = true
		title := item.Label
		return func() tea.Msg {
			roots, err := m.client.BudgetTree(m.ctx, id)
			return treeLoadedMsg{title: title, roots: roots, err: err}
		}
	case "categories", "categories:tree":
		m.loading = true
		return func() tea.Msg {
			roots, err := m.client.CategoryTree(m.ctx)
			return treeLoadedMsg{title: "categories", roots: roots, err: err}
		}
	}
	return nil
}

func (m *Model) handleTreeLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(treeLoadedMsg)
	if !ok {
		return nil
	}
	m.loading = false
	if loaded.err != nil {
		m.errMsg = loaded.err.Error()
		return nil
	}
	m.errMsg = ""
	m.dropTreeBundles()
	roots := make([]tree.Node, len(loaded.roots))
	for i, n := range loaded.roots {
		roots[i] = treeNodeFrom(n)
		m.registerTreeBundles(loaded.roots[i])
	}
	view := tree.New(roots, m.expanded)
	view.OnActivate = func(row tree.Row) {
		m.openTagPickerFor(row.Node.Type, row.Node.Key)
	}
	m.treeView = view
	m.treeTitle = loaded.title
	m.mode = ModeTree
	return nil
}

// registerTreeBundles walks a loaded subtree and attaches every tagged node's
// chip bundle to the cache, keyed by the node's "type:id" key, so mutations
// made through the tag picker patch the visible tree rows.
func (m *Model) registerTreeBundles(n api.TreeNode) {
	if n.Tags != nil {
		m.tagCache.RegisterBundle(n.Key, n.Tags)
		m.treeBundleKeys = append(m.treeBundleKeys, n.Key)
	}
	for i := range n.Children {
		m.registerTreeBundles(n.Children[i])
	}
}

func (m *Model) dropTreeBundles() {
	for _, key := range m.treeBundleKeys {
		m.tagCache.DropBundle(key)
	}
	m.treeBundleKeys = nil
}

func treeNodeFrom(n api.TreeNode) tree.Node {
	label := n.Label
	if n.Amount != nil {
		label = fmt.Sprintf("%s  %s", n.Label, table.Money(n.Amount))
	}
	children := make([]tree.Node, len(n.Children))
	for i, c := range n.Children {
		children[i] = treeNodeFrom(c)
	}
	return tree.Node{
		Key:      n.Key,
		Label:    label,
		Type:     n.Type,
		Children: children,
		Leaf:     n.Leaf,
		NoToggle: n.Leaf && len(children) == 0,
	}
}

func (m *Model) handleTreeKey(msg tea.Msg) (bool, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.treeView == nil {
		return false, nil
	}
	switch keyMsg.String() {
	case "esc", "q":
		m.dropTreeBundles()
		m.treeView = nil
		m.mode = ModeBrowse
		return true, nil
	case "ctrl+t":
		if row, ok := m.treeView.FocusedRow(); ok {
			m.openTagPickerFor(row.Node.Type, row.Node.Key)
		}
		return true, nil
	}
	m.treeView.HandleKey(keyMsg)
	return true, nil
}

// openTagPickerFor attaches the tag panel to a tree row. Row keys follow the
// "type:id" convention used by the rebuild scope parameter.
func (m *Model) openTagPickerFor(entityType, key string) {
	if err := validate.EntityType(entityType); err != nil {
		m.errMsg = err.Error()
		return
	}
	id := parseTreeKeyID(key)
	if id == 0 {
		return
	}
	m.startTagPicker(entityType, id)
}

func parseTreeKeyID(key string) int64 {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			id, _ := strconv.ParseInt(key[i+1:], 10, 64)
			return id
		}
	}
	id, _ := strconv.ParseInt(key, 10, 64)
	return id
}

func (m *Model) viewTreeWithHeader(header string) string {
	lines := []string{}
	if header != "" {
		lines = append(lines, header)
	}
	title := m.treeTitle
	if title == "" {
		title = "tree"
	}
	lines = append(lines, styles.Header.Render(title), "")
	rows := m.treeView.VisibleRows()
	for i, row := range rows {
		toggle := "  "
		if row.Node.HasChildren() {
			toggle = "▸ "
			if m.expanded[row.Node.Key] {
				toggle = "▾ "
			}
		}
		indent := ""
		for d := 0; d < row.Depth; d++ {
			indent += "  "
		}
		line := indent + toggle + row.Node.Label
		if i == m.treeView.Focus {
			line = styles.SelectedItem.Render(line)
		} else {
			line = styles.Item.Render(line)
		}
		lines = append(lines, line)
	}
	if len(rows) == 0 {
		lines = append(lines, styles.Info.Render("(empty tree)"))
	}
	lines = append(lines, "", "↑/↓ move  →/← expand/collapse  enter toggle  ctrl+t tags  esc back")
	return joinLines(lines)
}
