package tree

import tea "github.com/charmbracelet/bubbletea"

// Node is one hierarchy row. Key must be unique across the whole tree; it is
// what expansion state is recorded against.
type Node struct {
	Key      string
	Label    string
	Type     string
	Children []Node
	Leaf     bool
	// NoToggle opts the row out of Enter/Space toggling, for rows hosting
	// embedded editors.
	NoToggle bool
}

// HasChildren reports whether the node can expand.
func (n Node) HasChildren() bool {
	return !n.Leaf && len(n.Children) > 0
}

// Row is a visible node with its depth and parent key resolved.
type Row struct {
	Node      Node
	Depth     int
	ParentKey string
}

// View walks a node list with caller-owned expansion state. The widget never
// persists expansion itself; toggles are reported through OnToggle and the
// caller passes the map back in.
type View struct {
	Roots    []Node
	Expanded map[string]bool
	Focus    int

	// OnToggle fires with the node key and its new expanded state.
	OnToggle func(key string, expanded bool)
	// OnActivate fires on Enter/Space for leaf rows and NoToggle rows.
	OnActivate func(row Row)
}

// New builds a view over roots with the given expansion state map. A nil map
// is treated as all-collapsed and replaced with an empty one.
func New(roots []Node, expanded map[string]bool) *View {
	if expanded == nil {
		expanded = make(map[string]bool)
	}
	return &View{Roots: roots, Expanded: expanded}
}

// VisibleRows returns the rows whose every ancestor is expanded, in document
// order. Descendants of a collapsed node are skipped entirely.
func (v *View) VisibleRows() []Row {
	var rows []Row
	var walk func(nodes []Node, depth int, parent string)
	walk = func(nodes []Node, depth int, parent string) {
		for _, n := range nodes {
			rows = append(rows, Row{Node: n, Depth: depth, ParentKey: parent})
			if n.HasChildren() && v.Expanded[n.Key] {
				walk(n.Children, depth+1, n.Key)
			}
		}
	}
	walk(v.Roots, 0, "")
	return rows
}

// FocusedRow returns the row under focus, or a zero Row when the tree is
// empty.
func (v *View) FocusedRow() (Row, bool) {
	rows := v.VisibleRows()
	if len(rows) == 0 {
		return Row{}, false
	}
	v.clampFocus(len(rows))
	return rows[v.Focus], true
}

func (v *View) clampFocus(n int) {
	if v.Focus < 0 {
		v.Focus = 0
	}
	if v.Focus >= n {
		v.Focus = n - 1
	}
}

// HandleKey implements the tree keyboard contract. It returns true when the
// key was consumed.
func (v *View) HandleKey(msg tea.KeyMsg) bool {
	rows := v.VisibleRows()
	if len(rows) == 0 {
		return false
	}
	v.clampFocus(len(rows))
	row := rows[v.Focus]

	switch msg.Type {
	case tea.KeyUp:
		if v.Focus > 0 {
			v.Focus--
		}
		return true
	case tea.KeyDown:
		if v.Focus < len(rows)-1 {
			v.Focus++
		}
		return true
	case tea.KeyHome:
		v.Focus = 0
		return true
	case tea.KeyEnd:
		v.Focus = len(rows) - 1
		return true
	case tea.KeyRight:
		if row.Node.HasChildren() && !v.Expanded[row.Node.Key] {
			v.setExpanded(row.Node.Key, true)
			return true
		}
		if v.Focus < len(rows)-1 {
			v.Focus++
		}
		return true
	case tea.KeyLeft:
		if row.Node.HasChildren() && v.Expanded[row.Node.Key] {
			v.setExpanded(row.Node.Key, false)
			return true
		}
		if row.ParentKey != "" {
			for i, r := range rows {
				if r.Node.Key == row.ParentKey {
					v.Focus = i
					break
				}
			}
		}
		return true
	case tea.KeyEnter, tea.KeySpace:
		v.activate(row)
		return true
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] == ' ' {
		v.activate(row)
		return true
	}
	return false
}

func (v *View) activate(row Row) {
	if row.Node.HasChildren() && !row.Node.NoToggle {
		v.setExpanded(row.Node.Key, !v.Expanded[row.Node.Key])
		return
	}
	if v.OnActivate != nil {
		v.OnActivate(row)
	}
}

// setExpanded records the new state and clamps focus, since collapsing can
// shrink the visible row set out from under the cursor.
func (v *View) setExpanded(key string, expanded bool) {
	if expanded {
		v.Expanded[key] = true
	} else {
		delete(v.Expanded, key)
	}
	if v.OnToggle != nil {
		v.OnToggle(key, expanded)
	}
	v.clampFocus(len(v.VisibleRows()))
}
