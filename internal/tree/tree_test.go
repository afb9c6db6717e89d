package tree

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func budgetTree() []Node {
	return []Node{
		{Key: "budget:1", Label: "FY26 CAR", Type: "budget", Children: []Node{
			{Key: "ip:10", Label: "Line Alpha", Type: "item_project", Children: []Node{
				{Key: "cat:100", Label: "NRE", Type: "category", Leaf: true},
				{Key: "cat:101", Label: "Tooling", Type: "category", Leaf: true},
			}},
			{Key: "ip:11", Label: "Line Beta", Type: "item_project", Children: []Node{
				{Key: "cat:110", Label: "Hardware", Type: "category", Leaf: true},
			}},
		}},
		{Key: "budget:2", Label: "FY26 Sustaining", Type: "budget", Children: []Node{
			{Key: "ip:20", Label: "Maintenance", Type: "item_project", Leaf: false, Children: []Node{
				{Key: "cat:200", Label: "Spares", Type: "category", Leaf: true},
			}},
		}},
	}
}

func keys(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Node.Key
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func press(v *View, key tea.KeyType) {
	v.HandleKey(tea.KeyMsg{Type: key})
}

func TestVisibleRowsSkipCollapsedDescendants(t *testing.T) {
	v := New(budgetTree(), map[string]bool{"budget:1": true})

	got := keys(v.VisibleRows())
	want := []string{"budget:1", "ip:10", "ip:11", "budget:2"}
	if !equal(got, want) {
		t.Fatalf("visible = %v, want %v", got, want)
	}

	v.Expanded["ip:10"] = true
	got = keys(v.VisibleRows())
	want = []string{"budget:1", "ip:10", "cat:100", "cat:101", "ip:11", "budget:2"}
	if !equal(got, want) {
		t.Fatalf("visible = %v, want %v", got, want)
	}
}

func TestCollapsingOnlyExpandedChildLeavesRootSiblings(t *testing.T) {
	v := New(budgetTree(), map[string]bool{"budget:1": true})
	v.Focus = 0

	press(v, tea.KeyEnter) // collapse budget:1

	got := keys(v.VisibleRows())
	want := []string{"budget:1", "budget:2"}
	if !equal(got, want) {
		t.Fatalf("visible after collapse = %v, want root siblings %v", got, want)
	}
}

func TestUpDownMoveAcrossVisibleRowsOnly(t *testing.T) {
	v := New(budgetTree(), map[string]bool{"budget:1": true})
	v.Focus = 2 // ip:11

	press(v, tea.KeyDown)
	row, _ := v.FocusedRow()
	if row.Node.Key != "budget:2" {
		t.Fatalf("down from ip:11 landed on %s, want budget:2 (collapsed descendants skipped)", row.Node.Key)
	}

	press(v, tea.KeyUp)
	row, _ = v.FocusedRow()
	if row.Node.Key != "ip:11" {
		t.Fatalf("up landed on %s, want ip:11", row.Node.Key)
	}

	press(v, tea.KeyHome)
	row, _ = v.FocusedRow()
	if row.Node.Key != "budget:1" {
		t.Fatalf("home landed on %s", row.Node.Key)
	}

	press(v, tea.KeyEnd)
	row, _ = v.FocusedRow()
	if row.Node.Key != "budget:2" {
		t.Fatalf("end landed on %s", row.Node.Key)
	}
}

func TestRightExpandsOrAdvances(t *testing.T) {
	v := New(budgetTree(), nil)
	v.Focus = 0

	press(v, tea.KeyRight) // expands budget:1
	if !v.Expanded["budget:1"] {
		t.Fatal("right on a collapsed parent should expand it")
	}
	row, _ := v.FocusedRow()
	if row.Node.Key != "budget:1" {
		t.Fatalf("focus moved to %s on expand, should stay put", row.Node.Key)
	}

	press(v, tea.KeyRight) // already expanded: move to next visible
	row, _ = v.FocusedRow()
	if row.Node.Key != "ip:10" {
		t.Fatalf("right on expanded parent landed on %s, want ip:10", row.Node.Key)
	}

	v.Expanded["ip:10"] = true
	v.Focus = 2 // cat:100, a leaf
	press(v, tea.KeyRight)
	row, _ = v.FocusedRow()
	if row.Node.Key != "cat:101" {
		t.Fatalf("right on a leaf landed on %s, want next visible cat:101", row.Node.Key)
	}
}

func TestLeftCollapsesOrJumpsToParent(t *testing.T) {
	v := New(budgetTree(), map[string]bool{"budget:1": true, "ip:10": true})
	v.Focus = 2 // cat:100

	press(v, tea.KeyLeft) // leaf: jump to parent
	row, _ := v.FocusedRow()
	if row.Node.Key != "ip:10" {
		t.Fatalf("left on leaf landed on %s, want parent ip:10", row.Node.Key)
	}

	press(v, tea.KeyLeft) // expanded parent: collapse
	if v.Expanded["ip:10"] {
		t.Fatal("left on an expanded parent should collapse it")
	}

	press(v, tea.KeyLeft) // collapsed child: jump to its parent
	row, _ = v.FocusedRow()
	if row.Node.Key != "budget:1" {
		t.Fatalf("left landed on %s, want budget:1", row.Node.Key)
	}
}

func TestToggleCallbackCarriesNewState(t *testing.T) {
	var gotKey string
	var gotState bool
	v := New(budgetTree(), nil)
	v.OnToggle = func(key string, expanded bool) { gotKey, gotState = key, expanded }
	v.Focus = 0

	press(v, tea.KeySpace)
	if gotKey != "budget:1" || !gotState {
		t.Fatalf("toggle callback got (%s, %v), want (budget:1, true)", gotKey, gotState)
	}

	press(v, tea.KeySpace)
	if gotKey != "budget:1" || gotState {
		t.Fatalf("second toggle got (%s, %v), want (budget:1, false)", gotKey, gotState)
	}
}

func TestNoToggleRowsActivateInstead(t *testing.T) {
	roots := []Node{
		{Key: "fx:1", Label: "USD/JPY", NoToggle: true, Children: []Node{
			{Key: "fx:1:rate", Label: "rate", Leaf: true},
		}},
	}
	var activated string
	v := New(roots, nil)
	v.OnActivate = func(r Row) { activated = r.Node.Key }

	press(v, tea.KeyEnter)
	if v.Expanded["fx:1"] {
		t.Fatal("NoToggle rows must not expand on activate")
	}
	if activated != "fx:1" {
		t.Fatalf("activated %q, want fx:1", activated)
	}
}

func TestCollapseClampsFocus(t *testing.T) {
	v := New(budgetTree(), map[string]bool{"budget:1": true, "ip:11": true})
	rows := v.VisibleRows()
	v.Focus = len(rows) - 1 // budget:2

	v.Focus = 0
	press(v, tea.KeyEnter) // collapse budget:1; only 2 rows remain
	if got := len(v.VisibleRows()); got != 2 {
		t.Fatalf("visible rows = %d, want 2", got)
	}
	if v.Focus < 0 || v.Focus >= 2 {
		t.Fatalf("focus %d out of range after collapse", v.Focus)
	}
}
