package picker

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeText(t *testing.T, p *Picker, text string) {
	t.Helper()
	p.Focus()
	for _, r := range text {
		p.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func press(p *Picker, key tea.KeyType) {
	p.HandleKey(tea.KeyMsg{Type: key})
}

func labels(opts []*Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Label
	}
	return out
}

func equalStrings(a, b []string) bool {
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

func vendorOptions() []Option {
	return []Option{
		{Value: "3", Label: "Initech"},
		{Value: "1", Label: "Acme"},
		{Value: "2", Label: "Globex"},
	}
}

func TestEmptyQueryShowsAllSortedHighlightOnSelected(t *testing.T) {
	p := New("vendor", vendorOptions(), Config{Prefill: true}, nil)
	p.SetSelectedValue("2")

	got := labels(p.Visible())
	want := []string{"Acme", "Globex", "Initech"}
	if !equalStrings(got, want) {
		t.Fatalf("visible = %v, want %v", got, want)
	}
	if p.Highlight() != 1 {
		t.Fatalf("highlight = %d, want 1 (Globex)", p.Highlight())
	}
}

func TestEmptyQueryNoSelectionHighlightNone(t *testing.T) {
	p := New("vendor", vendorOptions(), Config{}, nil)
	if p.Highlight() != -1 {
		t.Fatalf("highlight = %d, want -1", p.Highlight())
	}
}

func TestQueryFiltersAndHighlightsFirstMatch(t *testing.T) {
	p := New("vendor", vendorOptions(), Config{}, nil)
	typeText(t, p, "ini")

	got := labels(p.Visible())
	if !equalStrings(got, []string{"Initech"}) {
		t.Fatalf("visible = %v, want [Initech]", got)
	}
	if p.Highlight() != 0 {
		t.Fatalf("highlight = %d, want 0", p.Highlight())
	}
	if !p.Open() {
		t.Fatal("typing should open the menu")
	}

	typeText(t, p, "zzz")
	if len(p.Visible()) != 0 {
		t.Fatalf("visible = %v, want none", labels(p.Visible()))
	}
	if p.Highlight() != -1 {
		t.Fatalf("highlight = %d, want -1", p.Highlight())
	}
}

func TestArrowKeysWrapAndOpen(t *testing.T) {
	p := New("vendor", vendorOptions(), Config{}, nil)

	press(p, tea.KeyDown)
	if !p.Open() {
		t.Fatal("ArrowDown should open the menu")
	}
	if p.Highlight() != 0 {
		t.Fatalf("highlight = %d, want 0", p.Highlight())
	}
	press(p, tea.KeyUp)
	if p.Highlight() != len(p.Visible())-1 {
		t.Fatalf("highlight = %d, want wrap to last", p.Highlight())
	}
	press(p, tea.KeyDown)
	if p.Highlight() != 0 {
		t.Fatalf("highlight = %d, want wrap to 0", p.Highlight())
	}
}

func TestSelectionProtocol(t *testing.T) {
	var changes []string
	p := New("vendor", vendorOptions(), Config{
		OnChange: func(o *Option) { changes = append(changes, o.Value) },
	}, nil)

	press(p, tea.KeyDown)
	press(p, tea.KeyEnter)

	if p.Value() != "1" {
		t.Fatalf("committed value = %q, want 1 (Acme)", p.Value())
	}
	if p.Selected() == nil || p.Selected().Label != "Acme" {
		t.Fatalf("selected = %+v, want Acme", p.Selected())
	}
	if p.Open() {
		t.Fatal("selection should close the menu")
	}
	if p.Query() != "Acme" {
		t.Fatalf("input text = %q, want Acme", p.Query())
	}
	if len(changes) != 1 {
		t.Fatalf("change notifications = %d, want exactly 1", len(changes))
	}
}

func TestEnterMatchesTypedLabelCaseInsensitive(t *testing.T) {
	creates := 0
	p := New("vendor", vendorOptions(), Config{
		Create: func(label string) (*Option, error) {
			creates++
			return &Option{Value: "99", Label: label}, nil
		},
	}, nil)

	typeText(t, p, "ACME")
	press(p, tea.KeyEnter)

	if creates != 0 {
		t.Fatalf("create called %d times for an existing label", creates)
	}
	if p.Value() != "1" {
		t.Fatalf("committed value = %q, want 1", p.Value())
	}
}

func TestCreateFlow(t *testing.T) {
	posts := 0
	p := New("funding-source", nil, Config{
		Create: func(label string) (*Option, error) {
			posts++
			return &Option{Value: "7", Label: label, Raw: map[string]interface{}{"id": 7}}, nil
		},
	}, nil)

	typeText(t, p, "Q3 Ops")
	press(p, tea.KeyEnter)

	if posts != 1 {
		t.Fatalf("create called %d times, want exactly 1", posts)
	}
	opts := p.Options()
	if len(opts) != 1 || opts[0].Value != "7" || opts[0].Label != "Q3 Ops" {
		t.Fatalf("options = %+v, want one {7, Q3 Ops}", opts)
	}
	if p.Selected() != opts[0] {
		t.Fatal("created option should become selected")
	}
}

func TestCreateFailureLeavesStateUntouched(t *testing.T) {
	var reported error
	p := New("vendor", vendorOptions(), Config{
		Create:  func(string) (*Option, error) { return nil, errors.New("boom") },
		OnError: func(err error) { reported = err },
	}, nil)

	typeText(t, p, "Novel Corp")
	press(p, tea.KeyEnter)

	if reported == nil {
		t.Fatal("error was not reported")
	}
	if len(p.Options()) != 3 {
		t.Fatalf("option count = %d, want 3", len(p.Options()))
	}
	if p.Selected() != nil {
		t.Fatal("failed create must not select anything")
	}
}

func TestEditPreservesPointerIdentity(t *testing.T) {
	p := New("vendor", vendorOptions(), Config{
		Edit: func(o *Option, newLabel string) (*Option, error) {
			return &Option{Value: o.Value, Label: newLabel, Raw: "patched"}, nil
		},
		Prefill: true,
	}, nil)
	p.SetSelectedValue("1")
	before := p.Selected()

	p.EditOption(before, "Acme Industrial")

	if p.Selected() != before {
		t.Fatal("edit must mutate in place; selected pointer changed")
	}
	if before.Label != "Acme Industrial" || before.Raw != "patched" {
		t.Fatalf("option after edit = %+v", before)
	}
	if p.Query() != "Acme Industrial" {
		t.Fatalf("input text = %q, want renamed label", p.Query())
	}
	if _, ok := p.Lookup("1"); !ok {
		t.Fatal("selected value must remain present in the option map")
	}
}

func TestEditNoopOnEmptyOrUnchangedLabel(t *testing.T) {
	edits := 0
	p := New("vendor", vendorOptions(), Config{
		Edit: func(o *Option, l string) (*Option, error) { edits++; return o, nil },
	}, nil)
	opt, _ := p.Lookup("1")

	p.EditOption(opt, "")
	p.EditOption(opt, "  ")
	p.EditOption(opt, "Acme")

	if edits != 0 {
		t.Fatalf("edit callback invoked %d times for no-op labels", edits)
	}
}

func TestTwoStepDeleteCancelIsFree(t *testing.T) {
	removes := 0
	p := New("vendor", vendorOptions(), Config{
		Remove: func(*Option) error { removes++; return nil },
	}, nil)
	opt, _ := p.Lookup("2")

	// Cancel at the first prompt.
	p.BeginDelete(opt)
	if p.DeletePrompt() == "" {
		t.Fatal("expected first confirmation prompt")
	}
	p.CancelDelete()

	// Cancel at the second prompt.
	p.BeginDelete(opt)
	p.ConfirmDelete()
	if p.DeletePrompt() == "" {
		t.Fatal("expected second confirmation prompt")
	}
	p.CancelDelete()

	if removes != 0 {
		t.Fatalf("remove called %d times after cancels, want 0", removes)
	}
	if len(p.Options()) != 3 {
		t.Fatalf("option count = %d, want 3 untouched", len(p.Options()))
	}
}

func TestDeleteSelectedClearsSelection(t *testing.T) {
	p := New("vendor", vendorOptions(), Config{
		Remove:  func(*Option) error { return nil },
		Prefill: true,
	}, nil)
	p.SetSelectedValue("2")

	opt, _ := p.Lookup("2")
	p.BeginDelete(opt)
	p.ConfirmDelete()
	p.ConfirmDelete()

	if p.Selected() != nil {
		t.Fatal("selection should clear when the selected option is removed")
	}
	if p.Value() != "" {
		t.Fatalf("committed value = %q, want empty", p.Value())
	}
	if p.Query() != "" {
		t.Fatalf("input text = %q, want reverted empty", p.Query())
	}
	if _, ok := p.Lookup("2"); ok {
		t.Fatal("removed option still present")
	}
}

func TestDeleteFailureLeavesStateUntouched(t *testing.T) {
	p := New("vendor", vendorOptions(), Config{
		Remove:  func(*Option) error { return fmt.Errorf("409 in use") },
		Prefill: true,
	}, nil)
	p.SetSelectedValue("2")

	opt, _ := p.Lookup("2")
	p.BeginDelete(opt)
	p.ConfirmDelete()
	p.ConfirmDelete()

	if len(p.Options()) != 3 {
		t.Fatalf("option count = %d, want 3", len(p.Options()))
	}
	if p.Selected() != opt {
		t.Fatal("selection must survive a failed remove")
	}
}

func TestEscapeClosesMenuWithoutChangingSelection(t *testing.T) {
	p := New("vendor", vendorOptions(), Config{Prefill: true}, nil)
	p.SetSelectedValue("1")

	press(p, tea.KeyDown)
	press(p, tea.KeyDown)
	press(p, tea.KeyEscape)

	if p.Open() {
		t.Fatal("escape should close the menu")
	}
	if p.Value() != "1" {
		t.Fatalf("committed value = %q, want untouched 1", p.Value())
	}
}

func TestCustomMatcherAndSorter(t *testing.T) {
	p := New("vendor", vendorOptions(), Config{
		Matcher: func(o *Option, needle string) bool { return o.Value == needle },
		Sorter:  func(a, b *Option) int { return -defaultSorter(a, b) },
	}, nil)

	got := labels(p.Visible())
	if !equalStrings(got, []string{"Initech", "Globex", "Acme"}) {
		t.Fatalf("reverse-sorted visible = %v", got)
	}

	typeText(t, p, "2")
	got = labels(p.Visible())
	if !equalStrings(got, []string{"Globex"}) {
		t.Fatalf("matcher-filtered visible = %v", got)
	}
}

func TestCtrlEBeginsPrefilledRename(t *testing.T) {
	edits := 0
	cfg := Config{
		Edit: func(opt *Option, newLabel string) (*Option, error) {
			edits++
			return &Option{Value: opt.Value, Label: newLabel}, nil
		},
	}
	p := New("vendor", vendorOptions(), cfg, nil)

	press(p, tea.KeyDown) // highlight Acme
	press(p, tea.KeyCtrlE)
	if p.Editing() == nil {
		t.Fatal("ctrl+e did not start a rename")
	}
	if p.Query() != "Acme" {
		t.Fatalf("rename input = %q, want prefilled current label", p.Query())
	}

	typeText(t, p, " Corp")
	press(p, tea.KeyEnter)
	if edits != 1 {
		t.Fatalf("edit callback ran %d times, want 1", edits)
	}
	if p.Editing() != nil {
		t.Fatal("rename mode did not end on enter")
	}
	opt, ok := p.Lookup("1")
	if !ok || opt.Label != "Acme Corp" {
		t.Fatalf("option after rename = %+v", opt)
	}
}

func TestCtrlERenameUnchangedLabelIsNoop(t *testing.T) {
	edits := 0
	cfg := Config{
		Edit: func(opt *Option, newLabel string) (*Option, error) {
			edits++
			return nil, nil
		},
	}
	p := New("vendor", vendorOptions(), cfg, nil)

	press(p, tea.KeyDown)
	press(p, tea.KeyCtrlE)
	press(p, tea.KeyEnter) // label untouched
	if edits != 0 {
		t.Fatalf("edit callback ran %d times on unchanged label", edits)
	}
	if p.Editing() != nil {
		t.Fatal("rename mode did not end")
	}
}

func TestCtrlDStagesTwoStepDelete(t *testing.T) {
	removes := 0
	cfg := Config{Remove: func(*Option) error { removes++; return nil }}
	p := New("vendor", vendorOptions(), cfg, nil)

	press(p, tea.KeyDown) // highlight Acme
	press(p, tea.KeyCtrlD)
	if p.DeletePrompt() == "" {
		t.Fatal("ctrl+d did not stage a delete")
	}

	// First prompt declined: nothing runs.
	p.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if removes != 0 || p.DeletePrompt() != "" {
		t.Fatalf("declined delete ran callback (%d) or left prompt %q", removes, p.DeletePrompt())
	}

	// Confirmed twice: exactly one removal.
	press(p, tea.KeyCtrlD)
	p.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	p.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if removes != 1 {
		t.Fatalf("remove callback ran %d times, want 1", removes)
	}
	if _, ok := p.Lookup("1"); ok {
		t.Fatal("deleted option still present")
	}
}

func TestEnterOnCommittedClosedPickerIsUnhandled(t *testing.T) {
	p := New("vendor", vendorOptions(), Config{}, nil)

	handled, _ := p.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if handled {
		t.Fatal("enter on an empty closed picker should fall through to the form")
	}

	typeText(t, p, "Acme")
	press(p, tea.KeyEnter) // commits Acme, closes the menu
	if p.Value() != "1" {
		t.Fatalf("value = %q, want 1", p.Value())
	}
	handled, _ = p.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if handled {
		t.Fatal("enter on a committed closed picker should fall through to the form")
	}
}
