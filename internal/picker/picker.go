package picker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/logging/events"
)

// Config wires a Picker to its backing resource. Create, Edit and Remove are
// optional; leaving one nil disables that affordance. Matcher and Sorter
// default to case-insensitive label substring and lexical label order.
type Config struct {
	Create  func(label string) (*Option, error)
	Edit    func(opt *Option, newLabel string) (*Option, error)
	Remove  func(opt *Option) error
	Matcher func(opt *Option, needleLower string) bool
	Sorter  func(a, b *Option) int

	// Prefill populates the input with the selected label on construction.
	Prefill bool
	// Key names the synchronization group; empty means no group.
	Key string

	// OnChange fires exactly once per committed selection.
	OnChange func(opt *Option)
	// OnError receives callback failures; state is left untouched.
	OnError func(err error)
}

// Picker is a text-filterable select replacement with inline option CRUD and
// cross-instance option propagation through a Registry group.
type Picker struct {
	name string
	cfg  Config

	options   []*Option
	optionMap map[string]*Option
	selected  *Option

	// committed mirrors the chosen value for external readers, the way a
	// hidden native select would.
	committed string

	input             textinput.Model
	open              bool
	highlight         int
	visible           []*Option
	hasShownSelection bool

	deleteTarget *Option
	deleteStep   int
	editTarget   *Option

	registry *Registry
	detached bool
}

// New builds a picker over the initial option list and registers it with the
// group registry when a sync key is configured.
func New(name string, initial []Option, cfg Config, reg *Registry) *Picker {
	if cfg.Matcher == nil {
		cfg.Matcher = defaultMatcher
	}
	if cfg.Sorter == nil {
		cfg.Sorter = defaultSorter
	}
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = name
	p := &Picker{
		name:      name,
		cfg:       cfg,
		optionMap: make(map[string]*Option, len(initial)),
		input:     input,
		highlight: -1,
		registry:  reg,
	}
	for i := range initial {
		opt := initial[i]
		if _, dup := p.optionMap[opt.Value]; dup {
			continue
		}
		dup := opt
		p.options = append(p.options, &dup)
		p.optionMap[opt.Value] = &dup
	}
	if reg != nil && cfg.Key != "" {
		reg.register(p)
	}
	p.applyFilter()
	return p
}

// Name returns the picker's display name.
func (p *Picker) Name() string { return p.name }

// Key returns the synchronization group key, empty when ungrouped.
func (p *Picker) Key() string { return p.cfg.Key }

// Value returns the committed selection value, the external read surface.
func (p *Picker) Value() string { return p.committed }

// Selected returns the selected option, nil when none.
func (p *Picker) Selected() *Option { return p.selected }

// Options returns the option list in insertion order.
func (p *Picker) Options() []*Option {
	out := make([]*Option, len(p.options))
	copy(out, p.options)
	return out
}

// Lookup finds an option by value.
func (p *Picker) Lookup(value string) (*Option, bool) {
	o, ok := p.optionMap[value]
	return o, ok
}

// Open reports whether the menu is showing.
func (p *Picker) Open() bool { return p.open }

// Query returns the current input text.
func (p *Picker) Query() string { return p.input.Value() }

// Highlight returns the highlighted index into Visible, -1 when none.
func (p *Picker) Highlight() int { return p.highlight }

// Highlighted returns the highlighted option, nil when none.
func (p *Picker) Highlighted() *Option {
	if p.highlight < 0 || p.highlight >= len(p.visible) {
		return nil
	}
	return p.visible[p.highlight]
}

// Visible returns the filtered, sorted rows currently rendered.
func (p *Picker) Visible() []*Option {
	out := make([]*Option, len(p.visible))
	copy(out, p.visible)
	return out
}

// Focus gives the input keyboard focus.
func (p *Picker) Focus() tea.Cmd {
	return p.input.Focus()
}

// Blur drops keyboard focus and closes the menu.
func (p *Picker) Blur() {
	p.input.Blur()
	p.open = false
}

// Detach marks the picker dead for its group; the registry sweeps it on the
// next broadcast. There is no explicit teardown beyond this.
func (p *Picker) Detach() { p.detached = true }

// SetSelectedValue seeds the selection without firing OnChange, used when a
// form opens over an existing record. Unknown values clear the selection.
func (p *Picker) SetSelectedValue(value string) {
	opt, ok := p.optionMap[value]
	if !ok {
		p.selected = nil
		p.committed = ""
		p.hasShownSelection = false
		if p.cfg.Prefill {
			p.input.SetValue("")
		}
		p.applyFilter()
		return
	}
	p.selected = opt
	p.committed = opt.Value
	if p.cfg.Prefill {
		p.input.SetValue(opt.Label)
		p.input.CursorEnd()
		p.hasShownSelection = true
	}
	p.applyFilter()
}

// HandleKey processes one key event. It returns true when the key was
// consumed. Escape with a closed menu, and Enter with nothing to commit, are
// left to the caller so the embedding form can advance or submit. Ctrl+E
// starts an inline rename of the highlighted option; Ctrl+D stages its
// two-step removal.
func (p *Picker) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if p.deleteTarget != nil {
		switch {
		case msg.Type == tea.KeyEnter || msg.String() == "y":
			p.ConfirmDelete()
		case msg.Type == tea.KeyEscape || msg.String() == "n":
			p.CancelDelete()
		}
		return true, nil
	}
	if p.editTarget != nil {
		switch msg.Type {
		case tea.KeyEnter:
			target := p.editTarget
			p.EditOption(target, strings.TrimSpace(p.input.Value()))
			p.endEdit()
			return true, nil
		case tea.KeyEscape:
			p.endEdit()
			return true, nil
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return true, cmd
	}
	switch msg.Type {
	case tea.KeyDown:
		p.moveHighlight(1)
		return true, nil
	case tea.KeyUp:
		p.moveHighlight(-1)
		return true, nil
	case tea.KeyCtrlE:
		p.StartEdit(p.actionTarget())
		return true, nil
	case tea.KeyCtrlD:
		p.BeginDelete(p.actionTarget())
		return true, nil
	case tea.KeyEnter:
		if !p.open {
			typed := strings.TrimSpace(p.input.Value())
			if typed == "" || (p.selected != nil && typed == p.selected.Label) {
				return false, nil
			}
		}
		p.Submit()
		return true, nil
	case tea.KeyEscape:
		if p.open {
			p.Close()
			return true, nil
		}
		return false, nil
	}
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.open = true
		p.applyFilter()
	}
	return true, cmd
}

// actionTarget resolves which option Ctrl+E/Ctrl+D act on: the highlighted
// row, else the committed selection.
func (p *Picker) actionTarget() *Option {
	if opt := p.Highlighted(); opt != nil {
		return opt
	}
	return p.selected
}

// moveHighlight steps the highlight with wraparound, opening the menu first.
func (p *Picker) moveHighlight(delta int) {
	if !p.open {
		p.open = true
		p.applyFilter()
		if p.highlight >= 0 {
			return
		}
	}
	n := len(p.visible)
	if n == 0 {
		p.highlight = -1
		return
	}
	if p.highlight < 0 {
		if delta > 0 {
			p.highlight = 0
		} else {
			p.highlight = n - 1
		}
		return
	}
	p.highlight = (p.highlight + delta + n) % n
}

// Submit commits the highlighted row; with no usable highlight it falls back
// to a case-insensitive exact-label lookup of the typed text, then to inline
// creation when enabled.
func (p *Picker) Submit() {
	if p.open {
		if opt := p.Highlighted(); opt != nil {
			p.selectOption(opt)
			return
		}
	}
	typed := strings.TrimSpace(p.input.Value())
	if typed == "" {
		p.Close()
		return
	}
	lower := strings.ToLower(typed)
	for _, opt := range p.options {
		if strings.ToLower(opt.Label) == lower {
			p.selectOption(opt)
			return
		}
	}
	if p.cfg.Create != nil {
		p.CreateOption(typed)
		return
	}
	p.Close()
}

// Close hides the menu without changing the selection.
func (p *Picker) Close() {
	p.open = false
	p.highlight = -1
}

// selectOption implements the selection protocol: set selected, mirror the
// committed value, mark the selection as shown, close the menu, and notify
// exactly once.
func (p *Picker) selectOption(opt *Option) {
	p.selected = opt
	p.committed = opt.Value
	p.hasShownSelection = true
	p.input.SetValue(opt.Label)
	p.input.CursorEnd()
	p.Close()
	events.Picker.Select(p.name, opt.Value)
	if p.cfg.OnChange != nil {
		p.cfg.OnChange(opt)
	}
}

// CreateOption runs the inline create path for the given label. Local state
// mutates only after the callback succeeds; the new option is appended,
// broadcast to peers, and selected.
func (p *Picker) CreateOption(label string) {
	label = strings.TrimSpace(label)
	if label == "" || p.cfg.Create == nil {
		return
	}
	opt, err := p.cfg.Create(label)
	if err != nil {
		p.reportError(err)
		return
	}
	if opt == nil {
		return
	}
	events.Picker.Create(p.name, opt.Label)
	p.addLocal(opt)
	p.broadcast(opAdd, opt)
	p.selectOption(opt)
}

// StartEdit puts the picker into inline rename mode, prefilling the input
// with the option's current label. Enter commits through EditOption; Escape
// abandons the rename.
func (p *Picker) StartEdit(opt *Option) {
	if opt == nil || p.cfg.Edit == nil {
		return
	}
	p.editTarget = opt
	p.Close()
	p.input.SetValue(opt.Label)
	p.input.CursorEnd()
}

// Editing returns the option being renamed, nil when none.
func (p *Picker) Editing() *Option { return p.editTarget }

// endEdit leaves rename mode and restores the input to the committed
// selection's label (or empties it).
func (p *Picker) endEdit() {
	p.editTarget = nil
	if p.selected != nil && p.hasShownSelection {
		p.input.SetValue(p.selected.Label)
		p.input.CursorEnd()
	} else {
		p.input.SetValue("")
	}
	p.applyFilter()
}

// EditOption renames an option in place so pointer identity (and with it the
// selected pointer) survives. Empty or unchanged labels are a no-op.
func (p *Picker) EditOption(opt *Option, newLabel string) {
	newLabel = strings.TrimSpace(newLabel)
	if opt == nil || newLabel == "" || newLabel == opt.Label || p.cfg.Edit == nil {
		return
	}
	updated, err := p.cfg.Edit(opt, newLabel)
	if err != nil {
		p.reportError(err)
		return
	}
	if updated == nil {
		updated = &Option{Value: opt.Value, Label: newLabel, Raw: opt.Raw}
	}
	opt.Label = updated.Label
	opt.Raw = updated.Raw
	events.Picker.Edit(p.name, opt.Value, opt.Label)
	if p.selected == opt && p.hasShownSelection {
		p.input.SetValue(opt.Label)
		p.input.CursorEnd()
	}
	p.applyFilter()
	p.broadcast(opUpdate, opt)
}

// BeginDelete stages the two-step confirmation for an option. Nothing is
// called or mutated until the second confirmation.
func (p *Picker) BeginDelete(opt *Option) {
	if opt == nil || p.cfg.Remove == nil {
		return
	}
	p.deleteTarget = opt
	p.deleteStep = 1
}

// DeletePrompt returns the confirmation text for the pending step, empty when
// no delete is staged.
func (p *Picker) DeletePrompt() string {
	if p.deleteTarget == nil {
		return ""
	}
	if p.deleteStep == 1 {
		return fmt.Sprintf("delete %q?", p.deleteTarget.Label)
	}
	return fmt.Sprintf("%q cannot be undone. really delete?", p.deleteTarget.Label)
}

// ConfirmDelete advances past the current prompt; the second confirmation
// performs the removal.
func (p *Picker) ConfirmDelete() {
	if p.deleteTarget == nil {
		return
	}
	if p.deleteStep == 1 {
		p.deleteStep = 2
		return
	}
	target := p.deleteTarget
	p.deleteTarget = nil
	p.deleteStep = 0
	p.removeOption(target)
}

// CancelDelete abandons the staged delete at either prompt.
func (p *Picker) CancelDelete() {
	p.deleteTarget = nil
	p.deleteStep = 0
}

func (p *Picker) removeOption(opt *Option) {
	if err := p.cfg.Remove(opt); err != nil {
		p.reportError(err)
		return
	}
	events.Picker.Remove(p.name, opt.Value)
	p.removeLocal(opt.Value)
	p.applyFilter()
	p.broadcast(opRemove, opt)
}

func (p *Picker) addLocal(opt *Option) {
	if _, exists := p.optionMap[opt.Value]; exists {
		return
	}
	p.options = append(p.options, opt)
	p.optionMap[opt.Value] = opt
	p.applyFilter()
}

func (p *Picker) removeLocal(value string) {
	opt, ok := p.optionMap[value]
	if !ok {
		return
	}
	delete(p.optionMap, value)
	for i, o := range p.options {
		if o == opt {
			p.options = append(p.options[:i], p.options[i+1:]...)
			break
		}
	}
	if p.selected == opt {
		p.clearSelection()
	}
}

// clearSelection nulls the selection and reverts the input per Prefill: with
// nothing selected there is nothing to prefill, so the text empties.
func (p *Picker) clearSelection() {
	p.selected = nil
	p.committed = ""
	p.hasShownSelection = false
	p.input.SetValue("")
}

// applyFilter recomputes the rendered rows. Empty trimmed query shows every
// option sorted, with the highlight on the selected row; a non-empty query
// shows the matcher subset sorted, highlight 0 when any row matched else -1.
func (p *Picker) applyFilter() {
	query := strings.TrimSpace(p.input.Value())
	if query == "" {
		p.visible = p.sorted(p.options)
		p.highlight = -1
		if p.selected != nil {
			for i, opt := range p.visible {
				if opt == p.selected {
					p.highlight = i
					break
				}
			}
		}
		return
	}
	needle := strings.ToLower(query)
	matched := make([]*Option, 0, len(p.options))
	for _, opt := range p.options {
		if p.cfg.Matcher(opt, needle) {
			matched = append(matched, opt)
		}
	}
	p.visible = p.sorted(matched)
	if len(p.visible) > 0 {
		p.highlight = 0
	} else {
		p.highlight = -1
	}
}

func (p *Picker) sorted(opts []*Option) []*Option {
	out := make([]*Option, len(opts))
	copy(out, opts)
	sort.SliceStable(out, func(i, j int) bool {
		return p.cfg.Sorter(out[i], out[j]) < 0
	})
	return out
}

func (p *Picker) broadcast(op groupOp, opt *Option) {
	if p.registry == nil || p.cfg.Key == "" {
		return
	}
	p.registry.broadcast(p, op, opt)
}

func (p *Picker) reportError(err error) {
	if p.cfg.OnError != nil {
		p.cfg.OnError(err)
		return
	}
}

// applyPeerAdd mirrors a group add. Idempotent: a peer that already carries
// the value is skipped. Callbacks are never re-invoked here.
func (p *Picker) applyPeerAdd(opt *Option) {
	if _, exists := p.optionMap[opt.Value]; exists {
		return
	}
	dup := opt.clone()
	p.options = append(p.options, dup)
	p.optionMap[dup.Value] = dup
	p.refreshIfOpen()
}

// applyPeerUpdate mirrors a group rename; no-op when the value is absent.
func (p *Picker) applyPeerUpdate(opt *Option) {
	local, ok := p.optionMap[opt.Value]
	if !ok {
		return
	}
	local.Label = opt.Label
	local.Raw = opt.Raw
	if p.selected == local && p.hasShownSelection {
		p.input.SetValue(local.Label)
		p.input.CursorEnd()
	}
	p.refreshIfOpen()
}

// applyPeerRemove mirrors a group delete; no-op when the value is absent.
func (p *Picker) applyPeerRemove(value string) {
	if _, ok := p.optionMap[value]; !ok {
		return
	}
	p.removeLocal(value)
	p.refreshIfOpen()
}

// refreshIfOpen re-renders the menu only when it is showing; closed menus
// recompute on their next open.
func (p *Picker) refreshIfOpen() {
	if p.open {
		p.applyFilter()
	}
}

// View renders the input line plus the open menu rows, or the pending
// rename/delete prompt when one is staged.
func (p *Picker) View() string {
	var b strings.Builder
	b.WriteString(p.input.View())
	if p.deleteTarget != nil {
		b.WriteString("\n  " + p.DeletePrompt() + " (y/n)")
		return b.String()
	}
	if p.editTarget != nil {
		b.WriteString(fmt.Sprintf("\n  renaming %q (enter save, esc cancel)", p.editTarget.Label))
		return b.String()
	}
	if !p.open {
		return b.String()
	}
	for i, opt := range p.visible {
		b.WriteString("\n")
		marker := "  "
		if i == p.highlight {
			marker = "> "
		}
		b.WriteString(marker)
		b.WriteString(opt.Label)
	}
	if len(p.visible) == 0 {
		b.WriteString("\n  (no matches)")
	}
	return b.String()
}
