package tags

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/logging/events"
	"github.com/funddeck/funddeck/internal/validate"
)

// SearchDueMsg fires when the debounce window for a picker keystroke closes.
type SearchDueMsg struct {
	Seq   int
	Query string
}

// SearchResultMsg carries one search response. Results from superseded
// queries are applied as-is; in-flight requests are not cancelled, so a
// stale response can overwrite a newer one (known limitation).
type SearchResultMsg struct {
	Query string
	Tags  []api.Tag
	Err   error
}

// AssignDoneMsg reports an assignment (creating the tag first when needed)
// plus the rebuild job it enqueued. Created marks a tag minted by this
// assignment.
type AssignDoneMsg struct {
	Tag       api.Tag
	BundleKey string
	Job       api.Job
	Created   bool
	Err       error
}

// UnassignDoneMsg reports a direct-tag removal plus its rebuild job.
type UnassignDoneMsg struct {
	Tag       api.Tag
	BundleKey string
	Job       api.Job
	Err       error
}

// MutateDoneMsg reports an editor mutation already applied to the cache.
type MutateDoneMsg struct {
	Verb string
	Tag  api.Tag
	Err  error
}

// PickerPanel is the floating tag-assignment popover: debounced search over
// the tag list with a synthetic "create new tag" row when nothing matches.
type PickerPanel struct {
	client *api.Client
	cache  *Cache

	EntityType string
	EntityID   int64

	input     textinput.Model
	results   []api.Tag
	highlight int
	seq       int
	debounce  time.Duration
	searched  bool
}

// Row is one rendered picker line. Create marks the synthetic creation row.
type Row struct {
	Label  string
	Tag    api.Tag
	Create bool
}

func NewPickerPanel(client *api.Client, cache *Cache, entityType string, entityID int64, debounce time.Duration) *PickerPanel {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "search tags"
	input.Focus()
	return &PickerPanel{
		client:     client,
		cache:      cache,
		EntityType: entityType,
		EntityID:   entityID,
		input:      input,
		debounce:   debounce,
	}
}

// BundleKey names the chip bundle this panel assigns into.
func (p *PickerPanel) BundleKey() string {
	return fmt.Sprintf("%s:%d", p.EntityType, p.EntityID)
}

func (p *PickerPanel) Query() string { return p.input.Value() }

// Rows returns the rendered result list. When the query matches nothing a
// synthetic creation row is offered instead of an empty menu.
func (p *PickerPanel) Rows() []Row {
	rows := make([]Row, 0, len(p.results)+1)
	for _, t := range p.results {
		rows = append(rows, Row{Label: t.Name, Tag: t})
	}
	query := strings.TrimSpace(p.input.Value())
	if len(rows) == 0 && query != "" && p.searched {
		rows = append(rows, Row{Label: fmt.Sprintf("create new tag “%s”", query), Create: true})
	}
	return rows
}

func (p *PickerPanel) Highlight() int { return p.highlight }

// HandleKey routes one key event. Each keystroke that changes the query
// replaces the pending debounce timer: only the last value inside the window
// issues a search.
func (p *PickerPanel) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyDown:
		if n := len(p.Rows()); n > 0 {
			p.highlight = (p.highlight + 1) % n
		}
		return nil, true
	case tea.KeyUp:
		if n := len(p.Rows()); n > 0 {
			p.highlight = (p.highlight - 1 + n) % n
		}
		return nil, true
	case tea.KeyEnter:
		return p.submit(), true
	case tea.KeyCtrlD:
		return p.unassignHighlighted(), true
	case tea.KeyEscape:
		return nil, false
	}
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() == before {
		return cmd, true
	}
	p.seq++
	seq := p.seq
	query := p.input.Value()
	tick := tea.Tick(p.debounce, func(time.Time) tea.Msg {
		return SearchDueMsg{Seq: seq, Query: query}
	})
	return tea.Batch(cmd, tick), true
}

// Update consumes panel messages and returns follow-up commands.
func (p *PickerPanel) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case SearchDueMsg:
		// A newer keystroke superseded this timer.
		if m.Seq != p.seq {
			return nil
		}
		return p.searchCmd(m.Query)
	case SearchResultMsg:
		if m.Err != nil {
			return nil
		}
		p.results = m.Tags
		p.searched = true
		if p.highlight >= len(p.Rows()) {
			p.highlight = 0
		}
		return nil
	}
	return nil
}

func (p *PickerPanel) searchCmd(query string) tea.Cmd {
	client := p.client
	return func() tea.Msg {
		events.Tag.Search(query)
		found, err := client.SearchTags(context.Background(), query)
		return SearchResultMsg{Query: query, Tags: found, Err: err}
	}
}

// submit assigns the highlighted tag, or creates then assigns when the
// synthetic row is chosen. The rebuild-effective-tags job is enqueued in the
// same command; its progress surfaces through the status banner.
func (p *PickerPanel) submit() tea.Cmd {
	rows := p.Rows()
	if len(rows) == 0 || p.highlight < 0 || p.highlight >= len(rows) {
		return nil
	}
	row := rows[p.highlight]
	client := p.client
	entityType, entityID := p.EntityType, p.EntityID
	bundleKey := p.BundleKey()
	query := strings.TrimSpace(p.input.Value())

	return func() tea.Msg {
		ctx := context.Background()
		tag := row.Tag
		created := false
		if row.Create {
			name, err := validate.TagName(query)
			if err != nil {
				return AssignDoneMsg{BundleKey: bundleKey, Err: err}
			}
			tag, err = client.CreateTag(ctx, name)
			if err != nil {
				return AssignDoneMsg{BundleKey: bundleKey, Err: err}
			}
			created = true
		}
		if err := client.AssignTag(ctx, tag.ID, entityType, entityID); err != nil {
			return AssignDoneMsg{Tag: tag, BundleKey: bundleKey, Created: created, Err: err}
		}
		events.Tag.Assign(tag.ID, entityType, entityID)
		job, err := client.RebuildEffectiveTags(ctx, fmt.Sprintf("%s:%d", entityType, entityID))
		return AssignDoneMsg{Tag: tag, BundleKey: bundleKey, Job: job, Created: created, Err: err}
	}
}

// Assigned returns the direct chips of the bundle this panel targets, empty
// until the bundle is registered with the cache.
func (p *PickerPanel) Assigned() []api.Tag {
	bundle := p.cache.Bundle(p.BundleKey())
	if bundle == nil {
		return nil
	}
	return bundle.Direct
}

// unassignHighlighted removes the highlighted tag from the entity's direct
// set. Only tags actually carried by the bundle qualify.
func (p *PickerPanel) unassignHighlighted() tea.Cmd {
	rows := p.Rows()
	if p.highlight < 0 || p.highlight >= len(rows) || rows[p.highlight].Create {
		return nil
	}
	tag := rows[p.highlight].Tag
	assigned := false
	for _, t := range p.Assigned() {
		if t.ID == tag.ID {
			assigned = true
			break
		}
	}
	if !assigned {
		return nil
	}
	client := p.client
	entityType, entityID := p.EntityType, p.EntityID
	bundleKey := p.BundleKey()
	return func() tea.Msg {
		ctx := context.Background()
		if err := client.UnassignTag(ctx, tag.ID, entityType, entityID); err != nil {
			return UnassignDoneMsg{Tag: tag, BundleKey: bundleKey, Err: err}
		}
		events.Tag.Unassign(tag.ID, entityType, entityID)
		job, err := client.RebuildEffectiveTags(ctx, bundleKey)
		return UnassignDoneMsg{Tag: tag, BundleKey: bundleKey, Job: job, Err: err}
	}
}

// EditorPanel is the single-tag editor popover: rename, recolor, redescribe,
// deprecate, delete, merge. Deletion is refused while the tag is in use.
type EditorPanel struct {
	client *api.Client
	cache  *Cache

	Target api.Tag
}

func NewEditorPanel(client *api.Client, cache *Cache, target api.Tag) *EditorPanel {
	return &EditorPanel{client: client, cache: cache, Target: target}
}

// Rename normalizes and submits a new name.
func (e *EditorPanel) Rename(newName string) tea.Cmd {
	name, err := validate.TagName(newName)
	if err != nil {
		return reportMutation("rename", api.Tag{}, err)
	}
	if name == e.Target.Name {
		return nil
	}
	client, cache, id := e.client, e.cache, e.Target.ID
	return func() tea.Msg {
		updated, err := client.RenameTag(context.Background(), id, name)
		if err != nil {
			return MutateDoneMsg{Verb: "rename", Err: err}
		}
		events.Tag.Rename(id, name)
		cache.ApplyUpdate(updated)
		return MutateDoneMsg{Verb: "rename", Tag: updated}
	}
}

// Recolor patches the display color.
func (e *EditorPanel) Recolor(color string) tea.Cmd {
	return e.patch("recolor", map[string]interface{}{"color": color})
}

// Redescribe patches the description.
func (e *EditorPanel) Redescribe(description string) tea.Cmd {
	return e.patch("redescribe", map[string]interface{}{"description": description})
}

// Deprecate toggles the deprecation flag.
func (e *EditorPanel) Deprecate(deprecated bool) tea.Cmd {
	return e.patch("deprecate", map[string]interface{}{"is_deprecated": deprecated})
}

func (e *EditorPanel) patch(verb string, fields map[string]interface{}) tea.Cmd {
	client, cache, id := e.client, e.cache, e.Target.ID
	return func() tea.Msg {
		updated, err := client.PatchTag(context.Background(), id, fields)
		if err != nil {
			return MutateDoneMsg{Verb: verb, Err: err}
		}
		cache.ApplyUpdate(updated)
		return MutateDoneMsg{Verb: verb, Tag: updated}
	}
}

// Delete removes the tag. Refused client-side while usage is nonzero; the
// caller runs the confirmation flow before invoking this.
func (e *EditorPanel) Delete() tea.Cmd {
	if usage := e.cache.Usage(e.Target.ID); usage > 0 {
		events.Tag.DeleteRefused(e.Target.ID, usage)
		err := fmt.Errorf("tag %q has %d assignments; unassign or merge before deleting", e.Target.Name, usage)
		return reportMutation("delete", api.Tag{}, err)
	}
	client, cache, target := e.client, e.cache, e.Target
	return func() tea.Msg {
		if err := client.DeleteTag(context.Background(), target.ID); err != nil {
			return MutateDoneMsg{Verb: "delete", Err: err}
		}
		events.Tag.Delete(target.ID)
		cache.ApplyDelete(target.ID)
		return MutateDoneMsg{Verb: "delete", Tag: target}
	}
}

// Merge folds this tag into another.
func (e *EditorPanel) Merge(intoID int64) tea.Cmd {
	if intoID == e.Target.ID {
		return reportMutation("merge", api.Tag{}, fmt.Errorf("cannot merge a tag into itself"))
	}
	client, cache, fromID := e.client, e.cache, e.Target.ID
	return func() tea.Msg {
		merged, err := client.MergeTags(context.Background(), fromID, intoID)
		if err != nil {
			return MutateDoneMsg{Verb: "merge", Err: err}
		}
		events.Tag.Merge(fromID, intoID)
		cache.ApplyMerge(fromID, merged)
		return MutateDoneMsg{Verb: "merge", Tag: merged}
	}
}

func reportMutation(verb string, tag api.Tag, err error) tea.Cmd {
	return func() tea.Msg {
		return MutateDoneMsg{Verb: verb, Tag: tag, Err: err}
	}
}

// Panels enforces mutual exclusion between the two popovers: opening either
// one closes all others of both kinds.
type Panels struct {
	Picker *PickerPanel
	Editor *EditorPanel
}

func (ps *Panels) OpenPicker(p *PickerPanel) {
	ps.CloseAll()
	ps.Picker = p
}

func (ps *Panels) OpenEditor(e *EditorPanel) {
	ps.CloseAll()
	ps.Editor = e
}

func (ps *Panels) CloseAll() {
	ps.Picker = nil
	ps.Editor = nil
}

// Any reports whether a popover is showing.
func (ps *Panels) Any() bool { return ps.Picker != nil || ps.Editor != nil }
