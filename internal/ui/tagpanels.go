package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/tags"
)

// tabEntityTypes maps browse tabs to the entity scope their rows are tagged
// under.
var tabEntityTypes = map[string]string{
	"budgets":  "budget",
	"projects": "item_project",
	"entries":  "entry",
	"vendors":  "vendor",
}

// openTagPicker attaches the tag assignment panel to the focused row of a
// taggable tab.
func (m *Model) openTagPicker() tea.Cmd {
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	entityType, ok := tabEntityTypes[current.ID]
	if !ok {
		m.setInfo("rows on this tab cannot be tagged")
		return nil
	}
	item, ok := current.CurrentItem()
	if !ok {
		return nil
	}
	id, err := strconv.ParseInt(item.ID, 10, 64)
	if err != nil {
		return nil
	}
	m.startTagPicker(entityType, id)
	return nil
}

func (m *Model) startTagPicker(entityType string, id int64) {
	m.tagPanels.OpenPicker(tags.NewPickerPanel(m.client, m.tagCache, entityType, id, m.searchDebounce))
	m.mode = ModeTagPicker
	m.errMsg = ""
	m.forceClearInfo()
}

// openTagEditor opens the mutation panel for the focused tag on the tags tab.
func (m *Model) openTagEditor() tea.Cmd {
	current := m.currentLevel()
	if current == nil || current.ID != "tags" {
		m.setInfo("tag editing lives on the tags tab")
		return nil
	}
	item, ok := current.CurrentItem()
	if !ok {
		return nil
	}
	target, ok := item.Raw.(api.Tag)
	if !ok {
		if usage, isUsage := item.Raw.(api.TagUsage); isUsage {
			target = usage.Tag
		} else {
			return nil
		}
	}
	m.tagPanels.OpenEditor(tags.NewEditorPanel(m.client, m.tagCache, target))
	m.tagInput = ""
	m.tagDeleteStep = 0
	m.mode = ModeTagEditor
	m.errMsg = ""
	m.forceClearInfo()
	return nil
}

func (m *Model) handleTagPickerKey(msg tea.Msg) (bool, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.tagPanels.Picker == nil {
		return false, nil
	}
	cmd, consumed := m.tagPanels.Picker.HandleKey(keyMsg)
	if !consumed {
		// Escape falls through here and closes the panel.
		m.tagPanels.CloseAll()
		m.mode = ModeBrowse
		return true, nil
	}
	return true, cmd
}

// handleTagEditorKey drives the editor with a one-line command syntax:
// rename <name>, color <hex>, desc <text>, deprecate, restore, delete,
// merge <tag-id>.
func (m *Model) handleTagEditorKey(msg tea.Msg) (bool, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.tagPanels.Editor == nil {
		return false, nil
	}
	if m.tagDeleteStep > 0 {
		switch keyMsg.String() {
		case "y", "enter":
			if m.tagDeleteStep == 1 {
				m.tagDeleteStep = 2
				return true, nil
			}
			m.tagDeleteStep = 0
			return true, m.tagPanels.Editor.Delete()
		case "n", "esc", "ctrl+c":
			m.tagDeleteStep = 0
			m.setInfo("cancelled")
			return true, nil
		}
		return true, nil
	}
	switch keyMsg.Type {
	case tea.KeyEsc:
		m.tagPanels.CloseAll()
		m.tagInput = ""
		m.tagDeleteStep = 0
		m.mode = ModeBrowse
		return true, nil
	case tea.KeyBackspace, tea.KeyCtrlH:
		if m.tagInput != "" {
			runes := []rune(m.tagInput)
			m.tagInput = string(runes[:len(runes)-1])
		}
		return true, nil
	case tea.KeyEnter:
		cmd := m.runTagEditorCommand(strings.TrimSpace(m.tagInput))
		m.tagInput = ""
		return true, cmd
	case tea.KeySpace:
		m.tagInput += " "
		return true, nil
	case tea.KeyRunes:
		m.tagInput += string(keyMsg.Runes)
		return true, nil
	}
	return true, nil
}

func (m *Model) runTagEditorCommand(line string) tea.Cmd {
	if line == "" {
		return nil
	}
	editor := m.tagPanels.Editor
	verb, rest := line, ""
	if idx := strings.IndexByte(line, ' '); idx >= 0 {
		verb, rest = line[:idx], strings.TrimSpace(line[idx+1:])
	}
	switch verb {
	case "rename":
		return editor.Rename(rest)
	case "color":
		return editor.Recolor(rest)
	case "desc":
		return editor.Redescribe(rest)
	case "deprecate":
		return editor.Deprecate(true)
	case "restore":
		return editor.Deprecate(false)
	case "delete":
		// Nonzero usage is refused outright; unused tags go through the same
		// two-step confirmation as row deletes.
		if m.tagCache.Usage(editor.Target.ID) > 0 {
			return editor.Delete()
		}
		m.tagDeleteStep = 1
		return nil
	case "merge":
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			m.errMsg = "merge needs a numeric tag id"
			return nil
		}
		return editor.Merge(id)
	}
	m.errMsg = fmt.Sprintf("unknown tag command %q", verb)
	return nil
}

// handleTagPanelMsg forwards debounce/search messages to the live picker.
// Results arriving after the panel closed are dropped.
func (m *Model) handleTagPanelMsg(msg tea.Msg) tea.Cmd {
	if m.tagPanels.Picker == nil {
		return nil
	}
	return m.tagPanels.Picker.Update(msg)
}

func (m *Model) handleTagAssignDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(tags.AssignDoneMsg)
	if !ok {
		return nil
	}
	if done.Err != nil {
		m.errMsg = done.Err.Error()
		return nil
	}
	if done.Created {
		m.tagCache.ApplyCreate(done.Tag)
	}
	m.tagCache.ApplyAssign(done.Tag, done.BundleKey)
	m.errMsg = ""
	m.setInfo(fmt.Sprintf("assigned %q to %s", done.Tag.Name, done.BundleKey))
	if m.watcher != nil {
		m.watcher.Track(done.Job)
	}
	m.tagPanels.CloseAll()
	if m.mode == ModeTagPicker {
		m.mode = ModeBrowse
	}
	return nil
}

func (m *Model) handleTagUnassignDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(tags.UnassignDoneMsg)
	if !ok {
		return nil
	}
	if done.Err != nil {
		m.errMsg = done.Err.Error()
		return nil
	}
	m.tagCache.ApplyUnassign(done.Tag.ID, done.BundleKey)
	m.errMsg = ""
	m.setInfo(fmt.Sprintf("unassigned %q from %s", done.Tag.Name, done.BundleKey))
	if m.watcher != nil {
		m.watcher.Track(done.Job)
	}
	return nil
}

func (m *Model) handleTagMutateDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(tags.MutateDoneMsg)
	if !ok {
		return nil
	}
	if done.Err != nil {
		m.errMsg = done.Err.Error()
		return nil
	}
	m.errMsg = ""
	m.setInfo(fmt.Sprintf("tag %s: %s", done.Verb, done.Tag.Name))
	m.tagPanels.CloseAll()
	m.tagInput = ""
	m.tagDeleteStep = 0
	if m.mode == ModeTagEditor {
		m.mode = ModeBrowse
	}
	if lvl := m.findLevelByID("tags"); lvl != nil {
		if node, ok := m.registry.Find("tags"); ok && node.Loader != nil {
			m.loading = true
			m.pendingID = "tags"
			return m.reloadTabCmd("tags", lvl.Title, node.Loader)
		}
	}
	return nil
}

func (m *Model) viewTagPickerWithHeader(header string) string {
	p := m.tagPanels.Picker
	lines := []string{}
	if header != "" {
		lines = append(lines, header)
	}
	lines = append(lines, styles.Header.Render("assign tag to "+p.BundleKey()), "")
	if assigned := p.Assigned(); len(assigned) > 0 {
		chips := make([]string, len(assigned))
		for i, t := range assigned {
			chips[i] = styles.TagChip.Render(t.Name)
		}
		lines = append(lines, "assigned: "+strings.Join(chips, " "), "")
	}
	lines = append(lines, "» "+p.Query())
	rows := p.Rows()
	for i, row := range rows {
		label := row.Label
		if row.Create {
			label = styles.Info.Render(label)
		}
		if i == p.Highlight() {
			lines = append(lines, styles.SelectedItem.Render("> "+label))
		} else {
			lines = append(lines, styles.Item.Render("  "+label))
		}
	}
	if len(rows) == 0 {
		lines = append(lines, styles.Info.Render("  (type to search)"))
	}
	lines = append(lines, "", "enter assign/create  ctrl+d unassign  ↑/↓ move  esc close")
	return joinLines(lines)
}

func (m *Model) viewTagEditorWithHeader(header string) string {
	e := m.tagPanels.Editor
	lines := []string{}
	if header != "" {
		lines = append(lines, header)
	}
	name := e.Target.Name
	chip := styles.TagChip.Render(name)
	if e.Target.IsDeprecated {
		chip = styles.TagDeprecated.Render(name + " (deprecated)")
	}
	lines = append(lines, styles.Header.Render("edit tag"), "", chip)
	if e.Target.Description != "" {
		lines = append(lines, styles.Info.Render(e.Target.Description))
	}
	lines = append(lines, "", "» "+m.tagInput)
	if m.tagDeleteStep > 0 {
		prompt := fmt.Sprintf("delete %q? (y/n)", name)
		if m.tagDeleteStep == 2 {
			prompt = fmt.Sprintf("%q cannot be undone. really delete? (y/n)", name)
		}
		lines = append(lines, "", styles.Error.Render(prompt))
	}
	if m.errMsg != "" {
		lines = append(lines, "", styles.Error.Render(m.errMsg))
	}
	lines = append(lines, "", "rename <name> | color <hex> | desc <text> | deprecate | restore | delete | merge <id>  (esc close)")
	return joinLines(lines)
}
