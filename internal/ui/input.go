package ui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/funddeck/funddeck/internal/logging/events"
)

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(l *level, before int) {
	if l == nil {
		return
	}
	if before != l.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

// handleTextInput applies filter editing keys. Returns true when consumed.
func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	if m.loading {
		return false
	}
	current := m.currentLevel()
	if current == nil {
		return false
	}
	switch msg.String() {
	case "ctrl+u":
		if current.Filter == "" {
			return false
		}
		return m.editFilter(current,
			func() bool { current.SetFilter("", 0); return true },
			func() { events.Filter.Cleared(current.ID) })
	case "ctrl+w":
		return m.editFilter(current, current.DeleteFilterWordBackward,
			func() { events.Filter.Backspace(current.ID, current.Filter) })
	case "ctrl+a":
		return m.moveFilterCursor(current, current.MoveFilterCursorStart)
	case "ctrl+e":
		return m.moveFilterCursor(current, current.MoveFilterCursorEnd)
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		return m.editFilter(current, current.DeleteFilterRuneBackward,
			func() { events.Filter.Backspace(current.ID, current.Filter) })
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) || unicode.IsSpace(r) {
				return false
			}
		}
		return m.typeIntoFilter(current, string(msg.Runes))
	case tea.KeySpace:
		return m.typeIntoFilter(current, " ")
	case tea.KeyLeft:
		return m.moveFilterCursor(current, current.MoveFilterCursorRuneBackward)
	case tea.KeyRight:
		return m.moveFilterCursor(current, current.MoveFilterCursorRuneForward)
	}
	return false
}

// editFilter runs a query mutation; when it changed anything, the banner
// state is cleared, the mutation is traced, and the viewport resynced.
func (m *Model) editFilter(l *level, mutate func() bool, trace func()) bool {
	before := l.FilterCursorPos()
	if !mutate() {
		return false
	}
	m.noteFilterCursorChange(l, before)
	m.forceClearInfo()
	m.errMsg = ""
	trace()
	m.syncViewport(l)
	return true
}

func (m *Model) moveFilterCursor(l *level, move func() bool) bool {
	before := l.FilterCursorPos()
	if !move() {
		return false
	}
	m.noteFilterCursorChange(l, before)
	events.Filter.Cursor(l.ID, l.FilterCursor)
	return true
}

func (m *Model) typeIntoFilter(l *level, text string) bool {
	return m.editFilter(l,
		func() bool { return l.InsertFilterText(text) },
		func() { events.Filter.Append(l.ID, l.Filter) })
}

const filterPlaceholder = "(type to search)"

// filterPrompt renders the search line: prompt glyph, the query split around
// a block caret, or the placeholder when nothing is typed yet.
func (m *Model) filterPrompt() string {
	current := m.currentLevel()
	if current == nil {
		return ">"
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}

	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}

	if current.Filter == "" {
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		head, tail := splitFirstRune(filterPlaceholder)
		return prompt + m.renderFilterCursor(head) + renderStyled(styles.FilterPlaceholder, tail)
	}

	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	runes := []rune(current.Filter)
	pos := current.FilterCursorPos()
	caret, after := " ", ""
	if pos < len(runes) {
		caret = string(runes[pos])
		after = string(runes[pos+1:])
	}
	return prompt +
		renderStyled(styles.Filter, string(runes[:pos])) +
		m.renderFilterCursor(caret) +
		renderStyled(styles.Filter, after)
}

func splitFirstRune(s string) (string, string) {
	runes := []rune(s)
	if len(runes) == 0 {
		return "", ""
	}
	return string(runes[0]), string(runes[1:])
}

func renderStyled(style *lipgloss.Style, value string) string {
	if style == nil || value == "" {
		return value
	}
	return style.Render(value)
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy().Inline(true)
	if m.filterCursor.Blink {
		return base.Render(char)
	}
	if styles.Cursor != nil {
		return base.Inherit(styles.Cursor.Copy().Inline(true)).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}
