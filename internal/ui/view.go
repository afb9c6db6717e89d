package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	inspectorPanelMinWidth = 36  // minimum cols for the detail panel; below this no split
	inspectorPanelFraction = 0.4 // fraction of total width given to the detail panel
)

var (
	inspectorBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
}

// inspectorPanelWidth returns the width in columns for the right-hand detail
// panel. Returns 0 when the terminal is too narrow to split.
func (m *Model) inspectorPanelWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := int(float64(m.width) * inspectorPanelFraction)
	if w < inspectorPanelMinWidth {
		return 0
	}
	return w
}

// menuColumnWidth returns the width available for the left-hand list column.
func (m *Model) menuColumnWidth() int {
	return m.width - m.inspectorPanelWidth()
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.menuHeader()
	switch m.mode {
	case ModeForm:
		if m.form != nil {
			return m.viewFormWithHeader(header)
		}
	case ModeConfirm:
		if m.confirm != nil {
			return m.viewConfirmWithHeader(header)
		}
	case ModeTree:
		if m.treeView != nil {
			return m.viewTreeWithHeader(header)
		}
	case ModeTagPicker:
		if m.tagPanels.Picker != nil {
			return m.viewTagPickerWithHeader(header)
		}
	case ModeTagEditor:
		if m.tagPanels.Editor != nil {
			return m.viewTagEditorWithHeader(header)
		}
	}
	if m.hasInspector() {
		return m.viewSideBySide(header)
	}
	return m.viewVertical(header)
}

// viewVertical is the single-column layout used when the terminal is too
// narrow to split, or on the root tab list.
func (m *Model) viewVertical(header string) string {
	lines := make([]styledLine, 0, 16)
	if header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Header})
	}
	lines = append(lines, m.listLines(m.width)...)
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: browseFooterHint, style: styles.Footer})
	}
	lines = limitHeight(lines, m.height-bottomBarRows, m.width)
	lines = applyWidth(lines, m.width)
	lines = append(lines, m.bottomBar()...)
	return renderLines(lines)
}

// viewSideBySide renders the item list on the left and the detail panel for
// the focused row on the right.
func (m *Model) viewSideBySide(header string) string {
	menuW := m.menuColumnWidth()
	panelW := m.inspectorPanelWidth()

	contentLines := make([]styledLine, 0, 16)
	if header != "" {
		contentLines = append(contentLines, styledLine{text: header, style: styles.Header})
	}
	contentLines = append(contentLines, m.listLines(menuW)...)
	if info := m.currentInfo(); info != "" {
		contentLines = append(contentLines, styledLine{})
		contentLines = append(contentLines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		contentLines = append(contentLines, styledLine{})
		contentLines = append(contentLines, styledLine{text: browseFooterHint, style: styles.Footer})
	}

	panelH := m.height - bottomBarRows
	if panelH < 1 {
		panelH = 1
	}
	if len(contentLines) > panelH {
		contentLines = contentLines[:panelH]
	}
	for len(contentLines) < panelH {
		contentLines = append(contentLines, styledLine{})
	}

	contentLines = applyWidth(contentLines, menuW)
	leftStr := renderLines(contentLines)

	// Pad/truncate every rendered row to exactly menuW visible columns so
	// JoinHorizontal keeps the panel flush to the right edge regardless of
	// content length or cursor-blink state.
	leftRows := strings.Split(leftStr, "\n")
	for i, row := range leftRows {
		w := lipgloss.Width(row)
		if w > menuW {
			leftRows[i] = truncate.StringWithTail(row, uint(menuW-1), "…")
		} else if w < menuW {
			leftRows[i] = row + strings.Repeat(" ", menuW-w)
		}
	}
	leftStr = strings.Join(leftRows, "\n")

	rightStr := m.renderInspectorPanel(m.activeInspector(), panelW, panelH)

	topSection := lipgloss.JoinHorizontal(lipgloss.Top, leftStr, rightStr)

	bottomLines := applyWidth(m.bottomBar(), m.width)
	return topSection + "\n" + renderLines(bottomLines)
}

// bottomBar rows: banner + error/loading + filter prompt.
const bottomBarRows = 3

const browseFooterHint = "↑/↓ move  enter open  ctrl+t tags  ctrl+g tag admin  ctrl+b tree  esc back  ctrl+c quit"

func (m *Model) bottomBar() []styledLine {
	var bannerLine styledLine
	if m.banner != "" {
		bannerStyle := styles.Banner
		if m.bannerErr {
			bannerStyle = styles.BannerError
		}
		bannerLine = styledLine{text: m.banner, style: bannerStyle}
	}
	var statusLine styledLine
	switch {
	case m.errMsg != "":
		statusLine = styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	case m.loading:
		label := m.pendingLabel
		if label == "" {
			label = m.pendingID
		}
		statusLine = styledLine{text: fmt.Sprintf("Working on %s…", label), style: styles.Loading}
	}
	return []styledLine{
		bannerLine,
		statusLine,
		{text: m.filterPrompt()},
	}
}

// listLines renders the visible slice of the current level's items.
func (m *Model) listLines(width int) []styledLine {
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	m.syncViewport(current)
	lines := make([]styledLine, 0, len(current.Items))
	start := 0
	displayItems := current.Items
	if maxItems := m.maxVisibleItems(); maxItems > 0 && len(displayItems) > maxItems {
		start = current.ViewportOffset
		if start < 0 {
			start = 0
		}
		if start+maxItems > len(displayItems) {
			start = len(displayItems) - maxItems
			if start < 0 {
				start = 0
			}
			current.ViewportOffset = start
		}
		displayItems = displayItems[start : start+maxItems]
	}
	if len(current.Items) == 0 {
		msg := "(no entries)"
		if current.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", current.Filter)
		}
		return append(lines, styledLine{text: msg, style: styles.Info})
	}
	for i, item := range displayItems {
		idx := start + i
		lines = append(lines, buildItemLine(item.Label, idx, current, width))
	}
	return lines
}

// buildItemLine constructs a single styledLine for a list row. width is the
// target column width; when > 0 the text is padded so the focused row's
// background spans the full container.
func buildItemLine(label string, idx int, current *level, width int) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	if idx == current.Cursor {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	fullText := indicator + " " + label
	if width > 0 {
		if pad := width - len([]rune(fullText)); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1, // just the ▌ character
	}
}

// renderInspectorPanel draws the bordered detail box with exactly height rows
// and totalWidth columns.
func (m *Model) renderInspectorPanel(data *inspectorData, totalWidth, height int) string {
	const (
		tlc = "╭"
		trc = "╮"
		blc = "╰"
		brc = "╯"
		hz  = "─"
		vt  = "│"
	)

	innerW := totalWidth - 2
	innerH := height - 2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}

	titleLabel := "Detail"
	var contentLines []string
	if data != nil {
		if data.title != "" {
			titleLabel = data.title
		}
		contentLines = data.lines
		if len(contentLines) > innerH {
			contentLines = contentLines[:innerH]
		}
	}

	titleSeg := " " + titleLabel + " "
	dashes := totalWidth - 4 - len([]rune(titleSeg))
	if dashes < 0 {
		titleSeg = " … "
		dashes = totalWidth - 4 - len([]rune(titleSeg))
	}
	if dashes < 0 {
		dashes = 0
	}
	topLine := inspectorBorderStyle.Render(tlc+hz) +
		styles.InspectorTitle.Render(titleSeg) +
		inspectorBorderStyle.Render(strings.Repeat(hz, dashes)+hz+trc)
	bottomLine := inspectorBorderStyle.Render(blc + strings.Repeat(hz, innerW) + brc)

	rows := make([]string, 0, height)
	rows = append(rows, topLine)
	for i := 0; i < innerH; i++ {
		var content string
		if i < len(contentLines) {
			content = contentLines[i]
		}
		w := lipgloss.Width(content)
		if w > innerW {
			content = truncate.StringWithTail(content, uint(innerW-1), "…")
			w = lipgloss.Width(content)
		}
		if w < innerW {
			content = content + strings.Repeat(" ", innerW-w)
		}
		if styles.InspectorBody != nil {
			content = styles.InspectorBody.Render(content)
		}
		rows = append(rows, inspectorBorderStyle.Render(vt)+content+inspectorBorderStyle.Render(vt))
	}
	rows = append(rows, bottomLine)
	return strings.Join(rows, "\n")
}

// viewConfirmWithHeader overlays the two-step delete prompt on the browse view.
func (m *Model) viewConfirmWithHeader(header string) string {
	lines := make([]styledLine, 0, 8)
	if header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Header})
	}
	lines = append(lines, m.listLines(m.width)...)
	lines = append(lines, styledLine{})
	lines = append(lines, styledLine{text: m.confirmPrompt(), style: styles.Error})
	lines = limitHeight(lines, m.height, m.width)
	lines = applyWidth(lines, m.width)
	return renderLines(lines)
}

func (m *Model) menuHeader() string {
	segments := m.headerSegments()
	if len(segments) == 0 {
		return ""
	}
	return strings.Join(segments, headerSeparator)
}

func (m *Model) headerSegments() []string {
	depth := len(m.stack)
	if depth == 0 {
		return nil
	}
	root := strings.TrimSpace(m.rootTitle)
	if root == "" {
		root = defaultRootTitle
	}
	if depth == 1 {
		return []string{root}
	}
	segments := make([]string, 0, depth)
	if m.rootTabID != "" {
		segments = append(segments, root)
	}
	for i := 1; i < depth; i++ {
		segment := headerSegmentForLevel(m.stack[i])
		if segment == "" {
			continue
		}
		segments = append(segments, segment)
	}
	if len(segments) == 0 {
		return []string{root}
	}
	return segments
}

func headerSegmentForLevel(l *level) string {
	if l == nil {
		return ""
	}
	candidate := strings.TrimSpace(l.Title)
	if candidate == "" {
		candidate = strings.TrimSpace(l.ID)
		if idx := strings.LastIndex(candidate, ":"); idx >= 0 {
			candidate = candidate[idx+1:]
		}
	}
	candidate = headerSegmentCleaner.Replace(candidate)
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ""
	}
	fields := strings.Fields(strings.ToLower(candidate))
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	if current := m.currentLevel(); current != nil {
		m.syncViewport(current)
	}
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := bottomBarRows
	if header := m.menuHeader(); header != "" {
		used++
	}
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && time.Now().Before(m.infoExpire) {
		return
	}
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		result[i] = styledLine{
			text:          truncateText(line.text, width),
			style:         line.style,
			prefixStyle:   line.prefixStyle,
			highlightFrom: line.highlightFrom,
		}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
