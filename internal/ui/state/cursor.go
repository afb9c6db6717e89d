package state

// seekCursor moves the cursor to an absolute row, clamping to the listing
// bounds, and reports whether the position changed.
func (l *Level) seekCursor(row int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clamp(row, 0, len(l.Items)-1)
	return l.Cursor != old
}

// MoveCursorHome jumps to the first row.
func (l *Level) MoveCursorHome() bool { return l.seekCursor(0) }

// MoveCursorEnd jumps to the last row.
func (l *Level) MoveCursorEnd() bool { return l.seekCursor(len(l.Items) - 1) }

// MoveCursorPageUp scrolls the cursor up by one page.
func (l *Level) MoveCursorPageUp(maxVisible int) bool {
	return l.seekCursor(clamp(l.Cursor, 0, len(l.Items)) - l.pageSize(maxVisible))
}

// MoveCursorPageDown scrolls the cursor down by one page.
func (l *Level) MoveCursorPageDown(maxVisible int) bool {
	return l.seekCursor(clamp(l.Cursor, 0, len(l.Items)) + l.pageSize(maxVisible))
}

// pageSize is the viewport height capped to the listing, never less than one
// row for a non-empty listing.
func (l *Level) pageSize(maxVisible int) int {
	total := len(l.Items)
	if total == 0 {
		return 0
	}
	if maxVisible <= 0 || maxVisible > total {
		return total
	}
	return maxVisible
}

// EnsureCursorVisible scrolls the viewport the minimal distance that brings
// the cursor row on screen.
func (l *Level) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, len(l.Items)-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := len(l.Items) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	offset := clamp(l.ViewportOffset, 0, maxOffset)
	if l.Cursor < offset {
		offset = l.Cursor
	} else if last := offset + maxVisible - 1; l.Cursor > last {
		offset = clamp(l.Cursor-maxVisible+1, 0, maxOffset)
	}
	l.ViewportOffset = offset
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
