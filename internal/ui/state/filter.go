package state

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/funddeck/funddeck/internal/tabs"
)

// SetFilter replaces the filter query, narrows the listing, and reseats the
// cursor: entering a query remembers the browse position and jumps to the
// best match, clearing it restores the remembered row.
func (l *Level) SetFilter(query string, cursor int) {
	active := strings.TrimSpace(query) != ""
	wasActive := strings.TrimSpace(l.Filter) != ""

	l.Filter = query
	l.FilterCursor = clamp(cursor, 0, len([]rune(query)))
	if active {
		if !wasActive {
			l.LastCursor = l.Cursor
		}
		l.Cursor = 0
	}
	restore := l.LastCursor

	l.applyFilter()

	if active {
		if idx := BestMatchIndex(l.Items, strings.TrimSpace(query)); idx >= 0 {
			l.Cursor = idx
		}
		return
	}
	if wasActive {
		if restore >= 0 && restore < len(l.Items) {
			l.Cursor = restore
		} else if len(l.Items) > 0 {
			l.Cursor = len(l.Items) - 1
		}
		l.LastCursor = -1
	}
}

func (l *Level) applyFilter() {
	l.Items = FilterItems(l.Full, l.Filter)
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	if l.Cursor < 0 {
		l.Cursor = len(l.Items) - 1
		return
	}
	if l.Cursor >= len(l.Items) {
		l.Cursor = len(l.Items) - 1
	}
	if l.ViewportOffset >= len(l.Items) {
		l.ViewportOffset = 0
	}
}

// FilterCursorPos returns the rune offset of the filter cursor, clamped to
// the current query.
func (l *Level) FilterCursorPos() int {
	return clamp(l.FilterCursor, 0, len([]rune(l.Filter)))
}

// spliceFilter rewrites the query rune range [from,to) with the replacement
// text and parks the cursor after it.
func (l *Level) spliceFilter(from, to int, replacement string) {
	runes := []rune(l.Filter)
	insert := []rune(replacement)
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:from]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[to:]...)
	l.SetFilter(string(updated), from+len(insert))
}

// InsertFilterText types text at the filter cursor.
func (l *Level) InsertFilterText(text string) bool {
	if text == "" {
		return false
	}
	pos := l.FilterCursorPos()
	l.spliceFilter(pos, pos, text)
	return true
}

// DeleteFilterRuneBackward removes the rune before the cursor.
func (l *Level) DeleteFilterRuneBackward() bool {
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	l.spliceFilter(pos-1, pos, "")
	return true
}

// DeleteFilterWordBackward removes the word before the cursor.
func (l *Level) DeleteFilterWordBackward() bool {
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	l.spliceFilter(prevWordStart([]rune(l.Filter), pos), pos, "")
	return true
}

func (l *Level) setFilterCursor(pos int) bool {
	if pos == l.FilterCursorPos() {
		return false
	}
	l.FilterCursor = pos
	return true
}

// MoveFilterCursorStart moves the filter cursor to the start of the query.
func (l *Level) MoveFilterCursorStart() bool { return l.setFilterCursor(0) }

// MoveFilterCursorEnd moves the filter cursor past the last rune.
func (l *Level) MoveFilterCursorEnd() bool {
	return l.setFilterCursor(len([]rune(l.Filter)))
}

// MoveFilterCursorWordBackward hops to the start of the previous word.
func (l *Level) MoveFilterCursorWordBackward() bool {
	pos := l.FilterCursorPos()
	return l.setFilterCursor(prevWordStart([]rune(l.Filter), pos))
}

// MoveFilterCursorWordForward hops past the current word and its trailing
// spaces.
func (l *Level) MoveFilterCursorWordForward() bool {
	pos := l.FilterCursorPos()
	return l.setFilterCursor(nextWordStart([]rune(l.Filter), pos))
}

// MoveFilterCursorRuneBackward steps one rune left.
func (l *Level) MoveFilterCursorRuneBackward() bool {
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	return l.setFilterCursor(pos - 1)
}

// MoveFilterCursorRuneForward steps one rune right.
func (l *Level) MoveFilterCursorRuneForward() bool {
	pos := l.FilterCursorPos()
	if pos >= len([]rune(l.Filter)) {
		return false
	}
	return l.setFilterCursor(pos + 1)
}

// prevWordStart walks left over trailing spaces then over the word itself.
func prevWordStart(runes []rune, pos int) int {
	for pos > 0 && unicode.IsSpace(runes[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(runes[pos-1]) {
		pos--
	}
	return pos
}

// nextWordStart walks right over the word under the cursor then over the
// spaces after it.
func nextWordStart(runes []rune, pos int) int {
	for pos < len(runes) && !unicode.IsSpace(runes[pos]) {
		pos++
	}
	for pos < len(runes) && unicode.IsSpace(runes[pos]) {
		pos++
	}
	return pos
}

// FilterItems narrows record rows to those matching the query. Operation rows
// are pinned: they stay at the top of the listing whatever the query says, so
// a tab's verbs remain reachable while searching its records.
func FilterItems(items []tabs.Item, query string) []tabs.Item {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return CloneItems(items)
	}
	pinned := make([]tabs.Item, 0, len(items))
	records := make([]tabs.Item, 0, len(items))
	for _, item := range items {
		if item.IsOp() {
			pinned = append(pinned, item)
		} else {
			records = append(records, item)
		}
	}
	return append(pinned, matchRecords(records, trimmed)...)
}

// matchRecords runs the fuzzy pass first and falls back to a plain substring
// scan over labels and IDs when fuzzy finds nothing.
func matchRecords(records []tabs.Item, query string) []tabs.Item {
	if ranks := fuzzy.RankFindNormalizedFold(query, labelsOf(records)); len(ranks) > 0 {
		keep := make(map[int]struct{}, len(ranks))
		for _, rank := range ranks {
			keep[rank.OriginalIndex] = struct{}{}
		}
		matched := make([]tabs.Item, 0, len(keep))
		for i, item := range records {
			if _, ok := keep[i]; ok {
				matched = append(matched, item)
			}
		}
		if len(matched) > 0 {
			return matched
		}
	}
	lower := strings.ToLower(query)
	matched := make([]tabs.Item, 0, len(records))
	for _, item := range records {
		if strings.Contains(strings.ToLower(item.Label), lower) ||
			strings.Contains(strings.ToLower(item.ID), lower) {
			matched = append(matched, item)
		}
	}
	return matched
}

// BestMatchIndex picks the row the cursor should land on for a query. Pinned
// operation rows never win: the cursor seeks the record the query names, by
// exact match, then prefix, then substring, then closest fuzzy distance.
func BestMatchIndex(items []tabs.Item, query string) int {
	query = strings.TrimSpace(query)
	if len(items) == 0 {
		return -1
	}
	if query == "" {
		return 0
	}
	lower := strings.ToLower(query)
	cascade := []func(tabs.Item) bool{
		func(it tabs.Item) bool {
			return strings.EqualFold(it.Label, query) || strings.EqualFold(it.ID, query)
		},
		func(it tabs.Item) bool { return strings.HasPrefix(strings.ToLower(it.Label), lower) },
		func(it tabs.Item) bool { return strings.HasPrefix(strings.ToLower(it.ID), lower) },
		func(it tabs.Item) bool { return strings.Contains(strings.ToLower(it.ID), lower) },
		func(it tabs.Item) bool { return strings.Contains(strings.ToLower(it.Label), lower) },
	}
	for _, matches := range cascade {
		for i, item := range items {
			if !item.IsOp() && matches(item) {
				return i
			}
		}
	}
	if idx := closestFuzzy(items, query); idx >= 0 {
		return idx
	}
	return 0
}

func closestFuzzy(items []tabs.Item, query string) int {
	bestIdx, bestDist := -1, 0
	for _, rank := range fuzzy.RankFindNormalizedFold(query, labelsOf(items)) {
		i := rank.OriginalIndex
		if i < 0 || i >= len(items) || items[i].IsOp() {
			continue
		}
		if bestIdx < 0 || rank.Distance < bestDist ||
			(rank.Distance == bestDist && i < bestIdx) {
			bestIdx, bestDist = i, rank.Distance
		}
	}
	return bestIdx
}

func labelsOf(items []tabs.Item) []string {
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	return labels
}
