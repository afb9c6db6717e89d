package state

import (
	"strings"

	"github.com/funddeck/funddeck/internal/tabs"
)

// Level is one entry of the navigation stack: a tab's rows plus the cursor,
// filter, and viewport state the user left them in.
type Level struct {
	ID             string
	Title          string
	Items          []tabs.Item
	Full           []tabs.Item
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	Node           *tabs.Node
	ViewportOffset int
}

// NewLevel constructs a Level using the provided items and registry node.
func NewLevel(id, title string, items []tabs.Item, node *tabs.Node) *Level {
	l := &Level{
		ID:         id,
		Title:      title,
		Cursor:     -1,
		LastCursor: -1,
		Node:       node,
	}
	l.UpdateItems(items)
	return l
}

// IndexOf locates a row by identifier. Qualified IDs ("payments:generate")
// also match rows keyed by their bare suffix, since operation rows carry only
// the verb.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	if idx := l.indexOfExact(id); idx >= 0 {
		return idx
	}
	if sep := strings.LastIndex(id, ":"); sep >= 0 {
		return l.indexOfExact(id[sep+1:])
	}
	return -1
}

func (l *Level) indexOfExact(id string) int {
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// CurrentItem returns the row under the cursor.
func (l *Level) CurrentItem() (tabs.Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return tabs.Item{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems swaps in a fresh row set, reapplying the active filter and
// keeping the viewport where it was when that is still a valid offset.
func (l *Level) UpdateItems(items []tabs.Item) {
	offset := l.ViewportOffset
	l.Full = CloneItems(items)
	l.applyFilter()
	if offset < 0 || offset >= len(l.Items) {
		l.ViewportOffset = 0
		return
	}
	l.ViewportOffset = offset
}
