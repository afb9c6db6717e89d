package state

import "github.com/funddeck/funddeck/internal/tabs"

// CloneItems produces a shallow copy of the provided tab rows.
func CloneItems(items []tabs.Item) []tabs.Item {
	dup := make([]tabs.Item, len(items))
	copy(dup, items)
	return dup
}
