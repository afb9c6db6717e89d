package tabs

import (
	"sort"
	"strings"
)

// Node represents a tab entry definition within the registry tree.
type Node struct {
	ID       string
	Loader   Loader
	Action   Action
	Children map[string]*Node
	// Confirm marks destructive nodes that go through the two-step
	// confirmation flow before their Action runs.
	Confirm bool
}

// Registry exposes lookup utilities for tab definitions.
type Registry struct {
	root  *Node
	nodes map[string]*Node
}

// BuildRegistry constructs the registry from the loader/handler maps.
func BuildRegistry() *Registry {
	nodes := make(map[string]*Node)

	ensure := func(id string) *Node {
		if node, ok := nodes[id]; ok {
			return node
		}
		node := &Node{ID: id, Children: make(map[string]*Node)}
		nodes[id] = node
		return node
	}

	root := ensure("root")
	root.Loader = func(Context) ([]Item, error) { return RootItems(), nil }

	for id, loader := range CategoryLoaders() {
		node := ensure(id)
		node.Loader = loader
	}

	for id, loader := range ActionLoaders() {
		node := ensure(id)
		node.Loader = loader
	}

	for id, action := range ActionHandlers() {
		node := ensure(id)
		node.Action = action
	}

	markConfirm := []string{
		"funding:delete",
		"projects:delete",
		"categories:delete",
		"vendors:delete",
		"payments:delete",
		"fx:delete",
	}
	for _, id := range markConfirm {
		if node, ok := nodes[id]; ok {
			node.Confirm = true
		}
	}

	for id, node := range nodes {
		if id == "root" {
			continue
		}
		parentID, key := parentKey(id)
		parent := ensure(parentID)
		parent.Children[key] = node
	}

	// Surface each node's operations as rows above its records, so every
	// registered action is reachable by cursor alone. Pure grouping nodes
	// (projects:group) list only their operations.
	for id, node := range nodes {
		if id == "root" || len(node.Children) == 0 {
			continue
		}
		node.Loader = withOpRows(node.Loader, node)
	}

	return &Registry{root: root, nodes: nodes}
}

// opOrder fixes the display order of operation rows; unknown keys follow in
// lexical order.
var opOrder = []string{
	"new", "edit", "delete", "generate", "run", "adhoc", "save",
	"lot", "milestone", "template", "tree", "rebuild", "group",
}

func opRowItems(node *Node) []Item {
	keys := make([]string, 0, len(node.Children))
	for key := range node.Children {
		keys = append(keys, key)
	}
	rank := func(key string) int {
		for i, known := range opOrder {
			if key == known {
				return i
			}
		}
		return len(opOrder)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	items := make([]Item, len(keys))
	for i, key := range keys {
		items[i] = Item{ID: key, Label: OpRowPrefix + prettyLabel(key)}
	}
	return items
}

// withOpRows prepends the node's operation rows to its record listing.
func withOpRows(loader Loader, node *Node) Loader {
	return func(ctx Context) ([]Item, error) {
		rows := opRowItems(node)
		if loader == nil {
			return rows, nil
		}
		records, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return append(rows, records...), nil
	}
}

// Root returns the registry root node.
func (r *Registry) Root() *Node {
	return r.root
}

// Find locates a node by ID.
func (r *Registry) Find(id string) (*Node, bool) {
	node, ok := r.nodes[id]
	return node, ok
}

// Child resolves a child node under the given parent for the provided key.
func (r *Registry) Child(parentID, key string) (*Node, bool) {
	parent, ok := r.nodes[parentID]
	if !ok {
		return nil, false
	}
	node, ok := parent.Children[key]
	return node, ok
}

func parentKey(id string) (string, string) {
	if id == "" {
		return "root", ""
	}
	if !strings.Contains(id, ":") {
		return "root", id
	}
	idx := strings.LastIndex(id, ":")
	return id[:idx], id[idx+1:]
}
