package tags

import (
	"sort"
	"strings"

	"github.com/funddeck/funddeck/internal/api"
)

// Cache is the shared in-memory tag store. Every on-screen bundle of
// direct/inherited/effective chips registers here so a successful mutation
// patches all of them without a reload. Owned by the application model and
// touched only from the update loop, so no locking.
type Cache struct {
	tags    map[int64]api.Tag
	usage   map[int64]int
	bundles map[string]*api.TagBundle
}

func NewCache() *Cache {
	return &Cache{
		tags:    make(map[int64]api.Tag),
		usage:   make(map[int64]int),
		bundles: make(map[string]*api.TagBundle),
	}
}

// Load replaces the tag set, keeping registered bundles.
func (c *Cache) Load(tags []api.Tag) {
	c.tags = make(map[int64]api.Tag, len(tags))
	for _, t := range tags {
		c.tags[t.ID] = t
	}
}

// LoadUsage replaces the usage counts.
func (c *Cache) LoadUsage(counts []api.TagUsage) {
	c.usage = make(map[int64]int, len(counts))
	for _, u := range counts {
		c.tags[u.Tag.ID] = u.Tag
		c.usage[u.Tag.ID] = u.Assignments
	}
}

// Get returns a tag by id.
func (c *Cache) Get(id int64) (api.Tag, bool) {
	t, ok := c.tags[id]
	return t, ok
}

// ByName finds a tag by its normalized name.
func (c *Cache) ByName(name string) (api.Tag, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range c.tags {
		if t.Name == name {
			return t, true
		}
	}
	return api.Tag{}, false
}

// All returns every cached tag sorted by name.
func (c *Cache) All() []api.Tag {
	out := make([]api.Tag, 0, len(c.tags))
	for _, t := range c.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Usage returns the assignment count for a tag, zero when unknown.
func (c *Cache) Usage(id int64) int { return c.usage[id] }

// CanDelete reports whether deletion is allowed: only unused tags go.
func (c *Cache) CanDelete(id int64) bool { return c.usage[id] == 0 }

// RegisterBundle attaches an on-screen chip bundle under a stable key, e.g.
// "budget:12". Re-registering the same key replaces the previous pointer.
func (c *Cache) RegisterBundle(key string, bundle *api.TagBundle) {
	if bundle == nil {
		delete(c.bundles, key)
		return
	}
	c.bundles[key] = bundle
}

// DropBundle detaches a bundle when its view unmounts.
func (c *Cache) DropBundle(key string) { delete(c.bundles, key) }

// Bundle returns the registered chip bundle for a key, nil when absent.
func (c *Cache) Bundle(key string) *api.TagBundle { return c.bundles[key] }

// ApplyCreate records a freshly created tag.
func (c *Cache) ApplyCreate(t api.Tag) {
	c.tags[t.ID] = t
}

// ApplyUpdate patches a renamed/recolored/redescribed/deprecated tag into the
// store and into every registered bundle that references it.
func (c *Cache) ApplyUpdate(t api.Tag) {
	if _, ok := c.tags[t.ID]; !ok {
		return
	}
	c.tags[t.ID] = t
	for _, b := range c.bundles {
		patchBundleTag(b, t)
	}
}

// ApplyDelete removes a tag everywhere.
func (c *Cache) ApplyDelete(id int64) {
	delete(c.tags, id)
	delete(c.usage, id)
	for _, b := range c.bundles {
		removeBundleTag(b, id)
	}
}

// ApplyMerge folds one tag into another: bundle chips referencing the source
// are rewritten to the destination (deduplicated), usage counts accumulate.
func (c *Cache) ApplyMerge(fromID int64, into api.Tag) {
	c.tags[into.ID] = into
	c.usage[into.ID] += c.usage[fromID]
	delete(c.tags, fromID)
	delete(c.usage, fromID)
	for _, b := range c.bundles {
		mergeBundleTag(b, fromID, into)
	}
}

// ApplyAssign bumps usage after a successful assignment and appends the tag
// to the target bundle's direct set when that bundle is registered.
func (c *Cache) ApplyAssign(t api.Tag, bundleKey string) {
	c.tags[t.ID] = t
	c.usage[t.ID]++
	if b, ok := c.bundles[bundleKey]; ok {
		b.Direct = appendUnique(b.Direct, t)
		b.Effective = appendUnique(b.Effective, t)
	}
}

// ApplyUnassign drops usage after a successful unassignment and removes the
// tag from the target bundle's direct set. Inherited chips stay until the
// server-side rebuild lands.
func (c *Cache) ApplyUnassign(id int64, bundleKey string) {
	if c.usage[id] > 0 {
		c.usage[id]--
	}
	if b, ok := c.bundles[bundleKey]; ok {
		b.Direct = removeTag(b.Direct, id)
		if !containsTag(b.Inherited, id) {
			b.Effective = removeTag(b.Effective, id)
		}
	}
}

func patchBundleTag(b *api.TagBundle, t api.Tag) {
	patchSlice(b.Direct, t)
	patchSlice(b.Inherited, t)
	patchSlice(b.Effective, t)
}

func patchSlice(s []api.Tag, t api.Tag) {
	for i := range s {
		if s[i].ID == t.ID {
			s[i] = t
		}
	}
}

func removeBundleTag(b *api.TagBundle, id int64) {
	b.Direct = removeTag(b.Direct, id)
	b.Inherited = removeTag(b.Inherited, id)
	b.Effective = removeTag(b.Effective, id)
}

func mergeBundleTag(b *api.TagBundle, fromID int64, into api.Tag) {
	b.Direct = replaceTag(b.Direct, fromID, into)
	b.Inherited = replaceTag(b.Inherited, fromID, into)
	b.Effective = replaceTag(b.Effective, fromID, into)
}

func removeTag(s []api.Tag, id int64) []api.Tag {
	out := s[:0]
	for _, t := range s {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func replaceTag(s []api.Tag, fromID int64, into api.Tag) []api.Tag {
	replaced := false
	out := s[:0]
	for _, t := range s {
		switch {
		case t.ID == fromID:
			if !replaced && !containsTag(out, into.ID) {
				out = append(out, into)
				replaced = true
			}
		case t.ID == into.ID:
			if !containsTag(out, into.ID) {
				out = append(out, into)
			}
		default:
			out = append(out, t)
		}
	}
	return out
}

func appendUnique(s []api.Tag, t api.Tag) []api.Tag {
	if containsTag(s, t.ID) {
		patchSlice(s, t)
		return s
	}
	return append(s, t)
}

func containsTag(s []api.Tag, id int64) bool {
	for _, t := range s {
		if t.ID == id {
			return true
		}
	}
	return false
}
