package ui

import (
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/tags"
)

func openEditorFor(m *Model, target api.Tag) {
	m.tagPanels.OpenEditor(tags.NewEditorPanel(m.client, m.tagCache, target))
	m.tagInput = ""
	m.tagDeleteStep = 0
	m.mode = ModeTagEditor
}

func typeEditorCommand(h *Harness, line string) {
	for _, r := range line {
		h.Send(keyRune(r))
	}
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestTagDeleteCancelIssuesNoRequests(t *testing.T) {
	var requests int64
	m := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	openEditorFor(m, api.Tag{ID: 5, Name: "oddball"})
	h := NewHarness(m)

	typeEditorCommand(h, "delete")
	if m.tagDeleteStep != 1 {
		t.Fatalf("tagDeleteStep = %d, want 1 after the delete command", m.tagDeleteStep)
	}
	h.Send(keyRune('y'))
	if m.tagDeleteStep != 2 {
		t.Fatalf("tagDeleteStep = %d, want 2 after first confirm", m.tagDeleteStep)
	}
	h.Send(keyRune('n'))
	if m.tagDeleteStep != 0 {
		t.Fatalf("tagDeleteStep = %d, want 0 after cancel", m.tagDeleteStep)
	}
	if m.currentInfo() != "cancelled" {
		t.Fatalf("info = %q", m.currentInfo())
	}
	if got := atomic.LoadInt64(&requests); got != 0 {
		t.Fatalf("cancelled delete issued %d requests, want 0", got)
	}
	// The editor stays open so the user can keep working on the tag.
	if m.tagPanels.Editor == nil || m.mode != ModeTagEditor {
		t.Fatal("cancel closed the editor")
	}
}

func TestTagDeleteExecutesAfterDoubleConfirm(t *testing.T) {
	var deletes int64
	m := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/tags/5" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		atomic.AddInt64(&deletes, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	openEditorFor(m, api.Tag{ID: 5, Name: "oddball"})
	h := NewHarness(m)

	typeEditorCommand(h, "delete")
	h.Send(keyRune('y'))
	h.Send(keyRune('y'))

	if got := atomic.LoadInt64(&deletes); got != 1 {
		t.Fatalf("deletes = %d, want exactly 1", got)
	}
	if m.errMsg != "" {
		t.Fatalf("unexpected error %q", m.errMsg)
	}
	if m.tagPanels.Editor != nil {
		t.Fatal("editor still open after delete")
	}
}

func TestUsedTagDeleteRefusedWithoutConfirmation(t *testing.T) {
	var requests int64
	m := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	m.tagCache.LoadUsage([]api.TagUsage{{Tag: api.Tag{ID: 5, Name: "oddball"}, Assignments: 3}})
	openEditorFor(m, api.Tag{ID: 5, Name: "oddball"})
	h := NewHarness(m)

	typeEditorCommand(h, "delete")
	if m.tagDeleteStep != 0 {
		t.Fatalf("tagDeleteStep = %d, a used tag must not enter confirmation", m.tagDeleteStep)
	}
	if !strings.Contains(m.errMsg, "3 assignments") {
		t.Fatalf("errMsg = %q, want the usage refusal", m.errMsg)
	}
	if got := atomic.LoadInt64(&requests); got != 0 {
		t.Fatalf("refused delete issued %d requests, want 0", got)
	}
}

func TestAssignDonePatchesRegisteredBundle(t *testing.T) {
	m := newTestModel(t, nil)
	bundle := &api.TagBundle{}
	m.tagCache.RegisterBundle("budget:12", bundle)
	h := NewHarness(m)

	h.Send(tags.AssignDoneMsg{
		Tag:       api.Tag{ID: 7, Name: "q3-ops"},
		BundleKey: "budget:12",
		Job:       api.Job{ID: 42, Status: api.JobStatusQueued},
		Created:   true,
	})

	if len(bundle.Direct) != 1 || bundle.Direct[0].ID != 7 {
		t.Fatalf("bundle direct = %+v, want the assigned chip", bundle.Direct)
	}
	if len(bundle.Effective) != 1 {
		t.Fatalf("bundle effective = %+v", bundle.Effective)
	}
	if _, ok := m.tagCache.Get(7); !ok {
		t.Fatal("created tag missing from the cache")
	}
	if m.tagCache.Usage(7) != 1 {
		t.Fatalf("usage = %d, want 1", m.tagCache.Usage(7))
	}
}

func TestUnassignDonePatchesBundle(t *testing.T) {
	m := newTestModel(t, nil)
	bundle := &api.TagBundle{
		Direct:    []api.Tag{{ID: 7, Name: "q3-ops"}},
		Effective: []api.Tag{{ID: 7, Name: "q3-ops"}},
	}
	m.tagCache.RegisterBundle("entry:9", bundle)
	m.tagCache.ApplyAssign(api.Tag{ID: 7, Name: "q3-ops"}, "")
	h := NewHarness(m)

	h.Send(tags.UnassignDoneMsg{
		Tag:       api.Tag{ID: 7, Name: "q3-ops"},
		BundleKey: "entry:9",
		Job:       api.Job{ID: 43, Status: api.JobStatusQueued},
	})

	if len(bundle.Direct) != 0 {
		t.Fatalf("bundle direct = %+v, want empty after unassign", bundle.Direct)
	}
	if len(bundle.Effective) != 0 {
		t.Fatalf("bundle effective = %+v, chip not inherited so it must go", bundle.Effective)
	}
	if m.tagCache.Usage(7) != 0 {
		t.Fatalf("usage = %d, want 0", m.tagCache.Usage(7))
	}
	if !strings.Contains(m.currentInfo(), "unassigned") {
		t.Fatalf("info = %q", m.currentInfo())
	}
}

func TestBudgetTreeRegistersAndDropsBundles(t *testing.T) {
	m := newTestModel(t, nil)
	h := NewHarness(m)

	chips := &api.TagBundle{Direct: []api.Tag{{ID: 2, Name: "capex"}}}
	h.Send(treeLoadedMsg{
		title: "CAR Alpha",
		roots: []api.TreeNode{{
			Key:  "budget:3",
			Type: "budget",
			ID:   3,
			Tags: chips,
			Children: []api.TreeNode{
				{Key: "item_project:7", Type: "item_project", ID: 7, Tags: &api.TagBundle{}},
				{Key: "category:1", Type: "category", ID: 1},
			},
		}},
	})

	if got := m.tagCache.Bundle("budget:3"); got != chips {
		t.Fatal("tree root bundle not registered")
	}
	if m.tagCache.Bundle("item_project:7") == nil {
		t.Fatal("tagged child bundle not registered")
	}
	if m.tagCache.Bundle("category:1") != nil {
		t.Fatal("untagged node must not register a bundle")
	}

	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if m.tagCache.Bundle("budget:3") != nil || m.tagCache.Bundle("item_project:7") != nil {
		t.Fatal("tree bundles not dropped on close")
	}
}
