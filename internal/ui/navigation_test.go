package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/tabs"
)

func newTestModel(t *testing.T, handler http.Handler) *Model {
	t.Helper()
	var client *api.Client
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		client = api.New(srv.URL)
	} else {
		client = api.New("http://127.0.0.1:0")
	}
	return NewModel(context.Background(), client, 80, 24, false, false, nil, "", 0)
}

func TestHandleEscapeKeyFromRootQuits(t *testing.T) {
	m := newTestModel(t, nil)
	cmd := m.handleEscapeKey()
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	msg := cmd()
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", msg)
	}
}

func TestHandleEscapeKeyPopsLevelAndRestoresCursor(t *testing.T) {
	m := newTestModel(t, nil)
	parent := m.currentLevel()
	parent.Cursor = 1
	parent.LastCursor = 2

	child := newLevel("funding", "funding sources", []tabs.Item{{ID: "1", Label: "CAR Alpha"}}, nil)
	m.stack = append(m.stack, child)
	m.errMsg = "previous error"

	cmd := m.handleEscapeKey()
	if cmd != nil {
		t.Fatalf("expected no command when popping a level")
	}
	if len(m.stack) != 1 {
		t.Fatalf("expected stack to shrink to 1, got %d", len(m.stack))
	}
	if parent.Cursor != 2 {
		t.Fatalf("expected parent cursor restored to 2, got %d", parent.Cursor)
	}
	if parent.LastCursor != -1 {
		t.Fatalf("expected parent LastCursor reset, got %d", parent.LastCursor)
	}
	if m.errMsg != "" {
		t.Fatalf("expected error message cleared, got %q", m.errMsg)
	}
}

func TestEnterOnOperationRowOpensForm(t *testing.T) {
	m := newTestModel(t, nil)
	node, ok := m.registry.Find("funding")
	if !ok {
		t.Fatal("funding node missing")
	}
	lvl := newLevel("funding", "funding sources", []tabs.Item{
		{ID: "new", Label: "» new"},
		{ID: "1", Label: "CAR Alpha"},
	}, node)
	lvl.Cursor = 0
	m.stack = append(m.stack, lvl)

	cmd := m.handleEnterKey()
	if cmd != nil {
		t.Fatalf("expected no command while form is open")
	}
	if m.mode != ModeForm {
		t.Fatalf("mode = %v, want ModeForm", m.mode)
	}
	if m.form == nil {
		t.Fatal("form not attached")
	}
}

func TestTabLoadedPushesLevel(t *testing.T) {
	m := newTestModel(t, nil)
	m.loading = true
	m.pendingID = "vendors"

	cmd := m.handleTabLoadedMsg(tabLoadedMsg{
		id:    "vendors",
		title: "vendors",
		items: []tabs.Item{{ID: "1", Label: "Acme"}},
	})
	if cmd != nil {
		t.Fatalf("expected no follow-up command")
	}
	if m.loading {
		t.Fatal("loading flag not cleared")
	}
	if len(m.stack) != 2 {
		t.Fatalf("stack depth = %d, want 2", len(m.stack))
	}
	if got := m.currentLevel().ID; got != "vendors" {
		t.Fatalf("current level = %q", got)
	}
}

func TestStaleTabLoadDropped(t *testing.T) {
	m := newTestModel(t, nil)
	m.loading = true
	m.pendingID = "vendors"

	m.handleTabLoadedMsg(tabLoadedMsg{id: "entries", items: []tabs.Item{{ID: "1"}}})
	if len(m.stack) != 1 {
		t.Fatalf("stale load pushed a level, stack depth = %d", len(m.stack))
	}
	if !m.loading {
		t.Fatal("pending load cancelled by stale message")
	}
}

func TestTabLoadedReplaceUpdatesInPlace(t *testing.T) {
	m := newTestModel(t, nil)
	lvl := newLevel("vendors", "vendors", []tabs.Item{{ID: "1", Label: "Acme"}}, nil)
	m.stack = append(m.stack, lvl)
	m.pendingID = "vendors"

	m.handleTabLoadedMsg(tabLoadedMsg{
		id:      "vendors",
		title:   "vendors",
		items:   []tabs.Item{{ID: "1", Label: "Acme"}, {ID: "2", Label: "Globex"}},
		replace: true,
	})
	if len(m.stack) != 2 {
		t.Fatalf("replace pushed a level, stack depth = %d", len(m.stack))
	}
	if got := len(lvl.Items); got != 2 {
		t.Fatalf("items = %d, want 2", got)
	}
}
