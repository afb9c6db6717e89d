package ui

import (
	"net/http"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/tabs"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func pushDeleteLevel(t *testing.T, m *Model) {
	t.Helper()
	node, ok := m.registry.Find("funding:delete")
	if !ok {
		t.Fatal("funding:delete node missing")
	}
	lvl := newLevel("funding:delete", "delete", []tabs.Item{{ID: "3", Label: "CAR Alpha"}}, node)
	m.stack = append(m.stack, lvl)
}

func TestTwoStepDeleteCancelIssuesNoRequests(t *testing.T) {
	var requests int64
	m := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	pushDeleteLevel(t, m)
	h := NewHarness(m)

	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != ModeConfirm {
		t.Fatalf("mode = %v, want ModeConfirm", m.mode)
	}
	h.Send(keyRune('y'))
	if m.confirm == nil || m.confirm.step != 1 {
		t.Fatal("second confirmation step not reached")
	}
	h.Send(keyRune('n'))
	if m.mode != ModeBrowse {
		t.Fatalf("mode = %v, want ModeBrowse after cancel", m.mode)
	}
	if got := atomic.LoadInt64(&requests); got != 0 {
		t.Fatalf("cancel issued %d requests, want 0", got)
	}
	if m.currentInfo() != "cancelled" {
		t.Fatalf("info = %q", m.currentInfo())
	}
}

func TestTwoStepDeleteExecutesOnDoubleConfirm(t *testing.T) {
	var deletes int64
	m := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Path != "/api/portfolios/3" {
			t.Errorf("path = %s", r.URL.Path)
		}
		atomic.AddInt64(&deletes, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	pushDeleteLevel(t, m)
	h := NewHarness(m)

	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(keyRune('y'))
	h.Send(keyRune('y'))

	if got := atomic.LoadInt64(&deletes); got != 1 {
		t.Fatalf("deletes = %d, want 1", got)
	}
	if m.loading {
		t.Fatal("loading flag not cleared after action result")
	}
	if m.errMsg != "" {
		t.Fatalf("unexpected error %q", m.errMsg)
	}
}

func TestConfirmEscapeCancelsFirstStep(t *testing.T) {
	m := newTestModel(t, nil)
	pushDeleteLevel(t, m)
	h := NewHarness(m)

	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != ModeBrowse {
		t.Fatalf("mode = %v, want ModeBrowse", m.mode)
	}
	if m.confirm != nil {
		t.Fatal("confirm state not cleared")
	}
	// The delete level is still on the stack; nothing was popped.
	if got := m.currentLevel().ID; got != "funding:delete" {
		t.Fatalf("current level = %q", got)
	}
}
