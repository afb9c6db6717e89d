package ui

import (
	"strings"
	"testing"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/jobs"
	"github.com/funddeck/funddeck/internal/tabs"
)

func TestAsyncMessagesBypassOverlay(t *testing.T) {
	m := newTestModel(t, nil)
	node, _ := m.registry.Find("funding:delete")
	m.confirm = &confirmState{node: node, item: tabs.Item{ID: "3", Label: "CAR Alpha"}}
	m.mode = ModeConfirm
	m.pendingID = "vendors"

	h := NewHarness(m)
	h.Send(tabLoadedMsg{id: "vendors", title: "vendors", items: []tabs.Item{{ID: "1", Label: "Acme"}}})

	if len(m.stack) != 2 {
		t.Fatalf("tab load was swallowed by the overlay, stack depth = %d", len(m.stack))
	}
	if m.mode != ModeConfirm {
		t.Fatalf("overlay mode lost, mode = %v", m.mode)
	}
}

func TestJobEventUpdatesBanner(t *testing.T) {
	m := newTestModel(t, nil)
	m.applyJobEvent(jobs.Event{Job: api.Job{ID: 9, Kind: "rebuild_effective_tags", Status: api.JobStatusRunning}})
	if !strings.Contains(m.banner, "job #9 running") {
		t.Fatalf("banner = %q", m.banner)
	}
	if m.bannerErr {
		t.Fatal("running job styled as error")
	}
}

func TestRebuildCompletionMarksTagsStale(t *testing.T) {
	m := newTestModel(t, nil)
	m.applyJobEvent(jobs.Event{
		Job:  api.Job{ID: 9, Kind: "rebuild_effective_tags", Status: api.JobStatusDone},
		Done: true,
	})
	if !m.tagsStale {
		t.Fatal("tags not marked stale after rebuild")
	}
	if !strings.Contains(m.banner, "finished") {
		t.Fatalf("banner = %q", m.banner)
	}
}

func TestFailedJobStylesBannerAsError(t *testing.T) {
	m := newTestModel(t, nil)
	m.applyJobEvent(jobs.Event{
		Job:  api.Job{ID: 4, Kind: "rebuild_effective_tags", Status: api.JobStatusFailed, Error: "boom"},
		Done: true,
	})
	if !m.bannerErr {
		t.Fatal("failed job not styled as error")
	}
	if !strings.Contains(m.banner, "boom") {
		t.Fatalf("banner = %q", m.banner)
	}
}

func TestActionResultTracksReturnedJob(t *testing.T) {
	m := newTestModel(t, nil)
	m.loading = true
	m.pendingID = "tags:rebuild"

	m.handleActionResultMsg(tabs.ActionResult{Info: "rebuild queued"})
	if m.loading {
		t.Fatal("loading not cleared")
	}
	if m.currentInfo() != "rebuild queued" {
		t.Fatalf("info = %q", m.currentInfo())
	}
}
