package jobs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/funddeck/funddeck/internal/api"
)

func jobServer(t *testing.T, statuses []string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var polls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := polls.Add(1)
		idx := int(n) - 1
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}
		json.NewEncoder(w).Encode(api.Job{ID: 42, Kind: "rebuild_effective_tags", Status: statuses[idx]})
	}))
	t.Cleanup(srv.Close)
	return srv, &polls
}

func collectUntilDone(t *testing.T, w *Watcher, timeout time.Duration) []Event {
	t.Helper()
	var got []Event
	deadline := time.After(timeout)
	for {
		select {
		case evt := <-w.Events():
			got = append(got, evt)
			if evt.Done {
				return got
			}
		case <-deadline:
			t.Fatalf("no terminal event within %v; saw %d events", timeout, len(got))
		}
	}
}

func TestWatcherPollsUntilTerminal(t *testing.T) {
	srv, polls := jobServer(t, []string{"running", "running", "done"})
	w := NewWatcher(api.New(srv.URL), 5*time.Millisecond)
	defer w.Stop()

	w.Track(api.Job{ID: 42, Kind: "rebuild_effective_tags", Status: api.JobStatusQueued})
	got := collectUntilDone(t, w, 5*time.Second)

	first, last := got[0], got[len(got)-1]
	if first.Job.Status != api.JobStatusQueued || first.Done {
		t.Fatalf("first event = %+v, want immediate queued status", first)
	}
	if last.Job.Status != api.JobStatusDone || !last.Done {
		t.Fatalf("last event = %+v, want terminal done", last)
	}
	if polls.Load() < 3 {
		t.Fatalf("polls = %d, want at least 3", polls.Load())
	}

	// Terminal jobs are not polled further.
	settled := polls.Load()
	time.Sleep(30 * time.Millisecond)
	if polls.Load() != settled {
		t.Fatalf("polling continued after terminal status: %d -> %d", settled, polls.Load())
	}
}

func TestWatcherSurfacesFailedJobs(t *testing.T) {
	srv, _ := jobServer(t, []string{"failed"})
	w := NewWatcher(api.New(srv.URL), 5*time.Millisecond)
	defer w.Stop()

	w.Track(api.Job{ID: 42, Status: api.JobStatusRunning})
	got := collectUntilDone(t, w, 5*time.Second)

	last := got[len(got)-1]
	if last.Job.Status != api.JobStatusFailed || !last.Done {
		t.Fatalf("last event = %+v, want terminal failed", last)
	}
}

func TestAlreadyTerminalJobEmitsOnce(t *testing.T) {
	srv, polls := jobServer(t, []string{"done"})
	w := NewWatcher(api.New(srv.URL), 5*time.Millisecond)
	defer w.Stop()

	w.Track(api.Job{ID: 42, Status: api.JobStatusDone})
	got := collectUntilDone(t, w, time.Second)

	if len(got) != 1 || !got[0].Done {
		t.Fatalf("events = %+v, want single terminal event", got)
	}
	w.Wait()
	if polls.Load() != 0 {
		t.Fatalf("polls = %d, want 0 for an already-terminal job", polls.Load())
	}
}

func TestStopCancelsPolling(t *testing.T) {
	srv, polls := jobServer(t, []string{"running"})
	w := NewWatcher(api.New(srv.URL), 2*time.Millisecond)

	w.Track(api.Job{ID: 42, Status: api.JobStatusQueued})
	<-w.Events() // initial queued event

	w.Stop()
	w.Wait()

	settled := polls.Load()
	time.Sleep(20 * time.Millisecond)
	if polls.Load() != settled {
		t.Fatal("poller kept running after Stop")
	}
}

func TestPollErrorsAreReportedAndPollingContinues(t *testing.T) {
	var polls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := polls.Add(1)
		if n == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(api.Job{ID: 42, Status: api.JobStatusDone})
	}))
	defer srv.Close()

	w := NewWatcher(api.New(srv.URL), 5*time.Millisecond)
	defer w.Stop()

	w.Track(api.Job{ID: 42, Status: api.JobStatusQueued})
	got := collectUntilDone(t, w, 5*time.Second)

	sawError := false
	for _, evt := range got {
		if evt.Err != nil {
			sawError = true
		}
	}
	if !sawError {
		t.Fatal("poll failure was swallowed")
	}
	if last := got[len(got)-1]; last.Job.Status != api.JobStatusDone {
		t.Fatalf("last event = %+v", last)
	}
	if polls.Load() < 2 {
		t.Fatalf("polls = %d, want a retry after the failure", polls.Load())
	}
}
