package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/logging/events"
)

// Event conveys one poll result for a tracked job.
type Event struct {
	Job api.Job
	Err error
	// Done marks the final event for a job id.
	Done bool
}

// Watcher polls background jobs by id until they leave the queued/running
// states. There is no retry cap: a job stuck in "running" server-side is
// polled until the watcher is stopped.
type Watcher struct {
	client   *api.Client
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	throttle *throttle
	events   chan Event
	wg       sync.WaitGroup
}

// NewWatcher creates a job watcher polling every interval.
func NewWatcher(client *api.Client, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		client:   client,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		throttle: newThrottle(interval / 4),
		events:   make(chan Event, 16),
	}
}

// Events returns the channel of poll results.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Track starts polling a freshly enqueued job. The enqueue response itself is
// published first so the banner shows "queued" immediately.
func (w *Watcher) Track(job api.Job) {
	events.Job.Enqueued(job.ID, job.Kind)
	w.wg.Add(1)
	go w.poll(job)
}

// Stop cancels every poll loop. Pollers exit after their current fetch; use
// Wait for a clean drain in tests.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all poll goroutines have exited.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) poll(job api.Job) {
	defer w.wg.Done()

	if !w.emit(Event{Job: job, Done: job.Terminal()}) || job.Terminal() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.throttle.wait()
			current, err := w.client.GetJob(w.ctx, job.ID)
			if err != nil {
				events.Job.PollError(job.ID, err)
				if w.ctx.Err() != nil {
					return
				}
				if !w.emit(Event{Job: job, Err: err}) {
					return
				}
				continue
			}
			events.Job.Poll(current.ID, current.Status)
			if current.Terminal() {
				events.Job.Finished(current.ID, current.Status)
				w.emit(Event{Job: current, Done: true})
				return
			}
			if !w.emit(Event{Job: current}) {
				return
			}
		}
	}
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
