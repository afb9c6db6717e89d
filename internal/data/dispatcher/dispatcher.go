package dispatcher

import (
	"fmt"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/jobs"
)

// Result tells the model what a job event changed.
type Result struct {
	// Banner is the status-banner line, empty when nothing to show.
	Banner string
	// BannerIsError styles the banner as a failure.
	BannerIsError bool
	// TagsStale is set when a rebuild finished and effective-tag bundles on
	// screen should be refetched on next navigation.
	TagsStale bool
}

// Dispatcher translates job watcher events into banner text and staleness
// hints for the model.
type Dispatcher struct{}

func New() *Dispatcher { return &Dispatcher{} }

func (d *Dispatcher) Handle(evt jobs.Event) Result {
	if evt.Err != nil {
		return Result{
			Banner:        fmt.Sprintf("job #%d: poll failed: %v", evt.Job.ID, evt.Err),
			BannerIsError: true,
		}
	}
	job := evt.Job
	switch job.Status {
	case api.JobStatusQueued:
		return Result{Banner: fmt.Sprintf("job #%d queued (%s)", job.ID, job.Kind)}
	case api.JobStatusRunning:
		return Result{Banner: fmt.Sprintf("job #%d running (%s)…", job.ID, job.Kind)}
	case api.JobStatusDone:
		return Result{
			Banner:    fmt.Sprintf("job #%d finished (%s)", job.ID, job.Kind),
			TagsStale: job.Kind == "rebuild_effective_tags",
		}
	case api.JobStatusFailed:
		return Result{
			Banner:        fmt.Sprintf("job #%d failed: %s", job.ID, job.Error),
			BannerIsError: true,
		}
	}
	return Result{Banner: fmt.Sprintf("job #%d: %s", job.ID, job.Status)}
}
