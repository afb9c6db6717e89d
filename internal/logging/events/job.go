package events

import "github.com/funddeck/funddeck/internal/logging"

type JobTracer struct{}

var Job = JobTracer{}

func (JobTracer) Enqueued(jobID int64, scope string) {
	logging.Trace("job.enqueued", map[string]interface{}{"job": jobID, "scope": scope})
}

func (JobTracer) Poll(jobID int64, status string) {
	logging.Trace("job.poll", map[string]interface{}{"job": jobID, "status": status})
}

func (JobTracer) Finished(jobID int64, status string) {
	logging.Trace("job.finished", map[string]interface{}{"job": jobID, "status": status})
}

func (JobTracer) PollError(jobID int64, err error) {
	if err == nil {
		return
	}
	logging.Trace("job.poll.error", map[string]interface{}{"job": jobID, "error": err.Error()})
}
