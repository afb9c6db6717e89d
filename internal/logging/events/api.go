package events

import "github.com/funddeck/funddeck/internal/logging"

type APITracer struct{}

var API = APITracer{}

func (APITracer) Request(method, path, requestID string) {
	logging.Trace("api.request", map[string]interface{}{
		"method":    method,
		"path":      path,
		"requestID": requestID,
	})
}

func (APITracer) Response(method, path string, status int) {
	logging.Trace("api.response", map[string]interface{}{
		"method": method,
		"path":   path,
		"status": status,
	})
}

func (APITracer) Failure(method, path string, err error) {
	if err == nil {
		return
	}
	logging.Trace("api.failure", map[string]interface{}{
		"method": method,
		"path":   path,
		"error":  err.Error(),
	})
}
