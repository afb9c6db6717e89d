package events

import "github.com/funddeck/funddeck/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Shutdown(viaQuitEndpoint bool) {
	logging.Trace("app.shutdown", map[string]interface{}{"quitEndpoint": viaQuitEndpoint})
}
