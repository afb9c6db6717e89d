package events

import "github.com/funddeck/funddeck/internal/logging"

type PickerTracer struct{}

var Picker = PickerTracer{}

func (PickerTracer) Select(name, value string) {
	logging.Trace("picker.select", map[string]interface{}{"name": name, "value": value})
}

func (PickerTracer) Create(name, label string) {
	logging.Trace("picker.create", map[string]interface{}{"name": name, "label": label})
}

func (PickerTracer) Edit(name, value, label string) {
	logging.Trace("picker.edit", map[string]interface{}{"name": name, "value": value, "label": label})
}

func (PickerTracer) Remove(name, value string) {
	logging.Trace("picker.remove", map[string]interface{}{"name": name, "value": value})
}

func (PickerTracer) Broadcast(key, op, value string, peers int) {
	logging.Trace("picker.broadcast", map[string]interface{}{
		"key":   key,
		"op":    op,
		"value": value,
		"peers": peers,
	})
}
