package events

import "github.com/funddeck/funddeck/internal/logging"

type TagTracer struct{}

var Tag = TagTracer{}

func (TagTracer) Search(query string) {
	logging.Trace("tag.search", map[string]interface{}{"query": query})
}

func (TagTracer) Assign(tagID int64, entityType string, entityID int64) {
	logging.Trace("tag.assign", map[string]interface{}{
		"tag":        tagID,
		"entityType": entityType,
		"entityID":   entityID,
	})
}

func (TagTracer) Unassign(tagID int64, entityType string, entityID int64) {
	logging.Trace("tag.unassign", map[string]interface{}{
		"tag":        tagID,
		"entityType": entityType,
		"entityID":   entityID,
	})
}

func (TagTracer) Rename(tagID int64, name string) {
	logging.Trace("tag.rename", map[string]interface{}{"tag": tagID, "name": name})
}

func (TagTracer) Delete(tagID int64) {
	logging.Trace("tag.delete", map[string]interface{}{"tag": tagID})
}

func (TagTracer) Merge(fromID, intoID int64) {
	logging.Trace("tag.merge", map[string]interface{}{"from": fromID, "into": intoID})
}

func (TagTracer) DeleteRefused(tagID int64, assignments int) {
	logging.Trace("tag.delete.refused", map[string]interface{}{"tag": tagID, "assignments": assignments})
}
