package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Tag management and the async effective-tags rebuild pipeline.

// SearchTags lists tags matching q (all tags when q is empty).
func (c *Client) SearchTags(ctx context.Context, q string) ([]Tag, error) {
	values := url.Values{}
	if q != "" {
		values.Set("q", q)
	}
	var out []Tag
	if err := c.get(ctx, "/api/tags"+queryString(values), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTag creates (or returns the existing) tag with the given name.
func (c *Client) CreateTag(ctx context.Context, name string) (Tag, error) {
	var out Tag
	err := c.post(ctx, "/api/tags", Tag{Name: name}, &out)
	return out, err
}

func (c *Client) RenameTag(ctx context.Context, id int64, name string) (Tag, error) {
	var out Tag
	err := c.patch(ctx, fmt.Sprintf("/api/tags/%d", id), map[string]string{"name": name}, &out)
	return out, err
}

// PatchTag updates color / description / deprecation flags. Only provided
// fields are changed.
func (c *Client) PatchTag(ctx context.Context, id int64, fields map[string]interface{}) (Tag, error) {
	var out Tag
	err := c.patch(ctx, fmt.Sprintf("/api/tags/%d", id), fields, &out)
	return out, err
}

func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/tags/%d", id))
}

// MergeTags folds every assignment of fromID into intoID and deletes fromID.
func (c *Client) MergeTags(ctx context.Context, fromID, intoID int64) (Tag, error) {
	body := map[string]int64{"from_id": fromID, "into_id": intoID}
	var out Tag
	err := c.post(ctx, "/api/tags/merge", body, &out)
	return out, err
}

// AssignTag attaches a tag to an entity scope. entityType is one of budget,
// item_project, category, entry, line_asset, vendor.
func (c *Client) AssignTag(ctx context.Context, tagID int64, entityType string, entityID int64) error {
	body := map[string]interface{}{"entity_type": entityType, "entity_id": entityID}
	return c.post(ctx, fmt.Sprintf("/api/tags/%d/assign", tagID), body, nil)
}

func (c *Client) UnassignTag(ctx context.Context, tagID int64, entityType string, entityID int64) error {
	body := map[string]interface{}{"entity_type": entityType, "entity_id": entityID}
	return c.post(ctx, fmt.Sprintf("/api/tags/%d/unassign", tagID), body, nil)
}

// TagUsageCounts returns assignment counts per tag; the editor refuses
// deletion while a tag's count is nonzero.
func (c *Client) TagUsageCounts(ctx context.Context) ([]TagUsage, error) {
	var out []TagUsage
	if err := c.get(ctx, "/api/tags/usage", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RebuildEffectiveTags enqueues the server-side inheritance recompute for a
// scope ("budget:3", "item_project:7", or empty for everything) and returns
// the job to poll.
func (c *Client) RebuildEffectiveTags(ctx context.Context, onlyFor string) (Job, error) {
	values := url.Values{}
	if onlyFor != "" {
		values.Set("only_for", onlyFor)
	}
	var out Job
	err := c.post(ctx, "/api/admin/rebuild-effective-tags"+queryString(values), struct{}{}, &out)
	return out, err
}

// GetJob polls a background job by id.
func (c *Client) GetJob(ctx context.Context, id int64) (Job, error) {
	var out Job
	err := c.get(ctx, "/api/admin/jobs/"+strconv.FormatInt(id, 10), &out)
	return out, err
}
