package api

import (
	"context"
	"fmt"
	"net/url"
)

// Legacy-generation resources: portfolios, project groups, projects, vendors,
// categories, entries, allocations.

func (c *Client) ListFundingSources(ctx context.Context) ([]FundingSource, error) {
	var out []FundingSource
	if err := c.get(ctx, "/api/portfolios", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateFundingSource(ctx context.Context, in FundingSource) (FundingSource, error) {
	var out FundingSource
	err := c.post(ctx, "/api/portfolios", in, &out)
	return out, err
}

func (c *Client) UpdateFundingSource(ctx context.Context, id int64, in FundingSource) (FundingSource, error) {
	var out FundingSource
	err := c.put(ctx, fmt.Sprintf("/api/portfolios/%d", id), in, &out)
	return out, err
}

func (c *Client) DeleteFundingSource(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/portfolios/%d", id))
}

func (c *Client) ListProjectGroups(ctx context.Context) ([]ProjectGroup, error) {
	var out []ProjectGroup
	if err := c.get(ctx, "/api/project-groups", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProjectGroup(ctx context.Context, in ProjectGroup) (ProjectGroup, error) {
	var out ProjectGroup
	err := c.post(ctx, "/api/project-groups", in, &out)
	return out, err
}

func (c *Client) UpdateProjectGroup(ctx context.Context, id int64, in ProjectGroup) (ProjectGroup, error) {
	var out ProjectGroup
	err := c.put(ctx, fmt.Sprintf("/api/project-groups/%d", id), in, &out)
	return out, err
}

func (c *Client) DeleteProjectGroup(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/project-groups/%d", id))
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.get(ctx, "/api/projects", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProject(ctx context.Context, in Project) (Project, error) {
	var out Project
	err := c.post(ctx, "/api/projects", in, &out)
	return out, err
}

func (c *Client) UpdateProject(ctx context.Context, id int64, in Project) (Project, error) {
	var out Project
	err := c.put(ctx, fmt.Sprintf("/api/projects/%d", id), in, &out)
	return out, err
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/projects/%d", id))
}

func (c *Client) ListVendors(ctx context.Context) ([]Vendor, error) {
	var out []Vendor
	if err := c.get(ctx, "/api/vendors", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateVendor(ctx context.Context, name string) (Vendor, error) {
	var out Vendor
	err := c.post(ctx, "/api/vendors", Vendor{Name: name}, &out)
	return out, err
}

func (c *Client) UpdateVendor(ctx context.Context, id int64, name string) (Vendor, error) {
	var out Vendor
	err := c.put(ctx, fmt.Sprintf("/api/vendors/%d", id), Vendor{Name: name}, &out)
	return out, err
}

func (c *Client) DeleteVendor(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/vendors/%d", id))
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.get(ctx, "/api/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, in Category) (Category, error) {
	var out Category
	err := c.post(ctx, "/api/categories", in, &out)
	return out, err
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in Category) (Category, error) {
	var out Category
	err := c.put(ctx, fmt.Sprintf("/api/categories/%d", id), in, &out)
	return out, err
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/categories/%d", id))
}

// CategoryTree returns the global category hierarchy.
func (c *Client) CategoryTree(ctx context.Context) ([]TreeNode, error) {
	var out []TreeNode
	if err := c.get(ctx, "/api/categories/tree", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListEntries(ctx context.Context) ([]Entry, error) {
	var out []Entry
	if err := c.get(ctx, "/api/entries", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEntry posts a ledger entry. Client-side validation (kind fields,
// allocation sum) happens in internal/validate before this is called.
func (c *Client) CreateEntry(ctx context.Context, in Entry) (Entry, error) {
	var out Entry
	err := c.post(ctx, "/api/entries", in, &out)
	return out, err
}

func (c *Client) ListAllocations(ctx context.Context) ([]Allocation, error) {
	var out []Allocation
	if err := c.get(ctx, "/api/allocations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PivotSummary fetches the aggregated spend pivot used on the reports tab.
func (c *Client) PivotSummary(ctx context.Context, groupBy string) ([]map[string]interface{}, error) {
	values := url.Values{}
	if groupBy != "" {
		values.Set("group_by", groupBy)
	}
	var out []map[string]interface{}
	if err := c.get(ctx, "/api/pivot/summary"+queryString(values), &out); err != nil {
		return nil, err
	}
	return out, nil
}
