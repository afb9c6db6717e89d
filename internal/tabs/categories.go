package tabs

import (
	"fmt"
	"sort"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/format/table"
	"github.com/funddeck/funddeck/internal/logging/events"
)

func loadCategoriesTab(ctx Context) ([]Item, error) {
	categories, err := ctx.Client.ListCategories(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	ctx.Categories.SetCategories(categories)

	parentNames := make(map[int64]string, len(categories))
	for _, c := range categories {
		parentNames[c.ID] = c.Name
	}
	rows := make([][]string, len(categories))
	for i, c := range categories {
		parent := ""
		if c.ParentID != nil {
			parent = parentNames[*c.ParentID]
		}
		rows[i] = []string{c.Name, parent}
	}
	labels := table.Format(rows, nil)

	items := make([]Item, len(categories))
	for i, c := range categories {
		items[i] = Item{ID: strconv.FormatInt(c.ID, 10), Label: labels[i], Raw: c}
	}
	return items, nil
}

// loadCategoryTree fetches the server-computed category hierarchy; the model
// renders it through the tree widget.
func loadCategoryTree(ctx Context) ([]Item, error) {
	nodes, err := ctx.Client.CategoryTree(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	items := make([]Item, len(nodes))
	for i, n := range nodes {
		items[i] = Item{ID: n.Key, Label: n.Label, Raw: n}
	}
	return items, nil
}

func categoryFromForm(ctx Context) (api.Category, error) {
	name := ctx.FormValue("name")
	if name == "" {
		return api.Category{}, fmt.Errorf("name is required")
	}
	c := api.Category{Name: name}
	if raw := ctx.FormValue("parent_id"); raw != "" {
		parentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return api.Category{}, fmt.Errorf("parent id must be numeric")
		}
		c.ParentID = &parentID
	}
	if raw := ctx.FormValue("project_id"); raw != "" {
		projectID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return api.Category{}, fmt.Errorf("project id must be numeric")
		}
		c.ProjectID = &projectID
	}
	return c, nil
}

// CategoryCreateAction creates a category node.
func CategoryCreateAction(ctx Context, _ Item) tea.Cmd {
	in, err := categoryFromForm(ctx)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		created, err := ctx.Client.CreateCategory(ctx.Ctx, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("categories:new", created.Name)
		return ActionResult{Info: fmt.Sprintf("created category %q", created.Name), Refresh: "categories"}
	}
}

// CategoryEditAction updates the selected category.
func CategoryEditAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	in, err := categoryFromForm(ctx)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		updated, err := ctx.Client.UpdateCategory(ctx.Ctx, id, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("categories:edit", updated.Name)
		return ActionResult{Info: fmt.Sprintf("updated category %q", updated.Name), Refresh: "categories"}
	}
}

// CategoryDeleteAction removes the selected category after confirmation.
// Categories with entries come back as a 409 from the server.
func CategoryDeleteAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		if err := ctx.Client.DeleteCategory(ctx.Ctx, id); err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("categories:delete", item.ID)
		return ActionResult{Info: "deleted category", Refresh: "categories"}
	}
}
