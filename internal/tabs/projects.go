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

func loadProjectsTab(ctx Context) ([]Item, error) {
	projects, err := ctx.Client.ListProjects(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	groups, err := ctx.Client.ListProjectGroups(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	ctx.Projects.SetProjects(projects)
	ctx.Projects.SetGroups(groups)

	groupNames := make(map[int64]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}

	rows := make([][]string, len(projects))
	for i, p := range projects {
		group := ""
		if p.GroupID != nil {
			group = groupNames[*p.GroupID]
		}
		rows[i] = []string{p.Name, p.Code, group, p.Line}
	}
	labels := table.Format(rows, nil)

	items := make([]Item, len(projects))
	for i, p := range projects {
		items[i] = Item{ID: strconv.FormatInt(p.ID, 10), Label: labels[i], Raw: p}
	}
	return items, nil
}

func projectFromForm(ctx Context) (api.Project, error) {
	name := ctx.FormValue("name")
	if name == "" {
		return api.Project{}, fmt.Errorf("name is required")
	}
	carID, err := strconv.ParseInt(ctx.FormValue("car_id"), 10, 64)
	if err != nil {
		return api.Project{}, fmt.Errorf("funding source is required")
	}
	p := api.Project{
		Name:  name,
		CarID: carID,
		Code:  ctx.FormValue("code"),
		Line:  ctx.FormValue("line"),
	}
	if raw := ctx.FormValue("group_id"); raw != "" {
		groupID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return api.Project{}, fmt.Errorf("group id must be numeric")
		}
		p.GroupID = &groupID
	}
	return p, nil
}

// ProjectCreateAction creates a project from form fields.
func ProjectCreateAction(ctx Context, _ Item) tea.Cmd {
	in, err := projectFromForm(ctx)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		created, err := ctx.Client.CreateProject(ctx.Ctx, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("projects:new", created.Name)
		return ActionResult{Info: fmt.Sprintf("created project %q", created.Name), Refresh: "projects"}
	}
}

// ProjectEditAction updates the selected project.
func ProjectEditAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	in, err := projectFromForm(ctx)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		updated, err := ctx.Client.UpdateProject(ctx.Ctx, id, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("projects:edit", updated.Name)
		return ActionResult{Info: fmt.Sprintf("updated project %q", updated.Name), Refresh: "projects"}
	}
}

// ProjectDeleteAction removes the selected project after confirmation.
func ProjectDeleteAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		if err := ctx.Client.DeleteProject(ctx.Ctx, id); err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("projects:delete", item.ID)
		return ActionResult{Info: "deleted project", Refresh: "projects"}
	}
}

// ProjectGroupCreateAction creates a reporting group.
func ProjectGroupCreateAction(ctx Context, _ Item) tea.Cmd {
	name := ctx.FormValue("name")
	if name == "" {
		return resultCmd(ActionResult{Err: fmt.Errorf("name is required")})
	}
	in := api.ProjectGroup{
		Name:        name,
		Code:        ctx.FormValue("code"),
		Description: ctx.FormValue("description"),
	}
	return func() tea.Msg {
		created, err := ctx.Client.CreateProjectGroup(ctx.Ctx, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("projects:group:new", created.Name)
		return ActionResult{Info: fmt.Sprintf("created group %q", created.Name), Refresh: "projects"}
	}
}
