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

func loadFundingTab(ctx Context) ([]Item, error) {
	sources, err := ctx.Client.ListFundingSources(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	ctx.Funding.SetSources(sources)

	rows := make([][]string, len(sources))
	for i, s := range sources {
		rows[i] = []string{s.Name, s.FiscalYear, s.Owner}
	}
	labels := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignLeft})

	items := make([]Item, len(sources))
	for i, s := range sources {
		items[i] = Item{ID: strconv.FormatInt(s.ID, 10), Label: labels[i], Raw: s}
	}
	return items, nil
}

func loadBudgetsTab(ctx Context) ([]Item, error) {
	budgets, err := ctx.Client.ListBudgets(ctx.Ctx, "", []string{"tags"})
	if err != nil {
		return nil, err
	}
	ctx.Funding.SetBudgets(budgets)
	if ctx.TagCache != nil {
		for _, b := range budgets {
			if b.Tags != nil {
				ctx.TagCache.RegisterBundle(fmt.Sprintf("budget:%d", b.ID), b.Tags)
			}
		}
	}

	rows := make([][]string, len(budgets))
	for i, b := range budgets {
		rows[i] = []string{b.Name, b.Type, b.CarCode}
	}
	labels := table.Format(rows, nil)

	items := make([]Item, len(budgets))
	for i, b := range budgets {
		items[i] = Item{ID: strconv.FormatInt(b.ID, 10), Label: labels[i], Raw: b}
	}
	return items, nil
}

// FundingCreateAction creates a funding source from form fields.
func FundingCreateAction(ctx Context, _ Item) tea.Cmd {
	name := ctx.FormValue("name")
	if name == "" {
		return resultCmd(ActionResult{Err: fmt.Errorf("name is required")})
	}
	in := api.FundingSource{
		Name:       name,
		FiscalYear: ctx.FormValue("fiscal_year"),
		Owner:      ctx.FormValue("owner"),
	}
	return func() tea.Msg {
		created, err := ctx.Client.CreateFundingSource(ctx.Ctx, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("funding:new", created.Name)
		return ActionResult{
			Info:    fmt.Sprintf("created funding source %q", created.Name),
			Refresh: "funding",
		}
	}
}

// FundingEditAction updates the selected funding source.
func FundingEditAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	name := ctx.FormValue("name")
	if name == "" {
		return resultCmd(ActionResult{Err: fmt.Errorf("name is required")})
	}
	in := api.FundingSource{
		Name:       name,
		FiscalYear: ctx.FormValue("fiscal_year"),
		Owner:      ctx.FormValue("owner"),
	}
	return func() tea.Msg {
		updated, err := ctx.Client.UpdateFundingSource(ctx.Ctx, id, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("funding:edit", updated.Name)
		return ActionResult{
			Info:    fmt.Sprintf("updated funding source %q", updated.Name),
			Refresh: "funding",
		}
	}
}

// FundingDeleteAction removes the selected funding source. The model runs the
// two-step confirmation before this is invoked.
func FundingDeleteAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		if err := ctx.Client.DeleteFundingSource(ctx.Ctx, id); err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("funding:delete", item.ID)
		return ActionResult{
			Info:    "deleted funding source",
			Refresh: "funding",
		}
	}
}

func itemID(item Item) (int64, error) {
	id, err := strconv.ParseInt(item.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("row %q has no numeric id", item.ID)
	}
	return id, nil
}
