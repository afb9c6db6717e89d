package tabs

import (
	"encoding/json"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/format/table"
	"github.com/funddeck/funddeck/internal/logging/events"
)

func loadReportsTab(ctx Context) ([]Item, error) {
	reports, err := ctx.Client.ListReports(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(reports))
	for i, r := range reports {
		rows[i] = []string{r.Name, r.Owner}
	}
	labels := table.Format(rows, nil)
	items := make([]Item, len(reports))
	for i, r := range reports {
		items[i] = Item{ID: strconv.FormatInt(r.ID, 10), Label: labels[i], Raw: r}
	}
	return items, nil
}

// ReportRunAction runs the selected saved report.
func ReportRunAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		result, err := ctx.Client.RunSavedReport(ctx.Ctx, id)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("reports:run", item.ID)
		return ActionResult{Info: fmt.Sprintf("report returned %d rows", len(result.Rows))}
	}
}

// ReportAdhocAction runs a one-off report from a JSON config pasted into the
// form.
func ReportAdhocAction(ctx Context, _ Item) tea.Cmd {
	config, err := reportConfig(ctx.FormValue("json_config"))
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		result, err := ctx.Client.RunAdHocReport(ctx.Ctx, config)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("reports:adhoc", "")
		return ActionResult{Info: fmt.Sprintf("ad-hoc report returned %d rows", len(result.Rows))}
	}
}

// ReportSaveAction persists a report definition.
func ReportSaveAction(ctx Context, _ Item) tea.Cmd {
	name := ctx.FormValue("name")
	if name == "" {
		return resultCmd(ActionResult{Err: fmt.Errorf("name is required")})
	}
	config, err := reportConfig(ctx.FormValue("json_config"))
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	in := api.ReportDefinition{
		Name:       name,
		Owner:      ctx.FormValue("owner"),
		JSONConfig: config,
	}
	return func() tea.Msg {
		saved, err := ctx.Client.SaveReport(ctx.Ctx, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("reports:save", saved.Name)
		return ActionResult{Info: fmt.Sprintf("saved report %q", saved.Name), Refresh: "reports"}
	}
}

func reportConfig(raw string) (map[string]interface{}, error) {
	if raw == "" {
		return nil, fmt.Errorf("report config is required")
	}
	var config map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &config); err != nil {
		return nil, fmt.Errorf("report config is not valid JSON: %v", err)
	}
	return config, nil
}

// RowPreview renders the first rows of a report result for the inspector.
func RowPreview(result api.ReportResult, limit int) []string {
	if limit <= 0 || limit > len(result.Rows) {
		limit = len(result.Rows)
	}
	out := make([]string, 0, limit)
	for _, row := range result.Rows[:limit] {
		encoded, err := json.Marshal(row)
		if err != nil {
			continue
		}
		out = append(out, string(encoded))
	}
	return out
}
