package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/format/table"
)

// inspectorData is the right-hand detail panel content for the focused row.
type inspectorData struct {
	title string
	lines []string
}

// hasInspector reports whether the current level renders a detail panel.
// The root tab list has nothing to inspect.
func (m *Model) hasInspector() bool {
	current := m.currentLevel()
	if current == nil || current.ID == "root" {
		return false
	}
	return m.inspectorPanelWidth() > 0
}

func (m *Model) activeInspector() *inspectorData {
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	item, ok := current.CurrentItem()
	if !ok {
		return nil
	}
	data := &inspectorData{title: strings.TrimSpace(item.Label)}
	data.lines = inspectorLines(item.Raw)
	if data.title == "" {
		data.title = item.ID
	}
	return data
}

// inspectorLines renders the backing record field by field. Unknown row types
// fall back to the label alone.
func inspectorLines(raw interface{}) []string {
	switch v := raw.(type) {
	case api.FundingSource:
		return compactLines(
			kv("name", v.Name),
			kv("fiscal year", v.FiscalYear),
			kv("owner", v.Owner),
		)
	case api.Budget:
		lines := compactLines(
			kv("name", v.Name),
			kv("type", v.Type),
			kv("car code", v.CarCode),
			kv("cc code", v.CcCode),
		)
		if v.IsTemporary {
			lines = append(lines, "temporary budget")
		}
		if v.ClosureDate != nil {
			lines = append(lines, kv("closes", *v.ClosureDate))
		}
		lines = append(lines, tagBundleLines(v.Tags)...)
		return lines
	case api.Project:
		lines := compactLines(
			kv("name", v.Name),
			kv("code", v.Code),
			kv("line", v.Line),
			kv("funding source", fmt.Sprintf("#%d", v.CarID)),
		)
		if v.GroupID != nil {
			lines = append(lines, kv("group", fmt.Sprintf("#%d", *v.GroupID)))
		}
		return lines
	case api.Category:
		lines := compactLines(kv("name", v.Name))
		if v.ParentID != nil {
			lines = append(lines, kv("parent", fmt.Sprintf("#%d", *v.ParentID)))
		}
		if v.ProjectID != nil {
			lines = append(lines, kv("project", fmt.Sprintf("#%d", *v.ProjectID)))
		}
		return lines
	case api.Vendor:
		return compactLines(kv("name", v.Name))
	case api.Entry:
		amount := v.Amount
		lines := compactLines(
			kv("kind", v.Kind),
			kv("date", v.Date),
			kv("amount", table.Money(&amount)),
			kv("description", v.Description),
			kv("po", v.PONumber),
			kv("quote", v.QuoteRef),
		)
		if v.Mischarged {
			lines = append(lines, "mischarged")
		}
		for _, a := range v.Allocations {
			alloc := a.Amount
			lines = append(lines, fmt.Sprintf("  → source #%d  %s", a.PortfolioID, table.Money(&alloc)))
		}
		if len(v.Tags) > 0 {
			lines = append(lines, kv("tags", strings.Join(v.Tags, ", ")))
		}
		return lines
	case api.FxRate:
		lines := compactLines(
			kv("pair", v.BaseCurrency+"/"+v.QuoteCurrency),
			kv("rate", v.Rate.String()),
			kv("valid from", v.ValidFrom),
		)
		if v.ValidTo != nil {
			lines = append(lines, kv("valid to", *v.ValidTo))
		}
		if v.ManualOverride {
			lines = append(lines, "manual override")
		}
		return lines
	case api.PaymentSchedule:
		lines := compactLines(
			kv("status", v.Status),
			kv("event", v.EventType),
			kv("rule", v.DueDateRule),
		)
		if v.Amount != nil {
			lines = append(lines, kv("amount", table.Money(v.Amount)))
		}
		if v.DueDate != nil {
			lines = append(lines, kv("due", *v.DueDate))
		}
		if v.NetDays != nil {
			lines = append(lines, kv("net days", fmt.Sprintf("%d", *v.NetDays)))
		}
		return lines
	case api.DeliverableLot:
		lines := compactLines(
			kv("lot", v.LotIdentifier),
			kv("qty", v.LotQty.String()),
			kv("notes", v.Notes),
		)
		for _, ms := range v.Milestones {
			status := ms.Status
			if status == "" {
				status = "pending"
			}
			lines = append(lines, fmt.Sprintf("  → checkpoint #%d  %s", ms.CheckpointTypeID, status))
		}
		return lines
	case api.ReportDefinition:
		lines := compactLines(kv("name", v.Name), kv("owner", v.Owner))
		keys := make([]string, 0, len(v.JSONConfig))
		for k := range v.JSONConfig {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("  %s: %v", k, v.JSONConfig[k]))
		}
		return lines
	case api.TagUsage:
		lines := compactLines(
			kv("tag", v.Tag.Name),
			kv("color", v.Tag.Color),
			kv("description", v.Tag.Description),
			kv("assignments", fmt.Sprintf("%d", v.Assignments)),
		)
		if v.Tag.IsDeprecated {
			lines = append(lines, "deprecated")
		}
		return lines
	case api.TreeNode:
		lines := compactLines(
			kv("type", v.Type),
			kv("path", v.Path),
		)
		if v.Amount != nil {
			lines = append(lines, kv("amount", table.Money(v.Amount)))
		}
		lines = append(lines, tagBundleLines(v.Tags)...)
		return lines
	}
	return nil
}

func tagBundleLines(bundle *api.TagBundle) []string {
	if bundle == nil {
		return nil
	}
	out := []string{}
	if chips := tagChips(bundle.Direct); chips != "" {
		out = append(out, kv("direct", chips))
	}
	if chips := tagChips(bundle.Inherited); chips != "" {
		out = append(out, kv("inherited", chips))
	}
	if chips := tagChips(bundle.Effective); chips != "" {
		out = append(out, kv("effective", chips))
	}
	return out
}

func tagChips(tags []api.Tag) string {
	if len(tags) == 0 {
		return ""
	}
	chips := make([]string, len(tags))
	for i, t := range tags {
		name := t.Name
		if t.IsDeprecated {
			name += "!"
		}
		chips[i] = name
	}
	return strings.Join(chips, " ")
}

func kv(key, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return key + ": " + value
}

func compactLines(lines ...string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
