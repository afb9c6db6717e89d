package tabs

import (
	"context"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/state"
	"github.com/funddeck/funddeck/internal/tags"
)

// OpRowPrefix marks operation rows ("» new", "» delete") apart from record
// rows in a tab listing.
const OpRowPrefix = "» "

// Item represents a selectable row inside a tab.
type Item struct {
	ID    string
	Label string
	// Raw carries the backing record for the inspector panel and forms.
	Raw interface{}
}

// IsOp reports whether the row is an operation row rather than a record.
func (i Item) IsOp() bool {
	return strings.HasPrefix(i.Label, OpRowPrefix)
}

// Level describes a breadcrumb component for display purposes.
type Level struct {
	ID    string
	Title string
	Items []Item
}

// Context carries runtime data needed by loaders and actions.
type Context struct {
	Ctx    context.Context
	Client *api.Client

	Funding    state.FundingStore
	Projects   state.ProjectStore
	Categories state.CategoryStore
	Vendors    state.VendorStore
	TagCache   *tags.Cache

	Verbose bool

	// Form holds field values collected by the active form, keyed by field
	// name, for action nodes that create or update records.
	Form map[string]string
}

// FormValue returns a trimmed form field.
func (c Context) FormValue(key string) string {
	return strings.TrimSpace(c.Form[key])
}

// Loader populates tab rows on demand.
type Loader func(Context) ([]Item, error)

// Action executes a write for the given row and reports through ActionResult.
type Action func(Context, Item) tea.Cmd

// ActionResult communicates the outcome of executing a tab action.
type ActionResult struct {
	Info string
	Err  error
	// Refresh names the tab whose rows are stale after this action.
	Refresh string
	// Job, when set, is a background job the watcher should track.
	Job *api.Job
}

// RootItems returns the top-level tab entries.
func RootItems() []Item {
	return []Item{
		{ID: "funding", Label: "funding sources"},
		{ID: "budgets", Label: "budgets"},
		{ID: "projects", Label: "projects"},
		{ID: "categories", Label: "categories"},
		{ID: "vendors", Label: "vendors"},
		{ID: "entries", Label: "entries"},
		{ID: "payments", Label: "payments"},
		{ID: "deliverables", Label: "deliverables"},
		{ID: "reports", Label: "reports"},
		{ID: "fx", Label: "fx rates"},
		{ID: "tags", Label: "tags"},
	}
}

// CategoryLoaders lists tab loaders keyed by root item ID.
func CategoryLoaders() map[string]Loader {
	return map[string]Loader{
		"funding":      loadFundingTab,
		"budgets":      loadBudgetsTab,
		"projects":     loadProjectsTab,
		"categories":   loadCategoriesTab,
		"vendors":      loadVendorsTab,
		"entries":      loadEntriesTab,
		"payments":     loadPaymentsTab,
		"deliverables": loadDeliverablesTab,
		"reports":      loadReportsTab,
		"fx":           loadFxTab,
		"tags":         loadTagsTab,
	}
}

// ActionHandlers maps node identifiers to their execution logic.
func ActionHandlers() map[string]Action {
	return map[string]Action{
		"funding:new":            FundingCreateAction,
		"funding:edit":           FundingEditAction,
		"funding:delete":         FundingDeleteAction,
		"projects:new":           ProjectCreateAction,
		"projects:edit":          ProjectEditAction,
		"projects:delete":        ProjectDeleteAction,
		"projects:group:new":     ProjectGroupCreateAction,
		"categories:new":         CategoryCreateAction,
		"categories:edit":        CategoryEditAction,
		"categories:delete":      CategoryDeleteAction,
		"vendors:new":            VendorCreateAction,
		"vendors:edit":           VendorEditAction,
		"vendors:delete":         VendorDeleteAction,
		"entries:new":            EntryCreateAction,
		"payments:generate":      ScheduleGenerateAction,
		"payments:edit":          ScheduleEditAction,
		"payments:delete":        ScheduleDeleteAction,
		"deliverables:lot":       LotCreateAction,
		"deliverables:milestone": MilestoneUpdateAction,
		"deliverables:template":  TemplateApplyAction,
		"reports:run":            ReportRunAction,
		"reports:adhoc":          ReportAdhocAction,
		"reports:save":           ReportSaveAction,
		"fx:new":                 FxCreateAction,
		"fx:edit":                FxEditAction,
		"fx:delete":              FxDeleteAction,
		"tags:rebuild":           TagRebuildAction,
	}
}

// ActionLoaders enumerates loaders for nested action rows.
func ActionLoaders() map[string]Loader {
	return map[string]Loader{
		"funding:edit":          loadFundingTab,
		"funding:delete":        loadFundingTab,
		"projects:edit":         loadProjectsTab,
		"projects:delete":       loadProjectsTab,
		"categories:edit":       loadCategoriesTab,
		"categories:delete":     loadCategoriesTab,
		"categories:tree":       loadCategoryTree,
		"vendors:edit":          loadVendorsTab,
		"vendors:delete":        loadVendorsTab,
		"payments:edit":         loadPaymentsTab,
		"payments:delete":       loadPaymentsTab,
		"deliverables:milestone": loadMilestoneRows,
		"reports:run":           loadReportsTab,
		"fx:edit":               loadFxTab,
		"fx:delete":             loadFxTab,
		"budgets:tree":          loadBudgetsTab,
	}
}

func prettyLabel(id string) string {
	if id == "" {
		return id
	}
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func resultCmd(res ActionResult) tea.Cmd {
	return func() tea.Msg { return res }
}
