package tabs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/logging"
	"github.com/funddeck/funddeck/internal/picker"
)

// FieldKind distinguishes free-text fields from option pickers.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldPicker
)

// FieldSpec declares one form field for an action node.
type FieldSpec struct {
	Key         string
	Label       string
	Placeholder string
	Required    bool
	Kind        FieldKind
	// PickerKey is the cross-instance sync key for picker fields.
	PickerKey string
}

// FormSpecs maps action node IDs to the fields their forms collect.
func FormSpecs() map[string][]FieldSpec {
	fundingFields := []FieldSpec{
		{Key: "name", Label: "name", Required: true},
		{Key: "fiscal_year", Label: "fiscal year", Placeholder: "FY26"},
		{Key: "owner", Label: "owner"},
	}
	projectFields := []FieldSpec{
		{Key: "name", Label: "name", Required: true},
		{Key: "car_id", Label: "funding source", Required: true, Kind: FieldPicker, PickerKey: "funding-source"},
		{Key: "code", Label: "code"},
		{Key: "line", Label: "line"},
		{Key: "group_id", Label: "group id"},
	}
	categoryFields := []FieldSpec{
		{Key: "name", Label: "name", Required: true},
		{Key: "parent_id", Label: "parent id"},
		{Key: "project_id", Label: "project", Kind: FieldPicker, PickerKey: "project"},
	}
	vendorFields := []FieldSpec{
		{Key: "name", Label: "name", Required: true},
	}
	fxFields := []FieldSpec{
		{Key: "quote_currency", Label: "quote currency", Placeholder: "JPY", Required: true},
		{Key: "valid_from", Label: "valid from", Placeholder: "2026-01-01", Required: true},
		{Key: "valid_to", Label: "valid to"},
		{Key: "rate", Label: "rate", Required: true},
		{Key: "manual_override", Label: "manual override", Placeholder: "true/false"},
	}
	return map[string][]FieldSpec{
		"funding:new":        fundingFields,
		"funding:edit":       fundingFields,
		"projects:new":       projectFields,
		"projects:edit":      projectFields,
		"projects:group:new": {
			{Key: "name", Label: "name", Required: true},
			{Key: "code", Label: "code"},
			{Key: "description", Label: "description"},
		},
		"categories:new":     categoryFields,
		"categories:edit":    categoryFields,
		"vendors:new":        vendorFields,
		"vendors:edit":       vendorFields,
		"entries:new": {
			{Key: "kind", Label: "kind", Placeholder: "budget/quote/po/unplanned/adjustment", Required: true},
			{Key: "date", Label: "date", Placeholder: "2026-02-14"},
			{Key: "amount", Label: "amount", Required: true},
			{Key: "description", Label: "description"},
			{Key: "car_id", Label: "funding source", Required: true, Kind: FieldPicker, PickerKey: "funding-source"},
			{Key: "project_id", Label: "project", Kind: FieldPicker, PickerKey: "project"},
			{Key: "category_id", Label: "category", Kind: FieldPicker, PickerKey: "category"},
			{Key: "vendor_id", Label: "vendor", Kind: FieldPicker, PickerKey: "vendor"},
			{Key: "intended_car_id", Label: "intended funding source"},
			{Key: "po_number", Label: "po number"},
			{Key: "quote_ref", Label: "quote ref"},
			{Key: "allocations", Label: "allocations", Placeholder: "3=600,5=400"},
			{Key: "tags", Label: "tags", Placeholder: "hardware,nre"},
			{Key: "mischarged", Label: "mischarged", Placeholder: "true/false"},
		},
		"payments:generate": {
			{Key: "purchase_order_id", Label: "purchase order id"},
			{Key: "invoice_id", Label: "invoice id"},
			{Key: "net_days", Label: "net days", Placeholder: "30", Required: true},
		},
		"payments:edit": {
			{Key: "status", Label: "status", Placeholder: "planned/invoiced/paid"},
			{Key: "due_date", Label: "due date", Placeholder: "2026-03-31"},
		},
		"deliverables:lot": {
			{Key: "po_line_id", Label: "po line id", Required: true},
			{Key: "lot_qty", Label: "lot quantity", Required: true},
			{Key: "lot_identifier", Label: "lot identifier"},
			{Key: "notes", Label: "notes"},
		},
		"deliverables:milestone": {
			{Key: "status", Label: "status"},
			{Key: "planned_date", Label: "planned date"},
			{Key: "actual_date", Label: "actual date"},
		},
		"deliverables:template": {
			{Key: "purchase_order_id", Label: "purchase order id", Required: true},
			{Key: "lot_quantities", Label: "lot quantities", Placeholder: "10,20", Required: true},
			{Key: "checkpoint_type_ids", Label: "checkpoint type ids", Placeholder: "1,2,3"},
		},
		"reports:adhoc": {
			{Key: "json_config", Label: "config", Placeholder: `{"group_by":"category"}`, Required: true},
		},
		"reports:save": {
			{Key: "name", Label: "name", Required: true},
			{Key: "owner", Label: "owner"},
			{Key: "json_config", Label: "config", Required: true},
		},
		"fx:new":  fxFields,
		"fx:edit": fxFields,
		"tags:rebuild": {
			{Key: "only_for", Label: "scope", Placeholder: "budget:12 (empty for all)"},
		},
	}
}

// Form collects field values for one action node. Picker fields share options
// with every other live picker registered under the same key.
type Form struct {
	node  *Node
	item  Item
	specs []FieldSpec

	inputs  []textinput.Model
	pickers map[int]*picker.Picker
	focus   int
	err     string
	title   string
}

// NewForm builds the form for a node, prefilled from the selected row when the
// action edits an existing record.
func NewForm(ctx Context, node *Node, item Item, reg *picker.Registry) (*Form, bool) {
	specs, ok := FormSpecs()[node.ID]
	if !ok {
		return nil, false
	}
	f := &Form{
		node:    node,
		item:    item,
		specs:   specs,
		inputs:  make([]textinput.Model, len(specs)),
		pickers: make(map[int]*picker.Picker),
		title:   prettyLabel(strings.ReplaceAll(node.ID, ":", " ")),
	}
	prefill := formPrefill(item)
	for i, spec := range specs {
		if spec.Kind == FieldPicker {
			p := picker.New(spec.Key, pickerOptions(ctx, spec.PickerKey), pickerConfig(ctx, spec.PickerKey), reg)
			if v, ok := prefill[spec.Key]; ok {
				p.SetSelectedValue(v)
			}
			f.pickers[i] = p
			continue
		}
		ti := textinput.New()
		ti.Placeholder = spec.Placeholder
		ti.Prompt = ""
		ti.CharLimit = 256
		if v, ok := prefill[spec.Key]; ok {
			ti.SetValue(v)
		}
		f.inputs[i] = ti
	}
	f.setFocus(0)
	return f, true
}

func (f *Form) Title() string { return f.title }
func (f *Form) Error() string { return f.err }
func (f *Form) Node() *Node   { return f.node }
func (f *Form) Item() Item    { return f.item }
func (f *Form) Focus() int    { return f.focus }

// Detach releases every picker so the registry can sweep them.
func (f *Form) Detach() {
	for _, p := range f.pickers {
		p.Detach()
	}
}

// Values snapshots the current field contents keyed by field name.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.specs))
	for i, spec := range f.specs {
		if p, ok := f.pickers[i]; ok {
			out[spec.Key] = p.Value()
			continue
		}
		out[spec.Key] = strings.TrimSpace(f.inputs[i].Value())
	}
	return out
}

// Update feeds a message to the focused field. done reports a submit request,
// cancel an abandoned form.
func (f *Form) Update(msg tea.Msg) (cmd tea.Cmd, done, cancel bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false, false
	}
	if p, active := f.pickers[f.focus]; active {
		if handled, c := p.HandleKey(keyMsg); handled {
			return c, false, false
		}
	}
	switch keyMsg.Type {
	case tea.KeyEsc:
		return nil, false, true
	case tea.KeyTab, tea.KeyDown:
		f.setFocus(f.focus + 1)
		return nil, false, false
	case tea.KeyShiftTab, tea.KeyUp:
		f.setFocus(f.focus - 1)
		return nil, false, false
	case tea.KeyEnter:
		if f.focus < len(f.specs)-1 {
			f.setFocus(f.focus + 1)
			return nil, false, false
		}
		if err := f.checkRequired(); err != "" {
			f.err = err
			return nil, false, false
		}
		f.err = ""
		return nil, true, false
	}
	if _, isPicker := f.pickers[f.focus]; !isPicker {
		updated, c := f.inputs[f.focus].Update(msg)
		f.inputs[f.focus] = updated
		return c, false, false
	}
	return nil, false, false
}

// FieldView renders one field as "label: value" with a focus marker.
func (f *Form) FieldView(i int) string {
	spec := f.specs[i]
	marker := "  "
	if i == f.focus {
		marker = "> "
	}
	if p, ok := f.pickers[i]; ok {
		return marker + spec.Label + ": " + p.View()
	}
	return marker + spec.Label + ": " + f.inputs[i].View()
}

// FieldCount returns the number of fields on the form.
func (f *Form) FieldCount() int { return len(f.specs) }

func (f *Form) setFocus(i int) {
	if len(f.specs) == 0 {
		return
	}
	if i < 0 {
		i = len(f.specs) - 1
	}
	if i >= len(f.specs) {
		i = 0
	}
	if p, ok := f.pickers[f.focus]; ok {
		p.Blur()
	} else {
		f.inputs[f.focus].Blur()
	}
	f.focus = i
	if p, ok := f.pickers[f.focus]; ok {
		p.Focus()
	} else {
		f.inputs[f.focus].Focus()
	}
}

func (f *Form) checkRequired() string {
	values := f.Values()
	for _, spec := range f.specs {
		if spec.Required && values[spec.Key] == "" {
			return fmt.Sprintf("%s is required", spec.Label)
		}
	}
	return ""
}

// pickerOptions snapshots the store backing the given sync key. An empty
// store is filled from the API first, so a form opened before its tab was
// ever visited still offers the full option list.
func pickerOptions(ctx Context, key string) []picker.Option {
	switch key {
	case "funding-source":
		sources := ctx.Funding.Sources()
		if len(sources) == 0 && ctx.Client != nil {
			fetched, err := ctx.Client.ListFundingSources(ctx.Ctx)
			if err != nil {
				logging.Error(err)
			} else {
				ctx.Funding.SetSources(fetched)
				sources = fetched
			}
		}
		opts := make([]picker.Option, len(sources))
		for i, s := range sources {
			opts[i] = picker.Option{Value: strconv.FormatInt(s.ID, 10), Label: s.Name, Raw: s}
		}
		return opts
	case "project":
		projects := ctx.Projects.Projects()
		if len(projects) == 0 && ctx.Client != nil {
			fetched, err := ctx.Client.ListProjects(ctx.Ctx)
			if err != nil {
				logging.Error(err)
			} else {
				ctx.Projects.SetProjects(fetched)
				projects = fetched
			}
		}
		opts := make([]picker.Option, len(projects))
		for i, p := range projects {
			opts[i] = picker.Option{Value: strconv.FormatInt(p.ID, 10), Label: p.Name, Raw: p}
		}
		return opts
	case "category":
		categories := ctx.Categories.Categories()
		if len(categories) == 0 && ctx.Client != nil {
			fetched, err := ctx.Client.ListCategories(ctx.Ctx)
			if err != nil {
				logging.Error(err)
			} else {
				ctx.Categories.SetCategories(fetched)
				categories = fetched
			}
		}
		opts := make([]picker.Option, len(categories))
		for i, c := range categories {
			opts[i] = picker.Option{Value: strconv.FormatInt(c.ID, 10), Label: c.Name, Raw: c}
		}
		return opts
	case "vendor":
		vendors := ctx.Vendors.Vendors()
		if len(vendors) == 0 && ctx.Client != nil {
			fetched, err := ctx.Client.ListVendors(ctx.Ctx)
			if err != nil {
				logging.Error(err)
			} else {
				ctx.Vendors.SetVendors(fetched)
				vendors = fetched
			}
		}
		opts := make([]picker.Option, len(vendors))
		for i, v := range vendors {
			opts[i] = picker.Option{Value: strconv.FormatInt(v.ID, 10), Label: v.Name, Raw: v}
		}
		return opts
	}
	return nil
}

// pickerConfig wires inline create/edit/delete through the API so a value
// minted inside one form is immediately known to its peers.
func pickerConfig(ctx Context, key string) picker.Config {
	cfg := picker.Config{Key: key}
	switch key {
	case "funding-source":
		cfg.Create = func(label string) (*picker.Option, error) {
			created, err := ctx.Client.CreateFundingSource(ctx.Ctx, api.FundingSource{Name: label})
			if err != nil {
				return nil, err
			}
			return &picker.Option{Value: strconv.FormatInt(created.ID, 10), Label: created.Name, Raw: created}, nil
		}
		cfg.Edit = func(opt *picker.Option, newLabel string) (*picker.Option, error) {
			id, _ := strconv.ParseInt(opt.Value, 10, 64)
			updated, err := ctx.Client.UpdateFundingSource(ctx.Ctx, id, api.FundingSource{Name: newLabel})
			if err != nil {
				return nil, err
			}
			return &picker.Option{Value: opt.Value, Label: updated.Name, Raw: updated}, nil
		}
		cfg.Remove = func(opt *picker.Option) error {
			id, _ := strconv.ParseInt(opt.Value, 10, 64)
			return ctx.Client.DeleteFundingSource(ctx.Ctx, id)
		}
	case "project":
		cfg.Create = func(label string) (*picker.Option, error) {
			created, err := ctx.Client.CreateProject(ctx.Ctx, api.Project{Name: label})
			if err != nil {
				return nil, err
			}
			return &picker.Option{Value: strconv.FormatInt(created.ID, 10), Label: created.Name, Raw: created}, nil
		}
		cfg.Edit = func(opt *picker.Option, newLabel string) (*picker.Option, error) {
			id, _ := strconv.ParseInt(opt.Value, 10, 64)
			updated, err := ctx.Client.UpdateProject(ctx.Ctx, id, api.Project{Name: newLabel})
			if err != nil {
				return nil, err
			}
			return &picker.Option{Value: opt.Value, Label: updated.Name, Raw: updated}, nil
		}
		cfg.Remove = func(opt *picker.Option) error {
			id, _ := strconv.ParseInt(opt.Value, 10, 64)
			return ctx.Client.DeleteProject(ctx.Ctx, id)
		}
	case "category":
		cfg.Create = func(label string) (*picker.Option, error) {
			created, err := ctx.Client.CreateCategory(ctx.Ctx, api.Category{Name: label})
			if err != nil {
				return nil, err
			}
			return &picker.Option{Value: strconv.FormatInt(created.ID, 10), Label: created.Name, Raw: created}, nil
		}
		cfg.Edit = func(opt *picker.Option, newLabel string) (*picker.Option, error) {
			id, _ := strconv.ParseInt(opt.Value, 10, 64)
			updated, err := ctx.Client.UpdateCategory(ctx.Ctx, id, api.Category{Name: newLabel})
			if err != nil {
				return nil, err
			}
			return &picker.Option{Value: opt.Value, Label: updated.Name, Raw: updated}, nil
		}
		cfg.Remove = func(opt *picker.Option) error {
			id, _ := strconv.ParseInt(opt.Value, 10, 64)
			return ctx.Client.DeleteCategory(ctx.Ctx, id)
		}
	case "vendor":
		cfg.Create = func(label string) (*picker.Option, error) {
			created, err := ctx.Client.CreateVendor(ctx.Ctx, label)
			if err != nil {
				return nil, err
			}
			return &picker.Option{Value: strconv.FormatInt(created.ID, 10), Label: created.Name, Raw: created}, nil
		}
		cfg.Edit = func(opt *picker.Option, newLabel string) (*picker.Option, error) {
			id, _ := strconv.ParseInt(opt.Value, 10, 64)
			updated, err := ctx.Client.UpdateVendor(ctx.Ctx, id, newLabel)
			if err != nil {
				return nil, err
			}
			return &picker.Option{Value: opt.Value, Label: updated.Name, Raw: updated}, nil
		}
		cfg.Remove = func(opt *picker.Option) error {
			id, _ := strconv.ParseInt(opt.Value, 10, 64)
			return ctx.Client.DeleteVendor(ctx.Ctx, id)
		}
	}
	return cfg
}

// formPrefill extracts editable fields from the selected row for edit forms.
func formPrefill(item Item) map[string]string {
	out := map[string]string{}
	switch raw := item.Raw.(type) {
	case api.FundingSource:
		out["name"] = raw.Name
		out["fiscal_year"] = raw.FiscalYear
		out["owner"] = raw.Owner
	case api.Project:
		out["name"] = raw.Name
		out["car_id"] = strconv.FormatInt(raw.CarID, 10)
		out["code"] = raw.Code
		out["line"] = raw.Line
		if raw.GroupID != nil {
			out["group_id"] = strconv.FormatInt(*raw.GroupID, 10)
		}
	case api.Category:
		out["name"] = raw.Name
		if raw.ParentID != nil {
			out["parent_id"] = strconv.FormatInt(*raw.ParentID, 10)
		}
		if raw.ProjectID != nil {
			out["project_id"] = strconv.FormatInt(*raw.ProjectID, 10)
		}
	case api.Vendor:
		out["name"] = raw.Name
	case api.FxRate:
		out["quote_currency"] = raw.QuoteCurrency
		out["valid_from"] = raw.ValidFrom
		if raw.ValidTo != nil {
			out["valid_to"] = *raw.ValidTo
		}
		out["rate"] = raw.Rate.String()
		if raw.ManualOverride {
			out["manual_override"] = "true"
		}
	case api.PaymentSchedule:
		out["status"] = raw.Status
		if raw.DueDate != nil {
			out["due_date"] = *raw.DueDate
		}
	case api.Milestone:
		out["status"] = raw.Status
		if raw.PlannedDate != nil {
			out["planned_date"] = *raw.PlannedDate
		}
		if raw.ActualDate != nil {
			out["actual_date"] = *raw.ActualDate
		}
	}
	return out
}
