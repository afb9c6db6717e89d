package tabs

import (
	"fmt"
	"sort"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/logging/events"
)

func loadVendorsTab(ctx Context) ([]Item, error) {
	vendors, err := ctx.Client.ListVendors(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(vendors, func(i, j int) bool { return vendors[i].Name < vendors[j].Name })
	ctx.Vendors.SetVendors(vendors)

	items := make([]Item, len(vendors))
	for i, v := range vendors {
		items[i] = Item{ID: strconv.FormatInt(v.ID, 10), Label: v.Name, Raw: v}
	}
	return items, nil
}

// VendorCreateAction creates a vendor from the form's name field.
func VendorCreateAction(ctx Context, _ Item) tea.Cmd {
	name := ctx.FormValue("name")
	if name == "" {
		return resultCmd(ActionResult{Err: fmt.Errorf("name is required")})
	}
	return func() tea.Msg {
		created, err := ctx.Client.CreateVendor(ctx.Ctx, name)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("vendors:new", created.Name)
		return ActionResult{Info: fmt.Sprintf("created vendor %q", created.Name), Refresh: "vendors"}
	}
}

// VendorEditAction renames the selected vendor.
func VendorEditAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	name := ctx.FormValue("name")
	if name == "" {
		return resultCmd(ActionResult{Err: fmt.Errorf("name is required")})
	}
	return func() tea.Msg {
		updated, err := ctx.Client.UpdateVendor(ctx.Ctx, id, name)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("vendors:edit", updated.Name)
		return ActionResult{Info: fmt.Sprintf("renamed vendor to %q", updated.Name), Refresh: "vendors"}
	}
}

// VendorDeleteAction removes the selected vendor after confirmation.
func VendorDeleteAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		if err := ctx.Client.DeleteVendor(ctx.Ctx, id); err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("vendors:delete", item.ID)
		return ActionResult{Info: "deleted vendor", Refresh: "vendors"}
	}
}
