package tabs

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/format/table"
	"github.com/funddeck/funddeck/internal/logging/events"
	"github.com/funddeck/funddeck/internal/validate"
)

func loadDeliverablesTab(ctx Context) ([]Item, error) {
	lots, err := ctx.Client.ListDeliverables(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(lots))
	for i, l := range lots {
		rows[i] = []string{l.LotIdentifier, l.LotQty.String(), fmt.Sprintf("%d milestones", len(l.Milestones))}
	}
	labels := table.Format(rows, nil)
	items := make([]Item, len(lots))
	for i, l := range lots {
		items[i] = Item{ID: strconv.FormatInt(l.ID, 10), Label: labels[i], Raw: l}
	}
	return items, nil
}

// loadMilestoneRows flattens milestones of every lot for the update action.
func loadMilestoneRows(ctx Context) ([]Item, error) {
	lots, err := ctx.Client.ListDeliverables(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	var items []Item
	for _, lot := range lots {
		for _, m := range lot.Milestones {
			planned := ""
			if m.PlannedDate != nil {
				planned = *m.PlannedDate
			}
			items = append(items, Item{
				ID:    strconv.FormatInt(m.ID, 10),
				Label: fmt.Sprintf("%s  #%d  %s  %s", lot.LotIdentifier, m.ID, planned, m.Status),
				Raw:   m,
			})
		}
	}
	return items, nil
}

// LotCreateAction creates a deliverable lot under a PO line.
func LotCreateAction(ctx Context, _ Item) tea.Cmd {
	poLineID, err := strconv.ParseInt(ctx.FormValue("po_line_id"), 10, 64)
	if err != nil {
		return resultCmd(ActionResult{Err: fmt.Errorf("PO line id is required")})
	}
	qty, err := validate.Amount(ctx.FormValue("lot_qty"))
	if err != nil {
		return resultCmd(ActionResult{Err: fmt.Errorf("lot quantity: %v", err)})
	}
	in := api.DeliverableLot{
		POLineID:      poLineID,
		LotQty:        qty,
		LotIdentifier: ctx.FormValue("lot_identifier"),
		Notes:         ctx.FormValue("notes"),
	}
	return func() tea.Msg {
		created, err := ctx.Client.CreateLot(ctx.Ctx, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("deliverables:lot", created.LotIdentifier)
		return ActionResult{Info: fmt.Sprintf("created lot %q", created.LotIdentifier), Refresh: "deliverables"}
	}
}

// MilestoneUpdateAction records actual/planned dates and status on a
// milestone row.
func MilestoneUpdateAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	current, ok := item.Raw.(api.Milestone)
	if !ok {
		return resultCmd(ActionResult{Err: fmt.Errorf("row has no milestone record")})
	}
	if v := ctx.FormValue("planned_date"); v != "" {
		current.PlannedDate = &v
	}
	if v := ctx.FormValue("actual_date"); v != "" {
		current.ActualDate = &v
	}
	if v := ctx.FormValue("status"); v != "" {
		current.Status = v
	}
	return func() tea.Msg {
		updated, err := ctx.Client.UpdateMilestone(ctx.Ctx, id, current)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("deliverables:milestone", strconv.FormatInt(updated.ID, 10))
		return ActionResult{Info: "updated milestone", Refresh: "deliverables"}
	}
}

// TemplateApplyAction instantiates lots plus milestones for a PO from a
// checkpoint template.
func TemplateApplyAction(ctx Context, _ Item) tea.Cmd {
	poID, err := strconv.ParseInt(ctx.FormValue("purchase_order_id"), 10, 64)
	if err != nil {
		return resultCmd(ActionResult{Err: fmt.Errorf("purchase order id is required")})
	}
	in := api.DeliverableTemplateApply{PurchaseOrderID: poID}
	for _, raw := range strings.Split(ctx.FormValue("lot_quantities"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		qty, err := validate.Amount(raw)
		if err != nil {
			return resultCmd(ActionResult{Err: fmt.Errorf("lot quantity %q: %v", raw, err)})
		}
		in.LotQuantities = append(in.LotQuantities, qty)
	}
	if len(in.LotQuantities) == 0 {
		return resultCmd(ActionResult{Err: fmt.Errorf("at least one lot quantity is required")})
	}
	for _, raw := range strings.Split(ctx.FormValue("checkpoint_type_ids"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return resultCmd(ActionResult{Err: fmt.Errorf("checkpoint type %q must be numeric", raw)})
		}
		in.CheckpointTypeIDs = append(in.CheckpointTypeIDs, id)
	}
	return func() tea.Msg {
		lots, err := ctx.Client.ApplyDeliverableTemplate(ctx.Ctx, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("deliverables:template", fmt.Sprintf("%d lots", len(lots)))
		return ActionResult{Info: fmt.Sprintf("created %d lots from template", len(lots)), Refresh: "deliverables"}
	}
}
