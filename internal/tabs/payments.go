package tabs

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/format/table"
	"github.com/funddeck/funddeck/internal/logging/events"
)

func loadPaymentsTab(ctx Context) ([]Item, error) {
	schedules, err := ctx.Client.ListPaymentSchedules(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(schedules))
	for i, s := range schedules {
		due := ""
		if s.DueDate != nil {
			due = *s.DueDate
		}
		rows[i] = []string{due, s.EventType, table.Money(s.Amount), s.Status}
	}
	labels := table.Format(rows, []table.Alignment{
		table.AlignLeft, table.AlignLeft, table.AlignRight, table.AlignLeft,
	})
	items := make([]Item, len(schedules))
	for i, s := range schedules {
		items[i] = Item{ID: strconv.FormatInt(s.ID, 10), Label: labels[i], Raw: s}
	}
	return items, nil
}

// ScheduleGenerateAction asks the server to derive a payment plan for a PO or
// invoice.
func ScheduleGenerateAction(ctx Context, _ Item) tea.Cmd {
	netDays, err := strconv.Atoi(ctx.FormValue("net_days"))
	if err != nil || netDays < 0 {
		return resultCmd(ActionResult{Err: fmt.Errorf("net days must be a non-negative number")})
	}
	in := api.ScheduleGenerateRequest{NetDays: netDays}
	haveTarget := false
	if raw := ctx.FormValue("purchase_order_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return resultCmd(ActionResult{Err: fmt.Errorf("purchase order id must be numeric")})
		}
		in.PurchaseOrderID = &id
		haveTarget = true
	}
	if raw := ctx.FormValue("invoice_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return resultCmd(ActionResult{Err: fmt.Errorf("invoice id must be numeric")})
		}
		in.InvoiceID = &id
		haveTarget = true
	}
	if !haveTarget {
		return resultCmd(ActionResult{Err: fmt.Errorf("a purchase order or invoice is required")})
	}
	return func() tea.Msg {
		generated, err := ctx.Client.GeneratePaymentSchedules(ctx.Ctx, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("payments:generate", fmt.Sprintf("%d schedules", len(generated)))
		return ActionResult{
			Info:    fmt.Sprintf("generated %d payment schedules", len(generated)),
			Refresh: "payments",
		}
	}
}

// ScheduleEditAction updates status/due date fields on a schedule row.
func ScheduleEditAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	current, ok := item.Raw.(api.PaymentSchedule)
	if !ok {
		return resultCmd(ActionResult{Err: fmt.Errorf("row has no schedule record")})
	}
	if status := ctx.FormValue("status"); status != "" {
		current.Status = status
	}
	if due := ctx.FormValue("due_date"); due != "" {
		current.DueDate = &due
	}
	return func() tea.Msg {
		updated, err := ctx.Client.UpdatePaymentSchedule(ctx.Ctx, id, current)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("payments:edit", strconv.FormatInt(updated.ID, 10))
		return ActionResult{Info: "updated payment schedule", Refresh: "payments"}
	}
}

// ScheduleDeleteAction removes a schedule row after confirmation.
func ScheduleDeleteAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		if err := ctx.Client.DeletePaymentSchedule(ctx.Ctx, id); err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("payments:delete", item.ID)
		return ActionResult{Info: "deleted payment schedule", Refresh: "payments"}
	}
}
