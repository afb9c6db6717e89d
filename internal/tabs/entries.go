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

func loadEntriesTab(ctx Context) ([]Item, error) {
	entries, err := ctx.Client.ListEntries(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		amount := e.Amount
		rows[i] = []string{e.Date, e.Kind, table.Money(&amount), e.Description}
	}
	labels := table.Format(rows, []table.Alignment{
		table.AlignLeft, table.AlignLeft, table.AlignRight, table.AlignLeft,
	})
	items := make([]Item, len(entries))
	for i, e := range entries {
		items[i] = Item{ID: strconv.FormatInt(e.ID, 10), Label: labels[i], Raw: e}
	}
	return items, nil
}

// entryFromForm assembles and validates a ledger entry. Everything is checked
// client-side before a request is issued.
func entryFromForm(ctx Context) (api.Entry, error) {
	amount, err := validate.Amount(ctx.FormValue("amount"))
	if err != nil {
		return api.Entry{}, err
	}
	carID, _ := strconv.ParseInt(ctx.FormValue("car_id"), 10, 64)

	e := api.Entry{
		Date:        ctx.FormValue("date"),
		Kind:        ctx.FormValue("kind"),
		Amount:      amount,
		Description: ctx.FormValue("description"),
		CarID:       carID,
		PONumber:    ctx.FormValue("po_number"),
		QuoteRef:    ctx.FormValue("quote_ref"),
		Mischarged:  ctx.FormValue("mischarged") == "true",
	}
	for field, dst := range map[string]**int64{
		"project_id":      &e.ProjectID,
		"category_id":     &e.CategoryID,
		"vendor_id":       &e.VendorID,
		"intended_car_id": &e.IntendedCarID,
	} {
		if raw := ctx.FormValue(field); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return api.Entry{}, fmt.Errorf("%s must be numeric", field)
			}
			*dst = &id
		}
	}
	if raw := ctx.FormValue("tags"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			normalized, err := validate.TagName(name)
			if err != nil {
				return api.Entry{}, err
			}
			e.Tags = append(e.Tags, normalized)
		}
	}
	allocations, err := parseAllocations(ctx.FormValue("allocations"))
	if err != nil {
		return api.Entry{}, err
	}
	e.Allocations = allocations

	if err := validate.Entry(e); err != nil {
		return api.Entry{}, err
	}
	return e, nil
}

// parseAllocations reads "portfolioID=amount" pairs separated by commas,
// e.g. "3=600,5=400".
func parseAllocations(raw string) ([]api.Allocation, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var out []api.Allocation
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("allocation %q must look like id=amount", pair)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("allocation %q: bad funding source id", pair)
		}
		amount, err := validate.Amount(parts[1])
		if err != nil {
			return nil, fmt.Errorf("allocation %q: %v", pair, err)
		}
		out = append(out, api.Allocation{PortfolioID: id, Amount: amount})
	}
	return out, nil
}

// EntryCreateAction validates and posts a ledger entry. Validation failures
// never reach the network.
func EntryCreateAction(ctx Context, _ Item) tea.Cmd {
	in, err := entryFromForm(ctx)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		created, err := ctx.Client.CreateEntry(ctx.Ctx, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("entries:new", strconv.FormatInt(created.ID, 10))
		return ActionResult{
			Info:    fmt.Sprintf("recorded %s entry for %s", created.Kind, table.Money(&created.Amount)),
			Refresh: "entries",
		}
	}
}
