package tabs

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/format/table"
	"github.com/funddeck/funddeck/internal/logging/events"
	"github.com/funddeck/funddeck/internal/validate"
)

func loadFxTab(ctx Context) ([]Item, error) {
	rates, err := ctx.Client.ListFxRates(ctx.Ctx, "")
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(rates))
	for i, r := range rates {
		override := ""
		if r.ManualOverride {
			override = "override"
		}
		until := ""
		if r.ValidTo != nil {
			until = *r.ValidTo
		}
		rows[i] = []string{r.QuoteCurrency, r.Rate.String(), r.ValidFrom, until, override}
	}
	labels := table.Format(rows, []table.Alignment{
		table.AlignLeft, table.AlignRight, table.AlignLeft, table.AlignLeft, table.AlignLeft,
	})
	items := make([]Item, len(rates))
	for i, r := range rates {
		items[i] = Item{ID: strconv.FormatInt(r.ID, 10), Label: labels[i], Raw: r}
	}
	return items, nil
}

// fxFromForm assembles and validates an FX rate. Rates outside the safety
// band are rejected here unless the override flag is set; with the override
// the request goes out unmodified.
func fxFromForm(ctx Context) (api.FxRate, error) {
	quote := ctx.FormValue("quote_currency")
	if quote == "" {
		return api.FxRate{}, fmt.Errorf("quote currency is required")
	}
	validFrom := ctx.FormValue("valid_from")
	if validFrom == "" {
		return api.FxRate{}, fmt.Errorf("valid-from date is required")
	}
	rate, err := validate.Amount(ctx.FormValue("rate"))
	if err != nil {
		return api.FxRate{}, fmt.Errorf("rate: %v", err)
	}
	override := ctx.FormValue("manual_override") == "true"
	if err := validate.FxRate(rate, override); err != nil {
		return api.FxRate{}, err
	}
	out := api.FxRate{
		QuoteCurrency:  quote,
		ValidFrom:      validFrom,
		Rate:           rate,
		ManualOverride: override,
	}
	if until := ctx.FormValue("valid_to"); until != "" {
		out.ValidTo = &until
	}
	return out, nil
}

// FxCreateAction posts a new FX rate.
func FxCreateAction(ctx Context, _ Item) tea.Cmd {
	in, err := fxFromForm(ctx)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		created, err := ctx.Client.CreateFxRate(ctx.Ctx, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("fx:new", created.QuoteCurrency)
		return ActionResult{
			Info:    fmt.Sprintf("added %s rate %s", created.QuoteCurrency, created.Rate),
			Refresh: "fx",
		}
	}
}

// FxEditAction updates the selected FX rate.
func FxEditAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	in, err := fxFromForm(ctx)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		updated, err := ctx.Client.UpdateFxRate(ctx.Ctx, id, in)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("fx:edit", updated.QuoteCurrency)
		return ActionResult{Info: "updated fx rate", Refresh: "fx"}
	}
}

// FxDeleteAction removes the selected FX rate after confirmation.
func FxDeleteAction(ctx Context, item Item) tea.Cmd {
	id, err := itemID(item)
	if err != nil {
		return resultCmd(ActionResult{Err: err})
	}
	return func() tea.Msg {
		if err := ctx.Client.DeleteFxRate(ctx.Ctx, id); err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("fx:delete", item.ID)
		return ActionResult{Info: "deleted fx rate", Refresh: "fx"}
	}
}
