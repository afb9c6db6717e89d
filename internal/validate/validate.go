package validate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/funddeck/funddeck/internal/api"
)

// Client-side validation mirrors the server's rules so bad input never
// reaches the wire. Violations render in the form error slot.

// Entry kinds and their extra required fields.
const (
	KindBudget     = "budget"
	KindQuote      = "quote"
	KindPO         = "po"
	KindUnplanned  = "unplanned"
	KindAdjustment = "adjustment"
)

var entryKinds = map[string]struct{}{
	KindBudget:     {},
	KindQuote:      {},
	KindPO:         {},
	KindUnplanned:  {},
	KindAdjustment: {},
}

// allocationTolerance matches the server's 1e-6 sum check.
var allocationTolerance = decimal.New(1, -6)

// FX safety band; rates outside need an explicit manual override.
var (
	fxBandLow  = decimal.RequireFromString("0.5")
	fxBandHigh = decimal.RequireFromString("2.0")
)

// EntryKinds lists the accepted entry kinds in display order.
func EntryKinds() []string {
	return []string{KindBudget, KindQuote, KindPO, KindUnplanned, KindAdjustment}
}

// Amount parses a user-typed amount string.
func Amount(text string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return decimal.Decimal{}, fmt.Errorf("amount is required")
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount must be numeric")
	}
	return value, nil
}

// Entry checks kind membership, kind-specific required fields, and the
// allocation sum before any network call is issued.
func Entry(e api.Entry) error {
	if _, ok := entryKinds[e.Kind]; !ok {
		return fmt.Errorf("unknown entry kind %q", e.Kind)
	}
	if e.CarID == 0 {
		return fmt.Errorf("funding source is required")
	}
	switch e.Kind {
	case KindPO:
		if strings.TrimSpace(e.PONumber) == "" {
			return fmt.Errorf("po entries require a PO number")
		}
		if e.VendorID == nil {
			return fmt.Errorf("po entries require a vendor")
		}
	case KindQuote:
		if strings.TrimSpace(e.QuoteRef) == "" {
			return fmt.Errorf("quote entries require a quote reference")
		}
		if e.VendorID == nil {
			return fmt.Errorf("quote entries require a vendor")
		}
	case KindBudget:
		if e.CategoryID == nil {
			return fmt.Errorf("budget entries require a category")
		}
	}
	if e.Mischarged && e.IntendedCarID == nil {
		return fmt.Errorf("mischarged entries require an intended funding source")
	}
	return Allocations(e.Amount, e.Allocations)
}

// Allocations verifies the split sums to the entry amount within tolerance.
// An empty allocation list is allowed; the server books the full amount to
// the entry's funding source.
func Allocations(amount decimal.Decimal, allocations []api.Allocation) error {
	if len(allocations) == 0 {
		return nil
	}
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Amount)
	}
	if total.Sub(amount).Abs().GreaterThan(allocationTolerance) {
		return fmt.Errorf("allocations sum to %s, entry amount is %s", total, amount)
	}
	return nil
}

// FxRate enforces the 0.5–2.0 safety band unless manual override is set.
func FxRate(rate decimal.Decimal, manualOverride bool) error {
	if rate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("rate must be positive")
	}
	if manualOverride {
		return nil
	}
	if rate.LessThan(fxBandLow) || rate.GreaterThan(fxBandHigh) {
		return fmt.Errorf("rate %s outside safety band %s–%s; set the override flag to submit anyway", rate, fxBandLow, fxBandHigh)
	}
	return nil
}

// TagName normalizes and checks a tag name: lowercased, non-empty, no spaces.
func TagName(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return "", fmt.Errorf("tag name is required")
	}
	if strings.ContainsAny(normalized, " \t") {
		return "", fmt.Errorf("tag names may not contain spaces")
	}
	return normalized, nil
}

// EntityType checks the tag-assignment scope.
func EntityType(entityType string) error {
	switch entityType {
	case "budget", "item_project", "category", "entry", "line_asset", "vendor":
		return nil
	}
	return fmt.Errorf("unknown entity type %q", entityType)
}
