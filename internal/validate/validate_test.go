package validate

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/funddeck/funddeck/internal/api"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }

func TestEntryKindRequirements(t *testing.T) {
	base := func(kind string) api.Entry {
		return api.Entry{Kind: kind, CarID: 1, Amount: decimal.NewFromInt(100)}
	}

	tests := []struct {
		name    string
		entry   api.Entry
		wantErr string
	}{
		{
			name:    "unknown kind",
			entry:   api.Entry{Kind: "invoice", CarID: 1},
			wantErr: "unknown entry kind",
		},
		{
			name:    "missing funding source",
			entry:   api.Entry{Kind: KindBudget},
			wantErr: "funding source is required",
		},
		{
			name:    "po without number",
			entry:   func() api.Entry { e := base(KindPO); e.VendorID = ptr(int64(7)); return e }(),
			wantErr: "PO number",
		},
		{
			name:    "po without vendor",
			entry:   func() api.Entry { e := base(KindPO); e.PONumber = "PO-1"; return e }(),
			wantErr: "vendor",
		},
		{
			name: "po complete",
			entry: func() api.Entry {
				e := base(KindPO)
				e.PONumber = "PO-1"
				e.VendorID = ptr(int64(7))
				return e
			}(),
		},
		{
			name:    "quote without reference",
			entry:   func() api.Entry { e := base(KindQuote); e.VendorID = ptr(int64(7)); return e }(),
			wantErr: "quote reference",
		},
		{
			name:    "budget without category",
			entry:   base(KindBudget),
			wantErr: "category",
		},
		{
			name:  "budget with category",
			entry: func() api.Entry { e := base(KindBudget); e.CategoryID = ptr(int64(3)); return e }(),
		},
		{
			name:  "unplanned needs nothing extra",
			entry: base(KindUnplanned),
		},
		{
			name:  "adjustment needs nothing extra",
			entry: base(KindAdjustment),
		},
		{
			name:    "mischarged without intended source",
			entry:   func() api.Entry { e := base(KindUnplanned); e.Mischarged = true; return e }(),
			wantErr: "intended funding source",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Entry(tc.entry)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestAllocationsSum(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		splits []string
		ok     bool
	}{
		{name: "empty split allowed", amount: "100", splits: nil, ok: true},
		{name: "exact", amount: "100", splits: []string{"60", "40"}, ok: true},
		{name: "within tolerance", amount: "100", splits: []string{"60.0000004", "40.0000001"}, ok: true},
		{name: "just over tolerance", amount: "100", splits: []string{"60", "40.000002"}, ok: false},
		{name: "way off", amount: "100", splits: []string{"60", "60"}, ok: false},
		{name: "negative amounts balance", amount: "-50", splits: []string{"-30", "-20"}, ok: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			allocs := make([]api.Allocation, 0, len(tc.splits))
			for i, s := range tc.splits {
				allocs = append(allocs, api.Allocation{PortfolioID: int64(i + 1), Amount: dec(t, s)})
			}
			err := Allocations(dec(t, tc.amount), allocs)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestFxRateBand(t *testing.T) {
	tests := []struct {
		name     string
		rate     string
		override bool
		ok       bool
	}{
		{name: "inside band", rate: "1.1", ok: true},
		{name: "low edge", rate: "0.5", ok: true},
		{name: "high edge", rate: "2.0", ok: true},
		{name: "below band", rate: "0.4999", ok: false},
		{name: "above band", rate: "2.0001", ok: false},
		{name: "below band with override", rate: "0.01", override: true, ok: true},
		{name: "above band with override", rate: "150", override: true, ok: true},
		{name: "zero rejected even with override", rate: "0", override: true, ok: false},
		{name: "negative rejected", rate: "-1", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := FxRate(dec(t, tc.rate), tc.override)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestTagName(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "Hardware", want: "hardware", ok: true},
		{in: "  NRE  ", want: "nre", ok: true},
		{in: "fy25-carry", want: "fy25-carry", ok: true},
		{in: "two words", ok: false},
		{in: "", ok: false},
		{in: "   ", ok: false},
	}

	for _, tc := range tests {
		got, err := TagName(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("TagName(%q): unexpected error %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("TagName(%q) = %q, want %q", tc.in, got, tc.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("TagName(%q): expected error", tc.in)
		}
	}
}

func TestEntityType(t *testing.T) {
	for _, et := range []string{"budget", "item_project", "category", "entry", "line_asset", "vendor"} {
		if err := EntityType(et); err != nil {
			t.Fatalf("EntityType(%q): %v", et, err)
		}
	}
	if err := EntityType("portfolio"); err == nil {
		t.Fatal("expected error for unknown entity type")
	}
}
