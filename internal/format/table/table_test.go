package table

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"FY26 CAR", "1,250.00"},
		{"Sustaining", "75.50"},
	}
	got := Format(rows, []Alignment{AlignLeft, AlignRight})
	want := []string{
		"FY26 CAR    1,250.00",
		"Sustaining     75.50",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil, nil); got != nil {
		t.Fatalf("Format(nil) = %v", got)
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"1250.5", "1,250.50"},
		{"1000000", "1,000,000.00"},
		{"-98765.432", "-98,765.43"},
		{"999", "999.00"},
	}
	for _, tc := range tests {
		d, err := decimal.NewFromString(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got := Money(&d); got != tc.want {
			t.Fatalf("Money(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := Money(nil); got != "-" {
		t.Fatalf("Money(nil) = %q", got)
	}
}
