package table

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Format pads every column to its widest cell, two spaces between columns.
// Right-aligned columns pad on the left; trailing padding is trimmed so row
// labels stay clean for filtering.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	widths := columnWidths(rows)
	out := make([]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for c, cell := range row {
			cells[c] = pad(cell, widths[c], alignmentFor(alignments, c))
		}
		out[i] = strings.TrimRight(strings.Join(cells, "  "), " ")
	}
	return out
}

func columnWidths(rows [][]string) []int {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for c, cell := range row {
			if c < len(widths) && cellWidth(cell) > widths[c] {
				widths[c] = cellWidth(cell)
			}
		}
	}
	return widths
}

func alignmentFor(alignments []Alignment, col int) Alignment {
	if col < len(alignments) {
		return alignments[col]
	}
	return AlignLeft
}

func pad(cell string, width int, a Alignment) string {
	gap := width - cellWidth(cell)
	if gap <= 0 {
		return cell
	}
	fill := strings.Repeat(" ", gap)
	if a == AlignRight {
		return fill + cell
	}
	return cell + fill
}

// Money renders an amount with two decimal places and thousands separators,
// the way ledger columns expect. Nil pointers render as a dash.
func Money(amount *decimal.Decimal) string {
	if amount == nil {
		return "-"
	}
	fixed := amount.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}
	dot := strings.IndexByte(fixed, '.')
	intPart, frac := fixed[:dot], fixed[dot:]
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

func cellWidth(text string) int {
	return len([]rune(text))
}
