package picker

import "strings"

// Option is one selectable row. Value is unique within a picker; Raw carries
// the backing record for callers that need more than the label.
type Option struct {
	Value string
	Label string
	Raw   interface{}
}

func (o *Option) clone() *Option {
	if o == nil {
		return nil
	}
	dup := *o
	return &dup
}

// defaultMatcher is a case-insensitive label substring match. The needle is
// already lowercased by the filter loop.
func defaultMatcher(o *Option, needle string) bool {
	return strings.Contains(strings.ToLower(o.Label), needle)
}

// defaultSorter orders by label, then value for stability between equals.
func defaultSorter(a, b *Option) int {
	if c := strings.Compare(a.Label, b.Label); c != 0 {
		return c
	}
	return strings.Compare(a.Value, b.Value)
}
