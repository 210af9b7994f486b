package facets

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RangeEnd is one bound of a numeric range: the value plus whether the
// bound itself is part of the range.
type RangeEnd struct {
	Value     decimal.Decimal
	Inclusive bool
}

// NumericChoice represents a chosen numeric value: either a single point
// or a range with per-end inclusivity. On the wire a bound is the decimal
// literal with an optional "i" suffix marking it inclusive; a range joins
// two bounds with "..". Without a suffix the lower bound is exclusive and
// the upper bound inclusive; a single token is a point. Generated choices
// always spell inclusivity out, so the defaults only matter for
// hand-written URLs.
type NumericChoice struct {
	ends []RangeEnd
}

// parseNumericChoice decodes a wire token into a NumericChoice
func parseNumericChoice(token string) (NumericChoice, error) {
	parts := strings.SplitN(token, "..", 2)
	ends := make([]RangeEnd, 0, len(parts))
	for i, p := range parts {
		// defaults: points and upper bounds inclusive, lower bounds of a
		// range exclusive
		inclusive := len(parts) == 1 || i == 1
		if strings.HasSuffix(p, "i") {
			inclusive = true
			p = p[:len(p)-1]
		}
		val, err := decimal.NewFromString(p)
		if err != nil {
			return NumericChoice{}, fmt.Errorf("unrecognized numeric token %q", token)
		}
		ends = append(ends, RangeEnd{Value: val, Inclusive: inclusive})
	}
	return NumericChoice{ends: ends}, nil
}

// numericPoint builds a single-point choice
func numericPoint(v decimal.Decimal) NumericChoice {
	return NumericChoice{ends: []RangeEnd{{Value: v, Inclusive: true}}}
}

// numericRangeChoice builds a range choice with explicit inclusivity
func numericRangeChoice(lo, hi RangeEnd) NumericChoice {
	return NumericChoice{ends: []RangeEnd{lo, hi}}
}

// Param implements ChoiceValue
func (c NumericChoice) Param() string {
	tokens := make([]string, len(c.ends))
	for i, e := range c.ends {
		tokens[i] = e.Value.String()
		if e.Inclusive {
			tokens[i] += "i"
		}
	}
	return strings.Join(tokens, "..")
}

// Display implements ChoiceValue
func (c NumericChoice) Display() string {
	parts := make([]string, len(c.ends))
	for i, e := range c.ends {
		parts[i] = e.Value.String()
	}
	return strings.Join(parts, "-")
}

// lookups converts the choice to collection predicates: equality for a
// point, bound comparisons for a range.
func (c NumericChoice) lookups(attr string) []Lookup {
	if len(c.ends) == 1 {
		return []Lookup{{Attr: attr, Op: OpExact, Value: c.ends[0].Value}}
	}
	loOp, hiOp := OpGt, OpLt
	if c.ends[0].Inclusive {
		loOp = OpGte
	}
	if c.ends[1].Inclusive {
		hiOp = OpLte
	}
	return []Lookup{
		{Attr: attr, Op: loOp, Value: c.ends[0].Value},
		{Attr: attr, Op: hiOp, Value: c.ends[1].Value},
	}
}

// matchesRange reports whether the choice covers exactly the given bounds
func (c NumericChoice) matchesRange(lo, hi decimal.Decimal) bool {
	return len(c.ends) == 2 && c.ends[0].Value.Equal(lo) && c.ends[1].Value.Equal(hi)
}

// compareNumericChoices orders numeric choices by specificity: a single
// point is more specific than any range, and of two ranges the narrower
// span is more specific. Two points compare equal, which makes cascade
// removal treat sibling point selections as one group.
func compareNumericChoices(a, b NumericChoice) int {
	if len(a.ends) != len(b.ends) {
		// fewer bounds means a point, which is more specific
		if len(a.ends) < len(b.ends) {
			return 1
		}
		return -1
	}
	if len(a.ends) == 1 {
		return 0
	}
	spanA := a.ends[1].Value.Sub(a.ends[0].Value)
	spanB := b.ends[1].Value.Sub(b.ends[0].Value)
	// larger span means less specific
	return -spanA.Cmp(spanB)
}
