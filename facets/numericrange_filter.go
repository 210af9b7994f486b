package facets

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/facets/types"
	"github.com/shopspring/decimal"
)

// defaultNumericMaxLinks caps numeric add choices before distinct values
// collapse into ranges.
const defaultNumericMaxLinks = 5

// NumericRangeFilter narrows a numeric attribute. Few distinct values are
// offered directly; many collapse into automatic "nice" ranges (or
// caller-supplied ones with optional labels). Choosing a range offers
// narrower values inside it, unless drill-down is disabled.
//
// The first bucket includes its lower bound so the collection minimum is
// captured; every other bucket excludes its lower bound and every bucket
// includes its upper bound, so a value sitting exactly on a shared edge
// is counted once.
type NumericRangeFilter struct {
	baseFilter
	maxLinks  int
	drilldown bool
	ranges    []NumericRange
}

// NewNumericRangeFilter creates a filter over a numeric attribute
func NewNumericRangeFilter(name string, model *types.Model, params Params, opts Options) (Filter, error) {
	attr, ok := model.Attribute(name)
	if !ok {
		return nil, fmt.Errorf("model %q has no attribute %q", model.Name(), name)
	}

	if err := validateRanges(name, opts.Ranges); err != nil {
		return nil, err
	}

	maxLinks := opts.MaxLinks
	if maxLinks == 0 {
		maxLinks = defaultNumericMaxLinks
	}

	f := &NumericRangeFilter{
		baseFilter: newBaseFilter(attr, model, params, opts),
		maxLinks:   maxLinks,
		drilldown:  opts.Drilldown == nil || *opts.Drilldown,
		ranges:     opts.Ranges,
	}
	f.chosen = f.decodeChosen(func(token string) (ChoiceValue, error) {
		return parseNumericChoice(token)
	})
	sort.SliceStable(f.chosen, func(i, j int) bool {
		return f.compare(f.chosen[i], f.chosen[j]) < 0
	})
	return f, nil
}

// validateRanges rejects explicit buckets that are inverted or out of
// ascending order; the choice predicates assume both.
func validateRanges(name string, ranges []NumericRange) error {
	for i, r := range ranges {
		if r.Lower.GreaterThan(r.Upper) {
			return fmt.Errorf("attribute %q: range %d has lower bound %s above upper bound %s",
				name, i, r.Lower, r.Upper)
		}
		if i > 0 && ranges[i-1].Upper.GreaterThan(r.Lower) {
			return fmt.Errorf("attribute %q: ranges %d and %d overlap or are out of order",
				name, i-1, i)
		}
	}
	return nil
}

// compare is the specificity ordering: points are more specific than
// ranges, narrower ranges more specific than wider ones, Null after all
// real values, Any before them.
func (f *NumericRangeFilter) compare(a, b ChoiceValue) int {
	if c, ok := compareSentinels(a, b); ok {
		return c
	}
	return compareNumericChoices(a.(NumericChoice), b.(NumericChoice))
}

// Apply implements Filter
func (f *NumericRangeFilter) Apply(c Collection) Collection {
	return f.applyChosen(c, f.lookups)
}

func (f *NumericRangeFilter) lookups(v ChoiceValue) []Lookup {
	if isNull(v) {
		return []Lookup{{Attr: f.attr.Name, Op: OpIsNull}}
	}
	return v.(NumericChoice).lookups(f.attr.Name)
}

// render prefers a caller-supplied label when the choice covers exactly
// one of the configured ranges.
func (f *NumericRangeFilter) render(v ChoiceValue) string {
	nc, ok := v.(NumericChoice)
	if !ok {
		return v.Display()
	}
	for _, r := range f.ranges {
		if r.Label != "" && nc.matchesRange(r.Lower, r.Upper) {
			return r.Label
		}
	}
	return nc.Display()
}

// Choices implements Filter
func (f *NumericRangeFilter) Choices(qs Collection) ([]Choice, error) {
	removes := f.cascadeRemoveChoices(f.render, f.compare)
	adds, err := f.addChoices(qs)
	if err != nil {
		return nil, err
	}
	return f.assemble(removes, adds, false, true), nil
}

func (f *NumericRangeFilter) addChoices(qs Collection) ([]Choice, error) {
	if containsNull(f.chosen) {
		return nil, nil
	}
	if !f.drilldown && len(f.chosen) > 0 {
		return nil, nil
	}

	distinct, err := qs.DistinctValues(f.attr.Name)
	if err != nil {
		return nil, err
	}
	if len(distinct) <= f.maxLinks {
		return f.exactChoices(qs)
	}
	return f.rangeChoices(qs)
}

// exactChoices offers one add choice per distinct value
func (f *NumericRangeFilter) exactChoices(qs Collection) ([]Choice, error) {
	counts, err := f.valueCounts(qs)
	if err != nil {
		return nil, err
	}
	var out []Choice
	for _, vc := range counts {
		var value ChoiceValue
		if vc.Value == nil {
			value = NullValue{}
		} else {
			value = numericPoint(vc.Value.(decimal.Decimal))
		}
		out = append(out, Choice{
			Label:  f.render(value),
			Count:  f.countFor(vc.Count),
			Params: f.buildParams(value, nil),
			Link:   LinkAdd,
		})
	}
	return out, nil
}

// rangeChoices offers bucketed add choices, using the configured ranges
// or automatic ones over the collection's min/max.
func (f *NumericRangeFilter) rangeChoices(qs Collection) ([]Choice, error) {
	var out []Choice

	nulls, err := f.nullCount(qs)
	if err != nil {
		return nil, err
	}
	if nulls > 0 {
		null := NullValue{}
		out = append(out, Choice{
			Label:  null.Display(),
			Count:  f.countFor(nulls),
			Params: f.buildParams(null, nil),
			Link:   LinkAdd,
		})
	}

	ranges := f.ranges
	if ranges == nil {
		lo, hi, err := qs.MinMax(f.attr.Name)
		if err != nil {
			return nil, err
		}
		if lo == nil || hi == nil {
			return out, nil
		}
		ranges = AutoRanges(lo.(decimal.Decimal), hi.(decimal.Decimal), f.maxLinks)
	}

	var counts []RangeCount
	if f.showCounts || f.orderByCount {
		counts, err = qs.RangeCounts(f.attr.Name, ranges)
		if err != nil {
			return nil, err
		}
	} else {
		counts = make([]RangeCount, len(ranges))
		for i, r := range ranges {
			counts[i] = RangeCount{Range: r, Count: -1}
		}
	}

	for i, rc := range counts {
		value := numericRangeChoice(
			RangeEnd{Value: rc.Range.Lower, Inclusive: i == 0},
			RangeEnd{Value: rc.Range.Upper, Inclusive: true},
		)
		out = append(out, Choice{
			Label:  f.render(value),
			Count:  f.countFor(rc.Count),
			Params: f.buildParams(value, nil),
			Link:   LinkAdd,
		})
	}
	return out, nil
}
