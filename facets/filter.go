package facets

import (
	"sort"

	"github.com/arthur-debert/facets/types"
)

// isnullSuffix is appended to a filter's parameter key to form the
// sibling key that marks an "is null" selection.
const isnullSuffix = "--isnull"

// Filter is one attribute's choice state for a single request. A filter
// is constructed once from the inbound parameters, is read-only for the
// rest of the request, and is discarded afterwards.
type Filter interface {
	// Attribute returns the name of the attribute the filter narrows
	Attribute() string

	// ParamKey returns the query parameter key the filter reads and writes
	ParamKey() string

	// Chosen returns the values selected for the filter, in the order
	// they will be applied. The slice must not be mutated.
	Chosen() []ChoiceValue

	// Apply narrows a collection by every chosen value
	Apply(c Collection) Collection

	// Choices computes the ordered choice list for presentation, given
	// the fully narrowed collection
	Choices(c Collection) ([]Choice, error)
}

// Options configures a filter. The zero value gives defaults: counts
// shown, natural ordering, per-kind max links, drill-down enabled.
type Options struct {
	// ParamKey overrides the query parameter key (defaults to the
	// attribute name)
	ParamKey string

	// OrderByCount orders add choices by descending count instead of
	// natural order
	OrderByCount bool

	// ShowCounts toggles count display; nil means true
	ShowCounts *bool

	// MaxLinks caps the number of add choices before values collapse
	// into ranges; 0 means the per-kind default
	MaxLinks int

	// MaxDepth caps date drill-down at "year" or "month"; empty means
	// drill to days
	MaxDepth string

	// Drilldown, when set to false, stops a numeric filter from offering
	// further add choices once a value is chosen; nil means true
	Drilldown *bool

	// Ranges supplies explicit numeric buckets instead of automatic
	// ones, each with an optional display label
	Ranges []NumericRange
}

// merged returns the options with unset fields filled from defaults
func (o Options) merged(defaults Options) Options {
	out := o
	if out.ParamKey == "" {
		out.ParamKey = defaults.ParamKey
	}
	if !out.OrderByCount {
		out.OrderByCount = defaults.OrderByCount
	}
	if out.ShowCounts == nil {
		out.ShowCounts = defaults.ShowCounts
	}
	if out.MaxLinks == 0 {
		out.MaxLinks = defaults.MaxLinks
	}
	if out.MaxDepth == "" {
		out.MaxDepth = defaults.MaxDepth
	}
	if out.Drilldown == nil {
		out.Drilldown = defaults.Drilldown
	}
	if out.Ranges == nil {
		out.Ranges = defaults.Ranges
	}
	return out
}

// baseFilter carries the state every filter shares: the attribute, the
// construction-time parameter snapshot, and the decoded chosen values.
type baseFilter struct {
	attr         *types.Attribute
	model        *types.Model
	params       Params
	paramKey     string
	orderByCount bool
	showCounts   bool
	chosen       []ChoiceValue
}

func newBaseFilter(attr *types.Attribute, model *types.Model, params Params, opts Options) baseFilter {
	paramKey := opts.ParamKey
	if paramKey == "" {
		paramKey = attr.Name
	}
	showCounts := opts.ShowCounts == nil || *opts.ShowCounts
	return baseFilter{
		attr:         attr,
		model:        model,
		params:       params,
		paramKey:     paramKey,
		orderByCount: opts.OrderByCount,
		showCounts:   showCounts,
	}
}

// Attribute implements Filter
func (f *baseFilter) Attribute() string { return f.attr.Name }

// ParamKey implements Filter
func (f *baseFilter) ParamKey() string { return f.paramKey }

// Chosen implements Filter
func (f *baseFilter) Chosen() []ChoiceValue { return f.chosen }

func (f *baseFilter) isnullKey() string { return f.paramKey + isnullSuffix }

// decodeChosen parses the chosen values from the parameter snapshot.
// Malformed tokens are dropped one by one, so a garbled parameter behaves
// as if it were never supplied. A "<key>--isnull" marker wins over any
// ordinary tokens under the key: the two selections are mutually
// exclusive.
func (f *baseFilter) decodeChosen(decode func(string) (ChoiceValue, error)) []ChoiceValue {
	if f.params.Has(f.isnullKey()) {
		return []ChoiceValue{NullValue{}}
	}
	var out []ChoiceValue
	for _, token := range f.params.GetList(f.paramKey) {
		v, err := decode(token)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// applyChosen folds every chosen value's predicate onto the collection
func (f *baseFilter) applyChosen(c Collection, lookups func(ChoiceValue) []Lookup) Collection {
	for _, v := range f.chosen {
		c = c.Filter(lookups(v)...)
	}
	return c
}

// buildParams builds the parameter set for a link: the current snapshot
// with the given values removed and optionally one added, the surviving
// chosen set re-encoded under the filter's key, and the pagination
// parameter stripped.
func (f *baseFilter) buildParams(add ChoiceValue, remove []ChoiceValue) Params {
	params := f.params.Copy()

	surviving := make([]ChoiceValue, 0, len(f.chosen)+1)
	for _, v := range f.chosen {
		removed := false
		for _, r := range remove {
			if valueEqual(v, r) {
				removed = true
				break
			}
		}
		if !removed {
			surviving = append(surviving, v)
		}
	}
	if add != nil {
		present := false
		for _, v := range surviving {
			if valueEqual(v, add) {
				present = true
				break
			}
		}
		if !present {
			surviving = append(surviving, add)
		}
	}

	if containsNull(surviving) {
		params.Set(f.isnullKey(), "")
	} else {
		params.Del(f.isnullKey())
	}

	var tokens []string
	for _, v := range surviving {
		if !isNull(v) {
			tokens = append(tokens, v.Param())
		}
	}
	if len(tokens) > 0 {
		params.SetList(f.paramKey, tokens)
	} else {
		params.Del(f.paramKey)
	}

	// links reset paging
	params.Del(PageParam)
	return params
}

// removeChoices emits one remove choice per chosen value, each reverting
// just that value. Dangling references get no remove choice: there is
// nothing to display for them.
func (f *baseFilter) removeChoices(render func(ChoiceValue) string) []Choice {
	var out []Choice
	for _, v := range f.chosen {
		if ref, ok := v.(RefValue); ok && !ref.Exists {
			continue
		}
		out = append(out, Choice{
			Label:  render(v),
			Params: f.buildParams(nil, []ChoiceValue{v}),
			Link:   LinkRemove,
		})
	}
	return out
}

// cascadeRemoveChoices emits remove choices for drill-down filters:
// removing a value also removes every chosen value of equal or greater
// specificity, so no dangling finer-grained selection survives.
func (f *baseFilter) cascadeRemoveChoices(render func(ChoiceValue) string, cmp func(a, b ChoiceValue) int) []Choice {
	var out []Choice
	for _, v := range f.chosen {
		var toRemove []ChoiceValue
		for _, c := range f.chosen {
			if cmp(c, v) >= 0 {
				toRemove = append(toRemove, c)
			}
		}
		out = append(out, Choice{
			Label:  render(v),
			Params: f.buildParams(nil, toRemove),
			Link:   LinkRemove,
		})
	}
	return out
}

// assemble combines remove and add choices per the filter's cardinality.
// Choose-once filters show only the remove link while a value is chosen;
// choose-again filters show both lists. demote converts a lone add choice
// into a display entry, since following it could not change the result
// set.
func (f *baseFilter) assemble(removes, adds []Choice, chooseOnce, demote bool) []Choice {
	if chooseOnce && len(removes) > 0 {
		return removes
	}
	if demote {
		adds = demoteSingleAdd(adds)
	}
	if f.orderByCount {
		sortChoicesByCount(adds)
	}
	if chooseOnce {
		return adds
	}
	return append(removes, adds...)
}

// demoteSingleAdd turns an only add choice into a display entry, keeping
// its label and count but dropping the link.
func demoteSingleAdd(choices []Choice) []Choice {
	addIndex := -1
	for i, c := range choices {
		if c.Link == LinkAdd {
			if addIndex >= 0 {
				return choices
			}
			addIndex = i
		}
	}
	if addIndex < 0 {
		return choices
	}
	choices[addIndex] = Choice{
		Label: choices[addIndex].Label,
		Count: choices[addIndex].Count,
		Link:  LinkDisplay,
	}
	return choices
}

// sortChoicesByCount orders add choices by descending count, keeping the
// natural order among equal counts.
func sortChoicesByCount(choices []Choice) {
	sort.SliceStable(choices, func(i, j int) bool {
		ci, cj := 0, 0
		if choices[i].Count != nil {
			ci = *choices[i].Count
		}
		if choices[j].Count != nil {
			cj = *choices[j].Count
		}
		return ci > cj
	})
}

// valueCounts fetches grouped counts for the filter's attribute. When
// neither count display nor count ordering needs them, it enumerates
// distinct values with nil counts instead, sparing the aggregation.
func (f *baseFilter) valueCounts(qs Collection) ([]ValueCount, error) {
	if f.showCounts || f.orderByCount {
		return qs.ValueCounts(f.attr.Name)
	}
	vals, err := qs.DistinctValues(f.attr.Name)
	if err != nil {
		return nil, err
	}
	out := make([]ValueCount, len(vals))
	for i, v := range vals {
		out[i] = ValueCount{Value: v, Count: -1}
	}
	return out, nil
}

// countFor returns the count pointer for a choice, honoring showCounts
// and the -1 marker used when counts were not fetched.
func (f *baseFilter) countFor(n int) *int {
	if !f.showCounts || n < 0 {
		return nil
	}
	return countOf(n)
}

// nullCount counts records lacking a value for the attribute; used to
// offer an "is null" add choice when nothing is chosen yet.
func (f *baseFilter) nullCount(qs Collection) (int, error) {
	if len(f.chosen) > 0 || !f.attr.Nullable {
		return 0, nil
	}
	return qs.Filter(Lookup{Attr: f.attr.Name, Op: OpIsNull}).Count()
}
