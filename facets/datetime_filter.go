package facets

import (
	"fmt"
	"sort"
	"time"

	"github.com/arthur-debert/facets/types"
)

// defaultDateMaxLinks caps date add choices before periods collapse into
// contiguous ranges.
const defaultDateMaxLinks = 12

// DateTimeFilter narrows a date attribute by drilling down the
// year/month/day hierarchy. A chosen year offers months, a chosen month
// offers days, and a chosen range offers narrower values at the same
// level. When the candidate periods exceed max links they collapse into
// even-sized contiguous ranges, and levels with a single uninteresting
// choice are skipped automatically.
type DateTimeFilter struct {
	baseFilter
	maxLinks      int
	maxDepthLevel int
}

// dateChoiceCount pairs a drill-down candidate with its record count
type dateChoiceCount struct {
	choice DateChoice
	count  int
}

// NewDateTimeFilter creates a filter over a date attribute. opts.MaxDepth
// may be "year" or "month" to stop drill-down early.
func NewDateTimeFilter(name string, model *types.Model, params Params, opts Options) (Filter, error) {
	attr, ok := model.Attribute(name)
	if !ok {
		return nil, fmt.Errorf("model %q has no attribute %q", model.Name(), name)
	}

	maxDepthLevel := int(LevelDay) + 1
	switch opts.MaxDepth {
	case "":
	case "year":
		maxDepthLevel = int(LevelYear)
	case "month":
		maxDepthLevel = int(LevelMonth)
	default:
		return nil, fmt.Errorf("attribute %q: invalid max depth %q (want \"year\" or \"month\")", name, opts.MaxDepth)
	}

	maxLinks := opts.MaxLinks
	if maxLinks == 0 {
		maxLinks = defaultDateMaxLinks
	}

	f := &DateTimeFilter{
		baseFilter:    newBaseFilter(attr, model, params, opts),
		maxLinks:      maxLinks,
		maxDepthLevel: maxDepthLevel,
	}
	f.chosen = f.decodeChosen(func(token string) (ChoiceValue, error) {
		return parseDateChoice(token)
	})
	// broadest first, so cascade removal and bridging can assume order
	sort.SliceStable(f.chosen, func(i, j int) bool {
		return f.compare(f.chosen[i], f.chosen[j]) < 0
	})
	return f, nil
}

// compare is the specificity ordering over chosen values: coarser levels
// first, groups before singles, Any before everything, Null after.
func (f *DateTimeFilter) compare(a, b ChoiceValue) int {
	if c, ok := compareSentinels(a, b); ok {
		return c
	}
	return compareDateChoices(a.(DateChoice), b.(DateChoice))
}

// Apply implements Filter
func (f *DateTimeFilter) Apply(c Collection) Collection {
	return f.applyChosen(c, f.lookups)
}

func (f *DateTimeFilter) lookups(v ChoiceValue) []Lookup {
	if isNull(v) {
		return []Lookup{{Attr: f.attr.Name, Op: OpIsNull}}
	}
	return v.(DateChoice).lookups(f.attr.Name)
}

// Choices implements Filter
func (f *DateTimeFilter) Choices(qs Collection) ([]Choice, error) {
	removes := f.removeChoicesWithBridges()
	adds, err := f.addChoices(qs)
	if err != nil {
		return nil, err
	}
	return f.assemble(removes, adds, false, true), nil
}

// removeChoicesWithBridges emits cascading remove choices: removing a
// value also removes every equal-or-more-specific chosen value. Display
// bridges fill granularity gaps between consecutive selections, so the
// breadcrumb always reads year, month, day even when an intermediate
// level was never explicitly chosen.
func (f *DateTimeFilter) removeChoicesWithBridges() []Choice {
	var out []Choice
	for i, v := range f.chosen {
		var toRemove []ChoiceValue
		for _, c := range f.chosen {
			if f.compare(c, v) >= 0 {
				toRemove = append(toRemove, c)
			}
		}
		out = append(out, Choice{
			Label:  render(v),
			Params: f.buildParams(nil, toRemove),
			Link:   LinkRemove,
		})
		out = append(out, f.bridgeChoices(f.chosen[:i+1], dateChoicesOf(f.chosen[i+1:]))...)
	}
	return out
}

func dateChoicesOf(vs []ChoiceValue) []DateChoice {
	var out []DateChoice
	for _, v := range vs {
		if dc, ok := v.(DateChoice); ok {
			out = append(out, dc)
		}
	}
	return out
}

// bridgeChoices returns display entries bridging from what is chosen
// (possibly nothing) to the next offered choices, giving the links
// context. Used both between remove choices and ahead of add choices.
func (f *DateTimeFilter) bridgeChoices(chosen []ChoiceValue, next []DateChoice) []Choice {
	if len(next) == 0 {
		return nil
	}
	chosenLevel := 0
	bridgeToSingle := false
	if len(chosen) > 0 {
		last, ok := chosen[len(chosen)-1].(DateChoice)
		if !ok {
			return nil
		}
		chosenLevel = int(last.span.level)
		bridgeToSingle = !last.span.single
	}

	// the first next choice carries all the period values a bridge needs
	template := next[0]
	nextLevel := int(template.span.level)

	var out []Choice
	for chosenLevel < nextLevel-1 || (chosenLevel < nextLevel && bridgeToSingle) {
		// a group selection first bridges to the single at its own level
		if bridgeToSingle {
			bridgeToSingle = false
		} else {
			chosenLevel++
		}
		if chosenLevel > f.maxDepthLevel {
			continue
		}
		bridge := DateChoice{dateSpan{DateLevel(chosenLevel), true}, template.values}
		out = append(out, Choice{Label: bridge.Display(), Link: LinkDisplay})
	}
	return out
}

func (f *DateTimeFilter) addChoices(qs Collection) ([]Choice, error) {
	if containsNull(f.chosen) {
		return nil, nil
	}

	var last *DateChoice
	if len(f.chosen) > 0 {
		dc := f.chosen[len(f.chosen)-1].(DateChoice)
		last = &dc
	}
	candidates, err := f.collectAddCounts(qs, last)
	if err != nil {
		return nil, err
	}

	var out []Choice
	if len(candidates) > 0 {
		next := make([]DateChoice, len(candidates))
		for i, cc := range candidates {
			next[i] = cc.choice
		}
		out = append(out, f.bridgeChoices(f.chosen, next)...)
	}

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

	for _, cc := range candidates {
		if f.isChosen(cc.choice) {
			continue
		}
		// the depth ceiling is checked this late so bridges above still
		// get produced
		level := int(cc.choice.span.level)
		if level > f.maxDepthLevel {
			continue
		}
		link := LinkAdd
		if len(candidates) == 1 && (level == f.maxDepthLevel || cc.count == 1) {
			link = LinkDisplay
		}
		out = append(out, Choice{
			Label:  cc.choice.Display(),
			Count:  f.countFor(cc.count),
			Params: f.buildParams(cc.choice, nil),
			Link:   link,
		})
	}
	return out, nil
}

func (f *DateTimeFilter) isChosen(dc DateChoice) bool {
	for _, v := range f.chosen {
		if valueEqual(v, dc) {
			return true
		}
	}
	return false
}

// collectAddCounts finds the drill-down candidates below the most
// specific chosen value. With nothing chosen, the starting granularity is
// inferred from the collection's actual date span, so an already-narrow
// collection starts at months or days instead of years. A level that
// yields only a single candidate is skipped by recursing one level
// deeper; the skipped level reappears as a bridge.
func (f *DateTimeFilter) collectAddCounts(qs Collection, last *DateChoice) ([]dateChoiceCount, error) {
	var span dateSpan
	if last != nil {
		next, ok := last.span.drilldown()
		if !ok {
			return nil, nil
		}
		span = next
	} else {
		lo, hi, err := qs.MinMax(f.attr.Name)
		if err != nil {
			return nil, err
		}
		if lo == nil || hi == nil {
			return nil, nil
		}
		first, lastDate := lo.(time.Time), hi.(time.Time)
		switch {
		case first.Year() == lastDate.Year() && first.Month() == lastDate.Month():
			span = dateSpan{LevelDay, true}
		case first.Year() == lastDate.Year():
			span = dateSpan{LevelMonth, true}
		default:
			span = dateSpan{LevelYear, true}
		}
	}

	results, err := qs.DateCounts(f.attr.Name, span.level)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	candidates := f.collapse(results, span)
	if len(candidates) == 1 {
		deeper, err := f.collectAddCounts(qs, &candidates[0].choice)
		if err != nil {
			return nil, err
		}
		// when the deeper level has real choices, the single candidate
		// here is dropped; bridging recreates it as context
		if len(deeper) > 0 {
			return deeper, nil
		}
	}
	return candidates, nil
}

// collapse turns per-period counts into choices. Within max links each
// period is offered on its own; beyond it, periods group into even-sized
// contiguous ranges. Month and day buckets are anchored to the full
// month/day domain so no bucket wraps into the next year or month.
func (f *DateTimeFilter) collapse(results []DateCount, span dateSpan) []dateChoiceCount {
	if len(results) <= f.maxLinks {
		out := make([]dateChoiceCount, len(results))
		for i, r := range results {
			out[i] = dateChoiceCount{dateChoiceFromTime(span.level, r.When), r.Count}
		}
		return out
	}

	var first, last int
	switch span.level {
	case LevelMonth:
		first, last = 1, 12
	case LevelDay:
		first, last = 1, daysInMonth(results[0].When)
	default:
		first = results[0].When.Year()
		last = results[len(results)-1].When.Year()
	}

	domain := last - first + 1
	bucketSize := ceilDiv(domain, f.maxLinks)
	numBuckets := ceilDiv(domain, bucketSize)

	counts := make([]int, numBuckets)
	for _, r := range results {
		counts[(dateComponent(r.When, span.level)-first)/bucketSize] += r.Count
	}

	template := results[0].When
	var out []dateChoiceCount
	for i, count := range counts {
		if count == 0 {
			continue
		}
		startVal := first + bucketSize*i
		endVal := startVal + bucketSize
		if endVal > last {
			endVal = last
		}
		start := replaceDateComponent(template, span.level, startVal)
		end := replaceDateComponent(template, span.level, endVal)
		out = append(out, dateChoiceCount{dateChoiceFromTimeRange(span.level, start, end), count})
	}
	return out
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateComponent(t time.Time, level DateLevel) int {
	switch level {
	case LevelYear:
		return t.Year()
	case LevelMonth:
		return int(t.Month())
	default:
		return t.Day()
	}
}

func replaceDateComponent(t time.Time, level DateLevel, val int) time.Time {
	switch level {
	case LevelYear:
		return time.Date(val, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case LevelMonth:
		return time.Date(t.Year(), time.Month(val), t.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), val, 0, 0, 0, 0, time.UTC)
	}
}
