package memstore

import (
	"sort"
	"time"

	"github.com/arthur-debert/facets/facets"
	"github.com/arthur-debert/facets/types"
	"github.com/shopspring/decimal"
)

// predicateGroup is one Filter or Exclude call: the lookups AND together,
// and the exclude flag inverts the group as a whole.
type predicateGroup struct {
	lookups []facets.Lookup
	exclude bool
}

// collection is a lazy view over a store's records. Narrowing appends a
// predicate group; records are only walked when an aggregation runs.
type collection struct {
	store  *Store
	groups []predicateGroup
}

func (c *collection) narrow(lookups []facets.Lookup, exclude bool) facets.Collection {
	groups := make([]predicateGroup, len(c.groups), len(c.groups)+1)
	copy(groups, c.groups)
	groups = append(groups, predicateGroup{lookups: lookups, exclude: exclude})
	return &collection{store: c.store, groups: groups}
}

// Filter implements facets.Collection
func (c *collection) Filter(lookups ...facets.Lookup) facets.Collection {
	return c.narrow(lookups, false)
}

// Exclude implements facets.Collection
func (c *collection) Exclude(lookups ...facets.Lookup) facets.Collection {
	return c.narrow(lookups, true)
}

// Model implements facets.Collection
func (c *collection) Model() *types.Model {
	return c.store.model
}

func (c *collection) matches(rec *Record) bool {
	for _, g := range c.groups {
		all := true
		for _, l := range g.lookups {
			if !matchLookup(rec, l) {
				all = false
				break
			}
		}
		if all == g.exclude {
			return false
		}
	}
	return true
}

// each walks the matching records in store order
func (c *collection) each(fn func(rec *Record)) {
	for i := range c.store.records {
		rec := &c.store.records[i]
		if c.matches(rec) {
			fn(rec)
		}
	}
}

// Records materializes the matching records in store order. Not part of
// the facets.Collection interface; callers holding a memstore-backed
// collection reach it by type assertion.
func (c *collection) Records() []Record {
	var out []Record
	c.each(func(rec *Record) { out = append(out, *rec) })
	return out
}

// Count implements facets.Collection
func (c *collection) Count() (int, error) {
	n := 0
	c.each(func(*Record) { n++ })
	return n, nil
}

// ValueCounts implements facets.Collection
func (c *collection) ValueCounts(attr string) ([]facets.ValueCount, error) {
	nulls := 0
	var values []interface{}
	counts := make(map[string]int)
	seen := make(map[string]bool)

	add := func(v interface{}) {
		key := valueKey(v)
		counts[key]++
		if !seen[key] {
			seen[key] = true
			values = append(values, v)
		}
	}

	c.each(func(rec *Record) {
		v := rec.Attrs[attr]
		if v == nil {
			nulls++
			return
		}
		// many-valued records contribute one count per element
		if elems, ok := v.([]string); ok {
			for _, e := range elems {
				add(e)
			}
			return
		}
		add(v)
	})

	sort.SliceStable(values, func(i, j int) bool {
		return compareValues(values[i], values[j]) < 0
	})

	var out []facets.ValueCount
	if nulls > 0 {
		out = append(out, facets.ValueCount{Value: nil, Count: nulls})
	}
	for _, v := range values {
		out = append(out, facets.ValueCount{Value: v, Count: counts[valueKey(v)]})
	}
	return out, nil
}

// DistinctValues implements facets.Collection
func (c *collection) DistinctValues(attr string) ([]interface{}, error) {
	counts, err := c.ValueCounts(attr)
	if err != nil {
		return nil, err
	}
	var out []interface{}
	for _, vc := range counts {
		if vc.Value != nil {
			out = append(out, vc.Value)
		}
	}
	return out, nil
}

// MinMax implements facets.Collection
func (c *collection) MinMax(attr string) (lo, hi interface{}, err error) {
	c.each(func(rec *Record) {
		v := rec.Attrs[attr]
		if v == nil {
			return
		}
		if lo == nil || compareValues(v, lo) < 0 {
			lo = v
		}
		if hi == nil || compareValues(v, hi) > 0 {
			hi = v
		}
	})
	return lo, hi, nil
}

// DateCounts implements facets.Collection
func (c *collection) DateCounts(attr string, level facets.DateLevel) ([]facets.DateCount, error) {
	counts := make(map[time.Time]int)
	c.each(func(rec *Record) {
		v, ok := rec.Attrs[attr].(time.Time)
		if !ok {
			return
		}
		counts[truncateDate(v, level)]++
	})

	out := make([]facets.DateCount, 0, len(counts))
	for when, n := range counts {
		out = append(out, facets.DateCount{When: when, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].When.Before(out[j].When)
	})
	return out, nil
}

// RangeCounts implements facets.Collection. The bucket predicate mirrors
// the one range choices filter with, so offered counts match the counts
// after choosing: first bucket includes its lower bound, later buckets
// exclude it, every bucket includes its upper bound, and a value outside
// all buckets lands in the last one.
func (c *collection) RangeCounts(attr string, ranges []facets.NumericRange) ([]facets.RangeCount, error) {
	out := make([]facets.RangeCount, len(ranges))
	for i, r := range ranges {
		out[i].Range = r
	}
	if len(ranges) == 0 {
		return out, nil
	}

	c.each(func(rec *Record) {
		v, ok := rec.Attrs[attr].(decimal.Decimal)
		if !ok {
			return
		}
		bucket := len(ranges) - 1
		for i, r := range ranges {
			aboveLower := v.GreaterThan(r.Lower)
			if i == 0 {
				aboveLower = v.GreaterThanOrEqual(r.Lower)
			}
			if aboveLower && v.LessThanOrEqual(r.Upper) {
				bucket = i
				break
			}
		}
		out[bucket].Count++
	})
	return out, nil
}

// matchLookup evaluates one predicate against one record
func matchLookup(rec *Record, l facets.Lookup) bool {
	v := rec.Attrs[l.Attr]

	switch l.Op {
	case facets.OpIsNull:
		return v == nil
	case facets.OpContains:
		elems, ok := v.([]string)
		if !ok {
			return false
		}
		want, _ := l.Value.(string)
		for _, e := range elems {
			if e == want {
				return true
			}
		}
		return false
	case facets.OpNotIn:
		set, _ := l.Value.([]string)
		switch val := v.(type) {
		case nil:
			return true
		case []string:
			for _, e := range val {
				for _, s := range set {
					if e == s {
						return false
					}
				}
			}
			return true
		case string:
			for _, s := range set {
				if val == s {
					return false
				}
			}
			return true
		default:
			return true
		}
	}

	if v == nil {
		return false
	}
	cmp := compareValues(v, l.Value)
	switch l.Op {
	case facets.OpExact:
		return cmp == 0
	case facets.OpGt:
		return cmp > 0
	case facets.OpGte:
		return cmp >= 0
	case facets.OpLt:
		return cmp < 0
	case facets.OpLte:
		return cmp <= 0
	default:
		return false
	}
}

// compareValues orders two values of the same attribute's native type
func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case decimal.Decimal:
		bv, ok := b.(decimal.Decimal)
		if !ok {
			return 0
		}
		return av.Cmp(bv)
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0
		}
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		default:
			return 0
		}
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

// valueKey is a grouping key for map-based counting
func valueKey(v interface{}) string {
	switch val := v.(type) {
	case decimal.Decimal:
		// normalize so 15 and 15.0 group together
		return "d:" + val.String()
	case time.Time:
		return "t:" + val.Format("2006-01-02")
	case string:
		return "s:" + val
	default:
		return ""
	}
}

func truncateDate(t time.Time, level facets.DateLevel) time.Time {
	switch level {
	case facets.LevelYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	case facets.LevelMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}
