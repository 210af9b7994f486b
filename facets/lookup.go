package facets

import (
	"time"

	"github.com/arthur-debert/facets/types"
)

// LookupOp is the comparison a Lookup applies to an attribute
type LookupOp int

const (
	// OpExact matches records whose value equals the lookup value
	OpExact LookupOp = iota
	// OpGt matches values strictly greater than the lookup value
	OpGt
	// OpGte matches values greater than or equal to the lookup value
	OpGte
	// OpLt matches values strictly less than the lookup value
	OpLt
	// OpLte matches values less than or equal to the lookup value
	OpLte
	// OpIsNull matches records that lack a value for the attribute
	OpIsNull
	// OpContains matches many-valued attributes containing the lookup value
	OpContains
	// OpNotIn excludes records whose value is in the lookup value set
	OpNotIn
)

// Lookup is a single predicate over one attribute. Value types follow the
// attribute kind: string for plain/enumerated/reference values,
// decimal.Decimal for numeric, time.Time for dates, []string for OpNotIn
// sets, and nil for OpIsNull.
type Lookup struct {
	Attr  string
	Op    LookupOp
	Value interface{}
}

// ValueCount is one group of a grouped-count aggregation. Value is nil
// for the group of records lacking a value.
type ValueCount struct {
	Value interface{}
	Count int
}

// DateCount is one group of a date-truncating aggregation: the count of
// records whose attribute falls within the truncated period starting at
// When.
type DateCount struct {
	When  time.Time
	Count int
}

// RangeCount is the count of records falling into one numeric range
type RangeCount struct {
	Range NumericRange
	Count int
}

// Collection is the queryable-collection abstraction the filters consume.
// Implementations narrow lazily: Filter and Exclude return derived
// collections without touching the underlying store until an aggregation
// runs. Store failures propagate unchanged; the core never retries.
type Collection interface {
	// Filter returns the collection narrowed to records matching every
	// lookup (AND semantics)
	Filter(lookups ...Lookup) Collection

	// Exclude returns the collection without records matching every lookup
	Exclude(lookups ...Lookup) Collection

	// Count returns the number of records
	Count() (int, error)

	// ValueCounts returns grouped counts for an attribute, ordered
	// ascending by value with the null group (if any) first. For
	// many-valued attributes each record contributes one count per value.
	ValueCounts(attr string) ([]ValueCount, error)

	// DistinctValues returns the distinct non-null values of an
	// attribute, ascending
	DistinctValues(attr string) ([]interface{}, error)

	// MinMax returns the smallest and largest non-null value of an
	// attribute, or nil, nil when the collection has none
	MinMax(attr string) (lo, hi interface{}, err error)

	// DateCounts returns per-period counts of a date attribute truncated
	// to the given level, ascending, skipping nulls
	DateCounts(attr string, level DateLevel) ([]DateCount, error)

	// RangeCounts returns per-range counts of a numeric attribute. The
	// predicate is identical to the one range choices apply: the first
	// range includes its lower bound, later ranges exclude it, and every
	// range includes its upper bound. Values outside all ranges are
	// attributed to the last range.
	RangeCounts(attr string, ranges []NumericRange) ([]RangeCount, error)

	// Model returns the schema of the records in the collection
	Model() *types.Model
}
