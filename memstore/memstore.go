// Package memstore provides an in-memory implementation of the facets
// Collection abstraction: typed records held in a slice, with predicates
// evaluated on aggregation. Datasets can be built in code or loaded from
// JSON/YAML files.
package memstore

import (
	"fmt"
	"time"

	"github.com/arthur-debert/facets/facets"
	"github.com/arthur-debert/facets/internal/validation"
	"github.com/arthur-debert/facets/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is one row of a dataset. Attrs holds the attribute values,
// typed per the attribute kind: string for plain/enumerated/reference,
// decimal.Decimal for numeric, time.Time for dates, []string for
// many-reference, nil for null.
type Record struct {
	UUID  string                 `json:"uuid" yaml:"uuid"`
	Attrs map[string]interface{} `json:"attrs" yaml:"attrs"`
}

// RelatedSet is an in-memory related model: an ordered list of records
// addressable by primary key.
type RelatedSet struct {
	name string
	refs []types.Ref
	byPK map[string]types.Ref
}

// NewRelatedSet creates a related set with its records in declared order
func NewRelatedSet(name string, refs []types.Ref) *RelatedSet {
	rs := &RelatedSet{
		name: name,
		refs: make([]types.Ref, len(refs)),
		byPK: make(map[string]types.Ref, len(refs)),
	}
	copy(rs.refs, refs)
	for _, r := range rs.refs {
		rs.byPK[r.PK] = r
	}
	return rs
}

// Name implements types.RelatedModel
func (rs *RelatedSet) Name() string { return rs.name }

// Lookup implements types.RelatedModel: the requested records in
// declared order, omitting keys that do not resolve.
func (rs *RelatedSet) Lookup(pks []string) ([]types.Ref, error) {
	wanted := make(map[string]bool, len(pks))
	for _, pk := range pks {
		wanted[pk] = true
	}
	var out []types.Ref
	for _, r := range rs.refs {
		if wanted[r.PK] {
			out = append(out, r)
		}
	}
	return out, nil
}

// Store holds a model and its records
type Store struct {
	model   *types.Model
	records []Record
}

// New creates a store, validating the model and coercing record values
// to their attribute's native type. Records without a UUID get one.
func New(model *types.Model, records []Record) (*Store, error) {
	if err := validation.Validate(model); err != nil {
		return nil, err
	}

	s := &Store{model: model, records: make([]Record, len(records))}
	for i, rec := range records {
		attrs := make(map[string]interface{}, len(rec.Attrs))
		for name, raw := range rec.Attrs {
			attr, ok := model.Attribute(name)
			if !ok {
				return nil, fmt.Errorf("record %d: unknown attribute %q", i, name)
			}
			val, err := coerceValue(attr, raw)
			if err != nil {
				return nil, fmt.Errorf("record %d: attribute %q: %w", i, name, err)
			}
			attrs[name] = val
		}
		id := rec.UUID
		if id == "" {
			id = uuid.New().String()
		}
		s.records[i] = Record{UUID: id, Attrs: attrs}
	}
	return s, nil
}

// Model returns the store's schema
func (s *Store) Model() *types.Model { return s.model }

// Len returns the number of records
func (s *Store) Len() int { return len(s.records) }

// Collection returns a facets.Collection over all records
func (s *Store) Collection() facets.Collection {
	return &collection{store: s}
}

// coerceValue converts a raw (decoded JSON/YAML or literal) value to the
// attribute's native type.
func coerceValue(attr *types.Attribute, raw interface{}) (interface{}, error) {
	if raw == nil {
		if !attr.Nullable {
			return nil, fmt.Errorf("null value for non-nullable attribute")
		}
		return nil, nil
	}

	switch attr.Kind {
	case types.Numeric:
		switch v := raw.(type) {
		case decimal.Decimal:
			return v, nil
		case string:
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("bad numeric value %q", v)
			}
			return d, nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		case float64:
			return decimal.NewFromFloat(v), nil
		default:
			return nil, fmt.Errorf("bad numeric value %v", raw)
		}
	case types.Date:
		switch v := raw.(type) {
		case time.Time:
			return v.UTC().Truncate(24 * time.Hour), nil
		case string:
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return nil, fmt.Errorf("bad date value %q", v)
			}
			return t, nil
		default:
			return nil, fmt.Errorf("bad date value %v", raw)
		}
	case types.ManyRef:
		switch v := raw.(type) {
		case []string:
			return append([]string(nil), v...), nil
		case []interface{}:
			out := make([]string, len(v))
			for i, e := range v {
				out[i] = fmt.Sprintf("%v", e)
			}
			return out, nil
		default:
			return nil, fmt.Errorf("bad many-reference value %v", raw)
		}
	default:
		return fmt.Sprintf("%v", raw), nil
	}
}
