package facets

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/facets/types"
)

// FilterConstructor builds a Filter for one field. The constructor is
// the override escape hatch: a field may name one explicitly instead of
// relying on the attribute kind.
type FilterConstructor func(name string, model *types.Model, params Params, opts Options) (Filter, error)

// DefaultFilterFor maps an attribute kind to its filter implementation
func DefaultFilterFor(kind types.AttributeKind) FilterConstructor {
	switch kind {
	case types.Enumerated:
		return NewChoicesFilter
	case types.SingleRef:
		return NewForeignKeyFilter
	case types.ManyRef:
		return NewManyToManyFilter
	case types.Date:
		return NewDateTimeFilter
	case types.Numeric:
		return NewNumericRangeFilter
	default:
		return NewValuesFilter
	}
}

// Field declares one filterable field of a FilterSet
type Field struct {
	// Name is the attribute to filter on
	Name string

	// Options configures the field's filter; unset values fall back to
	// the FilterSet defaults
	Options Options

	// New overrides the kind-based filter selection
	New FilterConstructor
}

// Config declares a FilterSet
type Config struct {
	// Fields lists the filterable fields in presentation order. Order is
	// behavioral, not cosmetic: each filter's counts are computed on the
	// collection already narrowed by the filters before it.
	Fields []Field

	// Defaults are options applied to every field that does not override
	// them
	Defaults Options

	// TitleFields restricts Title to a subset of fields; nil means all
	TitleFields []string
}

// FilterSet orchestrates the filters of one request over one collection:
// it resolves the declared fields to filter instances, narrows the
// collection by every chosen value, and exposes the net collection plus
// per-filter choice lists. Like its filters it is built once per request
// and read-only afterwards.
type FilterSet struct {
	params      Params
	filters     []Filter
	byAttribute map[string]Filter
	collection  Collection
	titleFields []string

	// choice computation can issue several count queries, so results are
	// memoized per attribute
	choiceCache map[string][]Choice
}

// New builds a FilterSet over a collection from the inbound parameters.
// Configuration problems (unknown attributes, duplicate fields, invalid
// options, unsupported relations) are fatal here; malformed parameter
// values never are.
func New(c Collection, params Params, cfg Config) (*FilterSet, error) {
	if len(cfg.Fields) == 0 {
		return nil, fmt.Errorf("filterset needs at least one field")
	}

	model := c.Model()
	fs := &FilterSet{
		params:      params,
		byAttribute: make(map[string]Filter, len(cfg.Fields)),
		titleFields: cfg.TitleFields,
		choiceCache: make(map[string][]Choice),
	}

	for _, field := range cfg.Fields {
		if _, dup := fs.byAttribute[field.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", field.Name)
		}
		ctor := field.New
		if ctor == nil {
			attr, ok := model.Attribute(field.Name)
			if !ok {
				return nil, fmt.Errorf("model %q has no attribute %q", model.Name(), field.Name)
			}
			ctor = DefaultFilterFor(attr.Kind)
		}
		f, err := ctor(field.Name, model, params, field.Options.merged(cfg.Defaults))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Name, err)
		}
		fs.filters = append(fs.filters, f)
		fs.byAttribute[field.Name] = f
	}

	// narrow in declared order; later filters count over the collection
	// already narrowed by earlier ones
	for _, f := range fs.filters {
		c = f.Apply(c)
	}
	fs.collection = c

	return fs, nil
}

// Filters returns the filters in declared order
func (fs *FilterSet) Filters() []Filter {
	return fs.filters
}

// Collection returns the collection narrowed by every filter
func (fs *FilterSet) Collection() Collection {
	return fs.collection
}

// ChoicesFor computes the choice list for one field, memoized for the
// lifetime of the FilterSet.
func (fs *FilterSet) ChoicesFor(attribute string) ([]Choice, error) {
	if choices, ok := fs.choiceCache[attribute]; ok {
		return choices, nil
	}
	f, ok := fs.byAttribute[attribute]
	if !ok {
		return nil, fmt.Errorf("no filter for attribute %q", attribute)
	}
	choices, err := f.Choices(fs.collection)
	if err != nil {
		return nil, err
	}
	fs.choiceCache[attribute] = choices
	return choices, nil
}

// Title summarizes the current selection: the remove-choice labels of
// the title fields (all fields unless configured), in filter order.
func (fs *FilterSet) Title() (string, error) {
	fields := fs.titleFields
	if fields == nil {
		fields = make([]string, len(fs.filters))
		for i, f := range fs.filters {
			fields[i] = f.Attribute()
		}
	}
	var labels []string
	for _, name := range fields {
		choices, err := fs.ChoicesFor(name)
		if err != nil {
			return "", err
		}
		for _, c := range choices {
			if c.Link == LinkRemove {
				labels = append(labels, c.Label)
			}
		}
	}
	return strings.Join(labels, ", "), nil
}
