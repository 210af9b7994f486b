package facets

import (
	"fmt"

	"github.com/arthur-debert/facets/types"
)

// ValuesFilter is the fallback filter for plain scalar attributes: one
// add choice per distinct value in the collection, choose once, then a
// single remove link.
type ValuesFilter struct {
	baseFilter
}

// NewValuesFilter creates a filter over a plain attribute
func NewValuesFilter(name string, model *types.Model, params Params, opts Options) (Filter, error) {
	attr, ok := model.Attribute(name)
	if !ok {
		return nil, fmt.Errorf("model %q has no attribute %q", model.Name(), name)
	}
	f := &ValuesFilter{baseFilter: newBaseFilter(attr, model, params, opts)}
	f.chosen = f.decodeChosen(func(token string) (ChoiceValue, error) {
		return ScalarValue(token), nil
	})
	return f, nil
}

// Apply implements Filter
func (f *ValuesFilter) Apply(c Collection) Collection {
	return f.applyChosen(c, f.lookups)
}

func (f *ValuesFilter) lookups(v ChoiceValue) []Lookup {
	if isNull(v) {
		return []Lookup{{Attr: f.attr.Name, Op: OpIsNull}}
	}
	return []Lookup{{Attr: f.attr.Name, Op: OpExact, Value: v.Param()}}
}

func (f *ValuesFilter) render(v ChoiceValue) string {
	label := v.Display()
	if label == "" {
		return "(empty)"
	}
	return label
}

// Choices implements Filter
func (f *ValuesFilter) Choices(qs Collection) ([]Choice, error) {
	removes := f.removeChoices(f.render)
	if len(removes) > 0 {
		return f.assemble(removes, nil, true, true), nil
	}
	adds, err := f.addChoices(qs)
	if err != nil {
		return nil, err
	}
	return f.assemble(nil, adds, true, true), nil
}

func (f *ValuesFilter) addChoices(qs Collection) ([]Choice, error) {
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
			value = ScalarValue(fmt.Sprintf("%v", vc.Value))
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
