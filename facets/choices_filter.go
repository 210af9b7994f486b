package facets

import (
	"fmt"

	"github.com/arthur-debert/facets/types"
)

// ChoicesFilter narrows an enumerated attribute. Only declared values are
// offered, in declared order, labeled with their declared display text.
type ChoicesFilter struct {
	baseFilter
}

// NewChoicesFilter creates a filter over an enumerated attribute
func NewChoicesFilter(name string, model *types.Model, params Params, opts Options) (Filter, error) {
	attr, ok := model.Attribute(name)
	if !ok {
		return nil, fmt.Errorf("model %q has no attribute %q", model.Name(), name)
	}
	f := &ChoicesFilter{baseFilter: newBaseFilter(attr, model, params, opts)}
	f.chosen = f.decodeChosen(func(token string) (ChoiceValue, error) {
		return ScalarValue(token), nil
	})
	return f, nil
}

// Apply implements Filter
func (f *ChoicesFilter) Apply(c Collection) Collection {
	return f.applyChosen(c, f.lookups)
}

func (f *ChoicesFilter) lookups(v ChoiceValue) []Lookup {
	if isNull(v) {
		return []Lookup{{Attr: f.attr.Name, Op: OpIsNull}}
	}
	return []Lookup{{Attr: f.attr.Name, Op: OpExact, Value: v.Param()}}
}

func (f *ChoicesFilter) render(v ChoiceValue) string {
	if isNull(v) {
		return v.Display()
	}
	return f.attr.ChoiceLabel(v.Param())
}

// Choices implements Filter
func (f *ChoicesFilter) Choices(qs Collection) ([]Choice, error) {
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

// addChoices offers the declared choices present in the collection, in
// declared order, so the presentation never depends on store ordering.
func (f *ChoicesFilter) addChoices(qs Collection) ([]Choice, error) {
	counts, err := f.valueCounts(qs)
	if err != nil {
		return nil, err
	}
	byValue := make(map[string]int, len(counts))
	for _, vc := range counts {
		if vc.Value == nil {
			continue
		}
		byValue[fmt.Sprintf("%v", vc.Value)] = vc.Count
	}

	var out []Choice
	for _, ec := range f.attr.Choices {
		count, present := byValue[ec.Value]
		if !present {
			continue
		}
		value := ScalarValue(ec.Value)
		out = append(out, Choice{
			Label:  ec.Label,
			Count:  f.countFor(count),
			Params: f.buildParams(value, nil),
			Link:   LinkAdd,
		})
	}
	return out, nil
}
