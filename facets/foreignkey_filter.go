package facets

import (
	"fmt"

	"github.com/arthur-debert/facets/types"
)

// ForeignKeyFilter narrows a single-reference attribute by the primary
// key of the related record. Choose once, then a single remove link.
//
// A chosen key whose related record no longer exists keeps narrowing the
// collection (to nothing), but is not offered a remove link: stale links
// degrade to an empty result instead of an error.
type ForeignKeyFilter struct {
	baseFilter
}

// NewForeignKeyFilter creates a filter over a single-reference attribute
func NewForeignKeyFilter(name string, model *types.Model, params Params, opts Options) (Filter, error) {
	attr, ok := model.Attribute(name)
	if !ok {
		return nil, fmt.Errorf("model %q has no attribute %q", model.Name(), name)
	}
	if attr.Related == nil {
		return nil, fmt.Errorf("attribute %q has no related model", name)
	}
	f := &ForeignKeyFilter{baseFilter: newBaseFilter(attr, model, params, opts)}

	chosen, err := f.decodeRefs()
	if err != nil {
		return nil, err
	}
	f.chosen = chosen
	return f, nil
}

// decodeRefs resolves the chosen primary keys against the related model
// in one bulk lookup, preserving parameter order.
func (f *ForeignKeyFilter) decodeRefs() ([]ChoiceValue, error) {
	if f.params.Has(f.isnullKey()) {
		return []ChoiceValue{NullValue{}}, nil
	}
	pks := f.params.GetList(f.paramKey)
	if len(pks) == 0 {
		return nil, nil
	}
	refs, err := f.attr.Related.Lookup(pks)
	if err != nil {
		return nil, err
	}
	byPK := make(map[string]types.Ref, len(refs))
	for _, r := range refs {
		byPK[r.PK] = r
	}
	out := make([]ChoiceValue, 0, len(pks))
	for _, pk := range pks {
		if r, ok := byPK[pk]; ok {
			out = append(out, RefValue{PK: r.PK, Label: r.Label, Exists: true})
		} else {
			out = append(out, RefValue{PK: pk, Exists: false})
		}
	}
	return out, nil
}

// Apply implements Filter
func (f *ForeignKeyFilter) Apply(c Collection) Collection {
	return f.applyChosen(c, f.lookups)
}

func (f *ForeignKeyFilter) lookups(v ChoiceValue) []Lookup {
	if isNull(v) {
		return []Lookup{{Attr: f.attr.Name, Op: OpIsNull}}
	}
	return []Lookup{{Attr: f.attr.Name, Op: OpExact, Value: v.Param()}}
}

func render(v ChoiceValue) string {
	return v.Display()
}

// Choices implements Filter
func (f *ForeignKeyFilter) Choices(qs Collection) ([]Choice, error) {
	removes := f.removeChoices(render)
	if len(removes) > 0 {
		return f.assemble(removes, nil, true, true), nil
	}
	adds, err := f.addChoices(qs)
	if err != nil {
		return nil, err
	}
	return f.assemble(nil, adds, true, true), nil
}

func (f *ForeignKeyFilter) addChoices(qs Collection) ([]Choice, error) {
	counts, err := f.valueCounts(qs)
	if err != nil {
		return nil, err
	}
	countByPK := make(map[string]int, len(counts))
	pks := make([]string, 0, len(counts))
	for _, vc := range counts {
		if vc.Value == nil {
			continue
		}
		pk := fmt.Sprintf("%v", vc.Value)
		countByPK[pk] = vc.Count
		pks = append(pks, pk)
	}

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

	refs, err := f.attr.Related.Lookup(pks)
	if err != nil {
		return nil, err
	}
	for _, r := range refs {
		value := RefValue{PK: r.PK, Label: r.Label, Exists: true}
		out = append(out, Choice{
			Label:  value.Display(),
			Count:  f.countFor(countByPK[r.PK]),
			Params: f.buildParams(value, nil),
			Link:   LinkAdd,
		})
	}
	return out, nil
}
