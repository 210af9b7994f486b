package facets

import (
	"fmt"

	"github.com/arthur-debert/facets/types"
)

// ManyToManyFilter narrows a many-valued reference attribute. Values can
// be chosen repeatedly; each chosen value gets its own remove link, and
// add choices are the related values still co-occurring in the narrowed
// collection. Unlike single-valued filters, a lone add candidate stays a
// real add choice: selecting it still changes set membership.
type ManyToManyFilter struct {
	baseFilter
}

// NewManyToManyFilter creates a filter over a many-reference attribute.
// Self-referential relations are a configuration error.
func NewManyToManyFilter(name string, model *types.Model, params Params, opts Options) (Filter, error) {
	attr, ok := model.Attribute(name)
	if !ok {
		return nil, fmt.Errorf("model %q has no attribute %q", model.Name(), name)
	}
	if attr.Related == nil {
		return nil, fmt.Errorf("attribute %q has no related model", name)
	}
	if attr.Related.Name() == model.Name() {
		return nil, fmt.Errorf("attribute %q: self-referential many-to-many relations are not supported", name)
	}
	f := &ManyToManyFilter{baseFilter: newBaseFilter(attr, model, params, opts)}

	chosen, err := f.decodeRefs()
	if err != nil {
		return nil, err
	}
	f.chosen = chosen
	return f, nil
}

// decodeRefs resolves chosen primary keys in one bulk lookup, keeping
// parameter order and retaining keys that no longer resolve.
func (f *ManyToManyFilter) decodeRefs() ([]ChoiceValue, error) {
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

// Apply implements Filter: every chosen value must be present, so the
// predicates AND together.
func (f *ManyToManyFilter) Apply(c Collection) Collection {
	return f.applyChosen(c, f.lookups)
}

func (f *ManyToManyFilter) lookups(v ChoiceValue) []Lookup {
	return []Lookup{{Attr: f.attr.Name, Op: OpContains, Value: v.Param()}}
}

// Choices implements Filter
func (f *ManyToManyFilter) Choices(qs Collection) ([]Choice, error) {
	removes := f.removeChoices(render)
	adds, err := f.addChoices(qs)
	if err != nil {
		return nil, err
	}
	return f.assemble(removes, adds, false, false), nil
}

func (f *ManyToManyFilter) addChoices(qs Collection) ([]Choice, error) {
	counts, err := qs.ValueCounts(f.attr.Name)
	if err != nil {
		return nil, err
	}

	// already-chosen values are not interesting
	chosenPKs := make(map[string]bool, len(f.chosen))
	for _, v := range f.chosen {
		chosenPKs[v.Param()] = true
	}

	countByPK := make(map[string]int, len(counts))
	pks := make([]string, 0, len(counts))
	for _, vc := range counts {
		if vc.Value == nil {
			continue
		}
		pk := fmt.Sprintf("%v", vc.Value)
		if chosenPKs[pk] {
			continue
		}
		countByPK[pk] = vc.Count
		pks = append(pks, pk)
	}

	refs, err := f.attr.Related.Lookup(pks)
	if err != nil {
		return nil, err
	}
	var out []Choice
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
