package types

import "strings"

// EnumChoice is one declared value of an enumerated attribute, paired with
// its display label.
type EnumChoice struct {
	Value string
	Label string
}

// Ref identifies a record in a related model by primary key, with a
// display label.
type Ref struct {
	PK    string
	Label string
}

// RelatedModel is the lookup surface the core needs for reference
// attributes. Implementations resolve primary keys to displayable records.
type RelatedModel interface {
	// Name is the identifier of the related model, used to detect
	// unsupported self-referential configurations
	Name() string

	// Lookup resolves a set of primary keys to refs, in the related
	// model's declared order. Keys that do not resolve are omitted.
	Lookup(pks []string) ([]Ref, error)
}

// Attribute describes one filterable attribute of a model
type Attribute struct {
	// Name is the identifier for this attribute, and the default
	// query parameter key
	Name string

	// Kind selects the filter implementation and the value encoding
	Kind AttributeKind

	// Nullable indicates records may lack a value for this attribute
	Nullable bool

	// Label is the human name used when presenting the filter.
	// Defaults to a capitalized form of Name.
	Label string

	// Choices lists the valid values for enumerated attributes, in
	// display order. Ignored for other kinds.
	Choices []EnumChoice

	// Integer marks numeric attributes whose values are whole numbers,
	// so that generated bucket bounds stay integral
	Integer bool

	// Related is the lookup surface for reference attributes.
	// Required for SingleRef and ManyRef, nil otherwise.
	Related RelatedModel
}

// DisplayLabel returns the attribute's label, deriving one from the name
// when none was declared.
func (a *Attribute) DisplayLabel() string {
	if a.Label != "" {
		return a.Label
	}
	name := strings.ReplaceAll(a.Name, "_", " ")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// ChoiceLabel returns the declared label for an enumerated value, or the
// value itself when it is not declared.
func (a *Attribute) ChoiceLabel(value string) string {
	for _, c := range a.Choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}
