package types

// Model is an ordered collection of attributes describing one record
// schema. Filters resolve their attribute by name through the model.
type Model struct {
	name       string
	attributes []Attribute
	byName     map[string]*Attribute
}

// NewModel creates a model from a slice of attribute definitions
func NewModel(name string, attrs []Attribute) *Model {
	m := &Model{
		name:       name,
		attributes: make([]Attribute, len(attrs)),
		byName:     make(map[string]*Attribute),
	}

	copy(m.attributes, attrs)

	for i := range m.attributes {
		m.byName[m.attributes[i].Name] = &m.attributes[i]
	}

	return m
}

// Name returns the model's identifier
func (m *Model) Name() string {
	return m.name
}

// Attribute returns an attribute by name
func (m *Model) Attribute(name string) (*Attribute, bool) {
	attr, exists := m.byName[name]
	return attr, exists
}

// Attributes returns all attributes in declared order
func (m *Model) Attributes() []Attribute {
	return m.attributes
}

// Count returns the number of attributes
func (m *Model) Count() int {
	return len(m.attributes)
}
