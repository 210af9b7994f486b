package types

// AttributeKind classifies a filterable attribute. The kind drives which
// filter implementation a FilterSet selects for a field, unless the field
// declares an explicit override.
type AttributeKind int

const (
	// Plain attributes hold free-form scalar values (strings)
	Plain AttributeKind = iota
	// Enumerated attributes have a declared list of valid values with labels
	Enumerated
	// SingleRef attributes reference one record in a related model
	SingleRef
	// ManyRef attributes reference any number of records in a related model
	ManyRef
	// Date attributes hold calendar dates
	Date
	// Numeric attributes hold decimal or integer values
	Numeric
)

// String returns the string representation of the AttributeKind
func (k AttributeKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Enumerated:
		return "enumerated"
	case SingleRef:
		return "ref"
	case ManyRef:
		return "many-ref"
	case Date:
		return "date"
	case Numeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// ParseKind converts a string (as used in schema files) to an AttributeKind
func ParseKind(s string) (AttributeKind, bool) {
	switch s {
	case "plain":
		return Plain, true
	case "enumerated":
		return Enumerated, true
	case "ref":
		return SingleRef, true
	case "many-ref":
		return ManyRef, true
	case "date":
		return Date, true
	case "numeric":
		return Numeric, true
	}
	return Plain, false
}
