package validation

import (
	"fmt"

	"github.com/arthur-debert/facets/types"
)

// Validate checks a model definition for consistency. Configuration
// problems are fatal at setup time; they are never retried or degraded.
func Validate(m *types.Model) error {
	if m.Count() == 0 {
		return fmt.Errorf("at least one attribute must be configured")
	}

	seen := make(map[string]bool)
	for _, attr := range m.Attributes() {
		if attr.Name == "" {
			return fmt.Errorf("attribute name cannot be empty")
		}
		if seen[attr.Name] {
			return fmt.Errorf("duplicate attribute name: %s", attr.Name)
		}
		seen[attr.Name] = true

		if err := validateAttribute(m, attr); err != nil {
			return err
		}
	}
	return nil
}

func validateAttribute(m *types.Model, attr types.Attribute) error {
	switch attr.Kind {
	case types.Enumerated:
		if len(attr.Choices) == 0 {
			return fmt.Errorf("enumerated attribute %q must declare choices", attr.Name)
		}
		values := make(map[string]bool, len(attr.Choices))
		for _, c := range attr.Choices {
			if values[c.Value] {
				return fmt.Errorf("attribute %q: duplicate choice value %q", attr.Name, c.Value)
			}
			values[c.Value] = true
		}
	case types.SingleRef, types.ManyRef:
		if attr.Related == nil {
			return fmt.Errorf("reference attribute %q must declare a related model", attr.Name)
		}
		if attr.Kind == types.ManyRef && attr.Related.Name() == m.Name() {
			return fmt.Errorf("attribute %q: self-referential many-to-many relations are not supported", attr.Name)
		}
	case types.Plain, types.Date, types.Numeric:
	default:
		return fmt.Errorf("attribute %q has unknown kind %d", attr.Name, attr.Kind)
	}
	return nil
}
