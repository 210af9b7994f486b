package facets

// LinkType tags what following a choice's link does
type LinkType int

const (
	// LinkAdd narrows the collection by selecting the choice's value
	LinkAdd LinkType = iota
	// LinkRemove reverts the choice's value (and, for hierarchical
	// filters, every more specific value layered on top of it)
	LinkRemove
	// LinkDisplay is a non-actionable entry shown for context, such as a
	// bridge between granularity levels or a demoted single choice
	LinkDisplay
)

// String returns the string representation of the LinkType
func (lt LinkType) String() string {
	switch lt {
	case LinkAdd:
		return "add"
	case LinkRemove:
		return "remove"
	case LinkDisplay:
		return "display"
	default:
		return "unknown"
	}
}

// Choice is one entry in a filter's computed choice list. Choices are
// produced fresh on every call and never mutated.
type Choice struct {
	// Label is the human-presentable text for the entry
	Label string

	// Count is the number of records selecting this choice would yield.
	// nil when counts are suppressed or meaningless (remove links).
	Count *int

	// Params is the full parameter set the choice's link should encode.
	// nil for display-only entries with no actionable URL.
	Params Params

	// Link tags the entry as add, remove or display
	Link LinkType
}

// Query returns the URL-encoded query string for the choice's link, or
// the empty string for entries with no actionable URL.
func (c Choice) Query() string {
	if c.Params == nil {
		return ""
	}
	return c.Params.Encode()
}

func countOf(n int) *int {
	return &n
}
