package facets

// ChoiceValue is one value chosen for a filter, decoded from a URL
// parameter token. The concrete types form a closed set: ScalarValue,
// RefValue, DateChoice, NumericChoice, and the NullValue/AnyValue
// sentinels. Values are immutable once decoded.
type ChoiceValue interface {
	// Param returns the URL token encoding of the value. Decoding the
	// token with the owning filter yields an equal value.
	Param() string

	// Display returns the default human label for the value. Filters may
	// override presentation (enumerated labels, custom range labels).
	Display() string
}

// NullValue selects records that lack a value for the attribute. On the
// wire it is a sibling "<key>--isnull" parameter rather than a token
// under the main key. It compares as more specific than every real value.
type NullValue struct{}

// Param implements ChoiceValue. The null marker has no token under the
// main parameter key; buildParams encodes it as the --isnull sibling key.
func (NullValue) Param() string { return "" }

// Display implements ChoiceValue
func (NullValue) Display() string { return "(null)" }

// AnyValue places no constraint on the attribute. It compares as less
// specific than every real value.
type AnyValue struct{}

// Param implements ChoiceValue
func (AnyValue) Param() string { return "" }

// Display implements ChoiceValue
func (AnyValue) Display() string { return "(any)" }

// ScalarValue is a plain or enumerated attribute value, carried as its
// natural string encoding.
type ScalarValue string

// Param implements ChoiceValue
func (v ScalarValue) Param() string { return string(v) }

// Display implements ChoiceValue
func (v ScalarValue) Display() string { return string(v) }

// RefValue is a reference to a related record by primary key. Exists is
// false when the token decoded syntactically but the record no longer
// exists; such values still narrow the collection (to nothing) but are
// not offered a remove link.
type RefValue struct {
	PK     string
	Label  string
	Exists bool
}

// Param implements ChoiceValue
func (v RefValue) Param() string { return v.PK }

// Display implements ChoiceValue
func (v RefValue) Display() string {
	if v.Label != "" {
		return v.Label
	}
	return v.PK
}

// isNull reports whether a chosen value is the null marker
func isNull(v ChoiceValue) bool {
	_, ok := v.(NullValue)
	return ok
}

// containsNull reports whether any chosen value is the null marker
func containsNull(vs []ChoiceValue) bool {
	for _, v := range vs {
		if isNull(v) {
			return true
		}
	}
	return false
}

// valueEqual reports whether two chosen values are the same selection.
// Sentinels compare by variant, real values by type and token.
func valueEqual(a, b ChoiceValue) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	if _, ok := a.(AnyValue); ok {
		_, ok2 := b.(AnyValue)
		return ok2
	}
	if _, ok := b.(AnyValue); ok {
		return false
	}
	return a.Param() == b.Param()
}

// compareSentinels resolves the specificity ordering when either value is
// a sentinel: AnyValue sorts before all real values, NullValue after.
// ok is false when neither value is a sentinel.
func compareSentinels(a, b ChoiceValue) (int, bool) {
	_, aAny := a.(AnyValue)
	_, bAny := b.(AnyValue)
	_, aNull := a.(NullValue)
	_, bNull := b.(NullValue)

	switch {
	case aAny && bAny, aNull && bNull:
		return 0, true
	case aAny:
		return -1, true
	case bAny:
		return 1, true
	case aNull:
		return 1, true
	case bNull:
		return -1, true
	}
	return 0, false
}
