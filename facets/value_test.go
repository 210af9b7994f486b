package facets

import "testing"

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b ChoiceValue
		want bool
	}{
		{"same scalar", ScalarValue("x"), ScalarValue("x"), true},
		{"different scalar", ScalarValue("x"), ScalarValue("y"), false},
		{"null and null", NullValue{}, NullValue{}, true},
		{"null and scalar", NullValue{}, ScalarValue("x"), false},
		{"any and any", AnyValue{}, AnyValue{}, true},
		{"any and scalar", AnyValue{}, ScalarValue("x"), false},
		{"ref by pk", RefValue{PK: "1", Exists: true}, RefValue{PK: "1", Label: "other"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := valueEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("valueEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareSentinels(t *testing.T) {
	scalar := ScalarValue("x")

	if c, ok := compareSentinels(AnyValue{}, scalar); !ok || c >= 0 {
		t.Errorf("any should sort before real values, got %d (ok=%v)", c, ok)
	}
	if c, ok := compareSentinels(NullValue{}, scalar); !ok || c <= 0 {
		t.Errorf("null should sort after real values, got %d (ok=%v)", c, ok)
	}
	if c, ok := compareSentinels(AnyValue{}, NullValue{}); !ok || c >= 0 {
		t.Errorf("any should sort before null, got %d (ok=%v)", c, ok)
	}
	if _, ok := compareSentinels(scalar, ScalarValue("y")); ok {
		t.Error("two real values should not resolve as sentinels")
	}
}
