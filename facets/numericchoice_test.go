package facets

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseNumericChoice(t *testing.T) {
	tests := []struct {
		token string
		param string
	}{
		// a bare point is inclusive
		{"3.50", "3.5i"},
		{"3.5i", "3.5i"},
		// default range bounds: lower exclusive, upper inclusive
		{"3..6", "3..6i"},
		{"3i..6", "3i..6i"},
		{"3..6i", "3..6i"},
		{"3i..6i", "3i..6i"},
		{"-2.5..0", "-2.5..0i"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			nc, err := parseNumericChoice(tt.token)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := nc.Param(); got != tt.param {
				t.Errorf("got %q, want %q", got, tt.param)
			}
			// the canonical form must decode to the same choice
			again, err := parseNumericChoice(nc.Param())
			if err != nil {
				t.Fatalf("reparse: %v", err)
			}
			if again.Param() != nc.Param() {
				t.Errorf("not stable: %q then %q", nc.Param(), again.Param())
			}
		})
	}
}

func TestParseNumericChoiceInvalid(t *testing.T) {
	for _, token := range []string{"", "abc", "3..x", "..", "3..", "i"} {
		if _, err := parseNumericChoice(token); err == nil {
			t.Errorf("expected error for %q", token)
		}
	}
}

func TestNumericChoiceLookups(t *testing.T) {
	point, err := parseNumericChoice("3.5")
	if err != nil {
		t.Fatal(err)
	}
	lookups := point.lookups("price")
	if len(lookups) != 1 || lookups[0].Op != OpExact {
		t.Fatalf("point: expected one exact lookup, got %v", lookups)
	}

	tests := []struct {
		token      string
		loOp, hiOp LookupOp
	}{
		{"3..6", OpGt, OpLte},
		{"3i..6", OpGte, OpLte},
		{"3..6i", OpGt, OpLte},
		{"3i..6i", OpGte, OpLte},
	}
	for _, tt := range tests {
		nc, err := parseNumericChoice(tt.token)
		if err != nil {
			t.Fatalf("%s: %v", tt.token, err)
		}
		lookups := nc.lookups("price")
		if len(lookups) != 2 {
			t.Fatalf("%s: expected 2 lookups, got %d", tt.token, len(lookups))
		}
		if lookups[0].Op != tt.loOp || lookups[1].Op != tt.hiOp {
			t.Errorf("%s: got %v/%v, want %v/%v",
				tt.token, lookups[0].Op, lookups[1].Op, tt.loOp, tt.hiOp)
		}
	}
}

func TestCompareNumericChoices(t *testing.T) {
	parse := func(token string) NumericChoice {
		nc, err := parseNumericChoice(token)
		if err != nil {
			t.Fatalf("%s: %v", token, err)
		}
		return nc
	}

	// a point is more specific than any range
	if compareNumericChoices(parse("5"), parse("3..6")) <= 0 {
		t.Error("point should sort after range")
	}
	// a narrower range is more specific
	if compareNumericChoices(parse("3..4"), parse("3..6")) <= 0 {
		t.Error("narrow range should sort after wide range")
	}
	// two points group together for cascade removal
	if compareNumericChoices(parse("3"), parse("5")) != 0 {
		t.Error("two points should compare equal")
	}
}

func TestNumericChoiceMatchesRange(t *testing.T) {
	nc := numericRangeChoice(
		RangeEnd{Value: decimal.NewFromInt(3), Inclusive: true},
		RangeEnd{Value: decimal.NewFromInt(6), Inclusive: true},
	)
	if !nc.matchesRange(decimal.NewFromInt(3), decimal.NewFromInt(6)) {
		t.Error("expected match on identical bounds")
	}
	if nc.matchesRange(decimal.NewFromInt(3), decimal.NewFromInt(7)) {
		t.Error("unexpected match on different upper bound")
	}
	if numericPoint(decimal.NewFromInt(3)).matchesRange(decimal.NewFromInt(3), decimal.NewFromInt(6)) {
		t.Error("a point never matches a range")
	}
}
