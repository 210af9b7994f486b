package facets

import "testing"

func TestParseQuery(t *testing.T) {
	p, err := ParseQuery("binding=pb&price=3.5i&price=5i")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.GetList("binding"); len(got) != 1 || got[0] != "pb" {
		t.Errorf("expected [pb], got %v", got)
	}
	if got := p.GetList("price"); len(got) != 2 {
		t.Errorf("expected 2 price values, got %v", got)
	}
}

func TestParseQueryInvalid(t *testing.T) {
	if _, err := ParseQuery("a=%zz"); err == nil {
		t.Error("expected error for invalid escape")
	}
}

func TestParamsCopyIsIndependent(t *testing.T) {
	orig := Params{"a": {"1", "2"}}
	cp := orig.Copy()
	cp.Set("a", "changed")
	cp.Set("b", "new")

	if got := orig.GetList("a"); len(got) != 2 || got[0] != "1" {
		t.Errorf("original mutated: %v", got)
	}
	if orig.Has("b") {
		t.Error("original gained key from copy")
	}
}

func TestParamsEncodeDeterministic(t *testing.T) {
	p := Params{"b": {"2"}, "a": {"1"}, "c": {"3"}}
	want := "a=1&b=2&c=3"
	for i := 0; i < 5; i++ {
		if got := p.Encode(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}
