package id

import "testing"

func TestUUIDGenerator_ProducesValidIDs(t *testing.T) {
	t.Parallel()

	gen := NewUUIDGenerator()
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		v, err := gen.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if !Valid(v) {
			t.Fatalf("generated id %q is not valid", v)
		}
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate id %q", v)
		}
		seen[v] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"7c9e6679-7425-40de-944b-e07fc1f90ae7": true,
		"7c9e6679742540de944be07fc1f90ae7":     false,
		"not-an-id":                            false,
		"":                                     false,
		"{7c9e6679-7425-40de-944b-e07fc1f90ae7}": false,
	}
	for in, want := range cases {
		if got := Valid(in); got != want {
			t.Fatalf("Valid(%q) = %v, want %v", in, got, want)
		}
	}
}
