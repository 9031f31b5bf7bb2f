package domain

import "testing"

func TestNewIDIsValidAndUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[ID]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if !ValidID(string(id)) {
			t.Fatalf("NewID produced invalid id %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestValidIDRejectsTamperedValues(t *testing.T) {
	t.Parallel()

	bad := []string{
		"",
		"user_1736500000000_abc123",
		"7c9a1f2e-0b7d-4d21-9a43",
		"7c9a1f2e-0b7d-4d21-9a43-1d2f5c8e4a01 ",
		"zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz",
	}
	for _, s := range bad {
		if ValidID(s) {
			t.Fatalf("ValidID(%q)=true, want false", s)
		}
	}
	if !ValidID("7c9a1f2e-0b7d-4d21-9a43-1d2f5c8e4a01") {
		t.Fatalf("canonical id rejected")
	}
}

func TestNormalizeHumanName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  Suresh   Pillai ": "Suresh Pillai",
		"Anu":                "Anu",
		"   ":                "",
		"a\tb\nc":            "a b c",
	}
	for in, want := range cases {
		if got := NormalizeHumanName(in); got != want {
			t.Fatalf("NormalizeHumanName(%q)=%q, want %q", in, got, want)
		}
	}
}
