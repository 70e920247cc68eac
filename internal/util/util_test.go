package util

import "testing"

func TestPlural(t *testing.T) {
	t.Parallel()

	cases := map[int]string{0: "tries", 1: "try", 2: "tries", -1: "try"}
	for n, want := range cases {
		if got := Plural(n, "try", "tries"); got != want {
			t.Errorf("Plural(%d) = %q, want %q", n, got, want)
		}
	}
}
