package cli

import "testing"

func TestClosest(t *testing.T) {
	names := []string{"place", "pick", "build", "upgrade", "priest", "burn", "town", "pass", "show", "scores", "save", "help", "quit"}
	cases := map[string]string{
		"build":   "build",
		"BUILD":   "build",
		"up":      "upgrade",
		"pl":      "place",
		"bilud":   "build",
		"upgarde": "upgrade",
		"prist":   "priest",
		"p":       "",
		"s":       "",
		"xyzzy":   "",
	}
	for in, want := range cases {
		got, ok := closest(in, names)
		if want == "" {
			if ok {
				t.Errorf("closest(%q) = %q, want no match", in, got)
			}
			continue
		}
		if !ok || got != want {
			t.Errorf("closest(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCardIndexIsOneBased(t *testing.T) {
	if i, err := cardIndex("3"); err != nil || i != 2 {
		t.Fatalf("cardIndex(3) = %d, %v", i, err)
	}
	for _, bad := range []string{"0", "-1", "x"} {
		if _, err := cardIndex(bad); err == nil {
			t.Errorf("cardIndex(%q) accepted", bad)
		}
	}
}
