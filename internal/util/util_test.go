// internal/util/util_test.go
package util

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Llama3.1:8B":     "llama3-1_8b",
		"  Model Two  ":   "model-two",
		"Model--Three!!":  "model-three",
		"__Mixed__Case__": "mixed__case",
	}
	for input, expected := range cases {
		if got := Slugify(input); got != expected {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("short", 10); got != "short" {
		t.Fatalf("expected untouched string, got %q", got)
	}
	if got := TruncateRunes("abcdef", 3); got != "abc…" {
		t.Fatalf("expected truncated string, got %q", got)
	}
}
