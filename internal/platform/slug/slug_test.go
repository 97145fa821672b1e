package slug_test

import (
	"testing"

	"gazette/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Spring Issue":     "spring-issue",
		"  The  Gazette! ": "the-gazette",
		"Nº 12 / Winter":   "n-12-winter",
		"":                 "untitled",
		"!!!":              "untitled",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}
