package markdown_test

import (
	"testing"

	"gazette/internal/platform/markdown"
)

func TestSplitFrontmatter(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		content string
		title   any
		body    string
		wantErr bool
	}{
		{name: "none", content: "# Hello\n", body: "# Hello\n"},
		{name: "simple", content: "---\ntitle: Spring\n---\n# Hello\n", title: "Spring", body: "# Hello\n"},
		{name: "crlf", content: "---\r\ntitle: Spring\r\n---\r\nbody\r\n", title: "Spring", body: "body\n"},
		{name: "only frontmatter", content: "---\ntitle: Spring\n---", title: "Spring", body: ""},
		{name: "empty block", content: "---\n\n---\nbody", body: "body"},
		{name: "unterminated", content: "---\ntitle: Spring\n", wantErr: true},
		{name: "bad yaml", content: "---\ntitle: [\n---\n", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			meta, body, err := markdown.SplitFrontmatter(tc.content)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("split: %v", err)
			}
			if meta["title"] != tc.title {
				t.Fatalf("title = %v, want %v", meta["title"], tc.title)
			}
			if body != tc.body {
				t.Fatalf("body = %q, want %q", body, tc.body)
			}
		})
	}
}
