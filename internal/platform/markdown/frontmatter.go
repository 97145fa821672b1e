package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	opening = "---\n"
	closing = "\n---\n"
)

// SplitFrontmatter separates a leading YAML block from the markdown body.
// Content without one yields an empty map and the content unchanged.
func SplitFrontmatter(content string) (map[string]any, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, opening) {
		return map[string]any{}, content, nil
	}
	rest := strings.TrimPrefix(content, opening)
	idx := strings.Index(rest, closing)
	if idx < 0 {
		if strings.HasSuffix(rest, "\n---") {
			idx = len(rest) - len("\n---")
			rest += "\n"
		} else {
			return nil, "", fmt.Errorf("invalid frontmatter: missing closing separator")
		}
	}
	raw := rest[:idx]
	body := rest[idx+len(closing):]

	decoded := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	if decoded == nil {
		decoded = map[string]any{}
	}
	return decoded, body, nil
}
