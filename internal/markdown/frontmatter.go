package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseFrontmatter decodes a leading YAML front matter block into T and
// returns the remaining body. found=false means there is no front matter;
// the whole input is then the body.
func ParseFrontmatter[T any](contents string) (fm T, body string, found bool, err error) {
	raw, body, found := SplitFrontmatter(contents)
	if !found {
		return fm, body, false, nil
	}
	if strings.TrimSpace(raw) == "" {
		return fm, body, true, nil
	}
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return fm, body, true, fmt.Errorf("decode front matter: %w", err)
	}
	return fm, body, true, nil
}

// SplitFrontmatter splits a markdown document into raw YAML front matter and
// body. The block must open on the first line with "---" and close with a
// later "---" line. A UTF-8 byte order mark and CRLF line endings are accepted.
func SplitFrontmatter(contents string) (string, string, bool) {
	normalized := strings.ReplaceAll(strings.TrimPrefix(contents, "\uFEFF"), "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", contents, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "---" {
			continue
		}
		return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), true
	}
	return "", contents, false
}
