package state

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quailyquaily/topicguard/internal/fsstore"
	"github.com/quailyquaily/topicguard/internal/markdown"
)

type botDataFrontmatter struct {
	VerificationKeywords []string `yaml:"verification_keywords"`
}

func isMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}

// readMarkdownBotData loads a reference written as Markdown: keywords in the
// front matter, the reference text as the body.
func readMarkdownBotData(path string, out any) (bool, error) {
	target, ok := out.(*BotData)
	if !ok {
		return false, fmt.Errorf("markdown bot data: unsupported target %T", out)
	}
	contents, exists, err := fsstore.ReadText(path)
	if err != nil || !exists {
		return false, err
	}
	fm, body, _, err := markdown.ParseFrontmatter[botDataFrontmatter](contents)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", fsstore.ErrDecodeFailed, path, err)
	}
	*target = BotData{
		VerificationKeywords:  fm.VerificationKeywords,
		VerificationReference: strings.TrimSpace(body),
	}
	return true, nil
}
