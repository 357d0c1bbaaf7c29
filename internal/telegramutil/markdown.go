package telegramutil

import "strings"

const ParseModeMarkdownV2 = "MarkdownV2"

// EscapeMarkdownV2 escapes every character MarkdownV2 reserves, so arbitrary
// user text can be embedded between formatting markers.
func EscapeMarkdownV2(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if strings.IndexByte("\\_*[]()~`>#+-=|{}.!", ch) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// Bold wraps already-unescaped text in MarkdownV2 bold markers.
func Bold(text string) string {
	return "*" + EscapeMarkdownV2(text) + "*"
}
