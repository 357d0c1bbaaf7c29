package clifmt

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

const (
	defaultTableWidth    = 100
	defaultMinValueWidth = 24
)

type Row struct {
	Label string
	Value string
}

type Section struct {
	Title     string
	Rows      []Row
	EmptyText string
	// Width overrides terminal detection; zero means detect or fall back to 100.
	Width int
}

// PrintSection writes a two-column label/value block. Long values wrap on
// word boundaries inside the value column.
func PrintSection(out io.Writer, s Section) {
	if out == nil {
		out = os.Stdout
	}
	if title := strings.TrimSpace(s.Title); title != "" {
		fmt.Fprintln(out, Headerf("%s (%d)", title, len(s.Rows)))
	}
	if len(s.Rows) == 0 {
		empty := strings.TrimSpace(s.EmptyText)
		if empty == "" {
			empty = "none"
		}
		fmt.Fprintln(out, Warn(empty))
		return
	}

	labelWidth := 0
	for _, row := range s.Rows {
		if w := utf8.RuneCountInString(row.Label); w > labelWidth {
			labelWidth = w
		}
	}
	valueWidth := columnWidth(out, s.Width, labelWidth)

	for _, row := range s.Rows {
		lines := wrapRunes(row.Value, valueWidth)
		fmt.Fprintf(out, "%s  %s\n", Key(padRight(row.Label, labelWidth)), lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintf(out, "%s  %s\n", strings.Repeat(" ", labelWidth), line)
		}
	}
	fmt.Fprintln(out, Dim(strings.Repeat("-", labelWidth+2+valueWidth)))
}

func columnWidth(out io.Writer, width, labelWidth int) int {
	if width <= 0 {
		width = defaultTableWidth
		if file, ok := out.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
			if w, _, err := term.GetSize(int(file.Fd())); err == nil && w > 0 {
				width = w
			}
		}
	}
	valueWidth := width - labelWidth - 2
	if valueWidth < defaultMinValueWidth {
		valueWidth = defaultMinValueWidth
	}
	return valueWidth
}

func padRight(s string, width int) string {
	missing := width - utf8.RuneCountInString(s)
	if missing <= 0 {
		return s
	}
	return s + strings.Repeat(" ", missing)
}

func wrapRunes(text string, width int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{"-"}
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, width)...)
	}
	return lines
}

func wrapParagraph(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	lines := make([]string, 0, len(words))
	current := ""
	flush := func() {
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
	}
	for _, word := range words {
		for utf8.RuneCountInString(word) > width {
			flush()
			runes := []rune(word)
			lines = append(lines, string(runes[:width]))
			word = string(runes[width:])
		}
		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width:
			current += " " + word
		default:
			flush()
			current = word
		}
	}
	flush()
	return lines
}
