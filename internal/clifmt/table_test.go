package clifmt

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintSectionWrapsValues(t *testing.T) {
	var buf bytes.Buffer
	PrintSection(&buf, Section{
		Title: "State",
		Width: 40,
		Rows: []Row{
			{Label: "prompt", Value: "12"},
			{Label: "reference", Value: strings.Repeat("word ", 12)},
		},
	})
	out := buf.String()
	if !strings.Contains(out, "State (2)") {
		t.Fatalf("missing title: %q", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title, prompt, reference over two lines, rule
	if len(lines) != 5 {
		t.Fatalf("lines = %d, want 5:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[3], strings.Repeat(" ", len("reference"))) {
		t.Fatalf("continuation not indented: %q", lines[3])
	}
}

func TestPrintSectionEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintSection(&buf, Section{Title: "Verified", EmptyText: "no verified users"})
	if !strings.Contains(buf.String(), "no verified users") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestWrapRunesKeepsParagraphs(t *testing.T) {
	got := wrapRunes("a b\nc", 10)
	if len(got) != 2 || got[0] != "a b" || got[1] != "c" {
		t.Fatalf("wrapRunes() = %#v", got)
	}
	if got := wrapRunes("  ", 10); got[0] != "-" {
		t.Fatalf("wrapRunes(blank) = %#v", got)
	}
}
