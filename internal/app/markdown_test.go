package app

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestBuildStyleConfigDisablesDocumentOuterMargins(t *testing.T) {
	cfg := buildStyleConfig()
	if cfg.Document.StylePrimitive.BlockPrefix != "" || cfg.Document.StylePrimitive.BlockSuffix != "" {
		t.Fatalf("expected empty document block prefix and suffix")
	}
	if cfg.Document.Margin == nil || *cfg.Document.Margin != 0 {
		t.Fatalf("expected document margin 0")
	}
}

func TestRenderMarkdownBlankInput(t *testing.T) {
	if got := renderMarkdown(" \n\n", 40); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestRenderMarkdownRespectsWidth(t *testing.T) {
	input := "# Groceries\n\n- " + strings.Repeat("milk ", 30)
	out := renderMarkdown(input, 30)
	if !strings.Contains(xansi.Strip(out), "Groceries") {
		t.Fatalf("expected heading text in output: %q", xansi.Strip(out))
	}
	for _, line := range strings.Split(out, "\n") {
		if w := xansi.StringWidth(line); w > 30 {
			t.Fatalf("line wider than 30 (%d): %q", w, line)
		}
	}
}
