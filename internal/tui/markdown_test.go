package tui

import (
	"strings"
	"testing"
)

func testRenderer() *MarkdownRenderer {
	return NewMarkdownRenderer(newNoColorTheme())
}

func TestRenderHeadingAndEmphasis(t *testing.T) {
	out := testRenderer().Render("# Results\n\nThe paper shows **strong** gains.", 80)

	if !strings.Contains(out, "Results") {
		t.Errorf("output missing heading text: %q", out)
	}
	if !strings.Contains(out, "strong") {
		t.Errorf("output missing bold text: %q", out)
	}
	if strings.Contains(out, "<") {
		t.Errorf("output contains leftover HTML: %q", out)
	}
}

func TestRenderList(t *testing.T) {
	out := testRenderer().Render("- first finding\n- second finding", 80)

	if !strings.Contains(out, "• first finding") {
		t.Errorf("output missing first bullet: %q", out)
	}
	if !strings.Contains(out, "• second finding") {
		t.Errorf("output missing second bullet: %q", out)
	}
}

func TestRenderCodeBlock(t *testing.T) {
	out := testRenderer().Render("```python\nprint(42)\n```", 80)

	if !strings.Contains(out, "print") {
		t.Errorf("output missing code content: %q", out)
	}
}

func TestRenderInlineCode(t *testing.T) {
	out := testRenderer().Render("call `fit()` before predicting", 80)

	if !strings.Contains(out, "fit()") {
		t.Errorf("output missing inline code: %q", out)
	}
}

func TestRenderPlainTextPassesThrough(t *testing.T) {
	out := testRenderer().Render("just a sentence", 80)

	if !strings.Contains(out, "just a sentence") {
		t.Errorf("plain text mangled: %q", out)
	}
}

func TestDecodeHTMLEntities(t *testing.T) {
	got := decodeHTMLEntities("a &lt; b &amp;&amp; b &gt; c &quot;quoted&quot;")
	want := `a < b && b > c "quoted"`
	if got != want {
		t.Errorf("decodeHTMLEntities = %q, want %q", got, want)
	}
}
