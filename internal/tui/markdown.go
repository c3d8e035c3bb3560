package tui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	codeBlockRegex = regexp.MustCompile(`(?s)<pre><code(?: class="language-([a-zA-Z0-9]+)")?>(.*?)</code></pre>`)
	headingRegex   = regexp.MustCompile(`<h([1-6]) id="[^"]*">(.*?)</h[1-6]>`)
	strongRegex    = regexp.MustCompile(`<strong>(.*?)</strong>`)
	emRegex        = regexp.MustCompile(`<em>(.*?)</em>`)
	linkRegex      = regexp.MustCompile(`<a href="([^"]*)">(.*?)</a>`)
	blockquoteRe   = regexp.MustCompile(`(?s)<blockquote>(.*?)</blockquote>`)
	listRegex      = regexp.MustCompile(`(?s)<[ou]l>(.*?)</[ou]l>`)
	liRegex        = regexp.MustCompile(`<li>(.*?)</li>`)
	htmlTagRegex   = regexp.MustCompile(`<[^>]+>`)
	multiNewline   = regexp.MustCompile(`\n{3,}`)
	inlineCodeRe   = regexp.MustCompile(`<code>([^<]+)</code>`)
)

// MarkdownRenderer turns the agent's markdown answers into styled terminal
// text, with chroma syntax highlighting for fenced code blocks.
type MarkdownRenderer struct {
	goldmark.Markdown
	theme     Theme
	formatter chroma.Formatter
	style     *chroma.Style
}

func NewMarkdownRenderer(theme Theme) *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
		goldmark.WithExtensions(
			extension.GFM,
		),
	)

	return &MarkdownRenderer{
		Markdown:  md,
		theme:     theme,
		formatter: formatters.Get("terminal256"),
		style:     styles.Get("friendly"),
	}
}

// Render converts markdown to terminal output at the given width. On any
// parse problem the raw content comes back unstyled rather than an error;
// a chat transcript should never fail to display.
func (r *MarkdownRenderer) Render(content string, width int) string {
	var buf bytes.Buffer
	if err := r.Convert([]byte(content), &buf); err != nil {
		return content
	}
	return r.formatForTerminal(buf.String(), width)
}

func (r *MarkdownRenderer) formatForTerminal(htmlContent string, width int) string {
	result := htmlContent

	// Code blocks first, shielded from the other rewrites.
	var codeBlocks []string
	result = codeBlockRegex.ReplaceAllStringFunc(result, func(m string) string {
		matches := codeBlockRegex.FindStringSubmatch(m)
		if len(matches) < 3 {
			return m
		}
		code := decodeHTMLEntities(matches[2])
		highlighted := r.highlight(code, matches[1])

		codeWidth := width - 6
		if codeWidth < 20 {
			codeWidth = 20
		}
		styled := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(r.theme.Border).
			Padding(0, 1).
			Width(codeWidth).
			Render(highlighted)

		index := len(codeBlocks)
		codeBlocks = append(codeBlocks, styled)
		return fmt.Sprintf("\n{{CODE_BLOCK_%d}}\n", index)
	})

	result = inlineCodeRe.ReplaceAllStringFunc(result, func(m string) string {
		matches := inlineCodeRe.FindStringSubmatch(m)
		if len(matches) < 2 {
			return m
		}
		return lipgloss.NewStyle().
			Foreground(r.theme.Accent).
			Render(decodeHTMLEntities(matches[1]))
	})

	result = headingRegex.ReplaceAllStringFunc(result, func(m string) string {
		matches := headingRegex.FindStringSubmatch(m)
		if len(matches) < 3 {
			return m
		}
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(r.theme.Accent).
			Width(width-2).
			Render(matches[2]) + "\n"
	})

	result = strongRegex.ReplaceAllStringFunc(result, func(m string) string {
		matches := strongRegex.FindStringSubmatch(m)
		if len(matches) < 2 {
			return m
		}
		return lipgloss.NewStyle().Bold(true).Foreground(r.theme.TextPrimary).Render(matches[1])
	})

	result = emRegex.ReplaceAllStringFunc(result, func(m string) string {
		matches := emRegex.FindStringSubmatch(m)
		if len(matches) < 2 {
			return m
		}
		return lipgloss.NewStyle().Italic(true).Render(matches[1])
	})

	result = linkRegex.ReplaceAllStringFunc(result, func(m string) string {
		matches := linkRegex.FindStringSubmatch(m)
		if len(matches) < 3 {
			return m
		}
		return lipgloss.NewStyle().
			Foreground(r.theme.Accent).
			Underline(true).
			Render(fmt.Sprintf("%s (%s)", matches[2], matches[1]))
	})

	result = blockquoteRe.ReplaceAllStringFunc(result, func(m string) string {
		matches := blockquoteRe.FindStringSubmatch(m)
		if len(matches) < 2 {
			return m
		}
		content := htmlTagRegex.ReplaceAllString(strings.TrimSpace(matches[1]), "")
		return lipgloss.NewStyle().
			Foreground(r.theme.TextMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(r.theme.Accent).
			PaddingLeft(1).
			Width(width-2).
			Render(content) + "\n"
	})

	result = listRegex.ReplaceAllStringFunc(result, func(m string) string {
		matches := listRegex.FindStringSubmatch(m)
		if len(matches) < 2 {
			return m
		}
		items := liRegex.FindAllStringSubmatch(matches[1], -1)
		var list strings.Builder
		bullet := lipgloss.NewStyle().Foreground(r.theme.Accent).Render("  • ")
		for _, item := range items {
			if len(item) >= 2 {
				list.WriteString(bullet)
				list.WriteString(htmlTagRegex.ReplaceAllString(item[1], ""))
				list.WriteString("\n")
			}
		}
		return list.String()
	})

	result = strings.ReplaceAll(result, "<p>", "")
	result = strings.ReplaceAll(result, "</p>", "\n")
	result = strings.ReplaceAll(result, "<br>", "\n")
	result = strings.ReplaceAll(result, "<br/>", "\n")
	result = strings.ReplaceAll(result, "<br />", "\n")

	for i, codeBlock := range codeBlocks {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{CODE_BLOCK_%d}}", i), codeBlock)
	}

	result = htmlTagRegex.ReplaceAllString(result, "")
	result = decodeHTMLEntities(result)
	result = multiNewline.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func (r *MarkdownRenderer) highlight(code, lang string) string {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

func decodeHTMLEntities(s string) string {
	replacements := []struct {
		old string
		new string
	}{
		{"&amp;", "&"},
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&quot;", "\""},
		{"&#39;", "'"},
		{"&#x27;", "'"},
		{"&#x60;", "`"},
		{"&nbsp;", " "},
		{"&hellip;", "..."},
	}
	for _, r := range replacements {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	return s
}
