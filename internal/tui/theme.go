package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

type ThemeName string

const (
	ThemePorcelain ThemeName = "porcelain"
	ThemeMidnight  ThemeName = "midnight"
)

type Theme struct {
	Name ThemeName

	// Colors
	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor
	TextFaint   lipgloss.AdaptiveColor

	Accent   lipgloss.AdaptiveColor
	Success  lipgloss.AdaptiveColor
	Error    lipgloss.AdaptiveColor
	Border   lipgloss.AdaptiveColor
	BorderHi lipgloss.AdaptiveColor

	// Styles
	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	TopBarBadge lipgloss.Style
	TopBarMeta  lipgloss.Style

	Pane      lipgloss.Style
	PaneTitle lipgloss.Style
	Footer    lipgloss.Style
	InputBox  lipgloss.Style
	InputBoxF lipgloss.Style
	Spinner   lipgloss.Style
	Modal     lipgloss.Style

	RoleYou lipgloss.Style
	RoleAI  lipgloss.Style
	RoleSys lipgloss.Style

	InlineError   lipgloss.Style
	InlineSuccess lipgloss.Style
}

// NewTheme resolves the theme from config, overridable via RAGCHAT_THEME and
// RAGCHAT_NO_COLOR.
func NewTheme(configured string) Theme {
	name := ThemeName(os.Getenv("RAGCHAT_THEME"))
	if name == "" {
		name = ThemeName(configured)
	}
	if os.Getenv("RAGCHAT_NO_COLOR") == "1" {
		return newNoColorTheme()
	}

	switch name {
	case ThemeMidnight:
		return newMidnightTheme()
	default:
		return newPorcelainTheme()
	}
}

func newPorcelainTheme() Theme {
	t := Theme{
		Name:        ThemePorcelain,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#1d2433", Dark: "#f2f2f2"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#4a5568", Dark: "#c7c7c7"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#718096", Dark: "#9aa0a6"},

		Accent:   lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
		Success:  lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#46d1b7"},
		Error:    lipgloss.AdaptiveColor{Light: "#b42318", Dark: "#ff7a7a"},
		Border:   lipgloss.AdaptiveColor{Light: "#cbd5e0", Dark: "#3a3a3a"},
		BorderHi: lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
	}
	return t.build()
}

func newMidnightTheme() Theme {
	t := Theme{
		Name:        ThemeMidnight,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#111827", Dark: "#eaeaea"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#374151", Dark: "#b7b7b7"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#8d8d8d"},

		Accent:   lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#7aa2ff"},
		Success:  lipgloss.AdaptiveColor{Light: "#059669", Dark: "#46d1b7"},
		Error:    lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#ff7a7a"},
		Border:   lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#2a2a2a"},
		BorderHi: lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#7aa2ff"},
	}
	return t.build()
}

func newNoColorTheme() Theme {
	t := Theme{
		Name:        "no-color",
		TextPrimary: lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#333333", Dark: "#dddddd"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#bbbbbb"},
		Accent:      lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
		Success:     lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
		Error:       lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
		Border:      lipgloss.AdaptiveColor{Light: "#555555", Dark: "#777777"},
		BorderHi:    lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
	}
	return t.build()
}

func (t Theme) build() Theme {
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.TopBarBadge = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.TopBarMeta = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.Pane = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextMuted)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.InputBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.InputBoxF = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	t.Spinner = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.Modal = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderHi).Padding(1, 2)

	t.RoleYou = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.RoleAI = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.RoleSys = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.InlineError = lipgloss.NewStyle().Foreground(t.Error)
	t.InlineSuccess = lipgloss.NewStyle().Foreground(t.Success)
	return t
}
