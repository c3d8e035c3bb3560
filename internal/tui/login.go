package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// loginModel is the email prompt shown until an identity exists.
type loginModel struct {
	theme   Theme
	input   textinput.Model
	errText string
	busy    bool
}

func newLoginModel(theme Theme) loginModel {
	ti := textinput.New()
	ti.Placeholder = "you@example.com"
	ti.CharLimit = 254
	ti.Width = 38
	ti.Prompt = "> "
	ti.Focus()
	return loginModel{theme: theme, input: ti}
}

func (l loginModel) view(width, height, spinnerPos int) string {
	title := l.theme.TopBarTitle.Render("papers-RAG chat")
	sub := l.theme.TopBarMeta.Render("Log in with your registered email.")
	input := l.theme.InputBoxF.Width(44).Render(l.input.View())

	status := ""
	switch {
	case l.busy:
		status = l.theme.Spinner.Render(spinnerFrames[spinnerPos] + " Logging in…")
	case l.errText != "":
		status = l.theme.InlineError.Render(l.errText)
	}

	hint := l.theme.Footer.Render("Enter log in  Ctrl+C quit")

	box := l.theme.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, title, sub, "", input, status, "", hint))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
