package tui

import (
	"context"
	"strings"

	"rag-chat/internal/app"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// addUserModel is the admin-only modal for registering a new user.
type addUserModel struct {
	theme   Theme
	email   textinput.Model
	isAdmin bool
	busy    bool
	errText string
	okText  string
}

func newAddUserModel(theme Theme) addUserModel {
	ti := textinput.New()
	ti.Placeholder = "new-user@example.com"
	ti.CharLimit = 254
	ti.Width = 38
	ti.Prompt = "> "
	ti.Focus()
	return addUserModel{theme: theme, email: ti}
}

func (m *Model) updateModal(msg tea.KeyMsg) tea.Cmd {
	a := m.modal

	switch msg.Type {
	case tea.KeyEsc:
		m.modal = nil
		m.input.Focus()
		return nil

	case tea.KeyTab:
		a.isAdmin = !a.isAdmin
		return nil

	case tea.KeyEnter:
		if a.busy {
			return nil
		}
		email := strings.TrimSpace(a.email.Value())
		if email == "" {
			a.errText = "Please enter an email address"
			return nil
		}
		a.errText = ""
		a.okText = ""
		a.busy = true
		return tea.Batch(m.addUserCmd(email, a.isAdmin), m.spinTick())
	}

	var cmd tea.Cmd
	a.email, cmd = a.email.Update(msg)
	return cmd
}

func (m *Model) addUserCmd(email string, isAdmin bool) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.app.AddUser(context.Background(), email, isAdmin)
		return addUserDoneMsg{resp: resp, err: err}
	}
}

func (a *addUserModel) finish(msg addUserDoneMsg) {
	a.busy = false
	switch {
	case msg.err != nil:
		a.errText = "You must be logged in to add users"
	case msg.resp.Status == app.StatusSuccess:
		a.okText = msg.resp.Message
		if a.okText == "" {
			a.okText = "User added"
		}
		a.errText = ""
		a.email.Reset()
		a.isAdmin = false
	default:
		a.errText = msg.resp.Message
	}
}

func (a addUserModel) view(spinnerPos int) string {
	title := a.theme.TopBarTitle.Render("Add user")
	input := a.theme.InputBoxF.Width(44).Render(a.email.View())

	check := "[ ]"
	if a.isAdmin {
		check = "[x]"
	}
	adminLine := a.theme.TopBarMeta.Render(check + " admin (Tab toggles)")

	status := ""
	switch {
	case a.busy:
		status = a.theme.Spinner.Render(spinnerFrames[spinnerPos] + " Adding…")
	case a.errText != "":
		status = a.theme.InlineError.Render(a.errText)
	case a.okText != "":
		status = a.theme.InlineSuccess.Render(a.okText)
	}

	hint := a.theme.Footer.Render("Enter add  Esc close")
	return a.theme.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", input, adminLine, status, "", hint))
}
