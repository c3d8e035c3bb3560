package tui

import (
	"context"
	"strings"
	"time"

	"rag-chat/internal/app"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type page int

const (
	pageLogin page = iota
	pageChat
)

type (
	spinMsg      struct{}
	loginDoneMsg struct{ resp app.LoginResponse }
	sendDoneMsg  struct {
		resp app.MessageResponse
		err  error
	}
	resetDoneMsg struct {
		resp app.StatusResponse
		err  error
	}
	addUserDoneMsg struct {
		resp app.StatusResponse
		err  error
	}
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Model is the root bubbletea model: a login page, the chat page, and an
// admin-only add-user modal on top of it.
type Model struct {
	app   *app.Application
	theme Theme
	keys  keyMap

	width  int
	height int
	ready  bool
	page   page

	login loginModel
	modal *addUserModel

	input    textarea.Model
	chatVP   viewport.Model
	markdown *MarkdownRenderer

	running    bool
	statusText string
	statusErr  bool
	spinnerPos int
}

func New(application *app.Application) *Model {
	theme := NewTheme(application.Config.Theme)

	ta := textarea.New()
	ta.Placeholder = "Ask about a paper, then press Enter."
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetHeight(1)
	ta.Prompt = " "
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	start := pageLogin
	if application.Auth.IsLoggedIn() {
		start = pageChat
	}

	return &Model{
		app:        application,
		theme:      theme,
		keys:       defaultKeyMap(),
		width:      100,
		height:     30,
		page:       start,
		login:      newLoginModel(theme),
		input:      ta,
		markdown:   NewMarkdownRenderer(theme),
		statusText: "Ready",
	}
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		l := m.layout()
		if !m.ready {
			m.chatVP = viewport.New(l.chatW, l.chatH)
			m.ready = true
		} else {
			m.chatVP.Width = l.chatW
			m.chatVP.Height = l.chatH
		}
		m.input.SetWidth(maxInt(10, l.inputW))
		m.refreshChat()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.modal != nil {
			return m, m.updateModal(msg)
		}
		if m.page == pageLogin {
			return m, m.updateLogin(msg)
		}
		return m, m.updateChatKeys(msg)

	case loginDoneMsg:
		m.login.busy = false
		if msg.resp.Status == app.StatusSuccess {
			m.login.errText = ""
			m.login.input.Reset()
			m.page = pageChat
			m.statusText = "Ready"
			m.statusErr = false
			m.refreshChat()
			return m, textarea.Blink
		}
		m.login.errText = msg.resp.Message
		return m, nil

	case sendDoneMsg:
		m.running = false
		m.statusText = "Ready"
		m.statusErr = false
		if msg.err != nil {
			// Identity gone mid-session; the transcript is untouched.
			m.statusText = "Not logged in"
			m.statusErr = true
		}
		m.refreshChat()
		m.chatVP.GotoBottom()
		return m, nil

	case resetDoneMsg:
		m.running = false
		m.statusErr = false
		switch {
		case msg.err != nil:
			m.statusText = "Not logged in"
			m.statusErr = true
		case msg.resp.Status == app.StatusSuccess:
			m.statusText = "Session reset"
		default:
			// The old session id stays active; just report the failure.
			m.statusText = "Session reset failed: " + msg.resp.Message
			m.statusErr = true
		}
		return m, nil

	case addUserDoneMsg:
		if m.modal != nil {
			m.modal.finish(msg)
		}
		return m, nil

	case spinMsg:
		m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
		if m.running || m.login.busy || (m.modal != nil && m.modal.busy) {
			return m, m.spinTick()
		}
		return m, nil
	}

	return m, m.updateFocused(msg)
}

// updateFocused forwards non-key messages to whichever widget is active.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch {
	case m.modal != nil:
		m.modal.email, cmd = m.modal.email.Update(msg)
		cmds = append(cmds, cmd)
	case m.page == pageLogin:
		m.login.input, cmd = m.login.input.Update(msg)
		cmds = append(cmds, cmd)
	default:
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		m.chatVP, cmd = m.chatVP.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateLogin(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEnter {
		if m.login.busy {
			return nil
		}
		email := strings.TrimSpace(m.login.input.Value())
		if email == "" {
			m.login.errText = "Please enter an email address"
			return nil
		}
		m.login.errText = ""
		m.login.busy = true
		return tea.Batch(m.loginCmd(email), m.spinTick())
	}

	var cmd tea.Cmd
	m.login.input, cmd = m.login.input.Update(msg)
	return cmd
}

func (m *Model) updateChatKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Send):
		return m.onSend()

	case key.Matches(msg, m.keys.Reset):
		if m.running {
			return nil
		}
		m.running = true
		m.statusText = "Resetting session…"
		return tea.Batch(m.resetCmd(), m.spinTick())

	case key.Matches(msg, m.keys.AddUser):
		if m.app.Auth.IsAdmin() {
			modal := newAddUserModel(m.theme)
			m.modal = &modal
			m.input.Blur()
		}
		return nil

	case key.Matches(msg, m.keys.Logout):
		m.app.Logout()
		m.page = pageLogin
		m.login = newLoginModel(m.theme)
		m.statusText = "Ready"
		m.statusErr = false
		m.refreshChat()
		return nil

	case msg.Type == tea.KeyPgUp:
		m.chatVP.ViewUp()
		return nil
	case msg.Type == tea.KeyPgDown:
		m.chatVP.ViewDown()
		return nil
	case msg.Type == tea.KeyUp:
		m.chatVP.LineUp(1)
		return nil
	case msg.Type == tea.KeyDown:
		m.chatVP.LineDown(1)
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) onSend() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	if m.running {
		// One exchange at a time; the input stays disabled meanwhile.
		return nil
	}

	m.input.Reset()
	m.app.Conv.AddUserMessage(text)
	m.refreshChat()
	m.chatVP.GotoBottom()

	m.running = true
	m.statusText = "Waiting for the agent…"
	m.spinnerPos = 0
	return tea.Batch(m.sendCmd(text), m.spinTick())
}

func (m *Model) loginCmd(email string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{resp: m.app.Auth.Login(context.Background(), email)}
	}
}

func (m *Model) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.app.Conv.SendToAgent(context.Background(), text, m.app.Auth.UserEmail(), m.app.Auth.Token())
		return sendDoneMsg{resp: resp, err: err}
	}
}

func (m *Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.app.ResetSession(context.Background())
		return resetDoneMsg{resp: resp, err: err}
	}
}

func (m *Model) spinTick() tea.Cmd {
	return tea.Tick(90*time.Millisecond, func(time.Time) tea.Msg { return spinMsg{} })
}

func (m *Model) refreshChat() {
	if !m.ready {
		return
	}
	width := m.layout().chatW - 2
	if width < 20 {
		width = 20
	}

	history := m.app.Conv.History()
	if len(history) == 0 {
		m.chatVP.SetContent(m.theme.RoleSys.Render("Welcome! Ask me anything about research papers."))
		return
	}

	var b strings.Builder
	for i, msg := range history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderMessage(msg, width))
	}
	m.chatVP.SetContent(b.String())
}

func (m *Model) renderMessage(msg app.ChatMessage, width int) string {
	var head string
	if msg.IsUser {
		head = m.theme.RoleYou.Render("YOU")
	} else {
		head = m.theme.RoleAI.Render("RAG")
	}
	meta := m.theme.TopBarMeta.Render(msg.Timestamp.Format("15:04"))
	header := head + " " + meta

	var body string
	if msg.IsUser {
		body = lipgloss.NewStyle().Foreground(m.theme.TextPrimary).Width(width).Render(msg.Text)
	} else {
		body = m.markdown.Render(msg.Text, width)
	}
	return header + "\n" + body
}

type layoutInfo struct {
	chatW  int
	chatH  int
	inputW int
}

func (m *Model) layout() layoutInfo {
	top, foot, inputH := 1, 1, 3
	chatH := m.height - top - foot - inputH - 2
	if chatH < 3 {
		chatH = 3
	}
	return layoutInfo{
		chatW:  m.width - 2,
		chatH:  chatH,
		inputW: m.width - 6,
	}
}

func (m *Model) View() string {
	if !m.ready {
		return "…"
	}
	if m.page == pageLogin {
		return m.login.view(m.width, m.height, m.spinnerPos)
	}

	top := m.renderTopBar()
	var main string
	if m.modal != nil {
		main = lipgloss.Place(m.width, m.layout().chatH+2, lipgloss.Center, lipgloss.Center, m.modal.view(m.spinnerPos))
	} else {
		main = m.theme.Pane.Width(m.layout().chatW).Height(m.layout().chatH).Render(m.chatVP.View())
	}
	input := m.theme.InputBoxF.Width(maxInt(10, m.width-4)).Render(m.input.View())
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, top, main, input, footer)
}

func (m *Model) renderTopBar() string {
	left := m.theme.TopBarTitle.Render("ragchat")
	if email := m.app.Auth.UserEmail(); email != "" {
		left += " " + m.theme.TopBarMeta.Render(email)
		if m.app.Auth.IsAdmin() {
			left += " " + m.theme.TopBarBadge.Render("ADMIN")
		}
	}

	status := m.statusText
	switch {
	case m.running || m.login.busy:
		status = m.theme.Spinner.Render(spinnerFrames[m.spinnerPos] + " " + m.statusText)
	case m.statusErr:
		status = m.theme.InlineError.Render(status)
	default:
		status = m.theme.TopBarMeta.Render(status)
	}
	right := m.theme.TopBarMeta.Render(time.Now().Format("15:04"))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	a := gap / 2
	b := gap - a
	return m.theme.TopBar.Render(left + strings.Repeat(" ", a) + status + strings.Repeat(" ", b) + right)
}

func (m *Model) renderFooter() string {
	hints := "Enter send  Ctrl+R reset session  Ctrl+D logout  Ctrl+C quit"
	if m.app.Auth.IsAdmin() {
		hints = "Enter send  Ctrl+R reset  Ctrl+A add user  Ctrl+D logout  Ctrl+C quit"
	}
	return m.theme.Footer.Width(m.width).Render(hints)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
