// internal/tui/login.go
//
// Landing screen: username/password form. There is no real backend; the
// offline authenticator provisions demo accounts, so any new username works.

package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/catalystgrid/catalyst/internal/api"
)

// loginSubmitMsg carries the submitted credentials to the app.
type loginSubmitMsg struct {
	username string
	password string
}

type loginModel struct {
	username textinput.Model
	password textinput.Model
	focus    int
	errMsg   string
}

func newLoginModel() loginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 32
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword

	return loginModel{username: username, password: password}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			m.focus = (m.focus + 1) % 2
			if m.focus == 0 {
				m.username.Focus()
				m.password.Blur()
			} else {
				m.username.Blur()
				m.password.Focus()
			}
			return m, nil
		case "enter":
			username := strings.TrimSpace(m.username.Value())
			password := m.password.Value()
			if username == "" || password == "" {
				m.errMsg = "enter a username and password"
				return m, nil
			}
			return m, func() tea.Msg {
				return loginSubmitMsg{username: username, password: password}
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.username, cmd = m.username.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// fail records a login error for display, preferring the server-shaped
// message when one exists.
func (m *loginModel) fail(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		m.errMsg = apiErr.Message
		return
	}
	m.errMsg = "sign-in failed, try again"
}

func (m loginModel) View(width int) string {
	title := titleStyle.Render("⬡ CATALYST")
	subtitle := subtleStyle.Render("Distributed compute marketplace")
	form := lipgloss.JoinVertical(lipgloss.Left,
		"Username",
		m.username.View(),
		"",
		"Password",
		m.password.View(),
	)
	sections := []string{title, subtitle, "", form}
	if m.errMsg != "" {
		sections = append(sections, "", errorStyle.Render("⚠ "+m.errMsg))
	}
	sections = append(sections, "", subtleStyle.Render("Enter → sign in    Tab → switch field    Ctrl+C → quit"))
	box := panelStyle.Width(max(44, width/2)).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return box
}
