// internal/tui/app.go
//
// This is the main TUI for the Catalyst dashboard. It uses bubbletea, which
// follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/catalystgrid/catalyst/internal/api"
	"github.com/catalystgrid/catalyst/internal/config"
	"github.com/catalystgrid/catalyst/internal/logbook"
	"github.com/catalystgrid/catalyst/internal/mock"
	"github.com/catalystgrid/catalyst/internal/realtime"
	"github.com/catalystgrid/catalyst/internal/session"
)

// appScreen represents which "screen" we're on.
type appScreen int

const (
	screenLogin     appScreen = iota // Username/password form
	screenDashboard                  // The multi-tab dashboard
)

// simTickInterval paces the world simulation while the dashboard is visible.
const simTickInterval = 2 * time.Second

// simTickMsg advances the simulator one step.
type simTickMsg struct{}

// streamNotifMsg delivers one realtime notification to the dashboard.
type streamNotifMsg struct {
	notification api.Notification
}

// App is the main application model. In bubbletea, this holds ALL state.
type App struct {
	cfg      *config.Config
	sessions *session.Store
	sim      *mock.Simulator
	auth     *mock.Authenticator
	logbook  *logbook.Logbook
	stream   *realtime.Stream

	screen    appScreen
	login     loginModel
	dash      dashboardModel
	statusMsg string

	// Window size (we get this from bubbletea)
	width  int
	height int

	// ticking guards the simulation loop: set when the dashboard schedules
	// ticks, cleared on logout so a stale tick message is dropped instead of
	// rescheduling itself.
	ticking bool
}

// AppOption customizes App construction for tests.
type AppOption func(*App)

// WithSimulator injects a pre-built simulator (tests seed it explicitly).
func WithSimulator(sim *mock.Simulator) AppOption {
	return func(a *App) {
		if sim != nil {
			a.sim = sim
		}
	}
}

// NewApp wires the application together from the loaded configuration.
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	lb, err := logbook.New(filepath.Join(cfg.LogsDir(), "catalyst.log"))
	if err != nil {
		// A missing log file degrades to a nil logbook; everything else works.
		lb = nil
	}

	sessions := session.New(cfg.SessionPath(), lb)
	sim, err := mock.NewSimulator(time.Now().UnixNano(), time.Now(), simTickInterval)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:      cfg,
		sessions: sessions,
		sim:      sim,
		auth:     mock.NewAuthenticator(cfg.AccountsPath(), cfg.SecretPath(), nil),
		logbook:  lb,
		screen:   screenLogin,
		login:    newLoginModel(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}

	if user := sessions.Restore(); user != nil {
		app.enterDashboard(*user)
		app.logInfo("Session restored for %s", user.Username)
	}
	return app, nil
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	if a.screen == screenDashboard {
		return tea.Batch(a.scheduleTick(), a.startStream())
	}
	return a.login.Init()
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.screen == screenDashboard {
			a.dash.setSize(msg.Width, msg.Height)
		}
		return a, nil

	case simTickMsg:
		if !a.ticking || a.screen != screenDashboard {
			// Teardown ran; let the loop die here.
			return a, nil
		}
		a.sim.Tick()
		cmd := a.dash.refresh(a.sim)
		return a, tea.Batch(cmd, a.scheduleTick())

	case streamNotifMsg:
		a.statusMsg = msg.notification.Title
		return a, a.waitForStreamNotif()

	case loginSubmitMsg:
		return a.handleLogin(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, a.quit()
		case "q":
			if a.screen == screenDashboard && !a.dash.capturingInput() {
				return a, a.quit()
			}
		case "ctrl+l":
			if a.screen == screenDashboard {
				return a.logout()
			}
		}
	}

	var cmd tea.Cmd
	switch a.screen {
	case screenLogin:
		a.login, cmd = a.login.Update(msg)
	case screenDashboard:
		cmd = a.dash.Update(msg, a.sim)
	}
	return a, cmd
}

// handleLogin resolves a submitted login form.
func (a *App) handleLogin(msg loginSubmitMsg) (tea.Model, tea.Cmd) {
	user, err := a.auth.Login(msg.username, msg.password)
	if err != nil {
		a.login.fail(err)
		a.logWarn("Login failed for %s: %v", msg.username, err)
		return a, nil
	}
	if err := a.sessions.Login(user); err != nil {
		a.login.fail(err)
		return a, nil
	}
	a.logInfo("Login · %s (%s)", user.Username, user.Role)
	a.enterDashboard(user)
	return a, tea.Batch(a.scheduleTick(), a.startStream())
}

// enterDashboard resets the dashboard shell to its initial state: role from
// the session, overview page, sidebar open.
func (a *App) enterDashboard(user api.User) {
	a.screen = screenDashboard
	a.dash = newDashboardModel(user)
	a.dash.setSize(a.width, a.height)
	a.dash.reload(a.sim)
	a.ticking = true
}

// logout tears the dashboard down: session cleared, tick loop stopped,
// stream closed, back to the login form.
func (a *App) logout() (tea.Model, tea.Cmd) {
	_ = a.sessions.Logout()
	a.closeStream()
	a.ticking = false
	a.screen = screenLogin
	a.login = newLoginModel()
	a.statusMsg = "Signed out"
	a.logInfo("Logout")
	return a, a.login.Init()
}

func (a *App) quit() tea.Cmd {
	a.closeStream()
	a.ticking = false
	if a.logbook != nil {
		a.logbook.Info("Session closed")
		_ = a.logbook.Close()
	}
	return tea.Quit
}

func (a *App) scheduleTick() tea.Cmd {
	return tea.Tick(simTickInterval, func(time.Time) tea.Msg {
		return simTickMsg{}
	})
}

// startStream opens the realtime notification subscription when the feature
// flag allows it.
func (a *App) startStream() tea.Cmd {
	if !a.cfg.Features.RealtimeUpdates {
		return nil
	}
	a.stream = realtime.New(a.cfg.WSURL, a.cfg.WSReconnect, a.cfg.WSMaxReconnects, a.logbook)
	a.stream.Start(a.sessions.Token())
	return a.waitForStreamNotif()
}

func (a *App) waitForStreamNotif() tea.Cmd {
	stream := a.stream
	if stream == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-stream.Notifications()
		if !ok {
			return nil
		}
		return streamNotifMsg{notification: n}
	}
}

func (a *App) closeStream() {
	if a.stream != nil {
		a.stream.Close()
		a.stream = nil
	}
}

// View renders the current state to a string.
func (a *App) View() string {
	var content string
	switch a.screen {
	case screenLogin:
		content = a.login.View(a.width)
	case screenDashboard:
		content = a.dash.View(a.sim)
	}

	sections := []string{content}
	if panel := a.renderLogPanel(); panel != "" {
		sections = append(sections, panel)
	}
	if a.statusMsg != "" {
		sections = append(sections, statusStyle.Render(a.statusMsg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil || a.screen != screenDashboard {
		return ""
	}
	lines := a.logbook.Tail(4)
	if len(lines) == 0 {
		return ""
	}
	return logPanelStyle.Render(joinLines(lines))
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook != nil {
		a.logbook.Info(format, args...)
	}
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook != nil {
		a.logbook.Warn(format, args...)
	}
}
