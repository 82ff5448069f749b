package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/catalystgrid/catalyst/internal/api"
	"github.com/catalystgrid/catalyst/internal/config"
	"github.com/catalystgrid/catalyst/internal/mock"
	"github.com/catalystgrid/catalyst/internal/session"
)

var testStart = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	home := t.TempDir()
	return &config.Config{
		HomeDir:         home,
		CatalystDataDir: filepath.Join(home, config.CatalystDir),
		APIBaseURL:      "http://localhost:8000/api",
		APITimeout:      time.Second,
		WSURL:           "ws://localhost:8000/ws",
		WSReconnect:     time.Second,
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	sim, err := mock.NewSimulator(1, testStart, time.Second)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	app, err := NewApp(testConfig(t), WithSimulator(sim))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loginTestUser(t *testing.T, app *App) {
	t.Helper()
	model, _ := app.Update(loginSubmitMsg{username: "alice", password: "pw"})
	if model.(*App).screen != screenDashboard {
		t.Fatalf("login did not reach the dashboard")
	}
}

func TestFreshAppStartsAtLogin(t *testing.T) {
	app := newTestApp(t)
	if app.screen != screenLogin {
		t.Fatalf("expected login screen, got %d", app.screen)
	}
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := app.View()
	if !strings.Contains(view, "CATALYST") || !strings.Contains(view, "Username") {
		t.Fatalf("login view missing form:\n%s", view)
	}
}

func TestLoginEntersDashboardDefaults(t *testing.T) {
	app := newTestApp(t)
	loginTestUser(t, app)

	if app.dash.page != pageOverview {
		t.Fatalf("expected overview page, got %s", app.dash.page.title())
	}
	if !app.dash.sidebarOpen {
		t.Fatalf("sidebar should start open")
	}
	if app.dash.role != api.RoleContributor {
		t.Fatalf("expected contributor role, got %s", app.dash.role)
	}
	if !app.ticking {
		t.Fatalf("tick loop should be armed")
	}
	if app.sessions.Current() == nil {
		t.Fatalf("login should persist a session")
	}
}

func TestLoginFailureStaysOnForm(t *testing.T) {
	app := newTestApp(t)
	loginTestUser(t, app)
	app.logout()

	model, _ := app.Update(loginSubmitMsg{username: "alice", password: "wrong"})
	a := model.(*App)
	if a.screen != screenLogin {
		t.Fatalf("failed login must stay on the form")
	}
	if a.login.errMsg == "" {
		t.Fatalf("failed login should surface an error")
	}
}

func TestSessionRestoreSkipsLogin(t *testing.T) {
	cfg := testConfig(t)
	store := session.New(cfg.SessionPath(), nil)
	if err := store.Login(api.User{
		ID: "u-1", Username: "alice", Role: api.RoleRequester, Token: "tok",
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	sim, err := mock.NewSimulator(1, testStart, time.Second)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	app, err := NewApp(cfg, WithSimulator(sim))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if app.screen != screenDashboard {
		t.Fatalf("restored session should land on the dashboard")
	}
	if app.dash.role != api.RoleRequester {
		t.Fatalf("role should come from the session, got %s", app.dash.role)
	}
}

func TestEveryRolePageCombinationRenders(t *testing.T) {
	app := newTestApp(t)
	loginTestUser(t, app)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	for range roleOrder {
		for page := dashPage(0); page < pageCount; page++ {
			app.Update(keyMsg(string(rune('1' + int(page)))))
			if app.dash.page != page {
				t.Fatalf("key did not select page %s", page.title())
			}
			view := app.View()
			if !strings.Contains(view, page.title()) {
				t.Fatalf("role %s page %s not rendered", app.dash.role, page.title())
			}
		}
		app.Update(keyMsg("r"))
	}
}

func TestPageBracketCycleWraps(t *testing.T) {
	app := newTestApp(t)
	loginTestUser(t, app)

	app.Update(keyMsg("["))
	if app.dash.page != pageCount-1 {
		t.Fatalf("[ from overview should wrap to the last page, got %s", app.dash.page.title())
	}
	app.Update(keyMsg("]"))
	if app.dash.page != pageOverview {
		t.Fatalf("] should wrap back to overview, got %s", app.dash.page.title())
	}
}

func TestRoleCycleIsIndependentOfPage(t *testing.T) {
	app := newTestApp(t)
	loginTestUser(t, app)
	app.Update(keyMsg("5"))

	app.Update(keyMsg("r"))
	if app.dash.role != api.RoleRequester {
		t.Fatalf("expected requester after one cycle, got %s", app.dash.role)
	}
	if app.dash.page != pageNetwork {
		t.Fatalf("role change must not move the page")
	}
	app.Update(keyMsg("r"))
	app.Update(keyMsg("r"))
	if app.dash.role != api.RoleContributor {
		t.Fatalf("role cycle should wrap, got %s", app.dash.role)
	}
}

func TestSidebarToggle(t *testing.T) {
	app := newTestApp(t)
	loginTestUser(t, app)

	app.Update(keyMsg("b"))
	if app.dash.sidebarOpen {
		t.Fatalf("b should close the sidebar")
	}
	app.Update(keyMsg("b"))
	if !app.dash.sidebarOpen {
		t.Fatalf("b should reopen the sidebar")
	}
}

func TestTickAdvancesWorldAndReschedules(t *testing.T) {
	app := newTestApp(t)
	loginTestUser(t, app)

	before := app.sim.Now()
	_, cmd := app.Update(simTickMsg{})
	if !app.sim.Now().After(before) {
		t.Fatalf("tick must advance the simulated clock")
	}
	if cmd == nil {
		t.Fatalf("tick must reschedule itself")
	}
}

func TestLogoutStopsTicking(t *testing.T) {
	app := newTestApp(t)
	loginTestUser(t, app)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	a := model.(*App)
	if a.screen != screenLogin {
		t.Fatalf("ctrl+l should return to the login form")
	}
	if a.ticking {
		t.Fatalf("logout must stop the tick loop")
	}
	if a.sessions.Current() != nil {
		t.Fatalf("logout must clear the session")
	}

	// A tick already in flight when logout ran is dropped, not rescheduled.
	frozen := a.sim.Now()
	_, cmd := a.Update(simTickMsg{})
	if cmd != nil {
		t.Fatalf("stale tick must not reschedule")
	}
	if !a.sim.Now().Equal(frozen) {
		t.Fatalf("stale tick must not advance the world")
	}
}

func TestQuitKey(t *testing.T) {
	app := newTestApp(t)
	loginTestUser(t, app)

	_, cmd := app.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatalf("q should quit from the dashboard")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message, got %T", cmd())
	}
}
