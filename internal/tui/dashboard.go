// internal/tui/dashboard.go
//
// The dashboard shell: three independent view-state axes (active role,
// active page, sidebar open/closed). Every role/page combination is valid
// and reachable; no transition is ever blocked. Changing an axis re-renders
// only what it affects.

package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/catalystgrid/catalyst/internal/api"
	"github.com/catalystgrid/catalyst/internal/fetch"
	"github.com/catalystgrid/catalyst/internal/mock"
)

// dashPage enumerates the dashboard tabs.
type dashPage int

const (
	pageOverview dashPage = iota
	pageJobs
	pageAchievements
	pageInsights
	pageNetwork
	pageProfile
	pageWallet
	pageSettings

	pageCount
)

func (p dashPage) title() string {
	switch p {
	case pageOverview:
		return "Overview"
	case pageJobs:
		return "Jobs"
	case pageAchievements:
		return "Achievements"
	case pageInsights:
		return "Insights"
	case pageNetwork:
		return "Network"
	case pageProfile:
		return "Profile"
	case pageWallet:
		return "Wallet"
	case pageSettings:
		return "Settings"
	}
	return "Unknown"
}

var roleOrder = []api.Role{api.RoleContributor, api.RoleRequester, api.RoleAdmin}

var timeframes = []string{"24h", "7d", "30d"}

// jobItem adapts a Job for the bubbles list.
type jobItem struct {
	job api.Job
}

func (i jobItem) Title() string {
	return fmt.Sprintf("%s · %s", i.job.Title, i.job.Status)
}

func (i jobItem) Description() string {
	return fmt.Sprintf("%s · %.0f CAT · %d%% · %s", i.job.Priority, i.job.Reward, i.job.Progress, i.job.Model)
}

func (i jobItem) FilterValue() string { return i.job.Title }

// settingsRow is one editable line on the settings page.
type settingsRow struct {
	label  string
	value  func(api.UserSettings) string
	toggle func(*api.UserSettings)
}

type dashboardModel struct {
	user api.User

	// The three view-state axes.
	role        api.Role
	page        dashPage
	sidebarOpen bool

	width  int
	height int

	// Jobs page state. The filter is the loader's dependency list: the
	// loader restarts whenever it changes.
	jobList   list.Model
	jobFilter api.JobFilter
	jobDeps   fetch.Deps
	jobs      fetch.Loader[api.Page[api.Job]]
	jobAction fetch.Mutator[api.Job]

	// Overview/network state.
	metrics   fetch.Loader[api.NetworkMetrics]
	timeframe string

	// Wallet page state.
	withdrawInput textinput.Model
	withdrawing   bool
	withdraw      fetch.Mutator[api.Transaction]

	// Settings page state.
	settingsRows   []settingsRow
	settingsCursor int

	flash string
}

func newDashboardModel(user api.User) dashboardModel {
	role := user.Role
	if !role.Valid() {
		role = api.RoleContributor
	}

	jobList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	jobList.Title = "Jobs"
	jobList.SetShowStatusBar(false)
	jobList.SetFilteringEnabled(false)
	jobList.SetShowHelp(false)

	withdrawInput := textinput.New()
	withdrawInput.Placeholder = "amount"
	withdrawInput.CharLimit = 12

	return dashboardModel{
		user:          user,
		role:          role,
		page:          pageOverview,
		sidebarOpen:   true,
		jobList:       jobList,
		jobFilter:     api.JobFilter{Limit: 20},
		timeframe:     timeframes[0],
		withdrawInput: withdrawInput,
		settingsRows:  buildSettingsRows(),
	}
}

func (d *dashboardModel) setSize(width, height int) {
	d.width = width
	d.height = height
	listWidth := width - d.sidebarWidth() - 8
	d.jobList.SetSize(max(20, listWidth), max(8, height-14))
}

func (d *dashboardModel) sidebarWidth() int {
	if !d.sidebarOpen {
		return 0
	}
	return 22
}

// capturingInput reports whether a text field currently owns the keyboard.
func (d *dashboardModel) capturingInput() bool {
	return d.withdrawing
}

// reload primes every loader from the current world state.
func (d *dashboardModel) reload(sim *mock.Simulator) {
	d.jobDeps = fetch.Deps{d.jobFilter.Status, d.jobFilter.Priority, d.jobFilter.Search}
	resolveNow(&d.jobs, sim.JobsPage(d.jobFilter))
	resolveNow(&d.metrics, sim.NetworkMetrics(d.timeframe))
	d.syncJobList()
}

// resolveNow runs a loader cycle synchronously: the mock world lives on the
// event loop, so the snapshot is taken here and the loader only manages the
// loading/error/generation bookkeeping. A real backend would hand Start an
// actual async producer instead.
func resolveNow[T any](l *fetch.Loader[T], snapshot T) {
	cmd := l.Start(func() (T, error) { return snapshot, nil })
	l.Resolve(cmd().(fetch.Result[T]))
}

// refresh re-fetches tick-dependent data.
func (d *dashboardModel) refresh(sim *mock.Simulator) tea.Cmd {
	d.reload(sim)
	return nil
}

func (d *dashboardModel) syncJobList() {
	if d.jobs.Data == nil {
		return
	}
	items := make([]list.Item, 0, len(d.jobs.Data.Data))
	for _, job := range d.jobs.Data.Data {
		items = append(items, jobItem{job: job})
	}
	d.jobList.SetItems(items)
}

// Update handles dashboard input. sim is the world the pages read from.
func (d *dashboardModel) Update(msg tea.Msg, sim *mock.Simulator) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if d.withdrawing {
		return d.updateWithdraw(key, sim)
	}

	switch key.String() {
	case "1", "2", "3", "4", "5", "6", "7", "8":
		d.page = dashPage(int(key.String()[0] - '1'))
		d.flash = ""
		return nil
	case "]":
		d.page = (d.page + 1) % pageCount
		return nil
	case "[":
		d.page = (d.page + pageCount - 1) % pageCount
		return nil
	case "r":
		d.role = nextRole(d.role)
		return nil
	case "b":
		d.sidebarOpen = !d.sidebarOpen
		d.setSize(d.width, d.height)
		return nil
	case "t":
		d.timeframe = nextTimeframe(d.timeframe)
		d.reload(sim)
		return nil
	}

	switch d.page {
	case pageJobs:
		return d.updateJobs(key, sim)
	case pageWallet:
		return d.updateWallet(key, sim)
	case pageSettings:
		d.updateSettings(key, sim)
		return nil
	case pageOverview:
		if key.String() == "n" {
			sim.MarkAllNotificationsRead()
			d.flash = "All notifications marked read"
		}
		return nil
	}
	return nil
}

func (d *dashboardModel) updateJobs(key tea.KeyMsg, sim *mock.Simulator) tea.Cmd {
	switch key.String() {
	case "f":
		d.jobFilter.Status = nextStatusFilter(d.jobFilter.Status)
	case "p":
		d.jobFilter.Priority = nextPriorityFilter(d.jobFilter.Priority)
	case "a":
		return d.runJobAction(sim.AcceptJob, "accepted")
	case "x":
		return d.runJobAction(sim.CancelJob, "cancelled")
	default:
		var cmd tea.Cmd
		d.jobList, cmd = d.jobList.Update(key)
		return cmd
	}

	// Filter changed: restart the loader when the dependency list moved.
	deps := fetch.Deps{d.jobFilter.Status, d.jobFilter.Priority, d.jobFilter.Search}
	if deps.Changed(d.jobDeps) {
		d.reload(sim)
	}
	return nil
}

func (d *dashboardModel) runJobAction(action func(string) (api.Job, error), verb string) tea.Cmd {
	item, ok := d.jobList.SelectedItem().(jobItem)
	if !ok {
		return nil
	}
	id := item.job.ID
	cmd := d.jobAction.Mutate(func() (api.Job, error) { return action(id) })
	result := cmd().(fetch.Result[api.Job])
	if job, done := d.jobAction.Resolve(result); done && job != nil {
		d.flash = fmt.Sprintf("%s %s", job.Title, verb)
	}
	return nil
}

func (d *dashboardModel) updateWallet(key tea.KeyMsg, sim *mock.Simulator) tea.Cmd {
	if key.String() == "w" {
		d.withdrawing = true
		d.withdraw.ClearErr()
		d.withdrawInput.SetValue("")
		d.withdrawInput.Focus()
	}
	return nil
}

func (d *dashboardModel) updateWithdraw(key tea.KeyMsg, sim *mock.Simulator) tea.Cmd {
	switch key.String() {
	case "esc":
		d.withdrawing = false
		d.withdrawInput.Blur()
		return nil
	case "enter":
		var amount float64
		if _, err := fmt.Sscanf(d.withdrawInput.Value(), "%f", &amount); err != nil {
			d.withdraw.Err = "enter a numeric amount"
			return nil
		}
		cmd := d.withdraw.Mutate(func() (api.Transaction, error) {
			return sim.Withdraw(amount, "demo-wallet-address")
		})
		result := cmd().(fetch.Result[api.Transaction])
		if tx, done := d.withdraw.Resolve(result); done && tx != nil {
			d.flash = fmt.Sprintf("Withdrawal of %.2f CAT pending", -tx.Amount)
			d.withdrawing = false
			d.withdrawInput.Blur()
		}
		return nil
	}
	var cmd tea.Cmd
	d.withdrawInput, cmd = d.withdrawInput.Update(key)
	return cmd
}

func (d *dashboardModel) updateSettings(key tea.KeyMsg, sim *mock.Simulator) {
	switch key.String() {
	case "up", "k":
		if d.settingsCursor > 0 {
			d.settingsCursor--
		}
	case "down", "j":
		if d.settingsCursor < len(d.settingsRows)-1 {
			d.settingsCursor++
		}
	case "enter", " ":
		settings := sim.Settings()
		d.settingsRows[d.settingsCursor].toggle(&settings)
		sim.UpdateSettings(settings)
		d.flash = "Settings saved"
	}
}

func nextRole(r api.Role) api.Role {
	for i, role := range roleOrder {
		if role == r {
			return roleOrder[(i+1)%len(roleOrder)]
		}
	}
	return roleOrder[0]
}

func nextTimeframe(t string) string {
	for i, tf := range timeframes {
		if tf == t {
			return timeframes[(i+1)%len(timeframes)]
		}
	}
	return timeframes[0]
}

var statusCycle = []api.JobStatus{"", api.JobQueued, api.JobRunning, api.JobCompleted, api.JobFailed, api.JobCancelled}

func nextStatusFilter(s api.JobStatus) api.JobStatus {
	for i, st := range statusCycle {
		if st == s {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return ""
}

var priorityCycle = []api.JobPriority{"", api.PriorityHigh, api.PriorityMedium, api.PriorityLow}

func nextPriorityFilter(p api.JobPriority) api.JobPriority {
	for i, pr := range priorityCycle {
		if pr == p {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return ""
}

func buildSettingsRows() []settingsRow {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	return []settingsRow{
		{
			label:  "Email notifications",
			value:  func(s api.UserSettings) string { return onOff(s.Notifications.Email) },
			toggle: func(s *api.UserSettings) { s.Notifications.Email = !s.Notifications.Email },
		},
		{
			label:  "Push notifications",
			value:  func(s api.UserSettings) string { return onOff(s.Notifications.Push) },
			toggle: func(s *api.UserSettings) { s.Notifications.Push = !s.Notifications.Push },
		},
		{
			label:  "Job updates",
			value:  func(s api.UserSettings) string { return onOff(s.Notifications.JobUpdates) },
			toggle: func(s *api.UserSettings) { s.Notifications.JobUpdates = !s.Notifications.JobUpdates },
		},
		{
			label:  "Achievement alerts",
			value:  func(s api.UserSettings) string { return onOff(s.Notifications.Achievements) },
			toggle: func(s *api.UserSettings) { s.Notifications.Achievements = !s.Notifications.Achievements },
		},
		{
			label:  "Auto-accept jobs",
			value:  func(s api.UserSettings) string { return onOff(s.Performance.AutoAcceptJobs) },
			toggle: func(s *api.UserSettings) { s.Performance.AutoAcceptJobs = !s.Performance.AutoAcceptJobs },
		},
		{
			label: "Theme",
			value: func(s api.UserSettings) string { return s.Display.Theme },
			toggle: func(s *api.UserSettings) {
				if s.Display.Theme == "dark" {
					s.Display.Theme = "light"
				} else {
					s.Display.Theme = "dark"
				}
			},
		},
	}
}
