// internal/tui/pages.go
//
// Rendering for the dashboard pages. Everything reads immutable snapshots
// from the simulator; the only state owned here is cursor positions.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/catalystgrid/catalyst/internal/api"
	"github.com/catalystgrid/catalyst/internal/mock"
)

// View renders the full dashboard: header, optional sidebar, active page.
func (d *dashboardModel) View(sim *mock.Simulator) string {
	header := d.renderHeader(sim)
	content := d.renderPage(sim)

	contentWidth := max(40, d.width-d.sidebarWidth()-8)
	contentBox := panelStyle.Width(contentWidth).Render(content)

	var body string
	if d.sidebarOpen {
		sidebar := panelStyle.Width(d.sidebarWidth()).Render(d.renderSidebar())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, contentBox)
	} else {
		body = contentBox
	}

	sections := []string{header, body}
	if d.flash != "" {
		sections = append(sections, subtleStyle.Render(d.flash))
	}
	sections = append(sections, d.renderKeyHints())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (d *dashboardModel) renderHeader(sim *mock.Simulator) string {
	title := titleStyle.Render("⬡ CATALYST")
	unread := sim.UnreadCount()
	meta := subtleStyle.Render(fmt.Sprintf(
		"%s · role: %s · %s · %d unread",
		d.user.Username, d.role, d.timeframe, unread,
	))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", meta)
}

func (d *dashboardModel) renderSidebar() string {
	var lines []string
	for p := dashPage(0); p < pageCount; p++ {
		label := fmt.Sprintf("%d %s", int(p)+1, p.title())
		if p == d.page {
			lines = append(lines, selectedStyle.Render("▸ "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}
	return joinLines(lines)
}

func (d *dashboardModel) renderPage(sim *mock.Simulator) string {
	switch d.page {
	case pageOverview:
		return d.renderOverview(sim)
	case pageJobs:
		return d.renderJobs()
	case pageAchievements:
		return d.renderAchievements(sim)
	case pageInsights:
		return d.renderInsights(sim)
	case pageNetwork:
		return d.renderNetwork(sim)
	case pageProfile:
		return d.renderProfile(sim)
	case pageWallet:
		return d.renderWallet(sim)
	case pageSettings:
		return d.renderSettings(sim)
	}
	return ""
}

func (d *dashboardModel) renderOverview(sim *mock.Simulator) string {
	var sections []string
	sections = append(sections, headingStyle.Render("Network"))

	if d.metrics.Err != "" {
		sections = append(sections, errorStyle.Render("⚠ "+d.metrics.Err))
	} else if d.metrics.Data != nil {
		m := *d.metrics.Data
		sections = append(sections,
			fmt.Sprintf("Nodes %d/%d online · Jobs %d running, %d completed of %d",
				m.ActiveNodes, m.TotalNodes, m.RunningJobs, m.CompletedJobs, m.TotalJobs),
			fmt.Sprintf("Network earnings %.2f CAT · avg uptime %.1f%%", m.TotalEarnings, m.AverageUptime),
		)
	} else {
		sections = append(sections, subtleStyle.Render("Loading metrics..."))
	}

	// The role axis is a display filter: each role leads with the panel it
	// cares about.
	switch d.role {
	case api.RoleContributor:
		wallet := sim.Wallet()
		sections = append(sections, "", headingStyle.Render("Your earnings"),
			fmt.Sprintf("Balance %.2f CAT · pending %.2f · lifetime %.2f",
				wallet.Balance, wallet.PendingBalance, wallet.TotalEarnings))
	case api.RoleRequester:
		queued := len(sim.Jobs(api.JobFilter{Status: api.JobQueued}))
		running := len(sim.Jobs(api.JobFilter{Status: api.JobRunning}))
		sections = append(sections, "", headingStyle.Render("Your workload"),
			fmt.Sprintf("%d queued · %d running", queued, running))
	case api.RoleAdmin:
		sections = append(sections, "", headingStyle.Render("Operations"),
			fmt.Sprintf("%d nodes registered · %d jobs tracked", len(sim.Nodes()), len(sim.Jobs(api.JobFilter{}))))
	}

	sections = append(sections, "", headingStyle.Render("Leaderboard"))
	for _, entry := range sim.Leaderboard() {
		sections = append(sections, fmt.Sprintf("%2d. %-14s %8.0f", entry.Rank, entry.Username, entry.Score))
	}

	sections = append(sections, "", headingStyle.Render("Recent notifications"))
	feed := sim.Notifications(api.NotificationFilter{Limit: 4})
	if len(feed.Data) == 0 {
		sections = append(sections, subtleStyle.Render("Nothing yet."))
	}
	for _, n := range feed.Data {
		marker := "·"
		if !n.Read {
			marker = "●"
		}
		sections = append(sections, fmt.Sprintf("%s %s — %s", marker, n.Title, n.Message))
	}
	return joinLines(sections)
}

func (d *dashboardModel) renderJobs() string {
	filters := fmt.Sprintf("status: %s · priority: %s",
		orAny(string(d.jobFilter.Status)), orAny(string(d.jobFilter.Priority)))
	var sections []string
	sections = append(sections, subtleStyle.Render(filters))
	if d.jobs.Err != "" {
		sections = append(sections, errorStyle.Render("⚠ "+d.jobs.Err))
	}
	if d.jobAction.Err != "" {
		sections = append(sections, errorStyle.Render("⚠ "+d.jobAction.Err))
	}
	if d.jobs.Data != nil && len(d.jobs.Data.Data) == 0 {
		sections = append(sections, "", "No jobs match the current filter.")
	} else {
		sections = append(sections, d.jobList.View())
	}
	if d.jobs.Data != nil {
		p := d.jobs.Data
		sections = append(sections, subtleStyle.Render(
			fmt.Sprintf("page %d · %d total · next:%v prev:%v", p.Page, p.Total, p.HasNext, p.HasPrev)))
	}
	return joinLines(sections)
}

func (d *dashboardModel) renderAchievements(sim *mock.Simulator) string {
	var sections []string
	for _, rec := range sim.UserAchievements() {
		marker := "  "
		if rec.Unlocked {
			marker = "★ "
		}
		bar := progressBar(rec.Progress, 20)
		sections = append(sections, fmt.Sprintf("%s%-22s %s %3d%%  [%s] %.0f CAT",
			marker, rec.Achievement.Title, bar, rec.Progress, rec.Achievement.Rarity, rec.Achievement.Reward))
	}
	return joinLines(sections)
}

func (d *dashboardModel) renderInsights(sim *mock.Simulator) string {
	var sections []string
	for _, insight := range sim.Insights(d.timeframe) {
		sections = append(sections,
			headingStyle.Render(fmt.Sprintf("[%s] %s", insight.Type, insight.Title)),
			insight.Description,
			subtleStyle.Render("→ "+insight.Action),
			"",
		)
	}
	if len(sections) == 0 {
		return "No insights for this timeframe."
	}
	return joinLines(sections)
}

func (d *dashboardModel) renderNetwork(sim *mock.Simulator) string {
	var sections []string
	for _, node := range sim.Nodes() {
		head := fmt.Sprintf("%s · %s:%d · %s", node.Name, node.Address, node.Port, node.Status)
		if node.Status == api.NodeOnline {
			head = selectedStyle.Render(head)
		}
		sections = append(sections, head,
			fmt.Sprintf("  %s · %s", node.Specs.GPU, node.Specs.CPU))
		if node.Status == api.NodeOnline {
			sections = append(sections, fmt.Sprintf(
				"  cpu %.0f%% · gpu %.0f%% · mem %.0f%% · %.0f°C · %.0fW",
				node.Metrics.CPUUsage, node.Metrics.GPUUsage, node.Metrics.MemoryUsage,
				node.Metrics.Temperature, node.Metrics.PowerUsage))
		}
		sections = append(sections, subtleStyle.Render(fmt.Sprintf(
			"  uptime %.1f%% · %d tasks · %.2f CAT earned",
			node.Performance.Uptime, node.Performance.TasksCompleted, node.Performance.TotalEarnings)), "")
	}
	return joinLines(sections)
}

func (d *dashboardModel) renderProfile(sim *mock.Simulator) string {
	unlocked := 0
	for _, rec := range sim.UserAchievements() {
		if rec.Unlocked {
			unlocked++
		}
	}
	wallet := sim.Wallet()
	lines := []string{
		headingStyle.Render(d.user.Username),
		fmt.Sprintf("Role %s · level %d", d.user.Role, max(1, d.user.Level)),
	}
	if d.user.Email != "" {
		lines = append(lines, d.user.Email)
	}
	if !d.user.JoinedAt.IsZero() {
		lines = append(lines, "Joined "+d.user.JoinedAt.Format("2 Jan 2006"))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Lifetime earnings %.2f CAT", wallet.TotalEarnings),
		fmt.Sprintf("Achievements unlocked %d/%d", unlocked, len(sim.UserAchievements())),
	)
	return joinLines(lines)
}

func (d *dashboardModel) renderWallet(sim *mock.Simulator) string {
	wallet := sim.Wallet()
	sections := []string{
		headingStyle.Render("Wallet"),
		fmt.Sprintf("Balance   %10.2f %s", wallet.Balance, wallet.Currency),
		fmt.Sprintf("Pending   %10.2f %s", wallet.PendingBalance, wallet.Currency),
		fmt.Sprintf("Earned    %10.2f %s", wallet.TotalEarnings, wallet.Currency),
		fmt.Sprintf("Withdrawn %10.2f %s", wallet.TotalWithdrawals, wallet.Currency),
	}

	if d.withdrawing {
		sections = append(sections, "", "Withdraw amount:", d.withdrawInput.View(),
			subtleStyle.Render("Enter → confirm    Esc → cancel"))
	}
	if d.withdraw.Err != "" {
		sections = append(sections, errorStyle.Render("⚠ "+d.withdraw.Err))
	}

	sections = append(sections, "", headingStyle.Render("Transactions"))
	txs := sim.Transactions(api.TransactionFilter{Limit: 8})
	for _, tx := range txs.Data {
		sections = append(sections, fmt.Sprintf("%-10s %9.2f  %-9s %s",
			tx.Type, tx.Amount, tx.Status, tx.Description))
	}
	return joinLines(sections)
}

func (d *dashboardModel) renderSettings(sim *mock.Simulator) string {
	settings := sim.Settings()
	var lines []string
	for i, row := range d.settingsRows {
		line := fmt.Sprintf("%-22s %s", row.label, row.value(settings))
		if i == d.settingsCursor {
			line = selectedStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", subtleStyle.Render("Enter → toggle    ↑/↓ → move"))
	return joinLines(lines)
}

func (d *dashboardModel) renderKeyHints() string {
	hints := []string{"1-8 pages", "[/] cycle", "r role", "b sidebar", "t timeframe"}
	switch d.page {
	case pageJobs:
		hints = append(hints, "f status", "p priority", "a accept", "x cancel")
	case pageWallet:
		hints = append(hints, "w withdraw")
	case pageOverview:
		hints = append(hints, "n mark read")
	}
	hints = append(hints, "ctrl+l logout", "q quit")
	return subtleStyle.Render(strings.Join(hints, " · "))
}

func orAny(value string) string {
	if value == "" {
		return "any"
	}
	return value
}

func progressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
