// internal/mock/simulator.go
//
// Deterministic stand-in for the marketplace backend. Nothing here runs on
// wall-clock timers: the owner calls Tick to advance the world one step, so
// the TUI drives it from its tick message and tests drive it directly.

package mock

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/catalystgrid/catalyst/internal/api"
)

const (
	// maxRunning caps concurrently running jobs, mimicking contributor
	// capacity. Queued work starts as slots free up.
	maxRunning = 3

	// timeSeriesWindow is how many samples the metrics history keeps.
	timeSeriesWindow = 48
)

// Simulator owns the mock world: jobs, nodes, ledger, achievements, and the
// notification feed. It is not safe for concurrent use; the event loop is
// its only caller.
type Simulator struct {
	// FailWithdrawals forces pending withdrawals to settle as failed.
	FailWithdrawals bool

	now  time.Time
	step time.Duration
	rng  *rand.Rand

	jobs          []api.Job
	nodes         []api.Node
	notifications []api.Notification
	insights      []api.Insight
	leaderboard   []api.LeaderboardEntry
	series        []api.TimeSeriesPoint

	ledger       *Ledger
	achievements *Achievements
	settings     api.UserSettings

	tasksCompleted int
}

// NewSimulator seeds the world. The same seed and start time produce the
// same run.
func NewSimulator(seed int64, start time.Time, step time.Duration) (*Simulator, error) {
	catalog, err := LoadCatalog()
	if err != nil {
		return nil, err
	}
	if step <= 0 {
		step = 2 * time.Second
	}
	s := &Simulator{
		now:           start,
		step:          step,
		rng:           rand.New(rand.NewSource(seed)),
		jobs:          seedJobs(start),
		nodes:         seedNodes(),
		notifications: seedNotifications(start),
		insights:      seedInsights(start),
		leaderboard:   seedLeaderboard(),
		ledger:        NewLedger(),
		achievements:  NewAchievements(catalog),
		settings:      defaultSettings(),
	}
	// Seed ledger history so the wallet page is not empty on first login.
	s.ledger.Credit(api.TxEarning, 42, "Embedding index rebuild", start.Add(-30*time.Minute))
	s.ledger.Credit(api.TxBonus, 10, "Referral bonus", start.Add(-2*24*time.Hour))
	return s, nil
}

// Now returns the simulated clock.
func (s *Simulator) Now() time.Time { return s.now }

// Tick advances the world one step: running jobs progress, queued jobs start
// as capacity frees, online node metrics jitter, pending withdrawals settle,
// and achievement counters advance.
func (s *Simulator) Tick() {
	s.now = s.now.Add(s.step)

	s.advanceJobs()
	s.jitterNodes()
	s.ledger.Settle(s.now, s.FailWithdrawals)
	s.advanceAchievements()
	s.sample()
}

func (s *Simulator) advanceJobs() {
	running := 0
	for i := range s.jobs {
		job := &s.jobs[i]
		if job.Status != api.JobRunning {
			continue
		}
		running++
		// Progress only ever moves forward, clamped at 100.
		job.Progress += 3 + s.rng.Intn(10)
		if job.Progress < 100 {
			continue
		}
		job.Progress = 100
		job.Status = api.JobCompleted
		completed := s.now
		job.CompletedAt = &completed
		running--
		s.tasksCompleted++
		s.ledger.Credit(api.TxEarning, job.Reward, job.Title, s.now)
		s.notify(api.NotifJob, "Job completed",
			fmt.Sprintf("%s finished and paid %.0f CAT.", job.Title, job.Reward))
	}

	// Start queued jobs, high priority first, oldest first within a tier.
	if running >= maxRunning {
		return
	}
	queued := make([]*api.Job, 0, len(s.jobs))
	for i := range s.jobs {
		if s.jobs[i].Status == api.JobQueued {
			queued = append(queued, &s.jobs[i])
		}
	}
	sort.SliceStable(queued, func(i, j int) bool {
		if queued[i].Priority.Rank() != queued[j].Priority.Rank() {
			return queued[i].Priority.Rank() < queued[j].Priority.Rank()
		}
		return queued[i].SubmittedAt.Before(queued[j].SubmittedAt)
	})
	for _, job := range queued {
		if running >= maxRunning {
			break
		}
		job.Status = api.JobRunning
		started := s.now
		job.StartedAt = &started
		job.Progress = 0
		running++
	}
}

func (s *Simulator) jitterNodes() {
	for i := range s.nodes {
		node := &s.nodes[i]
		if node.Status != api.NodeOnline {
			// Metrics are meaningless off-line; hold them at zero.
			if node.Status == api.NodeOffline {
				node.Metrics = api.NodeLiveMetrics{}
			}
			continue
		}
		node.Metrics.CPUUsage = jitter(s.rng, node.Metrics.CPUUsage, 5, 2, float64(node.Settings.MaxCPUUsage))
		node.Metrics.GPUUsage = jitter(s.rng, node.Metrics.GPUUsage, 5, 5, float64(node.Settings.MaxGPUUsage))
		node.Metrics.MemoryUsage = jitter(s.rng, node.Metrics.MemoryUsage, 3, 5, 98)
		node.Metrics.Temperature = jitter(s.rng, node.Metrics.Temperature, 2, 30, 92)
		node.Metrics.PowerUsage = jitter(s.rng, node.Metrics.PowerUsage, 15, 60, 600)
	}
}

func (s *Simulator) advanceAchievements() {
	wallet := s.ledger.Wallet()
	online := 0
	for _, n := range s.nodes {
		if n.Status == api.NodeOnline {
			online++
		}
	}
	var unlocked []api.UserAchievement
	unlocked = append(unlocked, s.achievements.Advance(CounterTasksCompleted, float64(s.tasksCompleted), s.now)...)
	unlocked = append(unlocked, s.achievements.Advance(CounterTotalEarnings, wallet.TotalEarnings, s.now)...)
	unlocked = append(unlocked, s.achievements.Advance(CounterNodesOnline, float64(online), s.now)...)
	for _, rec := range unlocked {
		s.ledger.Credit(api.TxBonus, rec.Achievement.Reward, "Achievement: "+rec.Achievement.Title, s.now)
		s.notify(api.NotifAchievement, "Achievement unlocked", rec.Achievement.Title)
	}
}

func (s *Simulator) sample() {
	metrics := s.NetworkMetrics("")
	s.series = append(s.series, api.TimeSeriesPoint{
		Timestamp: s.now,
		Metric:    "running_jobs",
		Value:     float64(metrics.RunningJobs),
	})
	if len(s.series) > timeSeriesWindow {
		s.series = s.series[len(s.series)-timeSeriesWindow:]
	}
}

func (s *Simulator) notify(kind api.NotificationType, title, message string) {
	s.notifications = append(s.notifications, api.Notification{
		ID:        uuid.NewString(),
		Type:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: s.now,
	})
}

// Jobs returns jobs matching the filter, priority tiers first, newest within
// a tier. An empty result is a valid result, not an error.
func (s *Simulator) Jobs(filter api.JobFilter) []api.Job {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]api.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && job.Priority != filter.Priority {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(job.Title), search) &&
			!strings.Contains(strings.ToLower(job.Model), search) {
			continue
		}
		out = append(out, job)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority.Rank() != out[j].Priority.Rank() {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}

// JobsPage applies the filter and wraps the result in a pagination envelope.
func (s *Simulator) JobsPage(filter api.JobFilter) api.Page[api.Job] {
	return api.NewPage(s.Jobs(filter), filter.Page, filter.Limit)
}

// Job returns one job by ID.
func (s *Simulator) Job(id string) (api.Job, error) {
	for _, job := range s.jobs {
		if job.ID == id {
			return job, nil
		}
	}
	return api.Job{}, &api.Error{Status: 404, Code: "NOT_FOUND", Message: "job not found"}
}

// CreateJob submits a new queued job.
func (s *Simulator) CreateJob(req api.CreateJobRequest, submittedBy string) api.Job {
	job := api.Job{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Model:         req.Model,
		Priority:      req.Priority,
		Status:        api.JobQueued,
		Reward:        req.Reward,
		EstimatedTime: req.EstimatedTime,
		Requirements:  req.Requirements,
		SubmittedBy:   submittedBy,
		SubmittedAt:   s.now,
		Tags:          req.Tags,
	}
	s.jobs = append(s.jobs, job)
	return job
}

// AcceptJob starts a queued job immediately, regardless of the capacity cap;
// an explicit accept is the contributor claiming the work.
func (s *Simulator) AcceptJob(id string) (api.Job, error) {
	for i := range s.jobs {
		if s.jobs[i].ID != id {
			continue
		}
		if s.jobs[i].Status != api.JobQueued {
			return api.Job{}, &api.Error{
				Status:  409,
				Code:    "INVALID_STATE",
				Message: fmt.Sprintf("job is %s, only queued jobs can be accepted", s.jobs[i].Status),
			}
		}
		s.jobs[i].Status = api.JobRunning
		started := s.now
		s.jobs[i].StartedAt = &started
		s.jobs[i].Progress = 0
		return s.jobs[i], nil
	}
	return api.Job{}, &api.Error{Status: 404, Code: "NOT_FOUND", Message: "job not found"}
}

// CancelJob cancels a queued job. Running work cannot be cancelled.
func (s *Simulator) CancelJob(id string) (api.Job, error) {
	for i := range s.jobs {
		if s.jobs[i].ID != id {
			continue
		}
		if s.jobs[i].Status != api.JobQueued {
			return api.Job{}, &api.Error{
				Status:  409,
				Code:    "INVALID_STATE",
				Message: fmt.Sprintf("job is %s, only queued jobs can be cancelled", s.jobs[i].Status),
			}
		}
		s.jobs[i].Status = api.JobCancelled
		return s.jobs[i], nil
	}
	return api.Job{}, &api.Error{Status: 404, Code: "NOT_FOUND", Message: "job not found"}
}

// Nodes returns all nodes.
func (s *Simulator) Nodes() []api.Node {
	out := make([]api.Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Node returns one node by ID.
func (s *Simulator) Node(id string) (api.Node, error) {
	for _, node := range s.nodes {
		if node.ID == id {
			return node, nil
		}
	}
	return api.Node{}, &api.Error{Status: 404, Code: "NOT_FOUND", Message: "node not found"}
}

// NetworkMetrics rolls up the current world state.
func (s *Simulator) NetworkMetrics(timeframe string) api.NetworkMetrics {
	m := api.NetworkMetrics{TotalNodes: len(s.nodes)}
	var uptime float64
	for _, node := range s.nodes {
		if node.Status == api.NodeOnline {
			m.ActiveNodes++
		}
		uptime += node.Performance.Uptime
		m.TotalEarnings += node.Performance.TotalEarnings
	}
	if len(s.nodes) > 0 {
		m.AverageUptime = uptime / float64(len(s.nodes))
	}
	for _, job := range s.jobs {
		m.TotalJobs++
		switch job.Status {
		case api.JobRunning:
			m.RunningJobs++
		case api.JobCompleted:
			m.CompletedJobs++
		}
	}
	m.TimeSeriesData = append([]api.TimeSeriesPoint(nil), s.series...)
	return m
}

// Insights returns the generated insights, newest first.
func (s *Simulator) Insights(timeframe string) []api.Insight {
	out := make([]api.Insight, len(s.insights))
	copy(out, s.insights)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Leaderboard returns the contributor ranking.
func (s *Simulator) Leaderboard() []api.LeaderboardEntry {
	out := make([]api.LeaderboardEntry, len(s.leaderboard))
	copy(out, s.leaderboard)
	return out
}

// Notifications returns the feed newest-first with the unread filter applied.
func (s *Simulator) Notifications(filter api.NotificationFilter) api.Page[api.Notification] {
	var out []api.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if filter.Unread != nil && n.Read == *filter.Unread {
			continue
		}
		out = append(out, n)
	}
	return api.NewPage(out, filter.Page, filter.Limit)
}

// UnreadCount returns how many notifications are unread.
func (s *Simulator) UnreadCount() int {
	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkNotificationRead flips one read flag. Flipping an already-read entry
// is a no-op, not an error.
func (s *Simulator) MarkNotificationRead(id string) error {
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return nil
		}
	}
	return &api.Error{Status: 404, Code: "NOT_FOUND", Message: "notification not found"}
}

// MarkAllNotificationsRead flips every read flag.
func (s *Simulator) MarkAllNotificationsRead() {
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
}

// Wallet exposes the ledger aggregate.
func (s *Simulator) Wallet() api.Wallet { return s.ledger.Wallet() }

// Transactions exposes the ledger history.
func (s *Simulator) Transactions(filter api.TransactionFilter) api.Page[api.Transaction] {
	return s.ledger.Transactions(filter)
}

// Withdraw requests a withdrawal against the ledger.
func (s *Simulator) Withdraw(amount float64, address string) (api.Transaction, error) {
	return s.ledger.Withdraw(amount, address, s.now)
}

// Settings returns the user settings snapshot.
func (s *Simulator) Settings() api.UserSettings { return s.settings }

// UpdateSettings replaces the user settings and returns the stored value.
func (s *Simulator) UpdateSettings(next api.UserSettings) api.UserSettings {
	s.settings = next
	return s.settings
}

func defaultSettings() api.UserSettings {
	return api.UserSettings{
		Notifications: api.NotificationSettings{Email: true, Push: true, JobUpdates: true, Achievements: true},
		Performance: api.PerformanceSettings{
			MaxCPUUsage:    90,
			MaxGPUUsage:    95,
			MaxTemperature: 85,
			AutoAcceptJobs: false,
		},
		Display: api.DisplaySettings{Theme: "dark", Timezone: "UTC", Currency: walletCurrency},
	}
}

// AchievementCatalog exposes the catalog.
func (s *Simulator) AchievementCatalog() []api.Achievement { return s.achievements.Catalog() }

// UserAchievements exposes per-user progress.
func (s *Simulator) UserAchievements() []api.UserAchievement { return s.achievements.ForUser() }

// jitter nudges value by up to ±spread, clamped to [floor, ceil].
func jitter(rng *rand.Rand, value, spread, floor, ceil float64) float64 {
	value += (rng.Float64()*2 - 1) * spread
	if value < floor {
		value = floor
	}
	if value > ceil {
		value = ceil
	}
	return value
}
