// internal/api/types.go
//
// Data model shared by the resource accessors and the mock layer. The view
// layer treats everything here as an immutable snapshot: a re-fetch replaces
// the value, nothing patches in place.

package api

import "time"

// Role is the participant kind a user acts as. It is a display filter in the
// dashboard, not an authorization concept.
type Role string

const (
	RoleContributor Role = "contributor"
	RoleRequester   Role = "requester"
	RoleAdmin       Role = "admin"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleContributor, RoleRequester, RoleAdmin:
		return true
	}
	return false
}

// User is the authenticated identity. A session wraps one of these plus a
// bearer token.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email,omitempty"`
	Role          Role      `json:"role"`
	Token         string    `json:"token"`
	JoinedAt      time.Time `json:"joinedAt,omitempty"`
	Level         int       `json:"level,omitempty"`
	Experience    int       `json:"experience,omitempty"`
	TotalEarnings float64   `json:"totalEarnings,omitempty"`
}

// UserSettings mirrors the settings page sections.
type UserSettings struct {
	Notifications NotificationSettings `json:"notifications"`
	Performance   PerformanceSettings  `json:"performance"`
	Display       DisplaySettings      `json:"display"`
}

type NotificationSettings struct {
	Email        bool `json:"email"`
	Push         bool `json:"push"`
	JobUpdates   bool `json:"jobUpdates"`
	Achievements bool `json:"achievements"`
}

type PerformanceSettings struct {
	MaxCPUUsage       int      `json:"maxCpuUsage"`
	MaxGPUUsage       int      `json:"maxGpuUsage"`
	MaxTemperature    int      `json:"maxTemperature"`
	AutoAcceptJobs    bool     `json:"autoAcceptJobs"`
	PreferredJobTypes []string `json:"preferredJobTypes,omitempty"`
}

type DisplaySettings struct {
	Theme    string `json:"theme"`
	Timezone string `json:"timezone"`
	Currency string `json:"currency"`
}

// JobStatus is the job lifecycle state.
//
// Transitions: queued -> running -> completed, queued -> cancelled,
// running -> failed. Nothing leaves a terminal state.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobCancelled:
		return true
	}
	return false
}

// JobPriority orders jobs high before medium before low.
type JobPriority string

const (
	PriorityHigh   JobPriority = "high"
	PriorityMedium JobPriority = "medium"
	PriorityLow    JobPriority = "low"
)

// Rank returns the sort weight for the priority, lower sorts first.
func (p JobPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// JobRequirements describes the hardware a job needs.
type JobRequirements struct {
	GPU     string `json:"gpu"`
	Memory  string `json:"memory"`
	Cores   int    `json:"cores"`
	Storage string `json:"storage,omitempty"`
}

// Job is a unit of compute work listed on the marketplace.
//
// Progress is 0 while queued, monotonically non-decreasing while running,
// and reaches 100 only at completed.
type Job struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Model         string          `json:"model"`
	Priority      JobPriority     `json:"priority"`
	Status        JobStatus       `json:"status"`
	Reward        float64         `json:"reward"`
	EstimatedTime time.Duration   `json:"estimatedTime"`
	Progress      int             `json:"progress"`
	Requirements  JobRequirements `json:"requirements"`
	SubmittedBy   string          `json:"submittedBy"`
	SubmittedAt   time.Time       `json:"submittedAt"`
	StartedAt     *time.Time      `json:"startedAt,omitempty"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
}

// CreateJobRequest is the payload for submitting a new job.
type CreateJobRequest struct {
	Title         string          `json:"title"`
	Model         string          `json:"model"`
	Priority      JobPriority     `json:"priority"`
	Reward        float64         `json:"reward"`
	EstimatedTime time.Duration   `json:"estimatedTime"`
	Requirements  JobRequirements `json:"requirements"`
	Tags          []string        `json:"tags,omitempty"`
}

// NodeStatus is the node availability state.
type NodeStatus string

const (
	NodeOnline      NodeStatus = "online"
	NodeOffline     NodeStatus = "offline"
	NodeMaintenance NodeStatus = "maintenance"
)

type NodeSpecs struct {
	CPU     string `json:"cpu"`
	GPU     string `json:"gpu"`
	Memory  string `json:"memory"`
	Storage string `json:"storage"`
	OS      string `json:"os"`
}

type NodePerformance struct {
	Uptime         float64 `json:"uptime"`
	TasksCompleted int     `json:"tasksCompleted"`
	TotalEarnings  float64 `json:"totalEarnings"`
	SuccessRate    float64 `json:"successRate"`
}

// NodeLiveMetrics is meaningful only while the node is online; an offline
// node reads as all zeros.
type NodeLiveMetrics struct {
	CPUUsage    float64 `json:"cpuUsage"`
	GPUUsage    float64 `json:"gpuUsage"`
	MemoryUsage float64 `json:"memoryUsage"`
	Temperature float64 `json:"temperature"`
	PowerUsage  float64 `json:"powerUsage"`
}

type NodeSettings struct {
	MaxCPUUsage    int  `json:"maxCpuUsage"`
	MaxGPUUsage    int  `json:"maxGpuUsage"`
	AutoAcceptJobs bool `json:"autoAcceptJobs"`
}

// Node is a compute provider on the network.
type Node struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	Port        int             `json:"port"`
	Status      NodeStatus      `json:"status"`
	Specs       NodeSpecs       `json:"specs"`
	Performance NodePerformance `json:"performance"`
	Metrics     NodeLiveMetrics `json:"metrics"`
	Settings    NodeSettings    `json:"settings"`
}

// RegisterNodeRequest is the payload for adding a node.
type RegisterNodeRequest struct {
	Name     string       `json:"name"`
	Address  string       `json:"address"`
	Port     int          `json:"port"`
	Specs    NodeSpecs    `json:"specs"`
	Settings NodeSettings `json:"settings"`
}

// Rarity tiers order common through legendary.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Achievement is a catalog entry.
type Achievement struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Rarity      Rarity      `json:"rarity" yaml:"rarity"`
	Category    string      `json:"category" yaml:"category"`
	Reward      float64     `json:"reward" yaml:"reward"`
	Requirement Requirement `json:"requirement" yaml:"requirement"`
}

// Requirement is what must be reached for an achievement to unlock.
type Requirement struct {
	Type   string  `json:"type" yaml:"type"`
	Target float64 `json:"target" yaml:"target"`
}

// UserAchievement pairs a catalog entry with per-user progress.
// Unlocked implies progress == 100 and never reverts to false.
type UserAchievement struct {
	AchievementID string     `json:"achievementId"`
	Achievement   Achievement `json:"achievement"`
	Progress      int        `json:"progress"`
	Unlocked      bool       `json:"unlocked"`
	UnlockedAt    *time.Time `json:"unlockedAt,omitempty"`
	CurrentValue  float64    `json:"currentValue"`
}

// TransactionType classifies ledger entries.
type TransactionType string

const (
	TxEarning    TransactionType = "earning"
	TxWithdrawal TransactionType = "withdrawal"
	TxBonus      TransactionType = "bonus"
)

// TransactionStatus is the settlement state of a ledger entry.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

// Transaction is an append-only ledger record. Withdrawals carry negative
// amounts and start pending.
type Transaction struct {
	ID          string            `json:"id"`
	Type        TransactionType   `json:"type"`
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Status      TransactionStatus `json:"status"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"createdAt"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
}

// Wallet aggregates the ledger. Balance equals the running sum of completed
// transaction amounts.
type Wallet struct {
	Balance          float64 `json:"balance"`
	PendingBalance   float64 `json:"pendingBalance"`
	TotalEarnings    float64 `json:"totalEarnings"`
	TotalWithdrawals float64 `json:"totalWithdrawals"`
	Currency         string  `json:"currency"`
}

// WithdrawRequest is the payload for a wallet withdrawal.
type WithdrawRequest struct {
	Amount  float64 `json:"amount"`
	Address string  `json:"address"`
}

// NotificationType classifies feed entries.
type NotificationType string

const (
	NotifJob         NotificationType = "job"
	NotifAchievement NotificationType = "achievement"
	NotifSystem      NotificationType = "system"
	NotifSecurity    NotificationType = "security"
)

// Notification is a feed entry. Only the Read flag ever mutates.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
	ExpiresAt *time.Time       `json:"expiresAt,omitempty"`
}

// InsightType classifies generated insights.
type InsightType string

const (
	InsightOptimization InsightType = "optimization"
	InsightEarnings     InsightType = "earnings"
	InsightAlert        InsightType = "alert"
	InsightForecast     InsightType = "forecast"
)

// Insight is a generated recommendation shown on the insights page.
type Insight struct {
	ID          string      `json:"id"`
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Impact      string      `json:"impact"`
	Action      string      `json:"action"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// TimeSeriesPoint is one sample of a named metric.
type TimeSeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Metric    string    `json:"metric"`
	Value     float64   `json:"value"`
}

// NetworkMetrics is the network-wide rollup shown on the overview page.
type NetworkMetrics struct {
	TotalNodes     int               `json:"totalNodes"`
	ActiveNodes    int               `json:"activeNodes"`
	TotalJobs      int               `json:"totalJobs"`
	RunningJobs    int               `json:"runningJobs"`
	CompletedJobs  int               `json:"completedJobs"`
	TotalEarnings  float64           `json:"totalEarnings"`
	AverageUptime  float64           `json:"averageUptime"`
	TimeSeriesData []TimeSeriesPoint `json:"timeSeriesData,omitempty"`
}

// NodeMetrics is the per-node rollup.
type NodeMetrics struct {
	NodeID         string            `json:"nodeId"`
	AvgCPUUsage    float64           `json:"avgCpuUsage"`
	AvgGPUUsage    float64           `json:"avgGpuUsage"`
	AvgTemperature float64           `json:"avgTemperature"`
	TotalTasks     int               `json:"totalTasks"`
	TotalEarnings  float64           `json:"totalEarnings"`
	TimeSeriesData []TimeSeriesPoint `json:"timeSeriesData,omitempty"`
}

// LeaderboardEntry is one row of the contributors leaderboard.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}
