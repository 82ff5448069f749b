// internal/mock/fixtures.go
//
// Seed data for the offline dashboard, mirroring what the marketplace would
// serve. Relative ages are applied against the simulator's injected clock so
// a test run and a live run produce the same shapes.

package mock

import (
	"time"

	"github.com/google/uuid"

	"github.com/catalystgrid/catalyst/internal/api"
)

func seedJobs(now time.Time) []api.Job {
	started := now.Add(-25 * time.Minute)
	startedEarlier := now.Add(-2 * time.Hour)
	completed := now.Add(-30 * time.Minute)
	return []api.Job{
		{
			ID:            uuid.NewString(),
			Title:         "LLaMA-3 fine-tune, legal corpus",
			Model:         "llama-3-70b",
			Priority:      api.PriorityHigh,
			Status:        api.JobRunning,
			Reward:        120,
			EstimatedTime: 4 * time.Hour,
			Progress:      45,
			Requirements:  api.JobRequirements{GPU: "A100 80GB", Memory: "128GB", Cores: 16, Storage: "2TB"},
			SubmittedBy:   "lexcorp",
			SubmittedAt:   now.Add(-3 * time.Hour),
			StartedAt:     &started,
			Tags:          []string{"fine-tune", "nlp"},
		},
		{
			ID:            uuid.NewString(),
			Title:         "Stable Diffusion batch render",
			Model:         "sdxl-1.0",
			Priority:      api.PriorityMedium,
			Status:        api.JobRunning,
			Reward:        35,
			EstimatedTime: 90 * time.Minute,
			Progress:      72,
			Requirements:  api.JobRequirements{GPU: "RTX 4090", Memory: "32GB", Cores: 8},
			SubmittedBy:   "pixelforge",
			SubmittedAt:   now.Add(-4 * time.Hour),
			StartedAt:     &startedEarlier,
			Tags:          []string{"render"},
		},
		{
			ID:            uuid.NewString(),
			Title:         "Protein folding sweep",
			Model:         "alphafold-2",
			Priority:      api.PriorityHigh,
			Status:        api.JobQueued,
			Reward:        200,
			EstimatedTime: 8 * time.Hour,
			Requirements:  api.JobRequirements{GPU: "H100", Memory: "256GB", Cores: 32, Storage: "4TB"},
			SubmittedBy:   "helixlab",
			SubmittedAt:   now.Add(-40 * time.Minute),
			Tags:          []string{"science"},
		},
		{
			ID:            uuid.NewString(),
			Title:         "Whisper transcription backlog",
			Model:         "whisper-large-v3",
			Priority:      api.PriorityLow,
			Status:        api.JobQueued,
			Reward:        18,
			EstimatedTime: 45 * time.Minute,
			Requirements:  api.JobRequirements{GPU: "RTX 3080", Memory: "16GB", Cores: 4},
			SubmittedBy:   "podworks",
			SubmittedAt:   now.Add(-20 * time.Minute),
		},
		{
			ID:            uuid.NewString(),
			Title:         "Embedding index rebuild",
			Model:         "bge-large",
			Priority:      api.PriorityMedium,
			Status:        api.JobCompleted,
			Reward:        42,
			EstimatedTime: 2 * time.Hour,
			Progress:      100,
			Requirements:  api.JobRequirements{GPU: "A10G", Memory: "64GB", Cores: 12},
			SubmittedBy:   "searchly",
			SubmittedAt:   now.Add(-6 * time.Hour),
			StartedAt:     &startedEarlier,
			CompletedAt:   &completed,
		},
	}
}

func seedNodes() []api.Node {
	return []api.Node{
		{
			ID:      uuid.NewString(),
			Name:    "helios-01",
			Address: "135.24.8.101",
			Port:    7001,
			Status:  api.NodeOnline,
			Specs:   api.NodeSpecs{CPU: "EPYC 7543 32c", GPU: "A100 80GB", Memory: "256GB", Storage: "8TB NVMe", OS: "Ubuntu 22.04"},
			Performance: api.NodePerformance{
				Uptime: 99.2, TasksCompleted: 412, TotalEarnings: 5120.5, SuccessRate: 98.4,
			},
			Metrics:  api.NodeLiveMetrics{CPUUsage: 64, GPUUsage: 88, MemoryUsage: 71, Temperature: 68, PowerUsage: 310},
			Settings: api.NodeSettings{MaxCPUUsage: 90, MaxGPUUsage: 95, AutoAcceptJobs: true},
		},
		{
			ID:      uuid.NewString(),
			Name:    "borealis-02",
			Address: "92.114.30.55",
			Port:    7001,
			Status:  api.NodeOnline,
			Specs:   api.NodeSpecs{CPU: "Ryzen 9 7950X", GPU: "RTX 4090", Memory: "64GB", Storage: "2TB NVMe", OS: "Arch Linux"},
			Performance: api.NodePerformance{
				Uptime: 97.8, TasksCompleted: 231, TotalEarnings: 1893.25, SuccessRate: 96.1,
			},
			Metrics:  api.NodeLiveMetrics{CPUUsage: 41, GPUUsage: 93, MemoryUsage: 52, Temperature: 74, PowerUsage: 420},
			Settings: api.NodeSettings{MaxCPUUsage: 85, MaxGPUUsage: 100, AutoAcceptJobs: true},
		},
		{
			ID:      uuid.NewString(),
			Name:    "austral-03",
			Address: "203.0.113.40",
			Port:    7002,
			Status:  api.NodeMaintenance,
			Specs:   api.NodeSpecs{CPU: "Xeon w7-3455", GPU: "RTX A6000", Memory: "128GB", Storage: "4TB NVMe", OS: "Ubuntu 24.04"},
			Performance: api.NodePerformance{
				Uptime: 91.3, TasksCompleted: 158, TotalEarnings: 1210.0, SuccessRate: 94.7,
			},
			Metrics:  api.NodeLiveMetrics{CPUUsage: 4, GPUUsage: 0, MemoryUsage: 9, Temperature: 41, PowerUsage: 80},
			Settings: api.NodeSettings{MaxCPUUsage: 80, MaxGPUUsage: 90, AutoAcceptJobs: false},
		},
		{
			ID:      uuid.NewString(),
			Name:    "zephyr-04",
			Address: "198.51.100.12",
			Port:    7001,
			Status:  api.NodeOffline,
			Specs:   api.NodeSpecs{CPU: "i9-13900K", GPU: "RTX 3090", Memory: "32GB", Storage: "1TB NVMe", OS: "Windows 11"},
			Performance: api.NodePerformance{
				Uptime: 88.9, TasksCompleted: 97, TotalEarnings: 640.75, SuccessRate: 92.2,
			},
			// Offline: live metrics read as zero by invariant.
			Metrics:  api.NodeLiveMetrics{},
			Settings: api.NodeSettings{MaxCPUUsage: 75, MaxGPUUsage: 85, AutoAcceptJobs: false},
		},
	}
}

func seedLeaderboard() []api.LeaderboardEntry {
	return []api.LeaderboardEntry{
		{Rank: 1, Username: "gridmaster", Score: 18230},
		{Rank: 2, Username: "ferrofluid", Score: 15981},
		{Rank: 3, Username: "tensorknight", Score: 14405},
		{Rank: 4, Username: "voltaic", Score: 11870},
		{Rank: 5, Username: "kernelpanic", Score: 9930},
	}
}

func seedInsights(now time.Time) []api.Insight {
	return []api.Insight{
		{
			ID:          uuid.NewString(),
			Type:        api.InsightOptimization,
			Title:       "GPU cap limits throughput",
			Description: "borealis-02 hits its 100% GPU cap during render jobs; raising the thermal limit 5C would add roughly 8% throughput.",
			Impact:      "medium",
			Action:      "Review node thermal settings",
			CreatedAt:   now.Add(-5 * time.Hour),
		},
		{
			ID:          uuid.NewString(),
			Type:        api.InsightEarnings,
			Title:       "High-priority jobs pay 2.4x",
			Description: "Over the last week, high-priority jobs paid 2.4x per GPU-hour versus medium. Enabling auto-accept for high priority would lift earnings.",
			Impact:      "high",
			Action:      "Enable auto-accept for high priority",
			CreatedAt:   now.Add(-26 * time.Hour),
		},
		{
			ID:          uuid.NewString(),
			Type:        api.InsightAlert,
			Title:       "zephyr-04 offline 14 hours",
			Description: "The node has missed its last three heartbeats. Scheduled work was requeued.",
			Impact:      "high",
			Action:      "Check node connectivity",
			CreatedAt:   now.Add(-14 * time.Hour),
		},
		{
			ID:          uuid.NewString(),
			Type:        api.InsightForecast,
			Title:       "Demand spike expected",
			Description: "Queued protein-folding sweeps suggest elevated H100 demand over the next 48 hours.",
			Impact:      "low",
			Action:      "Keep nodes online through the weekend",
			CreatedAt:   now.Add(-2 * time.Hour),
		},
	}
}

func seedNotifications(now time.Time) []api.Notification {
	return []api.Notification{
		{
			ID:        uuid.NewString(),
			Type:      api.NotifJob,
			Title:     "Job completed",
			Message:   "Embedding index rebuild finished and paid 42 CAT.",
			Read:      true,
			CreatedAt: now.Add(-30 * time.Minute),
		},
		{
			ID:        uuid.NewString(),
			Type:      api.NotifSystem,
			Title:     "Maintenance window",
			Message:   "austral-03 enters scheduled maintenance at 02:00 UTC.",
			CreatedAt: now.Add(-3 * time.Hour),
		},
		{
			ID:        uuid.NewString(),
			Type:      api.NotifSecurity,
			Title:     "New sign-in",
			Message:   "A new session was started on this device.",
			CreatedAt: now.Add(-5 * time.Minute),
		},
	}
}
