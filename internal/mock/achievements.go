// internal/mock/achievements.go
//
// Achievement catalog plus per-user progress. The catalog ships as embedded
// YAML; progress is driven by counters the simulator updates. Unlocking is
// one-way: once a record flips to unlocked it never reverts, even if the
// underlying counter could somehow move backwards.

package mock

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/catalystgrid/catalyst/internal/api"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Achievements []api.Achievement `yaml:"achievements"`
}

// Counter names used by catalog requirements.
const (
	CounterTasksCompleted = "tasks_completed"
	CounterTotalEarnings  = "total_earnings"
	CounterNodesOnline    = "nodes_online"
)

// Achievements tracks catalog entries and the user's progress against them.
type Achievements struct {
	catalog  []api.Achievement
	progress map[string]*api.UserAchievement
	counters map[string]float64
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() ([]api.Achievement, error) {
	var file catalogFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		return nil, fmt.Errorf("mock: parse achievement catalog: %w", err)
	}
	if len(file.Achievements) == 0 {
		return nil, fmt.Errorf("mock: achievement catalog is empty")
	}
	return file.Achievements, nil
}

// NewAchievements builds the tracker with zeroed progress.
func NewAchievements(catalog []api.Achievement) *Achievements {
	a := &Achievements{
		catalog:  catalog,
		progress: make(map[string]*api.UserAchievement, len(catalog)),
		counters: map[string]float64{},
	}
	for _, entry := range catalog {
		a.progress[entry.ID] = &api.UserAchievement{
			AchievementID: entry.ID,
			Achievement:   entry,
		}
	}
	return a
}

// Catalog returns the full catalog.
func (a *Achievements) Catalog() []api.Achievement {
	out := make([]api.Achievement, len(a.catalog))
	copy(out, a.catalog)
	return out
}

// ForUser returns the per-user records in catalog order.
func (a *Achievements) ForUser() []api.UserAchievement {
	out := make([]api.UserAchievement, 0, len(a.catalog))
	for _, entry := range a.catalog {
		out = append(out, *a.progress[entry.ID])
	}
	return out
}

// Unlocked returns records that unlocked since the previous call site's
// snapshot; callers compare counts, so this just filters.
func (a *Achievements) Unlocked() []api.UserAchievement {
	var out []api.UserAchievement
	for _, entry := range a.catalog {
		if rec := a.progress[entry.ID]; rec.Unlocked {
			out = append(out, *rec)
		}
	}
	return out
}

// Advance sets a counter and recomputes progress. Newly unlocked records are
// returned so the caller can emit notifications and pay catalog rewards.
func (a *Achievements) Advance(counter string, value float64, now time.Time) []api.UserAchievement {
	if current, ok := a.counters[counter]; ok && value < current {
		// Counters only move forward; ignore regressions.
		value = current
	}
	a.counters[counter] = value

	var unlocked []api.UserAchievement
	for _, entry := range a.catalog {
		if entry.Requirement.Type != counter {
			continue
		}
		rec := a.progress[entry.ID]
		if rec.Unlocked {
			continue
		}
		rec.CurrentValue = value
		rec.Progress = progressPercent(value, entry.Requirement.Target)
		if rec.Progress >= 100 {
			rec.Progress = 100
			rec.Unlocked = true
			at := now
			rec.UnlockedAt = &at
			unlocked = append(unlocked, *rec)
		}
	}
	return unlocked
}

func progressPercent(value, target float64) int {
	if target <= 0 {
		return 100
	}
	pct := int(value / target * 100)
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
