package meta

import (
	"time"

	"github.com/google/uuid"

	"github.com/l1jgo/roguesim/internal/data"
)

// Profile is the persisted meta-progression of one player.
type Profile struct {
	ID             uuid.UUID
	Coins          int
	HighestChapter int
	TotalRuns      int
	TotalKills     int
	SelectedHero   data.HeroID
	Unlocked       [data.NumHeroes]bool
	Upgrades       [data.NumUpgrades]int
	UpdatedAt      time.Time
}

// NewProfile returns a fresh profile with only the free heroes unlocked.
func NewProfile(id uuid.UUID, heroes *data.HeroTable) *Profile {
	p := &Profile{ID: id, SelectedHero: data.Archer}
	for h := data.HeroID(0); h < data.NumHeroes; h++ {
		p.Unlocked[h] = heroes.Get(h).UnlockCost == 0
	}
	p.Unlocked[data.Archer] = true
	return p
}

// UpgradeLevel returns the level of an upgrade track, 0 for unknown ids.
func (p *Profile) UpgradeLevel(id data.UpgradeID) int {
	if id >= data.NumUpgrades {
		return 0
	}
	return p.Upgrades[id]
}

// IsHeroUnlocked reports whether h may be selected.
func (p *Profile) IsHeroUnlocked(h data.HeroID) bool {
	return h < data.NumHeroes && p.Unlocked[h]
}

// RunRecord is the outcome of one finished run.
type RunRecord struct {
	ID         uuid.UUID
	ProfileID  uuid.UUID
	Chapter    int
	Hero       data.HeroID
	Victory    bool
	Kills      int
	Coins      int
	Level      int
	RunTime    float64 // simulated seconds
	Seed       int64
	FinishedAt time.Time
}
