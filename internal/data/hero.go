package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Hero is a playable base profile.
type Hero struct {
	ID            HeroID   `yaml:"id"`
	Name          string   `yaml:"name"`
	HP            float64  `yaml:"hp"`
	Damage        float64  `yaml:"damage"`
	Speed         float64  `yaml:"speed"`
	AttackSpeed   float64  `yaml:"attack_speed"` // attacks per second
	StartingSkill *SkillID `yaml:"starting_skill"`
	UnlockCost    int      `yaml:"unlock_cost"` // coins; 0 = always unlocked
}

// HeroTable holds heroes indexed by HeroID.
type HeroTable struct {
	heroes [NumHeroes]Hero
}

// Get returns the hero profile. Out-of-range ids fall back to the archer.
func (t *HeroTable) Get(id HeroID) *Hero {
	if id >= NumHeroes {
		id = Archer
	}
	return &t.heroes[id]
}

// Lookup resolves a hero by name, falling back to the archer for unknown names.
func (t *HeroTable) Lookup(name string) *Hero {
	id, err := ParseHeroID(name)
	if err != nil {
		id = Archer
	}
	return t.Get(id)
}

func (t *HeroTable) Count() int { return int(NumHeroes) }

type heroFile struct {
	Heroes []Hero `yaml:"heroes"`
}

func parseHeroTable(raw []byte) (*HeroTable, error) {
	var f heroFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse heroes: %w", err)
	}
	t := &HeroTable{}
	var seen [NumHeroes]bool
	for _, h := range f.Heroes {
		if h.HP <= 0 || h.AttackSpeed <= 0 {
			return nil, fmt.Errorf("heroes: %s needs positive hp and attack_speed", h.ID)
		}
		seen[h.ID] = true
		t.heroes[h.ID] = h
	}
	for id := HeroID(0); id < NumHeroes; id++ {
		if !seen[id] {
			return nil, fmt.Errorf("heroes: missing profile for %s", id)
		}
	}
	return t, nil
}

// Upgrade describes a permanent meta-upgrade track.
type Upgrade struct {
	ID          UpgradeID `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	MaxLevel    int       `yaml:"max_level"`
}

// UpgradeTable holds upgrade tracks indexed by UpgradeID.
type UpgradeTable struct {
	upgrades [NumUpgrades]Upgrade
}

func (t *UpgradeTable) Get(id UpgradeID) *Upgrade {
	if id >= NumUpgrades {
		return nil
	}
	return &t.upgrades[id]
}

func (t *UpgradeTable) Count() int { return int(NumUpgrades) }

type upgradeFile struct {
	Upgrades []Upgrade `yaml:"upgrades"`
}

func parseUpgradeTable(raw []byte) (*UpgradeTable, error) {
	var f upgradeFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse upgrades: %w", err)
	}
	t := &UpgradeTable{}
	var seen [NumUpgrades]bool
	for _, u := range f.Upgrades {
		if u.MaxLevel < 1 {
			return nil, fmt.Errorf("upgrades: %s max_level must be >= 1", u.ID)
		}
		seen[u.ID] = true
		t.upgrades[u.ID] = u
	}
	for id := UpgradeID(0); id < NumUpgrades; id++ {
		if !seen[id] {
			return nil, fmt.Errorf("upgrades: missing track %s", id)
		}
	}
	return t, nil
}
