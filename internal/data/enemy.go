package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// EnemyStats is the unscaled stat block of a regular enemy.
type EnemyStats struct {
	Type            EnemyType `yaml:"type"`
	Behavior        Behavior  `yaml:"behavior"`
	HP              float64   `yaml:"hp"`
	Speed           float64   `yaml:"speed"`
	Damage          float64   `yaml:"damage"`
	AttackRange     float64   `yaml:"attack_range"`
	AttackCooldown  float64   `yaml:"attack_cooldown"` // seconds between shots, 0 for melee
	XP              int       `yaml:"xp"`
	Coins           int       `yaml:"coins"`
	Size            float64   `yaml:"size"`
	ProjectileSpeed float64   `yaml:"projectile_speed"`
	Volley          int       `yaml:"volley"` // shots per attack, fanned; 0 or 1 = single aimed shot
}

// BossStats is the fixed stat block of a boss.
type BossStats struct {
	Type            EnemyType `yaml:"type"`
	Name            string    `yaml:"name"`
	Title           string    `yaml:"title"`
	HP              float64   `yaml:"hp"`
	Size            float64   `yaml:"size"`
	Speed           float64   `yaml:"speed"`
	Damage          float64   `yaml:"damage"`
	XP              int       `yaml:"xp"`
	Coins           int       `yaml:"coins"`
	Phase2Threshold float64   `yaml:"phase2_threshold"` // fraction of max HP
	Phase3Threshold float64   `yaml:"phase3_threshold"`
}

// EnemyTable holds regular enemy stats indexed by EnemyType.
type EnemyTable struct {
	stats   [NumEnemyTypes]EnemyStats
	present [NumEnemyTypes]bool
}

// Get returns the stats for a regular type, or nil for bosses.
func (t *EnemyTable) Get(et EnemyType) *EnemyStats {
	if et >= NumEnemyTypes || !t.present[et] {
		return nil
	}
	return &t.stats[et]
}

// Count returns the number of regular enemy types defined.
func (t *EnemyTable) Count() int {
	n := 0
	for _, ok := range t.present {
		if ok {
			n++
		}
	}
	return n
}

type enemyFile struct {
	Enemies []EnemyStats `yaml:"enemies"`
}

func parseEnemyTable(raw []byte) (*EnemyTable, error) {
	var f enemyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse enemies: %w", err)
	}
	t := &EnemyTable{}
	for _, e := range f.Enemies {
		if e.Type.IsBoss() {
			return nil, fmt.Errorf("enemies: %s is a boss type", e.Type)
		}
		if e.Behavior == BossPattern {
			return nil, fmt.Errorf("enemies: %s cannot use boss_pattern", e.Type)
		}
		if e.HP <= 0 || e.Size <= 0 {
			return nil, fmt.Errorf("enemies: %s needs positive hp and size", e.Type)
		}
		if e.Behavior == Kite && e.ProjectileSpeed <= 0 {
			return nil, fmt.Errorf("enemies: kiting %s needs a projectile_speed", e.Type)
		}
		t.stats[e.Type] = e
		t.present[e.Type] = true
	}
	for et := MeleeBasic; et < BossGolem; et++ {
		if !t.present[et] {
			return nil, fmt.Errorf("enemies: missing stats for %s", et)
		}
	}
	return t, nil
}

// BossTable holds boss stats indexed by EnemyType.
type BossTable struct {
	stats   [NumEnemyTypes]BossStats
	present [NumEnemyTypes]bool
}

// Get returns the stats for a boss type, or nil for regular types.
func (t *BossTable) Get(et EnemyType) *BossStats {
	if et >= NumEnemyTypes || !t.present[et] {
		return nil
	}
	return &t.stats[et]
}

type bossFile struct {
	Bosses []BossStats `yaml:"bosses"`
}

func parseBossTable(raw []byte) (*BossTable, error) {
	var f bossFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse bosses: %w", err)
	}
	t := &BossTable{}
	for _, b := range f.Bosses {
		if !b.Type.IsBoss() {
			return nil, fmt.Errorf("bosses: %s is not a boss type", b.Type)
		}
		if b.HP <= 0 {
			return nil, fmt.Errorf("bosses: %s needs positive hp", b.Type)
		}
		if !(b.Phase3Threshold < b.Phase2Threshold && b.Phase2Threshold < 1) {
			return nil, fmt.Errorf("bosses: %s phase thresholds must satisfy 0 <= p3 < p2 < 1", b.Type)
		}
		t.stats[b.Type] = b
		t.present[b.Type] = true
	}
	for et := BossGolem; et < NumEnemyTypes; et++ {
		if !t.present[et] {
			return nil, fmt.Errorf("bosses: missing stats for %s", et)
		}
	}
	return t, nil
}
