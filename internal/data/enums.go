package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// EnemyType is the closed set of enemy kinds. Regular kinds come first.
type EnemyType uint8

const (
	MeleeBasic EnemyType = iota
	MeleeFast
	RangedBasic
	RangedSpread
	BossGolem
	BossDragon
	BossWizard
	NumEnemyTypes
)

var enemyTypeNames = [NumEnemyTypes]string{
	"melee_basic", "melee_fast", "ranged_basic", "ranged_spread",
	"boss_golem", "boss_dragon", "boss_wizard",
}

func (t EnemyType) String() string { return nameOf(enemyTypeNames[:], int(t), "enemy") }
func (t EnemyType) IsBoss() bool   { return t >= BossGolem && t < NumEnemyTypes }

func ParseEnemyType(s string) (EnemyType, error) {
	i, err := parseName(enemyTypeNames[:], s, "enemy type")
	return EnemyType(i), err
}

func (t *EnemyType) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseEnemyType(n.Value)
	*t = v
	return err
}

// Behavior selects the movement policy of a regular enemy.
type Behavior uint8

const (
	Chase Behavior = iota
	Kite
	BossPattern
	NumBehaviors
)

var behaviorNames = [NumBehaviors]string{"chase", "kite", "boss_pattern"}

func (b Behavior) String() string { return nameOf(behaviorNames[:], int(b), "behavior") }

func (b *Behavior) UnmarshalYAML(n *yaml.Node) error {
	i, err := parseName(behaviorNames[:], n.Value, "behavior")
	*b = Behavior(i)
	return err
}

// Effect is an elemental status a projectile can carry.
type Effect uint8

const (
	Poison Effect = iota
	Freeze
	Burn
	NumEffects
)

var effectNames = [NumEffects]string{"poison", "freeze", "burn"}

func (e Effect) String() string { return nameOf(effectNames[:], int(e), "effect") }

func (e *Effect) UnmarshalYAML(n *yaml.Node) error {
	i, err := parseName(effectNames[:], n.Value, "effect")
	*e = Effect(i)
	return err
}

// SkillID identifies an in-run skill.
type SkillID uint8

const (
	Multishot SkillID = iota
	DiagonalArrows
	RearArrow
	Piercing
	Bounce
	Ricochet
	Homing
	PoisonShot
	FreezeShot
	BurnShot
	AttackSpeedUp
	DamageUp
	CritChanceUp
	HPUp
	Shield
	CircleDamage
	Meteor
	SwordSpin
	HPRegen
	DodgeChance
	DamageReduction
	NumSkills
)

var skillNames = [NumSkills]string{
	"multishot", "diagonal_arrows", "rear_arrow", "piercing",
	"bounce", "ricochet", "homing", "poison", "freeze", "burn",
	"attack_speed_up", "damage_up", "crit_chance_up", "hp_up",
	"shield", "circle_damage", "meteor", "sword_spin",
	"hp_regen", "dodge_chance", "damage_reduction",
}

func (s SkillID) String() string { return nameOf(skillNames[:], int(s), "skill") }

func ParseSkillID(s string) (SkillID, error) {
	i, err := parseName(skillNames[:], s, "skill")
	return SkillID(i), err
}

func (s *SkillID) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseSkillID(n.Value)
	*s = v
	return err
}

// SkillCategory groups skills for selection UIs.
type SkillCategory uint8

const (
	CategoryAttack SkillCategory = iota
	CategoryProjectile
	CategoryStat
	CategoryAbility
	CategoryPassive
	NumSkillCategories
)

var categoryNames = [NumSkillCategories]string{"attack", "projectile", "stat", "ability", "passive"}

func (c SkillCategory) String() string { return nameOf(categoryNames[:], int(c), "category") }

func (c *SkillCategory) UnmarshalYAML(n *yaml.Node) error {
	i, err := parseName(categoryNames[:], n.Value, "skill category")
	*c = SkillCategory(i)
	return err
}

// HeroID identifies a playable hero.
type HeroID uint8

const (
	Archer HeroID = iota
	Mage
	Warrior
	NumHeroes
)

var heroNames = [NumHeroes]string{"archer", "mage", "warrior"}

func (h HeroID) String() string { return nameOf(heroNames[:], int(h), "hero") }

func ParseHeroID(s string) (HeroID, error) {
	i, err := parseName(heroNames[:], s, "hero")
	return HeroID(i), err
}

func (h *HeroID) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseHeroID(n.Value)
	*h = v
	return err
}

// UpgradeID identifies a permanent meta-upgrade track.
type UpgradeID uint8

const (
	UpgradeMaxHP UpgradeID = iota
	UpgradeAttackDamage
	UpgradeAttackSpeed
	UpgradeCritChance
	UpgradeDamageReduction
	NumUpgrades
)

var upgradeNames = [NumUpgrades]string{
	"max_hp", "attack_damage", "attack_speed", "crit_chance", "damage_reduction",
}

func (u UpgradeID) String() string { return nameOf(upgradeNames[:], int(u), "upgrade") }

func ParseUpgradeID(s string) (UpgradeID, error) {
	i, err := parseName(upgradeNames[:], s, "upgrade")
	return UpgradeID(i), err
}

func (u *UpgradeID) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseUpgradeID(n.Value)
	*u = v
	return err
}

// ModifierKind tags a room modifier. ModifierNone is the zero value.
type ModifierKind uint8

const (
	ModifierNone ModifierKind = iota
	ModifierSwarm
	ModifierElite
	ModifierFast
	NumModifierKinds
)

var modifierNames = [NumModifierKinds]string{"none", "swarm", "elite", "fast"}

func (m ModifierKind) String() string { return nameOf(modifierNames[:], int(m), "modifier") }

func (m *ModifierKind) UnmarshalYAML(n *yaml.Node) error {
	i, err := parseName(modifierNames[:], n.Value, "room modifier")
	*m = ModifierKind(i)
	return err
}

func nameOf(names []string, i int, kind string) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, i)
	}
	return names[i]
}

func parseName(names []string, s, kind string) (int, error) {
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}
