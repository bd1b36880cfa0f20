package world

import (
	"math"

	"github.com/l1jgo/roguesim/internal/core/ecs"
	"github.com/l1jgo/roguesim/internal/core/event"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
)

// PermanentBonuses are meta-progression stat additions folded into the
// player's base stats at construction.
type PermanentBonuses struct {
	MaxHP           float64 `msgpack:"max_hp"`
	DamagePct       float64 `msgpack:"damage_pct"`
	AttackSpeedPct  float64 `msgpack:"attack_speed_pct"`
	CritChance      float64 `msgpack:"crit_chance"`
	DamageReduction float64 `msgpack:"damage_reduction"`
}

// BaseStats are hero plus permanent upgrades, before in-run skills.
type BaseStats struct {
	MaxHP           float64
	AttackDamage    float64
	AttackSpeed     float64
	CritChance      float64
	DamageReduction float64
}

// HeldSkill is an acquired skill and its level.
type HeldSkill struct {
	ID    data.SkillID
	Level int
}

// Timed active abilities with per-ability cooldowns.
const (
	AbilityCircleDamage = iota
	AbilityMeteor
	AbilitySwordSpin
	numAbilities
)

// Player is the single player entity.
type Player struct {
	ID     ecs.EntityID
	Pos    geom.Vec2
	Size   geom.Size
	Vel    geom.Vec2
	HP     float64
	MaxHP  float64
	Alive  bool
	Speed  float64
	Facing geom.Vec2
	Moving bool

	// Derived stats, recomputed from Base and Skills by reapplyStats.
	AttackDamage    float64
	AttackSpeed     float64 // attacks per second
	AttackRange     float64
	CritChance      float64
	CritMultiplier  float64
	DodgeChance     float64
	DamageReduction float64

	Base BaseStats

	XP       int
	XPToNext int
	Level    int
	Coins    int
	Skills   []HeldSkill

	AttackCooldown   float64
	IFrames          float64 // invincibility time left
	ShieldActive     bool
	ShieldCooldown   float64
	AbilityCooldowns [numAbilities]float64
}

func newPlayer(id ecs.EntityID, hero *data.Hero, b PermanentBonuses) Player {
	base := BaseStats{
		MaxHP:           hero.HP + b.MaxHP,
		AttackDamage:    geom.Round(hero.Damage * (1 + b.DamagePct)),
		AttackSpeed:     hero.AttackSpeed * (1 + b.AttackSpeedPct),
		CritChance:      PlayerCritChance + b.CritChance,
		DamageReduction: b.DamageReduction,
	}
	return Player{
		ID:              id,
		Pos:             geom.V(ArenaWidth/2, ArenaHeight/2),
		Size:            geom.Size{W: PlayerSize, H: PlayerSize},
		HP:              base.MaxHP,
		MaxHP:           base.MaxHP,
		Alive:           true,
		Speed:           hero.Speed,
		Facing:          geom.V(0, -1),
		AttackDamage:    base.AttackDamage,
		AttackSpeed:     base.AttackSpeed,
		AttackRange:     PlayerAttackRange,
		CritChance:      base.CritChance,
		CritMultiplier:  PlayerCritMultiplier,
		DamageReduction: base.DamageReduction,
		Base:            base,
		XPToNext:        BaseXPThreshold,
		Level:           1,
	}
}

// Radius is the player's collision radius.
func (p *Player) Radius() float64 { return p.Size.Radius() }

// SkillLevel returns the held level of id, 0 if not held.
func (p *Player) SkillLevel(id data.SkillID) int {
	for _, s := range p.Skills {
		if s.ID == id {
			return s.Level
		}
	}
	return 0
}

func (p *Player) HasSkill(id data.SkillID) bool { return p.SkillLevel(id) > 0 }

// XPThreshold is the XP needed to leave level.
func XPThreshold(level int) int {
	return int(geom.Round(BaseXPThreshold * math.Pow(XPScaling, float64(level-1))))
}

// GrantXP adds xp and processes every level-up it triggers. Each level-up
// raises the skill-selection pause.
func (w *World) GrantXP(xp int) {
	p := &w.Player
	p.XP += xp
	for p.XP >= p.XPToNext {
		p.XP -= p.XPToNext
		p.Level++
		p.XPToNext = XPThreshold(p.Level)
		w.SkillSelection = true
		w.levelUpSparkles(p.Pos)
		w.PlayAudio(AudioLevelUp)
		event.Emit(w.Events, event.PlayerLeveledUp{Level: p.Level})
	}
}

// Heal restores amount HP, capped at max.
func (p *Player) Heal(amount float64) {
	p.HP = math.Min(p.MaxHP, p.HP+amount)
}

// HitSource selects the feedback of a player hit.
type HitSource uint8

const (
	HitProjectile HitSource = iota
	HitMelee
	HitBoss
)

// HitResult is the outcome of DamagePlayer.
type HitResult uint8

const (
	HitIgnored HitResult = iota // invincibility frames
	HitShielded
	HitDodged
	HitDamaged
	HitKilled
)

// DamagePlayer runs the shared defensive pipeline: invincibility frames, then
// shield, then dodge, then flat reduction with a floor of 1.
func (w *World) DamagePlayer(amount float64, src HitSource) HitResult {
	p := &w.Player
	if !p.Alive || p.IFrames > 0 {
		return HitIgnored
	}

	// A shield broken by a shot grants no invincibility; contact and boss
	// hits do.
	if p.ShieldActive {
		p.ShieldActive = false
		if src != HitProjectile {
			p.IFrames = InvincibilityTime
		}
		w.AddEffect(EffectShieldBreak, p.Pos, PlayerSize, 0.3)
		w.addLabel(p.Pos, LabelShield)
		return HitShielded
	}

	if p.DodgeChance > 0 && w.Rand.Chance(p.DodgeChance) {
		w.addLabel(p.Pos, LabelDodge)
		return HitDodged
	}

	dmg := amount
	if p.DamageReduction > 0 {
		dmg = math.Max(1, dmg-p.DamageReduction)
	}
	p.HP -= dmg
	p.IFrames = InvincibilityTime
	w.AddDamageNumber(p.Pos, dmg, false)
	w.HitSpark(p.Pos, true)
	w.PlayAudio(AudioPlayerHit)
	if src == HitBoss {
		w.AddShake(10, 0.3)
	} else {
		w.AddShake(6, 0.2)
	}

	if p.HP <= 0 {
		p.HP = 0
		p.Alive = false
		w.GameOver = true
		w.playerDeathExplosion(p.Pos)
		w.AddShake(20, 0.5)
		event.Emit(w.Events, event.PlayerDied{Room: w.Room, Kills: w.Kills, RunTime: w.RunTime})
		return HitKilled
	}
	return HitDamaged
}
