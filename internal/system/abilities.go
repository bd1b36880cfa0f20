package system

import (
	coresys "github.com/l1jgo/roguesim/internal/core/system"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
	"github.com/l1jgo/roguesim/internal/world"
)

// AbilitySystem runs regeneration, the shield recharge and the timed area
// abilities.
type AbilitySystem struct{}

func (AbilitySystem) Phase() coresys.Phase { return coresys.PhaseAbilities }

func (AbilitySystem) Update(t *Tick, dt float64) {
	w := t.World
	p := &w.Player
	if !p.Alive {
		return
	}

	if lvl := p.SkillLevel(data.HPRegen); lvl > 0 {
		p.Heal(float64(lvl) * dt)
	}

	if lvl := p.SkillLevel(data.Shield); lvl > 0 {
		if p.ShieldCooldown > 0 {
			p.ShieldCooldown -= dt
		}
		if p.ShieldCooldown <= 0 && !p.ShieldActive {
			p.ShieldActive = true
			p.ShieldCooldown = world.ShieldBaseCooldown - float64(lvl)
		}
	}

	if lvl := p.SkillLevel(data.CircleDamage); lvl > 0 && ready(p, world.AbilityCircleDamage, world.CircleDamageCooldown, dt) {
		blast(w, p.Pos, world.CircleDamageRadius, world.CircleDamageBase*float64(lvl))
		w.AddEffect(world.EffectCircle, p.Pos, world.CircleDamageRadius, 0.3)
	}

	if lvl := p.SkillLevel(data.Meteor); lvl > 0 && ready(p, world.AbilityMeteor, world.MeteorCooldown, dt) {
		at := meteorTarget(w)
		blast(w, at, world.MeteorRadius, world.MeteorDamageBase*float64(lvl))
		w.AddEffect(world.EffectMeteor, at, world.MeteorRadius, 0.5)
	}

	if lvl := p.SkillLevel(data.SwordSpin); lvl > 0 && ready(p, world.AbilitySwordSpin, world.SwordSpinCooldown, dt) {
		blast(w, p.Pos, world.SwordSpinRadius, world.SwordSpinDamageBase*float64(lvl))
		w.AddEffect(world.EffectSwordSpin, p.Pos, world.SwordSpinRadius, 0.3)
	}
}

// ready counts an ability cooldown down and, when it runs out, rearms it and
// reports true.
func ready(p *world.Player, ability int, cooldown, dt float64) bool {
	p.AbilityCooldowns[ability] -= dt
	if p.AbilityCooldowns[ability] > 0 {
		return false
	}
	p.AbilityCooldowns[ability] = cooldown
	return true
}

// blast damages every targetable enemy strictly inside radius of at.
func blast(w *world.World, at geom.Vec2, radius, dmg float64) {
	for _, e := range w.Enemies {
		if !e.Targetable() || e.Pos.DistSq(at) >= radius*radius {
			continue
		}
		e.Hurt(dmg)
		w.AddDamageNumber(e.Pos, dmg, false)
	}
}

// meteorTarget picks a random targetable enemy's position, or a random arena
// point when there is none.
func meteorTarget(w *world.World) geom.Vec2 {
	var alive []*world.Enemy
	for _, e := range w.Enemies {
		if e.Targetable() {
			alive = append(alive, e)
		}
	}
	if len(alive) > 0 {
		return alive[w.Rand.Intn(len(alive))].Pos
	}
	return geom.V(w.Rand.Float()*world.ArenaWidth, w.Rand.Float()*world.ArenaHeight)
}

// AgingSystem ages damage numbers, ability visuals and particles.
type AgingSystem struct{}

func (AgingSystem) Phase() coresys.Phase { return coresys.PhaseAging }

func (AgingSystem) Update(t *Tick, dt float64) { t.World.AgeFX(dt) }
