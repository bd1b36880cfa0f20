package world

import (
	"github.com/l1jgo/roguesim/internal/core/event"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
)

// applySkillEffect folds one held skill into the derived stats. Skills that
// change behavior rather than stats are read directly by the passes.
func applySkillEffect(id data.SkillID, level int, p *Player) {
	l := float64(level)
	switch id {
	case data.AttackSpeedUp:
		p.AttackSpeed *= 1 + 0.15*l
	case data.DamageUp:
		p.AttackDamage = geom.Round(p.AttackDamage * (1 + 0.2*l))
	case data.CritChanceUp:
		p.CritChance += 0.1 * l
	case data.HPUp:
		p.MaxHP += 20 * l
	case data.DodgeChance:
		p.DodgeChance += 0.08 * l
	case data.DamageReduction:
		p.DamageReduction += 2 * l
	}
}

// reapplyStats recomputes every derived stat from base values and the full
// skill list. HP keeps its ratio to max HP.
func (p *Player) reapplyStats() {
	p.AttackSpeed = p.Base.AttackSpeed
	p.AttackDamage = p.Base.AttackDamage
	p.CritChance = p.Base.CritChance
	p.DodgeChance = 0
	p.DamageReduction = p.Base.DamageReduction
	ratio := 1.0
	if p.MaxHP > 0 {
		ratio = p.HP / p.MaxHP
	}
	p.MaxHP = p.Base.MaxHP

	for _, s := range p.Skills {
		applySkillEffect(s.ID, s.Level, p)
	}
	p.HP = geom.Round(ratio * p.MaxHP)
}

// Acquire adds id at level 1, or levels it up to its max, then recomputes
// stats. An id outside the skill table is a content bug and panics.
func (w *World) Acquire(id data.SkillID) {
	info := w.Content.Skills.Get(id)
	if info == nil {
		panic("world: no skill definition for " + id.String())
	}
	p := &w.Player
	level := 0
	for i := range p.Skills {
		if p.Skills[i].ID == id {
			if p.Skills[i].Level < info.MaxLevel {
				p.Skills[i].Level++
			}
			level = p.Skills[i].Level
			break
		}
	}
	if level == 0 {
		level = 1
		p.Skills = append(p.Skills, HeldSkill{ID: id, Level: 1})
		p.armAbility(id)
	}
	p.reapplyStats()
	event.Emit(w.Events, event.SkillAcquired{Skill: id, Level: level})
}

// armAbility starts the cooldown of a newly gained timed ability.
func (p *Player) armAbility(id data.SkillID) {
	switch id {
	case data.CircleDamage:
		p.AbilityCooldowns[AbilityCircleDamage] = CircleDamageCooldown
	case data.Meteor:
		p.AbilityCooldowns[AbilityMeteor] = MeteorCooldown
	case data.SwordSpin:
		p.AbilityCooldowns[AbilitySwordSpin] = SwordSpinCooldown
	}
}

// SkillChoices draws up to n distinct skills the player can still take or
// level, in random order.
func (w *World) SkillChoices(n int) []data.SkillID {
	var pool []data.SkillID
	for _, info := range w.Content.Skills.All() {
		if w.Player.SkillLevel(info.ID) >= info.MaxLevel {
			continue
		}
		pool = append(pool, info.ID)
	}
	w.Rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool
}

// ChooseSkill resolves a level-up pause with id.
func (w *World) ChooseSkill(id data.SkillID) {
	w.Acquire(id)
	w.SkillSelection = false
}
