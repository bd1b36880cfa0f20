// Package autopilot plays a run without a human: it kites threats, lets the
// auto-attack work while nothing is close, sweeps up drops and walks through
// open doors.
package autopilot

import (
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
	"github.com/l1jgo/roguesim/internal/world"
)

const (
	defaultDanger = 110.0
	wallMargin    = 60.0
)

// DefaultPriority ranks skills from most to least wanted.
var DefaultPriority = []data.SkillID{
	data.Multishot, data.AttackSpeedUp, data.DamageUp, data.Piercing,
	data.Ricochet, data.DiagonalArrows, data.HPUp, data.Shield,
	data.CircleDamage, data.CritChanceUp, data.FreezeShot, data.PoisonShot,
	data.BurnShot, data.Homing, data.Bounce, data.RearArrow,
	data.Meteor, data.SwordSpin, data.HPRegen, data.DodgeChance,
	data.DamageReduction,
}

// Pilot is a deterministic driver. It holds no state between steps, so one
// Pilot may serve any number of worlds.
type Pilot struct {
	Danger   float64 // flee when a threat is closer than this
	Priority []data.SkillID
}

func New() *Pilot {
	return &Pilot{Danger: defaultDanger, Priority: DefaultPriority}
}

// Input picks the movement for the next step.
func (p *Pilot) Input(w *world.World) world.Input {
	pl := &w.Player
	if w.DoorActive {
		return toward(pl.Pos, w.Door)
	}

	if away, ok := p.threat(w); ok {
		return steer(pl.Pos, away)
	}

	if !anyTargetable(w) {
		if d := nearestDrop(w); d != nil {
			return toward(pl.Pos, d.Pos)
		}
	}
	return world.Input{}
}

// threat sums the directions away from every enemy and enemy shot inside
// the danger radius, weighted by closeness.
func (p *Pilot) threat(w *world.World) (geom.Vec2, bool) {
	pos := w.Player.Pos
	var sum geom.Vec2
	found := false
	push := func(from geom.Vec2) {
		d := pos.Sub(from)
		dist := d.Len()
		if dist >= p.Danger {
			return
		}
		found = true
		if dist == 0 {
			sum = sum.Add(geom.V(0, -1))
			return
		}
		sum = sum.Add(d.Scale((p.Danger - dist) / p.Danger / dist))
	}
	for _, e := range w.Enemies {
		if e.Alive && !e.Spawning() {
			push(e.Pos)
		}
	}
	for _, z := range w.Zones {
		push(z.Pos)
	}
	for _, pr := range w.Projectiles {
		if pr.Owner == world.OwnerEnemy && pr.Alive {
			push(pr.Pos)
		}
	}
	return sum, found
}

// steer turns a flee direction into input, bending it off nearby walls so the
// player does not pin itself into a corner.
func steer(pos, dir geom.Vec2) world.Input {
	if pos.X < wallMargin {
		dir.X += 1
	} else if pos.X > world.ArenaWidth-wallMargin {
		dir.X -= 1
	}
	if pos.Y < wallMargin {
		dir.Y += 1
	} else if pos.Y > world.ArenaHeight-wallMargin {
		dir.Y -= 1
	}
	n, l := dir.Normalize()
	if l == 0 {
		return world.Input{}
	}
	return world.Input{Active: true, Direction: n, Magnitude: 1}
}

func toward(from, to geom.Vec2) world.Input {
	n, l := to.Sub(from).Normalize()
	if l == 0 {
		return world.Input{}
	}
	return world.Input{Active: true, Direction: n, Magnitude: 1}
}

func anyTargetable(w *world.World) bool {
	for _, e := range w.Enemies {
		if e.Targetable() {
			return true
		}
	}
	return false
}

func nearestDrop(w *world.World) *world.Drop {
	var best *world.Drop
	bestSq := 0.0
	for _, d := range w.Drops {
		if !d.Alive {
			continue
		}
		if dsq := d.Pos.DistSq(w.Player.Pos); best == nil || dsq < bestSq {
			best, bestSq = d, dsq
		}
	}
	return best
}

// Pick returns the index of the highest-priority offered skill.
func (p *Pilot) Pick(_ *world.World, choices []data.SkillID) int {
	best, bestRank := 0, len(p.Priority)+1
	for i, c := range choices {
		rank := len(p.Priority)
		for r, id := range p.Priority {
			if id == c {
				rank = r
				break
			}
		}
		if rank < bestRank {
			best, bestRank = i, rank
		}
	}
	return best
}
