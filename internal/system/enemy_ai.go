package system

import (
	"math"

	coresys "github.com/l1jgo/roguesim/internal/core/system"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
	"github.com/l1jgo/roguesim/internal/world"
)

// EnemyAISystem steers regular enemies: chasers run at the player, kiters
// hold a standoff band and shoot after a short windup. Bosses are handled by
// BossAISystem and take no part in separation.
type EnemyAISystem struct{}

func (EnemyAISystem) Phase() coresys.Phase { return coresys.PhaseEnemyAI }

func (EnemyAISystem) Update(t *Tick, dt float64) {
	if !t.combat() {
		return
	}
	w := t.World
	for _, e := range w.Enemies {
		if !e.Alive || e.IsBoss() {
			continue
		}
		if e.Spawning() {
			e.SpawnTimer -= dt
			continue
		}
		switch e.Behavior {
		case data.Chase:
			updateChaser(w, e, dt)
		case data.Kite:
			updateKiter(w, e, dt)
		}
	}
}

// separation sums unit vectors pointing away from every other live regular
// enemy closer than the separation radius, weighted by how deep they overlap.
func separation(w *world.World, e *world.Enemy) geom.Vec2 {
	const r = world.SeparationRadius
	var sum geom.Vec2
	for _, o := range w.Enemies {
		if o == e || !o.Alive || o.IsBoss() {
			continue
		}
		d := e.Pos.Sub(o.Pos)
		distSq := d.LenSq()
		if distSq <= 0 || distSq >= r*r {
			continue
		}
		dist := math.Sqrt(distSq)
		sum = sum.Add(d.Scale((r - dist) / r / dist))
	}
	return sum
}

// settle clamps a regular enemy to the arena and pushes it out of obstacles.
func settle(w *world.World, e *world.Enemy) {
	half := e.Radius()
	e.Pos = e.Pos.Clamp(geom.V(half, half), geom.V(world.ArenaWidth-half, world.ArenaHeight-half))
	if push, ok := world.ResolveObstacles(e.Pos, half, w.Obstacles); ok {
		e.Pos = e.Pos.Add(push)
	}
}

func updateChaser(w *world.World, e *world.Enemy, dt float64) {
	dir, dist := w.Player.Pos.Sub(e.Pos).Normalize()
	if dist <= 0 {
		return
	}
	move := dir.Scale(e.Speed).Add(separation(w, e).Scale(world.SeparationForce))
	e.Pos = e.Pos.Add(move.Scale(dt))
	settle(w, e)
}

func updateKiter(w *world.World, e *world.Enemy, dt float64) {
	dir, dist := w.Player.Pos.Sub(e.Pos).Normalize()
	if dist <= 0 {
		return
	}

	pref := e.AttackRange * world.KitePreferredRatio
	var move geom.Vec2
	switch {
	case dist < pref*0.5:
		move = dir.Scale(-e.Speed)
	case dist < pref*0.8:
		move = dir.Scale(-e.Speed * 0.5)
	case dist > pref*1.3:
		move = dir.Scale(e.Speed * 0.5)
	}
	move = move.Add(separation(w, e).Scale(world.SeparationForce))
	e.Pos = e.Pos.Add(move.Scale(dt))
	settle(w, e)

	e.AttackCooldown = math.Max(0, e.AttackCooldown-dt)
	if e.AttackWindup > 0 {
		e.AttackWindup -= dt
		if e.AttackWindup <= 0 {
			fireVolley(w, e)
			e.AttackCooldown = attackCooldown(w, e.Type)
		}
		return
	}
	if e.AttackCooldown <= 0 && dist <= e.AttackRange {
		e.AttackWindup = world.AttackWindupTime
	}
}

// attackCooldown is the reload time of a ranged type from its stat block.
func attackCooldown(w *world.World, t data.EnemyType) float64 {
	if st := w.Content.Enemies.Get(t); st != nil && st.AttackCooldown > 0 {
		return st.AttackCooldown
	}
	return 2
}

// fireVolley shoots at the player: one aimed shot, or a fan spaced by
// SpreadAngle for multi-shot types.
func fireVolley(w *world.World, e *world.Enemy) {
	speed := e.ProjectileSpeed
	if speed <= 0 {
		speed = 200
	}
	if e.Volley <= 1 {
		w.Fire(e.Pos, w.Player.Pos, e.Damage, world.OwnerEnemy, speed)
		return
	}

	_, dist := w.Player.Pos.Sub(e.Pos).Normalize()
	if dist <= 0 {
		return
	}
	base := w.Player.Pos.Sub(e.Pos).Angle()
	half := e.Volley / 2
	for i := -half; i <= e.Volley-1-half; i++ {
		w.FireAngle(e.Pos, base+float64(i)*world.SpreadAngle, e.Damage, world.OwnerEnemy, speed)
	}
}
