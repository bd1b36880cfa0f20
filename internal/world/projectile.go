package world

import (
	"github.com/l1jgo/roguesim/internal/core/ecs"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
)

// Owner says which side fired a projectile.
type Owner uint8

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
)

func (o Owner) String() string {
	if o == OwnerEnemy {
		return "enemy"
	}
	return "player"
}

// Projectile is a moving shot. Hit records every entity it has already
// damaged so a piercing shot never hits the same target twice.
type Projectile struct {
	ID       ecs.EntityID
	Pos      geom.Vec2
	Vel      geom.Vec2
	Damage   float64
	Owner    Owner
	Piercing bool
	Bounces  int
	Effects  []data.Effect
	Homing   bool
	Alive    bool
	Hit      []ecs.EntityID
}

// HasHit reports whether id was already hit by p.
func (p *Projectile) HasHit(id ecs.EntityID) bool {
	for _, h := range p.Hit {
		if h == id {
			return true
		}
	}
	return false
}

func (p *Projectile) markHit(id ecs.EntityID) {
	p.Hit = append(p.Hit, id)
}

// Fire creates a projectile from origin toward target and appends it.
// A zero-length aim shoots straight up.
func (w *World) Fire(origin, target geom.Vec2, damage float64, owner Owner, speed float64) *Projectile {
	dir, dist := target.Sub(origin).Normalize()
	vel := dir.Scale(speed)
	if dist == 0 {
		vel = geom.V(0, -speed)
	}
	p := &Projectile{
		ID:     w.Entities.Create(),
		Pos:    origin,
		Vel:    vel,
		Damage: damage,
		Owner:  owner,
		Alive:  true,
	}
	w.Projectiles = append(w.Projectiles, p)
	return p
}

// FireAngle fires from origin along angle a.
func (w *World) FireAngle(origin geom.Vec2, a, damage float64, owner Owner, speed float64) *Projectile {
	return w.Fire(origin, origin.Add(geom.FromAngle(a, 100)), damage, owner, speed)
}

// removeProjectileAt drops the i-th projectile and retires its id.
func (w *World) removeProjectileAt(i int) {
	w.Entities.Destroy(w.Projectiles[i].ID)
	w.Projectiles = append(w.Projectiles[:i], w.Projectiles[i+1:]...)
}

// ClearProjectiles removes every projectile.
func (w *World) ClearProjectiles() {
	for _, p := range w.Projectiles {
		w.Entities.Destroy(p.ID)
	}
	w.Projectiles = w.Projectiles[:0]
}

// HitTarget is anything a projectile can strike.
type HitTarget struct {
	ID     ecs.EntityID
	Pos    geom.Vec2
	Radius float64
	Alive  bool
}

// ResolveHit tests p against t. On a new hit it records t in p's hit set and,
// unless p pierces, kills p. It never reports the same pair twice.
func (p *Projectile) ResolveHit(t HitTarget) bool {
	if !p.Alive || !t.Alive || p.HasHit(t.ID) {
		return false
	}
	if !geom.CirclesOverlap(p.Pos, ProjectileRadius, t.Pos, t.Radius) {
		return false
	}
	p.markHit(t.ID)
	if !p.Piercing {
		p.Alive = false
	}
	return true
}

// UpdateProjectiles steers, moves, bounces and culls projectiles.
func (w *World) UpdateProjectiles(dt float64) {
	const margin = ProjectileRadius * 2
	for i := len(w.Projectiles) - 1; i >= 0; i-- {
		p := w.Projectiles[i]
		if !p.Alive {
			w.removeProjectileAt(i)
			continue
		}

		if p.Homing && p.Owner == OwnerPlayer {
			w.steer(p)
		}

		p.Pos = p.Pos.Add(p.Vel.Scale(dt))

		if !p.Piercing && ProjectileBlocked(p.Pos, w.Obstacles) {
			p.Alive = false
			w.removeProjectileAt(i)
			continue
		}

		if p.Bounces > 0 && p.bounce() {
			p.Bounces--
			continue
		}

		if p.Pos.X < -margin || p.Pos.X > ArenaWidth+margin ||
			p.Pos.Y < -margin || p.Pos.Y > ArenaHeight+margin {
			p.Alive = false
			w.removeProjectileAt(i)
		}
	}
}

// bounce reflects p off any arena wall it crossed.
func (p *Projectile) bounce() bool {
	bounced := false
	switch {
	case p.Pos.X < 0:
		p.Pos.X, p.Vel.X = 0, abs(p.Vel.X)
		bounced = true
	case p.Pos.X > ArenaWidth:
		p.Pos.X, p.Vel.X = ArenaWidth, -abs(p.Vel.X)
		bounced = true
	}
	switch {
	case p.Pos.Y < 0:
		p.Pos.Y, p.Vel.Y = 0, abs(p.Vel.Y)
		bounced = true
	case p.Pos.Y > ArenaHeight:
		p.Pos.Y, p.Vel.Y = ArenaHeight, -abs(p.Vel.Y)
		bounced = true
	}
	return bounced
}

// steer bends p toward the nearest eligible enemy in range, keeping its speed.
func (w *World) steer(p *Projectile) {
	var target *Enemy
	best := HomingRange
	for _, e := range w.Enemies {
		if !e.Targetable() || p.HasHit(e.ID) {
			continue
		}
		if d := p.Pos.Dist(e.Pos); d < best {
			best, target = d, e
		}
	}
	if target == nil {
		return
	}
	dir, dist := target.Pos.Sub(p.Pos).Normalize()
	if dist <= 0 {
		return
	}
	speed := p.Vel.Len()
	v, n := p.Vel.Add(dir.Scale(HomingStrength)).Normalize()
	if n > 0 {
		p.Vel = v.Scale(speed)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
