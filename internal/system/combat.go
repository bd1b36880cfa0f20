package system

import (
	"sort"

	"github.com/l1jgo/roguesim/internal/core/ecs"
	"github.com/l1jgo/roguesim/internal/core/event"
	coresys "github.com/l1jgo/roguesim/internal/core/system"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
	"github.com/l1jgo/roguesim/internal/world"
)

// ProjectileSystem moves every projectile and culls the ones that left the
// arena or struck rock.
type ProjectileSystem struct{}

func (ProjectileSystem) Phase() coresys.Phase { return coresys.PhaseProjectiles }

func (ProjectileSystem) Update(t *Tick, dt float64) {
	if !t.combat() {
		return
	}
	t.World.UpdateProjectiles(dt)
}

// HitSystem resolves projectile contacts: player shots against enemies, then
// enemy shots against the player. Shots spawned here (ricochets) are first
// checked on the next step.
type HitSystem struct{}

func (HitSystem) Phase() coresys.Phase { return coresys.PhaseHits }

func (HitSystem) Update(t *Tick, _ float64) {
	if !t.combat() {
		return
	}
	w := t.World
	n := len(w.Projectiles)
	for i := 0; i < n; i++ {
		if p := w.Projectiles[i]; p.Owner == world.OwnerPlayer {
			playerShot(w, p)
		}
	}

	pt := world.HitTarget{ID: w.Player.ID, Pos: w.Player.Pos, Radius: w.Player.Radius(), Alive: w.Player.Alive}
	for i := 0; i < n; i++ {
		p := w.Projectiles[i]
		if p.Owner != world.OwnerEnemy {
			continue
		}
		// The shot is spent even when invincibility frames swallow it.
		if p.ResolveHit(pt) {
			w.DamagePlayer(p.Damage, world.HitProjectile)
			pt.Alive = w.Player.Alive
		}
	}
}

// playerShot tests one player projectile against every enemy in list order.
func playerShot(w *world.World, p *world.Projectile) {
	for _, e := range w.Enemies {
		if !p.Alive {
			return
		}
		hit := p.ResolveHit(world.HitTarget{ID: e.ID, Pos: e.Pos, Radius: e.Radius(), Alive: e.Alive})
		if !hit || e.Spawning() || e.Invulnerable() {
			continue
		}
		damageEnemy(w, p, e)
	}
}

func damageEnemy(w *world.World, p *world.Projectile, e *world.Enemy) {
	pl := &w.Player
	dmg := p.Damage
	crit := w.Rand.Chance(pl.CritChance)
	if crit {
		dmg = geom.Round(dmg * pl.CritMultiplier)
	}
	e.Hurt(dmg)
	w.AddDamageNumber(e.Pos, dmg, crit)
	w.HitSpark(p.Pos, false)
	w.AddShake(2, 0.1)
	w.PlayAudio(world.AudioHit)

	for _, fx := range p.Effects {
		e.ApplyStatus(fx)
	}
	if lvl := pl.SkillLevel(data.Ricochet); lvl > 0 {
		ricochet(w, p, e, lvl)
	}
}

// ricochet splits the shot from the struck enemy toward its n nearest
// neighbours that the original shot has not hit yet.
func ricochet(w *world.World, src *world.Projectile, from *world.Enemy, n int) {
	type candidate struct {
		e    *world.Enemy
		dist float64
	}
	var cands []candidate
	for _, e := range w.Enemies {
		if e == from || !e.Alive || src.HasHit(e.ID) {
			continue
		}
		if d := e.Pos.Dist(from.Pos); d < world.RicochetRange {
			cands = append(cands, candidate{e, d})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	if len(cands) > n {
		cands = cands[:n]
	}

	dmg := geom.Round(w.Player.AttackDamage * world.RicochetFactor)
	for _, c := range cands {
		p := w.Fire(from.Pos, c.e.Pos, dmg, world.OwnerPlayer, world.ProjectileSpeed)
		p.Hit = append([]ecs.EntityID(nil), src.Hit...)
		if !p.HasHit(from.ID) {
			p.Hit = append(p.Hit, from.ID)
		}
		p.Effects = append([]data.Effect(nil), src.Effects...)
	}
}

// MeleeSystem applies contact damage from chasers. The player takes at most
// one contact hit per step.
type MeleeSystem struct{}

func (MeleeSystem) Phase() coresys.Phase { return coresys.PhaseMelee }

func (MeleeSystem) Update(t *Tick, _ float64) {
	if !t.combat() {
		return
	}
	w := t.World
	p := &w.Player
	if !p.Alive || p.IFrames > 0 {
		return
	}
	for _, e := range w.Enemies {
		if !e.Alive || e.Behavior != data.Chase || e.Spawning() {
			continue
		}
		contact := (world.PlayerSize + max(e.Size.W, e.Size.H)) / 2
		if p.Pos.Dist(e.Pos) <= contact {
			w.DamagePlayer(e.Damage, world.HitMelee)
			return
		}
	}
}

// DeathSystem books kills once per enemy (drops, particles, shake, event) and
// plays out death animations.
type DeathSystem struct{}

func (DeathSystem) Phase() coresys.Phase { return coresys.PhaseDeaths }

func (DeathSystem) Update(t *Tick, dt float64) {
	w := t.World
	for _, e := range w.Enemies {
		if e.Alive || e.DeathTimer != 0 {
			continue
		}
		e.DeathTimer = world.EnemyDeathTime
		w.Kills++
		w.DropLoot(e)
		w.DeathBurst(e)
		if e.IsBoss() {
			w.AddShake(25, 1.0)
		} else {
			w.AddShake(3, 0.15)
		}
		w.PlayAudio(world.AudioEnemyDeath)
		event.Emit(w.Events, event.EnemyKilled{ID: e.ID, Type: e.Type, Boss: e.IsBoss()})
	}
	w.AgeDeadEnemies(dt)
}

// StatusSystem ticks poison, freeze and burn on live enemies.
type StatusSystem struct{}

func (StatusSystem) Phase() coresys.Phase { return coresys.PhaseStatus }

func (StatusSystem) Update(t *Tick, dt float64) {
	w := t.World
	for _, e := range w.Enemies {
		if !e.Alive {
			continue
		}
		wasFrozen, frozen := e.HasStatus(data.Freeze), false
		for i := len(e.Status) - 1; i >= 0; i-- {
			s := &e.Status[i]
			s.Duration -= dt
			s.TickTimer -= dt
			if s.TickTimer <= 0 {
				s.TickTimer = world.StatusTickInterval
				switch s.Kind {
				case data.Poison:
					e.Hurt(world.PoisonTickDamage)
					w.AddDamageNumber(e.Pos, world.PoisonTickDamage, false)
				case data.Burn:
					e.Hurt(world.BurnTickDamage)
					w.AddDamageNumber(e.Pos, world.BurnTickDamage, false)
					burnSplash(w, e)
				}
			}
			if s.Duration <= 0 {
				e.Status = append(e.Status[:i], e.Status[i+1:]...)
			} else if s.Kind == data.Freeze {
				frozen = true
			}
		}
		// Only a thaw restores speed; boss phase boosts are left alone.
		if wasFrozen && !frozen {
			e.Speed = e.BaseSpeed
		}
	}
}

func burnSplash(w *world.World, src *world.Enemy) {
	const r = world.BurnSplashRadius
	for _, o := range w.Enemies {
		if o == src || !o.Alive {
			continue
		}
		if o.Pos.DistSq(src.Pos) < r*r {
			o.Hurt(world.BurnSplashDamage)
			w.AddDamageNumber(o.Pos, world.BurnSplashDamage, false)
		}
	}
}
