package system

import (
	"math"

	coresys "github.com/l1jgo/roguesim/internal/core/system"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
	"github.com/l1jgo/roguesim/internal/world"
)

// PlayerSystem moves the player from the sampled input and runs down the
// player's timers.
type PlayerSystem struct{}

func (PlayerSystem) Phase() coresys.Phase { return coresys.PhasePlayer }

func (PlayerSystem) Update(t *Tick, dt float64) {
	p := &t.World.Player
	in := t.Input

	p.Moving = in.Active && in.Magnitude > 0
	if p.Moving {
		p.Vel = in.Direction.Scale(p.Speed * in.Magnitude)
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.Facing = in.Direction
	} else {
		p.Vel = geom.Vec2{}
	}

	half := world.PlayerSize / 2
	p.Pos = p.Pos.Clamp(geom.V(half, half), geom.V(world.ArenaWidth-half, world.ArenaHeight-half))
	if push, ok := world.ResolveObstacles(p.Pos, half, t.World.Obstacles); ok {
		p.Pos = p.Pos.Add(push)
	}

	p.IFrames = math.Max(0, p.IFrames-dt)
	p.AttackCooldown = math.Max(0, p.AttackCooldown-dt)
}

// AutoAttackSystem fires the player's volley at the nearest targetable enemy
// in range whenever the player stands still and the attack is ready.
type AutoAttackSystem struct{}

func (AutoAttackSystem) Phase() coresys.Phase { return coresys.PhaseAutoAttack }

func (AutoAttackSystem) Update(t *Tick, _ float64) {
	if !t.combat() {
		return
	}
	w := t.World
	p := &w.Player
	if !p.Alive || p.Moving || p.AttackCooldown > 0 {
		return
	}

	target := nearestTarget(w)
	if target == nil {
		return
	}
	dir, dist := target.Pos.Sub(p.Pos).Normalize()
	if dist <= 0 {
		return
	}
	p.Facing = dir
	base := dir.Angle()

	var effects []data.Effect
	if p.HasSkill(data.PoisonShot) {
		effects = append(effects, data.Poison)
	}
	if p.HasSkill(data.FreezeShot) {
		effects = append(effects, data.Freeze)
	}
	if p.HasSkill(data.BurnShot) {
		effects = append(effects, data.Burn)
	}

	angles := []float64{base}
	for i := 1; i <= p.SkillLevel(data.Multishot); i++ {
		spread := math.Pi / 12 * float64(i)
		angles = append(angles, base+spread, base-spread)
	}
	if p.HasSkill(data.DiagonalArrows) {
		angles = append(angles, base+math.Pi/4, base-math.Pi/4)
	}
	if p.HasSkill(data.RearArrow) {
		angles = append(angles, base+math.Pi)
	}

	piercing := p.HasSkill(data.Piercing)
	bounces := p.SkillLevel(data.Bounce)
	homing := p.HasSkill(data.Homing)
	for _, a := range angles {
		proj := w.FireAngle(p.Pos, a, p.AttackDamage, world.OwnerPlayer, world.ProjectileSpeed)
		proj.Effects = append([]data.Effect(nil), effects...)
		proj.Piercing = piercing
		proj.Bounces = bounces
		proj.Homing = homing
	}

	p.AttackCooldown = 1 / p.AttackSpeed
	w.PlayAudio(world.AudioShoot)
}

// nearestTarget returns the closest targetable enemy within attack range.
func nearestTarget(w *world.World) *world.Enemy {
	p := &w.Player
	rangeSq := p.AttackRange * p.AttackRange
	var best *world.Enemy
	bestSq := math.Inf(1)
	for _, e := range w.Enemies {
		if !e.Targetable() {
			continue
		}
		d := p.Pos.DistSq(e.Pos)
		if d < bestSq && d <= rangeSq {
			best, bestSq = e, d
		}
	}
	return best
}

// PickupSystem pulls drops in, collects them, and turns them into XP, coins
// and healing. XP may level the player up, which suspends the run for a
// skill choice from the next step on.
type PickupSystem struct{}

func (PickupSystem) Phase() coresys.Phase { return coresys.PhasePickups }

func (PickupSystem) Update(t *Tick, dt float64) {
	w := t.World
	got := w.UpdateDrops(dt)
	if got.XP > 0 {
		w.PickupSparkle(world.DropXP)
		w.GrantXP(got.XP)
	}
	if got.Coins > 0 {
		w.Player.Coins += got.Coins
		w.PickupSparkle(world.DropCoin)
		w.PlayAudio(world.AudioCoinCollect)
	}
	if got.HP > 0 {
		w.Player.Heal(geom.Round(w.Player.MaxHP * got.HP))
	}
}

// CameraSystem eases the camera toward the player and keeps the viewport
// inside the arena.
type CameraSystem struct{}

func (CameraSystem) Phase() coresys.Phase { return coresys.PhaseCamera }

func (CameraSystem) Update(t *Tick, _ float64) {
	w := t.World
	goal := w.Player.Pos.Sub(geom.V(t.ViewW/2, t.ViewH/2))
	cam := w.Camera.Add(goal.Sub(w.Camera).Scale(world.CameraLerp))
	// A viewport larger than the arena pins the camera at the origin.
	cam.X = math.Max(0, math.Min(world.ArenaWidth-t.ViewW, cam.X))
	cam.Y = math.Max(0, math.Min(world.ArenaHeight-t.ViewH, cam.Y))
	w.Camera = cam
}
