package system

import (
	"math"

	"github.com/l1jgo/roguesim/internal/core/event"
	coresys "github.com/l1jgo/roguesim/internal/core/system"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
	"github.com/l1jgo/roguesim/internal/world"
)

// Golem pattern.
const (
	golemSlamCooldown   = 3.5
	golemThrowCooldown  = 2.0
	golemChargeCooldown = 5.0
	golemChargeSpeed    = 300.0
	golemChargeArrive   = 10.0
	golemHoldDistance   = 80.0
	golemSlamRadius     = 90.0
)

// Dragon pattern.
const (
	dragonBreathCooldown   = 3.0
	dragonFireballCooldown = 1.5
	dragonFlyoverDuration  = 3.0
	dragonMinionCooldown   = 6.0
	dragonStandoff         = 200.0
	dragonStandoffBand     = 30.0
	dragonRainEvery        = 18 // frames
)

// Wizard pattern.
const (
	wizardMissileCooldown  = 0.25
	wizardMissileBurst     = 8
	wizardTeleportCooldown = 4.0
	wizardZoneCooldown     = 5.0
	wizardTeleportTries    = 8
	wizardTeleportInset    = 80.0
	wizardZoneRadius       = 50.0
	wizardZoneDelay        = 1.5
)

// BossAISystem runs the boss state machines and resolves wizard ground zones
// whose telegraph has run out.
type BossAISystem struct{}

func (BossAISystem) Phase() coresys.Phase { return coresys.PhaseBossAI }

func (BossAISystem) Update(t *Tick, dt float64) {
	if !t.combat() {
		return
	}
	w := t.World
	for _, e := range w.Enemies {
		if !e.IsBoss() || !e.Alive {
			continue
		}
		if e.Spawning() {
			e.SpawnTimer -= dt
			continue
		}
		updateBossPhase(w, e)
		switch e.Type {
		case data.BossGolem:
			updateGolem(w, e, dt)
		case data.BossDragon:
			updateDragon(w, e, dt)
		case data.BossWizard:
			updateWizard(w, e, dt)
		}
	}
	resolveZones(w, dt)
}

// updateBossPhase moves a boss into a later phase as its HP ratio crosses the
// thresholds. The phase never goes back down.
func updateBossPhase(w *world.World, e *world.Enemy) {
	b := e.Boss
	ratio := e.HP / e.MaxHP
	phase := 1
	switch {
	case ratio <= b.Phase3Threshold:
		phase = 3
	case ratio <= b.Phase2Threshold:
		phase = 2
	}
	if phase <= b.Phase {
		return
	}
	b.Phase = phase
	b.PatternTimer = world.BossPhaseGrace
	event.Emit(w.Events, event.BossPhaseChanged{ID: e.ID, Type: e.Type, Phase: phase})
}

func clampBoss(e *world.Enemy) {
	inset := e.Radius() + world.BossArenaInset
	e.Pos = e.Pos.Clamp(geom.V(inset, inset), geom.V(world.ArenaWidth-inset, world.ArenaHeight-inset))
}

// tickPattern counts the pattern timer down and reports whether an attack is due.
func tickPattern(e *world.Enemy, dt float64) bool {
	e.Boss.PatternTimer -= dt
	return e.Boss.PatternTimer <= 0
}

func updateGolem(w *world.World, e *world.Enemy, dt float64) {
	b := e.Boss
	if b.Dashing {
		dir, dist := b.DashTarget.Sub(e.Pos).Normalize()
		if dist < golemChargeArrive {
			b.Dashing = false
			e.Speed = e.BaseSpeed
		} else {
			e.Pos = e.Pos.Add(dir.Scale(golemChargeSpeed * dt))
		}
		return
	}

	dir, dist := w.Player.Pos.Sub(e.Pos).Normalize()
	if dist > golemHoldDistance {
		e.Pos = e.Pos.Add(dir.Scale(e.Speed * dt))
	}
	clampBoss(e)

	if !tickPattern(e, dt) {
		return
	}
	roll := w.Rand.Float()
	if b.Phase == 1 {
		switch {
		case roll < 0.4:
			golemSlam(w, e, false)
			b.PatternTimer = golemSlamCooldown
		case roll < 0.7:
			golemThrow(w, e)
			b.PatternTimer = golemThrowCooldown
		default:
			golemCharge(w, e)
			b.PatternTimer = golemChargeCooldown
		}
		return
	}

	mult := 1.2
	if b.Phase == 3 {
		mult = 1.4
	}
	e.Speed = e.BaseSpeed * mult
	switch {
	case roll < 0.35:
		golemSlam(w, e, true)
		b.PatternTimer = golemSlamCooldown * 0.8
	case roll < 0.65:
		golemThrow(w, e)
		b.PatternTimer = golemThrowCooldown * 0.7
	default:
		golemCharge(w, e)
		b.PatternTimer = golemChargeCooldown * 0.7
	}
}

func golemSlam(w *world.World, e *world.Enemy, shockwave bool) {
	w.AddEffect(world.EffectCircle, e.Pos, golemSlamRadius, 0.5)
	if w.Player.Pos.DistSq(e.Pos) < golemSlamRadius*golemSlamRadius {
		w.DamagePlayer(e.Damage, world.HitBoss)
	}
	if shockwave {
		for i := 0; i < 8; i++ {
			a := float64(i) / 8 * 2 * math.Pi
			w.FireAngle(e.Pos, a, e.Damage*0.6, world.OwnerEnemy, 160)
		}
	}
	w.PlayAudio(world.AudioBossAttack)
}

func golemThrow(w *world.World, e *world.Enemy) {
	w.Fire(e.Pos, w.Player.Pos, e.Damage*1.2, world.OwnerEnemy, 130)
	w.PlayAudio(world.AudioBossAttack)
}

func golemCharge(w *world.World, e *world.Enemy) {
	e.Boss.Dashing = true
	e.Boss.DashTarget = w.Player.Pos
	w.PlayAudio(world.AudioBossAttack)
}

func updateDragon(w *world.World, e *world.Enemy, dt float64) {
	b := e.Boss
	if b.Invulnerable {
		if tickPattern(e, dt) {
			b.Invulnerable = false
			b.PatternTimer = dragonFireballCooldown
		}
		if w.Frame%dragonRainEvery == 0 {
			x := w.Rand.Float() * world.ArenaWidth
			y := w.Rand.Float() * world.ArenaHeight
			w.Fire(geom.V(x, -50), geom.V(x, y+100), e.Damage*0.7, world.OwnerEnemy, 200)
		}
		return
	}

	dir, dist := w.Player.Pos.Sub(e.Pos).Normalize()
	switch {
	case dist <= 0:
	case dist < dragonStandoff-dragonStandoffBand:
		e.Pos = e.Pos.Sub(dir.Scale(e.Speed * dt))
	case dist > dragonStandoff+dragonStandoffBand:
		e.Pos = e.Pos.Add(dir.Scale(e.Speed * 0.5 * dt))
	}
	clampBoss(e)

	if !tickPattern(e, dt) {
		return
	}
	breathCd, fireballCd := dragonBreathCooldown, dragonFireballCooldown
	if b.Phase >= 2 {
		breathCd *= 0.8
		fireballCd *= 0.7
	}
	roll := w.Rand.Float()
	switch {
	case roll < 0.4:
		dragonBreath(w, e)
		b.PatternTimer = breathCd
	case b.Phase >= 2 && roll < 0.55:
		b.Invulnerable = true
		b.PatternTimer = dragonFlyoverDuration
		w.PlayAudio(world.AudioBossAttack)
	case b.Phase >= 2 && roll < 0.7:
		pos := geom.V(e.Pos.X+w.Rand.Centered(100), e.Pos.Y+w.Rand.Centered(100))
		w.SpawnEnemy(data.MeleeBasic, pos, nil)
		b.PatternTimer = dragonMinionCooldown
	default:
		dragonFireball(w, e)
		b.PatternTimer = fireballCd
	}
}

// dragonBreath fans burning shots across the player's direction: 5 over
// +-pi/8, or 7 over +-pi/6 from phase 2 on.
func dragonBreath(w *world.World, e *world.Enemy) {
	d := w.Player.Pos.Sub(e.Pos)
	if d.IsZero() {
		return
	}
	n, spread := 5, math.Pi/8
	if e.Boss.Phase >= 2 {
		n, spread = 7, math.Pi/6
	}
	half := n / 2
	base := d.Angle()
	for i := 0; i < n; i++ {
		a := base + float64(i-half)*spread/float64(half)
		p := w.FireAngle(e.Pos, a, e.Damage*0.8, world.OwnerEnemy, 280)
		p.Effects = []data.Effect{data.Burn}
	}
	w.PlayAudio(world.AudioBossAttack)
}

func dragonFireball(w *world.World, e *world.Enemy) {
	p := w.Fire(e.Pos, w.Player.Pos, e.Damage, world.OwnerEnemy, 220)
	p.Effects = []data.Effect{data.Burn}
	w.PlayAudio(world.AudioBossAttack)
}

func updateWizard(w *world.World, e *world.Enemy, dt float64) {
	b := e.Boss
	if !tickPattern(e, dt) {
		return
	}

	teleportCd := wizardTeleportCooldown
	missileCd := wizardMissileCooldown
	burst := wizardMissileBurst
	switch {
	case b.Phase >= 3:
		missileCd *= 0.6
	case b.Phase >= 2:
		missileCd *= 0.75
	}
	if b.Phase >= 2 {
		teleportCd *= 0.6
		burst += 4
	}

	roll := w.Rand.Float()
	switch {
	case roll < 0.35:
		wizardMissiles(w, e, burst)
		b.PatternTimer = missileCd*float64(burst) + 1
	case roll < 0.6:
		wizardTeleport(w, e)
		b.PatternTimer = teleportCd
	default:
		wizardZones(w, e)
		b.PatternTimer = wizardZoneCooldown
	}
}

func wizardMissiles(w *world.World, e *world.Enemy, n int) {
	for i := 0; i < n; i++ {
		spread := w.Rand.Centered(0.4)
		d := w.Player.Pos.Sub(e.Pos)
		d.X += w.Rand.Centered(40)
		d.Y += w.Rand.Centered(40)
		a := d.Angle() + spread
		origin := geom.V(e.Pos.X+w.Rand.Centered(20), e.Pos.Y+w.Rand.Centered(20))
		p := w.FireAngle(origin, a, e.Damage*0.5, world.OwnerEnemy, 280)
		p.Homing = true
	}
	w.PlayAudio(world.AudioBossAttack)
}

// wizardTeleport jumps to the sampled point farthest from the player.
func wizardTeleport(w *world.World, e *world.Enemy) {
	const in = wizardTeleportInset
	best := geom.V(world.ArenaWidth/2, world.ArenaHeight/2)
	bestSq := 0.0
	for i := 0; i < wizardTeleportTries; i++ {
		pos := geom.V(w.Rand.Range(in, world.ArenaWidth-in), w.Rand.Range(in, world.ArenaHeight-in))
		if d := pos.DistSq(w.Player.Pos); d > bestSq {
			best, bestSq = pos, d
		}
	}
	e.Pos = best
	w.AddEffect(world.EffectCircle, best, 40, 0.4)
	w.PlayAudio(world.AudioBossAttack)
}

func wizardZones(w *world.World, e *world.Enemy) {
	n := 3
	if e.Boss.Phase >= 2 {
		n = 5
	}
	for i := 0; i < n; i++ {
		pos := geom.V(w.Player.Pos.X+w.Rand.Centered(200), w.Player.Pos.Y+w.Rand.Centered(200))
		w.AddEffect(world.EffectMeteor, pos, wizardZoneRadius, wizardZoneDelay)
		w.Zones = append(w.Zones, world.GroundZone{
			Pos:    pos,
			Radius: wizardZoneRadius,
			Timer:  wizardZoneDelay,
			Damage: e.Damage,
		})
	}
	w.PlayAudio(world.AudioBossAttack)
}

// resolveZones detonates telegraphed zones whose timer ran out, hurting the
// player when they stand inside.
func resolveZones(w *world.World, dt float64) {
	n := 0
	for _, z := range w.Zones {
		z.Timer -= dt
		if z.Timer > 0 {
			w.Zones[n] = z
			n++
			continue
		}
		if w.Player.Pos.DistSq(z.Pos) < z.Radius*z.Radius {
			w.DamagePlayer(z.Damage, world.HitBoss)
		}
	}
	w.Zones = w.Zones[:n]
}
