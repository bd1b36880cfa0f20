package world

import (
	"math"

	"github.com/l1jgo/roguesim/internal/geom"
)

// Particle is a short-lived cosmetic dot. It never affects gameplay, but its
// random draws come from the world RNG, so it is part of replayed state.
type Particle struct {
	Pos     geom.Vec2
	Vel     geom.Vec2
	Color   string
	Size    float64
	Life    float64
	MaxLife float64
	Gravity float64
	Decay   float64
}

// Labels shown instead of a number.
const (
	LabelDodge  = "DODGE"
	LabelShield = "SHIELD"
)

// DamageNumber is a floating annotation. Label, when set, replaces the value.
type DamageNumber struct {
	Pos     geom.Vec2
	Value   float64
	Crit    bool
	Label   string
	Life    float64
	MaxLife float64
}

// EffectKind is the visual kind of an ability effect.
type EffectKind uint8

const (
	EffectCircle EffectKind = iota
	EffectMeteor
	EffectSwordSpin
	EffectShieldBreak
)

var effectKindNames = [...]string{"circle", "meteor", "sword_spin", "shield_break"}

func (k EffectKind) String() string {
	if int(k) < len(effectKindNames) {
		return effectKindNames[k]
	}
	return "unknown"
}

// AbilityEffect is a transient area visual.
type AbilityEffect struct {
	Kind   EffectKind
	Pos    geom.Vec2
	Radius float64
	Timer  float64
}

// GroundZone is a telegraphed boss area that damages the player if they stand
// inside it when the timer runs out.
type GroundZone struct {
	Pos    geom.Vec2
	Radius float64
	Timer  float64
	Damage float64
}

func (w *World) AddEffect(kind EffectKind, at geom.Vec2, radius, timer float64) {
	w.Effects = append(w.Effects, AbilityEffect{Kind: kind, Pos: at, Radius: radius, Timer: timer})
}

func (w *World) AddDamageNumber(at geom.Vec2, value float64, crit bool) {
	w.DamageNumbers = append(w.DamageNumbers, DamageNumber{
		Pos:     geom.V(at.X+w.Rand.Centered(10), at.Y-10),
		Value:   value,
		Crit:    crit,
		Life:    DamageNumberLife,
		MaxLife: DamageNumberLife,
	})
}

func (w *World) addLabel(at geom.Vec2, label string) {
	w.AddDamageNumber(at, 0, false)
	w.DamageNumbers[len(w.DamageNumbers)-1].Label = label
}

// burst is the shape of a radial particle spray.
type burst struct {
	count         int
	speed         float64
	speedVariance float64
	life          float64
	lifeVariance  float64
	size          float64
	decay         float64
	gravity       float64
}

var (
	burstHitSpark    = burst{6, 120, 60, 0.25, 0.1, 3, 0.85, 50}
	burstDeath       = burst{16, 150, 80, 0.6, 0.2, 5, 0.88, 60}
	burstCoin        = burst{4, 60, 30, 0.3, 0.1, 2, 0.9, -20}
	burstXP          = burst{4, 50, 25, 0.25, 0.1, 2, 0.9, -20}
	burstPlayerDeath = burst{24, 200, 100, 0.8, 0.3, 7, 0.9, 80}
	burstPlayerEmber = burst{12, 120, 60, 0.6, 0.2, 4, 0.88, 50}
)

func (w *World) spray(at geom.Vec2, color string, b burst) {
	for i := 0; i < b.count; i++ {
		a := float64(i)/float64(b.count)*2*math.Pi + w.Rand.Centered(0.5)
		s := b.speed + w.Rand.Centered(b.speedVariance)
		life := b.life + w.Rand.Centered(b.lifeVariance)
		pos := geom.V(at.X+w.Rand.Centered(4), at.Y+w.Rand.Centered(4))
		w.Particles = append(w.Particles, Particle{
			Pos:     pos,
			Vel:     geom.FromAngle(a, s),
			Color:   color,
			Size:    b.size * (0.7 + w.Rand.Float()*0.6),
			Life:    life,
			MaxLife: life,
			Gravity: b.gravity,
			Decay:   b.decay,
		})
	}
}

func (w *World) HitSpark(at geom.Vec2, onPlayer bool) {
	color := "#ffffff"
	if onPlayer {
		color = "#ff5252"
	}
	w.spray(at, color, burstHitSpark)
}

var deathColors = [...]string{"#e57373", "#ffb74d", "#64b5f6", "#ba68c8", "#a1887f", "#ef5350", "#ce93d8"}

func (w *World) DeathBurst(e *Enemy) {
	color := "#ffffff"
	if int(e.Type) < len(deathColors) {
		color = deathColors[e.Type]
	}
	w.spray(e.Pos, color, burstDeath)
	if e.IsBoss() {
		w.spray(e.Pos, "#ffd700", burstDeath)
		w.spray(e.Pos, "#ffffff", burstDeath)
	}
}

func (w *World) playerDeathExplosion(at geom.Vec2) {
	w.spray(at, "#e94560", burstPlayerDeath)
	w.spray(at, "#ff6b81", burstPlayerEmber)
}

// PickupSparkle sprays the collection sparkle for a drop kind.
func (w *World) PickupSparkle(kind DropKind) {
	switch kind {
	case DropXP:
		w.spray(w.Player.Pos, "#69f0ae", burstXP)
	case DropCoin:
		w.spray(w.Player.Pos, "#ffd740", burstCoin)
	}
}

func (w *World) levelUpSparkles(at geom.Vec2) {
	const n = 20
	for i := 0; i < n; i++ {
		a := float64(i) / n * 2 * math.Pi
		speed := 40 + w.Rand.Float()*60
		life := 0.6 + w.Rand.Float()*0.4
		pos := geom.V(at.X+w.Rand.Centered(20), at.Y+w.Rand.Centered(20))
		color := "#fff176"
		if w.Rand.Chance(0.5) {
			color = "#ffd700"
		}
		vel := geom.FromAngle(a, speed)
		vel.Y -= 60
		w.Particles = append(w.Particles, Particle{
			Pos:     pos,
			Vel:     vel,
			Color:   color,
			Size:    3 + w.Rand.Float()*3,
			Life:    life,
			MaxLife: life,
			Gravity: 30,
			Decay:   0.92,
		})
	}
}

// AgeFX advances damage numbers, ability effects and particles.
func (w *World) AgeFX(dt float64) {
	n := 0
	for _, d := range w.DamageNumbers {
		d.Life -= dt
		d.Pos.Y -= DamageNumberRise * dt
		if d.Life > 0 {
			w.DamageNumbers[n] = d
			n++
		}
	}
	w.DamageNumbers = w.DamageNumbers[:n]

	n = 0
	for _, e := range w.Effects {
		e.Timer -= dt
		if e.Timer > 0 {
			w.Effects[n] = e
			n++
		}
	}
	w.Effects = w.Effects[:n]

	n = 0
	for _, p := range w.Particles {
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.Vel.Y += p.Gravity * dt
		p.Vel = p.Vel.Scale(ParticleDrag)
		p.Size *= p.Decay
		w.Particles[n] = p
		n++
	}
	w.Particles = w.Particles[:n]
}
