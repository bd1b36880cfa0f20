package system

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coresys "github.com/l1jgo/roguesim/internal/core/system"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
	"github.com/l1jgo/roguesim/internal/world"
)

func TestDragonBreathFan(t *testing.T) {
	tests := []struct {
		phase  int
		shots  int
		spread float64
	}{
		{1, 5, math.Pi / 8},
		{2, 7, math.Pi / 6},
		{3, 7, math.Pi / 6},
	}
	for _, tt := range tests {
		w := newWorld(t)
		d := spawn(w, data.BossDragon, geom.V(400, 200))
		d.Boss.Phase = tt.phase
		base := w.Player.Pos.Sub(d.Pos).Angle()

		dragonBreath(w, d)
		require.Len(t, w.Projectiles, tt.shots)
		for i, p := range w.Projectiles {
			half := tt.shots / 2
			want := base + float64(i-half)*tt.spread/float64(half)
			assert.InDelta(t, want, p.Vel.Angle(), 1e-9)
			assert.InDelta(t, 280, p.Vel.Len(), 1e-9)
			assert.Equal(t, world.OwnerEnemy, p.Owner)
			assert.Equal(t, []data.Effect{data.Burn}, p.Effects)
			assert.InDelta(t, d.Damage*0.8, p.Damage, 1e-9)
		}
		assert.InDelta(t, base, w.Projectiles[tt.shots/2].Vel.Angle(), 1e-9)
	}
}

func TestDragonBreathNeedsADirection(t *testing.T) {
	w := newWorld(t)
	d := spawn(w, data.BossDragon, w.Player.Pos)
	dragonBreath(w, d)
	assert.Empty(t, w.Projectiles)
}

func TestFlyingDragonTakesNoDamage(t *testing.T) {
	w := newWorld(t)
	d := spawn(w, data.BossDragon, geom.V(400, 300))
	d.Boss.Invulnerable = true

	shot := w.Fire(d.Pos, d.Pos.Add(geom.V(0, -1)), 10, world.OwnerPlayer, world.ProjectileSpeed)
	runPhase(w, coresys.PhaseHits, 1)
	assert.Equal(t, d.MaxHP, d.HP)
	assert.False(t, shot.Alive, "the shot is still spent")

	d.Boss.Invulnerable = false
	w.Fire(d.Pos, d.Pos.Add(geom.V(0, -1)), 10, world.OwnerPlayer, world.ProjectileSpeed)
	runPhase(w, coresys.PhaseHits, 1)
	assert.Equal(t, d.MaxHP-10, d.HP)
}

func TestDragonFlyoverRainsThenLands(t *testing.T) {
	w := newWorld(t)
	d := spawn(w, data.BossDragon, geom.V(400, 300))
	d.Boss.Invulnerable = true
	d.Boss.PatternTimer = 1

	w.Frame = 1
	updateDragon(w, d, world.FixedTimestep)
	assert.Empty(t, w.Projectiles)
	assert.True(t, d.Invulnerable())

	w.Frame = dragonRainEvery
	updateDragon(w, d, world.FixedTimestep)
	require.Len(t, w.Projectiles, 1)
	rain := w.Projectiles[0]
	assert.Equal(t, -50.0, rain.Pos.Y)
	assert.Positive(t, rain.Vel.Y)
	assert.Equal(t, world.OwnerEnemy, rain.Owner)

	d.Boss.PatternTimer = world.FixedTimestep / 2
	w.Frame = 1
	updateDragon(w, d, world.FixedTimestep)
	assert.False(t, d.Invulnerable())
	assert.Equal(t, dragonFireballCooldown, d.Boss.PatternTimer)
	assert.Equal(t, geom.V(400, 300), d.Pos, "no movement while landing")
}

func TestWizardTeleportsToFarthestSample(t *testing.T) {
	players := []geom.Vec2{
		geom.V(400, 600),
		geom.V(100, 100),
		geom.V(700, 1100),
	}
	for i, pp := range players {
		w := newWorld(t)
		w.Player.Pos = pp
		wiz := spawn(w, data.BossWizard, geom.V(400, 200))
		seed := int64(40 + i)
		w.Rand = world.NewRNG(seed)

		// Replay the same draws to recover the candidate points.
		ref := world.NewRNG(seed)
		const in = wizardTeleportInset
		var samples []geom.Vec2
		for j := 0; j < wizardTeleportTries; j++ {
			samples = append(samples, geom.V(ref.Range(in, world.ArenaWidth-in), ref.Range(in, world.ArenaHeight-in)))
		}

		wizardTeleport(w, wiz)
		assert.Contains(t, samples, wiz.Pos)
		for _, s := range samples {
			assert.GreaterOrEqual(t, wiz.Pos.DistSq(pp), s.DistSq(pp))
		}
		assert.GreaterOrEqual(t, wiz.Pos.X, in)
		assert.Less(t, wiz.Pos.X, world.ArenaWidth-in)
		assert.GreaterOrEqual(t, wiz.Pos.Y, in)
		assert.Less(t, wiz.Pos.Y, world.ArenaHeight-in)
		assert.Equal(t, ref.Calls, w.Rand.Calls)

		fx := lastEffect(t, w)
		assert.Equal(t, wiz.Pos, fx.Pos)
	}
}

func TestGolemSlam(t *testing.T) {
	tests := []struct {
		name      string
		shockwave bool
		offset    geom.Vec2
		wantHP    float64
		wantShots int
	}{
		{"near, no shockwave", false, geom.V(50, 0), 82, 0},
		{"far, no shockwave", false, geom.V(0, 200), 100, 0},
		{"near, shockwave", true, geom.V(0, 60), 82, 8},
		{"far, shockwave", true, geom.V(150, 0), 100, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t)
			g := spawn(w, data.BossGolem, w.Player.Pos.Add(tt.offset))
			golemSlam(w, g, tt.shockwave)

			assert.Equal(t, tt.wantHP, w.Player.HP)
			require.Len(t, w.Projectiles, tt.wantShots)
			for i, p := range w.Projectiles {
				want := geom.FromAngle(float64(i)/8*2*math.Pi, 160)
				assert.InDelta(t, want.X, p.Vel.X, 1e-9)
				assert.InDelta(t, want.Y, p.Vel.Y, 1e-9)
				assert.InDelta(t, g.Damage*0.6, p.Damage, 1e-9)
				assert.Equal(t, world.OwnerEnemy, p.Owner)
				assert.Equal(t, g.Pos, p.Pos)
			}
			fx := lastEffect(t, w)
			assert.Equal(t, golemSlamRadius, fx.Radius)
		})
	}
}

func TestGolemEnragesInLaterPhases(t *testing.T) {
	tests := []struct {
		phase int
		mult  float64
	}{
		{1, 1},
		{2, 1.2},
		{3, 1.4},
	}
	for _, tt := range tests {
		w := newWorld(t)
		g := spawn(w, data.BossGolem, geom.V(400, 300))
		g.Boss.Phase = tt.phase
		g.Boss.PatternTimer = 0

		updateGolem(w, g, world.FixedTimestep)
		assert.InDelta(t, g.BaseSpeed*tt.mult, g.Speed, 1e-9)
		assert.Positive(t, g.Boss.PatternTimer)
	}
}
