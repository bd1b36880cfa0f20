package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coresys "github.com/l1jgo/roguesim/internal/core/system"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
	"github.com/l1jgo/roguesim/internal/world"
)

func acquire(w *world.World, id data.SkillID, level int) {
	for i := 0; i < level; i++ {
		w.Acquire(id)
	}
}

func lastEffect(t *testing.T, w *world.World) world.AbilityEffect {
	t.Helper()
	require.NotEmpty(t, w.Effects)
	return w.Effects[len(w.Effects)-1]
}

func TestAreaAbilitiesHitInsideRadius(t *testing.T) {
	tests := []struct {
		name     string
		skill    data.SkillID
		ability  int
		cooldown float64
		radius   float64
		level    int
		kind     world.EffectKind
		wantHP   float64
	}{
		{"circle lvl1", data.CircleDamage, world.AbilityCircleDamage, world.CircleDamageCooldown, world.CircleDamageRadius, 1, world.EffectCircle, 22},
		{"circle lvl2", data.CircleDamage, world.AbilityCircleDamage, world.CircleDamageCooldown, world.CircleDamageRadius, 2, world.EffectCircle, 14},
		{"sword lvl1", data.SwordSpin, world.AbilitySwordSpin, world.SwordSpinCooldown, world.SwordSpinRadius, 1, world.EffectSwordSpin, 18},
		{"sword lvl2", data.SwordSpin, world.AbilitySwordSpin, world.SwordSpinCooldown, world.SwordSpinRadius, 2, world.EffectSwordSpin, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t)
			p := &w.Player
			acquire(w, tt.skill, tt.level)
			assert.Equal(t, tt.cooldown, p.AbilityCooldowns[tt.ability])

			near := spawn(w, data.MeleeBasic, p.Pos.Add(geom.V(tt.radius-10, 0)))
			far := spawn(w, data.MeleeBasic, p.Pos.Add(geom.V(0, tt.radius+10)))
			edge := spawn(w, data.MeleeBasic, p.Pos.Add(geom.V(-tt.radius, 0)))

			// Not due yet.
			runPhase(w, coresys.PhaseAbilities, 1)
			assert.Equal(t, 30.0, near.HP)

			p.AbilityCooldowns[tt.ability] = world.FixedTimestep / 2
			runPhase(w, coresys.PhaseAbilities, 1)
			assert.Equal(t, tt.wantHP, near.HP)
			assert.Equal(t, 30.0, far.HP)
			assert.Equal(t, 30.0, edge.HP, "radius is exclusive")
			assert.Equal(t, tt.cooldown, p.AbilityCooldowns[tt.ability])

			fx := lastEffect(t, w)
			assert.Equal(t, tt.kind, fx.Kind)
			assert.Equal(t, p.Pos, fx.Pos)
			assert.Equal(t, tt.radius, fx.Radius)
		})
	}
}

func TestAreaAbilitySkipsSpawningEnemies(t *testing.T) {
	w := newWorld(t)
	acquire(w, data.CircleDamage, 1)
	e := spawn(w, data.MeleeBasic, w.Player.Pos.Add(geom.V(20, 0)))
	e.SpawnTimer = 0.4

	w.Player.AbilityCooldowns[world.AbilityCircleDamage] = 0
	runPhase(w, coresys.PhaseAbilities, 1)
	assert.Equal(t, 30.0, e.HP)
}

func TestMeteorStrikesAnEnemy(t *testing.T) {
	w := newWorld(t)
	acquire(w, data.Meteor, 1)
	target := spawn(w, data.MeleeBasic, geom.V(120, 150))
	beside := spawn(w, data.MeleeBasic, geom.V(150, 150))
	clear := spawn(w, data.MeleeBasic, geom.V(200, 150))
	// Only the first two are candidates.
	clear.SpawnTimer = 1
	beside.SpawnTimer = 1

	w.Player.AbilityCooldowns[world.AbilityMeteor] = 0
	runPhase(w, coresys.PhaseAbilities, 1)

	assert.Equal(t, 10.0, target.HP)
	assert.Equal(t, 30.0, beside.HP)
	assert.Equal(t, 30.0, clear.HP)
	fx := lastEffect(t, w)
	assert.Equal(t, world.EffectMeteor, fx.Kind)
	assert.Equal(t, target.Pos, fx.Pos)
	assert.Equal(t, world.MeteorCooldown, w.Player.AbilityCooldowns[world.AbilityMeteor])
}

func TestMeteorSplashHitsNeighbours(t *testing.T) {
	w := newWorld(t)
	acquire(w, data.Meteor, 1)
	a := spawn(w, data.MeleeBasic, geom.V(120, 150))
	b := spawn(w, data.MeleeBasic, geom.V(140, 150))

	w.Player.AbilityCooldowns[world.AbilityMeteor] = 0
	runPhase(w, coresys.PhaseAbilities, 1)
	assert.Equal(t, 10.0, a.HP)
	assert.Equal(t, 10.0, b.HP)
}

func TestMeteorWithoutEnemiesLandsInArena(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		w := newWorld(t)
		w.Rand = world.NewRNG(seed)
		acquire(w, data.Meteor, 1)
		w.Player.AbilityCooldowns[world.AbilityMeteor] = 0
		before := w.Rand.Calls

		runPhase(w, coresys.PhaseAbilities, 1)
		fx := lastEffect(t, w)
		assert.Equal(t, world.EffectMeteor, fx.Kind)
		assert.GreaterOrEqual(t, fx.Pos.X, 0.0)
		assert.Less(t, fx.Pos.X, world.ArenaWidth)
		assert.GreaterOrEqual(t, fx.Pos.Y, 0.0)
		assert.Less(t, fx.Pos.Y, world.ArenaHeight)
		assert.Equal(t, before+2, w.Rand.Calls)
	}
}

func TestShieldChargesAndRecharges(t *testing.T) {
	tests := []struct {
		level    int
		cooldown float64
	}{
		{1, 7},
		{2, 6},
		{3, 5},
	}
	for _, tt := range tests {
		w := newWorld(t)
		p := &w.Player
		acquire(w, data.Shield, tt.level)
		require.False(t, p.ShieldActive)

		runPhase(w, coresys.PhaseAbilities, 1)
		assert.True(t, p.ShieldActive)
		assert.Equal(t, tt.cooldown, p.ShieldCooldown)

		w.DamagePlayer(10, world.HitMelee)
		require.False(t, p.ShieldActive)
		assert.Equal(t, 100.0, p.HP)

		p.ShieldCooldown = 0.5
		runPhase(w, coresys.PhaseAbilities, 1)
		assert.False(t, p.ShieldActive)

		p.ShieldCooldown = world.FixedTimestep / 2
		runPhase(w, coresys.PhaseAbilities, 1)
		assert.True(t, p.ShieldActive)
		assert.Equal(t, tt.cooldown, p.ShieldCooldown)
	}
}

func TestRegenHealsPerLevel(t *testing.T) {
	tests := []struct {
		level int
		ticks int
		want  float64
	}{
		{1, 60, 51},
		{2, 30, 51},
		{3, 60, 53},
	}
	for _, tt := range tests {
		w := newWorld(t)
		acquire(w, data.HPRegen, tt.level)
		w.Player.HP = 50

		runPhase(w, coresys.PhaseAbilities, tt.ticks)
		assert.InDelta(t, tt.want, w.Player.HP, 1e-9)
	}
}

func TestRegenStopsAtMaxAndWhenDead(t *testing.T) {
	w := newWorld(t)
	acquire(w, data.HPRegen, 3)
	w.Player.HP = w.Player.MaxHP - 0.001
	runPhase(w, coresys.PhaseAbilities, 10)
	assert.Equal(t, w.Player.MaxHP, w.Player.HP)

	w.Player.HP = 0
	w.Player.Alive = false
	runPhase(w, coresys.PhaseAbilities, 10)
	assert.Equal(t, 0.0, w.Player.HP)
}
