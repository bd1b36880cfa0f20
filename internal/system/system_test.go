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

var testPipeline = NewPipeline()

// newWorld returns a chapter 1 run with the opening wave discarded.
func newWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New(data.Default(), world.Config{Chapter: 1, Seed: 3})
	w.SpawnQueue = nil
	w.Player.CritChance = 0
	w.Player.Base.CritChance = 0
	return w
}

func spawn(w *world.World, typ data.EnemyType, pos geom.Vec2) *world.Enemy {
	e := w.SpawnEnemy(typ, pos, nil)
	e.SpawnTimer = 0
	return e
}

func runPhase(w *world.World, phase coresys.Phase, ticks int) {
	for i := 0; i < ticks; i++ {
		testPipeline.TickPhase(&Tick{World: w, ViewW: 400, ViewH: 700}, phase, world.FixedTimestep)
	}
}

func idle(w *world.World, ticks int) {
	for i := 0; i < ticks; i++ {
		Step(w, world.Input{}, 400, 700)
	}
}

func TestPipelineCoversEveryPhaseInOrder(t *testing.T) {
	phases := testPipeline.Phases()
	require.Len(t, phases, 16)
	for i, p := range phases {
		assert.Equal(t, coresys.Phase(i), p)
	}
}

func TestMeleeContactHit(t *testing.T) {
	w := newWorld(t)
	spawn(w, data.MeleeBasic, w.Player.Pos.Add(geom.V(10, 0)))

	runPhase(w, coresys.PhaseMelee, 1)
	assert.Equal(t, 90.0, w.Player.HP)
	assert.Equal(t, world.InvincibilityTime, w.Player.IFrames)

	// Invincibility frames block the next contact.
	runPhase(w, coresys.PhaseMelee, 1)
	assert.Equal(t, 90.0, w.Player.HP)
}

func TestMeleeOneHitPerStep(t *testing.T) {
	w := newWorld(t)
	spawn(w, data.MeleeBasic, w.Player.Pos.Add(geom.V(10, 0)))
	spawn(w, data.MeleeBasic, w.Player.Pos.Add(geom.V(-10, 0)))
	runPhase(w, coresys.PhaseMelee, 1)
	assert.Equal(t, 90.0, w.Player.HP)
}

func TestMeleeIgnoresSpawningAndKiters(t *testing.T) {
	w := newWorld(t)
	e := spawn(w, data.MeleeBasic, w.Player.Pos.Add(geom.V(10, 0)))
	e.SpawnTimer = 0.2
	spawn(w, data.RangedBasic, w.Player.Pos.Add(geom.V(0, 10)))
	runPhase(w, coresys.PhaseMelee, 1)
	assert.Equal(t, 100.0, w.Player.HP)
}

func TestThreeShotsKillEnemy(t *testing.T) {
	w := newWorld(t)
	e := spawn(w, data.MeleeBasic, geom.V(400, 300))
	require.Equal(t, 30.0, e.HP)

	for i := 0; i < 3; i++ {
		w.Fire(e.Pos, e.Pos.Add(geom.V(0, -1)), 10, world.OwnerPlayer, world.ProjectileSpeed)
		runPhase(w, coresys.PhaseHits, 1)
	}
	assert.False(t, e.Alive)
	assert.Equal(t, 0.0, e.HP)

	w.Fire(e.Pos, e.Pos.Add(geom.V(0, -1)), 10, world.OwnerPlayer, world.ProjectileSpeed)
	runPhase(w, coresys.PhaseHits, 1)
	assert.Equal(t, 0.0, e.HP)
}

func TestPiercingShotHitsEachEnemyOnce(t *testing.T) {
	w := newWorld(t)
	e := spawn(w, data.MeleeBasic, geom.V(400, 300))
	e.HP, e.MaxHP = 1000, 1000
	p := w.Fire(e.Pos, e.Pos.Add(geom.V(0, -1)), 10, world.OwnerPlayer, world.ProjectileSpeed)
	p.Piercing = true
	p.Vel = geom.Vec2{}

	runPhase(w, coresys.PhaseHits, 10)
	assert.Equal(t, 990.0, e.HP)
	assert.True(t, p.Alive)
}

func TestNonPiercingShotIsRemoved(t *testing.T) {
	w := newWorld(t)
	e := spawn(w, data.MeleeBasic, geom.V(400, 300))
	w.Fire(e.Pos, e.Pos.Add(geom.V(0, -1)), 10, world.OwnerPlayer, world.ProjectileSpeed)

	runPhase(w, coresys.PhaseHits, 1)
	require.Len(t, w.Projectiles, 1)
	assert.False(t, w.Projectiles[0].Alive)

	runPhase(w, coresys.PhaseProjectiles, 1)
	assert.Empty(t, w.Projectiles)
}

func TestSpawningEnemyAbsorbsShot(t *testing.T) {
	w := newWorld(t)
	e := spawn(w, data.MeleeBasic, geom.V(400, 300))
	e.SpawnTimer = 0.3
	p := w.Fire(e.Pos, e.Pos.Add(geom.V(0, -1)), 10, world.OwnerPlayer, world.ProjectileSpeed)

	runPhase(w, coresys.PhaseHits, 1)
	assert.Equal(t, 30.0, e.HP)
	assert.False(t, p.Alive)
}

func TestEnemyShotSpentOnInvincibility(t *testing.T) {
	w := newWorld(t)
	w.Player.IFrames = 0.4
	p := w.Fire(w.Player.Pos, w.Player.Pos.Add(geom.V(0, 1)), 8, world.OwnerEnemy, 200)

	runPhase(w, coresys.PhaseHits, 1)
	assert.False(t, p.Alive)
	assert.Equal(t, 100.0, w.Player.HP)
}

func TestRicochetSplitsToNearestEnemy(t *testing.T) {
	w := newWorld(t)
	w.Acquire(data.Ricochet)
	a := spawn(w, data.MeleeBasic, geom.V(400, 300))
	b := spawn(w, data.MeleeBasic, geom.V(460, 300))
	spawn(w, data.MeleeBasic, geom.V(700, 300))
	w.Fire(a.Pos, a.Pos.Add(geom.V(0, -1)), 10, world.OwnerPlayer, world.ProjectileSpeed)

	runPhase(w, coresys.PhaseHits, 1)
	require.Len(t, w.Projectiles, 2)
	r := w.Projectiles[1]
	assert.Equal(t, geom.Round(w.Player.AttackDamage*world.RicochetFactor), r.Damage)
	assert.True(t, r.HasHit(a.ID))
	assert.False(t, r.HasHit(b.ID))
	assert.Greater(t, r.Vel.X, 0.0)
}

func TestDeathBookkeepingRunsOnce(t *testing.T) {
	w := newWorld(t)
	e := spawn(w, data.MeleeBasic, geom.V(400, 300))
	e.Hurt(100)

	runPhase(w, coresys.PhaseDeaths, 1)
	assert.Equal(t, 1, w.Kills)
	assert.NotEmpty(t, w.Drops)
	assert.Contains(t, w.Audio, world.AudioEnemyDeath)
	drops := len(w.Drops)

	runPhase(w, coresys.PhaseDeaths, 1)
	assert.Equal(t, 1, w.Kills)
	assert.Len(t, w.Drops, drops)

	runPhase(w, coresys.PhaseDeaths, 30)
	assert.Empty(t, w.Enemies)
}

func TestFreezeWearsOff(t *testing.T) {
	w := newWorld(t)
	e := spawn(w, data.MeleeBasic, geom.V(400, 300))
	e.ApplyStatus(data.Freeze)
	require.InDelta(t, 24.0, e.Speed, 1e-9)

	runPhase(w, coresys.PhaseStatus, int(world.FreezeDuration*60)+2)
	assert.Empty(t, e.Status)
	assert.Equal(t, e.BaseSpeed, e.Speed)
}

func TestPoisonTicks(t *testing.T) {
	w := newWorld(t)
	e := spawn(w, data.MeleeBasic, geom.V(400, 300))
	e.ApplyStatus(data.Poison)
	runPhase(w, coresys.PhaseStatus, 31)
	assert.Equal(t, 30.0-world.PoisonTickDamage, e.HP)
}

func TestKiterWindsUpBeforeFiring(t *testing.T) {
	w := newWorld(t)
	e := spawn(w, data.RangedBasic, w.Player.Pos.Add(geom.V(0, -160)))
	e.AttackCooldown = 0

	runPhase(w, coresys.PhaseEnemyAI, 1)
	assert.Equal(t, world.AttackWindupTime, e.AttackWindup)
	assert.Empty(t, w.Projectiles)

	runPhase(w, coresys.PhaseEnemyAI, 20)
	require.Len(t, w.Projectiles, 1)
	assert.Equal(t, world.OwnerEnemy, w.Projectiles[0].Owner)
	assert.Greater(t, e.AttackCooldown, 1.5)
}

func TestSpreadKiterFiresFan(t *testing.T) {
	w := newWorld(t)
	e := spawn(w, data.RangedSpread, w.Player.Pos.Add(geom.V(0, -150)))
	e.AttackCooldown = 0
	runPhase(w, coresys.PhaseEnemyAI, 21)
	assert.Len(t, w.Projectiles, 3)
}

func TestBossPhaseNeverDrops(t *testing.T) {
	w := newWorld(t)
	b := spawn(w, data.BossGolem, geom.V(400, 200))
	b.HP = b.MaxHP * 0.2

	runPhase(w, coresys.PhaseBossAI, 1)
	assert.Equal(t, 3, b.Boss.Phase)
	assert.Positive(t, w.Events.Pending())

	b.HP = b.MaxHP
	runPhase(w, coresys.PhaseBossAI, 1)
	assert.Equal(t, 3, b.Boss.Phase)
}

func TestGolemChargeEndsAtTarget(t *testing.T) {
	w := newWorld(t)
	b := spawn(w, data.BossGolem, geom.V(400, 200))
	b.Boss.Dashing = true
	b.Boss.DashTarget = geom.V(400, 260)
	b.Boss.PatternTimer = 100

	for i := 0; i < 60 && b.Boss.Dashing; i++ {
		runPhase(w, coresys.PhaseBossAI, 1)
	}
	assert.False(t, b.Boss.Dashing)
	assert.Less(t, b.Pos.Dist(b.Boss.DashTarget), golemChargeArrive)
	assert.Equal(t, b.BaseSpeed, b.Speed)
}

func TestWizardZoneResolvesAfterTelegraph(t *testing.T) {
	w := newWorld(t)
	w.Zones = append(w.Zones, world.GroundZone{Pos: w.Player.Pos, Radius: 50, Timer: 0.05, Damage: 20})

	runPhase(w, coresys.PhaseBossAI, 2)
	assert.Equal(t, 100.0, w.Player.HP)
	runPhase(w, coresys.PhaseBossAI, 2)
	assert.Equal(t, 80.0, w.Player.HP)
	assert.Empty(t, w.Zones)
}

func TestRoomClearsAfterLastWave(t *testing.T) {
	w := world.New(data.Default(), world.Config{Chapter: 1, Seed: 3})
	idle(w, 40)
	require.Empty(t, w.SpawnQueue)
	require.Len(t, w.Enemies, 3)

	for _, e := range w.Enemies {
		e.Hurt(e.HP)
	}
	for i := 0; i < 60 && !w.RoomCleared; i++ {
		idle(w, 1)
	}
	require.True(t, w.RoomCleared)
	assert.Equal(t, world.RoomClearPause, w.RoomTransitionTimer)
	assert.Contains(t, w.Audio, world.AudioRoomClear)

	idle(w, int(world.RoomClearPause*60)+2)
	require.True(t, w.DoorActive)
	assert.Equal(t, geom.V(world.ArenaWidth/2, world.DoorY), w.Door)

	w.Player.Pos = w.Door
	idle(w, 1)
	assert.Equal(t, 2, w.Room)
	assert.False(t, w.DoorActive)
}

func TestLastRoomClearWinsRun(t *testing.T) {
	w := newWorld(t)
	w.Room = w.TotalRooms
	w.RoomCleared = true
	w.RoomTransitionTimer = 0.01

	idle(w, 1)
	assert.True(t, w.Victory)
	assert.False(t, w.DoorActive)
	assert.True(t, w.Suspended())
}

func TestSuspendedWorldDoesNotMove(t *testing.T) {
	w := newWorld(t)
	w.Paused = true
	w.Audio = append(w.Audio, world.AudioShoot)
	pos, frame := w.Player.Pos, w.Frame

	Step(w, world.Input{Active: true, Direction: geom.V(1, 0), Magnitude: 1}, 400, 700)
	assert.Equal(t, pos, w.Player.Pos)
	assert.Equal(t, frame, w.Frame)
	assert.Zero(t, w.RunTime)
	assert.Equal(t, []string{world.AudioShoot}, w.Audio)
}

func TestPlayerMovesAndIsClamped(t *testing.T) {
	w := newWorld(t)
	w.Obstacles = nil
	w.Player.Pos = geom.V(13, 600)
	Step(w, world.Input{Active: true, Direction: geom.V(-1, 0), Magnitude: 1}, 400, 700)
	assert.Equal(t, world.PlayerSize/2, w.Player.Pos.X)
	assert.True(t, w.Player.Moving)
	assert.Equal(t, geom.V(-1, 0), w.Player.Facing)
}

func TestAutoAttackFiresWhenStill(t *testing.T) {
	w := newWorld(t)
	w.Acquire(data.Multishot)
	spawn(w, data.MeleeBasic, w.Player.Pos.Add(geom.V(0, -200)))

	runPhase(w, coresys.PhaseAutoAttack, 1)
	assert.Len(t, w.Projectiles, 3)
	assert.InDelta(t, 1/w.Player.AttackSpeed, w.Player.AttackCooldown, 1e-9)
	assert.Equal(t, []string{world.AudioShoot}, w.Audio)

	runPhase(w, coresys.PhaseAutoAttack, 1)
	assert.Len(t, w.Projectiles, 3, "still cooling down")
}

func TestCameraStaysInArena(t *testing.T) {
	w := newWorld(t)
	w.Player.Pos = geom.V(5, 5)
	runPhase(w, coresys.PhaseCamera, 100)
	assert.Equal(t, geom.Vec2{}, w.Camera)
}

func TestSameSeedSameRun(t *testing.T) {
	a := world.New(data.Default(), world.Config{Chapter: 1, Seed: 11})
	b := world.New(data.Default(), world.Config{Chapter: 1, Seed: 11})
	for i := 0; i < 600; i++ {
		Step(a, world.Input{}, 400, 700)
		Step(b, world.Input{}, 400, 700)
	}
	assert.Equal(t, a.Player, b.Player)
	assert.Equal(t, a.Kills, b.Kills)
	assert.Equal(t, a.Rand.Calls, b.Rand.Calls)
	assert.Equal(t, len(a.Enemies), len(b.Enemies))
}
