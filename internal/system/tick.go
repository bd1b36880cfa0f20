package system

import (
	coresys "github.com/l1jgo/roguesim/internal/core/system"
	"github.com/l1jgo/roguesim/internal/world"
)

// Tick is what every pass sees during one fixed step: the world being
// advanced plus the input and viewport sampled for that step.
type Tick struct {
	World *world.World
	Input world.Input
	ViewW float64
	ViewH float64
}

// Pipeline is the ordered set of passes that make up one step.
type Pipeline = coresys.Runner[*Tick]

// NewPipeline registers every pass. The runner is sorted before it is
// returned, so Tick only reads it afterwards and one pipeline may drive many
// worlds from different goroutines.
func NewPipeline() *Pipeline {
	r := coresys.NewRunner[*Tick]()
	r.Register(RoomTransitionSystem{})
	r.Register(SpawnSystem{})
	r.Register(PlayerSystem{})
	r.Register(AutoAttackSystem{})
	r.Register(EnemyAISystem{})
	r.Register(BossAISystem{})
	r.Register(ProjectileSystem{})
	r.Register(HitSystem{})
	r.Register(MeleeSystem{})
	r.Register(DeathSystem{})
	r.Register(StatusSystem{})
	r.Register(AbilitySystem{})
	r.Register(AgingSystem{})
	r.Register(PickupSystem{})
	r.Register(CameraSystem{})
	r.Register(ProgressionSystem{})
	r.Phases()
	return r
}

var defaultPipeline = NewPipeline()

// Advance runs one fixed step over w. While the world is suspended (paused,
// over, or waiting for a skill choice) nothing changes, not even the
// per-frame output queues.
func Advance(w *world.World, in world.Input, dt, viewW, viewH float64) {
	if w.Suspended() {
		return
	}
	w.ResetFrameOutput()
	w.RunTime += dt

	defaultPipeline.Tick(&Tick{World: w, Input: in, ViewW: viewW, ViewH: viewH}, dt)

	w.Frame++
}

// Step is Advance with the configured fixed timestep.
func Step(w *world.World, in world.Input, viewW, viewH float64) {
	Advance(w, in, world.FixedTimestep, viewW, viewH)
}

// combat reports whether the combat passes run this step.
func (t *Tick) combat() bool { return t.World.Combatable() }
