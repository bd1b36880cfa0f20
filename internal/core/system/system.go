package system

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseRoomTransition Phase = iota // 0: clear-pause countdown, door entry
	PhaseSpawn                       // 1: staggered spawn queue
	PhasePlayer                      // 2: input-driven movement, timers
	PhaseAutoAttack                  // 3: player volley at nearest target
	PhaseEnemyAI                     // 4: chase / kite / windup
	PhaseBossAI                      // 5: boss phase + pattern state machines
	PhaseProjectiles                 // 6: homing, motion, walls, rocks
	PhaseHits                        // 7: projectile vs entity resolution
	PhaseMelee                       // 8: contact damage
	PhaseDeaths                      // 9: kill bookkeeping, drops, death animations
	PhaseStatus                      // 10: poison / freeze / burn ticks
	PhaseAbilities                   // 11: regen, shield, periodic AoE
	PhaseAging                       // 12: damage numbers, effects, particles
	PhasePickups                     // 13: drop magnetism, collection, leveling
	PhaseCamera                      // 14: camera follow
	PhaseProgression                 // 15: wave / room state machine
)

var phaseNames = [...]string{
	"room_transition", "spawn", "player", "auto_attack", "enemy_ai", "boss_ai",
	"projectiles", "hits", "melee", "deaths", "status", "abilities", "aging",
	"pickups", "camera", "progression",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is one ordered pass over a tick context C.
type System[C any] interface {
	Phase() Phase
	Update(ctx C, dt float64)
}

// Func adapts a plain function to System.
type Func[C any] struct {
	P  Phase
	Fn func(ctx C, dt float64)
}

func (f Func[C]) Phase() Phase             { return f.P }
func (f Func[C]) Update(ctx C, dt float64) { f.Fn(ctx, dt) }
