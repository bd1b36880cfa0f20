package world

import (
	"github.com/l1jgo/roguesim/internal/core/ecs"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
)

// StatusEffect is an elemental effect ticking on an enemy.
type StatusEffect struct {
	Kind      data.Effect
	Duration  float64
	TickTimer float64
}

// BossState is the payload only boss enemies carry.
type BossState struct {
	Phase        int // 1..3, never decreases
	PatternTimer float64
	Dashing      bool
	DashTarget   geom.Vec2
	Invulnerable bool

	Phase2Threshold float64
	Phase3Threshold float64
}

// Enemy is a regular enemy or, when Boss is non-nil, a boss.
type Enemy struct {
	ID       ecs.EntityID
	Type     data.EnemyType
	Behavior data.Behavior
	Pos      geom.Vec2
	Size     geom.Size
	HP       float64
	MaxHP    float64
	Alive    bool

	Speed           float64
	BaseSpeed       float64
	Damage          float64
	AttackRange     float64
	AttackCooldown  float64
	AttackWindup    float64
	ProjectileSpeed float64
	Volley          int

	XP    int
	Coins int

	SpawnTimer float64 // invulnerable while > 0
	DeathTimer float64 // > 0 while the death animation plays

	Status []StatusEffect
	Boss   *BossState
}

func (e *Enemy) IsBoss() bool    { return e.Boss != nil }
func (e *Enemy) Spawning() bool  { return e.SpawnTimer > 0 }
func (e *Enemy) Radius() float64 { return e.Size.Radius() }

// Targetable reports whether player attacks may select e.
func (e *Enemy) Targetable() bool { return e.Alive && e.SpawnTimer <= 0 }

func (e *Enemy) Invulnerable() bool { return e.Boss != nil && e.Boss.Invulnerable }

// Hurt subtracts amount and marks the enemy dead at zero HP. HP never goes
// negative and Alive flips exactly once.
func (e *Enemy) Hurt(amount float64) {
	if !e.Alive {
		return
	}
	e.HP -= amount
	if e.HP <= 0 {
		e.HP = 0
		e.Alive = false
	}
}

// EnemyScaling carries chapter difficulty and the room modifier.
type EnemyScaling struct {
	Difficulty float64
	Modifier   data.Modifier
}

// SpawnEnemy creates an enemy of type t at pos and appends it. Regular types
// are scaled by sc when non-nil; bosses ignore scaling. Content tables are
// validated on load, so a missing stat block is a programming error.
func (w *World) SpawnEnemy(t data.EnemyType, pos geom.Vec2, sc *EnemyScaling) *Enemy {
	var e *Enemy
	if t.IsBoss() {
		e = w.newBoss(t, pos)
	} else {
		e = w.newRegular(t, pos, sc)
	}
	w.Enemies = append(w.Enemies, e)
	return e
}

func (w *World) newRegular(t data.EnemyType, pos geom.Vec2, sc *EnemyScaling) *Enemy {
	st := w.Content.Enemies.Get(t)
	if st == nil {
		panic("world: no stat block for enemy type " + t.String())
	}
	hp, dmg, speed := st.HP, st.Damage, st.Speed
	if sc != nil {
		hp = geom.Round(hp * (1 + (sc.Difficulty-1)*DifficultyHPScaling))
		dmg = geom.Round(dmg * (1 + (sc.Difficulty-1)*DifficultyDamageScaling))
		m := sc.Modifier
		switch m.Kind {
		case data.ModifierSwarm:
			hp = geom.Round(hp * m.HPMul)
		case data.ModifierElite:
			hp = geom.Round(hp * m.HPMul)
			dmg = geom.Round(dmg * m.DamageMul)
		case data.ModifierFast:
			speed = geom.Round(speed * m.SpeedMul)
		}
	}
	return &Enemy{
		ID:              w.Entities.Create(),
		Type:            t,
		Behavior:        st.Behavior,
		Pos:             pos,
		Size:            geom.Size{W: st.Size, H: st.Size},
		HP:              hp,
		MaxHP:           hp,
		Alive:           true,
		Speed:           speed,
		BaseSpeed:       speed,
		Damage:          dmg,
		AttackRange:     st.AttackRange,
		AttackCooldown:  st.AttackCooldown,
		ProjectileSpeed: st.ProjectileSpeed,
		Volley:          st.Volley,
		XP:              st.XP,
		Coins:           st.Coins,
		SpawnTimer:      EnemySpawnTime,
	}
}

func (w *World) newBoss(t data.EnemyType, pos geom.Vec2) *Enemy {
	st := w.Content.Bosses.Get(t)
	if st == nil {
		panic("world: no stat block for boss type " + t.String())
	}
	return &Enemy{
		ID:              w.Entities.Create(),
		Type:            t,
		Behavior:        data.BossPattern,
		Pos:             pos,
		Size:            geom.Size{W: st.Size, H: st.Size},
		HP:              st.HP,
		MaxHP:           st.HP,
		Alive:           true,
		Speed:           st.Speed,
		BaseSpeed:       st.Speed,
		Damage:          st.Damage,
		AttackRange:     BossAttackRange,
		ProjectileSpeed: BossProjectileSpeed,
		XP:              st.XP,
		Coins:           st.Coins,
		SpawnTimer:      BossSpawnTime,
		Boss: &BossState{
			Phase:           1,
			PatternTimer:    BossFirstAttackDelay,
			Phase2Threshold: st.Phase2Threshold,
			Phase3Threshold: st.Phase3Threshold,
		},
	}
}

func effectDuration(k data.Effect) float64 {
	switch k {
	case data.Poison:
		return PoisonDuration
	case data.Freeze:
		return FreezeDuration
	default:
		return BurnDuration
	}
}

// ApplyStatus adds effect k, or refreshes its duration if already present.
func (e *Enemy) ApplyStatus(k data.Effect) {
	for i := range e.Status {
		if e.Status[i].Kind == k {
			e.Status[i].Duration = effectDuration(k)
			return
		}
	}
	e.Status = append(e.Status, StatusEffect{Kind: k, Duration: effectDuration(k), TickTimer: StatusTickInterval})
	if k == data.Freeze {
		e.Speed = e.BaseSpeed * FreezeSpeedFactor
	}
}

// HasStatus reports whether effect k is active.
func (e *Enemy) HasStatus(k data.Effect) bool {
	for _, s := range e.Status {
		if s.Kind == k {
			return true
		}
	}
	return false
}

// removeEnemyAt drops the i-th enemy and retires its id.
func (w *World) removeEnemyAt(i int) {
	w.Entities.Destroy(w.Enemies[i].ID)
	w.Enemies = append(w.Enemies[:i], w.Enemies[i+1:]...)
}

// AgeDeadEnemies runs death animations and removes finished ones.
func (w *World) AgeDeadEnemies(dt float64) {
	for i := len(w.Enemies) - 1; i >= 0; i-- {
		e := w.Enemies[i]
		if !e.Alive && e.DeathTimer > 0 {
			e.DeathTimer -= dt
			if e.DeathTimer <= 0 {
				w.removeEnemyAt(i)
			}
		}
	}
}
