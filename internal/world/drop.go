package world

import "github.com/l1jgo/roguesim/internal/geom"

// DropKind is the pickup type.
type DropKind uint8

const (
	DropXP DropKind = iota
	DropCoin
	DropHP
)

var dropKindNames = [...]string{"xp", "coin", "hp"}

func (k DropKind) String() string {
	if int(k) < len(dropKindNames) {
		return dropKindNames[k]
	}
	return "unknown"
}

// Drop is a pickup lying in the arena. For DropHP, Value is a fraction of max HP.
type Drop struct {
	Kind        DropKind
	Pos         geom.Vec2
	Value       float64
	MagnetRange float64
	Alive       bool
}

// Collected sums what the player picked up in one pass.
type Collected struct {
	XP    int
	Coins int
	HP    float64 // fraction of max HP
}

func (w *World) addDrop(kind DropKind, at geom.Vec2, value float64) {
	w.Drops = append(w.Drops, &Drop{
		Kind:        kind,
		Pos:         geom.V(at.X+w.Rand.Centered(DropJitter), at.Y+w.Rand.Centered(DropJitter)),
		Value:       value,
		MagnetRange: DropMagnetRange,
		Alive:       true,
	})
}

// DropLoot scatters the loot of a dead enemy: always an XP gem, a coin when
// the enemy carries coins, and sometimes a heart.
func (w *World) DropLoot(e *Enemy) {
	w.addDrop(DropXP, e.Pos, float64(e.XP))
	if e.Coins > 0 {
		w.addDrop(DropCoin, e.Pos, float64(e.Coins))
	}
	if w.Rand.Chance(HPDropChance) {
		w.addDrop(DropHP, e.Pos, HPDropRestore)
	}
}

// UpdateDrops pulls drops inside their magnet range toward the player and
// collects the ones within reach. Collection uses the distance measured
// before this tick's pull.
func (w *World) UpdateDrops(dt float64) Collected {
	var got Collected
	pp := w.Player.Pos
	for i := len(w.Drops) - 1; i >= 0; i-- {
		d := w.Drops[i]
		if !d.Alive {
			w.Drops = append(w.Drops[:i], w.Drops[i+1:]...)
			continue
		}

		dir, dist := pp.Sub(d.Pos).Normalize()
		if dist < d.MagnetRange && dist > 0 {
			speed := DropMagnetSpeed * (1 - dist/d.MagnetRange)
			d.Pos = d.Pos.Add(dir.Scale(speed * dt))
		}

		if dist < DropCollectRadius {
			d.Alive = false
			switch d.Kind {
			case DropXP:
				got.XP += int(d.Value)
			case DropCoin:
				got.Coins += int(d.Value)
			case DropHP:
				got.HP += d.Value
			}
			w.Drops = append(w.Drops[:i], w.Drops[i+1:]...)
		}
	}
	return got
}
