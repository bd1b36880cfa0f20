package world

import "github.com/l1jgo/roguesim/internal/geom"

// ObstacleKind says what an obstacle blocks.
type ObstacleKind uint8

const (
	Rock  ObstacleKind = iota // blocks movement and projectiles
	Water                     // blocks movement only
)

func (k ObstacleKind) String() string {
	if k == Water {
		return "water"
	}
	return "rock"
}

// Obstacle is blocking terrain.
type Obstacle struct {
	Kind ObstacleKind
	Rect geom.Rect
}

// Layout generation.
const (
	obstaclePadding     = 50.0
	obstacleMargin      = 15.0
	obstacleAttempts    = 20
	spawnClearance      = 100.0
	doorClearance       = 80.0
	obstacleSeedChapter = 7919
	obstacleSeedRoom    = 1301
)

const (
	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
)

// lcg is a 32-bit linear congruential generator. Layouts depend on its exact
// sequence, so it must not be swapped for another source.
type lcg struct{ s uint32 }

func (g *lcg) next() float64 {
	g.s = g.s*lcgMultiplier + lcgIncrement
	return float64(g.s) / 0xffffffff
}

func inExclusionZone(r geom.Rect) bool {
	c := r.Center()
	dx := abs(c.X - ArenaWidth/2)
	if dx < spawnClearance && abs(c.Y-ArenaHeight/2) < spawnClearance {
		return true
	}
	return dx < doorClearance && r.Min.Y < doorClearance
}

// GenerateObstacles returns the fixed layout of a room. The same chapter and
// room index always give the same layout. Placement is best effort: an
// obstacle that finds no free spot in its attempts is left out.
func GenerateObstacles(chapterID, roomIndex int) []Obstacle {
	rng := &lcg{s: uint32(int32(chapterID*obstacleSeedChapter + roomIndex*obstacleSeedRoom))}
	var out []Obstacle

	const (
		minX = obstaclePadding
		maxX = ArenaWidth - obstaclePadding
		minY = obstaclePadding
		maxY = ArenaHeight - obstaclePadding
	)

	rocks := 4 + int(rng.next()*3)
	waters := 3 + int(rng.next()*2)

	place := func(kind ObstacleKind, w, h float64) {
		for attempt := 0; attempt < obstacleAttempts; attempt++ {
			r := geom.Rect{
				Min:  geom.V(minX+rng.next()*(maxX-minX-w), minY+rng.next()*(maxY-minY-h)),
				Size: geom.Size{W: w, H: h},
			}
			if inExclusionZone(r) {
				continue
			}
			free := true
			for _, o := range out {
				if r.OverlapsWithMargin(o.Rect, obstacleMargin) {
					free = false
					break
				}
			}
			if free {
				out = append(out, Obstacle{Kind: kind, Rect: r})
				return
			}
		}
	}

	for i := 0; i < rocks; i++ {
		w := 40 + rng.next()*20
		h := 40 + rng.next()*20
		place(Rock, w, h)
	}
	for i := 0; i < waters; i++ {
		w := 70 + rng.next()*40
		h := 30 + rng.next()*15
		place(Water, w, h)
	}
	return out
}

// ResolveObstacles returns the push-out for a circle against the first
// obstacle it overlaps.
func ResolveObstacles(pos geom.Vec2, radius float64, obs []Obstacle) (geom.Vec2, bool) {
	for _, o := range obs {
		if push, ok := o.Rect.PushOut(pos, radius); ok {
			return push, true
		}
	}
	return geom.Vec2{}, false
}

// ProjectileBlocked reports whether pos lies inside any rock.
func ProjectileBlocked(pos geom.Vec2, obs []Obstacle) bool {
	for _, o := range obs {
		if o.Kind == Rock && o.Rect.Contains(pos) {
			return true
		}
	}
	return false
}
