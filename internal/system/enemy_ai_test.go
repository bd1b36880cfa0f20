package system

import (
	"testing"

	"github.com/stretchr/testify/assert"

	coresys "github.com/l1jgo/roguesim/internal/core/system"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
	"github.com/l1jgo/roguesim/internal/world"
)

func TestSeparationPushesAwayFromOverlaps(t *testing.T) {
	w := newWorld(t)
	e := spawn(w, data.MeleeBasic, geom.V(400, 300))
	spawn(w, data.MeleeBasic, geom.V(410, 300))

	// Ignored: out of range, stacked exactly, dead, and a boss.
	spawn(w, data.MeleeBasic, geom.V(400, 340))
	spawn(w, data.MeleeBasic, geom.V(400, 300))
	dead := spawn(w, data.MeleeBasic, geom.V(400, 310))
	dead.Alive = false
	spawn(w, data.BossGolem, geom.V(395, 300))

	got := separation(w, e)
	assert.InDelta(t, -2.0/3, got.X, 1e-9)
	assert.InDelta(t, 0, got.Y, 1e-9)
}

func TestSeparationSumsNeighbours(t *testing.T) {
	w := newWorld(t)
	e := spawn(w, data.MeleeBasic, geom.V(400, 300))
	spawn(w, data.MeleeBasic, geom.V(415, 300))
	spawn(w, data.MeleeBasic, geom.V(400, 285))

	got := separation(w, e)
	assert.InDelta(t, -0.5, got.X, 1e-9)
	assert.InDelta(t, 0.5, got.Y, 1e-9)
}

func TestChasersSpreadOut(t *testing.T) {
	w := newWorld(t)
	w.Obstacles = nil
	a := spawn(w, data.MeleeBasic, geom.V(395, 200))
	b := spawn(w, data.MeleeBasic, geom.V(405, 200))

	runPhase(w, coresys.PhaseEnemyAI, 10)
	assert.Greater(t, b.Pos.X-a.Pos.X, 10.0)
	assert.Greater(t, a.Pos.Y, 200.0, "both still close in on the player")
	assert.Greater(t, b.Pos.Y, 200.0)

	// Without a neighbour the chaser heads straight for the player.
	w = newWorld(t)
	w.Obstacles = nil
	c := spawn(w, data.MeleeBasic, geom.V(400, 200))
	runPhase(w, coresys.PhaseEnemyAI, 1)
	assert.InDelta(t, 400, c.Pos.X, 1e-9)
	assert.InDelta(t, 200+c.Speed*world.FixedTimestep, c.Pos.Y, 1e-9)
}
