package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type trace struct{ order []string }

func rec(p Phase, name string) Func[*trace] {
	return Func[*trace]{P: p, Fn: func(t *trace, _ float64) { t.order = append(t.order, name) }}
}

func TestRunnerOrdersByPhaseStably(t *testing.T) {
	r := NewRunner[*trace]()
	r.Register(rec(PhaseCamera, "camera"))
	r.Register(rec(PhaseSpawn, "spawn-a"))
	r.Register(rec(PhaseRoomTransition, "transition"))
	r.Register(rec(PhaseSpawn, "spawn-b"))

	tr := &trace{}
	r.Tick(tr, 1.0/60)
	assert.Equal(t, []string{"transition", "spawn-a", "spawn-b", "camera"}, tr.order)
	assert.Equal(t, []Phase{PhaseRoomTransition, PhaseSpawn, PhaseSpawn, PhaseCamera}, r.Phases())
}

func TestTickPhaseRunsOnlyThatPhase(t *testing.T) {
	r := NewRunner[*trace]()
	r.Register(rec(PhaseHits, "hits"))
	r.Register(rec(PhaseMelee, "melee"))

	tr := &trace{}
	r.TickPhase(tr, PhaseMelee, 0)
	assert.Equal(t, []string{"melee"}, tr.order)
}

func TestRunnerPassesDelta(t *testing.T) {
	var got float64
	r := NewRunner[*trace]()
	r.Register(Func[*trace]{P: PhasePlayer, Fn: func(_ *trace, dt float64) { got = dt }})
	r.Tick(&trace{}, 0.25)
	assert.Equal(t, 0.25, got)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "progression", PhaseProgression.String())
}
