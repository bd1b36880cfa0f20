package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventsDeliveredAfterSwap(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(e PlayerLeveledUp) { got = append(got, e.Level) })

	Emit(b, PlayerLeveledUp{Level: 2})
	b.DispatchAll()
	assert.Empty(t, got, "back buffer is not visible before swap")
	assert.Equal(t, 1, b.Pending())

	b.Flush()
	assert.Equal(t, []int{2}, got)
	assert.Equal(t, 0, b.Pending())

	b.Flush()
	assert.Equal(t, []int{2}, got, "front buffer is consumed once")
}

func TestDispatchKeepsEmissionOrderAcrossTypes(t *testing.T) {
	b := NewBus()
	var order []string
	Subscribe(b, func(RoomCleared) { order = append(order, "cleared") })
	Subscribe(b, func(DoorOpened) { order = append(order, "door") })
	Subscribe(b, func(WaveStarted) { order = append(order, "wave") })

	Emit(b, WaveStarted{Room: 1, Wave: 2})
	Emit(b, RoomCleared{Room: 1})
	Emit(b, DoorOpened{Room: 1})
	b.Flush()
	assert.Equal(t, []string{"wave", "cleared", "door"}, order)
}

func TestEmitOnNilBusIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { Emit[RunWon](nil, RunWon{}) })
}
