package system

import (
	"github.com/l1jgo/roguesim/internal/core/event"
	coresys "github.com/l1jgo/roguesim/internal/core/system"
	"github.com/l1jgo/roguesim/internal/geom"
	"github.com/l1jgo/roguesim/internal/world"
)

// RoomTransitionSystem counts down the room-clear pause, then either ends the
// run in victory or opens the door; an open door moves the run on once the
// player walks into it.
type RoomTransitionSystem struct{}

func (RoomTransitionSystem) Phase() coresys.Phase { return coresys.PhaseRoomTransition }

func (RoomTransitionSystem) Update(t *Tick, dt float64) {
	w := t.World
	if !w.RoomCleared {
		return
	}

	if w.RoomTransitionTimer > 0 {
		w.RoomTransitionTimer -= dt
		if w.RoomTransitionTimer <= 0 {
			w.RoomTransitionTimer = 0
			if w.Room >= w.TotalRooms {
				w.Victory = true
				event.Emit(w.Events, event.RunWon{
					Chapter: w.ChapterID,
					Kills:   w.Kills,
					Coins:   w.Player.Coins,
					RunTime: w.RunTime,
				})
				return
			}
			w.DoorActive = true
			w.Door = geom.V(world.ArenaWidth/2, world.DoorY)
			w.PlayAudio(world.AudioDoorOpen)
			event.Emit(w.Events, event.DoorOpened{Room: w.Room})
		}
		return
	}

	if w.DoorActive && w.Player.Pos.Dist(w.Door) < world.DoorCollisionRange {
		w.AdvanceToNextRoom()
	}
}

// SpawnSystem releases queued enemies as their delays run out.
type SpawnSystem struct{}

func (SpawnSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (SpawnSystem) Update(t *Tick, dt float64) { t.World.ProcessSpawnQueue(dt) }

// ProgressionSystem advances the wave state machine: once the room holds no
// enemies (dying ones included) and nothing is queued, the next wave starts,
// or after the last wave the room is cleared.
type ProgressionSystem struct{}

func (ProgressionSystem) Phase() coresys.Phase { return coresys.PhaseProgression }

func (ProgressionSystem) Update(t *Tick, _ float64) {
	w := t.World
	if w.RoomCleared || w.DoorActive || w.RoomTransitionTimer > 0 || w.Over() {
		return
	}
	room := w.CurrentRoom()
	if room == nil {
		return
	}
	if len(w.Enemies) > 0 || len(w.SpawnQueue) > 0 {
		return
	}

	if w.Wave+1 < len(room.Waves) {
		w.Wave++
		w.SpawnCurrentWave()
		return
	}

	w.RoomCleared = true
	w.RoomTransitionTimer = world.RoomClearPause
	w.PlayAudio(world.AudioRoomClear)
	event.Emit(w.Events, event.RoomCleared{Room: w.Room, RunTime: w.RunTime})
}
