package world

import (
	"github.com/l1jgo/roguesim/internal/core/event"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
)

// SpawnEntry is a pending enemy appearance.
type SpawnEntry struct {
	Type  data.EnemyType
	Pos   geom.Vec2
	Delay float64
}

// spawnPosition picks a random arena-edge point far enough from the player,
// falling back to the corner opposite the player.
func (w *World) spawnPosition(player geom.Vec2) geom.Vec2 {
	const m = SpawnEdgeMargin
	for attempt := 0; attempt < SpawnEdgeAttempts; attempt++ {
		var pos geom.Vec2
		switch w.Rand.Intn(4) {
		case 0:
			pos = geom.V(m+w.Rand.Float()*(ArenaWidth-2*m), m)
		case 1:
			pos = geom.V(m+w.Rand.Float()*(ArenaWidth-2*m), ArenaHeight-m)
		case 2:
			pos = geom.V(m, m+w.Rand.Float()*(ArenaHeight-2*m))
		default:
			pos = geom.V(ArenaWidth-m, m+w.Rand.Float()*(ArenaHeight-2*m))
		}
		if pos.DistSq(player) >= SpawnMinPlayerDistance*SpawnMinPlayerDistance {
			return pos
		}
	}
	corner := geom.V(m, m)
	if player.X < ArenaWidth/2 {
		corner.X = ArenaWidth - m
	}
	if player.Y < ArenaHeight/2 {
		corner.Y = ArenaHeight - m
	}
	return corner
}

// queueWave builds the staggered spawn queue of a wave.
func (w *World) queueWave(wave data.Wave, countMul float64) {
	w.SpawnQueue = w.SpawnQueue[:0]
	delay := wave.SpawnDelay
	for _, g := range wave.Enemies {
		count := g.Count
		if countMul != 1 {
			count = max(1, int(geom.Round(float64(g.Count)*countMul)))
		}
		for i := 0; i < count; i++ {
			w.SpawnQueue = append(w.SpawnQueue, SpawnEntry{
				Type:  g.Type,
				Pos:   w.spawnPosition(w.Player.Pos),
				Delay: delay,
			})
			delay += SpawnStagger
		}
	}
}

// SpawnCurrentWave queues the current wave of the current room. Boss waves
// in boss rooms skip the count multiplier.
func (w *World) SpawnCurrentWave() {
	room := w.CurrentRoom()
	if room == nil || w.Wave >= len(room.Waves) {
		return
	}
	wave := room.Waves[w.Wave]
	countMul := w.Modifier.CountMul
	if room.Boss && wave.HasBoss() {
		countMul = 1
	}
	w.queueWave(wave, countMul)
	event.Emit(w.Events, event.WaveStarted{Room: w.Room, Wave: w.Wave + 1, Enemies: len(w.SpawnQueue)})
}

// Scaling returns the regular-enemy scaling of the current room.
func (w *World) Scaling() *EnemyScaling {
	return &EnemyScaling{Difficulty: w.Chapter.Difficulty, Modifier: w.Modifier}
}

// ProcessSpawnQueue counts down pending entries and spawns the due ones.
func (w *World) ProcessSpawnQueue(dt float64) {
	sc := w.Scaling()
	for i := len(w.SpawnQueue) - 1; i >= 0; i-- {
		w.SpawnQueue[i].Delay -= dt
		if w.SpawnQueue[i].Delay <= 0 {
			entry := w.SpawnQueue[i]
			w.SpawnEnemy(entry.Type, entry.Pos, sc)
			w.SpawnQueue = append(w.SpawnQueue[:i], w.SpawnQueue[i+1:]...)
		}
	}
}

// AdvanceToNextRoom moves the run into the next room: player back to the
// center, fresh obstacles, no projectiles or pending zones, first wave
// queued.
func (w *World) AdvanceToNextRoom() {
	w.Room++
	w.Wave = 0
	w.RoomCleared = false
	w.DoorActive = false
	w.RoomTransitionTimer = 0
	w.ClearProjectiles()
	w.Zones = w.Zones[:0]

	w.Modifier = data.NoModifier
	if room := w.CurrentRoom(); room != nil {
		w.Modifier = room.Modifier
	}
	w.Player.Pos = geom.V(ArenaWidth/2, ArenaHeight/2)
	w.Obstacles = GenerateObstacles(w.ChapterID, w.Room-1)

	event.Emit(w.Events, event.RoomEntered{Room: w.Room, Modifier: w.Modifier.Kind})
	w.SpawnCurrentWave()
}
