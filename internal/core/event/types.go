package event

import (
	"github.com/l1jgo/roguesim/internal/core/ecs"
	"github.com/l1jgo/roguesim/internal/data"
)

// Run milestones. Rooms and waves are 1-based here, matching what a player sees.

type WaveStarted struct {
	Room    int
	Wave    int
	Enemies int
}

type RoomCleared struct {
	Room    int
	RunTime float64
}

type DoorOpened struct {
	Room int
}

type RoomEntered struct {
	Room     int
	Modifier data.ModifierKind
}

type EnemyKilled struct {
	ID   ecs.EntityID
	Type data.EnemyType
	Boss bool
}

type BossPhaseChanged struct {
	ID    ecs.EntityID
	Type  data.EnemyType
	Phase int
}

type PlayerLeveledUp struct {
	Level int
}

type SkillAcquired struct {
	Skill data.SkillID
	Level int
}

type PlayerDied struct {
	Room    int
	Kills   int
	RunTime float64
}

type RunWon struct {
	Chapter int
	Kills   int
	Coins   int
	RunTime float64
}
