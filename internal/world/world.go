package world

import (
	"github.com/l1jgo/roguesim/internal/core/ecs"
	"github.com/l1jgo/roguesim/internal/core/event"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
)

// Audio event tokens written to World.Audio.
const (
	AudioShoot       = "shoot"
	AudioHit         = "hit"
	AudioPlayerHit   = "player_hit"
	AudioEnemyDeath  = "enemy_death"
	AudioLevelUp     = "level_up"
	AudioCoinCollect = "coin_collect"
	AudioBossAttack  = "boss_attack"
	AudioRoomClear   = "room_clear"
	AudioDoorOpen    = "door_open"
)

// Input is the joystick-style movement sample read once per tick.
type Input struct {
	Active    bool      `msgpack:"a"`
	Direction geom.Vec2 `msgpack:"d"` // unit vector
	Magnitude float64   `msgpack:"m"` // 0..1
}

// Shake is a screen-shake request for the renderer.
type Shake struct {
	Intensity float64 `msgpack:"i"`
	Duration  float64 `msgpack:"d"`
}

// Config selects what a new run starts with.
type Config struct {
	Chapter int
	Hero    data.HeroID
	Bonuses PermanentBonuses
	Seed    int64
}

// World is the whole mutable state of one run. It is owned by a single
// goroutine; collaborators read it between ticks and write only Input.
type World struct {
	Content  *data.Content
	Chapter  *data.Chapter
	Rand     *RNG
	Entities *ecs.EntityPool
	Events   *event.Bus

	Player        Player
	Enemies       []*Enemy
	Projectiles   []*Projectile
	Drops         []*Drop
	Particles     []Particle
	DamageNumbers []DamageNumber
	Effects       []AbilityEffect
	Zones         []GroundZone
	SpawnQueue    []SpawnEntry
	Obstacles     []Obstacle

	ChapterID  int
	Room       int // 1-based
	Wave       int // 0-based within the room
	TotalRooms int
	Modifier   data.Modifier

	RoomCleared         bool
	DoorActive          bool
	GameOver            bool
	Victory             bool
	Paused              bool
	SkillSelection      bool
	RoomTransitionTimer float64
	Door                geom.Vec2

	Camera  geom.Vec2
	Kills   int
	RunTime float64
	Frame   uint64

	// Per-frame output, cleared at the start of every unsuspended tick.
	Audio  []string
	Shakes []Shake
}

// New builds a fresh run: player from hero and bonuses, first room obstacles,
// and the first wave queued. Unknown chapters fall back to the first one.
func New(c *data.Content, cfg Config) *World {
	ch := c.Chapters.Get(cfg.Chapter)
	w := &World{
		Content:    c,
		Chapter:    ch,
		Rand:       NewRNG(cfg.Seed),
		Entities:   ecs.NewEntityPool(),
		Events:     event.NewBus(),
		ChapterID:  ch.ID,
		Room:       1,
		TotalRooms: len(ch.Rooms),
		Door:       geom.V(ArenaWidth/2, 0),
		Modifier:   data.NoModifier,
	}

	hero := c.Heroes.Get(cfg.Hero)
	w.Player = newPlayer(w.Entities.Create(), hero, cfg.Bonuses)
	if hero.StartingSkill != nil {
		w.Acquire(*hero.StartingSkill)
	}

	w.Obstacles = GenerateObstacles(w.ChapterID, 0)
	if room := ch.Room(0); room != nil {
		w.Modifier = room.Modifier
	}
	w.SpawnCurrentWave()
	return w
}

// Suspended reports whether ticks are currently frozen.
func (w *World) Suspended() bool {
	return w.Paused || w.GameOver || w.Victory || w.SkillSelection
}

// Over reports whether the run has ended.
func (w *World) Over() bool { return w.GameOver || w.Victory }

// Combatable reports whether the combat passes run this tick: during a room and
// once its door is open, but not during the clear pause.
func (w *World) Combatable() bool { return !w.RoomCleared || w.DoorActive }

// CurrentRoom returns the active room config, or nil.
func (w *World) CurrentRoom() *data.Room { return w.Chapter.Room(w.Room - 1) }

func (w *World) PlayAudio(token string) { w.Audio = append(w.Audio, token) }

func (w *World) AddShake(intensity, duration float64) {
	w.Shakes = append(w.Shakes, Shake{Intensity: intensity, Duration: duration})
}

// ResetFrameOutput clears the per-frame audio and shake queues.
func (w *World) ResetFrameOutput() {
	w.Audio = w.Audio[:0]
	w.Shakes = w.Shakes[:0]
}

// EnemyByID finds a live-listed enemy.
func (w *World) EnemyByID(id ecs.EntityID) *Enemy {
	for _, e := range w.Enemies {
		if e.ID == id {
			return e
		}
	}
	return nil
}
