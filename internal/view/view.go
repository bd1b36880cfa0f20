// Package view flattens a world into a read-only snapshot for spectators and
// replay checksums.
package view

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/geom"
	"github.com/l1jgo/roguesim/internal/world"
)

// Frame is the state of a world after one tick.
type Frame struct {
	Frame      uint64  `msgpack:"frame"`
	RunTime    float64 `msgpack:"time"`
	Chapter    int     `msgpack:"chapter"`
	Room       int     `msgpack:"room"`
	TotalRooms int     `msgpack:"rooms"`
	Wave       int     `msgpack:"wave"`
	Modifier   string  `msgpack:"modifier,omitempty"`
	Kills      int     `msgpack:"kills"`
	RandCalls  uint64  `msgpack:"rand"`

	Flags Flags     `msgpack:"flags"`
	Door  geom.Vec2 `msgpack:"door"`

	Camera geom.Vec2 `msgpack:"camera"`

	Player        Player         `msgpack:"player"`
	Enemies       []Enemy        `msgpack:"enemies"`
	Projectiles   []Projectile   `msgpack:"projectiles"`
	Drops         []Drop         `msgpack:"drops"`
	Obstacles     []Obstacle     `msgpack:"obstacles"`
	Effects       []Effect       `msgpack:"effects"`
	Zones         []Zone         `msgpack:"zones"`
	DamageNumbers []DamageNumber `msgpack:"numbers"`
	Particles     []Particle     `msgpack:"particles"`

	Audio  []string      `msgpack:"audio"`
	Shakes []world.Shake `msgpack:"shakes"`
}

type Flags struct {
	RoomCleared    bool `msgpack:"room_cleared"`
	DoorActive     bool `msgpack:"door_active"`
	GameOver       bool `msgpack:"game_over"`
	Victory        bool `msgpack:"victory"`
	Paused         bool `msgpack:"paused"`
	SkillSelection bool `msgpack:"skill_selection"`
}

type Player struct {
	Pos       geom.Vec2 `msgpack:"pos"`
	Facing    geom.Vec2 `msgpack:"facing"`
	Moving    bool      `msgpack:"moving"`
	HP        float64   `msgpack:"hp"`
	MaxHP     float64   `msgpack:"max_hp"`
	Alive     bool      `msgpack:"alive"`
	Level     int       `msgpack:"level"`
	XP        int       `msgpack:"xp"`
	XPToNext  int       `msgpack:"xp_next"`
	Coins     int       `msgpack:"coins"`
	Shield    bool      `msgpack:"shield"`
	IFrames   float64   `msgpack:"iframes"`
	Skills    []Skill   `msgpack:"skills"`
	Damage    float64   `msgpack:"damage"`
	AtkSpeed  float64   `msgpack:"attack_speed"`
	Crit      float64   `msgpack:"crit"`
	Dodge     float64   `msgpack:"dodge"`
	Reduction float64   `msgpack:"reduction"`
}

type Skill struct {
	ID    string `msgpack:"id"`
	Level int    `msgpack:"level"`
}

type Enemy struct {
	ID        uint64    `msgpack:"id"`
	Type      string    `msgpack:"type"`
	Pos       geom.Vec2 `msgpack:"pos"`
	Size      geom.Size `msgpack:"size"`
	HP        float64   `msgpack:"hp"`
	MaxHP     float64   `msgpack:"max_hp"`
	Alive     bool      `msgpack:"alive"`
	Spawning  bool      `msgpack:"spawning"`
	Windup    bool      `msgpack:"windup"`
	Status    []string  `msgpack:"status,omitempty"`
	BossPhase int       `msgpack:"boss_phase,omitempty"`
	Hidden    bool      `msgpack:"hidden,omitempty"` // invulnerable boss, e.g. dragon flyover
}

type Projectile struct {
	Pos    geom.Vec2 `msgpack:"pos"`
	Vel    geom.Vec2 `msgpack:"vel"`
	Enemy  bool      `msgpack:"enemy"`
	Pierce bool      `msgpack:"pierce,omitempty"`
}

type Drop struct {
	Kind string    `msgpack:"kind"`
	Pos  geom.Vec2 `msgpack:"pos"`
}

type Obstacle struct {
	Kind string    `msgpack:"kind"`
	Rect geom.Rect `msgpack:"rect"`
}

type Effect struct {
	Kind   string    `msgpack:"kind"`
	Pos    geom.Vec2 `msgpack:"pos"`
	Radius float64   `msgpack:"r"`
	Timer  float64   `msgpack:"t"`
}

type Zone struct {
	Pos    geom.Vec2 `msgpack:"pos"`
	Radius float64   `msgpack:"r"`
	Timer  float64   `msgpack:"t"`
}

type DamageNumber struct {
	Pos   geom.Vec2 `msgpack:"pos"`
	Value float64   `msgpack:"v"`
	Crit  bool      `msgpack:"crit,omitempty"`
	Label string    `msgpack:"label,omitempty"`
	Life  float64   `msgpack:"life"`
}

type Particle struct {
	Pos   geom.Vec2 `msgpack:"pos"`
	Color string    `msgpack:"color"`
	Size  float64   `msgpack:"size"`
	Life  float64   `msgpack:"life"`
}

// Build copies everything a renderer needs out of w. The result shares no
// memory with w.
func Build(w *world.World) *Frame {
	f := &Frame{
		Frame:      w.Frame,
		RunTime:    w.RunTime,
		Chapter:    w.ChapterID,
		Room:       w.Room,
		TotalRooms: w.TotalRooms,
		Wave:       w.Wave,
		Kills:      w.Kills,
		RandCalls:  w.Rand.Calls,
		Flags: Flags{
			RoomCleared:    w.RoomCleared,
			DoorActive:     w.DoorActive,
			GameOver:       w.GameOver,
			Victory:        w.Victory,
			Paused:         w.Paused,
			SkillSelection: w.SkillSelection,
		},
		Door:   w.Door,
		Camera: w.Camera,
		Player: buildPlayer(&w.Player),
		Audio:  append([]string(nil), w.Audio...),
		Shakes: append([]world.Shake(nil), w.Shakes...),
	}
	if w.Modifier.Kind != data.ModifierNone {
		f.Modifier = w.Modifier.Kind.String()
	}

	f.Enemies = make([]Enemy, 0, len(w.Enemies))
	for _, e := range w.Enemies {
		ve := Enemy{
			ID:       uint64(e.ID),
			Type:     e.Type.String(),
			Pos:      e.Pos,
			Size:     e.Size,
			HP:       e.HP,
			MaxHP:    e.MaxHP,
			Alive:    e.Alive,
			Spawning: e.Spawning(),
			Windup:   e.AttackWindup > 0,
			Hidden:   e.Invulnerable(),
		}
		for _, s := range e.Status {
			ve.Status = append(ve.Status, s.Kind.String())
		}
		if e.Boss != nil {
			ve.BossPhase = e.Boss.Phase
		}
		f.Enemies = append(f.Enemies, ve)
	}

	f.Projectiles = make([]Projectile, 0, len(w.Projectiles))
	for _, p := range w.Projectiles {
		f.Projectiles = append(f.Projectiles, Projectile{
			Pos:    p.Pos,
			Vel:    p.Vel,
			Enemy:  p.Owner == world.OwnerEnemy,
			Pierce: p.Piercing,
		})
	}

	f.Drops = make([]Drop, 0, len(w.Drops))
	for _, d := range w.Drops {
		f.Drops = append(f.Drops, Drop{Kind: d.Kind.String(), Pos: d.Pos})
	}

	f.Obstacles = make([]Obstacle, 0, len(w.Obstacles))
	for _, o := range w.Obstacles {
		f.Obstacles = append(f.Obstacles, Obstacle{Kind: o.Kind.String(), Rect: o.Rect})
	}

	f.Effects = make([]Effect, 0, len(w.Effects))
	for _, e := range w.Effects {
		f.Effects = append(f.Effects, Effect{Kind: e.Kind.String(), Pos: e.Pos, Radius: e.Radius, Timer: e.Timer})
	}

	f.Zones = make([]Zone, 0, len(w.Zones))
	for _, z := range w.Zones {
		f.Zones = append(f.Zones, Zone{Pos: z.Pos, Radius: z.Radius, Timer: z.Timer})
	}

	f.DamageNumbers = make([]DamageNumber, 0, len(w.DamageNumbers))
	for _, d := range w.DamageNumbers {
		f.DamageNumbers = append(f.DamageNumbers, DamageNumber{Pos: d.Pos, Value: d.Value, Crit: d.Crit, Label: d.Label, Life: d.Life})
	}

	f.Particles = make([]Particle, 0, len(w.Particles))
	for _, p := range w.Particles {
		f.Particles = append(f.Particles, Particle{Pos: p.Pos, Color: p.Color, Size: p.Size, Life: p.Life})
	}
	return f
}

func buildPlayer(p *world.Player) Player {
	vp := Player{
		Pos:       p.Pos,
		Facing:    p.Facing,
		Moving:    p.Moving,
		HP:        p.HP,
		MaxHP:     p.MaxHP,
		Alive:     p.Alive,
		Level:     p.Level,
		XP:        p.XP,
		XPToNext:  p.XPToNext,
		Coins:     p.Coins,
		Shield:    p.ShieldActive,
		IFrames:   p.IFrames,
		Damage:    p.AttackDamage,
		AtkSpeed:  p.AttackSpeed,
		Crit:      p.CritChance,
		Dodge:     p.DodgeChance,
		Reduction: p.DamageReduction,
	}
	vp.Skills = make([]Skill, 0, len(p.Skills))
	for _, s := range p.Skills {
		vp.Skills = append(vp.Skills, Skill{ID: s.ID.String(), Level: s.Level})
	}
	return vp
}

// Encode serializes a frame to msgpack.
func Encode(f *Frame) ([]byte, error) {
	b, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode frame %d: %w", f.Frame, err)
	}
	return b, nil
}

// Decode parses a msgpack frame.
func Decode(b []byte) (*Frame, error) {
	f := &Frame{}
	if err := msgpack.Unmarshal(b, f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}
