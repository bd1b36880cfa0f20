package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// WaveGroup is count enemies of one type inside a wave.
type WaveGroup struct {
	Type  EnemyType `yaml:"type"`
	Count int       `yaml:"count"`
}

// Wave is an ordered list of groups spawned with a shared initial delay.
type Wave struct {
	SpawnDelay float64     `yaml:"spawn_delay"`
	Enemies    []WaveGroup `yaml:"enemies"`
}

// HasBoss reports whether any group of the wave is a boss.
func (w Wave) HasBoss() bool {
	for _, g := range w.Enemies {
		if g.Type.IsBoss() {
			return true
		}
	}
	return false
}

// Modifier alters regular enemies of a room. Multipliers a kind does not use
// are normalized to 1 on load.
type Modifier struct {
	Kind      ModifierKind `yaml:"kind"`
	HPMul     float64      `yaml:"hp"`
	DamageMul float64      `yaml:"damage"`
	SpeedMul  float64      `yaml:"speed"`
	CountMul  float64      `yaml:"count"`
}

// NoModifier is the neutral modifier.
var NoModifier = Modifier{Kind: ModifierNone, HPMul: 1, DamageMul: 1, SpeedMul: 1, CountMul: 1}

func (m Modifier) normalized() Modifier {
	out := NoModifier
	out.Kind = m.Kind
	switch m.Kind {
	case ModifierSwarm:
		out.HPMul, out.CountMul = orOne(m.HPMul), orOne(m.CountMul)
	case ModifierElite:
		out.HPMul, out.DamageMul, out.CountMul = orOne(m.HPMul), orOne(m.DamageMul), orOne(m.CountMul)
	case ModifierFast:
		out.SpeedMul = orOne(m.SpeedMul)
	}
	return out
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// Room is a sequence of waves plus an optional modifier.
type Room struct {
	Boss     bool     `yaml:"boss"`
	Modifier Modifier `yaml:"modifier"`
	Waves    []Wave   `yaml:"waves"`
}

// Chapter is an ordered list of rooms with a difficulty scalar.
type Chapter struct {
	ID         int     `yaml:"id"`
	Name       string  `yaml:"name"`
	Difficulty float64 `yaml:"difficulty"`
	Rooms      []Room  `yaml:"rooms"`
}

// Room returns the room at index, or nil when out of range.
func (c *Chapter) Room(index int) *Room {
	if index < 0 || index >= len(c.Rooms) {
		return nil
	}
	return &c.Rooms[index]
}

// ChapterTable holds the chapters in declaration order.
type ChapterTable struct {
	chapters []Chapter
}

// Get returns the chapter with id, falling back to the first chapter.
func (t *ChapterTable) Get(id int) *Chapter {
	if c, ok := t.Lookup(id); ok {
		return c
	}
	return &t.chapters[0]
}

// Lookup returns the chapter with id without falling back.
func (t *ChapterTable) Lookup(id int) (*Chapter, bool) {
	for i := range t.chapters {
		if t.chapters[i].ID == id {
			return &t.chapters[i], true
		}
	}
	return nil, false
}

// Room returns the room config, or nil if either index is out of range.
func (t *ChapterTable) Room(chapterID, roomIndex int) *Room {
	return t.Get(chapterID).Room(roomIndex)
}

func (t *ChapterTable) Count() int { return len(t.chapters) }

type chapterFile struct {
	Chapters []Chapter `yaml:"chapters"`
}

func parseChapterTable(raw []byte) (*ChapterTable, error) {
	var f chapterFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse chapters: %w", err)
	}
	if len(f.Chapters) == 0 {
		return nil, fmt.Errorf("chapters: no chapters defined")
	}
	ids := make(map[int]bool, len(f.Chapters))
	for ci := range f.Chapters {
		c := &f.Chapters[ci]
		if ids[c.ID] {
			return nil, fmt.Errorf("chapters: duplicate id %d", c.ID)
		}
		ids[c.ID] = true
		if c.Difficulty < 1 {
			return nil, fmt.Errorf("chapter %d: difficulty must be >= 1", c.ID)
		}
		if len(c.Rooms) == 0 {
			return nil, fmt.Errorf("chapter %d: no rooms", c.ID)
		}
		for ri := range c.Rooms {
			r := &c.Rooms[ri]
			r.Modifier = r.Modifier.normalized()
			if len(r.Waves) == 0 {
				return nil, fmt.Errorf("chapter %d room %d: no waves", c.ID, ri+1)
			}
			for wi, w := range r.Waves {
				if len(w.Enemies) == 0 {
					return nil, fmt.Errorf("chapter %d room %d wave %d: empty", c.ID, ri+1, wi+1)
				}
				for _, g := range w.Enemies {
					if g.Count < 1 {
						return nil, fmt.Errorf("chapter %d room %d wave %d: %s count must be >= 1", c.ID, ri+1, wi+1, g.Type)
					}
					if g.Type.IsBoss() && !r.Boss {
						return nil, fmt.Errorf("chapter %d room %d: %s outside a boss room", c.ID, ri+1, g.Type)
					}
				}
			}
		}
	}
	return &ChapterTable{chapters: f.Chapters}, nil
}
